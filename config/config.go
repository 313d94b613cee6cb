package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultPort          = "3001"
	DefaultStaticDir     = "dist"
	DefaultServerURL     = "http://localhost:3001"
	DefaultNotifyTimeout = 5 * time.Second
)

// Server holds the settings read by the note server at startup.
type Server struct {
	Port      string
	StaticDir string
	LogLevel  string
	SeedNotes bool
}

// Client holds the settings used by the notes CLI.
type Client struct {
	ServerURL     string
	NotifyTimeout time.Duration
	LogLevel      string
}

// LoadEnv reads a .env file from the working directory if one exists.
// It reports whether a file was loaded; a missing file is not an error.
func LoadEnv() bool {
	return godotenv.Load() == nil
}

func LoadServer() Server {
	return Server{
		Port:      getEnv("PORT", DefaultPort),
		StaticDir: getEnv("STATIC_DIR", DefaultStaticDir),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		SeedNotes: getBool("SEED_NOTES", true),
	}
}

func LoadClient() Client {
	return Client{
		ServerURL:     strings.TrimRight(getEnv("NOTES_SERVER", DefaultServerURL), "/"),
		NotifyTimeout: getDuration("NOTIFY_TIMEOUT", DefaultNotifyTimeout),
		LogLevel:      getEnv("LOG_LEVEL", "warn"),
	}
}

// Addr is the listen address for the configured port.
func (s Server) Addr() string {
	return ":" + s.Port
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
