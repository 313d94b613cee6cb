package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"notesync/config"
	"notesync/internal/client/controller"
	"notesync/internal/client/transport"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	serverURL string
	verbose   bool
	clientCfg config.Client
)

var log = zap.NewNop()

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "notes",
	Short: "Read and edit notes on a notes server",
	Long: `notes keeps a local view of the server's notes in sync while you
list, add, toggle and delete them. Errors are shown as short-lived notices.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := zapcore.WarnLevel
		if verbose {
			level = zapcore.DebugLevel
		} else if parsed, err := zapcore.ParseLevel(clientCfg.LogLevel); err == nil {
			level = parsed
		}

		cfg := zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(level)
		cfg.OutputPaths = []string{"stderr"}
		l, err := cfg.Build()
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		log = l
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	config.LoadEnv()
	clientCfg = config.LoadClient()

	rootCmd.PersistentFlags().StringVar(&serverURL, "server", clientCfg.ServerURL, "Base URL of the notes server")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
}

func newTransport() *transport.Client {
	return transport.New(serverURL)
}

func newController(client controller.NoteClient, opts ...controller.Option) *controller.Controller {
	opts = append([]controller.Option{
		controller.WithLogger(log),
		controller.WithNotifyTimeout(clientCfg.NotifyTimeout),
	}, opts...)
	return controller.New(client, opts...)
}

// loadedController returns a controller holding the server's current notes.
func loadedController(ctx context.Context, opts ...controller.Option) (*controller.Controller, error) {
	c := newController(newTransport(), opts...)
	if err := c.Load(ctx); err != nil {
		reportNotice(c)
		return nil, err
	}
	return c, nil
}

// reportNotice prints the controller's pending notification, if any.
func reportNotice(c *controller.Controller) {
	if msg := c.Notification(); msg != "" {
		fmt.Fprintln(os.Stderr, "!", msg)
	}
}

