package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	Log   *zap.Logger
	Sugar *zap.SugaredLogger
)

func init() {
	// Usable before Init is called (tests, library use).
	Log = zap.NewNop()
	Sugar = Log.Sugar()
}

// Init initializes the global logger configuration.
// Unknown levels fall back to info.
func Init(level string) {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	lvl := zapcore.InfoLevel
	if level != "" {
		if parsed, err := zapcore.ParseLevel(level); err == nil {
			lvl = parsed
		}
	}

	encoder := zapcore.NewJSONEncoder(encoderConfig)
	writer := zapcore.AddSync(os.Stdout)
	core := zapcore.NewCore(encoder, writer, lvl)

	Log = zap.New(core, zap.AddCaller())
	Sugar = Log.Sugar()
}
