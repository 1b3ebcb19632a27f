package utils

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LoggerInitializationFailedMessageFormat reports a logger construction failure.
const LoggerInitializationFailedMessageFormat = "failed to initialize logger: %w"

// ApplicationExecutionFailedMessage prefixes fatal execution errors.
const ApplicationExecutionFailedMessage = "arc execution failed"

// NewApplicationLogger constructs a zap logger configured for human-readable console output.
func NewApplicationLogger(verbose bool) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	config.Encoding = "console"
	config.DisableCaller = true
	config.DisableStacktrace = true
	config.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	config.EncoderConfig.TimeKey = ""
	config.EncoderConfig.LevelKey = ""
	config.EncoderConfig.NameKey = ""
	config.EncoderConfig.CallerKey = ""
	config.EncoderConfig.MessageKey = "message"
	config.EncoderConfig.StacktraceKey = ""
	if verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return config.Build()
}
