package logutil

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewConsole constructs a zap logger configured for human-readable console
// output on stderr. Progress warnings and the end-of-run summary go through it.
func NewConsole() (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	config.Encoding = "console"
	config.DisableCaller = true
	config.DisableStacktrace = true
	config.OutputPaths = []string{"stderr"}
	config.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	config.EncoderConfig.TimeKey = ""
	config.EncoderConfig.CallerKey = ""
	config.EncoderConfig.StacktraceKey = ""
	return config.Build()
}
