package logging

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds a zap logger. encoding "console" gives the colored
// development output, anything else JSON. Unknown levels fall back to info.
func NewLogger(level, encoding string) (*zap.Logger, error) {
	var config zap.Config
	if encoding == "console" {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		config = zap.NewProductionConfig()
		config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	zapLevel := zapcore.InfoLevel
	if level != "" {
		if err := zapLevel.Set(strings.ToLower(level)); err != nil {
			zapLevel = zapcore.InfoLevel
		}
	}
	config.Level = zap.NewAtomicLevelAt(zapLevel)

	return config.Build()
}
