package config

import (
	"os"

	"github.com/natefinch/lumberjack"
	"github.com/sirupsen/logrus"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// SetupLogger configures the application logger based on configuration
func SetupLogger(cfg *Config) (*zap.Logger, error) {
	var config zap.Config

	// Set log level based on configuration
	level, err := zapcore.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	// Configure based on environment
	if cfg.Logging.Format == "json" {
		config = zap.NewProductionConfig()
	} else {
		config = zap.NewDevelopmentConfig()
	}

	// Set the log level
	config.Level = zap.NewAtomicLevelAt(level)

	// Add caller and stack trace for development
	if cfg.Logging.Format != "json" {
		config.Development = true
		config.DisableStacktrace = false
		config.DisableCaller = false
	}

	var logger *zap.Logger
	if cfg.Logging.Output != "" && cfg.Logging.Output != "stdout" {
		// Rotate the log file instead of letting it grow unbounded.
		rotator := &lumberjack.Logger{
			Filename:   cfg.Logging.Output,
			MaxSize:    100,
			MaxBackups: 5,
			MaxAge:     28,
			Compress:   true,
		}
		encoder := zapcore.NewJSONEncoder(config.EncoderConfig)
		core := zapcore.NewCore(encoder, zapcore.AddSync(rotator), config.Level)
		logger = zap.New(core, zap.AddCaller())
	} else {
		logger, err = config.Build()
		if err != nil {
			return nil, err
		}
	}

	// Replace the global logger
	zap.ReplaceGlobals(logger)

	// Keep the global logrus logger's level and formatter aligned with
	// the primary zap logger. No package in this module logs through
	// logrus; the USDA/OFF connectors log through zap.
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)
	logrus.SetLevel(logrusLevel(level))

	return logger, nil
}

func logrusLevel(level zapcore.Level) logrus.Level {
	switch level {
	case zapcore.DebugLevel:
		return logrus.DebugLevel
	case zapcore.WarnLevel:
		return logrus.WarnLevel
	case zapcore.ErrorLevel:
		return logrus.ErrorLevel
	case zapcore.FatalLevel:
		return logrus.FatalLevel
	default:
		return logrus.InfoLevel
	}
}

// GetLogger returns the configured logger instance
func GetLogger() *zap.Logger {
	return zap.L()
}
