// Package logging builds the zap logger shared by rcc and rcc1.
package logging

import (
	"github.com/cockroachdb/errors"
	"github.com/xyproto/env/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LevelEnv names the environment variable holding the log level.
const LevelEnv = "RCC_LOG"

const defaultLevel = "info"

// LevelFromEnv returns the level configured in the environment.
func LevelFromEnv() string {
	return env.Str(LevelEnv, defaultLevel)
}

// New builds a console logger writing to stderr at level.
func New(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid %s", LevelEnv)
	}

	config := zap.NewDevelopmentConfig()
	config.Level = zap.NewAtomicLevelAt(lvl)
	config.DisableStacktrace = true
	config.DisableCaller = lvl > zapcore.DebugLevel
	config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder

	logger, err := config.Build()
	if err != nil {
		return nil, errors.Wrap(err, "failed to build logger")
	}
	return logger, nil
}
