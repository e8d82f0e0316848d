package logger

import (
	"go.uber.org/zap"
	"image-quiz/internal/config"
)

// New builds the service logger. Production settings emit JSON, anything
// else the human-readable development format.
func New(cfg config.Log) (*zap.Logger, error) {
	zc := zap.NewDevelopmentConfig()
	if cfg.Env == "production" {
		zc = zap.NewProductionConfig()
	}
	if cfg.Level != "" {
		level, err := zap.ParseAtomicLevel(cfg.Level)
		if err != nil {
			return nil, err
		}
		zc.Level = level
	}
	if cfg.File != "" {
		zc.OutputPaths = []string{cfg.File}
		zc.ErrorOutputPaths = []string{cfg.File}
	}
	return zc.Build()
}

// NewTerminal builds a logger that never writes to the terminal, which is
// owned by the quiz screen. Without a log file it discards everything.
func NewTerminal(cfg config.Log) (*zap.Logger, error) {
	if cfg.File == "" {
		return zap.NewNop(), nil
	}
	return New(cfg)
}
