package logger

import (
	"go.uber.org/zap"
)

// New builds a production zap logger at the given level. The logger is
// passed into the request pipeline at startup rather than held as a
// package global.
func New(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = lvl

	return cfg.Build()
}
