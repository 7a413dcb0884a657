// Package logging builds the process logger handed to every component.
package logging

import (
	"go.uber.org/zap"
)

// New returns a production JSON logger at the given level ("debug", "info", ...).
func New(level string) (*zap.SugaredLogger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = lvl

	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return logger.Sugar().Named("taskdigest"), nil
}
