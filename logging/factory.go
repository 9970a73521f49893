package logging

import (
	"sync"
)

// Factory hands out named children of one base logger, so every component
// shares the same cores and files.
type Factory struct {
	base    Logger
	loggers sync.Map // map[string]Logger
}

// NewFactory creates a Factory around base.
func NewFactory(base Logger) *Factory {
	return &Factory{base: base}
}

// GetLogger returns the logger for name, creating it on first use.
func (f *Factory) GetLogger(name string) Logger {
	if v, ok := f.loggers.Load(name); ok {
		return v.(Logger)
	}

	actual, _ := f.loggers.LoadOrStore(name, f.base.Named(name))
	return actual.(Logger)
}

// Base returns the unnamed logger.
func (f *Factory) Base() Logger {
	return f.base
}
