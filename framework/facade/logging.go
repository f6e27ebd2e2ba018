package facade

import (
	"sync"

	"github.com/rs/zerolog"
)

var (
	// loggerMu protects Logger from concurrent access in tests.
	loggerMu sync.RWMutex

	// Logger is the package-level logger for cache transitions.
	// Uses a no-op logger by default to avoid logging until explicitly configured.
	Logger = zerolog.Nop()
)

// SetLogger sets the package-level logger. The logger is tagged with
// component: facade.
//
//	logger := zerolog.New(os.Stdout).Level(zerolog.DebugLevel)
//	facade.SetLogger(&logger)
func SetLogger(l *zerolog.Logger) {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	Logger = l.With().Str("component", "facade").Logger()
}

func logger() zerolog.Logger {
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	return Logger
}
