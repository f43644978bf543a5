package telemetry

import (
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/lmittmann/tint"
)

// InitSlog installs the process-wide slog handler. Call it before the first
// Logger lookup, loggers created earlier keep the handler they were born with.
func InitSlog(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	}))
	slog.SetDefault(logger)
}

var (
	loggersMu sync.Mutex
	loggers   = map[string]*slog.Logger{}
)

// Logger returns the named logger for a component, creating it on first use.
// Repeated lookups for the same component return the same handle.
func Logger(component string) *slog.Logger {
	loggersMu.Lock()
	defer loggersMu.Unlock()

	l, ok := loggers[component]
	if !ok {
		l = slog.Default().With("component", component)
		loggers[component] = l
	}
	return l
}

// Record emits one info line for a completed operation, with the elapsed
// wall-clock time since start and, when statusCode is positive, the HTTP
// status. It never fails and may be called any number of times.
func Record(logger *slog.Logger, op string, start time.Time, statusCode int) {
	elapsed := time.Since(start).Seconds()
	if statusCode > 0 {
		logger.Info(fmt.Sprintf("%s completed in %.2fs with status code %d", op, elapsed, statusCode))
		return
	}
	logger.Info(fmt.Sprintf("%s completed in %.2fs", op, elapsed))
}
