// Package logger provides structured logging for the notion-digest CLI.
// Messages go to stderr through zap. The --verbose flag lowers the level
// to debug and --log-json switches to machine-readable output.
package logger

import (
	"context"
	"io"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Standard field names for structured logging.
const (
	FieldRunID  = "run_id"
	FieldItemID = "item_id"
	FieldError  = "error"
	FieldCount  = "count"
)

var (
	mu         sync.RWMutex
	jsonOutput bool
	output     io.Writer = os.Stderr
	level                = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	base       *zap.SugaredLogger
)

func init() {
	rebuild()
}

// rebuild replaces the base logger. Callers must hold mu or be in init.
func rebuild() {
	var enc zapcore.Encoder
	if jsonOutput {
		enc = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	} else {
		cfg := zap.NewDevelopmentEncoderConfig()
		cfg.EncodeTime = zapcore.ISO8601TimeEncoder
		cfg.EncodeLevel = zapcore.CapitalLevelEncoder
		cfg.CallerKey = ""
		cfg.StacktraceKey = ""
		enc = zapcore.NewConsoleEncoder(cfg)
	}
	core := zapcore.NewCore(enc, zapcore.Lock(zapcore.AddSync(output)), level)
	base = zap.New(core).Sugar()
}

// Initialize configures level and encoding in one step.
// verbosity is the count of -v flags.
func Initialize(verbosity int, json bool) {
	mu.Lock()
	defer mu.Unlock()
	jsonOutput = json
	level.SetLevel(VerbosityToLevel(verbosity))
	rebuild()
}

// SetOutput sets the output writer for logs. Defaults to os.Stderr.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
	rebuild()
}

// VerbosityToLevel maps the -v flag count to a zap level.
//
//	0 (none) -> InfoLevel
//	1+ (-v)  -> DebugLevel
func VerbosityToLevel(verbosity int) zapcore.Level {
	if verbosity <= 0 {
		return zapcore.InfoLevel
	}
	return zapcore.DebugLevel
}

// L returns the process-wide logger.
func L() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return base
}

// Named returns a logger for a specific component.
// This is the preferred way to get a logger for dependency injection.
func Named(component string) *zap.SugaredLogger {
	return L().Named(component)
}

// Sync flushes any buffered log entries.
func Sync() {
	_ = L().Sync()
}

type contextKey string

const runIDKey contextKey = "logger_run_id"

// WithRunID adds a run ID to the context for logging.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey, runID)
}

// RunID returns the run ID stored in ctx, if any.
func RunID(ctx context.Context) string {
	id, _ := ctx.Value(runIDKey).(string)
	return id
}

// FromContext returns log with the run ID from ctx attached.
// A nil log falls back to the process-wide logger.
func FromContext(ctx context.Context, log *zap.SugaredLogger) *zap.SugaredLogger {
	if log == nil {
		log = L()
	}
	if id := RunID(ctx); id != "" {
		return log.With(FieldRunID, id)
	}
	return log
}
