package logger

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu  sync.RWMutex
	log = zap.NewNop().Sugar()
)

// Init configures the process-wide logger. Production environments log JSON
// at info level; everything else logs human readable lines at debug level.
func Init(environment string) {
	var cfg zap.Config
	switch environment {
	case "production", "prod", "staging":
		cfg = zap.NewProductionConfig()
	default:
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	l, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		l = zap.NewExample()
	}
	set(l.Sugar())
}

// Set replaces the logger, e.g. with a no-op one for CLI runs or an
// observer in tests.
func Set(l *zap.Logger) {
	set(l.WithOptions(zap.AddCallerSkip(1)).Sugar())
}

func set(s *zap.SugaredLogger) {
	mu.Lock()
	defer mu.Unlock()
	log = s
}

func get() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return log
}

func Debug(msg string, keysAndValues ...any) {
	get().Debugw(msg, keysAndValues...)
}

func Info(msg string, keysAndValues ...any) {
	get().Infow(msg, keysAndValues...)
}

func Warn(msg string, keysAndValues ...any) {
	get().Warnw(msg, keysAndValues...)
}

func Error(msg string, keysAndValues ...any) {
	get().Errorw(msg, keysAndValues...)
}

func Fatal(msg string, keysAndValues ...any) {
	get().Fatalw(msg, keysAndValues...)
}

// Sync flushes buffered entries; call it before the process exits.
func Sync() {
	_ = get().Sync()
}
