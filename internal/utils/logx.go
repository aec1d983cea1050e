package utils

import (
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogxManager hands out one zap logger per engine component so node,
// fabric and domain output can be told apart and filtered by level.
type LogxManager struct {
	level   zapcore.Level
	base    *zap.Logger
	loggers map[string]*zap.SugaredLogger
	mu      sync.RWMutex
}

func NewManager(level string) *LogxManager {
	lv := parseLevel(level)

	encCfg := zapcore.EncoderConfig{
		MessageKey:  "msg",
		LevelKey:    "level",
		TimeKey:     "ts",
		NameKey:     "logger",
		EncodeLevel: zapcore.CapitalLevelEncoder,
		EncodeTime:  zapcore.ISO8601TimeEncoder,
		EncodeName:  zapcore.FullNameEncoder,
		LineEnding:  zapcore.DefaultLineEnding,
	}
	encoder := zapcore.NewConsoleEncoder(encCfg)

	out := zapcore.AddSync(os.Stderr)
	enab := zap.LevelEnablerFunc(func(l zapcore.Level) bool { return l >= lv })

	core := zapcore.NewCore(encoder, out, enab)
	return &LogxManager{
		level:   lv,
		base:    zap.New(core),
		loggers: make(map[string]*zap.SugaredLogger),
	}
}

func parseLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Named returns the cached logger for a component tag.
func (m *LogxManager) Named(tag string) *zap.SugaredLogger {
	m.mu.RLock()
	if lg, ok := m.loggers[tag]; ok {
		m.mu.RUnlock()
		return lg
	}
	m.mu.RUnlock()
	m.mu.Lock()
	defer m.mu.Unlock()
	if lg, ok := m.loggers[tag]; ok {
		return lg
	}
	lg := m.base.Named(tag).Sugar()
	m.loggers[tag] = lg
	return lg
}

// Sync flushes buffered output. Flush errors on stderr are expected on
// some platforms and ignored.
func (m *LogxManager) Sync() {
	_ = m.base.Sync()
}
