package logging

import (
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu     sync.RWMutex
	logger = zap.NewNop().Sugar()
)

var levels = map[string]zapcore.Level{
	"debug":  zapcore.DebugLevel,
	"info":   zapcore.InfoLevel,
	"warn":   zapcore.WarnLevel,
	"error":  zapcore.ErrorLevel,
	"dpanic": zapcore.DPanicLevel,
	"panic":  zapcore.PanicLevel,
	"fatal":  zapcore.FatalLevel,
}

// LevelByName maps a level name to a zap level, defaulting to info.
func LevelByName(name string) zapcore.Level {
	if lvl, ok := levels[name]; ok {
		return lvl
	}
	return zapcore.InfoLevel
}

// Init replaces the package logger. dev selects the console encoder,
// otherwise records are written as JSON.
func Init(level string, dev bool) {
	var cfg zapcore.EncoderConfig
	if dev {
		cfg = zap.NewDevelopmentEncoderConfig()
	} else {
		cfg = zap.NewProductionEncoderConfig()
	}
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var enc zapcore.Encoder
	if dev {
		enc = zapcore.NewConsoleEncoder(cfg)
	} else {
		enc = zapcore.NewJSONEncoder(cfg)
	}

	core := zapcore.NewCore(enc, zapcore.AddSync(os.Stderr), zap.NewAtomicLevelAt(LevelByName(level)))
	Set(zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1)).Sugar())
}

// Set installs l as the package logger. Tests use it with zaptest/observer.
// Every record passes through one helper of this package, so l should skip
// one caller frame as Init's logger does.
func Set(l *zap.SugaredLogger) {
	mu.Lock()
	logger = l
	mu.Unlock()
}

// L returns the current logger. Records logged on it directly report the
// caller one frame too high; use the helpers below instead.
func L() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// Sync flushes buffered entries.
func Sync() {
	_ = L().Sync()
}

// Debugf logs a formatted debug message.
func Debugf(format string, v ...any) {
	L().Debugf(format, v...)
}

// Debugw logs a debug message with structured key-value pairs.
func Debugw(msg string, kv ...any) {
	L().Debugw(msg, kv...)
}

func Infof(format string, v ...any) {
	L().Infof(format, v...)
}

func Warnf(format string, v ...any) {
	L().Warnf(format, v...)
}

func Errorf(format string, v ...any) {
	L().Errorf(format, v...)
}
