package log

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var logger *zap.Logger

func init() {
	logger = newLogger(zapcore.DebugLevel)
}

func newLogger(level zapcore.Level) *zap.Logger {
	encCfg := zapcore.EncoderConfig{
		TimeKey:      "ts",
		LevelKey:     "level",
		NameKey:      "logger",
		CallerKey:    "caller",
		MessageKey:   "msg",
		LineEnding:   zapcore.DefaultLineEnding,
		EncodeTime:   zapcore.ISO8601TimeEncoder,
		EncodeLevel:  zapcore.CapitalLevelEncoder,
		EncodeCaller: zapcore.ShortCallerEncoder,
	}

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encCfg),
		zapcore.AddSync(os.Stdout),
		level,
	)

	return zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))
}

// Init reconfigures the global logger for the given mode.
// Mode "release" raises the level to Info.
func Init(mode string) {
	level := zapcore.DebugLevel
	if mode == "release" {
		level = zapcore.InfoLevel
	}
	logger = newLogger(level)
}

func Debug(format string, args ...interface{}) { logger.Debug(fmt.Sprintf(format, args...)) }
func Info(format string, args ...interface{})  { logger.Info(fmt.Sprintf(format, args...)) }
func Warn(format string, args ...interface{})  { logger.Warn(fmt.Sprintf(format, args...)) }
func Error(format string, args ...interface{}) { logger.Error(fmt.Sprintf(format, args...)) }

// Ctx variants exist so call sites keep the request context in hand;
// the context is currently not mined for fields.
func CtxDebug(ctx context.Context, format string, args ...interface{}) {
	logger.Debug(fmt.Sprintf(format, args...))
}

func CtxInfo(ctx context.Context, format string, args ...interface{}) {
	logger.Info(fmt.Sprintf(format, args...))
}

func CtxWarn(ctx context.Context, format string, args ...interface{}) {
	logger.Warn(fmt.Sprintf(format, args...))
}

func CtxError(ctx context.Context, format string, args ...interface{}) {
	logger.Error(fmt.Sprintf(format, args...))
}

// Sync flushes buffered log entries.
func Sync() error {
	return logger.Sync()
}
