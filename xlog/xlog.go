package xlog

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/benz9527/xarena/lib/infra"
)

var _ XLogger = (*xLogger)(nil)

// xLogger is wrapper logger of Uber zap logger. Named children share
// the level of the root logger.
type xLogger struct {
	logger *zap.Logger
	level  zap.AtomicLevel
}

func (l *xLogger) zap() *zap.Logger {
	return l.logger
}

func (l *xLogger) Enabled(lvl zapcore.Level) bool {
	return l.level.Enabled(lvl)
}

func (l *xLogger) Sync() error {
	return l.logger.Sync()
}

func (l *xLogger) Named(component string) XLogger {
	return &xLogger{
		logger: l.logger.Named(component),
		level:  l.level,
	}
}

func (l *xLogger) Debug(msg string, fields ...zap.Field) {
	l.logger.Debug(msg, fields...)
}

func (l *xLogger) Info(msg string, fields ...zap.Field) {
	l.logger.Info(msg, fields...)
}

func (l *xLogger) Warn(msg string, fields ...zap.Field) {
	l.logger.Warn(msg, fields...)
}

func (l *xLogger) Error(err error, msg string, fields ...zap.Field) {
	if err == nil {
		l.logger.Error(msg, fields...)
		return
	}
	l.logger.Error(msg, append([]zap.Field{zap.String("error", err.Error())}, fields...)...)
}

// ErrorStack falls back to Error for errors without frames.
func (l *xLogger) ErrorStack(err error, msg string, fields ...zap.Field) {
	es, ok := err.(infra.ErrorStack)
	if !ok || es == nil {
		l.Error(err, msg, fields...)
		return
	}
	l.logger.Error(msg, append([]zap.Field{zap.Inline(es)}, fields...)...)
}

type loggerCfg struct {
	writerType      logOutWriterType
	encoderType     logEncoderType
	lvlEncoder      zapcore.LevelEncoder
	tsEncoder       zapcore.TimeEncoder
	level           *zapcore.Level
	coreConstructor XLogCoreConstructor
}

func defaultLoggerCfg() *loggerCfg {
	return &loggerCfg{
		writerType:      StdOut,
		encoderType:     JSON,
		lvlEncoder:      zapcore.CapitalLevelEncoder,
		tsEncoder:       zapcore.ISO8601TimeEncoder,
		coreConstructor: newConsoleCore,
	}
}

type XLoggerOption func(*loggerCfg) error

// NewXLogger panics on an invalid option. Without WithXLoggerLevel the
// level is read from XLOG_LVL.
func NewXLogger(opts ...XLoggerOption) XLogger {
	cfg := defaultLoggerCfg()
	for _, o := range opts {
		if o == nil {
			continue
		}
		if err := o(cfg); err != nil {
			panic(err)
		}
	}

	lvl := getLogLevelOrDefault(os.Getenv("XLOG_LVL"))
	if cfg.level != nil {
		lvl = *cfg.level
	}
	xl := &xLogger{
		level: zap.NewAtomicLevelAt(lvl),
	}
	core := cfg.coreConstructor(
		xl.level,
		cfg.encoderType,
		cfg.writerType,
		cfg.lvlEncoder,
		cfg.tsEncoder,
	)
	// Disable zap logger error stack.
	xl.logger = zap.New(
		core,
		zap.AddCallerSkip(1), // Use caller filename as service
		zap.AddCaller(),
	)
	return xl
}

func WithXLoggerWriter(w logOutWriterType) XLoggerOption {
	return func(cfg *loggerCfg) error {
		if w >= _writerMax {
			return infra.NewErrorStack("unknown xlogger writer")
		}
		cfg.writerType = w
		return nil
	}
}

func WithXLoggerEncoder(logEnc logEncoderType) XLoggerOption {
	return func(cfg *loggerCfg) error {
		if logEnc >= _encMax {
			return infra.NewErrorStack("unknown xlogger encoder")
		}
		cfg.encoderType = logEnc
		return nil
	}
}

func WithXLoggerLevel(lvl logLevel) XLoggerOption {
	return func(cfg *loggerCfg) error {
		zl := lvl.zapLevel()
		cfg.level = &zl
		return nil
	}
}

func WithXLoggerLevelEncoder(lvlEnc zapcore.LevelEncoder) XLoggerOption {
	return func(cfg *loggerCfg) error {
		if lvlEnc != nil {
			cfg.lvlEncoder = lvlEnc
		}
		return nil
	}
}

func WithXLoggerTimeEncoder(tsEnc zapcore.TimeEncoder) XLoggerOption {
	return func(cfg *loggerCfg) error {
		if tsEnc != nil {
			cfg.tsEncoder = tsEnc
		}
		return nil
	}
}

func getLogLevelOrDefault(level string) zapcore.Level {
	switch logLevel(strings.ToUpper(strings.TrimSpace(level))) {
	case LogLevelInfo:
		return zapcore.InfoLevel
	case LogLevelWarn:
		return zapcore.WarnLevel
	case LogLevelError:
		return zapcore.ErrorLevel
	default:
	}
	return zapcore.DebugLevel
}
