package definition

import (
	"go.uber.org/zap"
)

// NewZapLogger builds a types.Logger backed by a production zap logger,
// used by cmd/gompirun for structured, leveled CLI output.
func NewZapLogger(debug bool) (*ZapLogger, error) {
	cfg := zap.NewProductionConfig()
	// zap always admits debug entries; Debug/Debugf gate on l.debug so that
	// ToggleDebug can switch them at runtime.
	cfg.Level.SetLevel(-1) // zapcore.DebugLevel
	base, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return &ZapLogger{sugar: base.Sugar(), debug: debug}, nil
}

// ZapLogger adapts a *zap.SugaredLogger to the types.Logger interface.
type ZapLogger struct {
	sugar *zap.SugaredLogger
	debug bool
}

func (l *ZapLogger) Info(v ...interface{})                    { l.sugar.Info(v...) }
func (l *ZapLogger) Infof(format string, v ...interface{})     { l.sugar.Infof(format, v...) }
func (l *ZapLogger) Warn(v ...interface{})                     { l.sugar.Warn(v...) }
func (l *ZapLogger) Warnf(format string, v ...interface{})     { l.sugar.Warnf(format, v...) }
func (l *ZapLogger) Error(v ...interface{})                    { l.sugar.Error(v...) }
func (l *ZapLogger) Errorf(format string, v ...interface{})    { l.sugar.Errorf(format, v...) }
func (l *ZapLogger) Fatal(v ...interface{})                    { l.sugar.Fatal(v...) }
func (l *ZapLogger) Fatalf(format string, v ...interface{})    { l.sugar.Fatalf(format, v...) }
func (l *ZapLogger) Panic(v ...interface{})                    { l.sugar.Panic(v...) }
func (l *ZapLogger) Panicf(format string, v ...interface{})    { l.sugar.Panicf(format, v...) }

func (l *ZapLogger) Debug(v ...interface{}) {
	if l.debug {
		l.sugar.Debug(v...)
	}
}

func (l *ZapLogger) Debugf(format string, v ...interface{}) {
	if l.debug {
		l.sugar.Debugf(format, v...)
	}
}

func (l *ZapLogger) ToggleDebug(value bool) bool {
	l.debug = value
	return l.debug
}
