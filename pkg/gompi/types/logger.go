package types

// Logger is the logging surface used throughout the runtime. Shaped after
// a leveled logger with both formatted and non-formatted variants per
// level, so either a stdlib-backed or a structured third-party logger can
// satisfy it.
type Logger interface {
	Info(v ...interface{})
	Infof(format string, v ...interface{})

	Warn(v ...interface{})
	Warnf(format string, v ...interface{})

	Error(v ...interface{})
	Errorf(format string, v ...interface{})

	Debug(v ...interface{})
	Debugf(format string, v ...interface{})

	Fatal(v ...interface{})
	Fatalf(format string, v ...interface{})

	Panic(v ...interface{})
	Panicf(format string, v ...interface{})

	// ToggleDebug turns debug-level logging on or off, returning the new
	// state.
	ToggleDebug(value bool) bool
}
