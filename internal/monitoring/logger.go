package monitoring

import (
	"io"
	"log"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logf is the package-level diagnostic logger. It defaults to log.Printf but may
// be replaced by SetLogger. Tests or production code can redirect or mute it.
var Logf func(format string, v ...interface{}) = log.Printf

// SetLogger replaces the package logger. Passing nil will set a no-op logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}

// NewZapLogger builds a console logger writing to w. Stdout carries the
// result record, so callers pass os.Stderr.
func NewZapLogger(w io.Writer, verbose bool) *zap.Logger {
	if w == nil {
		w = os.Stderr
	}
	level := zap.InfoLevel
	if verbose {
		level = zap.DebugLevel
	}

	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.Lock(zapcore.AddSync(w)),
		level,
	)
	return zap.New(core)
}

// UseZap installs l as the Logf sink and returns a function that flushes it.
func UseZap(l *zap.Logger) func() {
	sugar := l.Sugar()
	SetLogger(sugar.Infof)
	return func() { _ = l.Sync() }
}

// Progress returns the sink used for collaborator progress text: Logf when
// show is true, a no-op otherwise.
func Progress(show bool) func(format string, v ...interface{}) {
	if !show {
		return func(string, ...interface{}) {}
	}
	return func(format string, v ...interface{}) { Logf(format, v...) }
}
