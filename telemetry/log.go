// Package telemetry wraps zap's SugaredLogger behind a small interface
// so the protocol package's call sites depend on Logger, not zap
// directly.
package telemetry

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the structured logging surface used by the protocol
// roles: Authority, VotingCenter and TallyingCenter.
type Logger interface {
	Info(keyvals ...interface{})
	Debug(keyvals ...interface{})
	Warn(keyvals ...interface{})
	Error(keyvals ...interface{})
	With(args ...interface{}) Logger
	Named(name string) Logger
}

type log struct {
	*zap.SugaredLogger
}

func (l *log) With(args ...interface{}) Logger {
	return &log{l.SugaredLogger.With(args...)}
}

func (l *log) Named(name string) Logger {
	return &log{l.SugaredLogger.Named(name)}
}

// New returns a JSON-encoded Logger writing to stdout at InfoLevel.
func New() Logger {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), os.Stdout, zapcore.InfoLevel)
	base := zap.New(core, zap.WithCaller(true))
	return &log{base.Sugar()}
}

// NewNop returns a Logger that discards everything, for tests and
// call sites that don't want console noise.
func NewNop() Logger {
	return &log{zap.NewNop().Sugar()}
}
