package internal

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

var (
	ErrParseStrToLevel = errors.New("string can't be parsed to level, use: `error`, `info`, `debug`")
)

type Level int

const (
	ERR Level = iota
	INF
	DBG
)

func (l Level) String() string { return [3]string{"Error", "Info", "Debug"}[l] }

func (l Level) logrusLevel() logrus.Level {
	switch l {
	case ERR:
		return logrus.ErrorLevel
	case DBG:
		return logrus.DebugLevel
	}
	return logrus.InfoLevel
}

func NewStdLog(opts ...Option) *StdLog {
	l := &StdLog{
		entry: logrus.New(),
		lvl:   INF,
	}
	l.entry.SetOutput(os.Stderr)
	l.entry.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	for _, opt := range opts {
		opt(l)
	}
	l.entry.SetLevel(l.lvl.logrusLevel())
	return l
}

type StdLog struct {
	entry *logrus.Logger
	lvl   Level
}

func (l *StdLog) Debug(format string, v ...interface{}) {
	l.entry.Debugf(format, v...)
}

func (l *StdLog) Info(format string, v ...interface{}) {
	l.entry.Infof(format, v...)
}

func (l *StdLog) Error(format string, v ...interface{}) {
	l.entry.Errorf(format, v...)
}

// WithField returns a logrus entry carrying key, for call sites that log several lines about one file.
func (l *StdLog) WithField(key string, value interface{}) *logrus.Entry {
	return l.entry.WithField(key, value)
}

type Option func(l *StdLog)

func WithLevel(level Level) Option { return func(l *StdLog) { l.lvl = level } }

func WithOutput(w io.Writer) Option { return func(l *StdLog) { l.entry.SetOutput(w) } }

func ParseLevel(lvl string) (Level, error) {
	levels := map[string]Level{
		strings.ToLower(ERR.String()): ERR,
		strings.ToLower(INF.String()): INF,
		strings.ToLower(DBG.String()): DBG,
	}
	level, ok := levels[strings.ToLower(lvl)]
	if !ok {
		return INF, fmt.Errorf("%s %w", lvl, ErrParseStrToLevel)
	}
	return level, nil
}
