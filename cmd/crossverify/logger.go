package main

import (
	"io"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Log file rotation settings.
const (
	logMaxSizeMB  = 10
	logMaxBackups = 3
	logMaxAgeDays = 7
)

// selectLevel maps the verbosity flags to a level.
func selectLevel(verbose, quiet bool) zerolog.Level {
	switch {
	case verbose:
		return zerolog.DebugLevel
	case quiet:
		return zerolog.WarnLevel
	default:
		return zerolog.InfoLevel
	}
}

// newLogger returns a logger writing human-readable lines to stderr and,
// when logFile is set, JSON lines to a rotated file. The returned closer
// releases the file.
func newLogger(stderr io.Writer, s *settings) (zerolog.Logger, io.Closer) {
	console := zerolog.ConsoleWriter{Out: stderr, NoColor: true, TimeFormat: "15:04:05"}

	var w io.Writer = console
	var closer io.Closer = nopCloser{}
	if s.LogFile != "" {
		lj := &lumberjack.Logger{
			Filename:   s.LogFile,
			MaxSize:    logMaxSizeMB,
			MaxBackups: logMaxBackups,
			MaxAge:     logMaxAgeDays,
		}
		w = zerolog.MultiLevelWriter(console, lj)
		closer = lj
	}

	return zerolog.New(w).Level(selectLevel(s.Verbose, s.Quiet)).With().Timestamp().Logger(), closer
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
