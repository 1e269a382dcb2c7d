// Package logger builds the structured loggers used by the cadence command.
//
// Severity names follow the TRACE/DEBUG/INFO/WARNING/ERROR/OFF scale. Output
// goes to stderr unless a file is configured, in which case the file is
// rotated by size.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Severity levels outside the slog defaults.
const (
	LevelTrace slog.Level = -8
	LevelOff   slog.Level = 12
)

// Config describes where and how to log.
type Config struct {
	Level  string // TRACE, DEBUG, INFO, WARNING, ERROR or OFF
	Format string // "text" or "json"

	// FilePath enables logging to a rotated file instead of stderr.
	FilePath   string
	MaxSizeMB  int
	MaxBackups int
}

// Logger wraps a slog.Logger with the file handle it may own.
type Logger struct {
	*slog.Logger

	level  *slog.LevelVar
	closer io.Closer
}

// New builds a Logger from cfg.
func New(cfg Config) (*Logger, error) {
	var out io.Writer = os.Stderr
	var closer io.Closer

	if cfg.FilePath != "" {
		lj := &lumberjack.Logger{
			Filename:   cfg.FilePath,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
		}
		out, closer = lj, lj
	}

	l, err := NewWithWriter(out, cfg)
	if err != nil {
		if closer != nil {
			_ = closer.Close()
		}
		return nil, err
	}
	l.closer = closer
	return l, nil
}

// NewWithWriter builds a Logger writing to w; the file settings in cfg are ignored.
func NewWithWriter(w io.Writer, cfg Config) (*Logger, error) {
	programLevel := new(slog.LevelVar)
	if err := SetLevel(programLevel, cfg.Level); err != nil {
		return nil, err
	}

	opts := &slog.HandlerOptions{
		Level:       programLevel,
		ReplaceAttr: replaceLevelName,
	}

	var handler slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "", "text":
		handler = slog.NewTextHandler(w, opts)
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.Format)
	}

	return &Logger{Logger: slog.New(handler), level: programLevel}, nil
}

// SetLevel updates programLevel from a severity name. An empty name means INFO.
func SetLevel(programLevel *slog.LevelVar, level string) error {
	// logs having severity >= the configured value will be logged.
	switch strings.ToUpper(level) {
	case "TRACE":
		programLevel.Set(LevelTrace)
	case "DEBUG":
		programLevel.Set(slog.LevelDebug)
	case "", "INFO":
		programLevel.Set(slog.LevelInfo)
	case "WARNING", "WARN":
		programLevel.Set(slog.LevelWarn)
	case "ERROR":
		programLevel.Set(slog.LevelError)
	case "OFF":
		programLevel.Set(LevelOff)
	default:
		return fmt.Errorf("unknown log level %q", level)
	}
	return nil
}

// SetLevel changes the severity threshold at runtime.
func (l *Logger) SetLevel(level string) error {
	return SetLevel(l.level, level)
}

// Close releases the log file, if any.
func (l *Logger) Close() error {
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}

func replaceLevelName(_ []string, a slog.Attr) slog.Attr {
	if a.Key != slog.LevelKey {
		return a
	}
	level, ok := a.Value.Any().(slog.Level)
	if !ok {
		return a
	}
	switch {
	case level < slog.LevelDebug:
		a.Value = slog.StringValue("TRACE")
	case level == slog.LevelWarn:
		a.Value = slog.StringValue("WARNING")
	}
	return a
}
