package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/natefinch/lumberjack"

	"github.com/rocketscienceinc/morris-backend/internal/config"
)

// New builds the JSON logger. When a log file is configured, records also go to a
// size-rotated file.
func New(conf *config.Config) *slog.Logger {
	var out io.Writer = os.Stdout

	if conf.Log.File != "" {
		out = io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   conf.Log.File,
			MaxSize:    max(1, conf.Log.MaxSize),
			MaxBackups: max(0, conf.Log.MaxBackups),
			MaxAge:     max(0, conf.Log.MaxAge),
			Compress:   conf.Log.Compress,
		})
	}

	return NewWithWriter(out, conf.LogLevel)
}

func NewWithWriter(out io.Writer, level string) *slog.Logger {
	return slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{Level: ParseLevel(level)}))
}

// ParseLevel maps a config level name to slog; unknown names fall back to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
