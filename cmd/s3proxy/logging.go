package main

import (
	"io"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"

	"github.com/sagarc03/s3proxy/config"
)

// setupLogging installs the process-wide slog logger and routes the log package into it.
// Logs go to stderr so command output on stdout stays machine readable.
func setupLogging(cfg config.LogConfig, env string) {
	slog.SetDefault(slog.New(newLogHandler(os.Stderr, cfg, env)))

	log.SetFlags(0)
	log.SetOutput(slog.NewLogLogger(slog.Default().Handler(), slog.LevelInfo).Writer())
}

func newLogHandler(w io.Writer, cfg config.LogConfig, env string) slog.Handler {
	isProd := env == "prod" || env == "production"

	levelStr := cfg.Level
	if levelStr == "" && !isProd {
		levelStr = "debug"
	}
	level := parseLevel(levelStr)

	format := cfg.Format
	if format == "" {
		format = "text"
		if isProd {
			format = "json"
		}
	}

	if format == "json" {
		return slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level: level,
			ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
				if a.Key == slog.TimeKey && len(groups) == 0 {
					return slog.String("ts", a.Value.Time().UTC().Format(time.RFC3339Nano))
				}
				return a
			},
		})
	}

	return tint.NewHandler(w, &tint.Options{
		Level:      level,
		AddSource:  !isProd,
		TimeFormat: "15:04:05.000",
		NoColor:    !isTerminal(w),
	})
}

// isTerminal reports whether w is a character device, so piped output stays free of escapes.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
