// Package logging configures the shared charmbracelet logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// Logger is the process-wide logger. It discards output until Init is called.
var Logger = log.New(io.Discard)

// Init points Logger at w with the given level name (debug, info, warn,
// error). An empty level means info.
func Init(w io.Writer, level string) error {
	lvl := log.InfoLevel
	if strings.TrimSpace(level) != "" {
		parsed, err := log.ParseLevel(strings.ToLower(level))
		if err != nil {
			return fmt.Errorf("invalid log level %q: %w", level, err)
		}
		lvl = parsed
	}

	Logger = log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
		Level:           lvl,
		Prefix:          "presswatch",
	})
	return nil
}

// InitStderr is Init writing to standard error.
func InitStderr(level string) error {
	return Init(os.Stderr, level)
}

func Info(msg string, keyvals ...any) {
	Logger.Info(msg, keyvals...)
}

func Debug(msg string, keyvals ...any) {
	Logger.Debug(msg, keyvals...)
}

func Warn(msg string, keyvals ...any) {
	Logger.Warn(msg, keyvals...)
}

func Error(msg string, keyvals ...any) {
	Logger.Error(msg, keyvals...)
}
