package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Log is the process-wide logger. It discards output until Initialize is called.
var Log = zerolog.Nop()

// StringToLevel parses a level name, returning info for unknown values
func StringToLevel(value string) zerolog.Level {
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(value)))
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return level
}

// Initialize sets up the console logger at the given level
func Initialize(level string) {
	InitializeWithWriter(os.Stdout, level)
}

// InitializeWithWriter sets up the logger writing to w
func InitializeWithWriter(w io.Writer, level string) {
	console := zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	Log = zerolog.New(console).Level(StringToLevel(level)).With().Timestamp().Logger()
	Log.Info().Str("level", Log.GetLevel().String()).Msg("logger initialized")
}

// Component returns a child logger tagged with a component name
func Component(name string) zerolog.Logger {
	return Log.With().Str("component", name).Logger()
}
