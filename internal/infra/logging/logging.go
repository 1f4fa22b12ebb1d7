package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// ParseFormat accepts "json" or "text", case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatText:
		return f, nil
	default:
		return "", fmt.Errorf("unknown log format %q", s)
	}
}

// UnmarshalText lets envconf load a Format directly.
func (f *Format) UnmarshalText(b []byte) error {
	parsed, err := ParseFormat(string(b))
	if err != nil {
		return err
	}

	*f = parsed

	return nil
}

// Setup installs a default slog logger writing to w.
func Setup(w io.Writer, format Format, level slog.Level) {
	opts := &slog.HandlerOptions{Level: level}

	var h slog.Handler
	if format == FormatText {
		h = slog.NewTextHandler(w, opts)
	} else {
		h = slog.NewJSONHandler(w, opts)
	}

	slog.SetDefault(slog.New(h))
}

// SetupJSON sets slog's default logger to use JSON output on stdout at the given level.
func SetupJSON(level slog.Level) {
	Setup(os.Stdout, FormatJSON, level)
}
