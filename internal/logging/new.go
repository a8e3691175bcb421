package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"go.uber.org/zap/zapcore"
)

const (
	BackendSlog = "slog"
	BackendZap  = "zap"

	FormatText = "text"
	FormatJSON = "json"
)

// New builds a Logger writing to w. backend is "slog" or "zap", level one of
// debug, info, warn, error and format "text" or "json".
func New(backend, level, format string, w io.Writer) (Logger, error) {
	format = strings.ToLower(format)
	if format != FormatText && format != FormatJSON {
		return nil, fmt.Errorf("unknown log format %q", format)
	}

	switch strings.ToLower(backend) {
	case BackendSlog, "":
		lvl, err := parseSlogLevel(level)
		if err != nil {
			return nil, err
		}
		return NewSlogLogger(slog.New(newSlogHandler(w, lvl, format))), nil

	case BackendZap:
		lvl, err := zapcore.ParseLevel(level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", level, err)
		}
		return NewZapLogger(newZapCore(w, lvl, format)), nil

	default:
		return nil, fmt.Errorf("unknown log backend %q", backend)
	}
}
