package logging

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// New builds a logfmt logger on w that drops entries below lvl.
// lvl is one of debug, info, warn, error or none.
func New(w io.Writer, lvl string) (log.Logger, error) {
	opt, err := levelOption(lvl)
	if err != nil {
		return nil, err
	}

	logger := log.NewLogfmtLogger(log.NewSyncWriter(w))
	logger = log.With(logger, "ts", log.DefaultTimestampUTC)
	return level.NewFilter(logger, opt), nil
}

func levelOption(lvl string) (level.Option, error) {
	switch strings.ToLower(strings.TrimSpace(lvl)) {
	case "debug":
		return level.AllowDebug(), nil
	case "info":
		return level.AllowInfo(), nil
	case "", "warn", "warning":
		return level.AllowWarn(), nil
	case "error":
		return level.AllowError(), nil
	case "none", "off":
		return level.AllowNone(), nil
	}
	return nil, fmt.Errorf("unknown log level %q", lvl)
}

// Component tags every entry of logger with the emitting package
func Component(logger log.Logger, name string) log.Logger {
	return log.With(logger, "component", name)
}
