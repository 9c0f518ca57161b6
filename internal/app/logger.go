package app

import (
	"log/slog"
	"os"
)

// NewLogger builds the process logger. Production always logs JSON; outside
// production LOG_FORMAT=json opts in, anything else ("pretty") gets the text
// handler. Every record carries the service name.
func NewLogger(cfg *Config) *slog.Logger {
	opts := &slog.HandlerOptions{AddSource: true}
	var handler slog.Handler
	if cfg.IsProduction() || (cfg != nil && cfg.LogFormat == "json") {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	return slog.New(handler.WithAttrs([]slog.Attr{slog.String("service", "posd")}))
}
