package cli

import (
	"io"

	"github.com/sdejongh/hadidi/pkg/config"
	"github.com/sdejongh/hadidi/pkg/logging"
)

// createLogger creates a logger based on configuration. A log file takes
// precedence over --verbose, which otherwise logs at debug level to stderr.
func createLogger(cfg config.LoggingConfig, verbose bool, stderr io.Writer) (logging.Logger, error) {
	// Parse log format
	var format logging.Format
	switch cfg.Format {
	case "json":
		format = logging.FormatJSON
	default:
		format = logging.FormatText
	}

	level := logging.ParseLevel(cfg.Level)
	if verbose {
		level = logging.DebugLevel
	}

	if cfg.File != "" {
		return logging.NewFileLogger(logging.FileLoggerConfig{
			Path:       cfg.File,
			Format:     format,
			Level:      level,
			MaxSize:    10 * 1024 * 1024, // 10 MB
			MaxBackups: 5,
		})
	}

	if verbose {
		return logging.NewWriterLogger(stderr, format, level), nil
	}

	return logging.NewNullLogger(), nil
}
