// Package logger holds the process-wide structured logger.
//
// Output goes to stderr so that stdout stays free for image data piped with
// "-out -" and for the MCP protocol in serve mode. The level is read from
// QR_EDGEMAP_LOG_LEVEL (debug, info, warn, error) and defaults to info.
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// EnvLevel names the environment variable that selects the log level.
const EnvLevel = "QR_EDGEMAP_LOG_LEVEL"

// Logger is the shared logger instance.
var Logger *logrus.Logger

func init() {
	Logger = logrus.New()
	Logger.SetOutput(os.Stderr)
	Logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	Logger.SetLevel(ParseLevel(os.Getenv(EnvLevel)))
}

// ParseLevel maps a level name to a logrus level. Unknown names map to info.
func ParseLevel(name string) logrus.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return logrus.DebugLevel
	case "warn", "warning":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}

// SetLevel changes the logger level by name.
func SetLevel(name string) {
	Logger.SetLevel(ParseLevel(name))
}

// SetOutput redirects log output, mainly for tests.
func SetOutput(w io.Writer) {
	Logger.SetOutput(w)
}

// WithFields creates a new entry with the given fields
func WithFields(fields logrus.Fields) *logrus.Entry {
	return Logger.WithFields(fields)
}

// WithField creates a new entry with a single field
func WithField(key string, value interface{}) *logrus.Entry {
	return Logger.WithField(key, value)
}

// WithError creates a new entry with an error field
func WithError(err error) *logrus.Entry {
	return Logger.WithError(err)
}
