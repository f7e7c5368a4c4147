package log

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
)

// ANSI color codes.
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorGray   = "\033[90m"
)

// PrettyFormatter renders entries for an operator watching the bot in a
// foreground terminal: dim timestamp, a fixed-width colored level tag,
// the message, then sorted key=value fields with the error last.
type PrettyFormatter struct{}

func (f *PrettyFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	var b strings.Builder

	b.WriteString(colorGray)
	b.WriteString(entry.Time.Format("15:04:05"))
	b.WriteString(colorReset)
	b.WriteByte(' ')

	b.WriteString(levelColor(entry.Level))
	b.WriteString(fmt.Sprintf("%-5s", levelTag(entry.Level)))
	b.WriteString(colorReset)
	b.WriteByte(' ')

	b.WriteString(entry.Message)

	// Sorted fields keep repeated runs diffable; the error field reads
	// best at the end of the line.
	keys := make([]string, 0, len(entry.Data))
	for k := range entry.Data {
		if k == logrus.ErrorKey {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s%s%s=%v", colorCyan, k, colorReset, entry.Data[k])
	}
	if err, ok := entry.Data[logrus.ErrorKey]; ok {
		fmt.Fprintf(&b, " %serror=%v%s", colorRed, err, colorReset)
	}

	b.WriteByte('\n')
	return []byte(b.String()), nil
}

func levelTag(level logrus.Level) string {
	switch level {
	case logrus.TraceLevel:
		return "TRACE"
	case logrus.DebugLevel:
		return "DEBUG"
	case logrus.InfoLevel:
		return "INFO"
	case logrus.WarnLevel:
		return "WARN"
	case logrus.ErrorLevel:
		return "ERROR"
	case logrus.FatalLevel:
		return "FATAL"
	default:
		return "PANIC"
	}
}

func levelColor(level logrus.Level) string {
	switch level {
	case logrus.ErrorLevel, logrus.FatalLevel, logrus.PanicLevel:
		return colorRed
	case logrus.WarnLevel:
		return colorYellow
	case logrus.InfoLevel:
		return colorGreen
	default:
		return colorGray
	}
}

// NewLogger creates a configured logrus logger.
func NewLogger(level string, format string) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	setFormatter(logger, format)
	setLevel(logger, level)
	return logger
}

// Configure sets output, format, and level on an existing logger.
func Configure(logger *logrus.Logger, out io.Writer, level string, format string) {
	if out != nil {
		logger.SetOutput(out)
	}
	setFormatter(logger, format)
	setLevel(logger, level)
}

// Apply configures the global logrus instance from a freshly built logger.
func Apply(logger *logrus.Logger) {
	logrus.SetFormatter(logger.Formatter)
	logrus.SetLevel(logger.Level)
	logrus.SetOutput(logger.Out)
}

func setFormatter(logger *logrus.Logger, format string) {
	switch format {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	case "pretty":
		logger.SetFormatter(&PrettyFormatter{})
	default:
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "15:04:05",
		})
	}
}

func setLevel(logger *logrus.Logger, level string) {
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	logger.SetLevel(parsed)
}
