package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

const (
	FormatConsole = "console"
	FormatPretty  = "pretty"
	FormatJSON    = "json"
)

// Logger wraps zerolog.Logger with the service name it was built for.
type Logger struct {
	logger  zerolog.Logger
	service string
}

// Init initializes the global logger from config.
func Init(cfg Config) {
	cfg.ApplyDefaults()
	globalLogger = New(&cfg, cfg.ServiceName)
}

// New creates a new logger instance writing to the configured output.
func New(cfg *Config, serviceName string) *Logger {
	return NewWithWriter(cfg, serviceName, outputWriter(cfg.Output))
}

// NewWithWriter creates a logger that writes to w instead of stdout/stderr.
func NewWithWriter(cfg *Config, serviceName string, w io.Writer) *Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	var zl zerolog.Logger
	if isConsole(cfg.Format) {
		zl = zerolog.New(consoleWriter(cfg, serviceName, w))
	} else {
		zl = zerolog.New(w)
		if serviceName != "" {
			zl = zl.With().Str(FieldService, serviceName).Logger()
		}
	}

	if cfg.Timestamp {
		zl = zl.With().Timestamp().Logger()
	}
	if cfg.Caller {
		zl = zl.With().Caller().Logger()
	}

	return &Logger{logger: zl, service: serviceName}
}

// NewDefault creates a console logger at info level.
func NewDefault(serviceName string) *Logger {
	cfg := &Config{
		Level:     "info",
		Format:    FormatConsole,
		Output:    "stdout",
		Timestamp: true,
	}
	return New(cfg, serviceName)
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{logger: zerolog.Nop()}
}

// WithComponent returns a logger tagged with a component name.
func (l *Logger) WithComponent(name string) *Logger {
	return &Logger{
		logger:  l.logger.With().Str(FieldComponent, name).Logger(),
		service: l.service,
	}
}

// WithSession returns a logger tagged with a session id.
func (l *Logger) WithSession(sessionID string) *Logger {
	return &Logger{
		logger:  l.logger.With().Str(FieldSessionID, sessionID).Logger(),
		service: l.service,
	}
}

// WithFields returns a logger with additional fields.
func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	zc := l.logger.With()
	for k, v := range fields {
		zc = zc.Interface(k, v)
	}
	return &Logger{logger: zc.Logger(), service: l.service}
}

// WithError returns a logger with an error field.
func (l *Logger) WithError(err error) *Logger {
	return &Logger{
		logger:  l.logger.With().Err(err).Logger(),
		service: l.service,
	}
}

func (l *Logger) Debug(msg string, fields ...map[string]interface{}) {
	emit(l.logger.Debug(), msg, fields)
}

func (l *Logger) Info(msg string, fields ...map[string]interface{}) {
	emit(l.logger.Info(), msg, fields)
}

func (l *Logger) Warn(msg string, fields ...map[string]interface{}) {
	emit(l.logger.Warn(), msg, fields)
}

func (l *Logger) Error(msg string, fields ...map[string]interface{}) {
	emit(l.logger.Error(), msg, fields)
}

// Fatal logs a fatal message and exits.
func (l *Logger) Fatal(msg string, fields ...map[string]interface{}) {
	emit(l.logger.Fatal(), msg, fields)
}

// --- Global logger ---

var globalLogger *Logger

// SetGlobalLogger sets the global logger instance.
func SetGlobalLogger(l *Logger) { globalLogger = l }

// GetGlobalLogger returns the global logger, creating a default one if needed.
func GetGlobalLogger() *Logger {
	if globalLogger == nil {
		globalLogger = NewDefault("")
	}
	return globalLogger
}

func Debug(msg string, fields ...map[string]interface{}) { GetGlobalLogger().Debug(msg, fields...) }
func Info(msg string, fields ...map[string]interface{})  { GetGlobalLogger().Info(msg, fields...) }
func Warn(msg string, fields ...map[string]interface{})  { GetGlobalLogger().Warn(msg, fields...) }
func Error(msg string, fields ...map[string]interface{}) { GetGlobalLogger().Error(msg, fields...) }

// WithComponent returns a component-tagged logger from the global logger.
func WithComponent(name string) *Logger {
	return GetGlobalLogger().WithComponent(name)
}

// --- internal helpers ---

func emit(event *zerolog.Event, msg string, fields []map[string]interface{}) {
	for _, fm := range fields {
		for k, v := range fm {
			event.Interface(k, v)
		}
	}
	event.Msg(msg)
}

func isConsole(format string) bool {
	f := strings.ToLower(format)
	return f == FormatConsole || f == FormatPretty
}

func outputWriter(output string) io.Writer {
	if strings.ToLower(output) == "stderr" {
		return os.Stderr
	}
	return os.Stdout
}

var levelTags = map[string]struct{ plain, color string }{
	"DEBUG": {"[DBG]", "\033[36m[DBG]\033[0m"},
	"INFO":  {"[INF]", "\033[32m[INF]\033[0m"},
	"WARN":  {"[WRN]", "\033[33m[WRN]\033[0m"},
	"ERROR": {"[ERR]", "\033[31m[ERR]\033[0m"},
	"FATAL": {"[FTL]", "\033[35m[FTL]\033[0m"},
}

func consoleWriter(cfg *Config, serviceName string, w io.Writer) zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: "15:04:05",
		NoColor:    cfg.NoColor,
		FormatLevel: func(i interface{}) string {
			lvl := strings.ToUpper(fmt.Sprintf("%s", i))
			tag := "[" + lvl + "]"
			if t, ok := levelTags[lvl]; ok {
				tag = t.plain
				if !cfg.NoColor {
					tag = t.color
				}
			}
			if len(serviceName) >= 3 {
				svc := "[" + strings.ToUpper(serviceName[:3]) + "]"
				if !cfg.NoColor {
					svc = "\033[34m" + svc + "\033[0m"
				}
				return svc + tag
			}
			return tag
		},
		FormatFieldName: func(i interface{}) string {
			return fmt.Sprintf("%s:", i)
		},
		FormatFieldValue: func(i interface{}) string {
			if i == nil {
				return ""
			}
			return fmt.Sprintf("%s", i)
		},
	}
}
