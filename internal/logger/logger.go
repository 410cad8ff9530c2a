package logger

import (
	"context"
	"io"
	"net"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Schema property keys that control logging for a single adapter call.
const (
	PropertyLogLevel     = "LOG_LEVEL"
	PropertyDebugAddress = "DEBUG_ADDRESS"
)

// dialTimeout bounds the connection attempt to a remote log listener.
const dialTimeout = 2 * time.Second

// Logger wraps zerolog with the adapter's logging conventions
type Logger struct {
	zlog   zerolog.Logger
	closer io.Closer // remote connection, if any
}

// Config holds logger configuration
type Config struct {
	Level         string // debug, info, warn, error (engine names accepted too)
	Format        string // json, console
	TimeFormat    string // rfc3339, unix, etc.
	Output        io.Writer
	RemoteAddress string // host:port of a log listener; "" logs to Output
}

// DefaultConfig returns production-ready defaults
func DefaultConfig() *Config {
	return &Config{
		Level:      "info",
		Format:     "json",
		TimeFormat: "rfc3339",
		Output:     os.Stderr,
	}
}

// ConfigFromProperties derives the logging setup of a call from the virtual
// schema properties, starting from base. LOG_LEVEL sets the level and
// DEBUG_ADDRESS names a host:port that receives the log lines.
func ConfigFromProperties(props map[string]string, base *Config) *Config {
	if base == nil {
		base = DefaultConfig()
	}
	cfg := *base
	if level, ok := props[PropertyLogLevel]; ok && level != "" {
		cfg.Level = level
	}
	if addr, ok := props[PropertyDebugAddress]; ok && addr != "" {
		cfg.RemoteAddress = addr
	}
	return &cfg
}

// New creates a new logger
func New(cfg *Config) *Logger {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	return newLogger(cfg, out, cfg.Format == "console")
}

func newLogger(cfg *Config, out io.Writer, console bool) *Logger {
	var zlog zerolog.Logger
	if console {
		// Human-readable lines, also used for remote listeners
		output := zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.RFC3339,
			NoColor:    cfg.RemoteAddress != "",
		}
		zlog = zerolog.New(output)
	} else {
		zlog = zerolog.New(out)
	}
	zlog = zlog.Level(parseLevel(cfg.Level)).Hook(timestampHook{format: getTimeFormat(cfg.TimeFormat)})
	return &Logger{zlog: zlog}
}

// timestampHook stamps each event in the logger's own time format.
// zerolog's Timestamp() reads the process-wide TimeFieldFormat instead.
type timestampHook struct {
	format string
}

func (h timestampHook) Run(e *zerolog.Event, _ zerolog.Level, _ string) {
	now := time.Now()
	switch h.format {
	case zerolog.TimeFormatUnix:
		e.Int64(zerolog.TimestampFieldName, now.Unix())
	case zerolog.TimeFormatUnixMs:
		e.Int64(zerolog.TimestampFieldName, now.UnixMilli())
	case zerolog.TimeFormatUnixMicro:
		e.Int64(zerolog.TimestampFieldName, now.UnixMicro())
	default:
		e.Str(zerolog.TimestampFieldName, now.Format(h.format))
	}
}

// NewRemote connects to cfg.RemoteAddress and logs there in console format.
// If the address is empty it behaves like New. If the listener cannot be
// reached it falls back to console output on cfg.Output and says so.
// Call Close when done to release the connection.
func NewRemote(cfg *Config) *Logger {
	if cfg == nil || cfg.RemoteAddress == "" {
		return New(cfg)
	}
	conn, err := net.DialTimeout("tcp", cfg.RemoteAddress, dialTimeout)
	if err != nil {
		local := *cfg
		local.RemoteAddress = ""
		local.Format = "console"
		l := New(&local)
		l.zlog.Warn().Err(err).Str("address", cfg.RemoteAddress).
			Msg("Failed to attach to output service. Falling back to console log.")
		return l
	}
	l := newLogger(cfg, conn, true)
	l.closer = conn
	l.zlog.Info().Str("address", cfg.RemoteAddress).Msg("Attached to output service")
	return l
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{zlog: zerolog.Nop()}
}

// Close releases the remote connection, if any.
func (l *Logger) Close() error {
	if l.closer == nil {
		return nil
	}
	err := l.closer.Close()
	l.closer = nil
	return err
}

// Level returns the minimum level the logger writes.
func (l *Logger) Level() zerolog.Level {
	return l.zlog.GetLevel()
}

// WithContext adds logger to context
func (l *Logger) WithContext(ctx context.Context) context.Context {
	return l.zlog.WithContext(ctx)
}

// FromContext retrieves logger from context. A logger stored with level OFF
// stays silent; only a context without a logger yields the default one.
func FromContext(ctx context.Context) *Logger {
	zlog := zerolog.Ctx(ctx)
	if zlog == zerolog.Ctx(context.Background()) {
		return New(nil)
	}
	return &Logger{zlog: *zlog}
}

// With creates a child logger with additional fields
func (l *Logger) With() *Context {
	return &Context{ctx: l.zlog.With()}
}

// Context wraps zerolog.Context for field chaining
type Context struct {
	ctx zerolog.Context
}

func (c *Context) Str(key, val string) *Context {
	c.ctx = c.ctx.Str(key, val)
	return c
}

func (c *Context) Int(key string, val int) *Context {
	c.ctx = c.ctx.Int(key, val)
	return c
}

func (c *Context) Err(err error) *Context {
	c.ctx = c.ctx.Err(err)
	return c
}

func (c *Context) Any(key string, val any) *Context {
	c.ctx = c.ctx.Interface(key, val)
	return c
}

// Logger returns the child logger. It shares the parent's remote connection;
// only the parent should be closed.
func (c *Context) Logger() *Logger {
	return &Logger{zlog: c.ctx.Logger()}
}

// Logging methods
func (l *Logger) Debug(msg string) {
	l.zlog.Debug().Msg(msg)
}

func (l *Logger) Debugf(format string, args ...any) {
	l.zlog.Debug().Msgf(format, args...)
}

func (l *Logger) Info(msg string) {
	l.zlog.Info().Msg(msg)
}

func (l *Logger) Infof(format string, args ...any) {
	l.zlog.Info().Msgf(format, args...)
}

func (l *Logger) Warn(msg string) {
	l.zlog.Warn().Msg(msg)
}

func (l *Logger) Warnf(format string, args ...any) {
	l.zlog.Warn().Msgf(format, args...)
}

func (l *Logger) Error(msg string) {
	l.zlog.Error().Msg(msg)
}

func (l *Logger) Errorf(format string, args ...any) {
	l.zlog.Error().Msgf(format, args...)
}

// Structured logging with fields
func (l *Logger) DebugWith(msg string, fields map[string]any) {
	event := l.zlog.Debug()
	for k, v := range fields {
		event = event.Interface(k, v)
	}
	event.Msg(msg)
}

func (l *Logger) ErrorWith(msg string, err error, fields map[string]any) {
	event := l.zlog.Error().Err(err)
	for k, v := range fields {
		event = event.Interface(k, v)
	}
	event.Msg(msg)
}

// parseLevel accepts zerolog level names as well as the engine's
// java.util.logging names (FINEST, CONFIG, SEVERE, ...).
func parseLevel(level string) zerolog.Level {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG", "ALL", "FINEST", "FINER", "FINE":
		return zerolog.DebugLevel
	case "INFO", "CONFIG":
		return zerolog.InfoLevel
	case "WARN", "WARNING":
		return zerolog.WarnLevel
	case "ERROR", "SEVERE":
		return zerolog.ErrorLevel
	case "OFF":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

// ValidLevel reports whether level is a recognised level name.
func ValidLevel(level string) bool {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG", "ALL", "FINEST", "FINER", "FINE", "INFO", "CONFIG",
		"WARN", "WARNING", "ERROR", "SEVERE", "OFF":
		return true
	}
	return false
}

func getTimeFormat(format string) string {
	switch format {
	case "unix":
		return zerolog.TimeFormatUnix
	case "unixms":
		return zerolog.TimeFormatUnixMs
	case "unixmicro":
		return zerolog.TimeFormatUnixMicro
	default:
		return time.RFC3339
	}
}
