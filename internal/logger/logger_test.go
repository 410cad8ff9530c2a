package logger

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name   string
		config *Config
	}{
		{
			name:   "default config",
			config: nil,
		},
		{
			name: "custom json config",
			config: &Config{
				Level:  "debug",
				Format: "json",
			},
		},
		{
			name: "console config",
			config: &Config{
				Level:  "info",
				Format: "console",
				Output: io.Discard,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := New(tt.config)
			assert.NotNil(t, logger)
			assert.NoError(t, logger.Close())
		})
	}
}

func TestLogger_JSONOutput(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := New(&Config{
		Level:  "info",
		Format: "json",
		Output: buf,
	})

	logger.Info("test message")

	var logEntry map[string]any
	err := json.Unmarshal(buf.Bytes(), &logEntry)
	require.NoError(t, err)

	assert.Equal(t, "info", logEntry["level"])
	assert.Equal(t, "test message", logEntry["message"])
	assert.NotEmpty(t, logEntry["time"])
}

func TestLogger_WithFields(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := New(&Config{
		Level:  "info",
		Format: "json",
		Output: buf,
	})

	childLogger := logger.With().
		Str("schema", "VS").
		Int("tables", 2).
		Logger()

	childLogger.Info("request decoded")

	var logEntry map[string]any
	err := json.Unmarshal(buf.Bytes(), &logEntry)
	require.NoError(t, err)

	assert.Equal(t, "VS", logEntry["schema"])
	assert.Equal(t, float64(2), logEntry["tables"])
	assert.Equal(t, "request decoded", logEntry["message"])
}

func TestLogger_ErrorWithFields(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := New(&Config{
		Level:  "error",
		Format: "json",
		Output: buf,
	})

	testErr := errors.New("unsupported token")
	logger.ErrorWith("decode failed", testErr, map[string]any{
		"request_type": "pushdown",
		"length":       512,
	})

	var logEntry map[string]any
	err := json.Unmarshal(buf.Bytes(), &logEntry)
	require.NoError(t, err)

	assert.Equal(t, "error", logEntry["level"])
	assert.Equal(t, "decode failed", logEntry["message"])
	assert.Equal(t, "unsupported token", logEntry["error"])
	assert.Equal(t, "pushdown", logEntry["request_type"])
	assert.Equal(t, float64(512), logEntry["length"])
}

func TestLogger_Context(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := New(&Config{
		Level:  "info",
		Format: "json",
		Output: buf,
	})

	ctx := logger.WithContext(context.Background())
	retrievedLogger := FromContext(ctx)

	retrievedLogger.Info("from context")

	var logEntry map[string]any
	err := json.Unmarshal(buf.Bytes(), &logEntry)
	require.NoError(t, err)

	assert.Equal(t, "from context", logEntry["message"])
}

func TestLogger_ContextDisabled(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := New(&Config{Level: "OFF", Format: "json", Output: buf})

	FromContext(logger.WithContext(context.Background())).Error("must not appear")

	assert.Empty(t, buf.String())
	assert.Equal(t, zerolog.Disabled, FromContext(logger.WithContext(context.Background())).Level())
	assert.Equal(t, zerolog.InfoLevel, FromContext(context.Background()).Level())
}

func TestLogger_TimeFormatPerLogger(t *testing.T) {
	unixBuf, rfcBuf := &bytes.Buffer{}, &bytes.Buffer{}
	unixLog := New(&Config{Level: "info", Format: "json", TimeFormat: "unix", Output: unixBuf})
	rfcLog := New(&Config{Level: "info", Format: "json", TimeFormat: "rfc3339", Output: rfcBuf})

	unixLog.Info("a")
	rfcLog.Info("b")

	var unixEntry, rfcEntry map[string]any
	require.NoError(t, json.Unmarshal(unixBuf.Bytes(), &unixEntry))
	require.NoError(t, json.Unmarshal(rfcBuf.Bytes(), &rfcEntry))

	assert.IsType(t, float64(0), unixEntry["time"])
	stamp, ok := rfcEntry["time"].(string)
	require.True(t, ok)
	_, err := time.Parse(time.RFC3339, stamp)
	assert.NoError(t, err)
}

func TestNew_Parallel(t *testing.T) {
	formats := []string{"unix", "unixms", "unixmicro", "rfc3339"}
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(format string) {
			defer wg.Done()
			New(&Config{Level: "info", Format: "json", TimeFormat: format, Output: io.Discard}).Info("x")
		}(formats[i%len(formats)])
	}
	wg.Wait()
}

func TestLogger_Levels(t *testing.T) {
	tests := []struct {
		name     string
		level    string
		logFunc  func(*Logger)
		expected bool // should log or not
	}{
		{
			name:  "debug level logs debug",
			level: "debug",
			logFunc: func(l *Logger) {
				l.Debug("debug message")
			},
			expected: true,
		},
		{
			name:  "info level skips debug",
			level: "info",
			logFunc: func(l *Logger) {
				l.Debug("debug message")
			},
			expected: false,
		},
		{
			name:  "error level logs error",
			level: "error",
			logFunc: func(l *Logger) {
				l.Error("error message")
			},
			expected: true,
		},
		{
			name:  "error level skips info",
			level: "error",
			logFunc: func(l *Logger) {
				l.Info("info message")
			},
			expected: false,
		},
		{
			name:  "engine level FINEST logs debug",
			level: "FINEST",
			logFunc: func(l *Logger) {
				l.DebugWith("debug message", map[string]any{"k": "v"})
			},
			expected: true,
		},
		{
			name:  "engine level SEVERE skips warn",
			level: "SEVERE",
			logFunc: func(l *Logger) {
				l.Warn("warn message")
			},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			logger := New(&Config{
				Level:  tt.level,
				Format: "json",
				Output: buf,
			})

			tt.logFunc(logger)

			if tt.expected {
				assert.NotEmpty(t, buf.String(), "expected log output")
			} else {
				assert.Empty(t, buf.String(), "expected no log output")
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]zerolog.Level{
		"debug":   zerolog.DebugLevel,
		"ALL":     zerolog.DebugLevel,
		"FINER":   zerolog.DebugLevel,
		"CONFIG":  zerolog.InfoLevel,
		"INFO":    zerolog.InfoLevel,
		"WARNING": zerolog.WarnLevel,
		"warn":    zerolog.WarnLevel,
		"SEVERE":  zerolog.ErrorLevel,
		"OFF":     zerolog.Disabled,
		"bogus":   zerolog.InfoLevel,
	}
	for in, want := range tests {
		assert.Equal(t, want, parseLevel(in), in)
	}
	assert.True(t, ValidLevel("finest"))
	assert.False(t, ValidLevel("bogus"))
}

func TestConfigFromProperties(t *testing.T) {
	base := &Config{Level: "info", Format: "json", Output: io.Discard}

	cfg := ConfigFromProperties(map[string]string{
		PropertyLogLevel:     "ALL",
		PropertyDebugAddress: "127.0.0.1:3000",
		"OTHER":              "x",
	}, base)
	assert.Equal(t, "ALL", cfg.Level)
	assert.Equal(t, "127.0.0.1:3000", cfg.RemoteAddress)
	assert.Equal(t, "info", base.Level, "base must not change")

	cfg = ConfigFromProperties(nil, base)
	assert.Equal(t, *base, *cfg)

	cfg = ConfigFromProperties(map[string]string{PropertyLogLevel: ""}, nil)
	assert.Equal(t, DefaultConfig().Level, cfg.Level)
}

func TestNewRemote_Attached(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	lines := make(chan string, 4)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		sc := bufio.NewScanner(conn)
		for sc.Scan() {
			lines <- sc.Text()
		}
		close(lines)
	}()

	logger := NewRemote(&Config{Level: "debug", RemoteAddress: ln.Addr().String()})
	logger.Debug("hello listener")
	require.NoError(t, logger.Close())

	var got []string
	timeout := time.After(5 * time.Second)
	for done := false; !done; {
		select {
		case line, ok := <-lines:
			if !ok {
				done = true
				break
			}
			got = append(got, line)
		case <-timeout:
			t.Fatal("timed out waiting for remote log lines")
		}
	}
	require.Len(t, got, 2)
	assert.Contains(t, got[0], "Attached to output service")
	assert.Contains(t, got[1], "hello listener")
}

func TestNewRemote_FallsBackToConsole(t *testing.T) {
	// Grab a free port and release it so nothing is listening there.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	buf := &bytes.Buffer{}
	logger := NewRemote(&Config{Level: "info", Format: "json", Output: buf, RemoteAddress: addr})
	logger.Info("still logging")

	out := buf.String()
	assert.Contains(t, out, "Falling back to console log.")
	assert.Contains(t, out, "still logging")
	assert.NoError(t, logger.Close())
}

func TestNop(t *testing.T) {
	logger := Nop()
	logger.Error("discarded")
	assert.Equal(t, zerolog.Disabled, logger.Level())
}

func BenchmarkLogger_Info(b *testing.B) {
	logger := New(&Config{
		Level:  "info",
		Format: "json",
		Output: io.Discard,
	})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		logger.Info("benchmark message")
	}
}

func BenchmarkLogger_WithFields(b *testing.B) {
	logger := New(&Config{
		Level:  "info",
		Format: "json",
		Output: io.Discard,
	})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		logger.With().
			Str("schema", "VS").
			Int("call", i).
			Logger().
			Info("benchmark message")
	}
}
