package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
)

// logLine is a decoded slog JSON line. Attributes other than the
// standard time/level/msg keys land in Fields.
type logLine struct {
	Level   string
	Message string
	Fields  map[string]interface{}
}

func decodeLogLine(t *testing.T, buf *bytes.Buffer) logLine {
	t.Helper()

	var raw map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &raw); err != nil {
		t.Fatalf("Failed to unmarshal log entry: %v", err)
	}

	line := logLine{Fields: make(map[string]interface{})}
	line.Level, _ = raw["level"].(string)
	line.Message, _ = raw["msg"].(string)
	for k, v := range raw {
		switch k {
		case "time", "level", "msg":
		default:
			line.Fields[k] = v
		}
	}
	return line
}

func TestLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(InfoLevel, &buf)

	logger.Debug("debug message")
	if buf.Len() > 0 {
		t.Error("Debug message should not be logged at Info level")
	}

	tests := []struct {
		name string
		log  func(string)
		want string
	}{
		{"info", logger.Info, "INFO"},
		{"warn", logger.Warn, "WARN"},
		{"error", logger.Error, "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()
			tt.log("a message")

			line := decodeLogLine(t, &buf)
			if line.Level != tt.want {
				t.Errorf("Expected level %s, got %s", tt.want, line.Level)
			}
			if line.Message != "a message" {
				t.Errorf("Expected message 'a message', got %s", line.Message)
			}
		})
	}
}

func TestLogger_Fields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(InfoLevel, &buf)

	t.Run("WithField", func(t *testing.T) {
		buf.Reset()
		logger.WithField("key", "value").Info("message")

		line := decodeLogLine(t, &buf)
		if line.Fields["key"] != "value" {
			t.Errorf("Expected field 'key' to be 'value', got %v", line.Fields["key"])
		}
	})

	t.Run("WithFields", func(t *testing.T) {
		buf.Reset()
		logger.WithFields(map[string]interface{}{
			"key1": "value1",
			"key2": 42,
		}).Info("message")

		line := decodeLogLine(t, &buf)
		if line.Fields["key1"] != "value1" {
			t.Errorf("Expected field 'key1' to be 'value1', got %v", line.Fields["key1"])
		}
		if line.Fields["key2"] != float64(42) {
			t.Errorf("Expected field 'key2' to be 42, got %v", line.Fields["key2"])
		}
	})

	t.Run("WithError", func(t *testing.T) {
		buf.Reset()
		logger.WithError(errors.New("boom")).Error("something went wrong")

		line := decodeLogLine(t, &buf)
		if line.Fields["error"] != "boom" {
			t.Errorf("Expected error field 'boom', got %v", line.Fields["error"])
		}
	})

	t.Run("WithError nil", func(t *testing.T) {
		buf.Reset()
		logger.WithError(nil).Info("fine")

		line := decodeLogLine(t, &buf)
		if _, exists := line.Fields["error"]; exists {
			t.Error("Expected no error field for nil error")
		}
	})
}

func TestLogger_Formatters(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(DebugLevel, &buf)

	tests := []struct {
		name string
		logf func(string, ...interface{})
		want string
	}{
		{"Debugf", logger.Debugf, "formatted 1"},
		{"Infof", logger.Infof, "formatted 2"},
		{"Warnf", logger.Warnf, "formatted 3"},
		{"Errorf", logger.Errorf, "formatted 4"},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()
			tt.logf("formatted %d", i+1)

			line := decodeLogLine(t, &buf)
			if line.Message != tt.want {
				t.Errorf("Expected message %q, got %q", tt.want, line.Message)
			}
		})
	}
}

func TestContextHelpers(t *testing.T) {
	t.Run("RequestID", func(t *testing.T) {
		ctx := WithRequestID(context.Background(), "req-123")
		if got := GetRequestID(ctx); got != "req-123" {
			t.Errorf("Expected request ID 'req-123', got %s", got)
		}
		if got := GetRequestID(context.Background()); got != "" {
			t.Errorf("Expected empty request ID, got %s", got)
		}
	})

	t.Run("Logger", func(t *testing.T) {
		logger := NewLogger(InfoLevel, nil)
		ctx := WithLogger(context.Background(), logger)
		if GetLogger(ctx) != logger {
			t.Error("Expected to retrieve the stored logger from context")
		}
		if GetLogger(context.Background()) == nil {
			t.Error("Expected a fallback logger for a bare context")
		}
	})

	t.Run("FromContext", func(t *testing.T) {
		var buf bytes.Buffer
		ctx := WithLogger(context.Background(), NewLogger(InfoLevel, &buf))
		ctx = WithRequestID(ctx, "req-123")

		FromContext(ctx).Info("test message")

		line := decodeLogLine(t, &buf)
		if line.Fields["request_id"] != "req-123" {
			t.Errorf("Expected request_id 'req-123', got %v", line.Fields["request_id"])
		}
	})
}

func TestLogLevel_String(t *testing.T) {
	tests := []struct {
		level LogLevel
		want  string
	}{
		{DebugLevel, "DEBUG"},
		{InfoLevel, "INFO"},
		{WarnLevel, "WARN"},
		{ErrorLevel, "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.level.String(); got != tt.want {
				t.Errorf("LogLevel.String() = %v, want %v", got, tt.want)
			}
		})
	}
}
