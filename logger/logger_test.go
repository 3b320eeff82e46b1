package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func jsonLogger(buf *bytes.Buffer, service string) *Logger {
	return NewWithWriter(&Config{Level: "debug", Format: FormatJSON}, service, buf)
}

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var m map[string]interface{}
	line := strings.TrimSpace(buf.String())
	if err := json.Unmarshal([]byte(line), &m); err != nil {
		t.Fatalf("log line is not JSON: %q: %v", line, err)
	}
	return m
}

func TestNewDefault(t *testing.T) {
	l := NewDefault("sessiond")
	if l == nil {
		t.Fatal("expected non-nil logger")
	}
	if l.service != "sessiond" {
		t.Errorf("expected service 'sessiond', got %q", l.service)
	}
}

func TestNewInvalidLevel(t *testing.T) {
	l := New(&Config{Level: "loud", Format: FormatJSON}, "test")
	if l == nil {
		t.Fatal("expected logger to be created even with invalid level")
	}
}

func TestJSONOutputCarriesServiceAndFields(t *testing.T) {
	var buf bytes.Buffer
	l := jsonLogger(&buf, "sessiond")

	l.WithComponent("gateway").Info("participant joined", Fields("participants", 2))

	m := decodeLine(t, &buf)
	if m[FieldService] != "sessiond" {
		t.Errorf("expected service field, got %v", m[FieldService])
	}
	if m[FieldComponent] != "gateway" {
		t.Errorf("expected component field, got %v", m[FieldComponent])
	}
	if m["participants"] != float64(2) {
		t.Errorf("expected participants=2, got %v", m["participants"])
	}
	if m["message"] != "participant joined" {
		t.Errorf("unexpected message %v", m["message"])
	}
}

func TestWithSession(t *testing.T) {
	var buf bytes.Buffer
	jsonLogger(&buf, "").WithSession("AB12").Debug("roster changed")

	m := decodeLine(t, &buf)
	if m[FieldSessionID] != "AB12" {
		t.Errorf("expected session_id=AB12, got %v", m[FieldSessionID])
	}
}

func TestWithError(t *testing.T) {
	var buf bytes.Buffer
	jsonLogger(&buf, "").WithError(errors.New("boom")).Warn("delivery failed")

	m := decodeLine(t, &buf)
	if m["error"] != "boom" {
		t.Errorf("expected error=boom, got %v", m["error"])
	}
	if m["level"] != "warn" {
		t.Errorf("expected warn level, got %v", m["level"])
	}
}

func TestNop(t *testing.T) {
	// Must not panic.
	Nop().WithComponent("x").Error("ignored", Fields("k", "v"))
}

func TestInitAndGlobal(t *testing.T) {
	prev := globalLogger
	defer SetGlobalLogger(prev)

	Init(Config{ServiceName: "sessiond", Level: "error", Format: FormatJSON})
	if GetGlobalLogger().service != "sessiond" {
		t.Errorf("expected global service 'sessiond', got %q", GetGlobalLogger().service)
	}

	SetGlobalLogger(nil)
	if GetGlobalLogger() == nil {
		t.Fatal("expected lazily created default logger")
	}
}

func TestConfigApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()
	if cfg.Level != "info" {
		t.Errorf("expected level info, got %q", cfg.Level)
	}
	if cfg.Format != FormatConsole {
		t.Errorf("expected console format, got %q", cfg.Format)
	}
	if cfg.Output != "stdout" {
		t.Errorf("expected stdout, got %q", cfg.Output)
	}
	if !cfg.Timestamp {
		t.Error("expected timestamp enabled")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid", Config{Level: "info", Format: "json"}, false},
		{"pretty", Config{Level: "debug", Format: "pretty"}, false},
		{"bad level", Config{Level: "verbose", Format: "json"}, true},
		{"bad format", Config{Level: "info", Format: "xml"}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestConsoleFormatNoColor(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&Config{Level: "info", Format: FormatConsole, NoColor: true}, "sessiond", &buf)
	l.Info("hello")

	out := buf.String()
	if !strings.Contains(out, "[SES][INF]") {
		t.Errorf("expected service and level tags, got %q", out)
	}
	if strings.Contains(out, "\033[") {
		t.Errorf("expected no ANSI codes, got %q", out)
	}
}

func TestFields(t *testing.T) {
	m := Fields("a", 1, "b", "two", 3, "skipped", "dangling")
	if len(m) != 2 {
		t.Fatalf("expected 2 fields, got %d: %v", len(m), m)
	}
	if m["a"] != 1 || m["b"] != "two" {
		t.Errorf("unexpected fields %v", m)
	}
}

func TestErrorAndDurationFields(t *testing.T) {
	ef := ErrorFields("emit", errors.New("closed"))
	if ef[FieldOperation] != "emit" || ef[FieldError] != "closed" {
		t.Errorf("unexpected error fields %v", ef)
	}
	df := DurationFields("verify", 1500*time.Millisecond)
	if df[FieldDuration] != int64(1500) {
		t.Errorf("expected 1500ms, got %v", df[FieldDuration])
	}
}

func TestChannelFields(t *testing.T) {
	unbound := ChannelFields("c1", "", "")
	if len(unbound) != 1 {
		t.Errorf("expected only channel id for an unbound channel, got %v", unbound)
	}
	bound := ChannelFields("c1", "AB12", "alice")
	if bound[FieldSessionID] != "AB12" || bound[FieldParticipantID] != "alice" {
		t.Errorf("unexpected bound fields %v", bound)
	}
}
