package middleware_test

import (
	"bufio"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kbukum/sessionkit/logger"
	"github.com/kbukum/sessionkit/server/middleware"
)

func okHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// ---------------------------------------------------------------------------
// Recovery
// ---------------------------------------------------------------------------

func TestRecovery_NoPanic(t *testing.T) {
	handler := middleware.Recovery(logger.Nop())(http.HandlerFunc(okHandler))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/", http.NoBody))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}

func TestRecovery_Panic(t *testing.T) {
	handler := middleware.Recovery(logger.Nop())(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
		panic("test panic")
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/api/create-session", http.NoBody))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not valid JSON: %v", err)
	}
	if body.Error.Code != "INTERNAL_ERROR" {
		t.Fatalf("unexpected code: %s", body.Error.Code)
	}
}

// ---------------------------------------------------------------------------
// RequestID
// ---------------------------------------------------------------------------

func TestRequestID_GeneratesID(t *testing.T) {
	handler := middleware.RequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get(middleware.HeaderRequestID) == "" {
			t.Error("expected X-Request-Id in request headers")
		}
		w.WriteHeader(http.StatusOK)
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/", http.NoBody))

	if rr.Header().Get(middleware.HeaderRequestID) == "" {
		t.Error("expected X-Request-Id in response headers")
	}
}

func TestRequestID_PreservesExisting(t *testing.T) {
	handler := middleware.RequestID()(http.HandlerFunc(okHandler))

	rr := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/", http.NoBody)
	req.Header.Set(middleware.HeaderRequestID, "custom-id-123")
	handler.ServeHTTP(rr, req)

	if got := rr.Header().Get(middleware.HeaderRequestID); got != "custom-id-123" {
		t.Fatalf("expected custom-id-123, got %s", got)
	}
}

// ---------------------------------------------------------------------------
// CORS
// ---------------------------------------------------------------------------

func TestCORS(t *testing.T) {
	tests := []struct {
		name        string
		cfg         middleware.CORSConfig
		method      string
		origin      string
		wantCode    int
		wantOrigin  string
		wantCreds   string
		wantMethods string
	}{
		{
			name:        "allowed origin",
			cfg:         middleware.CORSConfig{AllowedOrigins: []string{"https://app.example.com"}, AllowedMethods: []string{"GET", "POST"}},
			method:      "GET",
			origin:      "https://app.example.com",
			wantCode:    http.StatusOK,
			wantOrigin:  "https://app.example.com",
			wantMethods: "GET, POST",
		},
		{
			name:     "disallowed origin",
			cfg:      middleware.CORSConfig{AllowedOrigins: []string{"https://allowed.com"}},
			method:   "GET",
			origin:   "https://evil.com",
			wantCode: http.StatusOK,
		},
		{
			name:       "preflight with wildcard and credentials",
			cfg:        middleware.CORSConfig{AllowedOrigins: []string{"*"}, AllowCredentials: true},
			method:     "OPTIONS",
			origin:     "https://phone.example.com",
			wantCode:   http.StatusNoContent,
			wantOrigin: "https://phone.example.com",
			wantCreds:  "true",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := tc.cfg
			handler := middleware.CORS(&cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method == http.MethodOptions {
					t.Error("handler should not be called for OPTIONS preflight")
				}
				w.WriteHeader(http.StatusOK)
			}))

			rr := httptest.NewRecorder()
			req := httptest.NewRequest(tc.method, "/api/verify-session/AB12", http.NoBody)
			req.Header.Set("Origin", tc.origin)
			handler.ServeHTTP(rr, req)

			if rr.Code != tc.wantCode {
				t.Errorf("code = %d, want %d", rr.Code, tc.wantCode)
			}
			if got := rr.Header().Get("Access-Control-Allow-Origin"); got != tc.wantOrigin {
				t.Errorf("allow-origin = %q, want %q", got, tc.wantOrigin)
			}
			if got := rr.Header().Get("Access-Control-Allow-Credentials"); got != tc.wantCreds {
				t.Errorf("allow-credentials = %q, want %q", got, tc.wantCreds)
			}
			if got := rr.Header().Get("Access-Control-Allow-Methods"); got != tc.wantMethods {
				t.Errorf("allow-methods = %q, want %q", got, tc.wantMethods)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// RequestLogger
// ---------------------------------------------------------------------------

func newBufferLogger(buf *strings.Builder) *logger.Logger {
	return logger.NewWithWriter(&logger.Config{Level: "debug", Format: logger.FormatJSON}, "test", buf)
}

func TestRequestLogger_LogsRequest(t *testing.T) {
	var buf strings.Builder
	handler := middleware.RequestLogger(newBufferLogger(&buf))(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/api/verify-session/ZZ99", http.NoBody))

	out := buf.String()
	if !strings.Contains(out, `"status":404`) || !strings.Contains(out, `"level":"warn"`) {
		t.Fatalf("expected warn log with status 404, got %s", out)
	}
}

func TestRequestLogger_SkipsHealth(t *testing.T) {
	var buf strings.Builder
	called := false
	handler := middleware.RequestLogger(newBufferLogger(&buf))(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/health", http.NoBody))

	if !called {
		t.Error("handler should still be called for health endpoints")
	}
	if buf.Len() != 0 {
		t.Errorf("expected no log output, got %s", buf.String())
	}
}

// ---------------------------------------------------------------------------
// statusWriter: Flush and Hijack pass-through
// ---------------------------------------------------------------------------

type flushRecorder struct {
	http.ResponseWriter
	flushed bool
}

func (f *flushRecorder) Flush() { f.flushed = true }

func TestStatusWriter_Flush(t *testing.T) {
	fr := &flushRecorder{ResponseWriter: httptest.NewRecorder()}
	handler := middleware.RequestLogger(logger.Nop())(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}
	}))

	handler.ServeHTTP(fr, httptest.NewRequest("GET", "/api/session/AB12/watch", http.NoBody))

	if !fr.flushed {
		t.Error("expected Flush to be delegated to underlying writer")
	}
}

type hijackRecorder struct {
	http.ResponseWriter
	hijacked bool
}

func (h *hijackRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h.hijacked = true
	c1, c2 := net.Pipe()
	_ = c2.Close()
	return c1, bufio.NewReadWriter(bufio.NewReader(c1), bufio.NewWriter(c1)), nil
}

func TestStatusWriter_Hijack(t *testing.T) {
	hr := &hijackRecorder{ResponseWriter: httptest.NewRecorder()}
	handler := middleware.RequestLogger(logger.Nop())(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hj, ok := w.(http.Hijacker)
		if !ok {
			t.Fatal("expected wrapped writer to implement http.Hijacker")
		}
		conn, _, err := hj.Hijack()
		if err != nil {
			t.Fatalf("Hijack: %v", err)
		}
		_ = conn.Close()
	}))

	handler.ServeHTTP(hr, httptest.NewRequest("GET", "/ws", http.NoBody))

	if !hr.hijacked {
		t.Error("expected Hijack to be delegated")
	}
}

// ---------------------------------------------------------------------------
// BodySizeLimit
// ---------------------------------------------------------------------------

func TestBodySizeLimit(t *testing.T) {
	handler := middleware.BodySizeLimit("8B")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := io.ReadAll(r.Body); err != nil {
			w.WriteHeader(http.StatusRequestEntityTooLarge)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		body string
		want int
	}{
		{"small", http.StatusOK},
		{"this body is too large", http.StatusRequestEntityTooLarge},
	}
	for _, tc := range tests {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest("POST", "/api/create-session", strings.NewReader(tc.body)))
		if rr.Code != tc.want {
			t.Errorf("body %q: code = %d, want %d", tc.body, rr.Code, tc.want)
		}
	}
}

func TestParseSize(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"64KB", 64 << 10},
		{"1mb", 1 << 20},
		{"2GB", 2 << 30},
		{"512", 512},
		{"10B", 10},
		{"", 99},
		{"lots", 99},
		{"-1KB", 99},
	}
	for _, tc := range tests {
		if got := middleware.ParseSize(tc.in, 99); got != tc.want {
			t.Errorf("ParseSize(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

// ---------------------------------------------------------------------------
// Chain
// ---------------------------------------------------------------------------

func TestChain_Order(t *testing.T) {
	var order []string
	mark := func(name string) middleware.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name+"-before")
				next.ServeHTTP(w, r)
				order = append(order, name+"-after")
			})
		}
	}

	handler := middleware.Chain(mark("m1"), mark("m2"))(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		order = append(order, "handler")
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", http.NoBody))

	want := "m1-before,m2-before,handler,m2-after,m1-after"
	if got := strings.Join(order, ","); got != want {
		t.Fatalf("order = %s, want %s", got, want)
	}
}
