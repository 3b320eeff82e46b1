package middleware

import (
	"net/http"
	"strconv"
	"strings"
)

const defaultMaxBodySize = 1 << 20

// BodySizeLimit caps request bodies at maxSize ("64KB", "1MB", or plain bytes).
func BodySizeLimit(maxSize string) Middleware {
	size := ParseSize(maxSize, defaultMaxBodySize)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, size)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ParseSize converts a human size string to bytes, returning def when s is
// empty or malformed.
func ParseSize(s string, def int64) int64 {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return def
	}
	mult := int64(1)
	for _, u := range []struct {
		suffix string
		mult   int64
	}{{"GB", 1 << 30}, {"MB", 1 << 20}, {"KB", 1 << 10}, {"B", 1}} {
		if strings.HasSuffix(s, u.suffix) {
			mult = u.mult
			s = strings.TrimSpace(strings.TrimSuffix(s, u.suffix))
			break
		}
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 {
		return def
	}
	return n * mult
}
