package middleware

import (
	"net/http"
	"time"

	"github.com/kbukum/sessionkit/logger"
)

var quietPaths = map[string]bool{"/health": true, "/info": true}

// RequestLogger logs method, path, status and duration for every request
// except health probes. Upgraded and streaming connections are logged when
// they end.
func RequestLogger(log *logger.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if quietPaths[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			sw := newStatusWriter(w)
			next.ServeHTTP(sw, r)

			fields := map[string]interface{}{
				"method":      r.Method,
				"path":        r.URL.Path,
				"status":      sw.status,
				"duration_ms": time.Since(start).Milliseconds(),
			}
			if id := r.Header.Get(HeaderRequestID); id != "" {
				fields[logger.FieldRequestID] = id
			}
			if sw.hijacked {
				fields["upgraded"] = true
			}

			switch {
			case sw.status >= 500:
				log.Error("Request completed", fields)
			case sw.status >= 400:
				log.Warn("Request completed", fields)
			default:
				log.Debug("Request completed", fields)
			}
		})
	}
}
