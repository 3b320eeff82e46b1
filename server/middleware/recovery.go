package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	apperrors "github.com/kbukum/sessionkit/errors"
	"github.com/kbukum/sessionkit/logger"
)

// Recovery turns handler panics into a 500 INTERNAL_ERROR response.
func Recovery(log *logger.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					log.Error("Panic recovered", map[string]interface{}{
						"error":  fmt.Sprintf("%v", rec),
						"stack":  string(debug.Stack()),
						"path":   r.URL.Path,
						"method": r.Method,
					})
					writeJSON(w, http.StatusInternalServerError, apperrors.Internal(nil).ToResponse())
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
