package middleware

import (
	"net/http"

	"go.uber.org/zap"
)

// Error logs err with the request logger and replies with the status text.
func Error(w http.ResponseWriter, r *http.Request, code int, err error) {
	LoggerFrom(r.Context()).Error("request failed", zap.Int("status", code), zap.Error(err))
	http.Error(w, http.StatusText(code), code)
}
