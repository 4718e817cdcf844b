package http

import (
	"net/http"

	"github.com/semenovda/todo-vault/internal/common/constants"
	"github.com/semenovda/todo-vault/internal/common/httpmetrics"
	"github.com/semenovda/todo-vault/internal/common/logger"
)

// BuildBaseHandler wraps the application handler with the plumbing every
// request goes through: metrics, body size limit, trace ids, panic recovery
// and security headers.
func BuildBaseHandler(log *logger.Logger, handler http.Handler) http.Handler {
	metrics := httpmetrics.New()
	recovery := RecoveryMiddleware(log)
	maxRequestSize := MaxRequestSizeMiddleware(constants.DefaultMaxRequestSize)

	return SecurityHeadersMiddleware(recovery(TraceIDMiddleware(maxRequestSize(metrics.Wrap(handler)))))
}
