package http

import (
	"net/http"

	"github.com/weblogin/weblogin/internal/common/constants"
	"github.com/weblogin/weblogin/internal/common/httpmetrics"
	"github.com/weblogin/weblogin/internal/common/logger"
)

func BuildBaseHandler(log *logger.Logger, handler http.Handler) http.Handler {
	collector := httpmetrics.New()
	recovery := RecoveryMiddleware(log)
	traceID := TraceIDMiddleware
	maxRequestSize := MaxRequestSizeMiddleware(constants.DefaultMaxRequestSize)
	securityHeaders := SecurityHeadersMiddleware
	csp := ContentSecurityPolicyMiddleware("")

	return securityHeaders(csp(recovery(traceID(maxRequestSize(collector.Wrap(handler))))))
}
