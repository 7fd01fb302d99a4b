package servermiddleware

import (
	"net/http"

	"github.com/facebookincubator/go-belt"
	"github.com/facebookincubator/go-belt/tool/logger"
)

// AddDefaultMiddleware returns the recommended middleware chain for a
// handler: it sets up a logger and an extended context, reads TraceID if one
// was passed, logs requests and recovers panics (logging them through the
// initialized logger).
//
// For description of arguments see SetupContext.
func AddDefaultMiddleware(
	handler func(http.ResponseWriter, *http.Request),
	obsBelt *belt.Belt,
	overridableLogLevel bool,
	defaultLogLevel logger.Level,
) func(http.ResponseWriter, *http.Request) {
	return SetupContext(RecoverPanic(LogRequests(handler)), obsBelt, overridableLogLevel, defaultLogLevel)
}
