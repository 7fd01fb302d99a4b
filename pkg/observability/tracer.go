package observability

import (
	"context"

	"github.com/facebookincubator/go-belt/tool/experimental/tracer"
)

// NewTracer returns the default Tracer handler for the beta-firmware
// signing tracker.
func NewTracer(ctx context.Context) tracer.Tracer {
	return tracer.Default()
}
