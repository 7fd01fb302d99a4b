package observability

import (
	"github.com/facebookincubator/go-belt/tool/experimental/metrics"
)

// NewMetrics returns the default Metrics handler for the beta-firmware
// signing tracker.
func NewMetrics() metrics.Metrics {
	return metrics.Default()
}
