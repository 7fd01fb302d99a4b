package observability

import (
	"context"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/facebookincubator/go-belt/tool/logger/implementation/logrus"
	"github.com/facebookincubator/go-belt/tool/logger/types"
)

// NewLogger returns the default Logger for the family of processes of the
// beta-firmware signing tracker.
func NewLogger(ctx context.Context, opts ...types.Option) logger.Logger {
	result := logrus.New(logrus.DefaultLogrusLogger())
	result = result.WithLevel(logger.LevelTrace)
	return result
}
