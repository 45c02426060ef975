package command

import (
	"context"
	"strings"
	"sync"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

//nolint:gochecknoglobals // go-redis keeps a single process-wide logger.
var routeClientLogsOnce sync.Once

// RouteClientLogs sends go-redis internal messages (pool and reconnect
// notices and the like) to logger as warnings. The go-redis logger is
// process-wide, so only the first call has an effect.
func RouteClientLogs(logger logrus.FieldLogger) {
	if logger == nil {
		return
	}

	routeClientLogsOnce.Do(func() {
		redis.SetLogger(clientLogger{logger: logger.WithField("source", "go-redis")})
	})
}

// clientLogger adapts logrus to the go-redis logging interface.
type clientLogger struct {
	logger logrus.FieldLogger
}

// Printf implements the go-redis logging interface.
func (l clientLogger) Printf(_ context.Context, format string, v ...any) {
	l.logger.Warnf(strings.TrimSuffix(format, "\n"), v...)
}
