package redisdb

import (
	"context"
	"errors"
	"time"

	"go.k6.io/k6/lib"
	"go.k6.io/k6/metrics"

	"github.com/oshokin/xk6-redis-db/redisdb/command"
)

const (
	// CommandsMetricName counts published commands, successful or not.
	CommandsMetricName = "redisdb_commands"
	// CommandDurationMetricName tracks the time from connect to reply.
	CommandDurationMetricName = "redisdb_command_duration"
	// CommandFailuresMetricName is the rate of commands that ended in an error.
	CommandFailuresMetricName = "redisdb_command_failures"

	// commandTag is the tag carrying the command name on every sample.
	commandTag = "command"
)

// commandMetrics holds the k6 metrics of the module.
type commandMetrics struct {
	commands *metrics.Metric
	duration *metrics.Metric
	failures *metrics.Metric
}

// registerMetrics registers (or fetches the already registered) module metrics.
func registerMetrics(registry *metrics.Registry) (*commandMetrics, error) {
	if registry == nil {
		return nil, errors.New("metrics registry is not available")
	}

	commands, err := registry.NewMetric(CommandsMetricName, metrics.Counter)
	if err != nil {
		return nil, err
	}

	duration, err := registry.NewMetric(CommandDurationMetricName, metrics.Trend, metrics.Time)
	if err != nil {
		return nil, err
	}

	failures, err := registry.NewMetric(CommandFailuresMetricName, metrics.Rate)
	if err != nil {
		return nil, err
	}

	return &commandMetrics{
		commands: commands,
		duration: duration,
		failures: failures,
	}, nil
}

// push emits one sample of each metric for a finished invocation.
// Outside of the VU context (no state) nothing is emitted.
func (m *commandMetrics) push(ctx context.Context, state *lib.State, name command.Name, took time.Duration, failed bool) {
	if m == nil || state == nil || state.Samples == nil {
		return
	}

	var tags *metrics.TagSet

	tagsAndMeta := metrics.TagsAndMeta{}
	if state.Tags != nil {
		tagsAndMeta = state.Tags.GetCurrentValues()
		tags = tagsAndMeta.Tags
	}

	if tags == nil {
		return
	}

	tags = tags.With(commandTag, string(name))

	failedValue := 0.0
	if failed {
		failedValue = 1
	}

	now := time.Now()
	sample := func(metric *metrics.Metric, value float64) metrics.Sample {
		return metrics.Sample{
			TimeSeries: metrics.TimeSeries{
				Metric: metric,
				Tags:   tags,
			},
			Time:     now,
			Value:    value,
			Metadata: tagsAndMeta.Metadata,
		}
	}

	metrics.PushIfNotDone(ctx, state.Samples, metrics.ConnectedSamples{
		Samples: []metrics.Sample{
			sample(m.commands, 1),
			sample(m.duration, metrics.D(took)),
			sample(m.failures, failedValue),
		},
		Tags: tags,
		Time: now,
	})
}
