package redisdb

import (
	"io"
	"os"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"go.k6.io/k6/js/modulestest"
	"go.k6.io/k6/lib"
	"go.k6.io/k6/metrics"

	"github.com/oshokin/xk6-redis-db/redisdb/command"
)

func TestMain(m *testing.M) {
	// The go-redis logger is process-wide; pin it to a logger that outlives
	// every test instead of the first test's runtime logger.
	command.RouteClientLogs(newDiscardLogger())

	os.Exit(m.Run())
}

// testEnv is a k6 runtime with the module exported as the global "redisdb".
type testEnv struct {
	runtime  *modulestest.Runtime
	module   *ModuleInstance
	registry *metrics.Registry
	samples  chan metrics.SampleContainer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	runtime := modulestest.NewRuntime(t)
	registry := runtime.VU.InitEnvField.Registry

	moduleInstance, ok := New().NewModuleInstance(runtime.VU).(*ModuleInstance)
	require.True(t, ok)
	require.NoError(t, runtime.VU.Runtime().Set("redisdb", moduleInstance.Exports().Named))

	return &testEnv{
		runtime:  runtime,
		module:   moduleInstance,
		registry: registry,
		samples:  make(chan metrics.SampleContainer, 1000),
	}
}

// moveToVUContext switches the runtime from the init context to a VU iteration.
func (e *testEnv) moveToVUContext() {
	e.runtime.MoveToVUContext(&lib.State{
		Samples: e.samples,
		Tags:    lib.NewVUStateTags(e.registry.RootTagSet()),
		Logger:  newDiscardLogger(),
	})
}

// run executes code on the event loop and waits for every queued callback.
func (e *testEnv) run(t *testing.T, code string) {
	t.Helper()

	_, err := e.runtime.RunOnEventLoop(code)
	require.NoError(t, err)
}

// global exports a global JS variable (nil when undefined).
func (e *testEnv) global(name string) any {
	value := e.runtime.VU.Runtime().Get(name)
	if value == nil {
		return nil
	}

	return value.Export()
}

// samplesByMetric drains the sample channel and groups the samples by metric name.
func (e *testEnv) samplesByMetric() map[string][]metrics.Sample {
	grouped := make(map[string][]metrics.Sample)

	for _, container := range metrics.GetBufferedSamples(e.samples) {
		for _, sample := range container.GetSamples() {
			grouped[sample.Metric.Name] = append(grouped[sample.Metric.Name], sample)
		}
	}

	return grouped
}

func newDiscardLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	logger.SetLevel(logrus.DebugLevel)

	return logger
}
