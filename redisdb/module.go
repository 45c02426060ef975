package redisdb

import (
	"github.com/grafana/sobek"
	"go.k6.io/k6/js/common"
	"go.k6.io/k6/js/modules"
	"go.k6.io/k6/js/promises"

	"github.com/oshokin/xk6-redis-db/redisdb/command"
)

type (
	// RootModule is a module singleton created once per test process.
	// It owns the Dispatcher shared by all VUs; the Dispatcher keeps no
	// per-request state, so sharing it never couples invocations.
	RootModule struct {
		dispatcher *command.Dispatcher
	}

	// ModuleInstance is created per VU.
	// It holds the per-VU JS bindings and the metrics registered for the test.
	ModuleInstance struct {
		vu      modules.VU
		rm      *RootModule
		metrics *commandMetrics
	}
)

// Compile-time interface assertions.
var (
	_ modules.Instance = new(ModuleInstance)
	_ modules.Module   = new(RootModule)
)

// New returns a pointer to a new RootModule instance.
func New() *RootModule {
	return &RootModule{
		dispatcher: command.NewDispatcher(nil),
	}
}

// NewModuleInstance implements modules.Module.
// It creates a per-VU instance and registers the module metrics.
func (rm *RootModule) NewModuleInstance(vu modules.VU) modules.Instance {
	mi := &ModuleInstance{
		vu: vu,
		rm: rm,
	}

	initEnv := vu.InitEnv()
	if initEnv == nil {
		return mi
	}

	if initEnv.TestPreInitState != nil {
		// Only the first call takes effect; the go-redis logger is process-wide.
		command.RouteClientLogs(initEnv.Logger)

		commandMetrics, err := registerMetrics(initEnv.Registry)
		if err != nil {
			common.Throw(vu.Runtime(), err)
		}

		mi.metrics = commandMetrics
	}

	return mi
}

// Exports implements modules.Instance and exposes
// the JavaScript API surface for this module.
func (mi *ModuleInstance) Exports() modules.Exports {
	return modules.Exports{
		Named: map[string]any{
			"publish":   mi.Publish,
			"Publisher": mi.NewPublisher,
		},
	}
}

// NewPublisher is the JS constructor of Publisher (new Publisher(options)).
// Invalid options throw, so misconfigured scripts fail in the init context.
func (mi *ModuleInstance) NewPublisher(call sobek.ConstructorCall) *sobek.Object {
	rt := mi.vu.Runtime()

	publisher, err := mi.newPublisher(call.Argument(0))
	if err != nil {
		common.Throw(rt, classifyError(err))
		return nil
	}

	return rt.ToValue(publisher).ToObject(rt)
}

// Publish builds a one-off Publisher and publishes it. Invalid options
// reject the returned Promise instead of throwing.
func (mi *ModuleInstance) Publish(options sobek.Value) *sobek.Promise {
	publisher, err := mi.newPublisher(options)
	if err != nil {
		promise, _, reject := promises.New(mi.vu)
		reject(classifyError(err))

		return promise
	}

	return publisher.Publish()
}

// newPublisher parses and validates options into a Publisher.
func (mi *ModuleInstance) newPublisher(options sobek.Value) (*Publisher, error) {
	opts, err := NewPublisherOptionsFrom(mi.vu, options)
	if err != nil {
		return nil, err
	}

	request, err := opts.ToRequest()
	if err != nil {
		return nil, err
	}

	hook, err := importHook(mi.vu.Runtime(), options)
	if err != nil {
		return nil, err
	}

	return &Publisher{
		vu:                mi.vu,
		request:           request,
		onCommandExecuted: hook,
		dispatcher:        mi.rm.dispatcher,
		metrics:           mi.metrics,
	}, nil
}
