package engine

import (
	"sync"

	"verifyica/internal/descriptor"
	"verifyica/pkg/api"
	"verifyica/pkg/lock"
)

// engineContext implements api.EngineContext.
type engineContext struct {
	runID   string
	version string
	props   map[string]string
	store   *api.Store
	values  *api.Map
	locks   *lock.Manager
}

func newEngineContext(runID, version string, props map[string]string, locks *lock.Manager) *engineContext {
	return &engineContext{
		runID:   runID,
		version: version,
		props:   props,
		store:   api.NewStore(),
		values:  api.NewMap(),
		locks:   locks,
	}
}

func (c *engineContext) Store() *api.Store          { return c.store }
func (c *engineContext) Map() *api.Map              { return c.values }
func (c *engineContext) RunID() string              { return c.runID }
func (c *engineContext) Version() string            { return c.version }
func (c *engineContext) LockManager() *lock.Manager { return c.locks }

func (c *engineContext) Configuration() map[string]string {
	out := make(map[string]string, len(c.props))
	for k, v := range c.props {
		out[k] = v
	}
	return out
}

func (c *engineContext) ConfigurationValue(key string) (string, bool) {
	v, ok := c.props[key]
	return v, ok
}

// classContext implements api.ClassContext. One instance lives for the
// class's whole execution and is shared by all of its argument workers.
type classContext struct {
	parent      api.EngineContext
	class       *descriptor.ClassDescriptor
	parallelism int
	store       *api.Store
	values      *api.Map
	rw          sync.RWMutex

	// instance is set once by the instantiation pipeline before any
	// argument worker starts.
	mu       sync.Mutex
	instance any
}

func newClassContext(parent api.EngineContext, class *descriptor.ClassDescriptor, parallelism int) *classContext {
	return &classContext{
		parent:      parent,
		class:       class,
		parallelism: parallelism,
		store:       api.NewStore(),
		values:      api.NewMap(),
	}
}

func (c *classContext) Store() *api.Store                { return c.store }
func (c *classContext) Map() *api.Map                    { return c.values }
func (c *classContext) EngineContext() api.EngineContext { return c.parent }
func (c *classContext) TestClassName() string            { return c.class.Name }
func (c *classContext) TestClassDisplayName() string     { return c.class.Display }
func (c *classContext) ArgumentParallelism() int         { return c.parallelism }
func (c *classContext) RWLock() *sync.RWMutex            { return &c.rw }

func (c *classContext) TestInstance() any {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.instance
}

func (c *classContext) setTestInstance(instance any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.instance = instance
}

// argumentContext implements api.ArgumentContext.
type argumentContext struct {
	parent api.ClassContext
	arg    *descriptor.ArgumentDescriptor
	store  *api.Store
	values *api.Map
}

func newArgumentContext(parent api.ClassContext, arg *descriptor.ArgumentDescriptor) *argumentContext {
	return &argumentContext{
		parent: parent,
		arg:    arg,
		store:  api.NewStore(),
		values: api.NewMap(),
	}
}

func (c *argumentContext) Store() *api.Store              { return c.store }
func (c *argumentContext) Map() *api.Map                  { return c.values }
func (c *argumentContext) ClassContext() api.ClassContext { return c.parent }
func (c *argumentContext) ArgumentIndex() int             { return c.arg.Index }
func (c *argumentContext) Argument() api.Argument         { return c.arg.Argument }

// readOnly returns the immutable view handed to test methods: store and map
// mutators panic, which the pipeline converts into a test failure.
func (c *argumentContext) readOnly() api.ArgumentContext {
	return &readOnlyArgumentContext{inner: c}
}

type readOnlyArgumentContext struct {
	inner *argumentContext
}

func (c *readOnlyArgumentContext) Store() *api.Store              { return c.inner.store.ReadOnly() }
func (c *readOnlyArgumentContext) Map() *api.Map                  { return c.inner.values.ReadOnly() }
func (c *readOnlyArgumentContext) ClassContext() api.ClassContext { return c.inner.parent }
func (c *readOnlyArgumentContext) ArgumentIndex() int             { return c.inner.arg.Index }
func (c *readOnlyArgumentContext) Argument() api.Argument         { return c.inner.arg.Argument }
