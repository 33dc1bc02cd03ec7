package descriptors

import (
	"fmt"
	"reflect"

	"go.uber.org/zap"
)

///////////////////////////////////////////////////////////////////////////////
// Registry Impl.
///////////////////////////////////////////////////////////////////////////////

// Registry maps owner Go types to the Class declaring their descriptors, so
// that instances can be initialized without naming their class.
//
// A type is registered once, usually right after its class is built:
//
//	var graphClass = descriptors.Register[*Graph](descriptors.NewClass("Graph"))
type Registry struct {
	classes *ClassCache
	logger  *zap.Logger
}

type RegistryOpts struct {
	// Logger receives registration events. Defaults to a no-op logger.
	Logger *zap.Logger
}

func NewRegistry(opts ...RegistryOpts) *Registry {
	var o RegistryOpts
	if len(opts) > 0 {
		o = opts[0]
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return &Registry{classes: NewClassCache(), logger: o.Logger}
}

// RegisterIn registers c as the class of owner type O in r. It fails with
// ErrClassAlreadyRegistered if O already has a different class.
func RegisterIn[O Owner](r *Registry, c *Class) error {
	t := reflect.TypeFor[O]()
	actual, loaded := r.classes.LoadOrStore(t, c)
	if loaded && actual != c {
		return fmt.Errorf("%w: %s is registered as %s", ErrClassAlreadyRegistered, t, actual)
	}
	if !loaded {
		r.logger.Debug("class registered",
			zap.String("class", c.Name()),
			zap.Stringer("type", t),
		)
	}
	return nil
}

// ClassOf returns the class registered for the dynamic type of inst.
func (r *Registry) ClassOf(inst Owner) (*Class, error) {
	if inst == nil {
		return nil, ErrNilInstance
	}
	t := reflect.TypeOf(inst)
	c, ok := r.classes.Get(t)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrClassNotRegistered, t)
	}
	return c, nil
}

// Classes returns every registered class keyed by owner type.
func (r *Registry) Classes() map[reflect.Type]*Class {
	out := make(map[reflect.Type]*Class, r.classes.Len())
	r.classes.Range(func(t reflect.Type, c *Class) bool {
		out[t] = c
		return true
	})
	return out
}

// Unregister removes the class registered for the dynamic type of inst.
func (r *Registry) Unregister(inst Owner) {
	if inst != nil {
		r.classes.Delete(reflect.TypeOf(inst))
	}
}

// Reset removes every registration.
func (r *Registry) Reset() {
	r.classes.Clear()
}

// Init initializes inst through its registered class, see Class.Init.
func (r *Registry) Init(inst Owner, kwargs map[string]any) error {
	c, err := r.ClassOf(inst)
	if err != nil {
		return err
	}
	return c.Init(inst, kwargs)
}

// InitJSON initializes inst through its registered class, see Class.InitJSON.
func (r *Registry) InitJSON(inst Owner, data []byte) error {
	c, err := r.ClassOf(inst)
	if err != nil {
		return err
	}
	return c.InitJSON(inst, data)
}

// InitYAML initializes inst through its registered class, see Class.InitYAML.
func (r *Registry) InitYAML(inst Owner, data []byte) error {
	c, err := r.ClassOf(inst)
	if err != nil {
		return err
	}
	return c.InitYAML(inst, data)
}

// InitEnv initializes inst through its registered class, see Class.InitEnv.
func (r *Registry) InitEnv(inst Owner, opts EnvOpts) error {
	c, err := r.ClassOf(inst)
	if err != nil {
		return err
	}
	return c.InitEnv(inst, opts)
}

///////////////////////////////////////////////////////////////////////////////
// Global Singleton and Package Functions
///////////////////////////////////////////////////////////////////////////////

var _globalRegistry = NewRegistry()

// Register registers c as the class of owner type O in the global registry
// and returns c. It panics if O already has a different class.
func Register[O Owner](c *Class) *Class {
	if err := RegisterIn[O](_globalRegistry, c); err != nil {
		panic(fmt.Sprintf("descriptors: %v", err))
	}
	return c
}

// ClassOf returns the class registered for inst in the global registry.
func ClassOf(inst Owner) (*Class, error) {
	return _globalRegistry.ClassOf(inst)
}

// Init initializes inst using the global registry.
func Init(inst Owner, kwargs map[string]any) error {
	return _globalRegistry.Init(inst, kwargs)
}

// InitJSON initializes inst from a JSON object using the global registry.
func InitJSON(inst Owner, data []byte) error {
	return _globalRegistry.InitJSON(inst, data)
}

// InitYAML initializes inst from a YAML mapping using the global registry.
func InitYAML(inst Owner, data []byte) error {
	return _globalRegistry.InitYAML(inst, data)
}

// InitEnv initializes inst from environment variables using the global
// registry.
func InitEnv(inst Owner, opts EnvOpts) error {
	return _globalRegistry.InitEnv(inst, opts)
}
