package descriptors

import (
	"fmt"

	"go.uber.org/zap"
)

// PropOpts configures a Prop.
type PropOpts struct {
	// Immutable properties are computed at most once per instance and
	// cannot be invalidated.
	Immutable bool
	BackedBy  string
	Doc       string
}

// Prop is a lazily computed, cached property. The first Get on an instance
// calls the value function, checks the result against the declared Type and
// caches it in the instance's Slots; later reads return the cached value
// without recomputing it.
//
// Props do not track the attributes their value function reads. Callers that
// change those attributes must Invalidate the cache themselves.
//
// Two goroutines reading an uncomputed Prop on the same instance may both
// call the value function; the last result stored wins. Slots are not
// synchronized and neither is the compute-and-cache step.
type Prop[O Owner, T any] struct {
	base
	value     func(O) (T, error)
	immutable bool
}

// NewProp declares a property of shape ty computed by value. A nil ty
// defaults to TypeFor[T](). It panics if value is nil.
func NewProp[O Owner, T any](ty Type, value func(self O) (T, error), opts ...PropOpts) *Prop[O, T] {
	if value == nil {
		panic("descriptors: NewProp requires a value function")
	}
	var o PropOpts
	if len(opts) > 0 {
		o = opts[0]
	}
	if ty == nil {
		ty = TypeFor[T]()
	}
	return &Prop[O, T]{
		base:      newBase(ty, o.BackedBy, o.Doc),
		value:     value,
		immutable: o.Immutable,
	}
}

func (p *Prop[O, T]) Kind() Kind        { return KindProp }
func (p *Prop[O, T]) Immutable() bool   { return p.immutable }
func (p *Prop[O, T]) isImmutable() bool { return p.immutable }

// Bind implements Descriptor
func (p *Prop[O, T]) Bind(owner *Class, name string) error {
	return p.bind(p, owner, name)
}

// Get returns the cached value on inst, computing and caching it first if
// needed. Errors from the value function are returned unchanged and nothing
// is cached.
func (p *Prop[O, T]) Get(inst O) (T, error) {
	var zero T
	s, err := p.slots(inst)
	if err != nil {
		return zero, err
	}
	v, set, err := s.load(&p.base)
	if err != nil {
		return zero, err
	}
	if set {
		return stored[T](&p.base, v)
	}
	return p.compute(inst, s)
}

// MustGet is like Get but panics on error.
func (p *Prop[O, T]) MustGet(inst O) T {
	v, err := p.Get(inst)
	if err != nil {
		panic(err)
	}
	return v
}

// Compute forces computation on inst ahead of the first read. It fails with
// ErrAlreadyCached if a value is already cached.
func (p *Prop[O, T]) Compute(inst O) error {
	s, err := p.slots(inst)
	if err != nil {
		return err
	}
	_, set, err := s.load(&p.base)
	if err != nil {
		return err
	}
	if set {
		return fmt.Errorf("%w: %s", ErrAlreadyCached, p)
	}
	_, err = p.compute(inst, s)
	return err
}

func (p *Prop[O, T]) compute(inst O, s *Slots) (T, error) {
	var zero T
	t, err := p.value(inst)
	if err != nil {
		return zero, err
	}
	if err := p.checkValue(t); err != nil {
		p.debug("property value rejected", s, zap.Error(err))
		return zero, fmt.Errorf("value function of %s: %w", p, err)
	}
	if err := s.store(&p.base, t); err != nil {
		return zero, err
	}
	p.debug("property computed", s)
	return t, nil
}

// IsComputed reports whether inst holds a cached value. It never calls the
// value function.
func (p *Prop[O, T]) IsComputed(inst O) bool {
	return p.has(inst)
}

// Invalidate drops the cached value on inst so that the next Get
// recomputes it. It fails with ErrImmutable for immutable properties and
// with ErrNotCached if nothing is cached.
func (p *Prop[O, T]) Invalidate(inst O) error {
	if p.immutable {
		return fmt.Errorf("%w: %s", ErrImmutable, p)
	}
	s, err := p.slots(inst)
	if err != nil {
		return err
	}
	if err := p.remove(s, fmt.Errorf("%w: %s", ErrNotCached, p)); err != nil {
		return err
	}
	p.debug("property invalidated", s)
	return nil
}

// IsSetOn implements Descriptor
func (p *Prop[O, T]) IsSetOn(inst Owner) bool {
	if _, err := ownerAs[O](p, inst); err != nil {
		return false
	}
	return p.has(inst)
}

// ReadAny implements Descriptor
func (p *Prop[O, T]) ReadAny(inst Owner) (any, error) {
	o, err := ownerAs[O](p, inst)
	if err != nil {
		return nil, err
	}
	return p.Get(o)
}

// WriteAny implements Descriptor. Property values cannot be set.
func (p *Prop[O, T]) WriteAny(Owner, any) error {
	return fmt.Errorf("%w: %s", ErrNotSettable, p)
}

// DeleteAny implements Descriptor by invalidating the cache.
func (p *Prop[O, T]) DeleteAny(inst Owner) error {
	o, err := ownerAs[O](p, inst)
	if err != nil {
		return err
	}
	return p.Invalidate(o)
}

func (p *Prop[O, T]) decode(Owner, decodeFunc) error {
	return fmt.Errorf("%w: %s", ErrNotSettable, p)
}

// String returns "Prop Owner.name".
func (p *Prop[O, T]) String() string {
	return "Prop " + p.qualname()
}

// GoString returns e.g. "<immutable Prop Color.rgb: Tuple[Int, Int, Int]>".
func (p *Prop[O, T]) GoString() string {
	qualifier := ""
	if p.immutable {
		qualifier = "immutable "
	}
	return fmt.Sprintf("<%sProp %s: %s>", qualifier, p.qualname(), p.ty)
}
