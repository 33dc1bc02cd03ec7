package descriptors

import (
	"fmt"

	"go.uber.org/zap"
)

// AttrOpts configures an Attr.
type AttrOpts[O Owner, T any] struct {
	// Validator is called with the owning instance and an already
	// typechecked value. Returning false rejects the write with a
	// *ValidationError.
	Validator func(self O, value T) bool
	// Check is like Validator but reports its own error, which Set returns
	// unchanged. It runs before Validator.
	Check func(self O, value T) error
	// Readonly attributes can be set exactly once per instance.
	Readonly bool
	BackedBy string
	Doc      string
}

// Attr is a typed instance attribute. Writes are checked against the
// declared Type, then validated with the owning instance in scope, then
// stored in the instance's Slots.
type Attr[O Owner, T any] struct {
	base
	validator func(O, T) bool
	check     func(O, T) error
	readonly  bool
}

// NewAttr declares an attribute of shape ty. A nil ty defaults to
// TypeFor[T]().
//
//	var labels = descriptors.NewAttr(descriptors.SequenceOf(descriptors.String),
//		descriptors.AttrOpts[*Graph, []string]{
//			Validator: func(g *Graph, labels []string) bool { return len(labels) == g.N() },
//		})
func NewAttr[O Owner, T any](ty Type, opts ...AttrOpts[O, T]) *Attr[O, T] {
	var o AttrOpts[O, T]
	if len(opts) > 0 {
		o = opts[0]
	}
	if ty == nil {
		ty = TypeFor[T]()
	}
	return &Attr[O, T]{
		base:      newBase(ty, o.BackedBy, o.Doc),
		validator: o.Validator,
		check:     o.Check,
		readonly:  o.Readonly,
	}
}

func (a *Attr[O, T]) Kind() Kind     { return KindAttr }
func (a *Attr[O, T]) Readonly() bool { return a.readonly }

// Bind implements Descriptor
func (a *Attr[O, T]) Bind(owner *Class, name string) error {
	return a.bind(a, owner, name)
}

// Get returns the value stored on inst, or ErrUninitialized if none was
// ever written.
func (a *Attr[O, T]) Get(inst O) (T, error) {
	var zero T
	s, err := a.slots(inst)
	if err != nil {
		return zero, err
	}
	v, set, err := s.load(&a.base)
	if err != nil {
		return zero, err
	}
	if !set {
		return zero, fmt.Errorf("%w: %s", ErrUninitialized, a)
	}
	return stored[T](&a.base, v)
}

// MustGet is like Get but panics on error. It is meant for validators and
// property value functions reading attributes they know to be set.
func (a *Attr[O, T]) MustGet(inst O) T {
	v, err := a.Get(inst)
	if err != nil {
		panic(err)
	}
	return v
}

// Set typechecks, validates and stores value on inst. On failure the slot
// is left untouched.
func (a *Attr[O, T]) Set(inst O, value T) error {
	s, err := a.slots(inst)
	if err != nil {
		return err
	}
	_, set, err := s.load(&a.base)
	if err != nil {
		return err
	}

	if a.readonly && set {
		return a.reject(s, fmt.Errorf("%w: %s can only be set once", ErrReadonly, a))
	}
	if err := a.checkValue(value); err != nil {
		return a.reject(s, err)
	}
	if a.check != nil {
		if err := a.check(inst, value); err != nil {
			return a.reject(s, err)
		}
	}
	if a.validator != nil && !a.validator(inst, value) {
		return a.reject(s, &ValidationError{Descriptor: a.qualname(), Value: value})
	}

	return s.store(&a.base, value)
}

// Delete clears the value on inst. Readonly attributes cannot be deleted.
func (a *Attr[O, T]) Delete(inst O) error {
	if a.readonly {
		return fmt.Errorf("%w: %s cannot be deleted", ErrReadonly, a)
	}
	s, err := a.slots(inst)
	if err != nil {
		return err
	}
	return a.remove(s, fmt.Errorf("%w: %s", ErrUninitialized, a))
}

func (a *Attr[O, T]) reject(s *Slots, err error) error {
	a.debug("attribute write rejected", s, zap.Error(err))
	return err
}

// IsSetOn implements Descriptor
func (a *Attr[O, T]) IsSetOn(inst Owner) bool {
	if _, err := ownerAs[O](a, inst); err != nil {
		return false
	}
	return a.has(inst)
}

// ReadAny implements Descriptor
func (a *Attr[O, T]) ReadAny(inst Owner) (any, error) {
	o, err := ownerAs[O](a, inst)
	if err != nil {
		return nil, err
	}
	return a.Get(o)
}

// WriteAny implements Descriptor. Values that are not already of type T
// are converted when structurally compatible, e.g. a []any of strings for
// a []string attribute.
func (a *Attr[O, T]) WriteAny(inst Owner, v any) error {
	o, err := ownerAs[O](a, inst)
	if err != nil {
		return err
	}
	t, ok := convertTo[T](v)
	if !ok {
		if err := a.checkValue(v); err != nil {
			return err
		}
		return &TypeError{Descriptor: a.qualname(), Expected: TypeFor[T](), Value: v}
	}
	return a.Set(o, t)
}

// DeleteAny implements Descriptor
func (a *Attr[O, T]) DeleteAny(inst Owner) error {
	o, err := ownerAs[O](a, inst)
	if err != nil {
		return err
	}
	return a.Delete(o)
}

func (a *Attr[O, T]) decode(inst Owner, dec decodeFunc) error {
	o, err := ownerAs[O](a, inst)
	if err != nil {
		return err
	}
	var t T
	if err := dec(&t); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrTypeMismatch, a, err)
	}
	return a.Set(o, t)
}

// String returns "Owner.name".
func (a *Attr[O, T]) String() string {
	return a.qualname()
}

// GoString returns e.g. "<readonly Attr Color.saturation: Int>".
func (a *Attr[O, T]) GoString() string {
	qualifier := ""
	if a.readonly {
		qualifier = "readonly "
	}
	return fmt.Sprintf("<%sAttr %s: %s>", qualifier, a.qualname(), a.ty)
}
