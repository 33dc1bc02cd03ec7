package descriptors

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Descriptor is the accessor surface shared by Attr and Prop. It allows
// reading, writing and introspecting declared values without knowing the
// descriptor's Go value type.
type Descriptor interface {
	fmt.Stringer
	// Name is the public name the descriptor was bound under.
	Name() string
	Owner() *Class
	Type() Type
	Kind() Kind
	// BackedBy is the key of the descriptor's value in dict-layout Slots.
	BackedBy() string
	Doc() string
	IsBound() bool
	// Bind associates the descriptor with owner under name. Binding again to
	// the same pair is a no-op; any other pair fails with ErrDoubleBinding.
	Bind(owner *Class, name string) error
	// IsSetOn reports whether inst holds a value for the descriptor. It never
	// triggers property computation.
	IsSetOn(inst Owner) bool
	ReadAny(inst Owner) (any, error)
	WriteAny(inst Owner, v any) error
	DeleteAny(inst Owner) error

	decode(inst Owner, dec decodeFunc) error
}

// decodeFunc fills the value pointed to by ptr from some external source.
type decodeFunc func(ptr any) error

// base holds the state common to every descriptor: its declared type and
// the owner, name and storage location fixed at bind time.
type base struct {
	ty       Type
	doc      string
	explicit string

	owner    *Class
	name     string
	backedBy string
	index    int
}

func newBase(ty Type, backedBy, doc string) base {
	return base{ty: ty, explicit: backedBy, doc: doc, index: -1}
}

func (b *base) Name() string     { return b.name }
func (b *base) Owner() *Class    { return b.owner }
func (b *base) Type() Type       { return b.ty }
func (b *base) BackedBy() string { return b.backedBy }
func (b *base) Doc() string      { return b.doc }
func (b *base) IsBound() bool    { return b.owner != nil }

func (b *base) qualname() string {
	if b.owner == nil {
		return "<unbound>"
	}
	return b.owner.name + "." + b.name
}

// mangle derives the default backing name, unique per (owner, name) so that
// a child class may redeclare a parent's public name without collision.
func mangle(owner, name string) string {
	return BackingPrefix + owner + BackingMangleInfix + name
}

func (b *base) bind(self Descriptor, owner *Class, name string) error {
	if owner == nil {
		return fmt.Errorf("%w: nil owner for %q", ErrUnbound, name)
	}
	if b.owner != nil {
		if b.owner == owner && b.name == name {
			return nil
		}
		return fmt.Errorf("%w: %s cannot be rebound as %s.%s", ErrDoubleBinding, b.qualname(), owner.name, name)
	}

	backedBy := b.explicit
	if backedBy == "" {
		backedBy = mangle(owner.name, name)
	}

	index, err := owner.declare(name, backedBy, self)
	if err != nil {
		return err
	}

	b.owner = owner
	b.name = name
	b.backedBy = backedBy
	b.index = index
	return nil
}

func (b *base) slots(inst Owner) (*Slots, error) {
	if b.owner == nil {
		return nil, ErrUnbound
	}
	return slotsOf(inst)
}

func (b *base) has(inst Owner) bool {
	s, err := b.slots(inst)
	if err != nil {
		return false
	}
	_, set, err := s.load(b)
	return err == nil && set
}

// remove clears the slot, failing with ErrUninitialized when it is unset.
func (b *base) remove(s *Slots, unset error) error {
	_, set, err := s.load(b)
	if err != nil {
		return err
	}
	if !set {
		return unset
	}
	return s.clear(b)
}

func (b *base) checkValue(v any) error {
	if te := b.ty.conform(v, ""); te != nil {
		te.Descriptor = b.qualname()
		return te
	}
	return nil
}

func (b *base) debug(msg string, s *Slots, fields ...zap.Field) {
	ce := b.owner.logger.Check(zapcore.DebugLevel, msg)
	if ce == nil {
		return
	}
	fields = append(fields,
		zap.String("class", b.owner.name),
		zap.String("descriptor", b.name),
		zap.Stringer("instance", s.ID()),
	)
	ce.Write(fields...)
}

// stored asserts a slot value back to T. A mismatch means another
// descriptor wrote the same backing name on this instance.
func stored[T any](b *base, v any) (T, error) {
	t, ok := v.(T)
	if !ok && v != nil {
		return t, &TypeError{Descriptor: b.qualname(), Expected: TypeFor[T](), Value: v}
	}
	return t, nil
}

func ownerAs[O Owner](d Descriptor, inst Owner) (O, error) {
	var zero O
	if inst == nil {
		return zero, ErrNilInstance
	}
	o, ok := inst.(O)
	if !ok {
		return zero, fmt.Errorf("%w: %s does not accept %T", ErrWrongOwner, d, inst)
	}
	return o, nil
}
