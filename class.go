package descriptors

import (
	"fmt"
	"maps"
	"slices"
	"sync/atomic"

	"go.uber.org/zap"
)

// ClassOpts configures a Class.
type ClassOpts struct {
	// Parent makes the new class inherit every descriptor of Parent. The
	// parent is sealed: no further descriptors can be declared on it, so
	// every Define on the parent must run before NewClass for the child.
	// Package-level variables initialize in file name order when they do
	// not depend on each other; keep a parent's Defines in the same file
	// as, and above, its children.
	Parent *Class
	// Logger receives debug events for property computation, invalidation
	// and rejected writes. Defaults to the parent's logger, or a no-op logger.
	Logger *zap.Logger
}

// Class is the set of descriptors declared for one owner type. It is built
// once, usually from package-level variables, and shared by all instances:
//
//	var (
//		graphClass = descriptors.NewClass("Graph")
//		graphN     = descriptors.Define(graphClass, "n", descriptors.NewAttr[*Graph, int](descriptors.Int))
//	)
type Class struct {
	name   string
	parent *Class
	logger *zap.Logger
	own    []Descriptor
	sealed atomic.Bool
}

func NewClass(name string, opts ...ClassOpts) *Class {
	var o ClassOpts
	if len(opts) > 0 {
		o = opts[0]
	}

	c := &Class{name: name, parent: o.Parent, logger: o.Logger}
	if c.parent != nil {
		c.parent.sealed.Store(true)
		if c.logger == nil {
			c.logger = c.parent.logger
		}
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	return c
}

// Define binds d to c under name and returns it. It panics if binding
// fails, which only happens for declaration mistakes.
func Define[D Descriptor](c *Class, name string, d D) D {
	if err := c.Bind(name, d); err != nil {
		panic(fmt.Sprintf("descriptors: %v", err))
	}
	return d
}

// Bind binds d to c under name.
func (c *Class) Bind(name string, d Descriptor) error {
	return d.Bind(c, name)
}

func (c *Class) Name() string        { return c.name }
func (c *Class) Parent() *Class      { return c.parent }
func (c *Class) Logger() *zap.Logger { return c.logger }
func (c *Class) Sealed() bool        { return c.sealed.Load() }

// Seal prevents further declarations on c.
func (c *Class) Seal() {
	c.sealed.Store(true)
}

// declare registers d and returns its index in the fixed layout.
func (c *Class) declare(name, backedBy string, d Descriptor) (int, error) {
	if c.sealed.Load() {
		return 0, fmt.Errorf("%w: cannot declare %s.%s", ErrClassSealed, c.name, name)
	}
	if name == "" {
		return 0, fmt.Errorf("%w: empty name on %s", ErrUnknownDescriptor, c.name)
	}
	if c.declares(name) {
		return 0, fmt.Errorf("%w: %s.%s", ErrDuplicateName, c.name, name)
	}
	for k := c; k != nil; k = k.parent {
		for _, existing := range k.own {
			if existing.BackedBy() == backedBy {
				return 0, fmt.Errorf("%w: %s.%s shares backing name %q with %s", ErrDuplicateName, c.name, name, backedBy, existing)
			}
		}
	}
	index := c.Layout()
	c.own = append(c.own, d)
	return index, nil
}

// Layout returns the number of cells in the fixed layout of c, parents
// included.
func (c *Class) Layout() int {
	n := len(c.own)
	if c.parent != nil {
		n += c.parent.Layout()
	}
	return n
}

// NewSlots returns fixed-layout storage for an instance of c and seals c.
func (c *Class) NewSlots() Slots {
	c.Seal()
	return Slots{layout: c, cells: make([]cell, c.Layout())}
}

// inherits reports whether c is other or descends from it.
func (c *Class) inherits(other *Class) bool {
	for k := c; k != nil; k = k.parent {
		if k == other {
			return true
		}
	}
	return false
}

// Inherits reports whether c is other or descends from it.
func (c *Class) Inherits(other *Class) bool {
	return c.inherits(other)
}

///////////////////////////////////////////////////////////////////////////////
// Introspection
///////////////////////////////////////////////////////////////////////////////

// Descriptors returns every descriptor visible on c, inherited ones first,
// in declaration order. A descriptor redeclared under the same name on a
// child class hides the parent's.
func (c *Class) Descriptors() []Descriptor {
	var out []Descriptor
	if c.parent != nil {
		for _, d := range c.parent.Descriptors() {
			if !c.declares(d.Name()) {
				out = append(out, d)
			}
		}
	}
	return append(out, c.own...)
}

func (c *Class) declares(name string) bool {
	for _, d := range c.own {
		if d.Name() == name {
			return true
		}
	}
	return false
}

// Attrs returns the attribute descriptors of c.
func (c *Class) Attrs() []Descriptor {
	return c.ofKind(KindAttr)
}

// Props returns the property descriptors of c.
func (c *Class) Props() []Descriptor {
	return c.ofKind(KindProp)
}

func (c *Class) ofKind(k Kind) []Descriptor {
	var out []Descriptor
	for _, d := range c.Descriptors() {
		if d.Kind() == k {
			out = append(out, d)
		}
	}
	return out
}

// Lookup returns the descriptor declared under name on c or its parents.
func (c *Class) Lookup(name string) (Descriptor, bool) {
	for k := c; k != nil; k = k.parent {
		for _, d := range k.own {
			if d.Name() == name {
				return d, true
			}
		}
	}
	return nil, false
}

// IsSet reports whether the named attribute is set, or the named property
// computed, on inst.
func (c *Class) IsSet(inst Owner, name string) (bool, error) {
	d, ok := c.Lookup(name)
	if !ok {
		return false, fmt.Errorf("%w: %s.%s", ErrUnknownDescriptor, c.name, name)
	}
	return d.IsSetOn(inst), nil
}

// Snapshot returns the values of every set attribute and computed property
// on inst, keyed by name. It never triggers computation.
func (c *Class) Snapshot(inst Owner) map[string]any {
	out := make(map[string]any)
	for _, d := range c.Descriptors() {
		if !d.IsSetOn(inst) {
			continue
		}
		if v, err := d.ReadAny(inst); err == nil {
			out[d.Name()] = v
		}
	}
	return out
}

// InvalidateAll drops every cached, non-immutable property value on inst
// and returns how many were dropped.
func (c *Class) InvalidateAll(inst Owner) (int, error) {
	n := 0
	for _, d := range c.Props() {
		if im, ok := d.(interface{ isImmutable() bool }); ok && im.isImmutable() {
			continue
		}
		if !d.IsSetOn(inst) {
			continue
		}
		if err := d.DeleteAny(inst); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

///////////////////////////////////////////////////////////////////////////////
// Bulk construction
///////////////////////////////////////////////////////////////////////////////

// Init writes each entry of kwargs to the attribute of the same name.
//
// Names are checked before anything is written: unknown names fail with
// ErrUnknownDescriptor and property names with ErrNotSettable. Writes then
// happen in declaration order, so validators can rely on attributes declared
// earlier. Init stops at the first failing write; earlier writes stay applied.
func (c *Class) Init(inst Owner, kwargs map[string]any) error {
	return c.assign(inst, slices.Collect(maps.Keys(kwargs)), func(d Descriptor) error {
		return d.WriteAny(inst, kwargs[d.Name()])
	})
}

func (c *Class) assign(inst Owner, names []string, write func(d Descriptor) error) error {
	if isNil(inst) {
		return ErrNilInstance
	}
	wanted := make(map[string]bool, len(names))
	for _, name := range names {
		d, ok := c.Lookup(name)
		if !ok {
			return fmt.Errorf("%w: %s.%s", ErrUnknownDescriptor, c.name, name)
		}
		if d.Kind() != KindAttr {
			return fmt.Errorf("%w: %s", ErrNotSettable, d)
		}
		wanted[name] = true
	}
	for _, d := range c.Descriptors() {
		if !wanted[d.Name()] {
			continue
		}
		if err := write(d); err != nil {
			return err
		}
	}
	return nil
}

func (c *Class) String() string {
	return c.name
}
