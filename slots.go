package descriptors

import (
	"fmt"

	"github.com/google/uuid"
)

// Owner is implemented by types whose instances carry descriptor storage.
// Embedding Slots in a struct makes pointers to that struct Owners:
//
//	type Graph struct {
//		descriptors.Slots
//	}
type Owner interface {
	DescriptorSlots() *Slots
}

type cell struct {
	value any
	set   bool
}

// Slots is the per-instance storage backing every descriptor declared on
// the instance's class.
//
// The zero value stores values in a map keyed by each descriptor's backing
// name. Slots returned by Class.NewSlots use a fixed cell layout instead,
// indexed by declaration position, and only accept descriptors of that class
// and its parents.
//
// Slots is not safe for concurrent use.
type Slots struct {
	id     uuid.UUID
	dict   map[string]any
	layout *Class
	cells  []cell
}

// DescriptorSlots implements Owner
func (s *Slots) DescriptorSlots() *Slots {
	return s
}

// ID returns the identity of the owning instance, assigned on first use.
func (s *Slots) ID() uuid.UUID {
	if s.id == uuid.Nil {
		s.id = uuid.New()
	}
	return s.id
}

// Layout returns the class whose fixed layout these slots use, or nil when
// values are stored by backing name.
func (s *Slots) Layout() *Class {
	return s.layout
}

// Len returns the number of slots currently holding a value.
func (s *Slots) Len() int {
	if s.layout == nil {
		return len(s.dict)
	}
	n := 0
	for _, c := range s.cells {
		if c.set {
			n++
		}
	}
	return n
}

func slotsOf(inst Owner) (*Slots, error) {
	if isNil(inst) {
		return nil, ErrNilInstance
	}
	s := inst.DescriptorSlots()
	if s == nil {
		return nil, ErrNilInstance
	}
	return s, nil
}

func (s *Slots) cellIndex(b *base) (int, error) {
	if !s.layout.inherits(b.owner) || b.index >= len(s.cells) {
		return 0, fmt.Errorf("%w: %s not in layout of %s", ErrNoSlot, b.qualname(), s.layout.name)
	}
	return b.index, nil
}

func (s *Slots) load(b *base) (any, bool, error) {
	if s.layout != nil {
		i, err := s.cellIndex(b)
		if err != nil {
			return nil, false, err
		}
		return s.cells[i].value, s.cells[i].set, nil
	}
	v, ok := s.dict[b.backedBy]
	return v, ok, nil
}

func (s *Slots) store(b *base, v any) error {
	if s.layout != nil {
		i, err := s.cellIndex(b)
		if err != nil {
			return err
		}
		s.cells[i] = cell{value: v, set: true}
		return nil
	}
	if s.dict == nil {
		s.dict = make(map[string]any)
	}
	s.dict[b.backedBy] = v
	return nil
}

func (s *Slots) clear(b *base) error {
	if s.layout != nil {
		i, err := s.cellIndex(b)
		if err != nil {
			return err
		}
		s.cells[i] = cell{}
		return nil
	}
	delete(s.dict, b.backedBy)
	return nil
}
