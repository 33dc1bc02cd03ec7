package descriptors

import (
	"fmt"
	"reflect"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Type is a runtime shape that values stored through a descriptor must
// conform to.
//
// The set of shapes is closed: plain Go types (Of, TypeFor), kind families
// (Int, Float, String, ...), containers (SequenceOf, MappingOf, TupleOf),
// and combinators (Union, Optional, Literal). Conformance is structural:
// a []any holding only strings is a SequenceOf(String).
type Type interface {
	fmt.Stringer
	// Check returns a *TypeError if v does not conform to the shape.
	Check(v any) error

	conform(v any, path string) *TypeError
}

var (
	Any    Type = anyType{}
	Nil    Type = nilType{}
	Int    Type = kindType{name: "Int", kinds: []reflect.Kind{reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64}}
	Uint   Type = kindType{name: "Uint", kinds: []reflect.Kind{reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr}}
	Float  Type = kindType{name: "Float", kinds: []reflect.Kind{reflect.Float32, reflect.Float64}}
	Number Type = Union(Int, Uint, Float)
	String Type = kindType{name: "String", kinds: []reflect.Kind{reflect.String}}
	Bool   Type = kindType{name: "Bool", kinds: []reflect.Kind{reflect.Bool}}
	Bytes  Type = OfType(ByteSliceType)
	UUID   Type = Of[uuid.UUID]()
	Time   Type = Of[time.Time]()
)

func check(t Type, v any) error {
	if te := t.conform(v, ""); te != nil {
		return te
	}
	return nil
}

func mismatch(t Type, v any, path string) *TypeError {
	return &TypeError{Expected: t, Value: v, Path: path}
}

// isNil reports whether v is nil or a typed nil of a nilable kind.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface, reflect.UnsafePointer:
		return rv.IsNil()
	}
	return false
}

///////////////////////////////////////////////////////////////////////////////
// Leaf shapes
///////////////////////////////////////////////////////////////////////////////

type anyType struct{}

func (anyType) String() string                 { return "Any" }
func (t anyType) Check(v any) error            { return check(t, v) }
func (anyType) conform(any, string) *TypeError { return nil }

type nilType struct{}

func (nilType) String() string      { return "Nil" }
func (t nilType) Check(v any) error { return check(t, v) }
func (t nilType) conform(v any, path string) *TypeError {
	if isNil(v) {
		return nil
	}
	return mismatch(t, v, path)
}

// kindType accepts any value whose reflect.Kind is in the family, so
// named types such as `type Celsius float64` conform to Float.
type kindType struct {
	name  string
	kinds []reflect.Kind
}

func (t kindType) String() string    { return t.name }
func (t kindType) Check(v any) error { return check(t, v) }
func (t kindType) conform(v any, path string) *TypeError {
	if v == nil || !slices.Contains(t.kinds, reflect.TypeOf(v).Kind()) {
		return mismatch(t, v, path)
	}
	return nil
}

type classType struct {
	rt reflect.Type
}

// Of returns the shape of the plain Go type T. Values conform when their
// dynamic type is assignable to T (or implements T, for interfaces).
// Nil pointers, funcs and chans never conform; wrap in Optional to allow them.
func Of[T any]() Type {
	return OfType(reflect.TypeFor[T]())
}

// OfType is Of for a reflect.Type known only at runtime.
func OfType(rt reflect.Type) Type {
	if rt == nil {
		return Nil
	}
	return classType{rt: rt}
}

// TypeFor returns the default shape for descriptors of Go type T:
// Any for the empty interface, Of[T] otherwise.
func TypeFor[T any]() Type {
	rt := reflect.TypeFor[T]()
	if rt == EmptyInterfaceType {
		return Any
	}
	return classType{rt: rt}
}

func (t classType) String() string    { return t.rt.String() }
func (t classType) Check(v any) error { return check(t, v) }
func (t classType) conform(v any, path string) *TypeError {
	if v == nil {
		return mismatch(t, v, path)
	}
	vt := reflect.TypeOf(v)
	if t.rt.Kind() == reflect.Interface {
		if !vt.Implements(t.rt) {
			return mismatch(t, v, path)
		}
	} else if !vt.AssignableTo(t.rt) {
		return mismatch(t, v, path)
	}
	switch vt.Kind() {
	case reflect.Ptr, reflect.Func, reflect.Chan, reflect.UnsafePointer:
		if reflect.ValueOf(v).IsNil() {
			return mismatch(t, v, path)
		}
	}
	return nil
}

type literalType struct {
	values []any
}

// Literal accepts values deeply equal to one of the given literals.
// Comparison includes the Go type: Literal(1) does not accept int64(1).
func Literal(values ...any) Type {
	return literalType{values: values}
}

func (t literalType) String() string {
	parts := make([]string, len(t.values))
	for i, v := range t.values {
		parts[i] = fmt.Sprintf("%#v", v)
	}
	return "Literal[" + strings.Join(parts, ", ") + "]"
}

func (t literalType) Check(v any) error { return check(t, v) }
func (t literalType) conform(v any, path string) *TypeError {
	for _, lit := range t.values {
		if reflect.DeepEqual(v, lit) {
			return nil
		}
	}
	return mismatch(t, v, path)
}

///////////////////////////////////////////////////////////////////////////////
// Containers
///////////////////////////////////////////////////////////////////////////////

func isSequence(v any) (reflect.Value, bool) {
	if v == nil {
		return reflect.Value{}, false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		return rv, true
	}
	return reflect.Value{}, false
}

type seqType struct {
	elem Type
}

// SequenceOf accepts slices and arrays whose elements all conform to elem.
// Strings are not sequences.
func SequenceOf(elem Type) Type {
	return seqType{elem: elem}
}

func (t seqType) String() string    { return "Sequence[" + t.elem.String() + "]" }
func (t seqType) Check(v any) error { return check(t, v) }
func (t seqType) conform(v any, path string) *TypeError {
	rv, ok := isSequence(v)
	if !ok {
		return mismatch(t, v, path)
	}
	for i := 0; i < rv.Len(); i++ {
		if te := t.elem.conform(rv.Index(i).Interface(), fmt.Sprintf("%s[%d]", path, i)); te != nil {
			return te
		}
	}
	return nil
}

type tupleType struct {
	elems []Type
}

// TupleOf accepts slices and arrays of exactly len(elems) elements, each
// conforming to the shape at its position.
func TupleOf(elems ...Type) Type {
	return tupleType{elems: elems}
}

func (t tupleType) String() string    { return "Tuple[" + joinTypes(t.elems) + "]" }
func (t tupleType) Check(v any) error { return check(t, v) }
func (t tupleType) conform(v any, path string) *TypeError {
	rv, ok := isSequence(v)
	if !ok || rv.Len() != len(t.elems) {
		return mismatch(t, v, path)
	}
	for i, elem := range t.elems {
		if te := elem.conform(rv.Index(i).Interface(), fmt.Sprintf("%s[%d]", path, i)); te != nil {
			return te
		}
	}
	return nil
}

type mapType struct {
	key  Type
	elem Type
}

// MappingOf accepts maps whose keys conform to key and values to elem.
func MappingOf(key, elem Type) Type {
	return mapType{key: key, elem: elem}
}

func (t mapType) String() string    { return "Mapping[" + t.key.String() + ", " + t.elem.String() + "]" }
func (t mapType) Check(v any) error { return check(t, v) }
func (t mapType) conform(v any, path string) *TypeError {
	if v == nil {
		return mismatch(t, v, path)
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map {
		return mismatch(t, v, path)
	}
	iter := rv.MapRange()
	for iter.Next() {
		k := iter.Key().Interface()
		elemPath := fmt.Sprintf("%s[%#v]", path, k)
		if te := t.key.conform(k, elemPath); te != nil {
			return te
		}
		if te := t.elem.conform(iter.Value().Interface(), elemPath); te != nil {
			return te
		}
	}
	return nil
}

///////////////////////////////////////////////////////////////////////////////
// Combinators
///////////////////////////////////////////////////////////////////////////////

type unionType struct {
	members []Type
}

// Union accepts values conforming to at least one member.
func Union(members ...Type) Type {
	return unionType{members: members}
}

func (t unionType) String() string    { return "Union[" + joinTypes(t.members) + "]" }
func (t unionType) Check(v any) error { return check(t, v) }
func (t unionType) conform(v any, path string) *TypeError {
	for _, m := range t.members {
		if m.conform(v, path) == nil {
			return nil
		}
	}
	return mismatch(t, v, path)
}

type optionalType struct {
	inner Type
}

// Optional accepts nil (including typed nils) or values conforming to inner.
func Optional(inner Type) Type {
	return optionalType{inner: inner}
}

func (t optionalType) String() string    { return "Optional[" + t.inner.String() + "]" }
func (t optionalType) Check(v any) error { return check(t, v) }
func (t optionalType) conform(v any, path string) *TypeError {
	if isNil(v) {
		return nil
	}
	return t.inner.conform(v, path)
}

func joinTypes(ts []Type) string {
	parts := make([]string, len(ts))
	for i, t := range ts {
		parts[i] = t.String()
	}
	return strings.Join(parts, ", ")
}
