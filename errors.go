package descriptors

import (
	"errors"
	"fmt"
)

///////////////////////////////////////////////////////////////////////////////
// Errors
///////////////////////////////////////////////////////////////////////////////

var (
	ErrUninitialized          = errors.New("attribute is not set")
	ErrReadonly               = errors.New("attribute is readonly")
	ErrTypeMismatch           = errors.New("value does not conform to the declared type")
	ErrValidation             = errors.New("invalid value")
	ErrImmutable              = errors.New("cannot invalidate immutable property")
	ErrDoubleBinding          = errors.New("descriptor is already bound to a different owner or name")
	ErrUnbound                = errors.New("descriptor is not bound to a class")
	ErrNilInstance            = errors.New("instance cannot be nil")
	ErrWrongOwner             = errors.New("instance is not of the descriptor owner type")
	ErrNoSlot                 = errors.New("descriptor has no slot in the instance layout")
	ErrNotCached              = errors.New("property is not cached")
	ErrAlreadyCached          = errors.New("property is already cached")
	ErrNotSettable            = errors.New("property values cannot be set")
	ErrUnknownDescriptor      = errors.New("no descriptor declared with this name")
	ErrDuplicateName          = errors.New("a descriptor with this name is already declared")
	ErrClassSealed            = errors.New("class is sealed")
	ErrClassAlreadyRegistered = errors.New("a class is already registered for this owner type")
	ErrClassNotRegistered     = errors.New("no class is registered for this owner type")
	ErrInvalidDocument        = errors.New("document must be an object keyed by descriptor name")
)

// TypeError reports a value that does not conform to a declared Type.
//
// Path locates the offending element inside containers, e.g. "[2]" or
// `["key"]`, and is empty when the top-level value is at fault.
type TypeError struct {
	Descriptor string
	Expected   Type
	Value      any
	Path       string
}

// Error implements the error interface
func (te *TypeError) Error() string {
	where := te.Descriptor
	if where == "" {
		where = "value"
	}
	return fmt.Sprintf("%s%s: expected %s, got %s", where, te.Path, te.Expected, describeValue(te.Value))
}

func (te *TypeError) Unwrap() error {
	return ErrTypeMismatch
}

// ValidationError is returned when a validator rejects an otherwise
// type-correct value.
type ValidationError struct {
	Descriptor string
	Value      any
}

// Error implements the error interface
func (ve *ValidationError) Error() string {
	return fmt.Sprintf("invalid value for attribute %s: %#v", ve.Descriptor, ve.Value)
}

func (ve *ValidationError) Unwrap() error {
	return ErrValidation
}

func describeValue(v any) string {
	if v == nil {
		return "nil"
	}
	return fmt.Sprintf("%T (%#v)", v, v)
}
