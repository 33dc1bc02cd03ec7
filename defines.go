package descriptors

import (
	"reflect"
	"time"

	"github.com/google/uuid"
)

// Kind distinguishes the descriptor flavours declared on a Class.
type Kind int

const (
	KindAttr Kind = iota + 1
	KindProp
)

func (k Kind) String() string {
	switch k {
	case KindAttr:
		return "Attr"
	case KindProp:
		return "Prop"
	default:
		return "Unknown"
	}
}

// constants for backing-name derivation
const (
	BackingPrefix      = "_"
	BackingMangleInfix = "__"
)

// constants for the string and env loaders
const (
	SliceValueDelimiter = ","
	EnvWordDelimiter    = "_"
)

// reflect.TypeOf constants for type checks
var (
	UUIDType           = reflect.TypeOf(uuid.UUID{})
	TimeType           = reflect.TypeOf(time.Time{})
	StringType         = reflect.TypeOf("")
	ByteSliceType      = reflect.TypeOf([]byte{})
	EmptyInterfaceType = reflect.TypeOf((*any)(nil)).Elem()
)
