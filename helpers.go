package descriptors

import (
	"encoding"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
)

///////////////////////////////////////////////////////////////////////////////
// Structural conversion
///////////////////////////////////////////////////////////////////////////////

// convertTo converts v to T when v is already a T or is structurally
// compatible with it (see assignValue).
func convertTo[T any](v any) (T, bool) {
	if t, ok := v.(T); ok {
		return t, true
	}
	var out T
	dst := reflect.ValueOf(&out).Elem()
	if v == nil {
		return out, nilable(dst.Kind())
	}
	if err := assignValue(dst, reflect.ValueOf(v)); err != nil {
		return out, false
	}
	return out, true
}

func nilable(k reflect.Kind) bool {
	switch k {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return true
	}
	return false
}

// assignValue sets dst from src without losing information.
//
// Currently supports:
//   - any src assignable to dst
//   - integers of any width or signedness, with overflow checking
//   - integers and floats to floats, with overflow checking
//   - named string and bool types
//   - slices and arrays element-wise, maps entry-wise
func assignValue(dst, src reflect.Value) error {
	if src.Kind() == reflect.Interface {
		if src.IsNil() {
			if !nilable(dst.Kind()) {
				return fmt.Errorf("cannot assign nil to %s", dst.Type())
			}
			dst.SetZero()
			return nil
		}
		src = src.Elem()
	}
	if src.Type().AssignableTo(dst.Type()) {
		dst.Set(src)
		return nil
	}

	switch dst.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return assignInt(dst, src)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return assignUint(dst, src)
	case reflect.Float32, reflect.Float64:
		return assignFloat(dst, src)
	case reflect.String:
		if src.Kind() != reflect.String {
			break
		}
		dst.SetString(src.String())
		return nil
	case reflect.Bool:
		if src.Kind() != reflect.Bool {
			break
		}
		dst.SetBool(src.Bool())
		return nil
	case reflect.Slice:
		return assignSlice(dst, src)
	case reflect.Array:
		return assignArray(dst, src)
	case reflect.Map:
		return assignMap(dst, src)
	}
	return fmt.Errorf("cannot assign %s to %s", src.Type(), dst.Type())
}

func assignInt(dst, src reflect.Value) error {
	var i int64
	switch src.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i = src.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := src.Uint()
		if u > 1<<63-1 {
			return fmt.Errorf("value %d overflows %s", u, dst.Type())
		}
		i = int64(u)
	default:
		return fmt.Errorf("cannot assign %s to %s", src.Type(), dst.Type())
	}
	if dst.OverflowInt(i) {
		return fmt.Errorf("value %d overflows %s", i, dst.Type())
	}
	dst.SetInt(i)
	return nil
}

func assignUint(dst, src reflect.Value) error {
	var u uint64
	switch src.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i := src.Int()
		if i < 0 {
			return fmt.Errorf("value %d overflows %s", i, dst.Type())
		}
		u = uint64(i)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u = src.Uint()
	default:
		return fmt.Errorf("cannot assign %s to %s", src.Type(), dst.Type())
	}
	if dst.OverflowUint(u) {
		return fmt.Errorf("value %d overflows %s", u, dst.Type())
	}
	dst.SetUint(u)
	return nil
}

func assignFloat(dst, src reflect.Value) error {
	var f float64
	switch src.Kind() {
	case reflect.Float32, reflect.Float64:
		f = src.Float()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		f = float64(src.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		f = float64(src.Uint())
	default:
		return fmt.Errorf("cannot assign %s to %s", src.Type(), dst.Type())
	}
	if dst.OverflowFloat(f) {
		return fmt.Errorf("value %f overflows %s", f, dst.Type())
	}
	dst.SetFloat(f)
	return nil
}

func assignSlice(dst, src reflect.Value) error {
	if src.Kind() != reflect.Slice && src.Kind() != reflect.Array {
		return fmt.Errorf("cannot assign %s to %s", src.Type(), dst.Type())
	}
	if src.Kind() == reflect.Slice && src.IsNil() {
		dst.SetZero()
		return nil
	}
	out := reflect.MakeSlice(dst.Type(), src.Len(), src.Len())
	for i := 0; i < src.Len(); i++ {
		if err := assignValue(out.Index(i), src.Index(i)); err != nil {
			return fmt.Errorf("[%d]: %w", i, err)
		}
	}
	dst.Set(out)
	return nil
}

func assignArray(dst, src reflect.Value) error {
	if (src.Kind() != reflect.Slice && src.Kind() != reflect.Array) || src.Len() != dst.Len() {
		return fmt.Errorf("cannot assign %s to %s", src.Type(), dst.Type())
	}
	out := reflect.New(dst.Type()).Elem()
	for i := 0; i < src.Len(); i++ {
		if err := assignValue(out.Index(i), src.Index(i)); err != nil {
			return fmt.Errorf("[%d]: %w", i, err)
		}
	}
	dst.Set(out)
	return nil
}

func assignMap(dst, src reflect.Value) error {
	if src.Kind() != reflect.Map {
		return fmt.Errorf("cannot assign %s to %s", src.Type(), dst.Type())
	}
	if src.IsNil() {
		dst.SetZero()
		return nil
	}
	out := reflect.MakeMapWithSize(dst.Type(), src.Len())
	iter := src.MapRange()
	for iter.Next() {
		k := reflect.New(dst.Type().Key()).Elem()
		if err := assignValue(k, iter.Key()); err != nil {
			return fmt.Errorf("key %v: %w", iter.Key(), err)
		}
		v := reflect.New(dst.Type().Elem()).Elem()
		if err := assignValue(v, iter.Value()); err != nil {
			return fmt.Errorf("[%v]: %w", iter.Key(), err)
		}
		out.SetMapIndex(k, v)
	}
	dst.Set(out)
	return nil
}

///////////////////////////////////////////////////////////////////////////////
// String conversion
///////////////////////////////////////////////////////////////////////////////

// setFieldValue sets field from its string representation.
//
// Currently supports:
//   - string, bool, ints, uints, floats and complex numbers (with overflow checking)
//   - uuid.UUID and time.Time
//   - []byte (raw bytes)
//   - other slices as comma separated elements
//   - encoding.TextUnmarshaler implementations
//   - the empty interface (stored as string)
func setFieldValue(field reflect.Value, value string) error {
	if field.CanAddr() && field.Type() != TimeType {
		if unmarshaler, ok := field.Addr().Interface().(encoding.TextUnmarshaler); ok {
			return unmarshaler.UnmarshalText([]byte(value))
		}
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(value)
		return nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return setIntValue(field, value)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return setUintValue(field, value)
	case reflect.Float32, reflect.Float64:
		return setFloatValue(field, value)
	case reflect.Complex64, reflect.Complex128:
		return setComplexValue(field, value)
	case reflect.Bool:
		return setBoolValue(field, value)
	case reflect.Slice:
		return setSliceValue(field, value)
	case reflect.Array:
		return setArrayValue(field, value)
	case reflect.Struct:
		return setStructValue(field, value)
	case reflect.Interface:
		return setInterfaceValue(field, value)
	default:
		return fmt.Errorf("unsupported field type: %s", field.Type())
	}
}

// setIntValue sets integer field values with overflow checking
func setIntValue(field reflect.Value, value string) error {
	intValue, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return fmt.Errorf("error converting value to int: %w", err)
	}
	if field.OverflowInt(intValue) {
		return fmt.Errorf("value %d overflows %s", intValue, field.Type())
	}
	field.SetInt(intValue)
	return nil
}

// setUintValue sets unsigned integer field values with overflow checking
func setUintValue(field reflect.Value, value string) error {
	uintValue, err := strconv.ParseUint(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return fmt.Errorf("error converting value to uint: %w", err)
	}
	if field.OverflowUint(uintValue) {
		return fmt.Errorf("value %d overflows %s", uintValue, field.Type())
	}
	field.SetUint(uintValue)
	return nil
}

// setFloatValue sets float field values with overflow checking
func setFloatValue(field reflect.Value, value string) error {
	floatValue, err := strconv.ParseFloat(strings.TrimSpace(value), field.Type().Bits())
	if err != nil {
		return fmt.Errorf("error converting value to float: %w", err)
	}
	if field.OverflowFloat(floatValue) {
		return fmt.Errorf("value %f overflows %s", floatValue, field.Type())
	}
	field.SetFloat(floatValue)
	return nil
}

// setComplexValue sets complex field values
func setComplexValue(field reflect.Value, value string) error {
	complexValue, err := strconv.ParseComplex(strings.TrimSpace(value), field.Type().Bits())
	if err != nil {
		return fmt.Errorf("error converting value to complex: %w", err)
	}
	if field.OverflowComplex(complexValue) {
		return fmt.Errorf("value %v overflows %s", complexValue, field.Type())
	}
	field.SetComplex(complexValue)
	return nil
}

// setBoolValue accepts strconv.ParseBool forms plus yes/no and on/off.
func setBoolValue(field reflect.Value, value string) error {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "yes", "on":
		field.SetBool(true)
		return nil
	case "no", "off":
		field.SetBool(false)
		return nil
	}
	boolValue, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return fmt.Errorf("error converting value to bool: %w", err)
	}
	field.SetBool(boolValue)
	return nil
}

// setSliceValue sets []byte from raw bytes and other slices from comma
// separated elements. An empty string yields an empty slice.
func setSliceValue(field reflect.Value, value string) error {
	if field.Type().Elem().Kind() == reflect.Uint8 {
		field.SetBytes([]byte(value))
		return nil
	}
	if value == "" {
		field.Set(reflect.MakeSlice(field.Type(), 0, 0))
		return nil
	}
	parts := strings.Split(value, SliceValueDelimiter)
	out := reflect.MakeSlice(field.Type(), len(parts), len(parts))
	for i, part := range parts {
		if err := setFieldValue(out.Index(i), strings.TrimSpace(part)); err != nil {
			return fmt.Errorf("element %d: %w", i, err)
		}
	}
	field.Set(out)
	return nil
}

// setArrayValue sets uuid.UUID arrays
func setArrayValue(field reflect.Value, value string) error {
	if field.Type() == UUIDType {
		uuidValue, err := uuid.Parse(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("error converting value to UUID: %w", err)
		}
		field.Set(reflect.ValueOf(uuidValue))
		return nil
	}
	return fmt.Errorf("unsupported array type: %s", field.Type())
}

// setStructValue sets time.Time from RFC 3339 or a few common layouts.
func setStructValue(field reflect.Value, value string) error {
	if field.Type() != TimeType {
		return fmt.Errorf("unsupported struct type: %s", field.Type())
	}

	formats := []string{
		time.RFC3339Nano,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-01-02",
	}
	var err error
	for _, format := range formats {
		var timeValue time.Time
		if timeValue, err = time.Parse(format, strings.TrimSpace(value)); err == nil {
			field.Set(reflect.ValueOf(timeValue))
			return nil
		}
	}
	return fmt.Errorf("error converting value to time.Time: %w", err)
}

// setInterfaceValue stores the raw string in empty interfaces
func setInterfaceValue(field reflect.Value, value string) error {
	if field.NumMethod() != 0 {
		return fmt.Errorf("cannot set value for interface with methods: %s", field.Type())
	}
	field.Set(reflect.ValueOf(value))
	return nil
}

// envName converts a descriptor name such as "maxRetries" or "max_retries"
// to its environment variable form "MAX_RETRIES".
func envName(name string) string {
	var b strings.Builder
	runes := []rune(name)
	for i, r := range runes {
		if r == '-' || r == '.' {
			r = '_'
		}
		if i > 0 && unicode.IsUpper(r) && (unicode.IsLower(runes[i-1]) || unicode.IsDigit(runes[i-1])) {
			b.WriteString(EnvWordDelimiter)
		}
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}
