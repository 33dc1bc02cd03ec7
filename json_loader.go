package descriptors

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/tidwall/gjson"
)

// InitJSON writes the members of a JSON object to the attributes of the
// same name, with the same rules as Init. Members are decoded directly into
// each attribute's Go type; for interface-typed attributes, integral numbers
// decode as int and others as float64. A null member is written as nil, so
// only shapes accepting nil (Optional, Nil, Any) take it.
func (c *Class) InitJSON(inst Owner, data []byte) error {
	if !gjson.ValidBytes(data) {
		return fmt.Errorf("%w: malformed JSON", ErrInvalidDocument)
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return fmt.Errorf("%w: got JSON %s", ErrInvalidDocument, root.Type)
	}

	members := make(map[string]gjson.Result)
	var names []string
	root.ForEach(func(key, value gjson.Result) bool {
		name := key.String()
		if _, seen := members[name]; !seen {
			names = append(names, name)
		}
		members[name] = value
		return true
	})

	return c.assign(inst, names, func(d Descriptor) error {
		member := members[d.Name()]
		if member.Type == gjson.Null {
			return d.WriteAny(inst, nil)
		}
		return d.decode(inst, jsonDecoder(member.Raw))
	})
}

func jsonDecoder(raw string) decodeFunc {
	return func(ptr any) error {
		dec := json.NewDecoder(strings.NewReader(raw))
		dec.UseNumber()
		if err := dec.Decode(ptr); err != nil {
			return fmt.Errorf("error unmarshaling JSON data: %w", err)
		}
		normalizeJSONNumbers(reflect.ValueOf(ptr).Elem())
		return nil
	}
}

// normalizeJSONNumbers replaces the json.Number values UseNumber leaves in
// interface-typed locations with int or float64.
func normalizeJSONNumbers(v reflect.Value) {
	switch v.Kind() {
	case reflect.Interface:
		if v.IsNil() || v.Type() != EmptyInterfaceType {
			return
		}
		v.Set(reflect.ValueOf(normalizeJSONValue(v.Interface())))
	case reflect.Slice, reflect.Array:
		for i := 0; i < v.Len(); i++ {
			normalizeJSONNumbers(v.Index(i))
		}
	case reflect.Map:
		if v.Type().Elem() != EmptyInterfaceType {
			return
		}
		iter := v.MapRange()
		for iter.Next() {
			if n := normalizeJSONValue(iter.Value().Interface()); n != nil {
				v.SetMapIndex(iter.Key(), reflect.ValueOf(n))
			}
		}
	}
}

func normalizeJSONValue(v any) any {
	switch x := v.(type) {
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return int(i)
		}
		f, _ := x.Float64()
		return f
	case []any:
		for i := range x {
			x[i] = normalizeJSONValue(x[i])
		}
		return x
	case map[string]any:
		for k, e := range x {
			x[k] = normalizeJSONValue(e)
		}
		return x
	}
	return v
}
