package format

import (
	"bytes"
	"encoding"
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strings"
)

// CircularPlaceholder replaces values that cannot be serialized because
// they were already visited.
const CircularPlaceholder = "[Circular]"

// ClipboardText converts a value to the text placed on the clipboard.
// Strings are copied as-is, raw JSON is re-indented and any other value is
// serialized as 2-space indented JSON. It never fails: values that cannot
// be serialized are copied in a sanitized form.
func ClipboardText(value any) string {
	switch v := value.(type) {
	case nil:
		return "null"
	case string:
		return v
	case json.RawMessage:
		if out, ok := indentJSON(v); ok {
			return out
		}
		return string(v)
	case []byte:
		if out, ok := indentJSON(v); ok {
			return out
		}
		return string(v)
	case fmt.Stringer:
		if !isComposite(reflect.ValueOf(v)) {
			return v.String()
		}
	}

	if out, err := encodeIndented(value); err == nil {
		return out
	}

	out, err := encodeIndented(sanitize(reflect.ValueOf(value), make(map[visitKey]bool)))
	if err != nil {
		return fmt.Sprint(value)
	}
	return out
}

func encodeIndented(value any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", indent)
	if err := enc.Encode(value); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

func isComposite(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Map, reflect.Slice, reflect.Array, reflect.Struct, reflect.Pointer, reflect.Interface:
		return true
	}
	return false
}

var (
	jsonMarshalerType = reflect.TypeFor[json.Marshaler]()
	textMarshalerType = reflect.TypeFor[encoding.TextMarshaler]()
)

// sanitize rebuilds v from plain maps, slices and scalars. A reference
// type seen earlier in the walk is replaced by CircularPlaceholder, and
// values JSON cannot represent become null or their type name.
func sanitize(v reflect.Value, seen map[visitKey]bool) any {
	if !v.IsValid() {
		return nil
	}

	if v.CanInterface() && (v.Type().Implements(jsonMarshalerType) || v.Type().Implements(textMarshalerType)) {
		if !(v.Kind() == reflect.Pointer && v.IsNil()) {
			if data, err := json.Marshal(v.Interface()); err == nil {
				return json.RawMessage(data)
			}
		}
	}

	switch v.Kind() {
	case reflect.Interface:
		if v.IsNil() {
			return nil
		}
		return sanitize(v.Elem(), seen)

	case reflect.Pointer:
		if v.IsNil() {
			return nil
		}
		if visited(v, seen) {
			return CircularPlaceholder
		}
		return sanitize(v.Elem(), seen)

	case reflect.Map:
		if v.IsNil() {
			return nil
		}
		if visited(v, seen) {
			return CircularPlaceholder
		}
		out := make(map[string]any, v.Len())
		iter := v.MapRange()
		for iter.Next() {
			out[fmt.Sprint(iter.Key().Interface())] = sanitize(iter.Value(), seen)
		}
		return out

	case reflect.Slice:
		if v.IsNil() {
			return nil
		}
		if v.Type().Elem().Kind() == reflect.Uint8 {
			return string(v.Bytes())
		}
		if v.Len() > 0 && visited(v, seen) {
			return CircularPlaceholder
		}
		fallthrough

	case reflect.Array:
		out := make([]any, v.Len())
		for i := range out {
			out[i] = sanitize(v.Index(i), seen)
		}
		return out

	case reflect.Struct:
		out := make(map[string]any)
		t := v.Type()
		for i := 0; i < t.NumField(); i++ {
			field := t.Field(i)
			if !field.IsExported() {
				continue
			}
			name := field.Name
			if tag, ok := field.Tag.Lookup("json"); ok {
				tagName, _, _ := strings.Cut(tag, ",")
				if tagName == "-" {
					continue
				}
				if tagName != "" {
					name = tagName
				}
			}
			out[name] = sanitize(v.Field(i), seen)
		}
		return out

	case reflect.Float32, reflect.Float64:
		f := v.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil
		}
		return f

	case reflect.Complex64, reflect.Complex128, reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return "[" + v.Type().String() + "]"

	default:
		if v.CanInterface() {
			return v.Interface()
		}
		return fmt.Sprint(v)
	}
}

// visitKey identifies a reference by address and type, since a struct and
// its first field share an address.
type visitKey struct {
	ptr uintptr
	typ reflect.Type
	n   int
}

func visited(v reflect.Value, seen map[visitKey]bool) bool {
	key := visitKey{ptr: v.Pointer(), typ: v.Type()}
	if v.Kind() == reflect.Slice {
		key.n = v.Len()
	}
	if seen[key] {
		return true
	}
	seen[key] = true
	return false
}
