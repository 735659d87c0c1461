package normalize

import (
	"encoding/json"
	"errors"
	"math"
	"reflect"
	"strconv"
)

// Text is a string that decodes falsy or non-scalar input as "". Numbers and
// true are kept as their text so the field always encodes as a string.
type Text string

// UnmarshalJSON implements json.Unmarshaler.
func (t *Text) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		*t = ""
		return nil
	}
	switch s := v.(type) {
	case string:
		*t = Text(s)
	case float64:
		if s == 0 {
			*t = ""
		} else {
			*t = Text(strconv.FormatFloat(s, 'f', -1, 64))
		}
	case bool:
		if s {
			*t = "true"
		} else {
			*t = ""
		}
	default:
		*t = ""
	}
	return nil
}

// Count is an integer that decodes unreadable input as 0.
type Count int

// UnmarshalJSON implements json.Unmarshaler.
func (c *Count) UnmarshalJSON(b []byte) error {
	var v interface{}
	_ = json.Unmarshal(b, &v)
	*c = Count(Int(v, 0))
	return nil
}

// Flag is a boolean decoded by truthiness: false, null, 0, NaN and "" are
// false, every other value (any non-empty string, objects, arrays) is true.
type Flag bool

// UnmarshalJSON implements json.Unmarshaler.
func (f *Flag) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		*f = false
		return nil
	}
	switch x := v.(type) {
	case nil:
		*f = false
	case bool:
		*f = Flag(x)
	case float64:
		*f = Flag(x != 0 && !math.IsNaN(x))
	case string:
		*f = x != ""
	default:
		*f = true
	}
	return nil
}

// Instant is a canonical timestamp, or "" when the input is absent or not a date.
type Instant string

// UnmarshalJSON implements json.Unmarshaler.
func (i *Instant) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		*i = ""
		return nil
	}
	canonical, _ := CanonicalTime(s)
	*i = Instant(canonical)
	return nil
}

// Decode reads a validated payload into the record tree dst. Values of the
// wrong shape are skipped, leaving the zero value, and nil slices are then
// replaced with empty ones so every collection encodes as [].
func Decode(src map[string]interface{}, dst interface{}) error {
	b, err := json.Marshal(src)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(b, dst); err != nil {
		var typeErr *json.UnmarshalTypeError
		if !errors.As(err, &typeErr) {
			return err
		}
	}
	FillDefaults(dst)
	return nil
}

// FillDefaults walks v (a pointer to a struct) and replaces every nil slice
// with an empty one, recursing into nested structs and slice elements.
func FillDefaults(v interface{}) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return
	}
	fill(rv.Elem())
}

func fill(v reflect.Value) {
	switch v.Kind() {
	case reflect.Struct:
		for i := 0; i < v.NumField(); i++ {
			if f := v.Field(i); f.CanSet() {
				fill(f)
			}
		}
	case reflect.Slice:
		if v.IsNil() {
			v.Set(reflect.MakeSlice(v.Type(), 0, 0))
			return
		}
		for i := 0; i < v.Len(); i++ {
			fill(v.Index(i))
		}
	case reflect.Ptr:
		if !v.IsNil() {
			fill(v.Elem())
		}
	}
}
