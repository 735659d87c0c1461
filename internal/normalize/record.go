package normalize

import (
	"encoding/json"
)

// Record is a validated payload being reshaped in place.
type Record map[string]interface{}

// Time canonicalizes each named field holding a non-empty date string.
// Empty strings stay empty.
func (r Record) Time(keys ...string) Record {
	for _, k := range keys {
		s, ok := r[k].(string)
		if !ok || s == "" {
			continue
		}
		if canonical, ok := CanonicalTime(s); ok {
			r[k] = canonical
		}
	}
	return r
}

// TimeOrDrop canonicalizes key, removing it when absent or empty.
func (r Record) TimeOrDrop(key string) Record {
	s, _ := r[key].(string)
	if s == "" {
		delete(r, key)
		return r
	}
	return r.Time(key)
}

// Float coerces each named field to a number, failing open to 0.
func (r Record) Float(keys ...string) Record {
	for _, k := range keys {
		r[k] = Float(r[k])
	}
	return r
}

// Int coerces key to an integer, falling back to def.
func (r Record) Int(key string, def int) Record {
	r[key] = Int(r[key], def)
	return r
}

// Bool coerces key to a boolean.
func (r Record) Bool(key string) Record {
	r[key] = Truthy(r[key])
	return r
}

// List makes sure each named field holds a list, defaulting to empty.
func (r Record) List(keys ...string) Record {
	for _, k := range keys {
		if _, ok := r[k].([]interface{}); !ok {
			r[k] = []interface{}{}
		}
	}
	return r
}

// Each applies fn to every object in the list at key.
func (r Record) Each(key string, fn func(Record)) Record {
	list, _ := r[key].([]interface{})
	for _, item := range list {
		if m, ok := item.(map[string]interface{}); ok {
			fn(Record(m))
		}
	}
	return r
}

// Child returns the object at key, creating an empty one when absent.
func (r Record) Child(key string) Record {
	if m, ok := r[key].(map[string]interface{}); ok {
		return Record(m)
	}
	child := map[string]interface{}{}
	r[key] = child
	return Record(child)
}

// Stamp sets created_at to the current time.
func (r Record) Stamp(env Env) Record {
	r[CreatedAtField] = env.Timestamp()
	return r
}

// TransactionID assigns a fresh transaction_id unless one is already set.
func (r Record) TransactionID(env Env) Record {
	if s, _ := r[TransactionIDField].(string); s == "" {
		r[TransactionIDField] = env.ID()
	}
	return r
}

// Encode replaces the value at key with its JSON text. Absent keys and values
// that are already strings are left alone.
func (r Record) Encode(key string) Record {
	v, ok := r[key]
	if !ok || v == nil {
		return r
	}
	if _, isString := v.(string); isString {
		return r
	}
	if b, err := json.Marshal(v); err == nil {
		r[key] = string(b)
	}
	return r
}

// Map returns r as a plain map.
func (r Record) Map() map[string]interface{} {
	return map[string]interface{}(r)
}
