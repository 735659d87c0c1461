// Package schema validates request payloads against declarative field rules.
//
// A schema is an Object built from Fields. Validation stops at the first
// failing field and returns a *FieldError whose message names the full path
// of the field, e.g. "verifications[0].verification_date" must be in iso format.
// Successful validation returns a fresh copy of the payload with numeric and
// boolean fields converted to their native types.
package schema

import (
	"sort"
	"strconv"
)

// Rule checks a single value found at path and returns it, possibly converted.
type Rule interface {
	Check(path string, value interface{}) (interface{}, error)
}

// Field binds a key to a rule.
type Field struct {
	Name     string
	Rule     Rule
	Required bool
}

// Required declares a field that must be present.
func Required(name string, rule Rule) Field {
	return Field{Name: name, Rule: rule, Required: true}
}

// Optional declares a field that may be absent.
func Optional(name string, rule Rule) Field {
	return Field{Name: name, Rule: rule}
}

// ObjectRule validates a mapping with a fixed set of keys.
type ObjectRule struct {
	fields  []Field
	unknown bool
}

// Object returns a rule for a mapping with the given fields. Keys not
// declared are rejected unless AllowUnknown is called.
func Object(fields ...Field) *ObjectRule {
	return &ObjectRule{fields: fields}
}

// AllowUnknown makes the object accept undeclared keys and pass them through.
func (o *ObjectRule) AllowUnknown() *ObjectRule {
	o.unknown = true
	return o
}

// Extend returns a new object with extra fields appended after o's fields.
func (o *ObjectRule) Extend(fields ...Field) *ObjectRule {
	all := make([]Field, 0, len(o.fields)+len(fields))
	all = append(all, o.fields...)
	all = append(all, fields...)
	return &ObjectRule{fields: all, unknown: o.unknown}
}

// Without returns a new object without the named fields.
func (o *ObjectRule) Without(names ...string) *ObjectRule {
	drop := make(map[string]bool, len(names))
	for _, n := range names {
		drop[n] = true
	}
	kept := make([]Field, 0, len(o.fields))
	for _, f := range o.fields {
		if !drop[f.Name] {
			kept = append(kept, f)
		}
	}
	return &ObjectRule{fields: kept, unknown: o.unknown}
}

// Fields returns the declared field names in order.
func (o *ObjectRule) Fields() []string {
	names := make([]string, len(o.fields))
	for i, f := range o.fields {
		names[i] = f.Name
	}
	return names
}

// Validate checks a top-level payload.
func (o *ObjectRule) Validate(payload map[string]interface{}) (map[string]interface{}, error) {
	if payload == nil {
		payload = map[string]interface{}{}
	}
	return o.checkMap("", payload)
}

// Check implements Rule.
func (o *ObjectRule) Check(path string, value interface{}) (interface{}, error) {
	m, ok := value.(map[string]interface{})
	if !ok {
		return nil, fail(path, ConstraintObject, "must be of type object")
	}
	return o.checkMap(path, m)
}

func (o *ObjectRule) checkMap(path string, m map[string]interface{}) (map[string]interface{}, error) {
	out := make(map[string]interface{}, len(m))
	declared := make(map[string]bool, len(o.fields))

	for _, f := range o.fields {
		declared[f.Name] = true
		child := join(path, f.Name)

		v, present := m[f.Name]
		if !present {
			if f.Required {
				return nil, fail(child, ConstraintRequired, "is required")
			}
			continue
		}

		checked, err := f.Rule.Check(child, v)
		if err != nil {
			return nil, err
		}
		out[f.Name] = checked
	}

	extra := make([]string, 0)
	for k := range m {
		if !declared[k] {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)

	for _, k := range extra {
		if !o.unknown {
			return nil, fail(join(path, k), ConstraintUnknown, "is not allowed")
		}
		out[k] = m[k]
	}

	return out, nil
}

func join(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

func index(path string, i int) string {
	return path + "[" + strconv.Itoa(i) + "]"
}
