package schema

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/R3E-Network/korechain_gateway/internal/normalize"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ===== Strings =====

// StringRule validates a string value.
type StringRule struct {
	allowEmpty bool
	alphanum   bool
	isoDate    bool
	uri        bool
	ip         bool
	length     int
	min        int
	max        int
	pastMsg    string
	now        func() time.Time
}

// String returns a rule for a non-empty string.
func String() *StringRule {
	return &StringRule{length: -1, min: -1, max: -1, now: time.Now}
}

// Alphanum returns a required, non-empty alpha-numeric identifier rule.
func Alphanum() *StringRule {
	return String().Alphanum()
}

// ISODate returns a rule for an ISO-8601 date string.
func ISODate() *StringRule {
	return String().ISODate()
}

// AllowEmpty accepts "" in addition to values passing the other constraints.
func (r *StringRule) AllowEmpty() *StringRule {
	r.allowEmpty = true
	return r
}

// Alphanum restricts the value to ASCII letters and digits.
func (r *StringRule) Alphanum() *StringRule {
	r.alphanum = true
	return r
}

// ISODate requires an ISO-8601 date or date-time.
func (r *StringRule) ISODate() *StringRule {
	r.isoDate = true
	return r
}

// URI requires an absolute URL.
func (r *StringRule) URI() *StringRule {
	r.uri = true
	return r
}

// IP requires an IPv4 or IPv6 address.
func (r *StringRule) IP() *StringRule {
	r.ip = true
	return r
}

// Len requires exactly n characters.
func (r *StringRule) Len(n int) *StringRule {
	r.length = n
	return r
}

// Min requires at least n characters.
func (r *StringRule) Min(n int) *StringRule {
	r.min = n
	return r
}

// Max allows at most n characters.
func (r *StringRule) Max(n int) *StringRule {
	r.max = n
	return r
}

// Past requires the ISO date to be strictly before now, failing with msg.
func (r *StringRule) Past(msg string) *StringRule {
	r.isoDate = true
	r.pastMsg = msg
	return r
}

// Clock overrides the time source used by Past.
func (r *StringRule) Clock(now func() time.Time) *StringRule {
	r.now = now
	return r
}

// Check implements Rule.
func (r *StringRule) Check(path string, value interface{}) (interface{}, error) {
	s, ok := value.(string)
	if !ok {
		return nil, fail(path, ConstraintString, "must be a string")
	}
	if s == "" {
		if r.allowEmpty {
			return s, nil
		}
		return nil, fail(path, ConstraintEmpty, "is not allowed to be empty")
	}

	n := len([]rune(s))
	switch {
	case r.alphanum && validate.Var(s, "alphanum") != nil:
		return nil, fail(path, ConstraintAlphanum, "must only contain alpha-numeric characters")
	case r.length >= 0 && n != r.length:
		return nil, fail(path, ConstraintLength, "length must be %d characters long", r.length)
	case r.min >= 0 && n < r.min:
		return nil, fail(path, ConstraintMin, "length must be at least %d characters long", r.min)
	case r.max >= 0 && n > r.max:
		return nil, fail(path, ConstraintMax, "length must be less than or equal to %d characters long", r.max)
	case r.uri && validate.Var(s, "url") != nil:
		return nil, fail(path, ConstraintURI, "must be a valid uri")
	case r.ip && validate.Var(s, "ip") != nil:
		return nil, fail(path, ConstraintIP, "must be a valid ip address")
	}

	if r.isoDate {
		t, ok := normalize.ParseTime(s)
		if !ok {
			return nil, fail(path, ConstraintISODate, "must be in iso format")
		}
		if r.pastMsg != "" && !t.Before(r.now()) {
			return nil, &FieldError{Path: path, Constraint: ConstraintPastDate, Message: r.pastMsg}
		}
	}

	return s, nil
}

// ===== Numbers =====

// NumberRule validates a numeric value. Numeric strings are accepted and
// converted to float64.
type NumberRule struct {
	allowEmpty bool
	min        *float64
	max        *float64
}

// Number returns a rule for a number.
func Number() *NumberRule {
	return &NumberRule{}
}

// AllowEmpty accepts "" and passes it through unchanged.
func (r *NumberRule) AllowEmpty() *NumberRule {
	r.allowEmpty = true
	return r
}

// Min sets an inclusive lower bound.
func (r *NumberRule) Min(v float64) *NumberRule {
	r.min = &v
	return r
}

// Max sets an inclusive upper bound.
func (r *NumberRule) Max(v float64) *NumberRule {
	r.max = &v
	return r
}

// Check implements Rule.
func (r *NumberRule) Check(path string, value interface{}) (interface{}, error) {
	if s, ok := value.(string); ok && s == "" && r.allowEmpty {
		return s, nil
	}

	f, ok := toNumber(value)
	if !ok {
		return nil, fail(path, ConstraintNumber, "must be a number")
	}
	if r.min != nil && f < *r.min {
		return nil, fail(path, ConstraintNumberMin, "must be greater than or equal to %s", formatNumber(*r.min))
	}
	if r.max != nil && f > *r.max {
		return nil, fail(path, ConstraintNumberMax, "must be less than or equal to %s", formatNumber(*r.max))
	}
	return f, nil
}

func toNumber(value interface{}) (float64, bool) {
	var f float64
	switch v := value.(type) {
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		f = float64(v)
	case int64:
		f = float64(v)
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// ===== Booleans =====

// BoolRule validates a boolean. The strings "true" and "false" are converted.
type BoolRule struct{}

// Bool returns a rule for a boolean.
func Bool() BoolRule {
	return BoolRule{}
}

// Check implements Rule.
func (BoolRule) Check(path string, value interface{}) (interface{}, error) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true":
			return true, nil
		case "false":
			return false, nil
		}
	}
	return nil, fail(path, ConstraintBoolean, "must be a boolean")
}

// ===== Collections =====

// ArrayRule validates a list whose items all satisfy one rule.
type ArrayRule struct {
	items Rule
	min   int
}

// Array returns a rule for a list of items.
func Array(items Rule) *ArrayRule {
	return &ArrayRule{items: items}
}

// Min requires at least n items.
func (r *ArrayRule) Min(n int) *ArrayRule {
	r.min = n
	return r
}

// Check implements Rule.
func (r *ArrayRule) Check(path string, value interface{}) (interface{}, error) {
	list, ok := value.([]interface{})
	if !ok {
		return nil, fail(path, ConstraintArray, "must be an array")
	}
	if len(list) < r.min {
		return nil, fail(path, ConstraintArrayMin, "must contain at least %d items", r.min)
	}

	out := make([]interface{}, len(list))
	for i, item := range list {
		checked, err := r.items.Check(index(path, i), item)
		if err != nil {
			return nil, err
		}
		out[i] = checked
	}
	return out, nil
}

// MapRule accepts any mapping without inspecting its keys.
type MapRule struct{}

// Map returns a rule for a free-form object.
func Map() MapRule {
	return MapRule{}
}

// Check implements Rule.
func (MapRule) Check(path string, value interface{}) (interface{}, error) {
	m, ok := value.(map[string]interface{})
	if !ok {
		return nil, fail(path, ConstraintObject, "must be of type object")
	}
	return m, nil
}
