package schema

import "fmt"

// Constraint names reported in FieldError.Constraint.
const (
	ConstraintRequired  = "any.required"
	ConstraintUnknown   = "object.unknown"
	ConstraintObject    = "object.base"
	ConstraintArray     = "array.base"
	ConstraintArrayMin  = "array.min"
	ConstraintString    = "string.base"
	ConstraintEmpty     = "string.empty"
	ConstraintAlphanum  = "string.alphanum"
	ConstraintLength    = "string.length"
	ConstraintMin       = "string.min"
	ConstraintMax       = "string.max"
	ConstraintISODate   = "string.isoDate"
	ConstraintURI       = "string.uri"
	ConstraintIP        = "string.ip"
	ConstraintPastDate  = "date.past"
	ConstraintNumber    = "number.base"
	ConstraintNumberMin = "number.min"
	ConstraintNumberMax = "number.max"
	ConstraintBoolean   = "boolean.base"
)

// FieldError describes the first failing field of a payload.
type FieldError struct {
	Path       string
	Constraint string
	Message    string
}

func (e *FieldError) Error() string {
	return e.Message
}

func fail(path, constraint, format string, args ...interface{}) *FieldError {
	return &FieldError{
		Path:       path,
		Constraint: constraint,
		Message:    fmt.Sprintf("%q ", path) + fmt.Sprintf(format, args...),
	}
}
