// Package normalize converts validated payloads into the canonical shape sent
// to the ledger: canonical timestamps, native numbers, explicit empty
// collections and gateway-stamped creation times.
//
// Numeric coercion fails open. A value that cannot be read as a number
// becomes 0 (or the caller's default) instead of rejecting the request.
package normalize

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Field names stamped by the gateway.
const (
	CreatedAtField     = "created_at"
	TransactionIDField = "transaction_id"
	CurrentDateField   = "current_date"
)

// Env supplies the clock and identifier source used while normalizing.
type Env struct {
	Now   func() time.Time
	NewID func() string
}

// DefaultEnv uses the wall clock and time-ordered UUIDs.
func DefaultEnv() Env {
	return Env{Now: time.Now, NewID: NewTransactionID}
}

// Timestamp returns the current time in TimeLayout.
func (e Env) Timestamp() string {
	if e.Now == nil {
		return FormatTime(time.Now())
	}
	return FormatTime(e.Now())
}

// ID returns a new identifier.
func (e Env) ID() string {
	if e.NewID == nil {
		return NewTransactionID()
	}
	return e.NewID()
}

// NewTransactionID returns a random, time-ordered UUID (version 7).
func NewTransactionID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// Float reads v as a number. Anything unreadable yields 0.
func Float(v interface{}) float64 {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case json.Number:
		f, _ = n.Float64()
	case string:
		f, _ = strconv.ParseFloat(strings.TrimSpace(n), 64)
	default:
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// Int reads v as a number truncated toward zero. Unreadable values, zero and
// values outside the int range yield def.
func Int(v interface{}, def int) int {
	f := math.Trunc(Float(v))
	if math.IsNaN(f) || f >= math.MaxInt || f < math.MinInt {
		return def
	}
	i := int(f)
	if i == 0 {
		return def
	}
	return i
}

// Truthy reads v as a boolean flag. Unreadable values yield false.
func Truthy(v interface{}) bool {
	switch b := v.(type) {
	case bool:
		return b
	case float64:
		return b != 0 && !math.IsNaN(b)
	case int:
		return b != 0
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(b))
		return err == nil && parsed
	}
	return false
}
