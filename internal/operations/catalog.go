// Package operations is the catalog of ledger operations reachable through
// the gateway. Each operation binds an API key to its payload schema, its
// normalizer and the ledger function it calls.
package operations

import (
	"errors"
	"fmt"
	"sort"
	"time"

	svcerrors "github.com/R3E-Network/korechain_gateway/internal/errors"
	"github.com/R3E-Network/korechain_gateway/internal/ledger"
	"github.com/R3E-Network/korechain_gateway/internal/normalize"
	"github.com/R3E-Network/korechain_gateway/internal/schema"
)

// Normalizer reshapes a validated payload in place and returns the value to
// send. It must be idempotent for a fixed Env.
type Normalizer func(env normalize.Env, rec normalize.Record) (interface{}, error)

// Packer wraps a normalized value into the ledger request body.
type Packer func(normalized interface{}) interface{}

// Descriptor describes one operation.
type Descriptor struct {
	Key       Key
	Module    string
	Function  string
	Mode      ledger.Mode
	Schema    *schema.ObjectRule
	Normalize Normalizer
	Pack      Packer
}

// Catalog indexes descriptors by key.
type Catalog struct {
	env   normalize.Env
	byKey map[Key]Descriptor
}

// New builds the catalog. env supplies the clock and identifier source used
// by schemas and normalizers.
func New(env normalize.Env) (*Catalog, error) {
	if env.Now == nil {
		env.Now = time.Now
	}
	if env.NewID == nil {
		env.NewID = normalize.NewTransactionID
	}

	groups := [][]Descriptor{
		companyOperations(),
		serviceProviderOperations(),
		personOperations(env.Now),
		industryOperations(),
		participantOperations(),
		koreContractOperations(),
		koreSecuritiesOperations(),
		holdingOperations(),
		tradeOperations(),
	}

	c := &Catalog{env: env, byKey: make(map[Key]Descriptor)}
	for _, group := range groups {
		for _, d := range group {
			if _, dup := c.byKey[d.Key]; dup {
				return nil, fmt.Errorf("duplicate operation %q", d.Key)
			}
			if d.Schema == nil || d.Function == "" {
				return nil, fmt.Errorf("incomplete operation %q", d.Key)
			}
			c.byKey[d.Key] = d
		}
	}

	for _, k := range Keys() {
		if _, ok := c.byKey[k]; !ok {
			return nil, fmt.Errorf("operation %q has no descriptor", k)
		}
	}
	if len(c.byKey) != len(Keys()) {
		return nil, fmt.Errorf("catalog has %d descriptors for %d keys", len(c.byKey), len(Keys()))
	}

	return c, nil
}

// Env returns the normalization environment.
func (c *Catalog) Env() normalize.Env {
	return c.env
}

// Lookup finds the descriptor for an API key.
func (c *Catalog) Lookup(api string) (Descriptor, bool) {
	d, ok := c.byKey[Key(api)]
	return d, ok
}

// Descriptors returns all descriptors sorted by key.
func (c *Catalog) Descriptors() []Descriptor {
	out := make([]Descriptor, 0, len(c.byKey))
	for _, d := range c.byKey {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// Prepare validates and normalizes payload for d and returns the ledger
// request body. Schema failures come back as validation ServiceErrors.
func (c *Catalog) Prepare(d Descriptor, payload map[string]interface{}) (interface{}, error) {
	values, err := d.Schema.Validate(payload)
	if err != nil {
		return nil, validationError(err)
	}

	normalized, err := c.Normalize(d, values)
	if err != nil {
		return nil, err
	}

	if d.Pack != nil {
		return d.Pack(normalized), nil
	}
	return normalized, nil
}

// Normalize applies d's normalizer to already-validated values.
func (c *Catalog) Normalize(d Descriptor, values map[string]interface{}) (interface{}, error) {
	if d.Normalize == nil {
		return values, nil
	}
	return d.Normalize(c.env, normalize.Record(values))
}

func validationError(err error) error {
	var fe *schema.FieldError
	if errors.As(err, &fe) {
		return svcerrors.Validation(fe.Message, fe.Path)
	}
	return svcerrors.Validation(err.Error(), "")
}

// ===== shared builders =====

func invoke(key Key, module, function string, s *schema.ObjectRule, n Normalizer) Descriptor {
	return Descriptor{Key: key, Module: module, Function: function, Mode: ledger.ModeInvoke, Schema: s, Normalize: n}
}

func query(key Key, module, function string, s *schema.ObjectRule) Descriptor {
	return Descriptor{Key: key, Module: module, Function: function, Mode: ledger.ModeQuery, Schema: s}
}

// queryWith is a query whose payload still goes through a normalizer.
func queryWith(key Key, module, function string, s *schema.ObjectRule, n Normalizer) Descriptor {
	d := query(key, module, function, s)
	d.Normalize = n
	return d
}

// stamped only sets created_at.
func stamped(env normalize.Env, rec normalize.Record) (interface{}, error) {
	return rec.Stamp(env).Map(), nil
}

func idSchema() *schema.ObjectRule {
	return schema.Object(schema.Required("id", schema.Alphanum()))
}

func alphanumSchema(names ...string) *schema.ObjectRule {
	fields := make([]schema.Field, len(names))
	for i, n := range names {
		fields[i] = schema.Required(n, schema.Alphanum())
	}
	return schema.Object(fields...)
}

// associationSchema covers the company associations carrying a list of ids.
func associationSchema() *schema.ObjectRule {
	return schema.Object(
		schema.Required("company_id", schema.Alphanum()),
		schema.Required("association_date", schema.ISODate()),
		schema.Required("data", schema.Array(schema.Alphanum()).Min(1)),
	)
}

func normalizeAssociation(env normalize.Env, rec normalize.Record) (interface{}, error) {
	return rec.Time("association_date").Stamp(env).Map(), nil
}

func domicileSchema() schema.Rule {
	return schema.Array(schema.Object(
		schema.Required("country", schema.String().Min(2).Max(2)),
		schema.Required("state", schema.Array(schema.Alphanum()).Min(1)),
	))
}
