// Package korecontract saves authored KoreContract documents. The clause
// tree submitted by the editor is flattened into numbered clauses before it
// is written to the ledger.
package korecontract

import (
	"context"
	"errors"
	"strconv"

	"github.com/tidwall/gjson"

	"github.com/R3E-Network/korechain_gateway/internal/dispatch"
	svcerrors "github.com/R3E-Network/korechain_gateway/internal/errors"
	"github.com/R3E-Network/korechain_gateway/internal/ledger"
	"github.com/R3E-Network/korechain_gateway/internal/logging"
	"github.com/R3E-Network/korechain_gateway/internal/normalize"
)

// FunctionSave is the ledger function storing a contract.
const FunctionSave = "SaveKoreContract"

// Submitter sends a prepared body to a ledger function.
type Submitter interface {
	Submit(ctx context.Context, mode ledger.Mode, function string, body interface{}) ledger.Result
}

// Config configures a Service.
type Config struct {
	Submitter Submitter
	Env       normalize.Env
	Logger    *logging.Logger
}

// Service stores KoreContracts.
type Service struct {
	submitter Submitter
	env       normalize.Env
	log       *logging.Logger
}

// New creates a Service.
func New(cfg Config) (*Service, error) {
	if cfg.Submitter == nil {
		return nil, errors.New("submitter required")
	}
	if cfg.Env.Now == nil {
		cfg.Env = normalize.DefaultEnv()
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.NewDiscard("korecontract")
	}
	return &Service{submitter: cfg.Submitter, env: cfg.Env, log: cfg.Logger}, nil
}

// Save flattens body into a contract record and invokes SaveKoreContract.
func (s *Service) Save(ctx context.Context, body []byte) ledger.Result {
	contract, err := Build(s.env, body)
	if err != nil {
		return dispatch.ErrorResult(err)
	}

	res := s.submitter.Submit(ctx, ledger.ModeInvoke, FunctionSave, contract)
	s.log.WithContext(ctx).WithFields(map[string]interface{}{
		"status":  res.Status,
		"clauses": len(clausesOf(contract)),
	}).Info("korecontract saved")
	return res
}

// Build converts an editor document into the record stored on the ledger.
func Build(env normalize.Env, body []byte) (map[string]interface{}, error) {
	if !gjson.ValidBytes(body) {
		return nil, svcerrors.Structural("request body is not valid JSON")
	}
	doc := gjson.ParseBytes(body)
	if !doc.IsObject() {
		return nil, svcerrors.Structural(`"value" must be of type object`)
	}

	contract := map[string]interface{}{
		"title":         doc.Get("title").Value(),
		"preamble_text": doc.Get("preamble_text").Value(),
	}
	normalize.Record(contract).Stamp(env)

	if data := doc.Get("data"); data.Exists() {
		contract["clauses"] = Flatten(data)
	}
	return contract, nil
}

// Flatten numbers the clauses of tree from "1" in document order. tree may
// be an array or an object of clauses.
func Flatten(tree gjson.Result) map[string]interface{} {
	clauses := map[string]interface{}{}
	if !tree.IsArray() && !tree.IsObject() {
		return clauses
	}

	n := 1
	tree.ForEach(func(_, clause gjson.Result) bool {
		clauses[strconv.Itoa(n)] = flattenClause(clause)
		n++
		return true
	})
	return clauses
}

func flattenClause(clause gjson.Result) map[string]interface{} {
	out := map[string]interface{}{}
	if !clause.IsObject() {
		return out
	}

	clause.ForEach(func(field, value gjson.Result) bool {
		switch name := field.String(); {
		case name == "references" && value.IsArray():
			out[name] = uniqueReferences(value)
		case (name == "title" || name == "text") && scalar(value):
			out[name] = value.Value()
		case name == "data":
			out[name] = variables(value)
		case name == "childs":
			out["clauses"] = Flatten(value)
		}
		return true
	})
	return out
}

// variables turns [{name, value}] into a name to value map.
func variables(list gjson.Result) map[string]interface{} {
	vars := map[string]interface{}{}
	list.ForEach(func(_, entry gjson.Result) bool {
		name := entry.Get("name")
		if name.Exists() {
			vars[name.String()] = entry.Get("value").Value()
		}
		return true
	})
	return vars
}

// uniqueReferences drops repeated scalar references, keeping first
// occurrences. Object references are kept as they are.
func uniqueReferences(list gjson.Result) []interface{} {
	seen := map[string]bool{}
	refs := []interface{}{}
	list.ForEach(func(_, ref gjson.Result) bool {
		if scalar(ref) {
			key := ref.Type.String() + ":" + ref.String()
			if seen[key] {
				return true
			}
			seen[key] = true
		}
		refs = append(refs, ref.Value())
		return true
	})
	return refs
}

func scalar(v gjson.Result) bool {
	switch v.Type {
	case gjson.String, gjson.Number, gjson.True, gjson.False:
		return true
	}
	return false
}

func clausesOf(contract map[string]interface{}) map[string]interface{} {
	c, _ := contract["clauses"].(map[string]interface{})
	return c
}
