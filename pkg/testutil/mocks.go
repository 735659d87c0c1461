// Package testutil provides common testing utilities and mock implementations.
package testutil

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/google/uuid"

	"github.com/R3E-Network/korechain_gateway/internal/ledger"
	"github.com/R3E-Network/korechain_gateway/internal/notify"
)

// LedgerCall is one call recorded by MockLedger. Payload holds the JSON
// form of the body, as the ledger would receive it.
type LedgerCall struct {
	Mode     ledger.Mode
	Identity ledger.Identity
	Function string
	Payload  map[string]interface{}
}

// MockLedger is an in-memory ledger.Client. Invokes answer with a generated
// transaction id, queries echo the payload, unless a result or error has been
// set for the function.
type MockLedger struct {
	mu      sync.RWMutex
	calls   []LedgerCall
	results map[string]ledger.Result
	errs    map[string]error
}

// NewMockLedger creates an empty mock ledger.
func NewMockLedger() *MockLedger {
	return &MockLedger{
		results: make(map[string]ledger.Result),
		errs:    make(map[string]error),
	}
}

// SetResult fixes the result returned for function.
func (m *MockLedger) SetResult(function string, result ledger.Result) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results[function] = result
}

// SetError makes calls to function fail with err.
func (m *MockLedger) SetError(function string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errs[function] = err
}

// Invoke implements ledger.Client.
func (m *MockLedger) Invoke(ctx context.Context, id ledger.Identity, function string, payload interface{}) (ledger.Result, error) {
	return m.record(ctx, ledger.ModeInvoke, id, function, payload)
}

// Query implements ledger.Client.
func (m *MockLedger) Query(ctx context.Context, id ledger.Identity, function string, payload interface{}) (ledger.Result, error) {
	return m.record(ctx, ledger.ModeQuery, id, function, payload)
}

func (m *MockLedger) record(_ context.Context, mode ledger.Mode, id ledger.Identity, function string, payload interface{}) (ledger.Result, error) {
	decoded := map[string]interface{}{}
	if raw, err := json.Marshal(payload); err == nil {
		_ = json.Unmarshal(raw, &decoded)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, LedgerCall{Mode: mode, Identity: id, Function: function, Payload: decoded})

	if err, ok := m.errs[function]; ok {
		return ledger.Result{}, err
	}
	if res, ok := m.results[function]; ok {
		return res, nil
	}
	if mode == ledger.ModeInvoke {
		return ledger.Result{Status: http.StatusOK, Data: map[string]interface{}{"data": map[string]interface{}{"tx_id": uuid.NewString()}}}, nil
	}
	return ledger.Result{Status: http.StatusOK, Data: map[string]interface{}{"data": decoded}}, nil
}

// Calls returns the recorded calls in order.
func (m *MockLedger) Calls() []LedgerCall {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]LedgerCall, len(m.calls))
	copy(out, m.calls)
	return out
}

// LastCall returns the most recent call, if any.
func (m *MockLedger) LastCall() (LedgerCall, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(m.calls) == 0 {
		return LedgerCall{}, false
	}
	return m.calls[len(m.calls)-1], true
}

// NotifyCall is one Dispatch recorded by MockNotifier.
type NotifyCall struct {
	Specs    []notify.Spec
	Response interface{}
}

// MockNotifier records notification fan-outs without delivering them.
type MockNotifier struct {
	mu    sync.Mutex
	calls []NotifyCall
}

// Dispatch records the request.
func (m *MockNotifier) Dispatch(_ context.Context, specs []notify.Spec, response interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, NotifyCall{Specs: specs, Response: response})
}

// Calls returns the recorded fan-outs.
func (m *MockNotifier) Calls() []NotifyCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]NotifyCall, len(m.calls))
	copy(out, m.calls)
	return out
}
