package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// Mode selects how a ledger function is called.
type Mode string

const (
	// ModeInvoke submits a state-changing transaction.
	ModeInvoke Mode = "invoke"
	// ModeQuery evaluates a read-only transaction.
	ModeQuery Mode = "query"
)

// Identity names the ledger user, channel and contract used for a call.
type Identity struct {
	User     string `json:"user"`
	Channel  string `json:"channel"`
	Contract string `json:"contract"`
}

// Result is the outcome of a ledger call, and the shape every /main response
// takes: Status doubles as the HTTP status code, Data as the response body.
type Result struct {
	Status int                    `json:"status"`
	Data   map[string]interface{} `json:"data"`
}

// OK reports whether the call succeeded.
func (r Result) OK() bool {
	return r.Status == http.StatusOK
}

// Message returns a result carrying only {"message": msg}.
func Message(status int, msg string) Result {
	return Result{Status: status, Data: map[string]interface{}{"message": msg}}
}

// Client calls ledger functions. Implementations must be safe for concurrent use.
type Client interface {
	Invoke(ctx context.Context, id Identity, function string, payload interface{}) (Result, error)
	Query(ctx context.Context, id Identity, function string, payload interface{}) (Result, error)
}

// Call dispatches to Invoke or Query according to mode.
func Call(ctx context.Context, c Client, mode Mode, id Identity, function string, payload interface{}) (Result, error) {
	switch mode {
	case ModeInvoke:
		return c.Invoke(ctx, id, function, payload)
	case ModeQuery:
		return c.Query(ctx, id, function, payload)
	default:
		return Result{}, fmt.Errorf("unsupported ledger mode %q", mode)
	}
}

// ===== JSON-RPC envelope =====

// RPCRequest is a JSON-RPC 2.0 request.
type RPCRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
	ID      int           `json:"id"`
}

// RPCResponse is a JSON-RPC 2.0 response.
type RPCResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      int             `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
}

// RPCError is the error member of a JSON-RPC response.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

// CallParams is the single positional parameter of invoke and query calls.
type CallParams struct {
	User     string   `json:"user"`
	Channel  string   `json:"channel"`
	Contract string   `json:"contract"`
	Function string   `json:"function"`
	Args     []string `json:"args"`
}
