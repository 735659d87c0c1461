// Package ledger provides the client used to submit transactions to, and
// evaluate queries against, the ledger network through its JSON-RPC gateway.
package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/PaesslerAG/jsonpath"

	svcerrors "github.com/R3E-Network/korechain_gateway/internal/errors"
)

const (
	// DefaultTimeout bounds every ledger call.
	DefaultTimeout = 30 * time.Second
	// DefaultTokenTTL is the lifetime of the service token sent with each call.
	DefaultTokenTTL = 5 * time.Minute
)

// RPCClient is a Client speaking JSON-RPC 2.0 to a ledger gateway node.
type RPCClient struct {
	mu         sync.RWMutex
	rpcURL     string
	httpClient *http.Client
	timeout    time.Duration
	resultPath string
	signer     *tokenSigner
	nextID     int
}

// Config holds client configuration.
type Config struct {
	RPCURL      string
	Timeout     time.Duration
	TokenSecret string
	TokenTTL    time.Duration
	// ResultPath is a JSONPath expression selecting the contract payload
	// inside the RPC result. Empty keeps the whole result.
	ResultPath string
}

// NewClient creates a new ledger client.
func NewClient(cfg Config) (*RPCClient, error) {
	if cfg.RPCURL == "" {
		return nil, fmt.Errorf("RPC URL required")
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	if cfg.ResultPath != "" {
		if _, err := jsonpath.New(cfg.ResultPath); err != nil {
			return nil, fmt.Errorf("parse result path %q: %w", cfg.ResultPath, err)
		}
	}

	c := &RPCClient{
		rpcURL:     cfg.RPCURL,
		httpClient: &http.Client{Timeout: timeout},
		timeout:    timeout,
		resultPath: cfg.ResultPath,
	}
	if cfg.TokenSecret != "" {
		ttl := cfg.TokenTTL
		if ttl == 0 {
			ttl = DefaultTokenTTL
		}
		c.signer = newTokenSigner(cfg.TokenSecret, ttl)
	}
	return c, nil
}

// =============================================================================
// Core RPC Methods
// =============================================================================

// Call makes a raw RPC call to the ledger gateway.
func (c *RPCClient) Call(ctx context.Context, method string, params []interface{}) (json.RawMessage, error) {
	return c.call(ctx, method, params, "")
}

func (c *RPCClient) call(ctx context.Context, method string, params []interface{}, token string) (json.RawMessage, error) {
	c.mu.Lock()
	c.nextID++
	id := c.nextID
	c.mu.Unlock()

	req := RPCRequest{
		JSONRPC: "2.0",
		Method:  method,
		Params:  params,
		ID:      id,
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.rpcURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var rpcResp RPCResponse
	if err := json.Unmarshal(respBody, &rpcResp); err != nil {
		return nil, fmt.Errorf("unmarshal response (http %d): %w", resp.StatusCode, err)
	}

	if rpcResp.Error != nil {
		return nil, rpcResp.Error
	}

	return rpcResp.Result, nil
}

// =============================================================================
// Contract Calls
// =============================================================================

// Invoke submits a state-changing transaction.
func (c *RPCClient) Invoke(ctx context.Context, id Identity, function string, payload interface{}) (Result, error) {
	return c.submit(ctx, ModeInvoke, id, function, payload)
}

// Query evaluates a read-only transaction.
func (c *RPCClient) Query(ctx context.Context, id Identity, function string, payload interface{}) (Result, error) {
	return c.submit(ctx, ModeQuery, id, function, payload)
}

func (c *RPCClient) submit(ctx context.Context, mode Mode, id Identity, function string, payload interface{}) (Result, error) {
	args, err := json.Marshal(payload)
	if err != nil {
		return Result{}, svcerrors.Internal("encode ledger payload", err)
	}

	var token string
	if c.signer != nil {
		token, err = c.signer.sign(id)
		if err != nil {
			return Result{}, svcerrors.Internal("sign ledger token", err)
		}
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	params := CallParams{
		User:     id.User,
		Channel:  id.Channel,
		Contract: id.Contract,
		Function: function,
		Args:     []string{string(args)},
	}

	raw, err := c.call(ctx, string(mode), []interface{}{params}, token)
	if err != nil {
		return Result{}, classify(function, err)
	}

	data, err := c.extract(raw)
	if err != nil {
		return Result{}, svcerrors.Ledger(http.StatusInternalServerError, "decode ledger result", err)
	}

	return Result{
		Status: http.StatusOK,
		Data:   map[string]interface{}{"data": data},
	}, nil
}

// extract decodes the RPC result and narrows it with the configured JSONPath.
func (c *RPCClient) extract(raw json.RawMessage) (interface{}, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	var decoded interface{}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("unmarshal result: %w", err)
	}

	if c.resultPath == "" {
		return decoded, nil
	}

	selected, err := jsonpath.Get(c.resultPath, decoded)
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", c.resultPath, err)
	}
	return selected, nil
}

// classify maps a transport or RPC failure onto a ledger ServiceError.
// Contract errors keep their code when it is an HTTP status.
func classify(function string, err error) error {
	var rpcErr *RPCError
	if errors.As(err, &rpcErr) {
		return svcerrors.Ledger(rpcErr.Code, rpcErr.Message, err).WithDetail("function", function)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return svcerrors.Ledger(http.StatusInternalServerError, "ledger call timed out", err).WithDetail("function", function)
	}
	return svcerrors.Ledger(http.StatusInternalServerError, "ledger unavailable", err).WithDetail("function", function)
}
