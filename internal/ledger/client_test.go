package ledger

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	svcerrors "github.com/R3E-Network/korechain_gateway/internal/errors"
)

var testIdentity = Identity{User: "appUser", Channel: "mychannel", Contract: "korechain"}

type rpcCapture struct {
	req    RPCRequest
	params CallParams
	auth   string
}

func newRPCServer(t *testing.T, capture *rpcCapture, respond func(w http.ResponseWriter)) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type = %s", ct)
		}
		if capture != nil {
			capture.auth = r.Header.Get("Authorization")
			if err := json.NewDecoder(r.Body).Decode(&capture.req); err != nil {
				t.Errorf("decode request: %v", err)
			}
			if len(capture.req.Params) == 1 {
				b, _ := json.Marshal(capture.req.Params[0])
				_ = json.Unmarshal(b, &capture.params)
			}
		}
		respond(w)
	}))
}

func TestNewClientRequiresURL(t *testing.T) {
	_, err := NewClient(Config{})
	require.Error(t, err)

	_, err = NewClient(Config{RPCURL: "http://ledger", ResultPath: "$["})
	require.Error(t, err)
}

func TestInvokeSendsCallParams(t *testing.T) {
	var capture rpcCapture
	srv := newRPCServer(t, &capture, func(w http.ResponseWriter) {
		_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":1,"result":{"id":"C1","ok":true}}`))
	})
	defer srv.Close()

	c, err := NewClient(Config{RPCURL: srv.URL})
	require.NoError(t, err)

	res, err := c.Invoke(context.Background(), testIdentity, "AddCompany", map[string]interface{}{"cd": "x"})
	require.NoError(t, err)

	assert.True(t, res.OK())
	assert.Equal(t, map[string]interface{}{"id": "C1", "ok": true}, res.Data["data"])

	assert.Equal(t, "2.0", capture.req.JSONRPC)
	assert.Equal(t, "invoke", capture.req.Method)
	assert.Equal(t, "AddCompany", capture.params.Function)
	assert.Equal(t, "appUser", capture.params.User)
	assert.Equal(t, "mychannel", capture.params.Channel)
	assert.Equal(t, "korechain", capture.params.Contract)
	assert.Equal(t, []string{`{"cd":"x"}`}, capture.params.Args)
	assert.Empty(t, capture.auth)
}

func TestQueryUsesQueryMethodAndResultPath(t *testing.T) {
	var capture rpcCapture
	srv := newRPCServer(t, &capture, func(w http.ResponseWriter) {
		_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":1,"result":{"txid":"abc","payload":[{"id":"P1"}]}}`))
	})
	defer srv.Close()

	c, err := NewClient(Config{RPCURL: srv.URL, ResultPath: "$.payload"})
	require.NoError(t, err)

	res, err := Call(context.Background(), c, ModeQuery, testIdentity, "GetPerson", map[string]interface{}{"id": "P1"})
	require.NoError(t, err)

	assert.Equal(t, "query", capture.req.Method)
	assert.Equal(t, []interface{}{map[string]interface{}{"id": "P1"}}, res.Data["data"])
}

func TestServiceTokenAttached(t *testing.T) {
	var capture rpcCapture
	srv := newRPCServer(t, &capture, func(w http.ResponseWriter) {
		_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":1,"result":null}`))
	})
	defer srv.Close()

	c, err := NewClient(Config{RPCURL: srv.URL, TokenSecret: "s3cret"})
	require.NoError(t, err)

	_, err = c.Invoke(context.Background(), testIdentity, "AddIndustry", map[string]interface{}{})
	require.NoError(t, err)

	require.True(t, strings.HasPrefix(capture.auth, "Bearer "))
	claims := &jwt.RegisteredClaims{}
	_, err = jwt.ParseWithClaims(strings.TrimPrefix(capture.auth, "Bearer "), claims, func(*jwt.Token) (interface{}, error) {
		return []byte("s3cret"), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	require.NoError(t, err)

	assert.Equal(t, "appUser", claims.Subject)
	assert.Equal(t, tokenIssuer, claims.Issuer)
	assert.Equal(t, jwt.ClaimStrings{"mychannel"}, claims.Audience)
}

func TestRPCErrorStatusMapping(t *testing.T) {
	tests := []struct {
		code int
		want int
	}{
		{404, 404},
		{500, 500},
		{-32000, 400},
		{0, 400},
	}

	for _, tt := range tests {
		srv := newRPCServer(t, nil, func(w http.ResponseWriter) {
			_ = json.NewEncoder(w).Encode(RPCResponse{JSONRPC: "2.0", ID: 1, Error: &RPCError{Code: tt.code, Message: "Company not found"}})
		})

		c, err := NewClient(Config{RPCURL: srv.URL})
		require.NoError(t, err)

		_, err = c.Query(context.Background(), testIdentity, "GetCompany", map[string]interface{}{"id": "X"})
		se := svcerrors.GetServiceError(err)
		require.NotNil(t, se)
		assert.Equal(t, svcerrors.CodeLedger, se.Code)
		assert.Equal(t, tt.want, se.HTTPStatus, "code %d", tt.code)
		assert.Equal(t, "Company not found", se.Message)
		srv.Close()
	}
}

func TestTimeoutIsServerError(t *testing.T) {
	srv := newRPCServer(t, nil, func(w http.ResponseWriter) {
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":1,"result":{}}`))
	})
	defer srv.Close()

	c, err := NewClient(Config{RPCURL: srv.URL, Timeout: 20 * time.Millisecond})
	require.NoError(t, err)

	_, err = c.Invoke(context.Background(), testIdentity, "AddCompany", map[string]interface{}{})
	se := svcerrors.GetServiceError(err)
	require.NotNil(t, se)
	assert.Equal(t, http.StatusInternalServerError, se.HTTPStatus)
}

func TestMalformedResponse(t *testing.T) {
	srv := newRPCServer(t, nil, func(w http.ResponseWriter) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`<html>bad gateway</html>`))
	})
	defer srv.Close()

	c, err := NewClient(Config{RPCURL: srv.URL})
	require.NoError(t, err)

	_, err = c.Invoke(context.Background(), testIdentity, "AddCompany", map[string]interface{}{})
	se := svcerrors.GetServiceError(err)
	assert.Equal(t, http.StatusInternalServerError, se.HTTPStatus)
	assert.Equal(t, "ledger unavailable", se.Message)
}
