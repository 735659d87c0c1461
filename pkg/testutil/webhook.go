package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"
)

// WebhookRequest is a callback received by a WebhookServer.
type WebhookRequest struct {
	Authorization string
	Body          map[string]interface{}
}

// WebhookServer is an httptest server that records JSON callbacks.
type WebhookServer struct {
	*httptest.Server

	status   int
	mu       sync.Mutex
	requests []WebhookRequest
	received chan struct{}
}

// NewWebhookServer starts a server answering every callback with status.
// Close it when done.
func NewWebhookServer(status int) *WebhookServer {
	ws := &WebhookServer{status: status, received: make(chan struct{}, 64)}
	ws.Server = httptest.NewServer(http.HandlerFunc(ws.handle))
	return ws
}

func (ws *WebhookServer) handle(w http.ResponseWriter, r *http.Request) {
	raw, _ := io.ReadAll(r.Body)
	body := map[string]interface{}{}
	_ = json.Unmarshal(raw, &body)

	ws.mu.Lock()
	ws.requests = append(ws.requests, WebhookRequest{Authorization: r.Header.Get("Authorization"), Body: body})
	ws.mu.Unlock()

	w.WriteHeader(ws.status)
	select {
	case ws.received <- struct{}{}:
	default:
	}
}

// Wait blocks until n callbacks have arrived or timeout passes, and reports
// whether they all did.
func (ws *WebhookServer) Wait(n int, timeout time.Duration) bool {
	deadline := time.After(timeout)
	for i := 0; i < n; i++ {
		select {
		case <-ws.received:
		case <-deadline:
			return false
		}
	}
	return true
}

// Requests returns the callbacks received so far.
func (ws *WebhookServer) Requests() []WebhookRequest {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	out := make([]WebhookRequest, len(ws.requests))
	copy(out, ws.requests)
	return out
}
