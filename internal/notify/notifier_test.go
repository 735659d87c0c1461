package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/R3E-Network/korechain_gateway/internal/httputil"
)

type received struct {
	auth string
	body Message
}

type hookServer struct {
	mu   sync.Mutex
	hits []received
	srv  *httptest.Server
}

func newHookServer(t *testing.T, status int) *hookServer {
	t.Helper()
	h := &hookServer{}
	h.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var msg Message
		_ = json.NewDecoder(r.Body).Decode(&msg)
		h.mu.Lock()
		h.hits = append(h.hits, received{auth: r.Header.Get("Authorization"), body: msg})
		h.mu.Unlock()
		w.WriteHeader(status)
	}))
	t.Cleanup(h.srv.Close)
	return h
}

func (h *hookServer) received() []received {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]received(nil), h.hits...)
}

func drain(t *testing.T, n *Notifier) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, n.Drain(ctx))
}

func TestDispatchPostsPayloadAndResponse(t *testing.T) {
	hook := newHookServer(t, http.StatusOK)
	n := New(httputil.NewClient(httputil.ClientConfig{}), time.Second, nil)

	response := map[string]interface{}{"status": 200.0, "data": map[string]interface{}{"id": "C1"}}
	n.Dispatch(context.Background(), []Spec{
		{Recipient: hook.srv.URL, Payload: map[string]interface{}{"ref": "abc"}, Token: "Bearer t0k"},
	}, response)
	drain(t, n)

	hits := hook.received()
	require.Len(t, hits, 1)
	assert.Equal(t, "Bearer t0k", hits[0].auth)
	assert.Equal(t, map[string]interface{}{"ref": "abc"}, hits[0].body.Payload)
	assert.Equal(t, response, hits[0].body.Response)
}

func TestDispatchWithoutTokenOrResponse(t *testing.T) {
	hook := newHookServer(t, http.StatusOK)
	n := New(httputil.NewClient(httputil.ClientConfig{}), time.Second, nil)

	n.Dispatch(context.Background(), []Spec{{Recipient: hook.srv.URL, Payload: map[string]interface{}{}}}, nil)
	drain(t, n)

	hits := hook.received()
	require.Len(t, hits, 1)
	assert.Empty(t, hits[0].auth)
	assert.Equal(t, map[string]interface{}{}, hits[0].body.Response)
}

func TestFailedDeliveryDoesNotAffectOthers(t *testing.T) {
	bad := newHookServer(t, http.StatusInternalServerError)
	good := newHookServer(t, http.StatusOK)
	n := New(httputil.NewClient(httputil.ClientConfig{}), time.Second, nil)

	n.Dispatch(context.Background(), []Spec{
		{Recipient: bad.srv.URL},
		{Recipient: "http://127.0.0.1:1/unreachable"},
		{Recipient: good.srv.URL},
	}, nil)
	drain(t, n)

	assert.Len(t, bad.received(), 1)
	assert.Len(t, good.received(), 1)
}

func TestDispatchSurvivesCancelledRequest(t *testing.T) {
	hook := newHookServer(t, http.StatusOK)
	n := New(httputil.NewClient(httputil.ClientConfig{}), time.Second, nil)

	ctx, cancel := context.WithCancel(context.Background())
	n.Dispatch(ctx, []Spec{{Recipient: hook.srv.URL}}, nil)
	cancel()
	drain(t, n)

	assert.Len(t, hook.received(), 1)
}

func TestDrainHonoursContext(t *testing.T) {
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	defer slow.Close()

	n := New(httputil.NewClient(httputil.ClientConfig{}), time.Second, nil)
	n.Dispatch(context.Background(), []Spec{{Recipient: slow.URL}}, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, n.Drain(ctx), context.DeadlineExceeded)

	drain(t, n)
}

func TestDispatchAfterDrainIsDropped(t *testing.T) {
	hook := newHookServer(t, http.StatusOK)
	n := New(httputil.NewClient(httputil.ClientConfig{}), time.Second, nil)
	drain(t, n)

	n.Dispatch(context.Background(), []Spec{{Recipient: hook.srv.URL}}, nil)
	drain(t, n)

	assert.Empty(t, hook.received())
}

func TestConcurrentDispatchAndDrain(t *testing.T) {
	hook := newHookServer(t, http.StatusOK)
	n := New(httputil.NewClient(httputil.ClientConfig{}), time.Second, nil)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			n.Dispatch(context.Background(), []Spec{{Recipient: hook.srv.URL}}, nil)
		}()
	}
	drain(t, n)
	wg.Wait()
	drain(t, n)

	assert.LessOrEqual(t, len(hook.received()), 20)
}
