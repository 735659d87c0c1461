// Package notify delivers webhook callbacks carrying an operation's result.
//
// Deliveries are detached from the request that triggered them: each runs in
// its own goroutine under a bounded timeout, is never retried, and only ever
// reports its outcome through logs and metrics.
package notify

import (
	"context"
	"sync"
	"time"

	svcerrors "github.com/R3E-Network/korechain_gateway/internal/errors"
	"github.com/R3E-Network/korechain_gateway/internal/logging"
	"github.com/R3E-Network/korechain_gateway/internal/metrics"
)

// DefaultTimeout bounds a single delivery.
const DefaultTimeout = 10 * time.Second

// Spec is one requested callback.
type Spec struct {
	Recipient string                 `json:"Recipient"`
	Payload   map[string]interface{} `json:"Notification_Payload"`
	Token     string                 `json:"token"`
}

// Message is the body posted to a recipient.
type Message struct {
	Payload  map[string]interface{} `json:"Notification_Payload"`
	Response interface{}            `json:"KoreChainAPI_Response"`
}

// Poster sends a JSON body to a URL.
type Poster interface {
	PostJSON(ctx context.Context, url string, body interface{}, headers map[string]string) (int, error)
}

// Notifier fans out callbacks.
type Notifier struct {
	client  Poster
	timeout time.Duration
	log     *logging.Logger

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

// New creates a notifier.
func New(client Poster, timeout time.Duration, log *logging.Logger) *Notifier {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if log == nil {
		log = logging.NewDiscard("notify")
	}
	return &Notifier{client: client, timeout: timeout, log: log}
}

// Dispatch starts one delivery per spec, in order, and returns immediately.
// A nil response is sent as an empty object.
func (n *Notifier) Dispatch(ctx context.Context, specs []Spec, response interface{}) {
	if response == nil {
		response = map[string]interface{}{}
	}
	detached := context.WithoutCancel(ctx)

	// Add must not race with Wait in Drain, so both sides hold mu.
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed {
		for _, spec := range specs {
			metrics.RecordNotification(false)
			n.log.WithContext(ctx).WithField("recipient", spec.Recipient).Warn("notifier draining, notification dropped")
		}
		return
	}

	for _, spec := range specs {
		n.wg.Add(1)
		go n.deliver(detached, spec, response)
	}
}

func (n *Notifier) deliver(ctx context.Context, spec Spec, response interface{}) {
	defer n.wg.Done()

	ctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	headers := map[string]string{}
	if spec.Token != "" {
		headers["Authorization"] = spec.Token
	}

	payload := spec.Payload
	if payload == nil {
		payload = map[string]interface{}{}
	}

	start := time.Now()
	status, err := n.client.PostJSON(ctx, spec.Recipient, Message{Payload: payload, Response: response}, headers)
	entry := n.log.WithContext(ctx).WithField("recipient", spec.Recipient).WithField("duration_ms", time.Since(start).Milliseconds())
	if err != nil {
		metrics.RecordNotification(false)
		entry.WithError(svcerrors.Notification(spec.Recipient, err)).WithField("status", status).Warn("notification failed")
		return
	}

	metrics.RecordNotification(true)
	entry.WithField("status", status).Info("notification delivered")
}

// Drain stops accepting deliveries and waits for in-flight ones or until ctx
// is done. Later Dispatch calls drop their notifications.
func (n *Notifier) Drain(ctx context.Context) error {
	n.mu.Lock()
	n.closed = true
	n.mu.Unlock()

	done := make(chan struct{})
	go func() {
		n.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
