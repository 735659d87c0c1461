// Package dispatch routes envelopes to catalog operations, calls the ledger
// and fans out notifications for successful calls.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	svcerrors "github.com/R3E-Network/korechain_gateway/internal/errors"
	"github.com/R3E-Network/korechain_gateway/internal/ledger"
	"github.com/R3E-Network/korechain_gateway/internal/logging"
	"github.com/R3E-Network/korechain_gateway/internal/metrics"
	"github.com/R3E-Network/korechain_gateway/internal/notify"
	"github.com/R3E-Network/korechain_gateway/internal/operations"
)

// Dispatch outcomes used as metric labels.
const (
	OutcomeOK           = "ok"
	OutcomeStructural   = "structural"
	OutcomeUnknown      = "unknown_operation"
	OutcomeInvalid      = "invalid"
	OutcomeLedgerError  = "ledger_error"
	OutcomeNotifyOnly   = "notify_only"
	OutcomeEmpty        = "empty"
	OutcomePanic        = "panic"
	unknownOperationTag = "unknown"
)

// Notifier starts webhook deliveries without waiting for them.
type Notifier interface {
	Dispatch(ctx context.Context, specs []notify.Spec, response interface{})
}

// Config configures a Dispatcher.
type Config struct {
	Catalog  *operations.Catalog
	Ledger   ledger.Client
	Identity ledger.Identity
	Notifier Notifier
	Logger   *logging.Logger
}

// Dispatcher handles envelopes and direct operation calls.
type Dispatcher struct {
	catalog  *operations.Catalog
	ledger   ledger.Client
	identity ledger.Identity
	notifier Notifier
	log      *logging.Logger
}

// New creates a dispatcher.
func New(cfg Config) (*Dispatcher, error) {
	if cfg.Catalog == nil {
		return nil, errors.New("operation catalog required")
	}
	if cfg.Ledger == nil {
		return nil, errors.New("ledger client required")
	}
	if cfg.Notifier == nil {
		cfg.Notifier = discardNotifier{}
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.NewDiscard("dispatch")
	}
	return &Dispatcher{
		catalog:  cfg.Catalog,
		ledger:   cfg.Ledger,
		identity: cfg.Identity,
		notifier: cfg.Notifier,
		log:      cfg.Logger,
	}, nil
}

// Catalog returns the operation catalog.
func (d *Dispatcher) Catalog() *operations.Catalog {
	return d.catalog
}

// Handle processes one envelope. It never fails: every outcome, including a
// panic inside an operation, is returned as a Result whose Status is the HTTP
// status to respond with.
func (d *Dispatcher) Handle(ctx context.Context, body map[string]interface{}) (result ledger.Result) {
	defer func() {
		if r := recover(); r != nil {
			d.log.WithContext(ctx).WithField("panic", fmt.Sprint(r)).Error("dispatch panicked")
			metrics.RecordDispatch("", OutcomePanic)
			result = ErrorResult(svcerrors.Internal("internal error", fmt.Errorf("%v", r)))
		}
	}()

	env, err := DecodeEnvelope(body)
	if err != nil {
		metrics.RecordDispatch("", OutcomeStructural)
		d.log.WithContext(ctx).WithError(err).Info("envelope rejected")
		return ErrorResult(err)
	}

	var executed *ledger.Result
	if env.KoreChainAPI.API != "" {
		res := d.Execute(ctx, env.KoreChainAPI.API, env.KoreChainAPI.Payload)
		if !res.OK() {
			return res
		}
		executed = &res
	}

	if len(env.Notifications) > 0 {
		var response interface{}
		if executed != nil {
			response = executed
		}
		d.notifier.Dispatch(ctx, env.Notifications, response)

		if executed == nil {
			metrics.RecordDispatch("", OutcomeNotifyOnly)
			return ledger.Message(http.StatusOK, svcerrors.MsgNotificationsSent)
		}
	}

	if executed == nil {
		metrics.RecordDispatch("", OutcomeEmpty)
		return ledger.Message(http.StatusBadRequest, svcerrors.MsgInvalidInput)
	}
	return *executed
}

// Execute runs one catalog operation against the ledger.
func (d *Dispatcher) Execute(ctx context.Context, api string, payload map[string]interface{}) ledger.Result {
	desc, ok := d.catalog.Lookup(api)
	if !ok {
		metrics.RecordDispatch(unknownOperationTag, OutcomeUnknown)
		d.log.WithContext(ctx).WithField("api", api).Info("unknown operation")
		return ErrorResult(svcerrors.UnknownOperation(api))
	}

	ctx = logging.WithOperation(ctx, api)

	body, err := d.catalog.Prepare(desc, payload)
	if err != nil {
		metrics.RecordDispatch(api, OutcomeInvalid)
		d.log.WithContext(ctx).WithError(err).Info("payload rejected")
		return ErrorResult(err)
	}

	res := d.Submit(ctx, desc.Mode, desc.Function, body)
	if res.OK() {
		metrics.RecordDispatch(api, OutcomeOK)
	} else {
		metrics.RecordDispatch(api, OutcomeLedgerError)
	}
	return res
}

// Submit calls a ledger function directly, bypassing the catalog. Failures
// come back as error results.
func (d *Dispatcher) Submit(ctx context.Context, mode ledger.Mode, function string, body interface{}) ledger.Result {
	start := time.Now()
	res, err := ledger.Call(ctx, d.ledger, mode, d.identity, function, body)
	if err != nil {
		res = ErrorResult(err)
	}
	metrics.RecordLedgerCall(string(mode), function, res.Status, time.Since(start))

	entry := d.log.WithContext(ctx).WithField("function", function).WithField("mode", mode).WithField("status", res.Status)
	if err != nil {
		entry.WithError(err).Warn("ledger call failed")
	} else {
		entry.Debug("ledger call completed")
	}
	return res
}

// ErrorResult converts err into a {message} result carrying its HTTP status.
func ErrorResult(err error) ledger.Result {
	se := svcerrors.GetServiceError(err)
	return ledger.Result{Status: se.HTTPStatus, Data: se.Payload()}
}

type discardNotifier struct{}

func (discardNotifier) Dispatch(context.Context, []notify.Spec, interface{}) {}
