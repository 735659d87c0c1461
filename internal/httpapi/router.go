// Package httpapi exposes the gateway over HTTP.
package httpapi

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/R3E-Network/korechain_gateway/internal/dispatch"
	svcerrors "github.com/R3E-Network/korechain_gateway/internal/errors"
	"github.com/R3E-Network/korechain_gateway/internal/httputil"
	"github.com/R3E-Network/korechain_gateway/internal/importer"
	"github.com/R3E-Network/korechain_gateway/internal/korecontract"
	"github.com/R3E-Network/korechain_gateway/internal/logging"
	"github.com/R3E-Network/korechain_gateway/internal/metrics"
	"github.com/R3E-Network/korechain_gateway/internal/middleware"
)

// Config wires the router to the gateway services. Auth, RateLimiter and
// CORS are optional.
type Config struct {
	Dispatcher   *dispatch.Dispatcher
	Importer     *importer.Importer
	KoreContract *korecontract.Service
	Auth         *middleware.BasicAuth
	RateLimiter  *middleware.RateLimiter
	CORS         *middleware.CORSMiddleware
	Logger       *logging.Logger
}

type handler struct {
	dispatcher   *dispatch.Dispatcher
	importer     *importer.Importer
	korecontract *korecontract.Service
	log          *logging.Logger
}

// NewRouter builds the gateway routes and middleware chain.
func NewRouter(cfg Config) (*mux.Router, error) {
	if cfg.Dispatcher == nil || cfg.Importer == nil || cfg.KoreContract == nil {
		return nil, errors.New("dispatcher, importer and korecontract service are required")
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.NewDiscard("httpapi")
	}

	h := &handler{
		dispatcher:   cfg.Dispatcher,
		importer:     cfg.Importer,
		korecontract: cfg.KoreContract,
		log:          cfg.Logger,
	}

	r := mux.NewRouter()
	r.Use(middleware.Standard(cfg.Logger)...)
	r.Use(metrics.InstrumentHandler)
	if cfg.CORS != nil {
		r.Use(cfg.CORS.Handler)
	}
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Handler)
	}

	r.HandleFunc("/health", h.health).Methods(http.MethodGet)
	r.HandleFunc("/operations", h.operations).Methods(http.MethodGet)
	r.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)

	protected := r.NewRoute().Subrouter()
	if cfg.Auth != nil {
		protected.Use(cfg.Auth.Handler)
	}
	protected.HandleFunc("/main", h.main).Methods(http.MethodPost)
	protected.HandleFunc("/main/import-company", h.importFile(importer.KindCompany)).Methods(http.MethodPost)
	protected.HandleFunc("/main/import-person", h.importFile(importer.KindPerson)).Methods(http.MethodPost)
	protected.HandleFunc("/api/{operation}", h.operation).Methods(http.MethodPost)
	protected.HandleFunc("/korecontract", h.saveKoreContract).Methods(http.MethodPost)

	r.NotFoundHandler = http.HandlerFunc(notFound)
	r.MethodNotAllowedHandler = http.HandlerFunc(notFound)
	return r, nil
}

func notFound(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteMessage(w, http.StatusNotFound, svcerrors.MsgNotFound)
}
