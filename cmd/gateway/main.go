// Package main runs the KoreChain REST gateway.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/R3E-Network/korechain_gateway/internal/config"
	"github.com/R3E-Network/korechain_gateway/internal/dispatch"
	"github.com/R3E-Network/korechain_gateway/internal/httpapi"
	"github.com/R3E-Network/korechain_gateway/internal/httputil"
	"github.com/R3E-Network/korechain_gateway/internal/importer"
	"github.com/R3E-Network/korechain_gateway/internal/korecontract"
	"github.com/R3E-Network/korechain_gateway/internal/ledger"
	"github.com/R3E-Network/korechain_gateway/internal/logging"
	"github.com/R3E-Network/korechain_gateway/internal/middleware"
	"github.com/R3E-Network/korechain_gateway/internal/normalize"
	"github.com/R3E-Network/korechain_gateway/internal/notify"
	"github.com/R3E-Network/korechain_gateway/internal/operations"
)

const (
	serviceName     = "korechain-gateway"
	shutdownTimeout = 30 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.NewFromEnv(serviceName).WithError(err).Fatal("load config")
	}
	log := logging.New(serviceName, cfg.Log.Level, cfg.Log.Format)

	if err := run(cfg, log); err != nil {
		log.WithError(err).Fatal("gateway stopped")
	}
}

func run(cfg *config.Config, log *logging.Logger) error {
	ledgerClient, err := ledger.NewClient(ledger.Config{
		RPCURL:      cfg.Ledger.URL,
		Timeout:     cfg.Ledger.Timeout,
		TokenSecret: cfg.Ledger.TokenSecret,
		ResultPath:  cfg.Ledger.ResultPath,
	})
	if err != nil {
		return err
	}

	env := normalize.DefaultEnv()
	catalog, err := operations.New(env)
	if err != nil {
		return err
	}

	notifier := notify.New(
		httputil.NewClient(httputil.ClientConfig{Timeout: cfg.Notify.Timeout, UserAgent: serviceName}),
		cfg.Notify.Timeout,
		log,
	)

	dispatcher, err := dispatch.New(dispatch.Config{
		Catalog:  catalog,
		Ledger:   ledgerClient,
		Identity: cfg.Identity(),
		Notifier: notifier,
		Logger:   log,
	})
	if err != nil {
		return err
	}

	imp, err := importer.New(importer.Config{Submitter: dispatcher, Env: env, Logger: log})
	if err != nil {
		return err
	}
	contracts, err := korecontract.New(korecontract.Config{Submitter: dispatcher, Env: env, Logger: log})
	if err != nil {
		return err
	}

	auth, err := middleware.NewBasicAuth(cfg.Auth.User, cfg.Auth.Password, log)
	if err != nil {
		return err
	}
	if !auth.Enabled() {
		log.Warn("SWAGGER_PASSWORD is empty, basic auth is disabled")
	}

	var limiter *middleware.RateLimiter
	if cfg.RateLimit.RPS > 0 {
		limiter = middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst, log)
		scheduler := cron.New()
		if _, err := scheduler.AddFunc(cfg.RateLimit.CleanupSchedule, func() {
			if n := limiter.Cleanup(cfg.RateLimit.IdleTTL); n > 0 {
				log.WithField("removed", n).Debug("evicted idle rate limiters")
			}
		}); err != nil {
			return err
		}
		scheduler.Start()
		defer scheduler.Stop()
	} else {
		log.Info("rate limiting disabled")
	}

	router, err := httpapi.NewRouter(httpapi.Config{
		Dispatcher:   dispatcher,
		Importer:     imp,
		KoreContract: contracts,
		Auth:         auth,
		RateLimiter:  limiter,
		CORS:         middleware.NewCORSMiddleware(cfg.CORS.Origins()),
		Logger:       log,
	})
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: cfg.Ledger.Timeout + 10*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithFields(map[string]interface{}{
			"addr":      server.Addr,
			"channel":   cfg.Ledger.Channel,
			"chaincode": cfg.Ledger.Chaincode,
		}).Info("gateway listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		log.WithField("signal", sig.String()).Info("shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.WithError(err).Warn("server shutdown")
	}
	if err := notifier.Drain(ctx); err != nil {
		log.WithError(err).Warn("pending notifications abandoned")
	}
	return nil
}
