package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sentryline/fraud-triage/internal/adapters/httpapi"
	"github.com/sentryline/fraud-triage/internal/adapters/storage"
	"github.com/sentryline/fraud-triage/internal/adapters/verify"
	"github.com/sentryline/fraud-triage/internal/application"
	"github.com/sentryline/fraud-triage/internal/config"
	"github.com/sentryline/fraud-triage/internal/domain/patterns"
	"github.com/sentryline/fraud-triage/internal/logging"
	"github.com/sentryline/fraud-triage/internal/ports"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}
	logger := logging.New(cfg.LogLevel, cfg.LogFormat)
	logger.Info("starting triage service", "env", cfg.Env, "addr", cfg.ListenAddr)

	// Rule tables: loaded once, immutable for the process lifetime
	tables := patterns.Default()
	matcher := patterns.NewMatcher(tables)

	// Audit store is optional: without a database the service still scores,
	// it just skips the durable trail
	var audit ports.AuditStore
	if cfg.DatabaseURL != "" {
		store, err := storage.NewPostgresStore(cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer store.Close()
		if err := store.InitSchema(); err != nil {
			logger.Error("failed to initialize schema", "error", err)
			os.Exit(1)
		}
		audit = store
		logger.Info("audit store connected")
	} else {
		logger.Warn("DATABASE_URL not set, audit trail disabled")
	}

	// Seed lists. In production these come from ops-maintained feeds and
	// are baked into the deploy; redeploy to update them.
	blacklist := map[string]string{
		"free-iphone-winner.xyz": "known prize-scam landing page",
		"+911234500000":          "reported smishing originator",
	}
	registry := map[string]string{
		"SBIINB": "State Bank of India",
		"HDFCBK": "HDFC Bank",
		"ICICIB": "ICICI Bank",
		"PAYTMB": "Paytm Payments Bank",
		"AMZNIN": "Amazon India",
		"AIRTEL": "Bharti Airtel",
	}

	verifiers := []ports.Verifier{
		verify.NewDomainVerifier(tables.LegitimateDomains, tables.ProtectedBrands),
		verify.NewSSLVerifier(cfg.CheckTimeout),
		verify.NewBlacklistVerifier(blacklist),
		verify.NewSenderRegistryVerifier(registry),
		verify.NewPhoneVerifier(cfg.DefaultPhoneRegion),
	}

	reputation := verify.NewReputationAPI(cfg.ReputationEndpoint, cfg.ReputationAPIKey, cfg.CheckTimeout, logger)
	forensics := verify.NewForensicsClient(cfg.ForensicsEndpoint, cfg.CheckTimeout, logger)

	service := application.NewTriageService(
		matcher, verifiers, reputation, forensics, audit, logger, cfg.CheckTimeout,
	)

	server := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           httpapi.New(service, logger).Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown failed", "error", err)
	}
}
