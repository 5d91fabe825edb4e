package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"persona/internal/agent"
	"persona/internal/appauth"
	credhandler "persona/internal/credential/handler"
	credservice "persona/internal/credential/service"
	credstore "persona/internal/credential/store"
	"persona/internal/credential/workers/expiry"
	"persona/internal/events"
	"persona/internal/platform/config"
	"persona/internal/platform/health"
	"persona/internal/platform/logger"
	proofhandler "persona/internal/proof/handler"
	proofmetrics "persona/internal/proof/metrics"
	proofservice "persona/internal/proof/service"
	prooftracer "persona/internal/proof/tracer"
	sessionclient "persona/internal/session/client"
	sessionhandler "persona/internal/session/handler"
	sessionmetrics "persona/internal/session/metrics"
	sessionservice "persona/internal/session/service"
	sessionstore "persona/internal/session/store"
	httptransport "persona/internal/transport/http"
	"persona/internal/zk"
	request "persona/pkg/platform/middleware/request"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	log.Info("initializing persona gateway",
		"addr", cfg.Addr,
		"agent_url", cfg.AgentURL,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	callOpts := agent.CallOptions{
		Timeout:    cfg.AgentTimeout,
		MaxRetries: cfg.AgentRetries,
		RetryDelay: cfg.AgentRetryWait,
	}

	bus := events.NewBus()
	credentials := credstore.New()
	sessions := sessionstore.New(config.SessionRetention)

	credentialSvc, err := credservice.New(credentials, bus,
		credservice.WithLogger(log),
	)
	if err != nil {
		log.Error("credential service init failed", "error", err)
		os.Exit(1)
	}

	statusClient := sessionclient.NewHTTPStatusClient(cfg.VerifierURL, nil)
	sessionSvc, err := sessionservice.New(sessions, statusClient, credentialSvc,
		sessionservice.WithLogger(log),
		sessionservice.WithMetrics(sessionmetrics.New()),
		sessionservice.WithAwaitTimeout(cfg.SessionTimeout),
	)
	if err != nil {
		log.Error("session service init failed", "error", err)
		os.Exit(1)
	}

	// Spans go to the global OTel provider unless tracing is switched off.
	var tr prooftracer.Tracer = prooftracer.NewOTel()
	if cfg.Tracing == "off" {
		tr = prooftracer.NewNoop()
	}

	walletAgent := agent.NewHTTPAgent(ctx, cfg.AgentURL, agent.WithLogger(log))
	proofSvc, err := proofservice.New(walletAgent, zk.NewMiMCHasher(), proofservice.NewMemoryNonceSource(),
		proofservice.WithLogger(log),
		proofservice.WithMetrics(proofmetrics.New()),
		proofservice.WithTracer(tr),
		proofservice.WithCallOptions(callOpts),
	)
	if err != nil {
		log.Error("proof service init failed", "error", err)
		os.Exit(1)
	}

	tokens := appauth.NewTokenService(cfg.JWTSigningKey, "persona", time.Hour)

	credentialHandler, err := credhandler.New(credentialSvc, bus, log)
	if err != nil {
		log.Error("credential handler init failed", "error", err)
		os.Exit(1)
	}

	probes := health.New(os.Getenv("PERSONA_ENV"))
	probes.RegisterCheck("wallet_agent", func() error {
		if len(walletAgent.Capabilities()) == 0 {
			return errors.New("no capabilities discovered")
		}
		return nil
	})

	router := httptransport.NewRouter(log, request.NewMetrics(),
		probes,
		sessionhandler.New(sessionSvc, log),
		credentialHandler,
		proofhandler.New(proofSvc, tokens, log),
	)

	sweeper, err := expiry.New(credentialSvc, sessions,
		expiry.WithInterval(cfg.ExpirySweep),
		expiry.WithLogger(log),
	)
	if err != nil {
		log.Error("expiry worker init failed", "error", err)
		os.Exit(1)
	}
	go sweeper.Start(ctx)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("starting http server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down server gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped")
}
