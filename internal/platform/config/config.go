package config

import (
	"os"
	"time"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr           string
	AgentURL       string
	VerifierURL    string
	JWTSigningKey  string
	Tracing        string
	AgentTimeout   time.Duration
	AgentRetries   int
	AgentRetryWait time.Duration
	SessionTimeout time.Duration
	ExpirySweep    time.Duration
}

// SessionRetention enforces transient retention for verification sessions.
var SessionRetention = 60 * time.Second

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("PERSONA_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	agentURL := os.Getenv("PERSONA_AGENT_URL")
	if agentURL == "" {
		agentURL = "http://localhost:9090"
	}

	verifierURL := os.Getenv("PERSONA_VERIFIER_URL")
	if verifierURL == "" {
		verifierURL = "http://localhost:9091"
	}

	jwtSigningKey := os.Getenv("PERSONA_JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Use a default for development - should be overridden in production
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	cfg := Server{
		Addr:           addr,
		AgentURL:       agentURL,
		VerifierURL:    verifierURL,
		JWTSigningKey:  jwtSigningKey,
		Tracing:        os.Getenv("PERSONA_TRACING"),
		AgentTimeout:   30 * time.Second,
		AgentRetries:   3,
		AgentRetryWait: 2 * time.Second,
		SessionTimeout: 60 * time.Second,
		ExpirySweep:    time.Hour,
	}

	if v := os.Getenv("PERSONA_AGENT_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.AgentTimeout = d
		}
	}
	if v := os.Getenv("PERSONA_SESSION_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.SessionTimeout = d
		}
	}
	if v := os.Getenv("PERSONA_EXPIRY_SWEEP"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.ExpirySweep = d
		}
	}

	return cfg
}
