// Package service orchestrates access-proof requests: it gathers the holder's
// stamp records from the wallet agent, checks the score threshold locally,
// derives the nullifier and slot commitment, and asks the agent to execute the
// proving transition. The requesting application only ever sees the resulting
// proof artifact.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"persona/internal/agent"
	"persona/internal/proof/metrics"
	"persona/internal/proof/models"
	"persona/internal/proof/tracer"
	"persona/internal/stamps"
	"persona/internal/zk"
	dErrors "persona/pkg/domain-errors"
)

// Service executes the proof request flow end to end.
type Service struct {
	agent   agent.Agent
	hasher  zk.Hasher
	nonces  NonceSource
	callOpt agent.CallOptions
	tracer  tracer.Tracer
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// Option configures the Service.
type Option func(*Service)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithTracer sets the tracer.
func WithTracer(t tracer.Tracer) Option {
	return func(s *Service) { s.tracer = t }
}

// WithMetrics sets the metrics collectors.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithCallOptions sets the agent call policy.
func WithCallOptions(o agent.CallOptions) Option {
	return func(s *Service) { s.callOpt = o }
}

// New creates a proof Service.
func New(ag agent.Agent, hasher zk.Hasher, nonces NonceSource, opts ...Option) (*Service, error) {
	if ag == nil {
		return nil, fmt.Errorf("agent is required")
	}
	if hasher == nil {
		return nil, fmt.Errorf("hasher is required")
	}
	if nonces == nil {
		return nil, fmt.Errorf("nonce source is required")
	}
	s := &Service{
		agent:   ag,
		hasher:  hasher,
		nonces:  nonces,
		callOpt: agent.DefaultCallOptions,
		tracer:  tracer.NewNoop(),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// RequestAccessProof proves that the holder identified by ownerRef meets the
// requester's score threshold. A holder that cannot meet the threshold gets
// {Valid: false} with a nil error; the transition is never executed, so the
// nullifier is not consumed. Errors carry domain codes: user_rejected when the
// holder declines the wallet prompt, replay_rejected when the ledger has seen
// the nullifier, agent_unavailable or transient for infrastructure failures.
func (s *Service) RequestAccessProof(ctx context.Context, ownerRef string, req models.ProofRequest) (models.ProofResponse, error) {
	started := time.Now()
	ctx, span := s.tracer.Start(ctx, tracer.SpanProofRequest,
		tracer.String(tracer.AttrAppID, req.AppID),
		tracer.Int64(tracer.AttrMinScore, int64(req.MinScore)),
		tracer.Bool(tracer.AttrOnChain, req.OnChain),
	)

	resp, err := s.requestAccessProof(ctx, ownerRef, req)

	span.SetAttributes(tracer.Bool(tracer.AttrValid, resp.Valid))
	span.End(err)
	if s.metrics != nil {
		s.metrics.ProofDurationMs.Observe(float64(time.Since(started).Milliseconds()))
		s.metrics.ProofRequests.WithLabelValues(outcomeLabel(resp, err)).Inc()
		if err != nil {
			s.metrics.ProofFailures.WithLabelValues(string(dErrors.GetCode(err))).Inc()
			if dErrors.HasCode(err, dErrors.CodeReplayRejected) {
				s.metrics.ReplayRejections.Inc()
			}
		}
	}
	return resp, err
}

func (s *Service) requestAccessProof(ctx context.Context, ownerRef string, req models.ProofRequest) (models.ProofResponse, error) {
	fetchCtx, fetchSpan := s.tracer.Start(ctx, tracer.SpanRecordFetch)
	records, err := agent.FetchStampRecords(fetchCtx, s.agent, req.Program, s.callOpt)
	fetchSpan.End(err)
	if err != nil {
		if s.metrics != nil {
			s.metrics.AgentCallFailures.Inc()
		}
		s.logger.Error("stamp record fetch failed", "app_id", req.AppID, "error", err)
		return models.ProofResponse{}, err
	}

	held := make([]stamps.StampRecord, 0, len(records))
	for _, r := range records {
		held = append(held, stamps.StampRecord{
			OwnerRef: r.Owner,
			StampID:  r.StampID,
			Points:   r.Points,
			Issuer:   r.Issuer,
		})
	}

	// Checking the threshold locally before proving spares the holder a wallet
	// prompt and keeps the nullifier unconsumed when the proof cannot succeed.
	if !stamps.CanMeetScoreRequirement(held, req.MinScore) {
		s.logger.Info("score below requested threshold", "app_id", req.AppID, "stamps", len(held))
		return models.ProofResponse{Valid: false}, nil
	}

	prepared := stamps.PrepareForProof(held, stamps.DefaultMaxSlots)
	slotIDs := stamps.SlotIDs(prepared)

	_, nullSpan := s.tracer.Start(ctx, tracer.SpanNullifier,
		tracer.Int64(tracer.AttrSlotCount, int64(len(prepared))))
	nonce, err := s.nonces.Nonce(ctx, ownerRef)
	if err != nil {
		nullSpan.End(err)
		return models.ProofResponse{}, dErrors.Wrap(err, dErrors.CodeInternal, "nonce derivation failed")
	}
	nullifier := s.hasher.Nullifier(nonce, req.AppID)
	slotCommitment := s.hasher.StampsCommitment(slotIDs)
	nullSpan.End(nil)

	tx := agent.Transaction{
		Program:   req.Program,
		Function:  req.Function,
		Inputs:    transitionInputs(slotIDs, req.MinScore, nullifier, slotCommitment),
		Broadcast: req.OnChain,
	}

	txCtx, txSpan := s.tracer.Start(ctx, tracer.SpanTransaction,
		tracer.Bool(tracer.AttrOnChain, req.OnChain))
	result, err := agent.Call(txCtx, "prove access transition", s.callOpt,
		func(ctx context.Context) (agent.TransactionResult, error) {
			return s.agent.RequestTransaction(ctx, tx)
		})
	txSpan.End(err)
	if err != nil {
		if s.metrics != nil {
			s.metrics.AgentCallFailures.Inc()
		}
		s.logger.Error("prove access transition failed",
			"app_id", req.AppID, "on_chain", req.OnChain, "error", err)
		return models.ProofResponse{}, err
	}

	s.logger.Info("access proof generated",
		"app_id", req.AppID, "on_chain", req.OnChain, "transaction_id", result.TransactionID)
	return models.ProofResponse{
		Proof:         result.Proof,
		Nullifier:     nullifier,
		Valid:         true,
		TransactionID: result.TransactionID,
	}, nil
}

// transitionInputs lays out the transition's input vector in the order the
// ledger program declares: the five slot IDs, the threshold, the nullifier,
// and the slot commitment.
func transitionInputs(slotIDs [stamps.DefaultMaxSlots]uint64, minScore uint64, nullifier, slotCommitment string) []string {
	inputs := make([]string, 0, stamps.DefaultMaxSlots+3)
	for _, id := range slotIDs {
		inputs = append(inputs, strconv.FormatUint(id, 10)+"u64")
	}
	inputs = append(inputs,
		strconv.FormatUint(minScore, 10)+"u64",
		nullifier,
		slotCommitment,
	)
	return inputs
}

func outcomeLabel(resp models.ProofResponse, err error) string {
	switch {
	case err == nil && resp.Valid:
		return "proved"
	case err == nil:
		return "below_threshold"
	case dErrors.HasCode(err, dErrors.CodeReplayRejected):
		return "replay_rejected"
	case dErrors.HasCode(err, dErrors.CodeUserRejected):
		return "user_rejected"
	default:
		return "error"
	}
}
