package center

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"arbiter-hq/arbiter/pkg/decision"
	"arbiter-hq/arbiter/pkg/decision/chain"
	"arbiter-hq/arbiter/pkg/engine"
	"arbiter-hq/arbiter/pkg/rules/source"
	"arbiter-hq/arbiter/pkg/telemetry/metrics"
)

// Diagnostic rule ids injected when the rule group cannot be evaluated.
const (
	// DiagnosticGroupUnavailable marks a decision escalated because the
	// requested group does not exist in the rule store.
	DiagnosticGroupUnavailable = "unreachable_or_missing_group"

	// DiagnosticStoreUnreachable marks a decision escalated because the
	// rule store itself could not be consulted.
	DiagnosticStoreUnreachable = "rule_store_unreachable"
)

// Approval status tokens recorded in APPROVAL_STATUS chain events.
const (
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
)

// Service coordinates rule fetching, evaluation, chain recording, and the
// pending-approval queue. It is safe for concurrent use.
type Service struct {
	source  source.Source
	engine  *engine.Engine
	store   chain.Store
	metrics *metrics.Collector
	logger  *slog.Logger
}

// New creates a decision service. The metrics collector may be nil.
func New(src source.Source, eng *engine.Engine, store chain.Store, collector *metrics.Collector) *Service {
	return &Service{
		source:  src,
		engine:  eng,
		store:   store,
		metrics: collector,
		logger:  slog.Default().With("component", "center"),
	}
}

// Decide evaluates one request context against the named rule group and
// records the full decision chain. It returns an error only when the chain
// store fails; evaluation problems surface as fail-closed outcomes inside
// the returned decision, never as errors.
//
// An empty groupID means no policy applies and the decision is ALLOW with
// no fired rules. A missing or unreachable group escalates with a
// diagnostic firing, because an unavailable policy must not silently
// allow.
func (s *Service) Decide(ctx context.Context, description string, reqCtx map[string]any, groupID string) (*decision.Decision, error) {
	requestID := uuid.NewString()
	start := time.Now()

	if err := s.store.LogEvent(ctx, requestID, decision.EventRequest, map[string]any{
		"description": description,
		"context":     reqCtx,
		"group_id":    groupID,
	}); err != nil {
		return nil, err
	}
	s.recordEvent(decision.EventRequest)

	result := s.evaluate(ctx, groupID, reqCtx)

	dec := &decision.Decision{
		RequestID:      requestID,
		Outcome:        result.Outcome,
		MatchedRules:   result.RuleIDs(),
		MatchedDetails: result.Matched,
		Timestamp:      time.Now().UTC(),
	}

	if err := s.store.LogEvent(ctx, requestID, decision.EventEvaluation, map[string]any{
		"outcome":       string(dec.Outcome),
		"matched_rules": dec.MatchedRules,
	}); err != nil {
		return nil, err
	}
	s.recordEvent(decision.EventEvaluation)

	if dec.Outcome == decision.OutcomeEscalate {
		err := s.store.EnqueuePending(ctx, requestID, decision.PendingEntry{
			RequestID:   requestID,
			Description: description,
			Context:     reqCtx,
			EnqueuedAt:  time.Now().UTC(),
		})
		if err != nil {
			return nil, err
		}
		if s.metrics != nil {
			s.metrics.Chain().PendingEnqueued()
		}
	}

	if s.metrics != nil {
		s.metrics.Evaluation().RecordEvaluation(string(dec.Outcome), time.Since(start))
		for _, m := range result.Matched {
			s.metrics.Evaluation().RecordRuleHit(m.RuleID, string(m.HitType))
			if m.FailClosed {
				s.metrics.Evaluation().RecordFailClosed(m.FailReason)
			}
		}
	}

	s.logger.Info("decision made",
		"request_id", requestID,
		"group_id", groupID,
		"outcome", dec.Outcome,
		"matched_rules", dec.MatchedRules,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return dec, nil
}

// evaluate fetches the group and runs the engine, converting fetch
// failures into fail-closed diagnostic results.
func (s *Service) evaluate(ctx context.Context, groupID string, reqCtx map[string]any) *engine.GroupResult {
	if groupID == "" {
		return &engine.GroupResult{Outcome: decision.OutcomeAllow}
	}

	group, err := s.source.FetchGroup(ctx, groupID)
	if err != nil {
		return s.fetchFailure(groupID, err)
	}

	return s.engine.Decide(ctx, group, reqCtx)
}

func (s *Service) fetchFailure(groupID string, err error) *engine.GroupResult {
	ruleID := DiagnosticGroupUnavailable
	kind := "not_found"
	var unreachable *source.UnreachableError
	if errors.As(err, &unreachable) {
		ruleID = DiagnosticStoreUnreachable
		kind = "unreachable"
	}

	s.logger.Warn("rule group unavailable, escalating",
		"group_id", groupID,
		"error", err,
	)
	if s.metrics != nil {
		s.metrics.Evaluation().RecordFetchFailure(kind)
	}

	return &engine.GroupResult{
		Outcome: decision.OutcomeEscalate,
		Matched: []decision.MatchedRule{{
			RuleID:     ruleID,
			RuleName:   ruleID,
			HitType:    decision.HitDiagnostic,
			Outcome:    decision.OutcomeEscalate,
			FailClosed: true,
			FailReason: "group_fetch_" + kind,
		}},
	}
}

// Resolve records a human approval or rejection for a pending decision.
// It returns true when this call resolved the decision. Resolving a
// decision that is not pending is a no-op returning false, so duplicate
// approvals do not grow the chain. A decision id with no chain at all
// yields decision.ErrNotFound.
func (s *Service) Resolve(ctx context.Context, requestID string, approved bool, approver string) (bool, error) {
	if _, err := s.store.GetChain(ctx, requestID); err != nil {
		return false, err
	}

	resolved, err := s.store.ResolvePending(ctx, requestID)
	if err != nil {
		return false, err
	}
	if !resolved {
		return false, nil
	}

	status := StatusRejected
	if approved {
		status = StatusApproved
	}
	if err := s.store.LogEvent(ctx, requestID, decision.EventApprovalStatus, map[string]any{
		"status":   status,
		"approver": approver,
	}); err != nil {
		return false, err
	}
	s.recordEvent(decision.EventApprovalStatus)
	if s.metrics != nil {
		s.metrics.Chain().PendingResolved(status)
	}

	s.logger.Info("pending decision resolved",
		"request_id", requestID,
		"status", status,
		"approver", approver,
	)
	return true, nil
}

// ListPending returns all decisions awaiting approval.
func (s *Service) ListPending(ctx context.Context) ([]decision.PendingEntry, error) {
	return s.store.ListPending(ctx)
}

// GetChain returns the chain for one decision id.
func (s *Service) GetChain(ctx context.Context, requestID string) (*decision.Chain, error) {
	return s.store.GetChain(ctx, requestID)
}

// ListChains returns all decision chains.
func (s *Service) ListChains(ctx context.Context) ([]*decision.Chain, error) {
	return s.store.ListChains(ctx)
}

func (s *Service) recordEvent(t decision.EventType) {
	if s.metrics != nil {
		s.metrics.Chain().RecordEvent(string(t))
	}
}
