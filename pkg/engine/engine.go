package engine

import (
	"context"
	"errors"
	"log/slog"

	"arbiter-hq/arbiter/pkg/decision"
	"arbiter-hq/arbiter/pkg/expr/eval"
	"arbiter-hq/arbiter/pkg/rules"
)

// GroupResult is the outcome of evaluating one context against one group,
// before any chain bookkeeping.
type GroupResult struct {
	// Outcome is the final outcome after most-restrictive-wins resolution.
	Outcome decision.Outcome

	// Matched holds one entry per rule firing, with provenance.
	Matched []decision.MatchedRule
}

// RuleIDs returns the ids of all fired rules, in firing order.
func (r *GroupResult) RuleIDs() []string {
	ids := make([]string, 0, len(r.Matched))
	for _, m := range r.Matched {
		ids = append(ids, m.RuleID)
	}
	return ids
}

// Engine is the rule-set evaluator. It is stateless and safe for
// concurrent use.
type Engine struct {
	config    *Config
	evaluator *eval.Evaluator
	resolver  *Resolver
	logger    *slog.Logger
}

// New creates a rule-set engine.
func New(config *Config) *Engine {
	if config == nil {
		config = DefaultConfig()
	}
	return &Engine{
		config:    config,
		evaluator: eval.New(config.FailPolicy),
		resolver:  NewResolver(config.SimilarityThreshold),
		logger:    slog.Default().With("component", "engine"),
	}
}

// Decide evaluates every rule of the group against the context, in stored
// order, and reduces the fired outcomes under the restrictiveness order.
// It never fails: a malformed rule contributes NoMatch, and unsafe
// evaluations arrive pre-converted to fail-closed outcomes by the
// expression evaluator.
func (e *Engine) Decide(ctx context.Context, group *rules.Group, reqCtx map[string]any) *GroupResult {
	result := &GroupResult{Outcome: decision.OutcomeAllow}
	if group == nil {
		return result
	}

	for i := range group.Rules {
		rule := &group.Rules[i]
		if hit, ok := e.evaluateRule(rule, reqCtx); ok {
			result.Matched = append(result.Matched, hit)
		}
	}

	outcomes := make([]decision.Outcome, len(result.Matched))
	for i, m := range result.Matched {
		outcomes[i] = m.Outcome
	}
	result.Outcome = decision.MostRestrictive(outcomes)

	e.logger.Debug("group evaluated",
		"group_id", group.ID,
		"fired", len(result.Matched),
		"outcome", result.Outcome,
	)

	return result
}

// evaluateRule evaluates one rule: overrides first (first non-NoMatch
// override short-circuits), then the primary condition. The second return
// value is false when the rule contributed nothing.
func (e *Engine) evaluateRule(rule *rules.Rule, reqCtx map[string]any) (decision.MatchedRule, bool) {
	for _, override := range rule.Overrides() {
		if hit, ok := e.evaluateCondition(rule, override, decision.HitOverride, reqCtx); ok {
			return hit, true
		}
	}

	return e.evaluateCondition(rule, rule.Primary(), decision.HitPrimary, reqCtx)
}

// evaluateCondition resolves variables and evaluates a single condition.
func (e *Engine) evaluateCondition(rule *rules.Rule, cond rules.Condition, hitType decision.HitType, reqCtx map[string]any) (decision.MatchedRule, bool) {
	if cond.Empty() {
		return decision.MatchedRule{}, false
	}

	tree, err := cond.Tree()
	if err != nil {
		// A broken rule is NoMatch, not an error: it must neither become
		// permissive nor crash evaluation of the rest of the group.
		if errors.Is(err, rules.ErrMalformedCondition) {
			e.logger.Warn("skipping malformed rule condition",
				"rule_id", rule.ID,
				"rule_name", rule.Name,
				"hit_type", hitType,
				"expression", cond.Source(),
			)
		}
		return decision.MatchedRule{}, false
	}

	resolved := e.resolver.Resolve(tree, reqCtx)

	res := e.evaluator.Evaluate(tree, resolved)
	if !res.Matched {
		return decision.MatchedRule{}, false
	}

	if res.FailClosed {
		e.logger.Info("condition failed closed",
			"rule_id", rule.ID,
			"hit_type", hitType,
			"reason", res.FailReason,
			"outcome", res.Outcome,
		)
	}

	return decision.MatchedRule{
		RuleID:            rule.ID,
		RuleName:          rule.Name,
		HitType:           hitType,
		TriggerExpression: cond.Source(),
		Outcome:           res.Outcome,
		FailClosed:        res.FailClosed,
		FailReason:        string(res.FailReason),
	}, true
}
