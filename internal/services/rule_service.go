package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	"fintrack/internal/ledger"
	applog "fintrack/internal/log"
)

// RuleService owns the recurring-adjustment rules with the same wholesale
// load-mutate-replace pattern as LedgerService.
type RuleService struct {
	store     ledger.RuleStore
	reg       core.Registry
	publisher ChangePublisher
}

func NewRuleService(store ledger.RuleStore, reg core.Registry, publisher ChangePublisher) *RuleService {
	return &RuleService{store: store, reg: reg, publisher: publisher}
}

// List returns all rules in stored order.
func (s *RuleService) List(ctx context.Context) ([]core.Rule, error) {
	return s.store.LoadRules(ctx)
}

// Create validates and appends a rule, assigning it a fresh ID.
func (s *RuleService) Create(ctx context.Context, rule core.Rule) (core.Rule, error) {
	if err := rule.Validate(s.reg); err != nil {
		return core.Rule{}, fmt.Errorf("validate rule: %w", err)
	}

	rule.ID = uuid.NewString()
	rules, err := s.store.LoadRules(ctx)
	if err != nil {
		return core.Rule{}, fmt.Errorf("load rules: %w", err)
	}
	rules = append(rules, rule)
	if err := s.store.ReplaceRules(ctx, rules); err != nil {
		return core.Rule{}, fmt.Errorf("replace rules: %w", err)
	}

	slog.InfoContext(ctx, "Rule created",
		applog.FieldRuleID, rule.ID, applog.FieldAccount, rule.Account)
	s.publish(ctx, amqp.ScopeRules)
	return rule, nil
}

// Update replaces the rule with the given ID in place.
func (s *RuleService) Update(ctx context.Context, id string, rule core.Rule) (core.Rule, error) {
	if err := rule.Validate(s.reg); err != nil {
		return core.Rule{}, fmt.Errorf("validate rule: %w", err)
	}

	rules, err := s.store.LoadRules(ctx)
	if err != nil {
		return core.Rule{}, fmt.Errorf("load rules: %w", err)
	}

	found := false
	for i := range rules {
		if rules[i].ID == id {
			rule.ID = id
			rules[i] = rule
			found = true
			break
		}
	}
	if !found {
		return core.Rule{}, fmt.Errorf("rule %q: %w", id, ErrNotFound)
	}

	if err := s.store.ReplaceRules(ctx, rules); err != nil {
		return core.Rule{}, fmt.Errorf("replace rules: %w", err)
	}

	slog.InfoContext(ctx, "Rule updated",
		applog.FieldRuleID, id, applog.FieldAccount, rule.Account)
	s.publish(ctx, amqp.ScopeRules)
	return rule, nil
}

// Delete removes the rule with the given ID.
func (s *RuleService) Delete(ctx context.Context, id string) error {
	rules, err := s.store.LoadRules(ctx)
	if err != nil {
		return fmt.Errorf("load rules: %w", err)
	}

	kept := rules[:0]
	found := false
	for _, rule := range rules {
		if rule.ID == id {
			found = true
			continue
		}
		kept = append(kept, rule)
	}
	if !found {
		return fmt.Errorf("rule %q: %w", id, ErrNotFound)
	}

	if err := s.store.ReplaceRules(ctx, kept); err != nil {
		return fmt.Errorf("replace rules: %w", err)
	}

	slog.InfoContext(ctx, "Rule deleted", applog.FieldRuleID, id)
	s.publish(ctx, amqp.ScopeRules)
	return nil
}

func (s *RuleService) publish(ctx context.Context, scope string) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishLedgerChanged(ctx, scope); err != nil {
		slog.WarnContext(ctx, "Failed to publish rule change", "scope", scope, "error", err)
	}
}
