package services

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"fintrack/internal/cache"
	"fintrack/internal/core"
	"fintrack/internal/forecast"
	"fintrack/internal/ledger"
)

// ForecastService runs the projection engine over the current ledger and
// caches materialized timelines per horizon. The cache is purged whenever an
// edit comes through, so a ledger change is always visible on the next read.
type ForecastService struct {
	store  ledger.Store
	engine *forecast.Engine
	cache  *cache.LRUCache[[]core.TimelineRow]
}

func NewForecastService(store ledger.Store, engine *forecast.Engine, ttl time.Duration) *ForecastService {
	return &ForecastService{
		store:  store,
		engine: engine,
		cache:  cache.NewLRUCache[[]core.TimelineRow](16, ttl),
	}
}

// Registry exposes the field registry the engine projects over.
func (s *ForecastService) Registry() core.Registry {
	return s.engine.Registry()
}

// Timeline projects monthsAhead months past the latest snapshot and returns
// the dense display timeline. An empty ledger yields an empty timeline, not
// an error.
func (s *ForecastService) Timeline(ctx context.Context, monthsAhead int) ([]core.TimelineRow, error) {
	key := strconv.Itoa(monthsAhead)
	if rows, ok := s.cache.Get(key); ok {
		return rows, nil
	}

	snapshots, err := s.store.LoadSnapshots(ctx)
	if err != nil {
		return nil, fmt.Errorf("load snapshots: %w", err)
	}
	latest, ok := core.Latest(snapshots)
	if !ok {
		return nil, nil
	}
	rules, err := s.store.LoadRules(ctx)
	if err != nil {
		return nil, fmt.Errorf("load rules: %w", err)
	}

	events := s.engine.Project(latest, rules, monthsAhead)
	rows := s.engine.Timeline(events, latest)
	s.cache.Set(key, rows)
	return rows, nil
}

// Summaries renders a sentence per rule, skipping zero-amount rules since
// they never produce a visible event.
func (s *ForecastService) Summaries(ctx context.Context) ([]string, error) {
	rules, err := s.store.LoadRules(ctx)
	if err != nil {
		return nil, fmt.Errorf("load rules: %w", err)
	}
	reg := s.engine.Registry()
	out := make([]string, 0, len(rules))
	for _, rule := range rules {
		if rule.Amount.IsZero() {
			continue
		}
		out = append(out, rule.Summary(reg))
	}
	return out, nil
}

// Invalidate drops every cached timeline.
func (s *ForecastService) Invalidate() {
	s.cache.Purge()
}
