// Package forecast implements the prediction core: projecting future account
// events from recurring rules, and expanding them into a display timeline.
package forecast

import (
	"fintrack/internal/core"
)

// Engine projects future account states. It is a pure function holder over
// the injected field registry; no state is shared across invocations.
type Engine struct {
	reg core.Registry
}

// New returns an engine bound to the given field registry.
func New(reg core.Registry) *Engine {
	return &Engine{reg: reg}
}

// Registry returns the engine's field registry.
func (e *Engine) Registry() core.Registry {
	return e.reg
}

// Project walks calendar days strictly after latest.Date, up to monthsAhead
// calendar months ahead, and emits one event per matching nonzero rule in
// chronological order. Rules are evaluated in input order with state carried
// cumulatively, so several rules matching the same day each produce their own
// event. A zero-amount rule is still applied to the running balances but
// never emits an event. Invalid day/month combinations (Feb 30, Apr 31) are
// silently skipped. Output is deterministic for identical inputs.
func (e *Engine) Project(latest core.Snapshot, rules []core.Rule, monthsAhead int) []core.Event {
	if monthsAhead <= 0 || latest.Date.IsZero() || len(rules) == 0 {
		return nil
	}

	// Seed running balances from the snapshot; fields it lacks read as zero.
	values := make(core.Values, len(e.reg.Fields()))
	for _, f := range e.reg.Fields() {
		values[f.Name] = latest.Values.Get(f.Name)
	}

	end := latest.Date.AddMonths(monthsAhead)
	year, month := latest.Date.Year(), latest.Date.Month()

	var events []core.Event
	for m := 0; m <= monthsAhead; m++ {
		for day := 1; day <= 31; day++ {
			d := core.NewDate(year, month, day)
			if d.Day() != day || d.Month() != month {
				// Nonexistent calendar day; time.Date rolled it over.
				continue
			}
			if !d.After(latest.Date) || d.After(end) {
				continue
			}
			for _, r := range rules {
				if !r.Matches(d) {
					continue
				}
				values[r.Account] = values.Get(r.Account).Add(r.Signed())
				e.reg.Convert(values)
				if r.Amount.IsZero() {
					// Administrative placeholder: applied, never shown.
					continue
				}
				ev := core.Event{
					Date:        d,
					Description: r.Description,
					Values:      values.Clone(),
				}
				ev.Values[e.reg.TotalField()] = e.reg.Total(ev.Values)
				events = append(events, ev)
			}
		}
		month++
		if month > 12 {
			month = 1
			year++
		}
	}
	return events
}
