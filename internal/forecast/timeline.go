package forecast

import (
	"sort"

	"fintrack/internal/core"
)

// Timeline expands a sparse event sequence into the dense display timeline.
// Display days are every event's date plus the day immediately before it,
// deduplicated and sorted ascending. Non-event days carry the nearest
// preceding event's balances forward (or the latest snapshot's, before any
// event) with no event label. The converted-currency and total fields are
// recomputed on every row from that row's raw fields, never trusted from
// upstream. An empty event sequence yields an empty timeline.
func (e *Engine) Timeline(events []core.Event, latest core.Snapshot) []core.TimelineRow {
	if len(events) == 0 {
		return nil
	}

	display := make(map[string]struct{}, len(events)*2)
	// With several events on one day the row shows the day's final state.
	finalByDay := make(map[string]core.Event, len(events))
	for _, ev := range events {
		display[ev.Date.String()] = struct{}{}
		display[ev.Date.AddDays(-1).String()] = struct{}{}
		finalByDay[ev.Date.String()] = ev
	}

	days := make([]string, 0, len(display))
	for d := range display {
		days = append(days, d)
	}
	sort.Strings(days)

	first, err := core.ParseDate(days[0])
	if err != nil {
		return nil
	}
	last, err := core.ParseDate(days[len(days)-1])
	if err != nil {
		return nil
	}

	prev := make(core.Values, len(e.reg.Fields()))
	for _, f := range e.reg.Fields() {
		prev[f.Name] = latest.Values.Get(f.Name)
	}

	rows := make([]core.TimelineRow, 0, len(days))
	for d := first; !d.After(last); d = d.AddDays(1) {
		key := d.String()
		label := ""
		if ev, ok := finalByDay[key]; ok {
			prev = ev.Values.Clone()
			label = ev.Description
		}
		if _, show := display[key]; !show {
			continue
		}
		row := core.TimelineRow{Date: d, Event: label, Values: prev.Clone()}
		e.reg.Recompute(row.Values)
		rows = append(rows, row)
	}
	return rows
}
