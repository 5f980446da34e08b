package sheets

import (
	"context"

	"fintrack/internal/core"
)

// TimelineWriter pushes a materialized forecast timeline to a spreadsheet.
// Implementations replace the sheet contents wholesale on every call.
type TimelineWriter interface {
	WriteTimeline(ctx context.Context, rows []core.TimelineRow) error
}
