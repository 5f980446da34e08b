// Package worker pushes recomputed forecast timelines to Google Sheets
// whenever the ledger changes.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"fintrack/internal/amqp"
	applog "fintrack/internal/log"
	"fintrack/internal/services"
	"fintrack/internal/sheets"
)

// ChangeConsumer delivers ledger-changed messages to a handler until the
// context is cancelled or the underlying connection fails.
type ChangeConsumer interface {
	ConsumeLedgerChanges(ctx context.Context, handler func(context.Context, *amqp.LedgerChangedMessage) error) error
}

// ForecastWorker reacts to ledger-changed messages: it drops the stale
// cached timelines, reprojects, and rewrites the forecast sheet.
type ForecastWorker struct {
	forecast *services.ForecastService
	writer   sheets.TimelineWriter
	months   int
}

func NewForecastWorker(forecast *services.ForecastService, writer sheets.TimelineWriter, months int) *ForecastWorker {
	return &ForecastWorker{
		forecast: forecast,
		writer:   writer,
		months:   months,
	}
}

// Run consumes change messages and resyncs on a timer until ctx is
// cancelled. It returns as soon as either loop fails, so a dropped broker
// connection surfaces to the caller instead of leaving a worker that only
// ticks.
func (w *ForecastWorker) Run(ctx context.Context, consumer ChangeConsumer, resyncInterval time.Duration) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return consumer.ConsumeLedgerChanges(gctx, w.HandleLedgerChanged)
	})

	g.Go(func() error {
		ticker := time.NewTicker(resyncInterval)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return gctx.Err()
			case <-ticker.C:
				if err := w.Resync(gctx); err != nil {
					slog.ErrorContext(gctx, "Periodic resync failed", applog.FieldError, err)
				}
			}
		}
	})

	return g.Wait()
}

// HandleLedgerChanged processes one ledger-changed message. Returning an
// error nacks the message back onto the queue for redelivery.
func (w *ForecastWorker) HandleLedgerChanged(ctx context.Context, msg *amqp.LedgerChangedMessage) error {
	slog.InfoContext(ctx, "Processing ledger change",
		"scope", msg.Scope,
		"changed_at", msg.Timestamp)

	w.forecast.Invalidate()
	return w.push(ctx)
}

// Resync recomputes and pushes the timeline unconditionally. Run on startup
// and on a timer so the sheet heals after missed messages.
func (w *ForecastWorker) Resync(ctx context.Context) error {
	w.forecast.Invalidate()
	return w.push(ctx)
}

func (w *ForecastWorker) push(ctx context.Context) error {
	rows, err := w.forecast.Timeline(ctx, w.months)
	if err != nil {
		return fmt.Errorf("compute timeline: %w", err)
	}

	if err := w.writer.WriteTimeline(ctx, rows); err != nil {
		return fmt.Errorf("write timeline to sheets: %w", err)
	}

	slog.InfoContext(ctx, "Forecast pushed to sheets",
		applog.FieldRowCount, len(rows),
		applog.FieldMonthsAhead, w.months)
	return nil
}
