package transform

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"traininghours/internal/metrics"
	"traininghours/storage"
)

// RunJournal persists run outcomes.
type RunJournal interface {
	InsertRun(ctx context.Context, run storage.Run) error
}

// Service wraps Run with the optional run journal and metrics.
type Service struct {
	options Options
	journal RunJournal
	metrics *metrics.Recorder
	now     func() time.Time
}

func NewService(options Options, journal RunJournal, recorder *metrics.Recorder) *Service {
	return &Service{options: options, journal: journal, metrics: recorder, now: time.Now}
}

// Run executes one transform. Journal failures are logged and never change
// the returned Result.
func (s *Service) Run(ctx context.Context, src, dest string) Result {
	started := s.now()
	result := Run(src, dest, s.options)
	elapsed := s.now().Sub(started)

	s.metrics.ObserveRun(string(result.Status), result.RowCount, len(result.Warnings), elapsed)

	if s.journal == nil {
		return result
	}

	run := storage.Run{
		ID:           uuid.NewString(),
		StartedAt:    started,
		Source:       src,
		Destination:  dest,
		Status:       string(result.Status),
		RowCount:     result.RowCount,
		WarningCount: len(result.Warnings),
	}
	if result.Output != "" {
		run.Destination = result.Output
	}
	if len(result.Errors) > 0 {
		run.Error = result.Errors[0]
	}
	if err := s.journal.InsertRun(ctx, run); err != nil && s.options.Logger != nil {
		s.options.Logger.Warn("could not journal transform run", slog.String("run_id", run.ID), slog.Any("error", err))
	}
	return result
}
