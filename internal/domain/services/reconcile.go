package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/francesco-c/acceptance-filler/internal/domain/entities"
	"github.com/francesco-c/acceptance-filler/internal/infrastructure/metrics"
)

// ReconcileResult summarizes one run.
type ReconcileResult struct {
	Processed int // persons looked up in this run
	Skipped   int // persons already present in a resumed output
	Matched   int
	Periods   int // periods written to the report
	Truncated int // periods dropped beyond the cap
	Written   int // data rows persisted in the output, resumed rows included
}

// ReconcileService runs the match, flatten, accumulate pipeline one person
// at a time.
type ReconcileService struct {
	matcher *MatchService
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// Option configures a ReconcileService.
type Option func(s *ReconcileService)

// WithLogger sets the logger. The default discards output.
func WithLogger(logger *slog.Logger) Option {
	return func(s *ReconcileService) {
		s.logger = logger
	}
}

// WithMetrics sets the run metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *ReconcileService) {
		s.metrics = m
	}
}

// NewReconcileService creates a new reconcile service.
func NewReconcileService(matcher *MatchService, opts ...Option) *ReconcileService {
	s := &ReconcileService{
		matcher: matcher,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// MaxPeriods returns the number of period groups in each report row.
func (s *ReconcileService) MaxPeriods() int {
	return s.matcher.MaxPeriods()
}

// Validate checks that every person can be looked up with the configured
// options. It queries nothing.
func (s *ReconcileService) Validate(persons []entities.Person) error {
	for _, p := range persons {
		if err := s.matcher.Validate(p); err != nil {
			return fmt.Errorf("person %d: %w", p.ID(), err)
		}
	}
	return nil
}

// Run processes persons in order, skipping the first skip of them, and
// flushes acc. All persons are validated before the first lookup. Any
// error aborts the run.
func (s *ReconcileService) Run(ctx context.Context, persons []entities.Person, acc *Accumulator, skip int) (*ReconcileResult, error) {
	if skip > len(persons) {
		return nil, fmt.Errorf("output already holds %d rows but input has %d persons", skip, len(persons))
	}
	if err := s.Validate(persons[skip:]); err != nil {
		return nil, err
	}

	result := &ReconcileResult{Skipped: skip}
	maxPeriods := s.matcher.MaxPeriods()

	for i, p := range persons[skip:] {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("reconcile interrupted after %d persons: %w", i, err)
		}

		match, err := s.matcher.Match(ctx, p)
		if err != nil {
			return nil, fmt.Errorf("matching person %d: %w", p.ID(), err)
		}

		if err := acc.Add(Flatten(p, match, maxPeriods)); err != nil {
			return nil, fmt.Errorf("adding row for person %d: %w", p.ID(), err)
		}

		reported := min(len(match.Periods), maxPeriods)
		dropped := len(match.Periods) - reported

		result.Processed++
		result.Periods += reported
		result.Truncated += dropped
		if match.Matched() {
			result.Matched++
		}
		s.record(match, reported, dropped)

		s.logger.DebugContext(ctx, "person reconciled",
			"person_id", p.ID(),
			"matched", match.Matched(),
			"periods", reported,
			"truncated", dropped,
		)
	}

	if err := acc.Flush(); err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.RowsWritten.Add(float64(result.Processed))
	}
	result.Written = acc.Written()

	s.logger.InfoContext(ctx, "reconcile complete",
		"processed", result.Processed,
		"skipped", result.Skipped,
		"matched", result.Matched,
		"periods", result.Periods,
		"truncated", result.Truncated,
		"written", result.Written,
	)

	return result, nil
}

func (s *ReconcileService) record(match entities.MatchResult, reported, dropped int) {
	if s.metrics == nil {
		return
	}
	s.metrics.PersonsProcessed.Inc()
	if match.Matched() {
		s.metrics.PersonsMatched.Inc()
	}
	s.metrics.PeriodsReported.Add(float64(reported))
	s.metrics.PeriodsTruncated.Add(float64(dropped))
}
