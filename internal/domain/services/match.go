// Package services holds the reconcile pipeline: match, flatten, accumulate.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/francesco-c/acceptance-filler/internal/domain/entities"
	"github.com/francesco-c/acceptance-filler/internal/domain/ports"
	"github.com/francesco-c/acceptance-filler/internal/infrastructure/metrics"
)

const (
	// DefaultWindowDays is the tolerance subtracted from a person's reference
	// date when bounding how early a matched period may start.
	DefaultWindowDays = 5
	// DefaultLocale is the nation_i18n locale nation names are matched in.
	DefaultLocale = "it_IT"
)

// MatchOptions controls how criteria are built.
type MatchOptions struct {
	Locale     string
	MaxPeriods int
	// DateWindow enables the entry-date lower bound.
	DateWindow bool
	WindowDays int
}

// DefaultMatchOptions returns the options of an unbounded lookup.
func DefaultMatchOptions() MatchOptions {
	return MatchOptions{
		Locale:     DefaultLocale,
		MaxPeriods: entities.DefaultMaxPeriods,
		WindowDays: DefaultWindowDays,
	}
}

// MatchService looks up the acceptance history of a person.
type MatchService struct {
	store   ports.AcceptanceStore
	opts    MatchOptions
	metrics *metrics.Metrics
}

// NewMatchService creates a new match service.
func NewMatchService(store ports.AcceptanceStore, opts MatchOptions, m *metrics.Metrics) *MatchService {
	if opts.MaxPeriods <= 0 {
		opts.MaxPeriods = entities.DefaultMaxPeriods
	}
	if opts.Locale == "" {
		opts.Locale = DefaultLocale
	}
	return &MatchService{
		store:   store,
		opts:    opts,
		metrics: m,
	}
}

// Criteria builds the lookup predicate for p.
func (s *MatchService) Criteria(p entities.Person) (entities.MatchCriteria, error) {
	c := entities.MatchCriteria{
		NameOrders: [2]entities.NamePair{
			{Name: p.Name(), Surname: p.Surname()},
			{Name: p.Surname(), Surname: p.Name()},
		},
		BirthNation: p.BirthNation(),
		Locale:      s.opts.Locale,
		BirthDate:   p.BirthDate(),
		Gender:      p.Gender(),
		Limit:       s.opts.MaxPeriods,
	}

	if s.opts.DateWindow {
		from := p.FromDate()
		if from == nil {
			return entities.MatchCriteria{}, &entities.ValidationError{
				Field:   "from_date",
				Message: fmt.Sprintf("required when the date window is enabled (person id %d)", p.ID()),
			}
		}
		bound := from.AddDate(0, 0, -s.opts.WindowDays)
		c.EntryNotBefore = &bound
	}

	return c, nil
}

// Validate reports whether criteria can be built for p.
func (s *MatchService) Validate(p entities.Person) error {
	_, err := s.Criteria(p)
	return err
}

// Match runs the lookup for p against the store.
func (s *MatchService) Match(ctx context.Context, p entities.Person) (entities.MatchResult, error) {
	criteria, err := s.Criteria(p)
	if err != nil {
		return entities.MatchResult{}, err
	}

	start := time.Now()
	records, err := s.store.FindAcceptances(ctx, criteria)
	if s.metrics != nil {
		s.metrics.ObserveStoreQuery(start)
	}
	if err != nil {
		var sae *entities.StoreAccessError
		if errors.As(err, &sae) {
			return entities.MatchResult{}, err
		}
		return entities.MatchResult{}, &entities.StoreAccessError{
			Op:  fmt.Sprintf("finding acceptances for person %d", p.ID()),
			Err: err,
		}
	}

	return entities.NewMatchResult(records), nil
}

// MaxPeriods returns the per-person period cap used in criteria.
func (s *MatchService) MaxPeriods() int {
	return s.opts.MaxPeriods
}
