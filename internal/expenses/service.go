package expenses

import (
	"context"
	"fmt"
	"time"

	"github.com/minimart-pos/minimart-pos/internal/catalog"
	"github.com/minimart-pos/minimart-pos/internal/shared"
)

// RepositoryPort abstracts repository usage for service.
type RepositoryPort interface {
	Insert(ctx context.Context, e Expense) (Expense, error)
	Get(ctx context.Context, id int64) (Expense, error)
	ListByDateRange(ctx context.Context, from, to time.Time) ([]Expense, error)
	Delete(ctx context.Context, id int64) error
}

// LocationPort resolves the location an expense is booked against.
type LocationPort interface {
	GetLocation(ctx context.Context, id int64) (catalog.Location, error)
}

// AuditPort abstracts activity logging.
type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// CacheBumper invalidates report caches after a write.
type CacheBumper interface {
	Bump(ctx context.Context) error
}

// Service manages operating expense entries.
type Service struct {
	repo      RepositoryPort
	locations LocationPort
	audit     AuditPort
	reports   CacheBumper
	now       func() time.Time
}

func NewService(repo RepositoryPort, locations LocationPort, audit AuditPort, reports CacheBumper, clock func() time.Time) *Service {
	if clock == nil {
		clock = time.Now
	}
	return &Service{repo: repo, locations: locations, audit: audit, reports: reports, now: clock}
}

func (s *Service) Create(ctx context.Context, input CreateInput) (Expense, error) {
	if input.Amount <= 0 {
		return Expense{}, fmt.Errorf("expenses: amount must be positive: %w", shared.ErrValidation)
	}
	if _, err := s.locations.GetLocation(ctx, input.LocationID); err != nil {
		return Expense{}, err
	}
	category := input.Category
	if category == "" {
		category = CategoryOther
	}
	if !category.Valid() {
		return Expense{}, fmt.Errorf("expenses: unknown category %q: %w", category, shared.ErrValidation)
	}
	expenseDate := shared.OrDay(input.ExpenseDate, s.now())

	saved, err := s.repo.Insert(ctx, Expense{
		LocationID:  input.LocationID,
		UserID:      input.UserID,
		Category:    category,
		Description: input.Description,
		Amount:      shared.Round2(input.Amount),
		ExpenseDate: expenseDate,
	})
	if err != nil {
		return Expense{}, err
	}
	if s.audit != nil {
		_ = s.audit.Record(ctx, shared.AuditLog{
			Action:   "expense:create",
			Entity:   "expense",
			EntityID: fmt.Sprintf("%d", saved.ID),
			Meta:     map[string]any{"category": saved.Category, "amount": saved.Amount},
		})
	}
	if s.reports != nil {
		_ = s.reports.Bump(ctx)
	}
	return saved, nil
}

func (s *Service) Get(ctx context.Context, id int64) (Expense, error) {
	return s.repo.Get(ctx, id)
}

// List returns expenses within an inclusive day range defaulting to the
// trailing month ending today.
func (s *Service) List(ctx context.Context, start, end time.Time) ([]Expense, error) {
	endDay := shared.OrDay(end, s.now())
	startDay := start
	if startDay.IsZero() {
		startDay = endDay.AddDate(0, -1, 0)
	}
	startDay = shared.Day(startDay)
	if endDay.Before(startDay) {
		return nil, fmt.Errorf("expenses: end date cannot be before start date: %w", shared.ErrValidation)
	}
	from, to := shared.DayRange(startDay, endDay)
	return s.repo.ListByDateRange(ctx, from, to)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if s.audit != nil {
		_ = s.audit.Record(ctx, shared.AuditLog{
			Action:   "expense:delete",
			Entity:   "expense",
			EntityID: fmt.Sprintf("%d", id),
		})
	}
	if s.reports != nil {
		_ = s.reports.Bump(ctx)
	}
	return nil
}
