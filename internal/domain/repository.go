package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ListFilters narrows an investment listing. All fields are optional;
// nil/empty means "no constraint". The boundary layer validates values
// before they reach a repository.
type ListFilters struct {
	Status    *InvestmentStatus
	ModelType *ModelType
	Search    string     // case-insensitive substring match on user email (admin listing only)
	DateFrom  *time.Time // StartDate >= DateFrom
	DateTo    *time.Time // StartDate <= DateTo
}

// InvestmentRepository defines the read interface for investment reporting.
// List and Count methods taking the same filters must evaluate the same
// predicate so that pagination metadata stays consistent with the rows.
type InvestmentRepository interface {
	// ListPaginated retrieves a page of investments across all users,
	// joined with user email, model config and yield records, ordered by
	// creation time descending
	ListPaginated(ctx context.Context, offset, limit int, filters ListFilters) ([]*InvestmentWithRelations, error)

	// Count returns the number of investments matching the filters
	Count(ctx context.Context, filters ListFilters) (int, error)

	// ListByUserPaginated is ListPaginated scoped to a single user
	ListByUserPaginated(ctx context.Context, userID uuid.UUID, offset, limit int, filters ListFilters) ([]*InvestmentWithRelations, error)

	// CountByUser returns the number of the user's investments matching the filters
	CountByUser(ctx context.Context, userID uuid.UUID, filters ListFilters) (int, error)
}

// MonthlyPerformanceRepository defines the read interface for the platform's
// monthly performance records (VARIABLE model rates)
type MonthlyPerformanceRepository interface {
	// GetByMonth retrieves the performance record for a "YYYY-MM" month.
	// Returns (nil, nil) when no record exists for that month.
	GetByMonth(ctx context.Context, month string) (*MonthlyPerformance, error)
}
