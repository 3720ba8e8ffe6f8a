package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/tokelab/vaultyield-backend/internal/domain"
)

// monthlyPerformanceRepository implements domain.MonthlyPerformanceRepository
type monthlyPerformanceRepository struct {
	db *DB
}

// NewMonthlyPerformanceRepository creates a new monthly performance repository
func NewMonthlyPerformanceRepository(db *DB) domain.MonthlyPerformanceRepository {
	return &monthlyPerformanceRepository{db: db}
}

// GetByMonth retrieves the performance record for a "YYYY-MM" month.
// A month with no posted record yields (nil, nil), not an error.
func (r *monthlyPerformanceRepository) GetByMonth(ctx context.Context, month string) (*domain.MonthlyPerformance, error) {
	query := `
		SELECT id, month, actual_return_pct, status
		FROM monthly_performance
		WHERE month = $1
	`

	var perf domain.MonthlyPerformance
	var returnPctStr string

	err := r.db.QueryRowContext(ctx, query, month).Scan(
		&perf.ID,
		&perf.Month,
		&returnPctStr,
		&perf.Status,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get monthly performance for %s: %w", month, err)
	}

	returnPct, err := decimal.NewFromString(returnPctStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse actual_return_pct: %w", err)
	}
	perf.ActualReturnPct = returnPct

	return &perf, nil
}
