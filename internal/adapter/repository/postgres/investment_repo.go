package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/tokelab/vaultyield-backend/internal/domain"
)

// investmentRepository implements domain.InvestmentRepository
type investmentRepository struct {
	db *DB
}

// NewInvestmentRepository creates a new investment repository
func NewInvestmentRepository(db *DB) domain.InvestmentRepository {
	return &investmentRepository{db: db}
}

const investmentSelectColumns = `
	i.id, i.user_id, i.model_config_id, i.amount, i.currency, i.status,
	i.start_date, i.end_date, i.accrued_yield, i.created_at, i.updated_at,
	u.email,
	mc.id, mc.type, mc.duration_days, mc.apr_initial, mc.apr_final,
	mc.apr_step_pct, mc.apr_step_period_days, mc.claim_period_days
`

const investmentFromClause = `
	FROM investments i
	JOIN users u ON u.id = i.user_id
	JOIN model_configs mc ON mc.id = i.model_config_id
`

// ListPaginated retrieves a page of investments across all users
func (r *investmentRepository) ListPaginated(ctx context.Context, offset, limit int, filters domain.ListFilters) ([]*domain.InvestmentWithRelations, error) {
	return r.list(ctx, nil, offset, limit, filters)
}

// Count returns the number of investments matching the filters
func (r *investmentRepository) Count(ctx context.Context, filters domain.ListFilters) (int, error) {
	return r.count(ctx, nil, filters)
}

// ListByUserPaginated retrieves a page of one user's investments
func (r *investmentRepository) ListByUserPaginated(ctx context.Context, userID uuid.UUID, offset, limit int, filters domain.ListFilters) ([]*domain.InvestmentWithRelations, error) {
	return r.list(ctx, &userID, offset, limit, filters)
}

// CountByUser returns the number of the user's investments matching the filters
func (r *investmentRepository) CountByUser(ctx context.Context, userID uuid.UUID, filters domain.ListFilters) (int, error) {
	return r.count(ctx, &userID, filters)
}

// buildWhereClause renders the filter predicate. The same clause feeds both
// the row query and the count query so pagination metadata cannot drift from
// the rows.
func buildWhereClause(userID *uuid.UUID, filters domain.ListFilters) (string, []interface{}) {
	var conditions []string
	var args []interface{}

	add := func(condition string, value interface{}) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf(condition, len(args)))
	}

	if userID != nil {
		add("i.user_id = $%d", *userID)
	}
	if filters.Status != nil {
		add("i.status = $%d", string(*filters.Status))
	}
	if filters.ModelType != nil {
		add("mc.type = $%d", string(*filters.ModelType))
	}
	if filters.Search != "" {
		add("u.email ILIKE $%d", "%"+filters.Search+"%")
	}
	if filters.DateFrom != nil {
		add("i.start_date >= $%d", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		add("i.start_date <= $%d", *filters.DateTo)
	}

	if len(conditions) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

func (r *investmentRepository) list(ctx context.Context, userID *uuid.UUID, offset, limit int, filters domain.ListFilters) ([]*domain.InvestmentWithRelations, error) {
	where, args := buildWhereClause(userID, filters)

	query := "SELECT " + investmentSelectColumns + investmentFromClause + where +
		fmt.Sprintf(" ORDER BY i.created_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query investments: %w", err)
	}
	defer rows.Close()

	var investments []*domain.InvestmentWithRelations
	for rows.Next() {
		inv, err := scanInvestment(rows)
		if err != nil {
			return nil, err
		}
		investments = append(investments, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate investments: %w", err)
	}

	if err := r.attachYields(ctx, investments); err != nil {
		return nil, err
	}

	return investments, nil
}

func (r *investmentRepository) count(ctx context.Context, userID *uuid.UUID, filters domain.ListFilters) (int, error) {
	where, args := buildWhereClause(userID, filters)

	query := "SELECT COUNT(*)" + investmentFromClause + where

	var total int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count investments: %w", err)
	}

	return total, nil
}

// scanInvestment reads one joined investment row
func scanInvestment(rows *sql.Rows) (*domain.InvestmentWithRelations, error) {
	var inv domain.InvestmentWithRelations
	var amountStr, accruedStr string
	var aprInitial, aprFinal, aprStepPct sql.NullString
	var aprStepPeriodDays, claimPeriodDays sql.NullInt64

	err := rows.Scan(
		&inv.ID,
		&inv.UserID,
		&inv.ModelConfigID,
		&amountStr,
		&inv.Currency,
		&inv.Status,
		&inv.StartDate,
		&inv.EndDate,
		&accruedStr,
		&inv.CreatedAt,
		&inv.UpdatedAt,
		&inv.UserEmail,
		&inv.ModelConfig.ID,
		&inv.ModelConfig.Type,
		&inv.ModelConfig.DurationDays,
		&aprInitial,
		&aprFinal,
		&aprStepPct,
		&aprStepPeriodDays,
		&claimPeriodDays,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan investment: %w", err)
	}

	if inv.Amount, err = decimal.NewFromString(amountStr); err != nil {
		return nil, fmt.Errorf("failed to parse amount: %w", err)
	}
	if inv.AccruedYield, err = decimal.NewFromString(accruedStr); err != nil {
		return nil, fmt.Errorf("failed to parse accrued_yield: %w", err)
	}

	if inv.ModelConfig.APRInitial, err = nullDecimal(aprInitial, "apr_initial"); err != nil {
		return nil, err
	}
	if inv.ModelConfig.APRFinal, err = nullDecimal(aprFinal, "apr_final"); err != nil {
		return nil, err
	}
	if inv.ModelConfig.APRStepPct, err = nullDecimal(aprStepPct, "apr_step_pct"); err != nil {
		return nil, err
	}
	inv.ModelConfig.APRStepPeriodDays = nullInt(aprStepPeriodDays)
	inv.ModelConfig.ClaimPeriodDays = nullInt(claimPeriodDays)

	return &inv, nil
}

// attachYields batch-loads the yield ledgers for a page of investments
func (r *investmentRepository) attachYields(ctx context.Context, investments []*domain.InvestmentWithRelations) error {
	if len(investments) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, 0, len(investments))
	byID := make(map[uuid.UUID]*domain.InvestmentWithRelations, len(investments))
	for _, inv := range investments {
		ids = append(ids, inv.ID)
		byID[inv.ID] = inv
	}

	query := `
		SELECT id, investment_id, amount, status, monthly_performance_id
		FROM yield_records
		WHERE investment_id = ANY($1)
		ORDER BY created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("failed to query yield records: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var y domain.YieldRecord
		var amountStr string
		var perfID sql.NullString

		if err := rows.Scan(&y.ID, &y.InvestmentID, &amountStr, &y.Status, &perfID); err != nil {
			return fmt.Errorf("failed to scan yield record: %w", err)
		}

		if y.Amount, err = decimal.NewFromString(amountStr); err != nil {
			return fmt.Errorf("failed to parse yield amount: %w", err)
		}

		if perfID.Valid {
			id, err := uuid.Parse(perfID.String)
			if err != nil {
				return fmt.Errorf("failed to parse monthly_performance_id: %w", err)
			}
			y.MonthlyPerformanceID = &id
		}

		if inv, ok := byID[y.InvestmentID]; ok {
			inv.Yields = append(inv.Yields, y)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate yield records: %w", err)
	}

	return nil
}

func nullDecimal(v sql.NullString, column string) (*decimal.Decimal, error) {
	if !v.Valid {
		return nil, nil
	}
	d, err := decimal.NewFromString(v.String)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", column, err)
	}
	return &d, nil
}

func nullInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}
