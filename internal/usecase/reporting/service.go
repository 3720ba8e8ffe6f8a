package reporting

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/tokelab/vaultyield-backend/internal/domain"
	"github.com/tokelab/vaultyield-backend/internal/usecase/accrual"
)

const (
	// defaultCurrency is reported when a user has no investments to take it from
	defaultCurrency = "USDT"

	// summaryBatchSize is the page size used to walk a user's investments
	// when summing claimable amounts
	summaryBatchSize = 500
)

// Service orchestrates investment reporting: it fetches pages of investments
// with their relations, resolves the previous month's platform rate once per
// request, and assembles the reporting views. The calculation layer underneath
// is pure; Now is the only clock and is pinned in tests.
type Service struct {
	InvestmentRepo  domain.InvestmentRepository
	PerformanceRepo domain.MonthlyPerformanceRepository
	Now             func() time.Time
}

// NewService creates a new reporting Service instance
func NewService(investmentRepo domain.InvestmentRepository, performanceRepo domain.MonthlyPerformanceRepository) *Service {
	return &Service{
		InvestmentRepo:  investmentRepo,
		PerformanceRepo: performanceRepo,
		Now:             time.Now,
	}
}

// ListAllInvestments returns one page of investments across all users (admin
// view). Rows, row count and the previous-month performance record are three
// independent reads issued concurrently; the count runs under the same filter
// predicate as the rows so the page metadata stays consistent.
func (s *Service) ListAllInvestments(ctx context.Context, params ListParams) (*PagedResult[AdminInvestmentView], error) {
	now := s.Now()
	offset := (params.Page - 1) * params.Limit

	var (
		investments []*domain.InvestmentWithRelations
		total       int
		perf        *domain.MonthlyPerformance
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		investments, err = s.InvestmentRepo.ListPaginated(gctx, offset, params.Limit, params.Filters)
		if err != nil {
			return fmt.Errorf("failed to list investments: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		total, err = s.InvestmentRepo.Count(gctx, params.Filters)
		if err != nil {
			return fmt.Errorf("failed to count investments: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		perf, err = s.PerformanceRepo.GetByMonth(gctx, accrual.PreviousMonth(now))
		if err != nil {
			return fmt.Errorf("failed to fetch monthly performance: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	variableRate := variableRateFrom(perf)

	data := make([]AdminInvestmentView, 0, len(investments))
	for _, inv := range investments {
		data = append(data, toAdminView(inv, variableRate, now))
	}

	return &PagedResult[AdminInvestmentView]{
		Data:       data,
		Pagination: paginationMeta(total, params.Page, params.Limit),
	}, nil
}

// ListUserInvestments returns one page of the authenticated user's own
// investments (self-service view, carries the claim status). The email search
// filter is an admin-only concern and is ignored here.
func (s *Service) ListUserInvestments(ctx context.Context, userID uuid.UUID, params ListParams) (*PagedResult[SelfInvestmentView], error) {
	now := s.Now()
	offset := (params.Page - 1) * params.Limit
	params.Filters.Search = ""

	var (
		investments []*domain.InvestmentWithRelations
		total       int
		perf        *domain.MonthlyPerformance
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		investments, err = s.InvestmentRepo.ListByUserPaginated(gctx, userID, offset, params.Limit, params.Filters)
		if err != nil {
			return fmt.Errorf("failed to list user investments: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		total, err = s.InvestmentRepo.CountByUser(gctx, userID, params.Filters)
		if err != nil {
			return fmt.Errorf("failed to count user investments: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		perf, err = s.PerformanceRepo.GetByMonth(gctx, accrual.PreviousMonth(now))
		if err != nil {
			return fmt.Errorf("failed to fetch monthly performance: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	variableRate := variableRateFrom(perf)

	data := make([]SelfInvestmentView, 0, len(investments))
	for _, inv := range investments {
		data = append(data, toSelfView(inv, variableRate, now))
	}

	return &PagedResult[SelfInvestmentView]{
		Data:       data,
		Pagination: paginationMeta(total, params.Page, params.Limit),
	}, nil
}

// SummarizeClaimable sums the claimable amount across all of a user's ACTIVE
// investments. Only active positions can carry claimable yield.
func (s *Service) SummarizeClaimable(ctx context.Context, userID uuid.UUID) (*ClaimableSummary, error) {
	now := s.Now()
	status := domain.InvestmentStatusActive
	filters := domain.ListFilters{Status: &status}

	total := decimal.Zero
	currency := ""

	for offset := 0; ; offset += summaryBatchSize {
		investments, err := s.InvestmentRepo.ListByUserPaginated(ctx, userID, offset, summaryBatchSize, filters)
		if err != nil {
			return nil, fmt.Errorf("failed to list user investments: %w", err)
		}

		for _, inv := range investments {
			total = total.Add(accrual.AvailableToClaim(inv, now))
			if currency == "" {
				currency = inv.Currency
			}
		}

		if len(investments) < summaryBatchSize {
			break
		}
	}

	if currency == "" {
		currency = defaultCurrency
	}

	return &ClaimableSummary{
		TotalAvailableToClaim: total.StringFixed(6),
		Currency:              currency,
	}, nil
}
