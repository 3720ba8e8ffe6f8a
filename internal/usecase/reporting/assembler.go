package reporting

import (
	"time"

	"github.com/tokelab/vaultyield-backend/internal/domain"
	"github.com/tokelab/vaultyield-backend/internal/usecase/accrual"
)

// toView assembles the shared reporting fields for one investment.
// variableRate is the previous month's platform rate, fetched once per
// request and identical for every VARIABLE row on the page.
func toView(inv *domain.InvestmentWithRelations, variableRate *float64, now time.Time) InvestmentView {
	return InvestmentView{
		ID:               inv.ID.String(),
		Status:           inv.Status,
		ModelType:        inv.ModelConfig.Type,
		StartDate:        inv.StartDate.UTC().Format(time.RFC3339),
		EndDate:          inv.EndDate.UTC().Format(time.RFC3339),
		CurrentAPR:       accrual.CurrentRate(inv, variableRate, now),
		InitialAmount:    inv.Amount.StringFixed(6),
		AccruedYield:     accrual.AccruedYield(inv.Yields).StringFixed(6),
		DaysToCollect:    accrual.DaysToCollect(inv, now),
		AvailableToClaim: accrual.AvailableToClaim(inv, now).StringFixed(6),
		TotalClaimed:     accrual.TotalDistributed(inv.Yields).StringFixed(6),
	}
}

func toAdminView(inv *domain.InvestmentWithRelations, variableRate *float64, now time.Time) AdminInvestmentView {
	return AdminInvestmentView{
		InvestmentView: toView(inv, variableRate, now),
		UserEmail:      inv.UserEmail,
	}
}

func toSelfView(inv *domain.InvestmentWithRelations, variableRate *float64, now time.Time) SelfInvestmentView {
	return SelfInvestmentView{
		InvestmentView: toView(inv, variableRate, now),
		ClaimStatus:    accrual.ResolveClaimStatus(inv, now),
	}
}

// variableRateFrom unwraps the previous month's platform return, nil when no
// record has been posted yet
func variableRateFrom(perf *domain.MonthlyPerformance) *float64 {
	if perf == nil {
		return nil
	}
	rate := perf.ActualReturnPct.InexactFloat64()
	return &rate
}

// paginationMeta builds the page metadata; pages is ceil(total/limit)
func paginationMeta(total, page, limit int) Pagination {
	return Pagination{
		Total: total,
		Page:  page,
		Limit: limit,
		Pages: (total + limit - 1) / limit,
	}
}
