package accrual

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tokelab/vaultyield-backend/internal/domain"
)

// AccruedYield returns the sum of all yield record amounts, claimed or not
func AccruedYield(yields []domain.YieldRecord) decimal.Decimal {
	total := decimal.Zero
	for _, y := range yields {
		total = total.Add(y.Amount)
	}
	return total
}

// TotalDistributed returns the sum of amounts already paid out. PAID and
// CLAIMED both count: they are the same logical state reported under two
// vocabularies upstream.
func TotalDistributed(yields []domain.YieldRecord) decimal.Decimal {
	total := decimal.Zero
	for _, y := range yields {
		if y.Status.Distributed() {
			total = total.Add(y.Amount)
		}
	}
	return total
}

// AvailableToClaim returns the amount the holder can claim right now.
//
// FIXED with a claim period: nothing until one full claim period has elapsed
// since the start date, then the sum of every PENDING record. Records are not
// tagged with the period they accrued in, so a single completed period
// releases all of them.
// FIXED without a claim period: the sum of every PENDING record.
// VARIABLE: the sum of PENDING records already linked to a posted monthly
// performance record; unlinked PENDING records are still awaiting posting.
func AvailableToClaim(inv *domain.InvestmentWithRelations, now time.Time) decimal.Decimal {
	if inv.ModelConfig.Type == domain.ModelTypeFixed {
		if inv.ModelConfig.ClaimPeriodDays != nil {
			daysSinceStart := daysBetween(inv.StartDate, now)
			completedPeriods := daysSinceStart / *inv.ModelConfig.ClaimPeriodDays
			if completedPeriods <= 0 {
				return decimal.Zero
			}
		}

		total := decimal.Zero
		for _, y := range inv.Yields {
			if y.Status == domain.YieldStatusPending {
				total = total.Add(y.Amount)
			}
		}
		return total
	}

	total := decimal.Zero
	for _, y := range inv.Yields {
		if y.Status == domain.YieldStatusPending && y.MonthlyPerformanceID != nil {
			total = total.Add(y.Amount)
		}
	}
	return total
}

// ResolveClaimStatus derives the tri-state claim indicator for the
// self-service view: Completed when no PENDING records remain, Available when
// something is claimable right now, Pending otherwise.
func ResolveClaimStatus(inv *domain.InvestmentWithRelations, now time.Time) domain.ClaimStatus {
	hasPending := false
	for _, y := range inv.Yields {
		if y.Status == domain.YieldStatusPending {
			hasPending = true
			break
		}
	}

	if !hasPending {
		return domain.ClaimStatusCompleted
	}

	if AvailableToClaim(inv, now).IsPositive() {
		return domain.ClaimStatusAvailable
	}

	return domain.ClaimStatusPending
}
