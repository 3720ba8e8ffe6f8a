package accrual

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tokelab/vaultyield-backend/internal/domain"
)

const hoursPerDay = 24

// daysBetween returns the number of whole days from one instant to another,
// floored (negative when to precedes from)
func daysBetween(from, to time.Time) int {
	return int(math.Floor(to.Sub(from).Hours() / hoursPerDay))
}

// firstDayOfMonth returns midnight on the first day of t's month
func firstDayOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// lastDayOfMonth returns midnight on the last calendar day of t's month
func lastDayOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location())
}

// PreviousMonth returns the "YYYY-MM" key of the calendar month before now.
// The platform posts each month's performance record under this key.
func PreviousMonth(now time.Time) string {
	prev := time.Date(now.Year(), now.Month()-1, 1, 0, 0, 0, 0, now.Location())
	return fmt.Sprintf("%04d-%02d", prev.Year(), int(prev.Month()))
}

// FixedCurrentRate computes the APR of the last fully completed step period
// for a FIXED model investment. The in-progress period is never reported:
// days are counted from the start date to the first day of now's month, so
// the figure only moves once a month closes.
//
// Example: APR 15 to 20, step 1, started in January. January reports 15,
// February 16, and on March 16th the reported rate is still February's 16.
func FixedCurrentRate(startDate time.Time, aprInitial, aprFinal, stepPct decimal.Decimal, stepPeriodDays int, now time.Time) float64 {
	daysSinceStart := daysBetween(startDate, firstDayOfMonth(now))

	// Started this month or later: no completed period yet
	if daysSinceStart <= 0 {
		return aprInitial.InexactFloat64()
	}

	completedSteps := daysSinceStart / stepPeriodDays
	rate := aprInitial.Add(stepPct.Mul(decimal.NewFromInt(int64(completedSteps))))
	if rate.GreaterThan(aprFinal) {
		rate = aprFinal
	}

	return rate.InexactFloat64()
}

// FixedDaysToNextClaim returns the days until the next claim window opens for
// a FIXED model investment with a configured claim period. Windows recur every
// claimPeriodDays from the start date. On a period boundary the full period
// length is returned: the boundary day counts as day 0 of the new period.
func FixedDaysToNextClaim(startDate time.Time, claimPeriodDays int, now time.Time) int {
	daysSinceStart := daysBetween(startDate, now)

	if daysSinceStart < 0 {
		// Investment hasn't started yet
		return claimPeriodDays
	}

	daysInCurrentPeriod := daysSinceStart % claimPeriodDays
	return claimPeriodDays - daysInCurrentPeriod
}

// VariableDaysToNextClaim returns the days until the next claim window for a
// VARIABLE model investment. The window is open now (0) when a PENDING yield
// is already linked to a posted monthly performance record; otherwise the next
// window is assumed to open at the end of now's month, when the platform posts
// the new record.
func VariableDaysToNextClaim(yields []domain.YieldRecord, now time.Time) int {
	for _, y := range yields {
		if y.Status == domain.YieldStatusPending && y.MonthlyPerformanceID != nil {
			return 0
		}
	}

	days := int(math.Ceil(lastDayOfMonth(now).Sub(now).Hours() / hoursPerDay))
	if days < 0 {
		days = 0
	}
	return days
}

// DaysToCollect dispatches the claim-window countdown per model type. FIXED
// investments without a configured claim period fall back to the days until
// the investment's end date, floored at zero.
func DaysToCollect(inv *domain.InvestmentWithRelations, now time.Time) int {
	if inv.ModelConfig.Type == domain.ModelTypeFixed {
		if inv.ModelConfig.ClaimPeriodDays != nil {
			return FixedDaysToNextClaim(inv.StartDate, *inv.ModelConfig.ClaimPeriodDays, now)
		}
		days := daysBetween(now, inv.EndDate)
		if days < 0 {
			days = 0
		}
		return days
	}

	return VariableDaysToNextClaim(inv.Yields, now)
}

// CurrentRate returns the reportable annualized rate for an investment,
// or nil when none is available. FIXED requires the full APR schedule on the
// model config; VARIABLE uses the externally supplied previous-month platform
// rate, which is nil when no performance record has been posted.
func CurrentRate(inv *domain.InvestmentWithRelations, variableRate *float64, now time.Time) *float64 {
	if inv.ModelConfig.Type == domain.ModelTypeFixed {
		cfg := inv.ModelConfig
		if !cfg.HasFixedAPRSchedule() {
			return nil
		}
		rate := FixedCurrentRate(inv.StartDate, *cfg.APRInitial, *cfg.APRFinal, *cfg.APRStepPct, *cfg.APRStepPeriodDays, now)
		return &rate
	}

	return variableRate
}
