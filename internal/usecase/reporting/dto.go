package reporting

import (
	"github.com/tokelab/vaultyield-backend/internal/domain"
)

// InvestmentView carries the reporting fields shared by the admin and
// self-service listings. Monetary fields are decimal strings with exactly six
// fractional digits; dates are RFC 3339 timestamps; CurrentAPR is nil when no
// rate is available for the investment.
type InvestmentView struct {
	ID               string                  `json:"id"`
	Status           domain.InvestmentStatus `json:"status"`
	ModelType        domain.ModelType        `json:"modelType"`
	StartDate        string                  `json:"startDate"`
	EndDate          string                  `json:"endDate"`
	CurrentAPR       *float64                `json:"currentAPR"`
	InitialAmount    string                  `json:"initialAmount"`
	AccruedYield     string                  `json:"accruedYield"`
	DaysToCollect    int                     `json:"daysToCollect"`
	AvailableToClaim string                  `json:"availableToClaim"`
	TotalClaimed     string                  `json:"totalClaimed"`
}

// AdminInvestmentView is the cross-user listing row
type AdminInvestmentView struct {
	InvestmentView
	UserEmail string `json:"userEmail"`
}

// SelfInvestmentView is the authenticated holder's own listing row
type SelfInvestmentView struct {
	InvestmentView
	ClaimStatus domain.ClaimStatus `json:"claimStatus"`
}

// Pagination is the metadata attached to every paged result
type Pagination struct {
	Total int `json:"total"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Pages int `json:"pages"`
}

// PagedResult wraps one page of rows with its pagination metadata
type PagedResult[T any] struct {
	Data       []T        `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// ListParams are the validated pagination and filter inputs for a listing.
// The boundary layer guarantees Page >= 1 and Limit in [1, 100].
type ListParams struct {
	Page    int
	Limit   int
	Filters domain.ListFilters
}

// ClaimableSummary is the total a user can claim right now across all of
// their active investments
type ClaimableSummary struct {
	TotalAvailableToClaim string `json:"totalAvailableToClaim"`
	Currency              string `json:"currency"`
}
