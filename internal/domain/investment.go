package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ModelType represents the yield model of an investment
type ModelType string

const (
	ModelTypeFixed    ModelType = "FIXED"
	ModelTypeVariable ModelType = "VARIABLE"
)

// Valid reports whether the model type is one of the known values
func (t ModelType) Valid() bool {
	return t == ModelTypeFixed || t == ModelTypeVariable
}

// InvestmentStatus represents the lifecycle state of an investment
type InvestmentStatus string

const (
	InvestmentStatusActive    InvestmentStatus = "ACTIVE"
	InvestmentStatusCompleted InvestmentStatus = "COMPLETED"
	InvestmentStatusCancelled InvestmentStatus = "CANCELLED"
)

// Valid reports whether the investment status is one of the known values
func (s InvestmentStatus) Valid() bool {
	switch s {
	case InvestmentStatusActive, InvestmentStatusCompleted, InvestmentStatusCancelled:
		return true
	}
	return false
}

// YieldStatus represents the distribution state of a yield record.
// PAID and CLAIMED are both terminal "already distributed" states; the
// vocabulary differs between the admin and self-service views upstream.
type YieldStatus string

const (
	YieldStatusPending YieldStatus = "PENDING"
	YieldStatusPaid    YieldStatus = "PAID"
	YieldStatusClaimed YieldStatus = "CLAIMED"
)

// Distributed reports whether the yield has already been paid out
func (s YieldStatus) Distributed() bool {
	return s == YieldStatusPaid || s == YieldStatusClaimed
}

// ClaimStatus is the tri-state claim indicator on the self-service view
type ClaimStatus string

const (
	ClaimStatusAvailable ClaimStatus = "Available"
	ClaimStatusPending   ClaimStatus = "Pending"
	ClaimStatusCompleted ClaimStatus = "Completed"
)

// ModelConfig holds the immutable per-version parameters of an investment model.
// FIXED models carry the step-APR schedule; VARIABLE models leave it empty and
// derive their rate from the platform's monthly performance record instead.
type ModelConfig struct {
	ID                uuid.UUID
	Type              ModelType
	DurationDays      int
	APRInitial        *decimal.Decimal // FIXED only
	APRFinal          *decimal.Decimal // FIXED only
	APRStepPct        *decimal.Decimal // FIXED only
	APRStepPeriodDays *int             // FIXED only, > 0 when set
	ClaimPeriodDays   *int             // FIXED only, > 0 when set, optional
}

// HasFixedAPRSchedule reports whether all four FIXED rate parameters are present
func (c *ModelConfig) HasFixedAPRSchedule() bool {
	return c.APRInitial != nil && c.APRFinal != nil &&
		c.APRStepPct != nil && c.APRStepPeriodDays != nil
}

// Validate ensures the model config adheres to domain rules.
// Exactly one parameter group may be populated, consistent with Type.
func (c *ModelConfig) Validate() error {
	if !c.Type.Valid() {
		return errors.New("model config type must be FIXED or VARIABLE")
	}

	hasAnyFixedParam := c.APRInitial != nil || c.APRFinal != nil ||
		c.APRStepPct != nil || c.APRStepPeriodDays != nil

	switch c.Type {
	case ModelTypeFixed:
		// The four step-APR parameters are all-or-nothing
		if hasAnyFixedParam && !c.HasFixedAPRSchedule() {
			return errors.New("fixed model config must set all four APR schedule parameters together")
		}
		if c.APRStepPeriodDays != nil && *c.APRStepPeriodDays <= 0 {
			return errors.New("apr step period days must be positive")
		}
		if c.ClaimPeriodDays != nil && *c.ClaimPeriodDays <= 0 {
			return errors.New("claim period days must be positive")
		}
	case ModelTypeVariable:
		if hasAnyFixedParam {
			return errors.New("variable model config must not set APR schedule parameters")
		}
		if c.ClaimPeriodDays != nil {
			return errors.New("variable model config must not set claim period days")
		}
	}

	return nil
}

// Investment represents one user's position in one model
type Investment struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	ModelConfigID uuid.UUID
	Amount        decimal.Decimal
	Currency      string
	Status        InvestmentStatus
	StartDate     time.Time
	EndDate       time.Time
	AccruedYield  decimal.Decimal // running total maintained by the upstream accrual job
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// YieldRecord is one payout-period entry for one investment.
// Immutable once created except for the PENDING -> distributed transition,
// which is performed by the upstream distribution process.
type YieldRecord struct {
	ID                   uuid.UUID
	InvestmentID         uuid.UUID
	Amount               decimal.Decimal
	Status               YieldStatus
	MonthlyPerformanceID *uuid.UUID // VARIABLE records only
}

// Validate ensures the yield record adheres to domain rules for its model type
func (y *YieldRecord) Validate(modelType ModelType) error {
	if modelType == ModelTypeFixed && y.MonthlyPerformanceID != nil {
		return errors.New("fixed model yield record must not reference a monthly performance record")
	}
	return nil
}

// MonthlyPerformance is the platform-wide realized return for one calendar
// month, keyed by "YYYY-MM". Read-only from this service's perspective.
type MonthlyPerformance struct {
	ID              uuid.UUID
	Month           string
	ActualReturnPct decimal.Decimal
	Status          string
}

// InvestmentWithRelations is an investment joined with the fields the
// reporting layer needs: the owner's email, the model config snapshot and
// the full yield ledger.
type InvestmentWithRelations struct {
	Investment
	UserEmail   string
	ModelConfig ModelConfig
	Yields      []YieldRecord
}
