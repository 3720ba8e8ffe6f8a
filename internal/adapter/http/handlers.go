package http

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/tokelab/vaultyield-backend/internal/domain"
	"github.com/tokelab/vaultyield-backend/internal/usecase/reporting"
)

const (
	defaultPage  = 1
	defaultLimit = 20
	maxLimit     = 100
)

// Handler exposes the reporting use cases over HTTP
type Handler struct {
	Reporting *reporting.Service
}

// NewHandler creates a new HTTP handler instance
func NewHandler(reportingService *reporting.Service) *Handler {
	return &Handler{Reporting: reportingService}
}

// ListAllInvestments handles GET /api/admin/investments
func (h *Handler) ListAllInvestments(c *gin.Context) {
	params, err := parseListParams(c, true)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.Reporting.ListAllInvestments(c.Request.Context(), params)
	if err != nil {
		log.WithError(err).Error("failed to list investments")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// ListUserInvestments handles GET /api/investments
func (h *Handler) ListUserInvestments(c *gin.Context) {
	userID, ok := userIDFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing user identity"})
		return
	}

	params, err := parseListParams(c, false)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.Reporting.ListUserInvestments(c.Request.Context(), userID, params)
	if err != nil {
		log.WithError(err).Error("failed to list user investments")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetClaimableSummary handles GET /api/investments/summary
func (h *Handler) GetClaimableSummary(c *gin.Context) {
	userID, ok := userIDFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing user identity"})
		return
	}

	summary, err := h.Reporting.SummarizeClaimable(c.Request.Context(), userID)
	if err != nil {
		log.WithError(err).Error("failed to summarize claimable yield")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, summary)
}

// parseListParams validates the pagination and filter query parameters.
// The core assumes validated input, so every violation is rejected here.
func parseListParams(c *gin.Context, allowSearch bool) (reporting.ListParams, error) {
	params := reporting.ListParams{Page: defaultPage, Limit: defaultLimit}

	if raw := c.Query("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			return params, fmt.Errorf("page must be a positive integer")
		}
		params.Page = page
	}

	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 || limit > maxLimit {
			return params, fmt.Errorf("limit must be an integer between 1 and %d", maxLimit)
		}
		params.Limit = limit
	}

	if raw := c.Query("status"); raw != "" {
		status := domain.InvestmentStatus(raw)
		if !status.Valid() {
			return params, fmt.Errorf("status must be one of ACTIVE, COMPLETED, CANCELLED")
		}
		params.Filters.Status = &status
	}

	if raw := c.Query("modelType"); raw != "" {
		modelType := domain.ModelType(raw)
		if !modelType.Valid() {
			return params, fmt.Errorf("modelType must be FIXED or VARIABLE")
		}
		params.Filters.ModelType = &modelType
	}

	if allowSearch {
		params.Filters.Search = c.Query("search")
	}

	if raw := c.Query("dateFrom"); raw != "" {
		t, err := parseDate(raw)
		if err != nil {
			return params, fmt.Errorf("dateFrom must be an RFC 3339 timestamp or YYYY-MM-DD date")
		}
		params.Filters.DateFrom = &t
	}

	if raw := c.Query("dateTo"); raw != "" {
		t, err := parseDate(raw)
		if err != nil {
			return params, fmt.Errorf("dateTo must be an RFC 3339 timestamp or YYYY-MM-DD date")
		}
		params.Filters.DateTo = &t
	}

	return params, nil
}

func parseDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}
