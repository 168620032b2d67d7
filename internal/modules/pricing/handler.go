package pricing

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"liveroom/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type SetRateBody struct {
	DurationMinutes int     `json:"duration_minutes" binding:"required"`
	Price           float64 `json:"price" binding:"required"`

	// Pointer so an explicit 0% commission is distinguishable from an
	// omitted field, which falls back to the platform default.
	CommissionPercent *float64 `json:"commission_percent"`
}

// SetRate lets the authenticated host set their own price for one
// duration.
func (h *Handler) SetRate(c *gin.Context) {
	var body SetRateBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	commission := h.service.defaultCommission
	if body.CommissionPercent != nil {
		commission = *body.CommissionPercent
	}

	rate, err := h.service.SetRate(c.Request.Context(), c.GetInt64("user_id"), body.DurationMinutes, body.Price, commission)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"rate": rate})
}

// GetQuote prices a prospective booking without creating anything.
func (h *Handler) GetQuote(c *gin.Context) {
	hostID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid host ID")
		return
	}
	duration, err := strconv.Atoi(c.DefaultQuery("duration", "60"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid duration")
		return
	}

	quote, err := h.service.Quote(c.Request.Context(), hostID, duration)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"quote": quote})
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidDuration):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Unsupported show duration")
	case errors.Is(err, ErrInvalidPrice):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Price must be positive")
	case errors.Is(err, ErrInvalidCommission):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Commission must be within [0,100]")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Unexpected error")
	}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.PUT("/rates", h.SetRate)
	rg.GET("/hosts/:id/quote", h.GetQuote)
}
