package booking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"liveroom/internal/database"
	"liveroom/internal/domain"
	"liveroom/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) CreateBooking(c *gin.Context) {
	var body CreateBookingBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	result, err := h.service.Create(c.Request.Context(), CreateBookingRequest{
		UserID:          c.GetInt64("user_id"),
		HostID:          body.HostID,
		DurationMinutes: body.DurationMinutes,
		ScheduledAt:     body.ScheduledAt,
		PaymentMethod:   body.PaymentMethod,
		PaymentStatus:   domain.PaymentStatus(body.PaymentStatus),
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"booking":      result.Booking,
		"host_token":   result.HostToken,
		"viewer_token": result.ViewerToken,
	})
}

func (h *Handler) UpdatePayment(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var body PaymentUpdateBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	b, err := h.service.UpdatePaymentStatus(c.Request.Context(), id, domain.PaymentStatus(body.PaymentStatus), body.Reference)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

func (h *Handler) CancelBooking(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var body CancelBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	b, err := h.service.Cancel(c.Request.Context(), id, body.Reason, c.GetBool("is_admin"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

func (h *Handler) CompleteBooking(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	b, err := h.service.Complete(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

func (h *Handler) SubmitFeedback(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var body FeedbackBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	fb, err := h.service.SubmitFeedback(c.Request.Context(), id, c.GetInt64("user_id"), body.Rating, body.Comments)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"feedback": fb})
}

func (h *Handler) RequestRefund(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var body RefundRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	refund, err := h.service.RequestRefund(c.Request.Context(), id, c.GetInt64("user_id"), body.Reason)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"refund": refund})
}

func (h *Handler) ProcessRefund(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var body RefundDecisionBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	refund, err := h.service.ProcessRefund(c.Request.Context(), id, domain.RefundStatus(body.Decision), c.GetInt64("user_id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"refund": refund})
}

func (h *Handler) GetBooking(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	b, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

func (h *Handler) ListMyBookings(c *gin.Context) {
	bookings, err := h.service.ListForUser(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"bookings": bookings})
}

func (h *Handler) ListHostBookings(c *gin.Context) {
	bookings, err := h.service.ListForHost(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"bookings": bookings})
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Booking not found")
	case errors.Is(err, ErrRefundNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Refund not found")
	case errors.Is(err, ErrInvalidDuration):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Unsupported show duration")
	case errors.Is(err, ErrPastStart):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Scheduled time must be in the future")
	case errors.Is(err, ErrOutsideWindow):
		response.Error(c, http.StatusBadRequest, "OUTSIDE_HOURS", "Scheduled time is outside booking hours")
	case errors.Is(err, ErrInvalidPaymentStatus):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid payment status")
	case errors.Is(err, ErrInvalidRating):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Rating must be between 1 and 5")
	case errors.Is(err, ErrInvalidDecision):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Decision must be approved or rejected")
	case errors.Is(err, ErrDuplicateSlot):
		response.Error(c, http.StatusConflict, "DUPLICATE_SLOT", "You already have a booking at this time")
	case errors.Is(err, ErrOverlap):
		response.Error(c, http.StatusConflict, "SLOT_TAKEN", "The host is already booked for this time")
	case errors.Is(err, ErrAlreadyTerminal):
		response.Error(c, http.StatusConflict, "ALREADY_FINAL", "Booking is already in a final state")
	case errors.Is(err, ErrNotPaid):
		response.Error(c, http.StatusConflict, "NOT_PAID", "Booking has not been paid")
	case errors.Is(err, ErrNotCompleted):
		response.Error(c, http.StatusConflict, "NOT_COMPLETED", "Booking is not completed")
	case errors.Is(err, ErrAlreadyRated):
		response.Error(c, http.StatusConflict, "ALREADY_RATED", "Feedback already submitted")
	case errors.Is(err, ErrRefundWindowClosed):
		response.Error(c, http.StatusConflict, "REFUND_WINDOW_CLOSED", "Refund window has closed")
	case errors.Is(err, ErrRefundResolved):
		response.Error(c, http.StatusConflict, "REFUND_RESOLVED", "Refund has already been resolved")
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Not allowed for this booking")
	case errors.Is(err, database.ErrContended):
		response.Error(c, http.StatusServiceUnavailable, "CONTENDED", "Resource busy, retry shortly")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Unexpected error")
	}
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid ID")
		return 0, false
	}
	return id, true
}
