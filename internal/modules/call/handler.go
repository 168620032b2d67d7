package call

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"liveroom/internal/database"
	"liveroom/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) CreateCall(c *gin.Context) {
	var body CreateCallBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	result, err := h.service.Create(c.Request.Context(), CreateCallRequest{
		CreatorID:       c.GetInt64("user_id"),
		CreatorName:     c.GetString("user_name"),
		Title:           body.Title,
		MaxParticipants: body.MaxParticipants,
		AllowGuests:     body.AllowGuests,
		CameraRequired:  body.CameraRequired,
		IsPublic:        body.IsPublic,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"session": result.Session,
		"token":   result.HostToken,
	})
}

func (h *Handler) JoinCall(c *gin.Context) {
	sessionID, ok := pathID(c)
	if !ok {
		return
	}
	var body JoinCallBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	result, err := h.service.Join(c.Request.Context(), sessionID, c.GetInt64("user_id"), body.UserName, body.IsGuest)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"session":        result.Session,
		"token":          result.Token,
		"already_joined": result.AlreadyJoined,
	})
}

func (h *Handler) LeaveCall(c *gin.Context) {
	sessionID, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.service.Leave(c.Request.Context(), sessionID, c.GetInt64("user_id")); err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"left": true})
}

func (h *Handler) EndCall(c *gin.Context) {
	sessionID, ok := pathID(c)
	if !ok {
		return
	}
	session, err := h.service.End(c.Request.Context(), sessionID, c.GetInt64("user_id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"session": session})
}

func (h *Handler) KickParticipant(c *gin.Context) {
	sessionID, ok := pathID(c)
	if !ok {
		return
	}
	var body KickBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if err := h.service.Kick(c.Request.Context(), sessionID, body.UserID, c.GetInt64("user_id")); err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"kicked": true})
}

func (h *Handler) DeleteCall(c *gin.Context) {
	sessionID, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), sessionID, c.GetInt64("user_id")); err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

func (h *Handler) GetCall(c *gin.Context) {
	sessionID, ok := pathID(c)
	if !ok {
		return
	}
	session, err := h.service.GetByID(c.Request.Context(), sessionID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"session": session})
}

func (h *Handler) ListPublicCalls(c *gin.Context) {
	sessions, err := h.service.ListPublic(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"sessions": sessions})
}

func (h *Handler) GetParticipants(c *gin.Context) {
	sessionID, ok := pathID(c)
	if !ok {
		return
	}
	participants, err := h.service.Participants(c.Request.Context(), sessionID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"participants": participants})
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Call session not found")
	case errors.Is(err, ErrFull):
		response.Error(c, http.StatusConflict, "CALL_FULL", "Call session is full")
	case errors.Is(err, ErrEnded):
		response.Error(c, http.StatusConflict, "CALL_ENDED", "Call session already ended")
	case errors.Is(err, ErrNotEmpty):
		response.Error(c, http.StatusConflict, "CALL_NOT_EMPTY", "Call session still has participants")
	case errors.Is(err, ErrAlreadyKicked):
		response.Error(c, http.StatusConflict, "ALREADY_REMOVED", "Participant already removed")
	case errors.Is(err, ErrGuestsNotAllowed):
		response.Error(c, http.StatusForbidden, "GUESTS_NOT_ALLOWED", "Guests are not allowed in this call")
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Only the call creator may do this")
	case errors.Is(err, ErrInvalidCapacity):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "max_participants must be between 2 and 50")
	case errors.Is(err, database.ErrContended):
		response.Error(c, http.StatusServiceUnavailable, "CONTENDED", "Resource busy, retry shortly")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Unexpected error")
	}
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid session ID")
		return 0, false
	}
	return id, true
}
