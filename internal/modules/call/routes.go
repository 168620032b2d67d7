package call

import "github.com/gin-gonic/gin"

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/calls", h.CreateCall)
	rg.GET("/calls", h.ListPublicCalls)
	rg.GET("/calls/:id", h.GetCall)
	rg.GET("/calls/:id/participants", h.GetParticipants)
	rg.POST("/calls/:id/join", h.JoinCall)
	rg.POST("/calls/:id/leave", h.LeaveCall)
	rg.POST("/calls/:id/end", h.EndCall)
	rg.POST("/calls/:id/kick", h.KickParticipant)
	rg.DELETE("/calls/:id", h.DeleteCall)
}
