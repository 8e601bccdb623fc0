package handler

import (
	"time"

	"warbler/middleware"
	"warbler/service"
	"warbler/utils"

	"github.com/gin-gonic/gin"
)

const tokenTTL = 24 * time.Hour

// APIHandler serves the small JSON surface used by programmatic clients.
// Auth here is bearer tokens, not the browser session.
type APIHandler struct {
	users    *service.UserService
	messages *service.MessageService
	stats    *service.StatsService
}

func NewAPIHandler(users *service.UserService, messages *service.MessageService, stats *service.StatsService) *APIHandler {
	return &APIHandler{users: users, messages: messages, stats: stats}
}

type messageDTO struct {
	ID        uint      `json:"id"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
	UserID    uint      `json:"user_id"`
	Username  string    `json:"username"`
}

// IssueToken exchanges username/password for a signed API token.
func (h *APIHandler) IssueToken(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	user, err := h.users.Authenticate(req.Username, req.Password)
	if err != nil {
		utils.Unauthorized(c, "invalid credentials")
		return
	}

	token, err := middleware.GenerateToken(user.ID, tokenTTL)
	if err != nil {
		utils.InternalServerError(c, "failed to issue token")
		return
	}
	utils.SuccessResponse(c, gin.H{"token": token, "user_id": user.ID})
}

// Timeline returns the caller's home timeline.
func (h *APIHandler) Timeline(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		utils.Unauthorized(c, "unauthorized")
		return
	}

	msgs, err := h.messages.HomeTimeline(userID, timelineLimit)
	if err != nil {
		utils.InternalServerError(c, "failed to load timeline")
		return
	}

	out := make([]messageDTO, len(msgs))
	for i, m := range msgs {
		out[i] = messageDTO{
			ID:        m.ID,
			Text:      m.Text,
			Timestamp: m.Timestamp,
			UserID:    m.UserID,
			Username:  m.User.Username,
		}
	}
	utils.SuccessResponse(c, gin.H{"messages": out})
}

// ShowUser returns a profile with its counters.
func (h *APIHandler) ShowUser(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		utils.BadRequest(c, "invalid user id")
		return
	}

	user, err := h.users.GetByID(id)
	if err != nil {
		utils.NotFound(c, "user not found")
		return
	}
	stats, err := h.stats.ForUser(c.Request.Context(), user.ID)
	if err != nil {
		utils.InternalServerError(c, "failed to load stats")
		return
	}
	utils.SuccessResponse(c, gin.H{"user": user, "stats": stats})
}
