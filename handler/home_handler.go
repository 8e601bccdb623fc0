package handler

import (
	"net/http"

	"warbler/middleware"
	"warbler/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const timelineLimit = 100

type HomeHandler struct {
	messages *service.MessageService
}

func NewHomeHandler(messages *service.MessageService) *HomeHandler {
	return &HomeHandler{messages: messages}
}

// Home renders the timeline of followed users for an authenticated
// session, and the anonymous landing page otherwise.
func (h *HomeHandler) Home(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		render(c, http.StatusOK, "home_anon.html", nil)
		return
	}

	timeline, err := h.messages.HomeTimeline(user.ID, timelineLimit)
	if err != nil {
		logrus.Errorf("home timeline failed: %v", err)
	}
	liked, err := h.messages.LikedMessageIDs(user.ID)
	if err != nil {
		logrus.Errorf("liked ids failed: %v", err)
	}

	render(c, http.StatusOK, "home.html", gin.H{
		"Messages": timeline,
		"Liked":    liked,
	})
}
