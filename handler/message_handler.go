package handler

import (
	"errors"
	"fmt"
	"net/http"

	"warbler/middleware"
	"warbler/monitoring"
	"warbler/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type MessageHandler struct {
	messages *service.MessageService
	stats    *service.StatsService
}

func NewMessageHandler(messages *service.MessageService, stats *service.StatsService) *MessageHandler {
	return &MessageHandler{messages: messages, stats: stats}
}

// New renders the warble composer. Gated by RequireLogin.
func (h *MessageHandler) New(c *gin.Context) {
	render(c, http.StatusOK, "message_new.html", nil)
}

// Create posts a warble for the current user. Gated by RequireLogin.
func (h *MessageHandler) Create(c *gin.Context) {
	curr, _ := middleware.CurrentUser(c)
	text := c.PostForm("text")

	_, err := h.messages.Create(curr.ID, text)
	switch {
	case errors.Is(err, service.ErrEmptyText), errors.Is(err, service.ErrTextTooLong):
		middleware.Flash(c, err.Error())
		render(c, http.StatusOK, "message_new.html", gin.H{"Text": text})
		return
	case err != nil:
		logrus.Errorf("create message failed: %v", err)
		middleware.Flash(c, "Something went wrong, please try again.")
		render(c, http.StatusOK, "message_new.html", gin.H{"Text": text})
		return
	}

	monitoring.WarblesPosted.Inc()
	h.stats.Invalidate(c.Request.Context(), curr.ID)
	c.Redirect(http.StatusFound, fmt.Sprintf("/users/%d", curr.ID))
}

// Show renders a single warble with the users who liked it.
func (h *MessageHandler) Show(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		notFoundPage(c)
		return
	}
	msg, err := h.messages.Get(id)
	if err != nil {
		notFoundPage(c)
		return
	}

	likers, err := h.messages.UsersWhoLiked(msg.ID)
	if err != nil {
		logrus.Errorf("likers failed: %v", err)
	}
	render(c, http.StatusOK, "message_show.html", gin.H{"Message": msg, "Likers": likers})
}

// Delete removes the current user's own warble. Gated by RequireLogin.
func (h *MessageHandler) Delete(c *gin.Context) {
	curr, _ := middleware.CurrentUser(c)
	id, ok := paramID(c)
	if !ok {
		notFoundPage(c)
		return
	}

	if err := h.messages.Delete(curr.ID, id); err != nil {
		if errors.Is(err, service.ErrNotAuthor) {
			middleware.Flash(c, "Access unauthorized.")
			c.Redirect(http.StatusFound, "/")
			return
		}
		logrus.Errorf("delete message failed: %v", err)
	}
	h.stats.Invalidate(c.Request.Context(), curr.ID)
	c.Redirect(http.StatusFound, fmt.Sprintf("/users/%d", curr.ID))
}

// ToggleLike likes the warble if it is not yet liked by the current user
// and unlikes it otherwise. Gated by RequireLogin.
func (h *MessageHandler) ToggleLike(c *gin.Context) {
	curr, _ := middleware.CurrentUser(c)
	id, ok := paramID(c)
	if !ok {
		notFoundPage(c)
		return
	}

	liked, err := h.messages.IsLiked(curr.ID, id)
	if err != nil {
		logrus.Errorf("like lookup failed: %v", err)
		c.Redirect(http.StatusFound, "/")
		return
	}

	if liked {
		err = h.messages.Unlike(curr.ID, id)
	} else {
		err = h.messages.Like(curr.ID, id)
	}
	if err != nil {
		if errors.Is(err, service.ErrLikeOwnMessage) {
			middleware.Flash(c, "You cannot like your own warble.")
		} else {
			logrus.Errorf("toggle like failed: %v", err)
		}
	}
	h.stats.Invalidate(c.Request.Context(), curr.ID)
	c.Redirect(http.StatusFound, "/")
}
