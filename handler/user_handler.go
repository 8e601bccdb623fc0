package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"warbler/middleware"
	"warbler/model"
	"warbler/monitoring"
	"warbler/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type UserHandler struct {
	users    *service.UserService
	follows  *service.FollowService
	messages *service.MessageService
	stats    *service.StatsService
}

func NewUserHandler(users *service.UserService, follows *service.FollowService, messages *service.MessageService, stats *service.StatsService) *UserHandler {
	return &UserHandler{users: users, follows: follows, messages: messages, stats: stats}
}

func paramID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}

// lookupUser loads the user in :id or writes a 404.
func (h *UserHandler) lookupUser(c *gin.Context) (*model.User, bool) {
	id, ok := paramID(c)
	if !ok {
		notFoundPage(c)
		return nil, false
	}
	user, err := h.users.GetByID(id)
	if err != nil {
		notFoundPage(c)
		return nil, false
	}
	return user, true
}

// List shows all users; open to anonymous visitors. An optional q
// parameter filters by username substring.
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.users.List(c.Query("q"))
	if err != nil {
		logrus.Errorf("list users failed: %v", err)
	}
	render(c, http.StatusOK, "users_index.html", gin.H{
		"Users": users,
		"Query": c.Query("q"),
	})
}

// Show renders a user's profile with their warbles and counters.
func (h *UserHandler) Show(c *gin.Context) {
	user, ok := h.lookupUser(c)
	if !ok {
		return
	}

	msgs, err := h.messages.ForUser(user.ID, timelineLimit)
	if err != nil {
		logrus.Errorf("user messages failed: %v", err)
	}
	stats, err := h.stats.ForUser(c.Request.Context(), user.ID)
	if err != nil {
		logrus.Errorf("user stats failed: %v", err)
	}

	data := gin.H{"User": user, "Messages": msgs, "Stats": stats}
	if curr, ok := middleware.CurrentUser(c); ok {
		if liked, err := h.messages.LikedMessageIDs(curr.ID); err == nil {
			data["Liked"] = liked
		}
	}
	render(c, http.StatusOK, "users_show.html", data)
}

// Following lists who the user follows. Gated by RequireLogin.
func (h *UserHandler) Following(c *gin.Context) {
	user, ok := h.lookupUser(c)
	if !ok {
		return
	}
	following, err := h.follows.Following(user.ID)
	if err != nil {
		logrus.Errorf("following list failed: %v", err)
	}
	render(c, http.StatusOK, "following.html", gin.H{"User": user, "Following": following})
}

// Followers lists who follows the user. Gated by RequireLogin.
func (h *UserHandler) Followers(c *gin.Context) {
	user, ok := h.lookupUser(c)
	if !ok {
		return
	}
	followers, err := h.follows.Followers(user.ID)
	if err != nil {
		logrus.Errorf("followers list failed: %v", err)
	}
	render(c, http.StatusOK, "followers.html", gin.H{"User": user, "Followers": followers})
}

// Likes lists the warbles the user has liked. Gated by RequireLogin.
func (h *UserHandler) Likes(c *gin.Context) {
	user, ok := h.lookupUser(c)
	if !ok {
		return
	}
	msgs, err := h.messages.LikedBy(user.ID)
	if err != nil {
		logrus.Errorf("liked messages failed: %v", err)
	}
	render(c, http.StatusOK, "likes.html", gin.H{"User": user, "Messages": msgs})
}

// Follow creates the edge current user -> :id and bounces back to the
// current user's following page. Gated by RequireLogin.
func (h *UserHandler) Follow(c *gin.Context) {
	curr, _ := middleware.CurrentUser(c)
	target, ok := h.lookupUser(c)
	if !ok {
		return
	}

	if err := h.follows.Follow(curr.ID, target.ID); err != nil {
		if errors.Is(err, service.ErrSelfFollow) {
			middleware.Flash(c, "You cannot follow yourself.")
			c.Redirect(http.StatusFound, "/users")
			return
		}
		logrus.Errorf("follow failed: %v", err)
		middleware.Flash(c, "Something went wrong, please try again.")
		c.Redirect(http.StatusFound, "/users")
		return
	}

	monitoring.FollowsCreated.Inc()
	h.stats.Invalidate(c.Request.Context(), curr.ID, target.ID)
	c.Redirect(http.StatusFound, fmt.Sprintf("/users/%d/following", curr.ID))
}

// StopFollowing removes the edge current user -> :id. Gated by
// RequireLogin.
func (h *UserHandler) StopFollowing(c *gin.Context) {
	curr, _ := middleware.CurrentUser(c)
	target, ok := h.lookupUser(c)
	if !ok {
		return
	}

	if err := h.follows.Unfollow(curr.ID, target.ID); err != nil {
		logrus.Errorf("unfollow failed: %v", err)
	}
	h.stats.Invalidate(c.Request.Context(), curr.ID, target.ID)
	c.Redirect(http.StatusFound, fmt.Sprintf("/users/%d/following", curr.ID))
}

// ShowProfile renders the edit form for the current user's own profile.
// Gated by RequireLogin.
func (h *UserHandler) ShowProfile(c *gin.Context) {
	curr, _ := middleware.CurrentUser(c)
	render(c, http.StatusOK, "profile_edit.html", gin.H{"User": curr})
}

// UpdateProfile applies profile edits after re-checking the password.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	curr, _ := middleware.CurrentUser(c)

	if _, err := h.users.Authenticate(curr.Username, c.PostForm("password")); err != nil {
		middleware.Flash(c, "Wrong password, please try again.")
		c.Redirect(http.StatusFound, "/")
		return
	}

	curr.Username = c.PostForm("username")
	curr.Email = c.PostForm("email")
	curr.ImageURL = c.PostForm("image_url")
	curr.HeaderImageURL = c.PostForm("header_image_url")
	curr.Bio = c.PostForm("bio")
	curr.Location = c.PostForm("location")

	if err := h.users.Update(curr); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			middleware.Flash(c, "Username or email already taken.")
		} else {
			logrus.Errorf("profile update failed: %v", err)
			middleware.Flash(c, "Something went wrong, please try again.")
		}
		render(c, http.StatusOK, "profile_edit.html", gin.H{"User": curr})
		return
	}

	c.Redirect(http.StatusFound, fmt.Sprintf("/users/%d", curr.ID))
}

// Delete removes the current user's account and everything hanging off
// it, then ends the session. Gated by RequireLogin.
func (h *UserHandler) Delete(c *gin.Context) {
	curr, _ := middleware.CurrentUser(c)

	middleware.LogoutUser(c)
	if err := h.users.Delete(curr.ID); err != nil {
		logrus.Errorf("delete user failed: %v", err)
	}
	h.stats.Invalidate(c.Request.Context(), curr.ID)
	c.Redirect(http.StatusFound, "/signup")
}
