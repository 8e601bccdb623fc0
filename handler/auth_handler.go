package handler

import (
	"errors"
	"net/http"

	"warbler/middleware"
	"warbler/monitoring"
	"warbler/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type AuthHandler struct {
	users *service.UserService
}

func NewAuthHandler(users *service.UserService) *AuthHandler {
	return &AuthHandler{users: users}
}

func (h *AuthHandler) ShowSignup(c *gin.Context) {
	render(c, http.StatusOK, "signup.html", nil)
}

// Signup creates the account and logs the new user straight in. Failures
// re-render the form; nothing is persisted on failure.
func (h *AuthHandler) Signup(c *gin.Context) {
	username := c.PostForm("username")
	email := c.PostForm("email")
	password := c.PostForm("password")
	imageURL := c.PostForm("image_url")

	user, err := h.users.Signup(username, email, password, imageURL)
	switch {
	case errors.Is(err, service.ErrPasswordRequired):
		middleware.Flash(c, "Password is required.")
		render(c, http.StatusOK, "signup.html", gin.H{"Username": username, "Email": email})
		return
	case errors.Is(err, gorm.ErrDuplicatedKey):
		middleware.Flash(c, "Username or email already taken.")
		render(c, http.StatusOK, "signup.html", gin.H{"Username": username, "Email": email})
		return
	case err != nil:
		logrus.Errorf("signup failed: %v", err)
		middleware.Flash(c, "Something went wrong, please try again.")
		render(c, http.StatusOK, "signup.html", nil)
		return
	}

	monitoring.SignupSuccess.Inc()
	middleware.LoginUser(c, user.ID)
	c.Redirect(http.StatusFound, "/")
}

func (h *AuthHandler) ShowLogin(c *gin.Context) {
	render(c, http.StatusOK, "login.html", nil)
}

func (h *AuthHandler) Login(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")

	user, err := h.users.Authenticate(username, password)
	if err != nil {
		monitoring.LoginFailure.Inc()
		middleware.Flash(c, "Invalid credentials.")
		render(c, http.StatusOK, "login.html", gin.H{"Username": username})
		return
	}

	monitoring.LoginSuccess.Inc()
	middleware.LoginUser(c, user.ID)
	middleware.Flash(c, "Hello, "+user.Username+"!")
	c.Redirect(http.StatusFound, "/")
}

func (h *AuthHandler) Logout(c *gin.Context) {
	middleware.LogoutUser(c)
	middleware.Flash(c, "You have successfully logged out.")
	c.Redirect(http.StatusFound, "/login")
}
