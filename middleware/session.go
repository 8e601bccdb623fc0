package middleware

import (
	"net/http"

	"warbler/model"
	"warbler/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
)

// SessionName is the cookie holding the session.
const SessionName = "warbler-session"

// CurrUserKey is the session key under which the authenticated user's id
// is stored. Absence of the key means the request is anonymous.
const CurrUserKey = "curr_user"

// ctxUserKey is the gin context key for the resolved current user.
const ctxUserKey = "current_user"

var store *sessions.CookieStore

// InitSession configures the cookie store. Must be called before any
// handler runs.
func InitSession(secret string) {
	store = sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 30,
		HttpOnly: true,
	}
}

func getSession(c *gin.Context) *sessions.Session {
	// Get never fails for CookieStore; a bad cookie yields a fresh
	// session.
	s, _ := store.Get(c.Request, SessionName)
	return s
}

// LoginUser binds the session to userID.
func LoginUser(c *gin.Context, userID uint) error {
	s := getSession(c)
	s.Values[CurrUserKey] = userID
	return s.Save(c.Request, c.Writer)
}

// LogoutUser drops the user id from the session.
func LogoutUser(c *gin.Context) error {
	s := getSession(c)
	delete(s.Values, CurrUserKey)
	return s.Save(c.Request, c.Writer)
}

// Flash queues a one-shot message for the next rendered page.
func Flash(c *gin.Context, msg string) {
	s := getSession(c)
	s.AddFlash(msg)
	s.Save(c.Request, c.Writer)
}

// Flashes pops all queued flash messages.
func Flashes(c *gin.Context) []string {
	s := getSession(c)
	raw := s.Flashes()
	if len(raw) == 0 {
		return nil
	}
	s.Save(c.Request, c.Writer)

	msgs := make([]string, 0, len(raw))
	for _, f := range raw {
		if msg, ok := f.(string); ok {
			msgs = append(msgs, msg)
		}
	}
	return msgs
}

// LoadCurrentUser resolves the session to a user on every request. A
// session pointing at a deleted user is cleared.
func LoadCurrentUser(users *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		s := getSession(c)
		if raw, ok := s.Values[CurrUserKey]; ok {
			if id, ok := raw.(uint); ok {
				if user, err := users.GetByID(id); err == nil {
					c.Set(ctxUserKey, user)
				} else {
					delete(s.Values, CurrUserKey)
					s.Save(c.Request, c.Writer)
				}
			}
		}
		c.Next()
	}
}

// CurrentUser returns the user resolved by LoadCurrentUser, if any.
func CurrentUser(c *gin.Context) (*model.User, bool) {
	raw, exists := c.Get(ctxUserKey)
	if !exists {
		return nil, false
	}
	user, ok := raw.(*model.User)
	return user, ok
}

// RequireLogin gates a route: anonymous requests are flashed and sent
// back to the anonymous home page rather than erroring.
func RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentUser(c); !ok {
			Flash(c, "Access unauthorized.")
			c.Redirect(http.StatusFound, "/")
			c.Abort()
			return
		}
		c.Next()
	}
}
