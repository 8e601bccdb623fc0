package handler

import (
	"net/http"

	"warbler/middleware"

	"github.com/gin-gonic/gin"
)

// render executes an HTML template with the current user and any pending
// flash messages merged into the data.
func render(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	if user, ok := middleware.CurrentUser(c); ok {
		data["CurrentUser"] = user
	}
	data["Flashes"] = middleware.Flashes(c)
	c.HTML(status, name, data)
}

func notFoundPage(c *gin.Context) {
	c.String(http.StatusNotFound, "404 Not Found")
	c.Abort()
}
