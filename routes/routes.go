package routes

import (
	"html/template"

	"warbler/handler"
	"warbler/middleware"
	"warbler/monitoring"
	"warbler/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Deps is everything the router needs wired in.
type Deps struct {
	Users    *service.UserService
	Follows  *service.FollowService
	Messages *service.MessageService
	Stats    *service.StatsService
	Hub      *handler.Hub

	// Glob for the HTML templates; tests pass a relative path.
	TemplatesGlob string
}

// SetupRoutes builds the gin engine with all routes registered. The
// routing logic is isolated here so tests can stand up the full app.
func SetupRoutes(deps Deps) *gin.Engine {
	homeHandler := handler.NewHomeHandler(deps.Messages)
	authHandler := handler.NewAuthHandler(deps.Users)
	userHandler := handler.NewUserHandler(deps.Users, deps.Follows, deps.Messages, deps.Stats)
	messageHandler := handler.NewMessageHandler(deps.Messages, deps.Stats)
	apiHandler := handler.NewAPIHandler(deps.Users, deps.Messages, deps.Stats)

	r := gin.New()
	r.Use(middleware.ErrorHandlerMiddleware())
	r.Use(monitoring.Middleware())

	// html/template elides comments, so page markers go through a func
	// that emits them as trusted HTML.
	r.SetFuncMap(template.FuncMap{
		"marker": func(name string) template.HTML {
			return template.HTML("<!-- Test: " + name + " -->")
		},
	})
	r.LoadHTMLGlob(deps.TemplatesGlob)

	r.Use(middleware.LoadCurrentUser(deps.Users))

	r.GET("/", homeHandler.Home)
	r.GET("/signup", authHandler.ShowSignup)
	r.POST("/signup", authHandler.Signup)
	r.GET("/login", authHandler.ShowLogin)
	r.POST("/login", authHandler.Login)
	r.POST("/logout", authHandler.Logout)

	// The user directory and individual profiles are public.
	r.GET("/users", userHandler.List)
	r.GET("/users/:id", userHandler.Show)
	r.GET("/messages/:id", messageHandler.Show)

	// Everything relationship- or write-shaped requires a session.
	auth := r.Group("", middleware.RequireLogin())
	{
		auth.GET("/users/:id/following", userHandler.Following)
		auth.GET("/users/:id/followers", userHandler.Followers)
		auth.GET("/users/:id/likes", userHandler.Likes)
		auth.POST("/users/follow/:id", userHandler.Follow)
		auth.POST("/users/stop-following/:id", userHandler.StopFollowing)
		auth.GET("/users/profile", userHandler.ShowProfile)
		auth.POST("/users/profile", userHandler.UpdateProfile)
		auth.POST("/users/delete", userHandler.Delete)

		auth.GET("/messages/new", messageHandler.New)
		auth.POST("/messages/new", messageHandler.Create)
		auth.POST("/messages/:id/delete", messageHandler.Delete)
		auth.POST("/messages/:id/like", messageHandler.ToggleLike)
	}

	// JSON API with bearer tokens.
	r.POST("/api/token", apiHandler.IssueToken)
	api := r.Group("/api", middleware.AuthMiddleware())
	{
		api.GET("/messages", apiHandler.Timeline)
		api.GET("/users/:id", apiHandler.ShowUser)
	}

	if deps.Hub != nil {
		r.GET("/ws", handler.HandleWebSocket(deps.Hub))
	}
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}
