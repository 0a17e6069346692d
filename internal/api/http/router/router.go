package router

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/adarshalexbalmuchu/nextnode/internal/api/http/handler"
	"github.com/adarshalexbalmuchu/nextnode/internal/api/http/middleware"
	"github.com/adarshalexbalmuchu/nextnode/internal/cache"
	"github.com/adarshalexbalmuchu/nextnode/internal/logger"
	"github.com/adarshalexbalmuchu/nextnode/internal/model"
	"github.com/adarshalexbalmuchu/nextnode/internal/service"
)

// Pinger reports storage connectivity for health checks.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Router wires services, middleware and handlers into an HTTP server mux.
type Router struct {
	authService     *service.Auth
	blogService     *service.Blog
	commentService  *service.Comments
	bookmarkService *service.Bookmarks
	userService     *service.Users
	sessionService  *service.SessionService
	contextManager  model.ContextManager
	cache           *cache.Cache
	cacheTTL        time.Duration
	pinger          Pinger
	logger          *logger.Logger
}

// New creates a new Router instance.
func New(
	authService *service.Auth,
	blogService *service.Blog,
	commentService *service.Comments,
	bookmarkService *service.Bookmarks,
	userService *service.Users,
	sessionService *service.SessionService,
	contextManager model.ContextManager,
	cache *cache.Cache,
	cacheTTL time.Duration,
	pinger Pinger,
	logger *logger.Logger,
) *Router {
	return &Router{
		authService:     authService,
		blogService:     blogService,
		commentService:  commentService,
		bookmarkService: bookmarkService,
		userService:     userService,
		sessionService:  sessionService,
		contextManager:  contextManager,
		cache:           cache,
		cacheTTL:        cacheTTL,
		pinger:          pinger,
		logger:          logger,
	}
}

// Register builds the echo instance with all routes and middleware.
func (r *Router) Register() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	logging := middleware.NewLogging(r.logger)
	authenticate := middleware.NewAuthenticate(r.sessionService, r.contextManager, r.logger)

	e.Use(logging.Handle)
	e.Use(echomiddleware.Recover())

	authHandler := handler.NewAuth(r.authService, r.logger)
	blogHandler := handler.NewBlog(r.blogService, r.cache, r.cacheTTL, r.logger)
	commentHandler := handler.NewComment(r.commentService, r.logger)
	bookmarkHandler := handler.NewBookmark(r.bookmarkService, r.logger)
	userHandler := handler.NewUser(r.userService, r.logger)

	e.GET("/healthz", func(c echo.Context) error {
		if err := r.pinger.Ping(c.Request().Context()); err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		}
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	api := e.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/sign-up", authHandler.SignUp)
	auth.POST("/sign-in", authHandler.SignIn)
	auth.POST("/sign-out", authHandler.SignOut)
	auth.POST("/refresh", authHandler.Refresh)

	// Public content surface.
	api.GET("/posts", blogHandler.ListPublished)
	api.GET("/posts/:slug", blogHandler.GetBySlug)
	api.GET("/categories", blogHandler.ListCategories)
	api.GET("/posts/:id/comments", commentHandler.ListByPost)

	// Session-scoped surface.
	authed := api.Group("", authenticate.Require)
	authed.POST("/posts/:id/comments", commentHandler.Create)
	authed.PUT("/comments/:id", commentHandler.Update)
	authed.DELETE("/comments/:id", commentHandler.Delete)
	authed.GET("/bookmarks", bookmarkHandler.List)
	authed.PUT("/bookmarks/:id", bookmarkHandler.Add)
	authed.DELETE("/bookmarks/:id", bookmarkHandler.Remove)
	authed.GET("/bookmarks/:id", bookmarkHandler.Status)

	// Authoring and administration. Role checks happen in the services, on
	// a fresh role lookup per request.
	admin := api.Group("/admin", authenticate.Require)
	admin.GET("/posts", blogHandler.ListAll)
	admin.POST("/posts", blogHandler.Create)
	admin.PUT("/posts/:id", blogHandler.Update)
	admin.DELETE("/posts/:id", blogHandler.Delete)
	admin.POST("/images", blogHandler.UploadImage)
	admin.GET("/users", userHandler.List)
	admin.PUT("/users/:id/role", userHandler.UpdateRole)

	return e
}
