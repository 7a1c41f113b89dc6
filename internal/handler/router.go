package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"showcase-service/internal/handler/api"
	"showcase-service/internal/handler/middleware"
	"showcase-service/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

func NewRouter(engine *gin.Engine, cfg config.Config, showcaseHandler *api.ShowcaseHandler) {
	setupMiddleware(engine, cfg)
	setupRoutes(engine, showcaseHandler)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.LoggingMiddleware(nil))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(engine *gin.Engine, showcaseHandler *api.ShowcaseHandler) {
	engine.GET("/health", healthCheck)

	apiGroup := engine.Group("/api")
	{
		showcases := apiGroup.Group("/showcases")
		{
			addRoutes(showcases, []route{
				{Method: http.MethodPost, Path: "", Handler: showcaseHandler.Schedule},
				{Method: http.MethodGet, Path: "", Handler: showcaseHandler.List},
				{Method: http.MethodGet, Path: "/:id", Handler: showcaseHandler.Get},
				{Method: http.MethodPost, Path: "/:id/start", Handler: showcaseHandler.Start},
				{Method: http.MethodPost, Path: "/:id/finish", Handler: showcaseHandler.Finish},
				{Method: http.MethodDelete, Path: "/:id", Handler: showcaseHandler.Remove},
			})
		}
	}
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
