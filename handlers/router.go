package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HealthChecker reports whether the backing store is reachable
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// RouterDeps are the collaborators wired into the router
type RouterDeps struct {
	FaqHandler *FaqHandler
	Identity   IdentityResolver
	Health     HealthChecker
	Logger     *slog.Logger
}

// SetupRouter builds the gin engine with middleware and routes
func SetupRouter(deps RouterDeps) *gin.Engine {
	if deps.Identity == nil {
		deps.Identity = BearerIdentity{}
	}

	r := gin.New()
	r.Use(gin.Recovery(), RequestID(), Logger(deps.Logger), Cors(), Identity(deps.Identity))

	r.GET("/health", func(c *gin.Context) {
		if deps.Health != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := deps.Health.Ping(ctx); err != nil {
				deps.Logger.Warn("health check failed", "error", err)
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		api.POST("/generate-faq", deps.FaqHandler.GenerateFaq)
		api.GET("/faq/:id", deps.FaqHandler.GetFaq)
		api.GET("/faq/:id/download", deps.FaqHandler.DownloadFaq)
	}

	deps.Logger.Info("routes registered", "identity", describeResolver(deps.Identity))
	return r
}
