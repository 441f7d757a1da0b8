package server

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/arcturial/clickatell/internal/docs" // swagger docs
	"github.com/arcturial/clickatell/pkg/callback"
	"github.com/arcturial/clickatell/pkg/events"
	"github.com/arcturial/clickatell/pkg/metrics"
)

// Check is a named readiness probe.
type Check func(ctx context.Context) error

// RouterDeps are the collaborators of the HTTP router.
type RouterDeps struct {
	Store     CallbackStore
	Status    StatusStore
	Publisher events.EventPublisher
	Metrics   *metrics.Metrics
	Guard     *callback.Guard

	// Checks run on /health, keyed by component name.
	Checks        map[string]Check
	HealthTimeout time.Duration
}

// healthOutput is the body of /health.
type healthOutput struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// NewRouter builds the gin engine serving callbacks, health, metrics and docs.
func NewRouter(d RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())

	h := &callbackHandler{
		store:     d.Store,
		status:    d.Status,
		publisher: d.Publisher,
		metrics:   d.Metrics,
	}

	cb := r.Group("/callback", guardMiddleware(d.Guard))
	cb.GET("/mt", h.HandleMT)
	cb.POST("/mt", h.HandleMT)
	cb.GET("/mo", h.HandleMO)
	cb.POST("/status", h.HandleRESTStatus)
	cb.POST("/reply", h.HandleRESTReply)

	r.GET("/health", handleHealth(d.Checks, d.HealthTimeout))
	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, map[string]string{"status": "ready"})
	})
	if d.Metrics != nil {
		r.GET("/metrics", gin.WrapH(d.Metrics.Handler()))
	}
	r.GET("/swagger/*any", gin.WrapH(httpSwagger.WrapHandler))

	r.NoRoute(func(c *gin.Context) {
		respondError(c, http.StatusNotFound, "NOT_FOUND", "route not found")
	})
	return r
}

// handleHealth godoc
// @Summary     Health
// @Description Runs the component checks. Any failure answers 503.
// @Tags        health
// @Produce     json
// @Success     200 {object} healthOutput
// @Failure     503 {object} healthOutput
// @Router      /health [get]
func handleHealth(checks map[string]Check, timeout time.Duration) gin.HandlerFunc {
	names := make([]string, 0, len(checks))
	for name := range checks {
		names = append(names, name)
	}
	sort.Strings(names)

	return func(c *gin.Context) {
		ctx := c.Request.Context()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}

		out := healthOutput{Status: "healthy", Checks: make(map[string]string, len(names))}
		for _, name := range names {
			if err := checks[name](ctx); err != nil {
				out.Status = "unhealthy"
				out.Checks[name] = err.Error()
				continue
			}
			out.Checks[name] = "ok"
		}

		status := http.StatusOK
		if out.Status != "healthy" {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, out)
	}
}
