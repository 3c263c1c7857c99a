package server

import (
	"context"
	"errors"
	"expvar"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/juanpablosotoc/zartex/config"
	"github.com/juanpablosotoc/zartex/internal/auth"
	"github.com/juanpablosotoc/zartex/internal/image"
	"github.com/juanpablosotoc/zartex/internal/logging"
	"github.com/juanpablosotoc/zartex/internal/stats"
	"github.com/juanpablosotoc/zartex/internal/store"
	"github.com/juanpablosotoc/zartex/internal/types"
)

// TokenIssuer signs access tokens for authenticated clients.
type TokenIssuer interface {
	IssueToken(clientID int64) (string, error)
}

// Auditor records admin mutations. Failures are logged, never surfaced.
type Auditor interface {
	PutItem(ctx context.Context, item any) error
}

// Deps are the collaborators injected into the HTTP server. Audit may be
// nil when no audit table is configured.
type Deps struct {
	DB       store.Store
	Auth     auth.Authorizer
	Tokens   TokenIssuer
	Pipeline *image.Pipeline
	Audit    Auditor
	Log      logging.Logger
}

type HttpServer struct {
	engine *gin.Engine
	config *config.Config
}

type handlers struct {
	auth     auth.Authorizer
	tokens   TokenIssuer
	db       store.Store
	pipeline *image.Pipeline
	audit    Auditor
	stat     *stats.Statistic
	log      logging.Logger
}

func New(cfg *config.Config, deps Deps) (*HttpServer, error) {
	server := &HttpServer{config: cfg}
	if err := server.init(deps); err != nil {
		return nil, err
	}
	return server, nil
}

func (s *HttpServer) init(deps Deps) error {
	if !s.config.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(securityHeaders())

	h := &handlers{
		auth:     deps.Auth,
		tokens:   deps.Tokens,
		db:       deps.DB,
		pipeline: deps.Pipeline,
		audit:    deps.Audit,
		log:      deps.Log,
	}

	if s.config.AllowedOrigins != nil && s.config.AllowedMethods != nil {
		router.Use(cors.New(cors.Config{
			AllowOrigins: s.config.AllowedOrigins,
			AllowMethods: s.config.AllowedMethods,
			AllowHeaders: s.config.AllowedHeaders,
		}))
	}

	router.GET("/healthcheck", h.healthCheck(time.Now().UTC()))

	if s.config.Options != nil && s.config.Options.EnableStats {
		h.stat = stats.NewStatistic()

		router.Use(func(c *gin.Context) {
			start := time.Now()
			c.Next()
			h.stat.Record(fmt.Sprintf("%d", c.Writer.Status()), time.Since(start), c.Writer.Size())
		})

		router.GET("/sys/stats", func(c *gin.Context) {
			c.JSON(http.StatusOK, h.stat.GatherData())
		})
	}

	if s.config.Options != nil && s.config.Options.EnableHealth {
		restrict := RestrictIPAddresses(s.config.Options.AllowedIPAddresses)
		router.GET("/sys/health", restrict, gin.WrapH(expvar.Handler()))
		router.GET("/sys/info", restrict, h.sysInfo())
	}

	v1 := router.Group("/api/v1")

	users := v1.Group("/users")
	{
		users.POST("/clients", h.clientCreate())
		users.POST("/token", h.tokenPost())

		me := users.Group("")
		me.Use(h.requireAuth())
		{
			me.GET("/clients/me", h.clientMe())
			me.PUT("/clients/me", h.clientUpdateMe())
			me.DELETE("/clients/me", h.clientDeleteMe())
			me.GET("/clients/:id", h.requireAdmin(), h.clientGet())

			me.POST("/addresses", h.addressCreate())
			me.GET("/addresses", h.addressList())
			me.GET("/addresses/:id", h.addressGet())
			me.DELETE("/addresses/:id", h.addressDelete())
		}
	}

	products := v1.Group("/products")
	{
		products.GET("", h.productList())
		products.GET("/:id", h.productGet())

		admin := products.Group("")
		admin.Use(h.requireAuth(), h.requireAdmin())
		{
			admin.POST("", h.productCreate())
			admin.PUT("/:id", h.productUpdate())
			admin.DELETE("/:id", h.productDelete())
		}
	}

	assets := v1.Group("/assets")
	{
		assets.GET("/images/:id", h.imageGet())

		admin := assets.Group("")
		admin.Use(h.requireAuth(), h.requireAdmin())
		{
			admin.POST("/images", h.imagePost())
			admin.DELETE("/images/:id", h.imageDelete())
		}
	}

	s.engine = router
	return nil
}

// ServeHTTP lets tests drive the server through httptest without a listener.
func (s *HttpServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.engine.ServeHTTP(w, r)
}

func (s *HttpServer) Run() error {
	return s.engine.Run(fmt.Sprintf(":%d", s.config.Port))
}

// abortError converts an error to the JSON error shape. Anything that is
// not a typed *types.Error is treated as an internal failure and its
// message kept out of the response body.
func (h *handlers) abortError(c *gin.Context, err error) {
	var typed *types.Error
	if errors.As(err, &typed) {
		if typed.Status() >= http.StatusInternalServerError {
			h.log.Error(c.Request.Context(), "request failed", "code", typed.Code, "error", typed.Error())
		}
		c.AbortWithStatusJSON(typed.Status(), gin.H{"detail": typed.Detail})
		return
	}
	h.log.Error(c.Request.Context(), "request failed", "error", err.Error())
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"detail": "Internal server error"})
}

// auditRecord writes an audit item, best-effort.
func (h *handlers) auditRecord(c *gin.Context, action string, subjectID int64) {
	if h.audit == nil {
		return
	}
	actor, _ := currentClient(c)
	item := map[string]any{
		"id":         fmt.Sprintf("%s-%d-%d", action, subjectID, time.Now().UnixNano()),
		"action":     action,
		"subject_id": subjectID,
		"at":         time.Now().UTC().Format(time.RFC3339),
	}
	if actor != nil {
		item["actor_id"] = actor.ID
	}
	if err := h.audit.PutItem(c.Request.Context(), item); err != nil {
		h.log.Warn(c.Request.Context(), "failed to write audit item", "action", action, "error", err.Error())
	}
}
