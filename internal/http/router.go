package http

import (
	"context"
	"log/slog"
	"time"

	"github.com/geocoder89/accounthub/internal/auth"
	"github.com/geocoder89/accounthub/internal/config"
	"github.com/geocoder89/accounthub/internal/http/handlers"
	"github.com/geocoder89/accounthub/internal/http/middlewares"
	"github.com/geocoder89/accounthub/internal/notifications"
	"github.com/geocoder89/accounthub/internal/observability"
	"github.com/geocoder89/accounthub/internal/repo/sqlite"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

const maxBodyBytes = 1 << 20 // 1 MiB

func NewRouter(log *slog.Logger, db *sqlx.DB, cfg config.Config, prom *observability.Prom, notifier notifications.Notifier) *gin.Engine {
	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	// middleware

	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger(log))
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.MaxBodyBytes(maxBodyBytes))
	r.Use(otelgin.Middleware("accounthub"))

	if prom != nil {
		r.Use(prom.GinHandleMiddleware())
	}

	// health
	ping := func() error {
		if db == nil {
			return nil
		}

		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
		defer cancel()

		return db.PingContext(ctx)
	}

	h := handlers.NewHealthHandler(ping)
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)

	if prom != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(prom.Registry, promhttp.HandlerOpts{})))
	}

	// wire up the store, token manager and notification dispatch
	accountsRepo := sqlite.NewAccountsRepo(db, prom)
	jwtManager := auth.NewManager(cfg.JWTSecret, time.Duration(cfg.JWTTTLMinutes)*time.Minute)
	dispatcher := notifications.NewDispatcher(notifier, log, prom, 10*time.Second)

	accountsHandler := handlers.NewAccountsHandler(accountsRepo, dispatcher)
	authMw := middlewares.NewAuthMiddleware(jwtManager, accountsRepo)

	// every account route sits behind the auth middleware; each
	// method+path pair is registered exactly once
	protected := r.Group("/", authMw.RequireAuth(), middlewares.RequireJSON())

	protected.POST("/accounts", accountsHandler.Create)
	protected.GET("/accounts", accountsHandler.List)
	protected.GET("/accounts/:id", accountsHandler.GetByID)
	protected.PUT("/accounts/:id/password", accountsHandler.UpdatePassword)
	protected.DELETE("/accounts/:id", accountsHandler.Delete)

	return r
}
