package bootstrap

import (
	"database/sql"
	"time"

	httpapi "github.com/chaincanvas/chaincanvas-backend/internal/api/http"
	"github.com/chaincanvas/chaincanvas-backend/internal/api/http/middleware"
	"github.com/chaincanvas/chaincanvas-backend/internal/api/http/routes"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type RouterDeps struct {
	ServiceName    string
	Version        string
	AllowedOrigins []string
	Logger         *zap.Logger
	DB             *sql.DB
	Redis          *redis.Client
	// Registry enables /metrics and the HTTP metrics middleware when set.
	Registry *prometheus.Registry
	V1       routes.V1Deps
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	logger := dep.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.AccessLog(logger))
	if dep.Registry != nil {
		r.Use(middleware.NewMetrics(dep.Registry).Middleware())
	}
	if len(dep.AllowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     dep.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
			ExposeHeaders:    []string{middleware.RequestIDHeader},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.DB, dep.Redis)
	healthHandler.RegisterRoutes(r)

	if dep.Registry != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(dep.Registry, promhttp.HandlerOpts{})))
	}

	if dep.V1.Logger == nil {
		dep.V1.Logger = logger
	}
	routes.RegisterV1(r, dep.V1)

	return r
}
