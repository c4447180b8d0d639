package routes

import (
	"github.com/chaincanvas/chaincanvas-backend/internal/api/http/middleware"
	chainhttp "github.com/chaincanvas/chaincanvas-backend/internal/chain/http"
	"github.com/chaincanvas/chaincanvas-backend/internal/gallery"
	galleryhttp "github.com/chaincanvas/chaincanvas-backend/internal/gallery/http"
	gashttp "github.com/chaincanvas/chaincanvas-backend/internal/gas_optimization/http"
	gasservice "github.com/chaincanvas/chaincanvas-backend/internal/gas_optimization/service"
	minthttp "github.com/chaincanvas/chaincanvas-backend/internal/minting/http"
	mintservice "github.com/chaincanvas/chaincanvas-backend/internal/minting/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// V1Deps carries the feature services. Nil features are not mounted,
// except Orchestrator which is required.
type V1Deps struct {
	Orchestrator *gasservice.Orchestrator
	Limiter      *middleware.RateLimiter
	Gallery      *gallery.Service
	Mint         *mintservice.MintService
	GasPrices    chainhttp.PriceSource
	Logger       *zap.Logger
}

func RegisterV1(r gin.IRouter, dep V1Deps) {
	api := r.Group("/api/v1")

	var limit []gin.HandlerFunc
	if dep.Limiter != nil {
		limit = append(limit, dep.Limiter.Middleware())
	}
	gashttp.New(dep.Orchestrator, dep.Logger).Register(api, limit...)

	if dep.GasPrices != nil {
		chainhttp.New(dep.GasPrices, dep.Logger).Register(api)
	}
	if dep.Gallery != nil {
		galleryhttp.New(dep.Gallery, dep.Logger).Register(api)
	}
	if dep.Mint != nil {
		minthttp.New(dep.Mint, dep.Logger).Register(api)
	}
}
