package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chaincanvas/chaincanvas-backend/config"
	"github.com/chaincanvas/chaincanvas-backend/internal/api/http/middleware"
	"github.com/chaincanvas/chaincanvas-backend/internal/api/http/routes"
	"github.com/chaincanvas/chaincanvas-backend/internal/bootstrap"
	"github.com/chaincanvas/chaincanvas-backend/internal/chain"
	cronjob "github.com/chaincanvas/chaincanvas-backend/internal/cron"
	"github.com/chaincanvas/chaincanvas-backend/internal/gallery"
	"github.com/chaincanvas/chaincanvas-backend/internal/gas_optimization/service"
	"github.com/chaincanvas/chaincanvas-backend/internal/gas_optimization/suggestion"
	"github.com/chaincanvas/chaincanvas-backend/internal/gas_optimization/validator"
	"github.com/chaincanvas/chaincanvas-backend/internal/logging"
	"github.com/chaincanvas/chaincanvas-backend/internal/minting/ipfs"
	"github.com/chaincanvas/chaincanvas-backend/internal/minting/repository"
	mintservice "github.com/chaincanvas/chaincanvas-backend/internal/minting/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

const serviceName = "chaincanvas-api"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	bootstrap.SetGinMode(cfg.App.Environment)

	logger, err := logging.New(cfg.App.Environment, cfg.App.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	if err := run(cfg, logger); err != nil {
		logger.Fatal("api exited", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var reg *prometheus.Registry
	var llmMetrics *suggestion.Metrics
	if cfg.App.MetricsEnabled {
		reg = prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		llmMetrics = suggestion.NewMetrics(reg)
	}

	suggester, closeLLM, err := bootstrap.NewSuggester(ctx, cfg.LLM, logger, llmMetrics)
	if err != nil {
		return err
	}
	defer closeLLM() //nolint:errcheck
	orchestrator := service.NewOrchestrator(validator.New(cfg.GasOptimizer.MinGasPriceGwei), suggester, logger)
	logger.Info("gas optimizer ready", zap.String("provider", cfg.LLM.Provider))

	db, err := bootstrap.OpenDB(ctx, bootstrap.DBOptions{DSN: cfg.Database.PostgresDSN()})
	if err != nil {
		if !cfg.Database.Optional {
			return err
		}
		logger.Warn("database unavailable, mint records disabled", zap.Error(err))
		db = nil
	}
	if db != nil {
		defer db.Close()
	}

	rdb, err := bootstrap.OpenRedis(ctx, bootstrap.RedisOptions{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		logger.Warn("redis unavailable, caching disabled", zap.Error(err))
		rdb = nil
	}
	if rdb != nil {
		defer rdb.Close()
	}

	v1 := routes.V1Deps{
		Orchestrator: orchestrator,
		Limiter:      middleware.NewRateLimiter(cfg.Server.RateLimitRPS, cfg.Server.RateLimitBurst),
		Logger:       logger,
	}

	var oracle *chain.GasPriceOracle
	var contract mintservice.ContractReader
	eth, err := chain.Dial(ctx, cfg.Chain.RPCURL, cfg.Chain.ChainID)
	if err != nil {
		logger.Warn("chain rpc unavailable, gas price and contract routes disabled", zap.Error(err))
	} else {
		defer eth.Close()
		oracle = chain.NewGasPriceOracle(eth, rdb, cfg.Chain.ChainID, logger)
		v1.GasPrices = oracle

		c, err := chain.NewContract(cfg.Chain.ContractAddress, eth)
		if err != nil {
			return err
		}
		contract = c
	}

	if cfg.Alchemy.APIKey != "" {
		var cache *gallery.Cache
		if rdb != nil {
			cache = gallery.NewCache(rdb, cfg.Alchemy.CacheTTL)
		}
		v1.Gallery = gallery.NewService(gallery.NewAlchemyClient(cfg.Alchemy.BaseURL, cfg.Alchemy.APIKey), cache, logger)
	} else {
		logger.Warn("ALCHEMY_API_KEY not set, gallery disabled")
	}

	if mint, err := newMintService(cfg, db, contract, logger); err != nil {
		logger.Warn("minting disabled", zap.Error(err))
	} else {
		v1.Mint = mint
	}

	scheduler := cronjob.NewScheduler(logger)
	if err := scheduleJobs(scheduler, cfg, oracle, v1.Limiter); err != nil {
		return err
	}
	scheduler.Start()
	defer scheduler.Stop()

	router := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName:    serviceName,
		Version:        cfg.App.Version,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Logger:         logger,
		DB:             db,
		Redis:          rdb,
		Registry:       reg,
		V1:             v1,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", srv.Addr), zap.String("env", cfg.App.Environment))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func newMintService(cfg *config.Config, db *sql.DB, contract mintservice.ContractReader, logger *zap.Logger) (*mintservice.MintService, error) {
	if db == nil {
		return nil, errors.New("database unavailable")
	}
	pinner, err := ipfs.NewPinataClient(cfg.Pinata.APIURL, cfg.Pinata.Gateway, cfg.Pinata.JWT)
	if err != nil {
		return nil, err
	}
	return mintservice.NewMintService(pinner, repository.NewRecordRepository(db), contract, cfg.Chain.ChainID, logger), nil
}

func scheduleJobs(s *cronjob.Scheduler, cfg *config.Config, oracle *chain.GasPriceOracle, limiter *middleware.RateLimiter) error {
	if oracle != nil {
		refresh := cronjob.Job{
			Name:    "gas-price-refresh",
			Spec:    cfg.Chain.RefreshSpec,
			Timeout: 10 * time.Second,
			Run: func(ctx context.Context) error {
				_, err := oracle.Refresh(ctx)
				return err
			},
		}
		if err := s.Add(refresh); err != nil {
			return err
		}
		s.RunNow(refresh)
	}

	return s.Add(cronjob.Job{
		Name: "rate-limiter-cleanup",
		Spec: "0 */5 * * * *",
		Run: func(context.Context) error {
			limiter.Cleanup()
			return nil
		},
	})
}

