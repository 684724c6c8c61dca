package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/pageza/dietary-compliance-engine/cmd/server/middleware"
	"github.com/pageza/dietary-compliance-engine/internal/compliance"
	"github.com/pageza/dietary-compliance-engine/internal/composer"
	"github.com/pageza/dietary-compliance-engine/internal/config"
	"github.com/pageza/dietary-compliance-engine/internal/enrichment"
	"github.com/pageza/dietary-compliance-engine/internal/externalapi"
	"github.com/pageza/dietary-compliance-engine/internal/handlers"
	"github.com/pageza/dietary-compliance-engine/internal/httpcache"
	"github.com/pageza/dietary-compliance-engine/internal/intent"
	"github.com/pageza/dietary-compliance-engine/internal/ontology"
	"github.com/pageza/dietary-compliance-engine/internal/profile"
	"github.com/pageza/dietary-compliance-engine/internal/restrictions"
)

func main() {
	if err := config.LoadConfig(); err != nil {
		panic("failed to load config: " + err.Error())
	}
	cfg := config.NewConfig()

	logger, err := config.SetupLogger(cfg)
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer logger.Sync()

	logger.Info("starting dietary compliance engine")

	if err := config.LoadSecrets(context.Background(), cfg); err != nil {
		logger.Warn("continuing without remote secrets", zap.Error(err))
	}

	staticOntology, err := ontology.NewRegistry(cfg.Data.OntologyPath, logger)
	if err != nil {
		logger.Fatal("failed to load ontology", zap.Error(err))
	}
	dynamicOntology, err := ontology.NewDynamicRegistry(cfg.Data.DynamicOntologyPath, logger)
	if err != nil {
		logger.Fatal("failed to load dynamic ontology", zap.Error(err))
	}
	restrictionRegistry, err := restrictions.NewRegistry(cfg.Data.RestrictionsPath, logger)
	if err != nil {
		logger.Fatal("failed to load restrictions", zap.Error(err))
	}

	fetcher := externalapi.NewFetcher(cfg.ExternalAPI.USDAFDCAPIKey, cfg.ExternalAPI.OpenFoodFactsEnabled, cfg.ExternalAPI.Timeout, logger)
	unknownLog := enrichment.NewUnknownLog(cfg.Data.UnknownLogPath, logger)

	resolver := &compliance.Resolver{
		Static:     staticOntology,
		Dynamic:    dynamicOntology,
		Fetcher:    fetcher,
		UnknownLog: unknownLog,
		Log:        logger,
	}
	engine := compliance.NewEngine(resolver, restrictionRegistry, logger)
	startHotReload(cfg, engine, logger)

	profiles := profile.NewStore(profilesPath(), logger)
	intentFallback := intent.NewLLMFallback(cfg.LLM.OllamaURL, cfg.LLM.OllamaModel, cfg.LLM.IntentTimeout, logger)
	llmComposer := composer.NewLLMComposer(cfg.LLM.OllamaURL, cfg.LLM.OllamaModel, cfg.LLM.ResponseTimeout, logger)

	cache, err := httpcache.New(cfg.Redis.Addr, cfg.Redis.TTL, logger)
	if err != nil {
		logger.Warn("httpcache disabled: could not connect to redis", zap.Error(err))
	}
	defer cache.Close()

	handler := handlers.NewComplianceHandler(engine, profiles, intentFallback, llmComposer, cfg.LLM.ResponseTimeout, logger)

	router := newRouter(cfg, handler, logger)

	srv := &http.Server{
		Addr:         ":" + strconv.Itoa(cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info("listening", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}

func newRouter(cfg *config.Config, h *handlers.ComplianceHandler, logger *zap.Logger) *gin.Engine {
	router := gin.New()
	router.RedirectTrailingSlash = false
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(middleware.ParseAllowedOrigins(os.Getenv("CORS_ALLOWED_ORIGINS"))))

	limiter := middleware.RateLimiter(middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
		Burst:             cfg.RateLimit.Burst,
		ExpirationTTL:     cfg.RateLimit.ExpirationTTL,
	})

	router.GET("/v1/health", handlers.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/v1")
	v1.Use(limiter)
	v1.Use(middleware.AuthMiddleware(cfg.JWT.Secret, disableAuth()))
	{
		v1.POST("/evaluate", h.Evaluate)
		v1.POST("/chat", h.Chat)
		v1.GET("/profile/:userID", h.GetProfile)
		v1.PUT("/profile/:userID", h.UpdateProfile)
	}

	return router
}

var hotReloadMu sync.Mutex

// startHotReload watches the restrictions and dynamic ontology files
// for writes from the enrichment CLI (or a manually edited
// restrictions.json) and swaps the engine's in-memory registries in
// place, so a running server picks up the change without a restart.
func startHotReload(cfg *config.Config, engine *compliance.Engine, logger *zap.Logger) {
	watcher, err := config.NewDataFileWatcher(func(path string) {
		hotReloadMu.Lock()
		defer hotReloadMu.Unlock()

		switch path {
		case cfg.Data.RestrictionsPath:
			reg, err := restrictions.NewRegistry(cfg.Data.RestrictionsPath, logger)
			if err != nil {
				logger.Warn("failed to reload restrictions", zap.Error(err))
				return
			}
			engine.Restrictions = reg
			logger.Info("reloaded restrictions", zap.String("path", path))
		case cfg.Data.DynamicOntologyPath:
			reg, err := ontology.NewDynamicRegistry(cfg.Data.DynamicOntologyPath, logger)
			if err != nil {
				logger.Warn("failed to reload dynamic ontology", zap.Error(err))
				return
			}
			engine.Resolver.Dynamic = reg
			logger.Info("reloaded dynamic ontology", zap.String("path", path))
		}
	})
	if err != nil {
		logger.Warn("hot reload disabled: could not create file watcher", zap.Error(err))
		return
	}
	if err := watcher.Watch(cfg.Data.RestrictionsPath, cfg.Data.DynamicOntologyPath); err != nil {
		logger.Warn("hot reload disabled: could not watch data files", zap.Error(err))
		return
	}
	watcher.Start(context.Background())
}

func disableAuth() bool {
	return os.Getenv("DISABLE_AUTH") == "true"
}

func profilesPath() string {
	if p := os.Getenv("PROFILES_PATH"); p != "" {
		return p
	}
	return "data/profiles.json"
}
