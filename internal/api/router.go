package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"integrated-cart/internal/api/handlers"
	"integrated-cart/internal/api/handlers/health"
	"integrated-cart/internal/api/middleware"
	"integrated-cart/internal/core/aimodel"
	"integrated-cart/internal/core/bridge"
	"integrated-cart/internal/core/cart"
	"integrated-cart/internal/core/checkout"
	"integrated-cart/internal/core/recipe"
	"integrated-cart/internal/core/search"
	"integrated-cart/internal/infrastructure/config"
	"integrated-cart/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	// 超時設置
	timeoutDuration = 120 * time.Second
	// 請求體大小限制 (1MB)，本服務只收 JSON
	maxBodySize = 1 << 20
)

// SetupRouter 設置路由
func SetupRouter(cfg *config.Config, cartStore *cart.Store, analysisCache *recipe.Cache) (*gin.Engine, error) {
	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	// 設置 gin 模式
	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	// 創建路由引擎
	router := gin.New()

	// 註冊基礎中間件
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(requestid.New()) // 自動生成請求 ID

	// CORS 設置
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// 請求體大小限制
	router.Use(middleware.BodySizeLimit(maxBodySize))

	// 限流與去重
	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}
	router.Use(middleware.Deduplication(cfg))

	common.LogInfo("Initializing services",
		zap.Bool("cache_enabled", cfg.Cache.Enabled),
		zap.Bool("bridge_enabled", cfg.Bridge.Enabled),
		zap.String("backend", cfg.Backend.BaseURL),
		zap.Duration("timeout", timeoutDuration),
	)

	// 初始化服務
	catalogClient := aimodel.NewCatalogClient(cfg)
	analyzer := recipe.NewAnalyzer(cfg, analysisCache)
	searcher := search.NewOrchestrator(cfg)
	tracker := search.NewTracker()
	registrar := cart.NewRegistrar(cfg)
	checkouter := checkout.NewOrchestrator(cfg)
	bridgeClient := bridge.NewClient(cfg)

	if cartStore == nil {
		common.LogError("Cart store is required")
		return nil, fmt.Errorf("cart store is required")
	}

	handler := handlers.NewHandler(
		catalogClient,
		analyzer,
		searcher,
		tracker,
		cartStore,
		registrar,
		checkouter,
		bridgeClient,
	)

	// 全局中間件：設置超時和配置
	router.Use(func(c *gin.Context) {
		// 設置請求超時
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeoutDuration)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)

		// 設置配置
		c.Set("config", cfg)

		// 處理請求
		c.Next()

		// 檢查是否超時
		if ctx.Err() == context.DeadlineExceeded {
			common.LogError("Request timeout",
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", c.GetHeader("X-Request-ID")),
				zap.Duration("timeout", timeoutDuration),
			)
			c.JSON(http.StatusGatewayTimeout, gin.H{
				"error": "Request timeout",
				"code":  common.ErrCodeRequestTimeout,
			})
			c.Abort()
			return
		}
	})

	// 健康檢查路由
	router.GET("/health", health.HealthCheck)
	router.GET("/ready", health.ReadinessCheck)
	router.GET("/live", health.LivenessCheck)

	// API 路由組
	api := router.Group("/api/v1")
	{
		// 模型目錄與合格過濾
		api.GET("/ai/models", handler.HandleModels)

		// 食譜分析與人分換算
		api.POST("/analyze", handler.HandleAnalyze)
		api.POST("/recipe/scale", handler.HandleScale)

		// 食材多商城搜尋
		api.POST("/ingredients/search", handler.HandleSearch)
		api.GET("/malls/link", handler.HandleMallLink)

		// 購物車
		cartGroup := api.Group("/cart")
		{
			cartGroup.GET("", handler.HandleCartGet)
			cartGroup.POST("/add", handler.HandleCartAdd)
			cartGroup.DELETE("/items/:id", handler.HandleCartRemove)
		}

		// 下單自動化
		orderGroup := api.Group("/order")
		{
			orderGroup.POST("/auto-cart", handler.HandleAutoCart)
			orderGroup.POST("/checkout", handler.HandleCheckout)
		}

		// 擴充橋接（備援診斷用）
		api.POST("/bridge/scrape", handler.HandleBridgeScrape)
	}

	common.LogInfo("Router setup completed successfully",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
		zap.Duration("timeout", timeoutDuration),
		zap.Int64("max_body_size", maxBodySize),
	)

	return router, nil
}
