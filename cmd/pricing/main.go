// PricingService 主程序
// 功能：提供能源价差期权估值服务，包括交割日程、行情获取、波动率曲面与定价
// 架构：基于 DDD + Gin + Redis + Kafka
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/energyderivatives/internal/pricing/application"
	"github.com/wyfcoding/energyderivatives/internal/pricing/domain"
	"github.com/wyfcoding/energyderivatives/internal/pricing/infrastructure/marketdata"
	"github.com/wyfcoding/energyderivatives/internal/pricing/infrastructure/messaging"
	"github.com/wyfcoding/energyderivatives/internal/pricing/infrastructure/persistence/mysql"
	redisrepo "github.com/wyfcoding/energyderivatives/internal/pricing/infrastructure/persistence/redis"
	httphandler "github.com/wyfcoding/energyderivatives/internal/pricing/interfaces/http"
	"github.com/wyfcoding/energyderivatives/pkg/cache"
	"github.com/wyfcoding/energyderivatives/pkg/config"
	"github.com/wyfcoding/energyderivatives/pkg/db"
	"github.com/wyfcoding/energyderivatives/pkg/logger"
	"github.com/wyfcoding/energyderivatives/pkg/metrics"
	"github.com/wyfcoding/energyderivatives/pkg/middleware"
	"github.com/wyfcoding/energyderivatives/pkg/mq"
)

func main() {
	// 1. 加载配置
	configPath := "configs/pricing/config.toml"
	if env := os.Getenv("APP_CONFIG"); env != "" {
		configPath = env
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 2. 初始化日志
	loggerCfg := logger.Config{
		Level:      cfg.Logger.Level,
		Format:     cfg.Logger.Format,
		Output:     cfg.Logger.Output,
		FilePath:   cfg.Logger.FilePath,
		MaxSize:    cfg.Logger.MaxSize,
		MaxBackups: cfg.Logger.MaxBackups,
		MaxAge:     cfg.Logger.MaxAge,
		Compress:   cfg.Logger.Compress,
		WithCaller: cfg.Logger.WithCaller,
	}
	if err := logger.Init(loggerCfg); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	logger.Info(ctx, "Starting PricingService",
		"service", cfg.ServiceName,
		"version", cfg.Version,
		"environment", cfg.Environment,
	)

	// 3. 初始化指标
	metricsInstance := metrics.New(cfg.ServiceName)
	if err := metricsInstance.Register(); err != nil {
		logger.Fatal(ctx, "Failed to register metrics", "error", err)
	}
	if cfg.Metrics.Enabled {
		if err := metrics.StartHTTPServer(cfg.Metrics.Port, cfg.Metrics.Path); err != nil {
			logger.Fatal(ctx, "Failed to start metrics HTTP server", "error", err)
		}
	}

	// 4. 初始化数据库（可选，关闭时估值结果只进缓存）
	var valuationRepo domain.ValuationRepository
	if cfg.Database.Enabled {
		dbCfg := db.Config{
			Driver:             cfg.Database.Driver,
			DSN:                cfg.Database.DSN,
			MaxOpenConns:       cfg.Database.MaxOpenConns,
			MaxIdleConns:       cfg.Database.MaxIdleConns,
			ConnMaxLifetime:    cfg.Database.ConnMaxLifetime,
			LogEnabled:         cfg.Database.LogEnabled,
			SlowQueryThreshold: cfg.Database.SlowQueryThreshold,
		}
		database, err := db.Init(dbCfg)
		if err != nil {
			logger.Fatal(ctx, "Failed to initialize database", "error", err)
		}
		defer database.Close()

		if err := mysql.AutoMigrate(database.DB); err != nil {
			logger.Fatal(ctx, "Failed to migrate database schema", "error", err)
		}
		valuationRepo = mysql.NewValuationRepository(database.DB)
	} else {
		logger.Warn(ctx, "Database disabled, valuations will not be persisted")
	}

	// 5. 初始化 Redis
	redisCfg := cache.Config{
		Host:         cfg.Redis.Host,
		Port:         cfg.Redis.Port,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		MaxPoolSize:  cfg.Redis.MaxPoolSize,
		ConnTimeout:  cfg.Redis.ConnTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	}
	redisCache, err := cache.New(redisCfg)
	if err != nil {
		logger.Fatal(ctx, "Failed to initialize Redis", "error", err)
	}
	defer redisCache.Close()

	valuationCache := redisrepo.NewValuationCache(
		redisCache.GetClient(),
		time.Duration(cfg.Pricing.CacheTTL)*time.Second,
	)

	// 6. 初始化 Kafka 事件发布（可选）
	var publisher domain.EventPublisher
	if len(cfg.Kafka.Brokers) > 0 {
		producer, err := mq.NewProducer(mq.KafkaConfig{
			Brokers:      cfg.Kafka.Brokers,
			MaxRetries:   cfg.Kafka.MaxRetries,
			RetryBackoff: cfg.Kafka.RetryBackoff,
		})
		if err != nil {
			logger.Fatal(ctx, "Failed to initialize Kafka producer", "error", err)
		}
		defer producer.Close()
		publisher = messaging.NewKafkaEventPublisher(producer, cfg.Kafka.Topic)
	} else {
		logger.Warn(ctx, "Kafka brokers not configured, pricing events will not be published")
	}

	// 7. 初始化行情数据源与网关
	provider, err := marketdata.NewProvider(marketdata.Config{
		Provider:       cfg.MarketData.Provider,
		DataFolder:     cfg.MarketData.DataFolder,
		CurveMonths:    cfg.MarketData.CurveMonths,
		HistoricalDays: cfg.MarketData.HistoricalDays,
	})
	if err != nil {
		// 数据源选型错误没有合理兜底，直接失败
		logger.Fatal(ctx, "Failed to construct market data provider", "error", err)
	}
	gateway := marketdata.NewGateway(provider, metricsInstance, cfg.MarketData.CurveMonths, cfg.MarketData.HistoricalDays)

	// 8. 初始化定价组件与应用服务
	factory := domain.NewModelFactory(domain.BachelierModelConfig{
		RiskFreeRate:  cfg.Pricing.RiskFreeRate,
		RunMonteCarlo: cfg.Pricing.RunMonteCarlo,
		MCPaths:       cfg.Pricing.MCPaths,
		MCSeed:        cfg.Pricing.MCSeed,
	})
	processor := application.NewOptionProcessor(gateway, factory, metricsInstance)
	service := application.NewPricingService(processor, valuationCache, valuationRepo, publisher, metricsInstance)

	// 9. 创建并启动 HTTP 服务器
	httpServer := createHTTPServer(cfg, service, metricsInstance)
	go func() {
		addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
		logger.Info(ctx, "Starting HTTP server", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal(ctx, "HTTP server error", "error", err)
		}
	}()

	// 10. 优雅关停
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info(ctx, "Shutting down PricingService")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error(ctx, "HTTP server shutdown error", "error", err)
	}

	logger.Info(ctx, "PricingService stopped")
}

// createHTTPServer 创建 HTTP 服务器
func createHTTPServer(cfg *config.Config, service *application.PricingService, m *metrics.Metrics) *http.Server {
	if cfg.Environment == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// 添加中间件
	router.Use(middleware.GinLoggingMiddleware())
	router.Use(middleware.GinMetricsMiddleware(m))
	router.Use(middleware.GinRecoveryMiddleware())
	router.Use(middleware.GinCORSMiddleware())

	// 注册路由
	handler := httphandler.NewPricingHandler(service)
	handler.RegisterRoutes(&router.RouterGroup)

	// 健康检查
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"service":   cfg.ServiceName,
			"timestamp": time.Now().Unix(),
		})
	})

	return &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeout) * time.Second,
	}
}
