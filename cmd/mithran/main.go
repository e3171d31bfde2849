package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/abushana-oss/mithran/internal/config"
	drawingentity "github.com/abushana-oss/mithran/internal/drawing/entity"
	drawinghandler "github.com/abushana-oss/mithran/internal/drawing/handler"
	drawingrepo "github.com/abushana-oss/mithran/internal/drawing/repository"
	drawingsvc "github.com/abushana-oss/mithran/internal/drawing/service"
	"github.com/abushana-oss/mithran/internal/middleware"
	nomentity "github.com/abushana-oss/mithran/internal/nomination/entity"
	nomhandler "github.com/abushana-oss/mithran/internal/nomination/handler"
	nomrepo "github.com/abushana-oss/mithran/internal/nomination/repository"
	nomsvc "github.com/abushana-oss/mithran/internal/nomination/service"
	prodentity "github.com/abushana-oss/mithran/internal/production/entity"
	prodhandler "github.com/abushana-oss/mithran/internal/production/handler"
	prodrepo "github.com/abushana-oss/mithran/internal/production/repository"
	prodsvc "github.com/abushana-oss/mithran/internal/production/service"
	routingentity "github.com/abushana-oss/mithran/internal/routing/entity"
	routinghandler "github.com/abushana-oss/mithran/internal/routing/handler"
	routingrepo "github.com/abushana-oss/mithran/internal/routing/repository"
	routingsvc "github.com/abushana-oss/mithran/internal/routing/service"
	"github.com/abushana-oss/mithran/internal/shared/cadengine"
	supentity "github.com/abushana-oss/mithran/internal/supplier/entity"
	suphandler "github.com/abushana-oss/mithran/internal/supplier/handler"
	suprepo "github.com/abushana-oss/mithran/internal/supplier/repository"
	supsvc "github.com/abushana-oss/mithran/internal/supplier/service"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	// 加载 .env 文件
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables")
	}

	// 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 初始化日志
	zapLogger, err := initLogger(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer zapLogger.Sync()

	zapLogger.Info("Starting mithran service",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
	)

	// 初始化数据库
	db, err := initDatabase(cfg.Database)
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}

	if err := autoMigrate(db); err != nil {
		zapLogger.Warn("AutoMigrate warning", zap.Error(err))
	}

	// 初始化Redis
	rdb := initRedis(cfg.Redis)

	// 初始化MinIO
	minioClient, err := initMinIO(cfg.MinIO)
	if err != nil {
		zapLogger.Warn("MinIO client init failed, file storage disabled", zap.Error(err))
	}

	// CAD转换引擎客户端
	var cadClient *cadengine.Client
	if cfg.CADEngine.BaseURL != "" {
		cadClient = cadengine.NewClient(cfg.CADEngine.BaseURL, cfg.CADEngine.Timeout,
			cfg.CADEngine.LinearDeflection, cfg.CADEngine.AngularDeflection)
		if _, err := cadClient.Health(context.Background()); err != nil {
			zapLogger.Warn("CAD engine health check failed", zap.Error(err))
		}
	}

	// 仓库层
	supplierRepo := suprepo.NewSupplierRepository(db)
	nomRepos := nomrepo.NewRepositories(db)
	routeRepo := routingrepo.NewRouteRepository(db)
	stepRepo := routingrepo.NewStepRepository(db)
	rateRepo := routingrepo.NewRateRepository(db)
	lotRepo := prodrepo.NewLotRepository(db)
	entryRepo := prodrepo.NewEntryRepository(db)
	drawingRepo := drawingrepo.NewDrawingRepository(db)

	// 服务层
	supplierSvc := supsvc.NewSupplierService(supplierRepo)
	nominationSvc := nomsvc.NewNominationService(nomRepos, supplierRepo, zapLogger)
	scoringSvc := nomsvc.NewScoringService(nomRepos, supplierRepo, rdb, zapLogger)
	costSvc := nomsvc.NewCostService(nomRepos, zapLogger)
	matrixSvc := nomsvc.NewMatrixService(nomRepos, zapLogger)
	routeSvc := routingsvc.NewRouteService(routeRepo, stepRepo, rateRepo, zapLogger)
	rateSvc := routingsvc.NewRateService(rateRepo)
	productionSvc := prodsvc.NewProductionService(lotRepo, entryRepo, zapLogger)
	drawingSvc := drawingsvc.NewDrawingService(drawingRepo, nomRepos, minioClient, cfg.MinIO.Bucket, cadClient, zapLogger)

	// 处理器层
	supplierHandler := suphandler.NewSupplierHandler(supplierSvc)
	nomHandlers := nomhandler.NewHandlers(nominationSvc, scoringSvc, costSvc, matrixSvc)
	routeHandler := routinghandler.NewRouteHandler(routeSvc)
	rateHandler := routinghandler.NewRateHandler(rateSvc)
	productionHandler := prodhandler.NewProductionHandler(productionSvc)
	drawingHandler := drawinghandler.NewDrawingHandler(drawingSvc)

	// 路由
	gin.SetMode(cfg.Server.Mode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(zapLogger))
	router.Use(middleware.CORS())
	router.Use(middleware.RequestID())
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	registerRoutes(router, cfg,
		supplierHandler, nomHandlers, routeHandler, rateHandler, productionHandler, drawingHandler)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		zapLogger.Info("HTTP server listening", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	// 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zapLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Error("Server forced to shutdown", zap.Error(err))
	}
	zapLogger.Info("Server exited")
}

func autoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&supentity.Supplier{},
		&nomentity.Nomination{},
		&nomentity.NominationCriterion{},
		&nomentity.NominationBOMPart{},
		&nomentity.NominationBOMPartVendor{},
		&nomentity.VendorEvaluation{},
		&nomentity.EvaluationScore{},
		&nomentity.CostComponent{},
		&nomentity.VendorCostValue{},
		&nomentity.CapabilityScore{},
		&nomentity.AssessmentCriterion{},
		&nomentity.RatingMatrixItem{},
		&nomentity.SupplierRanking{},
		&routingentity.ProcessRoute{},
		&routingentity.ProcessRouteStep{},
		&routingentity.HourRate{},
		&prodentity.ProductionLot{},
		&prodentity.ProductionEntry{},
		&drawingentity.Drawing{},
	)
}

func initLogger(cfg config.LogConfig) (*zap.Logger, error) {
	var zapCfg zap.Config

	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	switch cfg.Level {
	case "debug":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	}

	return zapCfg.Build()
}

func initDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	}

	db, err := gorm.Open(postgres.Open(dsn), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	return db, nil
}

func initRedis(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
}

func initMinIO(cfg config.MinIOConfig) (*minio.Client, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("minio endpoint not configured")
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, err
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, err
		}
	}
	return client, nil
}

func registerRoutes(
	r *gin.Engine,
	cfg *config.Config,
	supplierH *suphandler.SupplierHandler,
	nomH *nomhandler.Handlers,
	routeH *routinghandler.RouteHandler,
	rateH *routinghandler.RateHandler,
	prodH *prodhandler.ProductionHandler,
	drawingH *drawinghandler.DrawingHandler,
) {
	// 健康检查
	r.GET("/health/live", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/health/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// 版本信息
	r.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"version":    Version,
			"build_time": BuildTime,
		})
	})

	v1 := r.Group("/api/v1")
	v1.Use(middleware.JWTAuth(cfg.JWT.Secret))
	{
		// 供应商主数据
		suppliers := v1.Group("/suppliers")
		{
			suppliers.GET("", supplierH.ListSuppliers)
			suppliers.GET("/:id", supplierH.GetSupplier)
			suppliers.POST("", supplierH.CreateSupplier)
			suppliers.PUT("/:id", supplierH.UpdateSupplier)
			suppliers.DELETE("/:id", middleware.RequireRole("admin"), supplierH.DeleteSupplier)
		}

		// 供应商提名
		nominations := v1.Group("/nominations")
		{
			nominations.GET("", nomH.Nomination.ListNominations)
			nominations.GET("/:id", nomH.Nomination.GetNomination)
			nominations.POST("", nomH.Nomination.CreateNomination)
			nominations.PUT("/:id", nomH.Nomination.UpdateNomination)
			nominations.DELETE("/:id", nomH.Nomination.DeleteNomination)
			nominations.PUT("/:id/criteria", nomH.Nomination.UpdateCriteria)
			nominations.POST("/:id/vendors", nomH.Nomination.AddVendors)
			nominations.POST("/:id/complete", nomH.Nomination.CompleteNomination)

			// 因子权重与排名
			nominations.GET("/:id/factor-weights", nomH.Scoring.GetFactorWeights)
			nominations.PUT("/:id/factor-weights", nomH.Scoring.SetFactorWeights)
			nominations.POST("/:id/rankings/calculate", nomH.Scoring.CalculateRankings)
			nominations.POST("/:id/rankings/store", nomH.Scoring.StoreRankings)
			nominations.GET("/:id/rankings", nomH.Scoring.GetStoredRankings)
			nominations.GET("/:id/rankings/export", nomH.Scoring.ExportRankings)

			// 成本竞争力分析
			nominations.GET("/:id/cost-analysis", nomH.Cost.GetCostAnalysis)
			nominations.POST("/:id/cost-analysis/initialize", nomH.Cost.InitializeCostAnalysis)
			nominations.PUT("/:id/cost-analysis/components/:componentId", nomH.Cost.UpdateCostComponent)
			nominations.PUT("/:id/cost-analysis/components/:componentId/vendors/:supplierId", nomH.Cost.UpdateVendorCostValue)

			// 能力评分
			nominations.GET("/:id/capability-scores/:supplierId", nomH.Matrix.GetCapabilityScores)
			nominations.POST("/:id/capability-scores/initialize", nomH.Matrix.InitializeCapabilityScores)
			nominations.PUT("/:id/capability-scores/:supplierId/items/:itemId", nomH.Matrix.UpdateCapabilityScore)
			nominations.PUT("/:id/capability-scores/:supplierId/batch", nomH.Matrix.BatchUpdateCapabilityScores)
			nominations.GET("/:id/capability-scores/:supplierId/metrics", nomH.Matrix.GetCapabilityMetrics)

			// 考核矩阵
			nominations.GET("/:id/assessment-matrix/:supplierId", nomH.Matrix.GetAssessmentMatrix)
			nominations.POST("/:id/assessment-matrix/initialize", nomH.Matrix.InitializeAssessmentMatrix)
			nominations.PUT("/:id/assessment-matrix/:supplierId/items/:itemId", nomH.Matrix.UpdateAssessmentCriterion)
			nominations.PUT("/:id/assessment-matrix/:supplierId/batch", nomH.Matrix.BatchUpdateAssessmentMatrix)
			nominations.GET("/:id/assessment-matrix/:supplierId/metrics", nomH.Matrix.GetAssessmentMetrics)

			// 评级矩阵
			nominations.GET("/:id/rating-matrix/:supplierId", nomH.Matrix.GetRatingMatrix)
			nominations.POST("/:id/rating-matrix/initialize", nomH.Matrix.InitializeRatingMatrix)
			nominations.PUT("/:id/rating-matrix/:supplierId/items/:itemId", nomH.Matrix.UpdateRatingItem)
			nominations.PUT("/:id/rating-matrix/:supplierId/batch", nomH.Matrix.BatchUpdateRatingMatrix)
			nominations.GET("/:id/rating-matrix/:supplierId/metrics", nomH.Matrix.GetRatingMetrics)

			// BOM物料图纸
			nominations.POST("/:id/bom-parts/:partId/drawings", drawingH.UploadDrawing)
			nominations.GET("/:id/bom-parts/:partId/drawings", drawingH.ListDrawings)
			nominations.GET("/:id/bom-parts/:partId/drawings/:drawingId/download", drawingH.GetDownloadURL)
			nominations.DELETE("/:id/bom-parts/:partId/drawings/:drawingId", drawingH.DeleteDrawing)
		}

		// 供应商评估（评估ID自带归属提名，独立于提名路径）
		evaluations := v1.Group("/evaluations")
		{
			evaluations.PUT("/:evaluationId", nomH.Nomination.UpdateEvaluation)
			evaluations.PUT("/:evaluationId/scores", nomH.Nomination.UpdateEvaluationScores)
		}

		// 工艺路线
		routes := v1.Group("/process-routes")
		{
			routes.GET("", routeH.ListRoutes)
			routes.GET("/:id", routeH.GetRoute)
			routes.POST("", routeH.CreateRoute)
			routes.PUT("/:id", routeH.UpdateRoute)
			routes.DELETE("/:id", routeH.DeleteRoute)
			routes.PUT("/:id/status", routeH.TransitionRoute)
			routes.POST("/:id/calculate-cost", routeH.CalculateCost)
			routes.POST("/:id/steps", routeH.AddStep)
			routes.PUT("/:id/steps/:stepId", routeH.UpdateStep)
			routes.DELETE("/:id/steps/:stepId", routeH.DeleteStep)
			routes.PUT("/:id/reorder", routeH.ReorderSteps)
		}

		// 工时费率
		rates := v1.Group("/hour-rates")
		{
			rates.GET("", rateH.ListRates)
			rates.GET("/:id", rateH.GetRate)
			rates.POST("", rateH.CreateRate)
			rates.PUT("/:id", rateH.UpdateRate)
			rates.DELETE("/:id", middleware.RequireRole("admin"), rateH.DeleteRate)
		}

		// 生产跟踪
		production := v1.Group("/production/lots")
		{
			production.GET("", prodH.ListLots)
			production.GET("/:id", prodH.GetLot)
			production.POST("", prodH.CreateLot)
			production.PUT("/:id", prodH.UpdateLot)
			production.DELETE("/:id", prodH.DeleteLot)
			production.POST("/:id/entries", prodH.CreateEntry)
			production.PUT("/:id/entries/:entryId", prodH.UpdateEntry)
			production.DELETE("/:id/entries/:entryId", prodH.DeleteEntry)
			production.GET("/:id/weekly-summary", prodH.GetWeeklySummary)
			production.GET("/:id/weekly-report/export", prodH.ExportWeeklyReport)
		}
	}
}
