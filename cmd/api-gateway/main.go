package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/sis-ledger-api/api/swagger"
	"github.com/noah-isme/sis-ledger-api/internal/handler"
	internalmiddleware "github.com/noah-isme/sis-ledger-api/internal/middleware"
	"github.com/noah-isme/sis-ledger-api/internal/repository"
	"github.com/noah-isme/sis-ledger-api/internal/service"
	"github.com/noah-isme/sis-ledger-api/pkg/cache"
	"github.com/noah-isme/sis-ledger-api/pkg/config"
	"github.com/noah-isme/sis-ledger-api/pkg/database"
	"github.com/noah-isme/sis-ledger-api/pkg/jobs"
	"github.com/noah-isme/sis-ledger-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/sis-ledger-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/sis-ledger-api/pkg/middleware/requestid"
)

// @title SIS Ledger API
// @version 1.0.0
// @description Student fees, payments, enrollments and grades
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	var metrics *service.MetricsService
	if cfg.Metrics.Enabled {
		metrics = service.NewMetricsService()
		if err := metrics.RegisterDB(db.DB, cfg.Database.Name); err != nil {
			logr.Warn("failed to register db stats collector", zap.Error(err))
		}
	}

	var cacheRepo *repository.CacheRepository
	if cfg.Cache.Enabled {
		client, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, caching disabled", zap.Error(err))
		} else {
			defer client.Close()
			cacheRepo = repository.NewCacheRepository(client)
		}
	}
	if cacheRepo == nil {
		cacheRepo = repository.NewCacheRepository(nil)
	}
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Cache.TTL, logr, cfg.Cache.Enabled)

	validate := validator.New()

	userRepo := repository.NewUserRepository(db)
	feeStructureRepo := repository.NewFeeStructureRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	gradeRepo := repository.NewGradeRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	authSvc := service.NewAuthService(service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		Issuer:            cfg.JWT.Issuer,
	})
	identitySvc := service.NewIdentityService(userRepo, cacheSvc, logr)
	feeSvc := service.NewFeeService(feeStructureRepo, invoiceRepo, identitySvc, cacheSvc, validate, logr)
	paymentSvc := service.NewPaymentService(invoiceRepo, metrics, validate, logr)
	enrollmentSvc := service.NewEnrollmentService(enrollmentRepo, identitySvc, metrics, validate, logr)
	gradeSvc := service.NewGradeService(gradeRepo, identitySvc, validate, logr)

	auditSvc := service.NewAuditService(auditRepo, jobs.QueueConfig{
		Workers:    cfg.Audit.Workers,
		BufferSize: cfg.Audit.BufferSize,
		RetryDelay: 500 * time.Millisecond,
		Logger:     logr,
	})
	auditCtx, stopAudit := context.WithCancel(context.Background())
	auditSvc.Start(auditCtx)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	if metrics != nil {
		r.Use(internalmiddleware.Metrics(metrics))
	}

	handler.RegisterHealthRoutes(r, handler.NewHealthHandler(db, metrics.Handler()))
	handler.RegisterRoutes(r.Group(cfg.APIPrefix), internalmiddleware.JWT(authSvc), auditSvc, handler.Handlers{
		Financial:  handler.NewFinancialHandler(feeSvc, paymentSvc),
		Enrollment: handler.NewEnrollmentHandler(enrollmentSvc),
		Grade:      handler.NewGradeHandler(gradeSvc),
	})

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	logr.Sugar().Infow("shutting down", "signal", sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
		_ = srv.Close()
	}

	// drain pending audit entries before the database closes
	auditSvc.Stop()
	stopAudit()
}
