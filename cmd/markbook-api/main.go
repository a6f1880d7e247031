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
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/markbook-api/internal/handler"
	"github.com/noah-isme/markbook-api/internal/middleware"
	"github.com/noah-isme/markbook-api/internal/repository"
	"github.com/noah-isme/markbook-api/internal/service"
	"github.com/noah-isme/markbook-api/pkg/cache"
	"github.com/noah-isme/markbook-api/pkg/config"
	"github.com/noah-isme/markbook-api/pkg/database"
	"github.com/noah-isme/markbook-api/pkg/export"
	"github.com/noah-isme/markbook-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/markbook-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/markbook-api/pkg/middleware/requestid"
)

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
		logr.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer db.Close() //nolint:errcheck

	metrics := service.NewMetricsService()
	summaryCache := newSummaryCache(cfg, metrics, logr)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))
	r.Use(middleware.WithResponseMeta())
	r.Use(middleware.Actor())

	registerRoutes(r, cfg, db, summaryCache, metrics, logr)

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
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logr.Warn("graceful shutdown failed", zap.Error(err))
	}
	logr.Info("server stopped")
}

// newSummaryCache connects Redis when summary caching is enabled. A failed
// connection disables caching instead of aborting startup.
func newSummaryCache(cfg *config.Config, metrics *service.MetricsService, logr *zap.Logger) *service.CacheService {
	if !cfg.Summary.CacheEnabled {
		return service.NewCacheService(nil, metrics, cfg.Summary.CacheTTL, logr, false)
	}
	client, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, summary cache disabled", zap.Error(err))
		return service.NewCacheService(nil, metrics, cfg.Summary.CacheTTL, logr, false)
	}
	return service.NewCacheService(repository.NewCacheRepository(client, logr), metrics, cfg.Summary.CacheTTL, logr, true)
}

func registerRoutes(r *gin.Engine, cfg *config.Config, db *sqlx.DB, summaryCache *service.CacheService, metrics *service.MetricsService, logr *zap.Logger) {
	validate := validator.New()

	courseRepo := repository.NewCourseRepository(db)
	assessmentRepo := repository.NewAssessmentRepository(db)
	markRepo := repository.NewMarkRepository(db)
	attendanceRepo := repository.NewAttendanceSummaryRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)

	courseSvc := service.NewCourseService(courseRepo, summaryCache, validate, logr, cfg.Grading.DefaultCourseType)
	assessmentSvc := service.NewAssessmentService(courseRepo, assessmentRepo, summaryCache, metrics, validate, logr)
	markSvc := service.NewMarkService(courseRepo, assessmentRepo, markRepo, summaryCache, logr)
	attendanceSvc := service.NewAttendanceSummaryService(courseRepo, attendanceRepo, assessmentRepo, summaryCache, metrics, validate, logr)
	summarySvc := service.NewSummaryService(courseRepo, assessmentRepo, markRepo, enrollmentRepo, summaryCache, metrics, logr, cfg.Grading.DefaultCourseType)
	gradeSheetSvc := service.NewGradeSheetService(summarySvc, export.NewRenderer(), cfg.Exports.Enabled, logr)

	metricsHandler := handler.NewMetricsHandler(metrics)
	courseHandler := handler.NewCourseHandler(courseSvc)
	assessmentHandler := handler.NewAssessmentHandler(assessmentSvc)
	markHandler := handler.NewMarkHandler(markSvc)
	attendanceHandler := handler.NewAttendanceSummaryHandler(attendanceSvc)
	summaryHandler := handler.NewSummaryHandler(summarySvc, gradeSheetSvc)

	r.GET("/health", metricsHandler.Health)
	r.GET("/metrics", metricsHandler.Prometheus)

	api := r.Group(cfg.APIPrefix)
	api.POST("/courses", courseHandler.Create)
	courses := api.Group("/courses/:id")
	courses.GET("", courseHandler.Get)
	courses.PATCH("", courseHandler.Update)

	courses.GET("/assessments", assessmentHandler.List)
	courses.POST("/assessments", assessmentHandler.Create)
	courses.PATCH("/assessments/:assessmentId", assessmentHandler.Update)
	courses.DELETE("/assessments/:assessmentId", assessmentHandler.Delete)

	courses.GET("/marks", markHandler.List)
	courses.PUT("/marks", markHandler.Save)

	courses.GET("/attendance", attendanceHandler.List)
	courses.PUT("/attendance", attendanceHandler.Save)

	courses.GET("/students/:studentId/summary", summaryHandler.StudentDetail)
	courses.GET("/grade-sheet", summaryHandler.GradeSheet)
	courses.GET("/grade-sheet/export", summaryHandler.ExportGradeSheet)
}
