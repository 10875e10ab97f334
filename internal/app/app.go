package app

import (
	"context"
	"fmt"
	"time"

	"subject_recommender/internal/config"
	"subject_recommender/internal/lookup"
	"subject_recommender/internal/recommend"
	"subject_recommender/internal/repository"
	"subject_recommender/internal/service"
	"subject_recommender/pkg/database"
	"subject_recommender/pkg/logger"
	"subject_recommender/pkg/monitoring"
	"subject_recommender/pkg/tracing"

	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Options 命令行层面的开关
type Options struct {
	NoCache bool
}

type App struct {
	Config         *config.Config
	DB             *gorm.DB
	Redis          *redis.Client
	Storage        *service.StorageService
	Engine         *recommend.Engine
	Recommendation *service.RecommendationService

	catalog *catalog
	cache   service.ResultCache
	tracer  *sdktrace.TracerProvider
}

type catalog struct {
	subjects service.SubjectCatalog
	students service.StudentFinder
}

// InitObservability 初始化日志、指标和追踪，所有子命令共用
func InitObservability(cfg *config.Config) (*sdktrace.TracerProvider, error) {
	logger.InitLogger(cfg)
	logger.Log.Info("Logger initialized successfully")

	monitoring.Init()

	if !cfg.Tracing.Enabled {
		return nil, nil
	}
	tp, err := tracing.InitTracer(cfg.Server.Name, cfg.Tracing.CollectorEndpoint)
	if err != nil {
		return nil, fmt.Errorf("init tracing: %w", err)
	}
	return tp, nil
}

// LoadTables 从配置的存储读取并校验三张查找表
func LoadTables(ctx context.Context, storage *service.StorageService) (*lookup.Tables, error) {
	tables, err := lookup.Load(ctx, storage)
	if err != nil {
		return nil, err
	}
	logger.Log.Info("Lookup tables loaded",
		zap.String("location", storage.Location("")),
		zap.Int("subject_vectors", len(tables.SubjectVectors)),
		zap.Int("tags", tables.Graph.Len()),
	)
	return tables, nil
}

func (a *App) initCatalog(cfg *config.Config) error {
	if cfg.Catalog.Source == "file" {
		files := repository.NewFileCatalog(cfg.Catalog.SubjectsFile, cfg.Catalog.StudentsFile)
		a.catalog = &catalog{subjects: files, students: files}
		return nil
	}

	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode)
	if err != nil {
		return fmt.Errorf("init database: %w", err)
	}
	a.DB = db
	a.catalog = &catalog{
		subjects: repository.NewSubjectRepository(db),
		students: repository.NewStudentRepository(db),
	}
	return nil
}

// initCache 缓存不可用时降级为无缓存，不影响推荐
func (a *App) initCache(ctx context.Context, cfg *config.Config, opts Options) {
	if !cfg.Cache.Enabled || opts.NoCache {
		return
	}
	rdb, err := database.InitRedis(ctx, &cfg.Redis)
	if err != nil {
		logger.Log.Warn("Redis unavailable, running without result cache", zap.Error(err))
		return
	}
	a.Redis = rdb
	a.cache = repository.NewRecommendationCacheRepository(rdb, cfg.Cache)
}

func NewApp(ctx context.Context, cfg *config.Config, opts Options) (*App, error) {
	tp, err := InitObservability(cfg)
	if err != nil {
		return nil, err
	}

	app := &App{Config: cfg, tracer: tp}

	storage, err := service.NewStorageService(&cfg.Storage)
	if err != nil {
		app.Close(ctx)
		return nil, err
	}
	app.Storage = storage

	tables, err := LoadTables(ctx, storage)
	if err != nil {
		app.Close(ctx)
		return nil, err
	}

	engine, err := recommend.New(tables, cfg.Engine)
	if err != nil {
		app.Close(ctx)
		return nil, err
	}
	app.Engine = engine

	if err := app.initCatalog(cfg); err != nil {
		app.Close(ctx)
		return nil, err
	}
	app.initCache(ctx, cfg, opts)

	app.Recommendation = service.NewRecommendationService(
		engine,
		app.catalog.subjects,
		app.catalog.students,
		app.cache,
		time.Duration(cfg.Cache.TTLHours)*time.Hour,
	)
	return app, nil
}

// Close 释放连接并落盘指标，可重复调用
func (a *App) Close(ctx context.Context) {
	if a.Config.Metrics.Enabled {
		if err := monitoring.WriteTextfile(a.Config.Metrics.TextfilePath); err != nil {
			logger.Log.Error("Failed to write metrics textfile", zap.Error(err))
		}
	}

	if a.tracer != nil {
		shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		if err := a.tracer.Shutdown(shutdownCtx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
		cancel()
		a.tracer = nil
	}

	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			logger.Log.Warn("Failed to close redis", zap.Error(err))
		}
		a.Redis = nil
	}

	if a.DB != nil {
		if sqlDB, err := a.DB.DB(); err == nil {
			sqlDB.Close()
		}
		a.DB = nil
	}

	logger.Sync()
}

// Students 当前目录来源的学生查询
func (a *App) Students() service.StudentFinder {
	if a.catalog == nil {
		return nil
	}
	return a.catalog.students
}
