package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"subject_recommender/internal/model"
	"subject_recommender/internal/recommend"
	"subject_recommender/internal/util"
	"subject_recommender/pkg/logger"
	"subject_recommender/pkg/monitoring"
	"subject_recommender/pkg/tracing"

	"github.com/goccy/go-json"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

// ResultCache stores encoded recommendation results.
type ResultCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	DeleteMatching(ctx context.Context, pattern string) (int, error)
}

// SubjectCatalog supplies the subject catalog with info loaded.
type SubjectCatalog interface {
	ListWithInfo(ctx context.Context) ([]model.Subject, error)
}

// StudentFinder loads a student profile by id.
type StudentFinder interface {
	FindByID(ctx context.Context, id uint) (*model.Student, error)
}

type RecommendationService struct {
	engine   *recommend.Engine
	subjects SubjectCatalog
	students StudentFinder
	cache    ResultCache
	ttl      time.Duration
}

// NewRecommendationService wires the engine to its data sources. cache may be nil.
func NewRecommendationService(engine *recommend.Engine, subjects SubjectCatalog, students StudentFinder, cache ResultCache, ttl time.Duration) *RecommendationService {
	if ttl <= 0 {
		ttl = util.DefaultCacheTTLHours * time.Hour
	}
	return &RecommendationService{
		engine:   engine,
		subjects: subjects,
		students: students,
		cache:    cache,
		ttl:      ttl,
	}
}

// CacheKey fingerprints every input that changes the result of a run.
func CacheKey(student *model.Student, req recommend.Request) string {
	return fmt.Sprintf("%s:%d:%d:%t:%d:%d:%s",
		util.RecommendationCachePrefix,
		student.ID,
		int(req.Term),
		req.ActiveOnly,
		student.StudyEffort,
		student.CurrentYear,
		student.PassedFingerprint(),
	)
}

func studentPattern(studentID uint) string {
	return fmt.Sprintf("%s:%d:*", util.RecommendationCachePrefix, studentID)
}

// RecommendForStudent loads the student first; unknown ids give util.ErrStudentNotFound.
func (s *RecommendationService) RecommendForStudent(ctx context.Context, studentID uint, req recommend.Request) (*recommend.Result, error) {
	student, err := s.students.FindByID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	return s.Recommend(ctx, student, req)
}

// Recommend serves a cached result when one exists, otherwise runs the engine and
// caches the outcome. Cache failures are logged and never fail the request.
func (s *RecommendationService) Recommend(ctx context.Context, student *model.Student, req recommend.Request) (*recommend.Result, error) {
	if err := recommend.ValidateStudent(student); err != nil {
		monitoring.RunCounter.WithLabelValues("invalid").Inc()
		return nil, err
	}

	runID := model.GenerateUUID()
	log := logger.Log.With(
		zap.String("run_id", runID),
		zap.Uint("student_id", student.ID),
		zap.String("term", req.Term.String()),
		zap.Bool("active_only", req.ActiveOnly),
	)

	ctx, span := tracing.StartSpan(ctx, "recommend.run",
		attribute.String("run_id", runID),
		attribute.Int64("student_id", int64(student.ID)),
		attribute.String("term", req.Term.String()),
	)
	defer span.End()

	key := CacheKey(student, req)
	if result, ok := s.cached(ctx, log, key); ok {
		monitoring.RunCounter.WithLabelValues("cached").Inc()
		log.Debug("Recommendation served from cache")
		return result, nil
	}

	catalog, err := s.loadCatalog(ctx)
	if err != nil {
		monitoring.RunCounter.WithLabelValues("error").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "catalog")
		log.Error("Failed to load subject catalog", zap.Error(err))
		return nil, err
	}

	start := time.Now()
	_, eligSpan := tracing.StartSpan(ctx, "recommend.eligibility")
	eligible, err := s.engine.Eligible(student, catalog, req)
	eligSpan.End()
	monitoring.StageDuration.WithLabelValues("eligibility").Observe(time.Since(start).Seconds())
	if err != nil {
		monitoring.RunCounter.WithLabelValues("invalid").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "eligibility")
		log.Warn("Recommendation request rejected", zap.Error(err))
		return nil, err
	}
	monitoring.EligibleSubjects.Observe(float64(len(eligible)))

	start = time.Now()
	_, scoreSpan := tracing.StartSpan(ctx, "recommend.scoring", attribute.Int("eligible", len(eligible)))
	result := s.engine.Score(student, eligible)
	scoreSpan.End()
	monitoring.StageDuration.WithLabelValues("scoring").Observe(time.Since(start).Seconds())

	if len(result.Skipped) > 0 {
		monitoring.SkippedVectors.Add(float64(len(result.Skipped)))
		log.Warn("Eligible subjects missing from vector table", zap.Strings("subjects", result.Skipped))
	}

	outcome := "ok"
	if len(result.Recommendations) == 0 {
		outcome = "empty"
	}
	monitoring.RunCounter.WithLabelValues(outcome).Inc()
	log.Info("Recommendation run finished",
		zap.Int("eligible", result.EligibleCount),
		zap.Int("recommended", len(result.Recommendations)))

	s.store(ctx, log, key, result)
	return result, nil
}

// Eligible runs only the eligibility stage, bypassing the cache.
func (s *RecommendationService) Eligible(ctx context.Context, student *model.Student, req recommend.Request) ([]model.Subject, error) {
	catalog, err := s.loadCatalog(ctx)
	if err != nil {
		return nil, err
	}
	return s.engine.Eligible(student, catalog, req)
}

// Invalidate drops every cached result of a student. Call it whenever the profile
// or the passed subject set changes.
func (s *RecommendationService) Invalidate(ctx context.Context, studentID uint) (int, error) {
	if s.cache == nil {
		return 0, nil
	}
	n, err := s.cache.DeleteMatching(ctx, studentPattern(studentID))
	if err != nil {
		monitoring.CacheCounter.WithLabelValues("invalidate", "error").Inc()
		return n, err
	}
	monitoring.CacheCounter.WithLabelValues("invalidate", "ok").Inc()
	logger.Log.Info("Recommendation cache invalidated", zap.Uint("student_id", studentID), zap.Int("keys", n))
	return n, nil
}

func (s *RecommendationService) loadCatalog(ctx context.Context) ([]model.Subject, error) {
	start := time.Now()
	ctx, span := tracing.StartSpan(ctx, "recommend.catalog")
	defer span.End()

	subjects, err := s.subjects.ListWithInfo(ctx)
	monitoring.StageDuration.WithLabelValues("catalog").Observe(time.Since(start).Seconds())
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	span.SetAttributes(attribute.Int("subjects", len(subjects)))
	return subjects, nil
}

func (s *RecommendationService) cached(ctx context.Context, log *zap.Logger, key string) (*recommend.Result, bool) {
	if s.cache == nil {
		return nil, false
	}
	ctx, span := tracing.StartSpan(ctx, "recommend.cache.get")
	defer span.End()

	data, found, err := s.cache.Get(ctx, key)
	switch {
	case err != nil:
		monitoring.CacheCounter.WithLabelValues("get", "error").Inc()
		log.Warn("Cache read failed", zap.Error(err))
		return nil, false
	case !found:
		monitoring.CacheCounter.WithLabelValues("get", "miss").Inc()
		return nil, false
	}

	var result recommend.Result
	if err := json.Unmarshal(data, &result); err != nil {
		monitoring.CacheCounter.WithLabelValues("get", "error").Inc()
		log.Warn("Discarding undecodable cache entry", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	monitoring.CacheCounter.WithLabelValues("get", "hit").Inc()
	return &result, true
}

func (s *RecommendationService) store(ctx context.Context, log *zap.Logger, key string, result *recommend.Result) {
	if s.cache == nil {
		return
	}
	ctx, span := tracing.StartSpan(ctx, "recommend.cache.set")
	defer span.End()

	data, err := json.Marshal(result)
	if err == nil {
		err = s.cache.Set(ctx, key, data, s.ttl)
	}
	if err != nil {
		monitoring.CacheCounter.WithLabelValues("set", "error").Inc()
		log.Warn("Cache write failed", zap.Error(err))
		return
	}
	monitoring.CacheCounter.WithLabelValues("set", "ok").Inc()
}

// IsRejected reports whether err is an input error the caller should fix.
func IsRejected(err error) bool {
	return errors.Is(err, util.ErrInvalidInput) ||
		errors.Is(err, util.ErrInvalidSeason) ||
		errors.Is(err, util.ErrInvalidEffort) ||
		errors.Is(err, util.ErrMalformedPrerequisite)
}
