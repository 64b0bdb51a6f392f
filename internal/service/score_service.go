package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/edulite/scorebook-api/internal/models"
	appErrors "github.com/edulite/scorebook-api/pkg/errors"
)

// analyticsCachePattern matches every derived analytics payload. Any write
// invalidates the whole derived layer so reads always reflect the store.
const analyticsCachePattern = "analytics*"

// scoreStore describes the persistence operations the score service needs.
type scoreStore interface {
	List(ctx context.Context, filter models.ScoreFilter) ([]models.ScoreRecord, error)
	FindByID(ctx context.Context, id int64) (*models.ScoreRecord, error)
	Insert(ctx context.Context, record *models.ScoreRecord) error
	Update(ctx context.Context, id int64, record *models.ScoreRecord) error
	Delete(ctx context.Context, id int64) error
	DistinctClasses(ctx context.Context) ([]string, error)
	DistinctCourses(ctx context.Context) ([]string, error)
	DistinctExamDates(ctx context.Context) ([]time.Time, error)
}

// ScoreService implements the record lifecycle: create, read, update, delete,
// filtered listing and the catalog of known classes, courses and exam dates.
type ScoreService struct {
	store    scoreStore
	cache    *CacheService
	validate *validator.Validate
	logger   *zap.Logger
}

// NewScoreService constructs a score service.
func NewScoreService(store scoreStore, cache *CacheService, logger *zap.Logger) *ScoreService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScoreService{
		store:    store,
		cache:    cache,
		validate: validator.New(),
		logger:   logger,
	}
}

// List returns one page of records matching the filter plus pagination
// metadata. The total counts the whole filtered set, not the page.
func (s *ScoreService) List(ctx context.Context, filter models.ScoreFilter, page, pageSize int) ([]models.ScoreRecord, models.Pagination, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 500 {
		pageSize = 50
	}

	records, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, models.Pagination{}, fmt.Errorf("list scores: %w", err)
	}

	pagination := models.Pagination{Page: page, PageSize: pageSize, TotalCount: len(records)}
	start := (page - 1) * pageSize
	if start >= len(records) {
		return []models.ScoreRecord{}, pagination, nil
	}
	end := start + pageSize
	if end > len(records) {
		end = len(records)
	}
	return records[start:end], pagination, nil
}

// Get fetches a single record by identifier.
func (s *ScoreService) Get(ctx context.Context, id int64) (*models.ScoreRecord, error) {
	record, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("score %d not found", id))
		}
		return nil, fmt.Errorf("find score %d: %w", id, err)
	}
	return record, nil
}

// Create validates and stores a new record. The assigned identifier and
// creation timestamp are filled into the returned record.
func (s *ScoreService) Create(ctx context.Context, req models.UpsertScoreRequest) (*models.ScoreRecord, error) {
	record, err := s.buildRecord(req)
	if err != nil {
		return nil, err
	}
	if err := s.store.Insert(ctx, record); err != nil {
		return nil, fmt.Errorf("create score: %w", err)
	}
	s.invalidateAnalytics(ctx)
	return record, nil
}

// Update validates and replaces an existing record's fields.
func (s *ScoreService) Update(ctx context.Context, id int64, req models.UpsertScoreRequest) (*models.ScoreRecord, error) {
	record, err := s.buildRecord(req)
	if err != nil {
		return nil, err
	}
	if err := s.store.Update(ctx, id, record); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("score %d not found", id))
		}
		return nil, fmt.Errorf("update score %d: %w", id, err)
	}
	record.ID = id
	s.invalidateAnalytics(ctx)
	return record, nil
}

// Delete removes a record by identifier.
func (s *ScoreService) Delete(ctx context.Context, id int64) error {
	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("score %d not found", id))
		}
		return fmt.Errorf("delete score %d: %w", id, err)
	}
	s.invalidateAnalytics(ctx)
	return nil
}

// Classes lists the distinct class names present in the data.
func (s *ScoreService) Classes(ctx context.Context) ([]string, error) {
	classes, err := s.store.DistinctClasses(ctx)
	if err != nil {
		return nil, fmt.Errorf("list classes: %w", err)
	}
	return classes, nil
}

// Courses lists the distinct course names present in the data.
func (s *ScoreService) Courses(ctx context.Context) ([]string, error) {
	courses, err := s.store.DistinctCourses(ctx)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return courses, nil
}

// ExamDates lists the distinct exam dates present in the data, newest first.
func (s *ScoreService) ExamDates(ctx context.Context) ([]time.Time, error) {
	dates, err := s.store.DistinctExamDates(ctx)
	if err != nil {
		return nil, fmt.Errorf("list exam dates: %w", err)
	}
	return dates, nil
}

func (s *ScoreService) buildRecord(req models.UpsertScoreRequest) (*models.ScoreRecord, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, validationMessage(err))
	}
	examDate, err := time.Parse(models.ExamDateLayout, req.ExamDate)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("exam_date must be in %s form", models.ExamDateLayout))
	}
	return &models.ScoreRecord{
		StudentID:   req.StudentID,
		StudentName: req.StudentName,
		ClassName:   req.ClassName,
		Course:      req.Course,
		Score:       req.Score,
		ExamDate:    examDate,
	}, nil
}

func (s *ScoreService) invalidateAnalytics(ctx context.Context) {
	if err := s.cache.Invalidate(ctx, analyticsCachePattern); err != nil {
		s.logger.Warn("invalidate analytics cache", zap.Error(err))
	}
}

// validationMessage flattens validator output into a single readable line.
func validationMessage(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return "invalid request payload"
	}
	first := fieldErrs[0]
	switch first.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", first.Field())
	case "gte", "lte":
		return fmt.Sprintf("%s must be between 0 and 100", first.Field())
	case "max":
		return fmt.Sprintf("%s exceeds maximum length", first.Field())
	default:
		return fmt.Sprintf("%s is invalid", first.Field())
	}
}
