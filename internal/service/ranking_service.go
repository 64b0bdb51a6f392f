package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/edulite/scorebook-api/internal/models"
	appErrors "github.com/edulite/scorebook-api/pkg/errors"
)

// RankingService computes dense competitive rankings for a class/date scope.
// Both modes require a concrete exam date: ranking across all dates is not a
// defined operation, and an underspecified scope is reported as an error so
// callers can distinguish it from "no data".
type RankingService struct {
	scores  scoreReader
	cache   *CacheService
	metrics *MetricsService
	logger  *zap.Logger
}

// NewRankingService constructs a ranking service.
func NewRankingService(scores scoreReader, cache *CacheService, metrics *MetricsService, logger *zap.Logger) *RankingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RankingService{scores: scores, cache: cache, metrics: metrics, logger: logger}
}

// SingleCourse ranks students by their raw score in one course on one date.
// The class is optional; course and exam date are mandatory.
func (s *RankingService) SingleCourse(ctx context.Context, className, course string, examDate time.Time) ([]models.RankEntry, bool, error) {
	if course == "" {
		return nil, false, appErrors.Clone(appErrors.ErrScopeUnderspecified, "course is required for course ranking")
	}
	if examDate.IsZero() {
		return nil, false, appErrors.Clone(appErrors.ErrScopeUnderspecified, "exam date is required for ranking")
	}

	cacheKey := makeAnalyticsCacheKey("ranking", "course", className, course, examDate.Format(models.ExamDateLayout))
	var cached []models.RankEntry
	if hit, err := s.cache.Get(ctx, cacheKey, &cached); err != nil {
		return nil, false, fmt.Errorf("get course ranking cache: %w", err)
	} else if hit {
		return cached, true, nil
	}

	records, err := s.list(ctx, "ranking_course", models.ScoreFilter{ClassName: className, Course: course, ExamDate: &examDate})
	if err != nil {
		return nil, false, err
	}

	entries := make([]models.RankEntry, 0, len(records))
	for _, record := range records {
		entries = append(entries, models.RankEntry{
			StudentID:   record.StudentID,
			StudentName: record.StudentName,
			ClassName:   record.ClassName,
			Score:       record.Score,
			AvgScore:    record.Score,
			CourseCount: 1,
		})
	}
	assignDenseRanks(entries)
	s.store(ctx, cacheKey, entries)
	return entries, false, nil
}

// Total ranks students by the sum of their scores across all courses on one
// date. The class is optional; the exam date is mandatory.
func (s *RankingService) Total(ctx context.Context, className string, examDate time.Time) ([]models.RankEntry, bool, error) {
	if examDate.IsZero() {
		return nil, false, appErrors.Clone(appErrors.ErrScopeUnderspecified, "exam date is required for ranking")
	}

	cacheKey := makeAnalyticsCacheKey("ranking", "total", className, examDate.Format(models.ExamDateLayout))
	var cached []models.RankEntry
	if hit, err := s.cache.Get(ctx, cacheKey, &cached); err != nil {
		return nil, false, fmt.Errorf("get total ranking cache: %w", err)
	} else if hit {
		return cached, true, nil
	}

	records, err := s.list(ctx, "ranking_total", models.ScoreFilter{ClassName: className, ExamDate: &examDate})
	if err != nil {
		return nil, false, err
	}

	totals := make(map[string]*models.RankEntry)
	order := make([]string, 0)
	for _, record := range records {
		entry, ok := totals[record.StudentID]
		if !ok {
			entry = &models.RankEntry{
				StudentID:   record.StudentID,
				StudentName: record.StudentName,
				ClassName:   record.ClassName,
			}
			totals[record.StudentID] = entry
			order = append(order, record.StudentID)
		}
		entry.Score += record.Score
		entry.CourseCount++
	}

	entries := make([]models.RankEntry, 0, len(order))
	for _, studentID := range order {
		entry := totals[studentID]
		entry.AvgScore = entry.Score / float64(entry.CourseCount)
		entries = append(entries, *entry)
	}
	assignDenseRanks(entries)
	s.store(ctx, cacheKey, entries)
	return entries, false, nil
}

func (s *RankingService) list(ctx context.Context, label string, filter models.ScoreFilter) ([]models.ScoreRecord, error) {
	start := time.Now()
	records, err := s.scores.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("load %s scope: %w", label, err)
	}
	if s.metrics != nil {
		s.metrics.ObserveDBQuery(label, time.Since(start))
	}
	return records, nil
}

func (s *RankingService) store(ctx context.Context, key string, value interface{}) {
	if err := s.cache.Set(ctx, key, value, 0); err != nil {
		s.logger.Warn("cache ranking result", zap.String("key", key), zap.Error(err))
	}
}

// assignDenseRanks sorts entries by score descending and numbers them with
// dense ranks: tied scores share a rank, the next distinct score gets the
// previous rank plus one. Ties order by student id ascending so output is
// deterministic.
func assignDenseRanks(entries []models.RankEntry) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].StudentID < entries[j].StudentID
	})
	rank := 0
	for i := range entries {
		if i == 0 || entries[i].Score != entries[i-1].Score {
			rank++
		}
		entries[i].Rank = rank
	}
}
