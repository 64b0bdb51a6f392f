package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/edulite/scorebook-api/internal/models"
)

// scoreReader describes the record store access the query engines need. All
// filtering happens in the store's List predicate; the engines aggregate over
// the returned set.
type scoreReader interface {
	List(ctx context.Context, filter models.ScoreFilter) ([]models.ScoreRecord, error)
}

// StatisticsService computes descriptive statistics, score distributions,
// per-date trends and cross-course comparisons over a filtered record set.
// Results are recomputed from the current store state on every call; the
// optional cache is invalidated on writes, so read-your-writes holds.
type StatisticsService struct {
	scores  scoreReader
	cache   *CacheService
	metrics *MetricsService
	logger  *zap.Logger
}

// NewStatisticsService constructs a statistics service.
func NewStatisticsService(scores scoreReader, cache *CacheService, metrics *MetricsService, logger *zap.Logger) *StatisticsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StatisticsService{scores: scores, cache: cache, metrics: metrics, logger: logger}
}

// Statistics returns count, average, max, min, population standard deviation
// and pass rate for the scope. An empty scope yields the zero-valued result.
// The boolean indicates whether data originated from cache.
func (s *StatisticsService) Statistics(ctx context.Context, filter models.ScoreFilter) (models.ScoreStatistics, bool, error) {
	cacheKey := makeAnalyticsCacheKey("statistics", filter.ClassName, filter.Course, formatDate(filter.ExamDate), filter.Keyword)
	var cached models.ScoreStatistics
	if hit, err := s.cache.Get(ctx, cacheKey, &cached); err != nil {
		return models.ScoreStatistics{}, false, fmt.Errorf("get statistics cache: %w", err)
	} else if hit {
		return cached, true, nil
	}

	records, err := s.list(ctx, "statistics", filter)
	if err != nil {
		return models.ScoreStatistics{}, false, err
	}
	stats := computeScoreStatistics(records)
	s.store(ctx, cacheKey, stats)
	return stats, false, nil
}

// Distribution partitions the scope's scores into bands and counts occupancy.
// A non-positive binCount selects the default five fixed bands.
func (s *StatisticsService) Distribution(ctx context.Context, filter models.ScoreFilter, binCount int) ([]models.DistributionBin, bool, error) {
	if binCount <= 0 {
		binCount = models.DefaultBinCount
	}
	cacheKey := makeAnalyticsCacheKey("distribution", filter.ClassName, filter.Course, formatDate(filter.ExamDate), filter.Keyword, strconv.Itoa(binCount))
	var cached []models.DistributionBin
	if hit, err := s.cache.Get(ctx, cacheKey, &cached); err != nil {
		return nil, false, fmt.Errorf("get distribution cache: %w", err)
	} else if hit {
		return cached, true, nil
	}

	records, err := s.list(ctx, "distribution", filter)
	if err != nil {
		return nil, false, err
	}
	bins := buildDistribution(records, binCount)
	s.store(ctx, cacheKey, bins)
	return bins, false, nil
}

// Trend returns the per-exam-date average and record count within scope,
// ordered ascending by date.
func (s *StatisticsService) Trend(ctx context.Context, filter models.ScoreFilter) ([]models.TrendPoint, bool, error) {
	cacheKey := makeAnalyticsCacheKey("trend", filter.ClassName, filter.Course, formatDate(filter.ExamDate), filter.Keyword)
	var cached []models.TrendPoint
	if hit, err := s.cache.Get(ctx, cacheKey, &cached); err != nil {
		return nil, false, fmt.Errorf("get trend cache: %w", err)
	} else if hit {
		return cached, true, nil
	}

	records, err := s.list(ctx, "trend", filter)
	if err != nil {
		return nil, false, err
	}
	points := buildTrend(records)
	s.store(ctx, cacheKey, points)
	return points, false, nil
}

// CourseComparison returns the per-course average within scope, ordered
// descending by average. The course dimension of the filter is ignored:
// comparison is across courses.
func (s *StatisticsService) CourseComparison(ctx context.Context, filter models.ScoreFilter) ([]models.CourseComparisonRow, bool, error) {
	filter = filter.WithoutCourse()
	cacheKey := makeAnalyticsCacheKey("comparison", filter.ClassName, formatDate(filter.ExamDate), filter.Keyword)
	var cached []models.CourseComparisonRow
	if hit, err := s.cache.Get(ctx, cacheKey, &cached); err != nil {
		return nil, false, fmt.Errorf("get comparison cache: %w", err)
	} else if hit {
		return cached, true, nil
	}

	records, err := s.list(ctx, "comparison", filter)
	if err != nil {
		return nil, false, err
	}
	rows := buildCourseComparison(records)
	s.store(ctx, cacheKey, rows)
	return rows, false, nil
}

func (s *StatisticsService) list(ctx context.Context, label string, filter models.ScoreFilter) ([]models.ScoreRecord, error) {
	start := time.Now()
	records, err := s.scores.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("load %s scope: %w", label, err)
	}
	if s.metrics != nil {
		s.metrics.ObserveDBQuery("analytics_"+label, time.Since(start))
	}
	return records, nil
}

func (s *StatisticsService) store(ctx context.Context, key string, value interface{}) {
	if err := s.cache.Set(ctx, key, value, 0); err != nil {
		s.logger.Warn("cache analytics result", zap.String("key", key), zap.Error(err))
	}
}

// computeScoreStatistics aggregates a record set. Standard deviation is the
// population form (divide by N) and reuses the mean from the first pass.
func computeScoreStatistics(records []models.ScoreRecord) models.ScoreStatistics {
	if len(records) == 0 {
		return models.ScoreStatistics{}
	}

	stats := models.ScoreStatistics{
		Count: len(records),
		Max:   records[0].Score,
		Min:   records[0].Score,
	}
	sum := 0.0
	passed := 0
	for _, record := range records {
		sum += record.Score
		if record.Score > stats.Max {
			stats.Max = record.Score
		}
		if record.Score < stats.Min {
			stats.Min = record.Score
		}
		if record.Score >= models.PassThreshold {
			passed++
		}
	}
	stats.Average = sum / float64(stats.Count)
	stats.PassRate = float64(passed) / float64(stats.Count) * 100

	variance := 0.0
	for _, record := range records {
		diff := record.Score - stats.Average
		variance += diff * diff
	}
	stats.StdDev = math.Sqrt(variance / float64(stats.Count))

	return stats
}

// buildDistribution assigns each score to the first band whose inclusive
// bounds contain it, scanned in band order. Bands are emitted in order even
// when empty.
func buildDistribution(records []models.ScoreRecord, binCount int) []models.DistributionBin {
	bins := scoreBands(binCount)
	total := len(records)
	for _, record := range records {
		for i := range bins {
			if record.Score >= bins[i].Lower && record.Score <= bins[i].Upper {
				bins[i].Count++
				break
			}
		}
	}
	if total > 0 {
		for i := range bins {
			bins[i].Percentage = float64(bins[i].Count) / float64(total) * 100
		}
	}
	return bins
}

// scoreBands produces the band layout. The five-band default is a fixed
// policy, not 100/5: the failing band spans 0-59.99 and the top band ends at
// exactly 100. Other counts use uniform widths with the last upper bound
// forced to 100 to absorb rounding.
func scoreBands(binCount int) []models.DistributionBin {
	if binCount == models.DefaultBinCount {
		return []models.DistributionBin{
			{Label: "0-59", Lower: 0, Upper: 59.99},
			{Label: "60-69", Lower: 60, Upper: 69.99},
			{Label: "70-79", Lower: 70, Upper: 79.99},
			{Label: "80-89", Lower: 80, Upper: 89.99},
			{Label: "90-100", Lower: 90, Upper: 100},
		}
	}

	width := 100.0 / float64(binCount)
	bins := make([]models.DistributionBin, 0, binCount)
	for i := 0; i < binCount; i++ {
		lower := width * float64(i)
		upper := lower + width
		if i == binCount-1 {
			upper = 100
		}
		bins = append(bins, models.DistributionBin{
			Label: fmt.Sprintf("%.1f-%.1f", lower, upper),
			Lower: lower,
			Upper: upper,
		})
	}
	return bins
}

// buildTrend groups records by exam date. A date whose average is not
// positive is treated as absent from the source data and dropped.
func buildTrend(records []models.ScoreRecord) []models.TrendPoint {
	type group struct {
		date  time.Time
		sum   float64
		count int
	}
	groups := make(map[string]*group)
	for _, record := range records {
		key := record.ExamDate.Format(models.ExamDateLayout)
		g, ok := groups[key]
		if !ok {
			g = &group{date: record.ExamDate}
			groups[key] = g
		}
		g.sum += record.Score
		g.count++
	}

	keys := make([]string, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	points := make([]models.TrendPoint, 0, len(keys))
	for _, key := range keys {
		g := groups[key]
		avg := g.sum / float64(g.count)
		if avg <= 0 {
			continue
		}
		points = append(points, models.TrendPoint{Date: g.date, AverageScore: avg, RecordCount: g.count})
	}
	return points
}

// buildCourseComparison groups records by course, descending by average.
// Ties order by course name for determinism.
func buildCourseComparison(records []models.ScoreRecord) []models.CourseComparisonRow {
	type group struct {
		sum   float64
		count int
	}
	groups := make(map[string]*group)
	for _, record := range records {
		g, ok := groups[record.Course]
		if !ok {
			g = &group{}
			groups[record.Course] = g
		}
		g.sum += record.Score
		g.count++
	}

	rows := make([]models.CourseComparisonRow, 0, len(groups))
	for course, g := range groups {
		rows = append(rows, models.CourseComparisonRow{
			Course:       course,
			AverageScore: g.sum / float64(g.count),
			RecordCount:  g.count,
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].AverageScore != rows[j].AverageScore {
			return rows[i].AverageScore > rows[j].AverageScore
		}
		return rows[i].Course < rows[j].Course
	})
	return rows
}

// makeAnalyticsCacheKey joins the scope dimensions into a cache key. Every
// part occupies a fixed position, empty or not, so scopes that share a value
// across different dimensions never collide.
func makeAnalyticsCacheKey(parts ...string) string {
	var builder strings.Builder
	builder.Grow(len(parts) * 16)
	builder.WriteString("analytics")
	for _, part := range parts {
		builder.WriteByte(':')
		builder.WriteString(strings.ReplaceAll(part, ":", "|"))
	}
	return builder.String()
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(models.ExamDateLayout)
}
