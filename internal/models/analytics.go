package models

import "time"

// DefaultBinCount selects the fixed score bands used by the distribution
// histogram when the caller does not ask for a specific bin count.
const DefaultBinCount = 5

// ScoreStatistics summarises a filtered record set. All values are zero when
// no record matches; an empty scope is a valid result, never an error.
type ScoreStatistics struct {
	Count    int     `json:"count"`
	Average  float64 `json:"average"`
	Max      float64 `json:"max"`
	Min      float64 `json:"min"`
	StdDev   float64 `json:"std_dev"`
	PassRate float64 `json:"pass_rate"`
}

// DistributionBin is one score band of the histogram. Bins are emitted in
// band order even when empty, and counts sum to the matched record count.
type DistributionBin struct {
	Label      string  `json:"label"`
	Lower      float64 `json:"lower"`
	Upper      float64 `json:"upper"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// TrendPoint is the per-exam-date average within scope, ordered ascending.
type TrendPoint struct {
	Date         time.Time `json:"date"`
	AverageScore float64   `json:"average_score"`
	RecordCount  int       `json:"record_count"`
}

// CourseComparisonRow is the per-course average within scope, ordered
// descending by average.
type CourseComparisonRow struct {
	Course       string  `json:"course"`
	AverageScore float64 `json:"average_score"`
	RecordCount  int     `json:"record_count"`
}

// RankEntry is one row of a ranking. Ranks are dense: tied scores share a
// rank and the next distinct score gets the previous rank plus one. For
// single-course rankings Score and AvgScore coincide and CourseCount is 1;
// for total-score rankings Score is the sum across the student's courses.
type RankEntry struct {
	StudentID   string  `json:"student_id"`
	StudentName string  `json:"student_name"`
	ClassName   string  `json:"class_name"`
	Rank        int     `json:"rank"`
	Score       float64 `json:"score"`
	AvgScore    float64 `json:"avg_score"`
	CourseCount int     `json:"course_count"`
}

// SystemMetrics represents system level metrics captured from instrumentation.
type SystemMetrics struct {
	CacheHitRatio            float64   `json:"cache_hit_ratio"`
	CacheHits                uint64    `json:"cache_hits"`
	CacheMisses              uint64    `json:"cache_misses"`
	RequestsTotal            uint64    `json:"requests_total"`
	AverageRequestDurationMs float64   `json:"average_request_duration_ms"`
	DBQueryCount             uint64    `json:"db_query_count"`
	AverageDBQueryDurationMs float64   `json:"average_db_query_duration_ms"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generated_at"`
}
