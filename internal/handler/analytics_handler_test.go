package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/edulite/scorebook-api/internal/models"
)

type fakeAnalyticsSrv struct {
	stats      models.ScoreStatistics
	bins       []models.DistributionBin
	points     []models.TrendPoint
	rows       []models.CourseComparisonRow
	cacheHit   bool
	err        error
	lastFilter models.ScoreFilter
	lastBins   int
}

func (f *fakeAnalyticsSrv) Statistics(_ context.Context, filter models.ScoreFilter) (models.ScoreStatistics, bool, error) {
	f.lastFilter = filter
	return f.stats, f.cacheHit, f.err
}

func (f *fakeAnalyticsSrv) Distribution(_ context.Context, filter models.ScoreFilter, binCount int) ([]models.DistributionBin, bool, error) {
	f.lastFilter = filter
	f.lastBins = binCount
	return f.bins, f.cacheHit, f.err
}

func (f *fakeAnalyticsSrv) Trend(_ context.Context, filter models.ScoreFilter) ([]models.TrendPoint, bool, error) {
	f.lastFilter = filter
	return f.points, f.cacheHit, f.err
}

func (f *fakeAnalyticsSrv) CourseComparison(_ context.Context, filter models.ScoreFilter) ([]models.CourseComparisonRow, bool, error) {
	f.lastFilter = filter
	return f.rows, f.cacheHit, f.err
}

type responseEnvelope struct {
	Data  json.RawMessage        `json:"data"`
	Error map[string]interface{} `json:"error"`
	Meta  map[string]interface{} `json:"meta"`
}

func TestAnalyticsHandlerStatistics(t *testing.T) {
	gin.SetMode(gin.TestMode)
	service := &fakeAnalyticsSrv{stats: models.ScoreStatistics{Count: 5, Average: 76}, cacheHit: true}
	handler := NewAnalyticsHandler(service)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/analytics/statistics?class=3-1&course=math&date=2024-06-01", nil)

	handler.Statistics(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "3-1", service.lastFilter.ClassName)
	assert.Equal(t, "math", service.lastFilter.Course)
	if assert.NotNil(t, service.lastFilter.ExamDate) {
		assert.Equal(t, "2024-06-01", service.lastFilter.ExamDate.Format(models.ExamDateLayout))
	}

	var envelope responseEnvelope
	_ = json.Unmarshal(rec.Body.Bytes(), &envelope)
	assert.Equal(t, true, envelope.Meta["cache_hit"])
}

func TestAnalyticsHandlerStatisticsBadDate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewAnalyticsHandler(&fakeAnalyticsSrv{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/analytics/statistics?date=06/01/2024", nil)

	handler.Statistics(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnalyticsHandlerDistributionBins(t *testing.T) {
	gin.SetMode(gin.TestMode)
	service := &fakeAnalyticsSrv{}
	handler := NewAnalyticsHandler(service)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/analytics/distribution?bins=10", nil)

	handler.Distribution(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 10, service.lastBins)
}

func TestAnalyticsHandlerDistributionNonPositiveBinsFallThrough(t *testing.T) {
	gin.SetMode(gin.TestMode)
	service := &fakeAnalyticsSrv{}
	handler := NewAnalyticsHandler(service)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/analytics/distribution?bins=0", nil)

	handler.Distribution(c)

	// The service substitutes the default band count for non-positive values.
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, service.lastBins)
}

func TestAnalyticsHandlerDistributionRejectsBadBins(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewAnalyticsHandler(&fakeAnalyticsSrv{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/analytics/distribution?bins=many", nil)

	handler.Distribution(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnalyticsHandlerComparison(t *testing.T) {
	gin.SetMode(gin.TestMode)
	service := &fakeAnalyticsSrv{rows: []models.CourseComparisonRow{{Course: "math", AverageScore: 75, RecordCount: 2}}}
	handler := NewAnalyticsHandler(service)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/analytics/comparison?class=3-1", nil)

	handler.Comparison(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	var envelope responseEnvelope
	_ = json.Unmarshal(rec.Body.Bytes(), &envelope)
	var rows []models.CourseComparisonRow
	_ = json.Unmarshal(envelope.Data, &rows)
	assert.Len(t, rows, 1)
}
