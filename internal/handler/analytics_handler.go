package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/edulite/scorebook-api/internal/middleware"
	"github.com/edulite/scorebook-api/internal/models"
	appErrors "github.com/edulite/scorebook-api/pkg/errors"
	"github.com/edulite/scorebook-api/pkg/response"
)

type analyticsService interface {
	Statistics(ctx context.Context, filter models.ScoreFilter) (models.ScoreStatistics, bool, error)
	Distribution(ctx context.Context, filter models.ScoreFilter, binCount int) ([]models.DistributionBin, bool, error)
	Trend(ctx context.Context, filter models.ScoreFilter) ([]models.TrendPoint, bool, error)
	CourseComparison(ctx context.Context, filter models.ScoreFilter) ([]models.CourseComparisonRow, bool, error)
}

// AnalyticsHandler wires the statistics engine to HTTP endpoints.
type AnalyticsHandler struct {
	service analyticsService
}

// NewAnalyticsHandler constructs the handler.
func NewAnalyticsHandler(service analyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{service: service}
}

// Statistics godoc
// @Summary Descriptive statistics for a scope
// @Tags Analytics
// @Produce json
// @Param class query string false "Class name"
// @Param course query string false "Course name"
// @Param date query string false "Exam date (YYYY-MM-DD)"
// @Param keyword query string false "Student ID or name fragment"
// @Success 200 {object} response.Envelope
// @Router /analytics/statistics [get]
func (h *AnalyticsHandler) Statistics(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	filter, err := parseScoreFilter(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	start := time.Now()
	stats, cacheHit, err := h.service.Statistics(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	respondWithMeta(c, stats, cacheHit, start)
}

// Distribution godoc
// @Summary Score distribution bands for a scope
// @Tags Analytics
// @Produce json
// @Param class query string false "Class name"
// @Param course query string false "Course name"
// @Param date query string false "Exam date (YYYY-MM-DD)"
// @Param bins query int false "Number of bands (default 5)"
// @Success 200 {object} response.Envelope
// @Router /analytics/distribution [get]
func (h *AnalyticsHandler) Distribution(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	filter, err := parseScoreFilter(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	// Non-positive values fall through to the service's default band count.
	binCount := models.DefaultBinCount
	if raw := strings.TrimSpace(c.Query("bins")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed > 100 {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "bins must be an integer up to 100"))
			return
		}
		binCount = parsed
	}
	start := time.Now()
	bins, cacheHit, err := h.service.Distribution(c.Request.Context(), filter, binCount)
	if err != nil {
		response.Error(c, err)
		return
	}
	respondWithMeta(c, bins, cacheHit, start)
}

// Trend godoc
// @Summary Per-date average trend for a scope
// @Tags Analytics
// @Produce json
// @Param class query string false "Class name"
// @Param course query string false "Course name"
// @Param keyword query string false "Student ID or name fragment"
// @Success 200 {object} response.Envelope
// @Router /analytics/trend [get]
func (h *AnalyticsHandler) Trend(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	filter, err := parseScoreFilter(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	start := time.Now()
	points, cacheHit, err := h.service.Trend(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	respondWithMeta(c, points, cacheHit, start)
}

// Comparison godoc
// @Summary Cross-course average comparison for a scope
// @Tags Analytics
// @Produce json
// @Param class query string false "Class name"
// @Param date query string false "Exam date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /analytics/comparison [get]
func (h *AnalyticsHandler) Comparison(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	filter, err := parseScoreFilter(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	start := time.Now()
	rows, cacheHit, err := h.service.CourseComparison(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	respondWithMeta(c, rows, cacheHit, start)
}

func respondWithMeta(c *gin.Context, data interface{}, cacheHit bool, start time.Time) {
	middleware.SetCacheHit(c, cacheHit)
	meta := middleware.ExtractMeta(c)
	if meta == nil {
		meta = map[string]interface{}{}
	}
	meta["processing_time_ms"] = time.Since(start).Milliseconds()
	response.JSON(c, http.StatusOK, data, nil, meta)
}
