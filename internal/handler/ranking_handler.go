package handler

import (
	"context"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/edulite/scorebook-api/internal/models"
	appErrors "github.com/edulite/scorebook-api/pkg/errors"
	"github.com/edulite/scorebook-api/pkg/response"
)

type rankingService interface {
	SingleCourse(ctx context.Context, className, course string, examDate time.Time) ([]models.RankEntry, bool, error)
	Total(ctx context.Context, className string, examDate time.Time) ([]models.RankEntry, bool, error)
}

// RankingHandler wires the ranking engine to HTTP endpoints.
type RankingHandler struct {
	service rankingService
}

// NewRankingHandler constructs the handler.
func NewRankingHandler(service rankingService) *RankingHandler {
	return &RankingHandler{service: service}
}

// Course godoc
// @Summary Rank students by score in one course on one date
// @Tags Rankings
// @Produce json
// @Param course query string true "Course name"
// @Param date query string true "Exam date (YYYY-MM-DD)"
// @Param class query string false "Class name"
// @Success 200 {object} response.Envelope
// @Router /rankings/course [get]
func (h *RankingHandler) Course(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	examDate, err := parseExamDate(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	className := strings.TrimSpace(c.Query("class"))
	course := strings.TrimSpace(c.Query("course"))

	start := time.Now()
	entries, cacheHit, err := h.service.SingleCourse(c.Request.Context(), className, course, examDate)
	if err != nil {
		response.Error(c, err)
		return
	}
	respondWithMeta(c, entries, cacheHit, start)
}

// Total godoc
// @Summary Rank students by total score across courses on one date
// @Tags Rankings
// @Produce json
// @Param date query string true "Exam date (YYYY-MM-DD)"
// @Param class query string false "Class name"
// @Success 200 {object} response.Envelope
// @Router /rankings/total [get]
func (h *RankingHandler) Total(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	examDate, err := parseExamDate(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	className := strings.TrimSpace(c.Query("class"))

	start := time.Now()
	entries, cacheHit, err := h.service.Total(c.Request.Context(), className, examDate)
	if err != nil {
		response.Error(c, err)
		return
	}
	respondWithMeta(c, entries, cacheHit, start)
}
