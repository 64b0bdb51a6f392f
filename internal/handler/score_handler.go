package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/edulite/scorebook-api/internal/models"
	appErrors "github.com/edulite/scorebook-api/pkg/errors"
	"github.com/edulite/scorebook-api/pkg/response"
)

type scoreService interface {
	List(ctx context.Context, filter models.ScoreFilter, page, pageSize int) ([]models.ScoreRecord, models.Pagination, error)
	Get(ctx context.Context, id int64) (*models.ScoreRecord, error)
	Create(ctx context.Context, req models.UpsertScoreRequest) (*models.ScoreRecord, error)
	Update(ctx context.Context, id int64, req models.UpsertScoreRequest) (*models.ScoreRecord, error)
	Delete(ctx context.Context, id int64) error
}

// ScoreHandler wires score record CRUD to HTTP endpoints.
type ScoreHandler struct {
	service scoreService
}

// NewScoreHandler constructs the handler.
func NewScoreHandler(service scoreService) *ScoreHandler {
	return &ScoreHandler{service: service}
}

// List godoc
// @Summary List score records
// @Tags Scores
// @Produce json
// @Param class query string false "Class name"
// @Param course query string false "Course name"
// @Param date query string false "Exam date (YYYY-MM-DD)"
// @Param keyword query string false "Student ID or name fragment"
// @Param page query int false "Page number"
// @Param pageSize query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /scores [get]
func (h *ScoreHandler) List(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	filter, err := parseScoreFilter(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "50"))

	records, pagination, err := h.service.List(c.Request.Context(), filter, page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records, &pagination)
}

// Get godoc
// @Summary Get a score record
// @Tags Scores
// @Produce json
// @Param id path int true "Record ID"
// @Success 200 {object} response.Envelope
// @Router /scores/{id} [get]
func (h *ScoreHandler) Get(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	id, err := parseRecordID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	record, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, record, nil)
}

// Create godoc
// @Summary Create a score record
// @Tags Scores
// @Accept json
// @Produce json
// @Param payload body models.UpsertScoreRequest true "Score record"
// @Success 201 {object} response.Envelope
// @Router /scores [post]
func (h *ScoreHandler) Create(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	var req models.UpsertScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request payload"))
		return
	}
	record, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, record)
}

// Update godoc
// @Summary Replace a score record
// @Tags Scores
// @Accept json
// @Produce json
// @Param id path int true "Record ID"
// @Param payload body models.UpsertScoreRequest true "Score record"
// @Success 200 {object} response.Envelope
// @Router /scores/{id} [put]
func (h *ScoreHandler) Update(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	id, err := parseRecordID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req models.UpsertScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request payload"))
		return
	}
	record, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, record, nil)
}

// Delete godoc
// @Summary Delete a score record
// @Tags Scores
// @Param id path int true "Record ID"
// @Success 204 {string} string "no content"
// @Router /scores/{id} [delete]
func (h *ScoreHandler) Delete(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	id, err := parseRecordID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

func parseRecordID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, appErrors.Clone(appErrors.ErrValidation, "id must be a positive integer")
	}
	return id, nil
}
