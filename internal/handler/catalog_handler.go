package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/edulite/scorebook-api/internal/models"
	appErrors "github.com/edulite/scorebook-api/pkg/errors"
	"github.com/edulite/scorebook-api/pkg/response"
)

type catalogService interface {
	Classes(ctx context.Context) ([]string, error)
	Courses(ctx context.Context) ([]string, error)
	ExamDates(ctx context.Context) ([]time.Time, error)
}

// CatalogHandler exposes the distinct dimension values present in the data.
type CatalogHandler struct {
	service catalogService
}

// NewCatalogHandler constructs the handler.
func NewCatalogHandler(service catalogService) *CatalogHandler {
	return &CatalogHandler{service: service}
}

// Classes godoc
// @Summary List known class names
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /catalog/classes [get]
func (h *CatalogHandler) Classes(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	classes, err := h.service.Classes(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, classes, nil)
}

// Courses godoc
// @Summary List known course names
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /catalog/courses [get]
func (h *CatalogHandler) Courses(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	courses, err := h.service.Courses(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, courses, nil)
}

// ExamDates godoc
// @Summary List known exam dates, newest first
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /catalog/exam-dates [get]
func (h *CatalogHandler) ExamDates(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	dates, err := h.service.ExamDates(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	formatted := make([]string, 0, len(dates))
	for _, date := range dates {
		formatted = append(formatted, date.Format(models.ExamDateLayout))
	}
	response.JSON(c, http.StatusOK, formatted, nil)
}
