package handler

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/edulite/scorebook-api/internal/models"
	appErrors "github.com/edulite/scorebook-api/pkg/errors"
	"github.com/edulite/scorebook-api/pkg/response"
)

// maxImportSize bounds the accepted CSV upload body.
const maxImportSize = 10 << 20

type transferService interface {
	ExportCSV(ctx context.Context, filter models.ScoreFilter) ([]byte, error)
	ImportCSV(ctx context.Context, r io.Reader) (models.ImportSummary, error)
	StatisticsReport(ctx context.Context, filter models.ScoreFilter) ([]byte, error)
}

// TransferHandler wires CSV exchange and report generation to HTTP endpoints.
type TransferHandler struct {
	service transferService
}

// NewTransferHandler constructs the handler.
func NewTransferHandler(service transferService) *TransferHandler {
	return &TransferHandler{service: service}
}

// Export godoc
// @Summary Export score records as CSV
// @Tags Transfer
// @Produce text/csv
// @Param class query string false "Class name"
// @Param course query string false "Course name"
// @Param date query string false "Exam date (YYYY-MM-DD)"
// @Param keyword query string false "Student ID or name fragment"
// @Success 200 {string} string "CSV payload"
// @Router /scores/export [get]
func (h *TransferHandler) Export(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	filter, err := parseScoreFilter(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	payload, err := h.service.ExportCSV(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	filename := fmt.Sprintf("scores-%s.csv", time.Now().UTC().Format("20060102-150405"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", payload)
}

// Import godoc
// @Summary Import score records from a CSV file
// @Tags Transfer
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "CSV file"
// @Success 200 {object} response.Envelope
// @Router /scores/import [post]
func (h *TransferHandler) Import(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "csv file is required"))
		return
	}
	if fileHeader.Size > maxImportSize {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "csv file exceeds the 10 MiB limit"))
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "open uploaded file"))
		return
	}
	defer file.Close()

	summary, err := h.service.ImportCSV(c.Request.Context(), file)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil)
}

// Report godoc
// @Summary Render the scope's statistics as a PDF report
// @Tags Transfer
// @Produce application/pdf
// @Param class query string false "Class name"
// @Param course query string false "Course name"
// @Param date query string false "Exam date (YYYY-MM-DD)"
// @Success 200 {string} string "PDF payload"
// @Router /analytics/report [get]
func (h *TransferHandler) Report(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	filter, err := parseScoreFilter(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	payload, err := h.service.StatisticsReport(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	filename := fmt.Sprintf("statistics-%s.pdf", time.Now().UTC().Format("20060102-150405"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", payload)
}
