package handler

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edulite/scorebook-api/internal/models"
)

type fakeTransferSrv struct {
	csvPayload []byte
	pdfPayload []byte
	summary    models.ImportSummary
	err        error
	imported   []byte
}

func (f *fakeTransferSrv) ExportCSV(_ context.Context, _ models.ScoreFilter) ([]byte, error) {
	return f.csvPayload, f.err
}

func (f *fakeTransferSrv) ImportCSV(_ context.Context, r io.Reader) (models.ImportSummary, error) {
	f.imported, _ = io.ReadAll(r)
	return f.summary, f.err
}

func (f *fakeTransferSrv) StatisticsReport(_ context.Context, _ models.ScoreFilter) ([]byte, error) {
	return f.pdfPayload, f.err
}

func TestTransferHandlerExport(t *testing.T) {
	gin.SetMode(gin.TestMode)
	service := &fakeTransferSrv{csvPayload: []byte("studentId,studentName\n")}
	handler := NewTransferHandler(service)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/scores/export", nil)

	handler.Export(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")
}

func TestTransferHandlerImportRequiresFile(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewTransferHandler(&fakeTransferSrv{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/scores/import", nil)

	handler.Import(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTransferHandlerImport(t *testing.T) {
	gin.SetMode(gin.TestMode)
	service := &fakeTransferSrv{summary: models.ImportSummary{BatchID: "batch-1", Total: 1, Imported: 1}}
	handler := NewTransferHandler(service)

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", "scores.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte("studentId,studentName,className,course,score,examDate\nS1,Ana,3-1,math,88.50,2024-06-01\n"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/scores/import", body)
	c.Request.Header.Set("Content-Type", writer.FormDataContentType())

	handler.Import(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(service.imported), "S1,Ana")
	assert.Contains(t, rec.Body.String(), `"batch_id":"batch-1"`)
}

func TestTransferHandlerReport(t *testing.T) {
	gin.SetMode(gin.TestMode)
	service := &fakeTransferSrv{pdfPayload: []byte("%PDF-1.3")}
	handler := NewTransferHandler(service)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/analytics/report?class=3-1", nil)

	handler.Report(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")))
}
