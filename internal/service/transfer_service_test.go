package service

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/edulite/scorebook-api/internal/models"
)

func TestExportCSVFormat(t *testing.T) {
	date := mustDate(t, "2024-06-01")
	store := &mockScoreStore{records: []models.ScoreRecord{
		{StudentID: "S1", StudentName: "Ana", ClassName: "3-1", Course: "math", Score: 88.5, ExamDate: date},
	}}
	svc := NewTransferService(store, nil, disabledCache(), zap.NewNop())

	payload, err := svc.ExportCSV(context.Background(), models.ScoreFilter{})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(payload)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "studentId,studentName,className,course,score,examDate", lines[0])
	assert.Equal(t, "S1,Ana,3-1,math,88.50,2024-06-01", lines[1])
}

func TestImportCSVSkipsHeaderAndBadRows(t *testing.T) {
	store := &mockScoreStore{}
	svc := NewTransferService(store, nil, disabledCache(), zap.NewNop())

	input := strings.Join([]string{
		"studentId,studentName,className,course,score,examDate",
		"S1,Ana,3-1,math,88.50,2024-06-01",
		"S2,Ben,3-1,math,not-a-number,2024-06-01",
		"S3,Cleo,3-1,math,120,2024-06-01",
		"S4,Dee,3-1,math,70.00,2024-06-01",
	}, "\n")

	summary, err := svc.ImportCSV(context.Background(), strings.NewReader(input))
	require.NoError(t, err)
	assert.NotEmpty(t, summary.BatchID)
	assert.Equal(t, 4, summary.Total)
	assert.Equal(t, 2, summary.Imported)
	assert.Equal(t, 2, summary.Failed)
	require.Len(t, summary.Errors, 2)
	require.Len(t, store.inserted, 2)
	assert.Equal(t, "S1", store.inserted[0].StudentID)
	assert.Equal(t, "S4", store.inserted[1].StudentID)
}

func TestImportCSVRejectsShortRows(t *testing.T) {
	store := &mockScoreStore{}
	svc := NewTransferService(store, nil, disabledCache(), zap.NewNop())

	summary, err := svc.ImportCSV(context.Background(), strings.NewReader("S1,Ana,3-1\n"))
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Total)
	assert.Equal(t, 0, summary.Imported)
	assert.Equal(t, 1, summary.Failed)
}

func TestCSVRoundTrip(t *testing.T) {
	date := mustDate(t, "2024-06-01")
	source := &mockScoreStore{records: []models.ScoreRecord{
		{StudentID: "S1", StudentName: "Ana, Maria", ClassName: "3-1", Course: "math", Score: 88.5, ExamDate: date},
		{StudentID: "S2", StudentName: "Ben", ClassName: "3-2", Course: "english", Score: 73, ExamDate: date},
	}}
	exporter := NewTransferService(source, nil, disabledCache(), zap.NewNop())

	payload, err := exporter.ExportCSV(context.Background(), models.ScoreFilter{})
	require.NoError(t, err)

	sink := &mockScoreStore{}
	importer := NewTransferService(sink, nil, disabledCache(), zap.NewNop())

	summary, err := importer.ImportCSV(context.Background(), bytes.NewReader(payload))
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Imported)
	assert.Equal(t, 0, summary.Failed)
	require.Len(t, sink.inserted, 2)
	assert.Equal(t, "Ana, Maria", sink.inserted[0].StudentName)
	assert.InDelta(t, 88.5, sink.inserted[0].Score, 1e-9)
	assert.Equal(t, date, sink.inserted[0].ExamDate)
}

func TestStatisticsReportRendersPDF(t *testing.T) {
	reader := &mockScoreReader{records: sampleRecords(t)}
	statsSvc := NewStatisticsService(reader, disabledCache(), nil, zap.NewNop())
	store := &mockScoreStore{}
	svc := NewTransferService(store, statsSvc, disabledCache(), zap.NewNop())

	payload, err := svc.StatisticsReport(context.Background(), models.ScoreFilter{ClassName: "3-1"})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(payload, []byte("%PDF")))
}
