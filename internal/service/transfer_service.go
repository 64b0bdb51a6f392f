package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/edulite/scorebook-api/internal/models"
	"github.com/edulite/scorebook-api/pkg/export"
)

// csvHeaders is the canonical column order for score exchange files. Import
// and export share it so an exported file re-imports unchanged.
var csvHeaders = []string{"studentId", "studentName", "className", "course", "score", "examDate"}

// scoreWriter describes the store operations the transfer service needs.
type scoreWriter interface {
	List(ctx context.Context, filter models.ScoreFilter) ([]models.ScoreRecord, error)
	Insert(ctx context.Context, record *models.ScoreRecord) error
}

// statisticsProvider supplies the aggregates embedded in the PDF report.
type statisticsProvider interface {
	Statistics(ctx context.Context, filter models.ScoreFilter) (models.ScoreStatistics, bool, error)
	Distribution(ctx context.Context, filter models.ScoreFilter, binCount int) ([]models.DistributionBin, bool, error)
}

// TransferService moves score data across the system boundary: CSV export,
// CSV import and the rendered statistics report.
type TransferService struct {
	store      scoreWriter
	statistics statisticsProvider
	cache      *CacheService
	csv        *export.CSVExporter
	pdf        *export.PDFExporter
	logger     *zap.Logger
}

// NewTransferService constructs a transfer service.
func NewTransferService(store scoreWriter, statistics statisticsProvider, cache *CacheService, logger *zap.Logger) *TransferService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TransferService{
		store:      store,
		statistics: statistics,
		cache:      cache,
		csv:        export.NewCSVExporter(),
		pdf:        export.NewPDFExporter(),
		logger:     logger,
	}
}

// ExportCSV renders every record in scope as a CSV document. Scores use two
// decimal places and dates the day-granularity layout.
func (s *TransferService) ExportCSV(ctx context.Context, filter models.ScoreFilter) ([]byte, error) {
	records, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("load export scope: %w", err)
	}

	rows := make([]map[string]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, map[string]string{
			"studentId":   record.StudentID,
			"studentName": record.StudentName,
			"className":   record.ClassName,
			"course":      record.Course,
			"score":       strconv.FormatFloat(record.Score, 'f', 2, 64),
			"examDate":    record.ExamDate.Format(models.ExamDateLayout),
		})
	}

	payload, err := s.csv.Render(export.Dataset{Headers: csvHeaders, Rows: rows})
	if err != nil {
		return nil, fmt.Errorf("render score csv: %w", err)
	}
	return payload, nil
}

// ImportCSV reads score rows from a CSV stream and stores the valid ones.
// The first row is treated as a header. Malformed rows are skipped and
// reported per row; one bad line never aborts the batch.
func (s *TransferService) ImportCSV(ctx context.Context, r io.Reader) (models.ImportSummary, error) {
	summary := models.ImportSummary{BatchID: uuid.NewString()}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	line := 0
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			summary.Total++
			summary.Failed++
			summary.Errors = append(summary.Errors, fmt.Sprintf("line %d: %v", line, err))
			continue
		}
		if line == 1 && isHeaderRow(row) {
			continue
		}
		summary.Total++

		record, err := parseCSVRow(row)
		if err != nil {
			summary.Failed++
			summary.Errors = append(summary.Errors, fmt.Sprintf("line %d: %v", line, err))
			continue
		}
		if err := s.store.Insert(ctx, record); err != nil {
			summary.Failed++
			summary.Errors = append(summary.Errors, fmt.Sprintf("line %d: store record: %v", line, err))
			continue
		}
		summary.Imported++
	}

	if summary.Imported > 0 {
		if err := s.cache.Invalidate(ctx, analyticsCachePattern); err != nil {
			s.logger.Warn("invalidate analytics cache after import", zap.Error(err))
		}
	}

	s.logger.Info("csv import finished",
		zap.String("batch_id", summary.BatchID),
		zap.Int("total", summary.Total),
		zap.Int("imported", summary.Imported),
		zap.Int("failed", summary.Failed),
	)
	return summary, nil
}

// StatisticsReport renders the scope's aggregates and distribution into a PDF
// document.
func (s *TransferService) StatisticsReport(ctx context.Context, filter models.ScoreFilter) ([]byte, error) {
	stats, _, err := s.statistics.Statistics(ctx, filter)
	if err != nil {
		return nil, err
	}
	bins, _, err := s.statistics.Distribution(ctx, filter, models.DefaultBinCount)
	if err != nil {
		return nil, err
	}

	rows := []map[string]string{
		{"Metric": "Records", "Value": strconv.Itoa(stats.Count)},
		{"Metric": "Average", "Value": strconv.FormatFloat(stats.Average, 'f', 2, 64)},
		{"Metric": "Highest", "Value": strconv.FormatFloat(stats.Max, 'f', 2, 64)},
		{"Metric": "Lowest", "Value": strconv.FormatFloat(stats.Min, 'f', 2, 64)},
		{"Metric": "Std deviation", "Value": strconv.FormatFloat(stats.StdDev, 'f', 2, 64)},
		{"Metric": "Pass rate", "Value": strconv.FormatFloat(stats.PassRate, 'f', 2, 64) + "%"},
	}
	for _, bin := range bins {
		rows = append(rows, map[string]string{
			"Metric": "Band " + bin.Label,
			"Value":  fmt.Sprintf("%d (%.2f%%)", bin.Count, bin.Percentage),
		})
	}

	title := reportTitle(filter)
	payload, err := s.pdf.Render(export.Dataset{Headers: []string{"Metric", "Value"}, Rows: rows}, title)
	if err != nil {
		return nil, fmt.Errorf("render statistics report: %w", err)
	}
	return payload, nil
}

func reportTitle(filter models.ScoreFilter) string {
	parts := []string{"Score statistics"}
	if filter.ClassName != "" {
		parts = append(parts, filter.ClassName)
	}
	if filter.Course != "" {
		parts = append(parts, filter.Course)
	}
	if filter.ExamDate != nil {
		parts = append(parts, filter.ExamDate.Format(models.ExamDateLayout))
	}
	return strings.Join(parts, " - ")
}

func isHeaderRow(row []string) bool {
	return len(row) > 0 && strings.EqualFold(strings.TrimSpace(row[0]), csvHeaders[0])
}

func parseCSVRow(row []string) (*models.ScoreRecord, error) {
	if len(row) < len(csvHeaders) {
		return nil, fmt.Errorf("expected %d columns, got %d", len(csvHeaders), len(row))
	}
	for i := range row {
		row[i] = strings.TrimSpace(row[i])
	}
	if row[0] == "" || row[1] == "" || row[2] == "" || row[3] == "" {
		return nil, fmt.Errorf("student id, name, class and course are required")
	}
	score, err := strconv.ParseFloat(row[4], 64)
	if err != nil {
		return nil, fmt.Errorf("invalid score %q", row[4])
	}
	if score < 0 || score > 100 {
		return nil, fmt.Errorf("score %.2f out of range", score)
	}
	examDate, err := time.Parse(models.ExamDateLayout, row[5])
	if err != nil {
		return nil, fmt.Errorf("invalid exam date %q", row[5])
	}
	return &models.ScoreRecord{
		StudentID:   row[0],
		StudentName: row[1],
		ClassName:   row[2],
		Course:      row[3],
		Score:       score,
		ExamDate:    examDate,
	}, nil
}
