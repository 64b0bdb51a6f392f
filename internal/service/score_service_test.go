package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/edulite/scorebook-api/internal/models"
	appErrors "github.com/edulite/scorebook-api/pkg/errors"
)

type mockScoreStore struct {
	records   []models.ScoreRecord
	found     *models.ScoreRecord
	findErr   error
	insertErr error
	updateErr error
	deleteErr error
	inserted  []models.ScoreRecord
	classes   []string
	courses   []string
	dates     []time.Time
}

func (m *mockScoreStore) List(_ context.Context, _ models.ScoreFilter) ([]models.ScoreRecord, error) {
	return m.records, nil
}

func (m *mockScoreStore) FindByID(_ context.Context, id int64) (*models.ScoreRecord, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	return m.found, nil
}

func (m *mockScoreStore) Insert(_ context.Context, record *models.ScoreRecord) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	record.ID = int64(len(m.inserted) + 1)
	m.inserted = append(m.inserted, *record)
	return nil
}

func (m *mockScoreStore) Update(_ context.Context, _ int64, _ *models.ScoreRecord) error {
	return m.updateErr
}

func (m *mockScoreStore) Delete(_ context.Context, _ int64) error {
	return m.deleteErr
}

func (m *mockScoreStore) DistinctClasses(_ context.Context) ([]string, error) {
	return m.classes, nil
}

func (m *mockScoreStore) DistinctCourses(_ context.Context) ([]string, error) {
	return m.courses, nil
}

func (m *mockScoreStore) DistinctExamDates(_ context.Context) ([]time.Time, error) {
	return m.dates, nil
}

func validUpsertRequest() models.UpsertScoreRequest {
	return models.UpsertScoreRequest{
		StudentID:   "S1",
		StudentName: "Ana",
		ClassName:   "3-1",
		Course:      "math",
		Score:       88.5,
		ExamDate:    "2024-06-01",
	}
}

func TestScoreServiceCreate(t *testing.T) {
	store := &mockScoreStore{}
	svc := NewScoreService(store, disabledCache(), zap.NewNop())

	record, err := svc.Create(context.Background(), validUpsertRequest())
	require.NoError(t, err)
	assert.Equal(t, int64(1), record.ID)
	assert.Equal(t, "S1", record.StudentID)
	assert.Equal(t, mustDate(t, "2024-06-01"), record.ExamDate)
	require.Len(t, store.inserted, 1)
}

func TestScoreServiceCreateRejectsMissingFields(t *testing.T) {
	svc := NewScoreService(&mockScoreStore{}, disabledCache(), zap.NewNop())

	req := validUpsertRequest()
	req.StudentID = ""
	_, err := svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestScoreServiceCreateRejectsOutOfRangeScore(t *testing.T) {
	svc := NewScoreService(&mockScoreStore{}, disabledCache(), zap.NewNop())

	req := validUpsertRequest()
	req.Score = 101
	_, err := svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestScoreServiceCreateRejectsBadDate(t *testing.T) {
	svc := NewScoreService(&mockScoreStore{}, disabledCache(), zap.NewNop())

	req := validUpsertRequest()
	req.ExamDate = "06/01/2024"
	_, err := svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestScoreServiceGetNotFound(t *testing.T) {
	store := &mockScoreStore{findErr: sql.ErrNoRows}
	svc := NewScoreService(store, disabledCache(), zap.NewNop())

	_, err := svc.Get(context.Background(), 42)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestScoreServiceUpdateNotFound(t *testing.T) {
	store := &mockScoreStore{updateErr: sql.ErrNoRows}
	svc := NewScoreService(store, disabledCache(), zap.NewNop())

	_, err := svc.Update(context.Background(), 42, validUpsertRequest())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestScoreServiceDeleteNotFound(t *testing.T) {
	store := &mockScoreStore{deleteErr: sql.ErrNoRows}
	svc := NewScoreService(store, disabledCache(), zap.NewNop())

	err := svc.Delete(context.Background(), 42)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestScoreServiceListPaginates(t *testing.T) {
	date := mustDate(t, "2024-06-01")
	store := &mockScoreStore{}
	for i := 0; i < 7; i++ {
		store.records = append(store.records, models.ScoreRecord{ID: int64(i + 1), ExamDate: date})
	}
	svc := NewScoreService(store, disabledCache(), zap.NewNop())

	page, pagination, err := svc.List(context.Background(), models.ScoreFilter{}, 2, 3)
	require.NoError(t, err)
	require.Len(t, page, 3)
	assert.Equal(t, int64(4), page[0].ID)
	assert.Equal(t, 7, pagination.TotalCount)
	assert.Equal(t, 2, pagination.Page)

	last, _, err := svc.List(context.Background(), models.ScoreFilter{}, 3, 3)
	require.NoError(t, err)
	require.Len(t, last, 1)

	beyond, pagination, err := svc.List(context.Background(), models.ScoreFilter{}, 4, 3)
	require.NoError(t, err)
	assert.Empty(t, beyond)
	assert.Equal(t, 7, pagination.TotalCount)
}

func TestScoreServiceWriteInvalidatesAnalyticsCache(t *testing.T) {
	cacheRepo := &stubCacheRepo{}
	cacheSvc := NewCacheService(cacheRepo, nil, time.Minute, zap.NewNop(), true)
	require.NoError(t, cacheSvc.Set(context.Background(), "analytics:statistics", models.ScoreStatistics{Count: 1}, 0))

	store := &mockScoreStore{}
	svc := NewScoreService(store, cacheSvc, zap.NewNop())

	_, err := svc.Create(context.Background(), validUpsertRequest())
	require.NoError(t, err)

	var cached models.ScoreStatistics
	hit, err := cacheSvc.Get(context.Background(), "analytics:statistics", &cached)
	require.NoError(t, err)
	assert.False(t, hit)
}
