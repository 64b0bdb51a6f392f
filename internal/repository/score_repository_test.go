package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edulite/scorebook-api/internal/models"
)

func newScoreRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func scoreRows(records ...models.ScoreRecord) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"id", "student_id", "student_name", "class_name", "course", "score", "exam_date", "created_at"})
	for _, r := range records {
		rows.AddRow(r.ID, r.StudentID, r.StudentName, r.ClassName, r.Course, r.Score, r.ExamDate, r.CreatedAt)
	}
	return rows
}

func TestScoreRepositoryListNoFilter(t *testing.T) {
	db, mock, cleanup := newScoreRepoMock(t)
	defer cleanup()
	repo := NewScoreRepository(db)

	examDate := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, student_id, student_name, class_name, course, score, exam_date, created_at FROM scores WHERE 1=1 ORDER BY exam_date DESC, id ASC")).
		WillReturnRows(scoreRows(models.ScoreRecord{ID: 1, StudentID: "S1", StudentName: "Ana", ClassName: "3-1", Course: "math", Score: 88.5, ExamDate: examDate, CreatedAt: time.Now()}))

	records, err := repo.List(context.Background(), models.ScoreFilter{})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "S1", records[0].StudentID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestScoreRepositoryListAllFilters(t *testing.T) {
	db, mock, cleanup := newScoreRepoMock(t)
	defer cleanup()
	repo := NewScoreRepository(db)

	examDate := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("AND class_name = $1 AND course = $2 AND exam_date = $3 AND (student_id ILIKE $4 OR student_name ILIKE $4)")).
		WithArgs("3-1", "math", "2024-06-01", "%ana%").
		WillReturnRows(scoreRows())

	_, err := repo.List(context.Background(), models.ScoreFilter{
		ClassName: "3-1",
		Course:    "math",
		ExamDate:  &examDate,
		Keyword:   "ana",
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestScoreRepositoryInsertReturnsID(t *testing.T) {
	db, mock, cleanup := newScoreRepoMock(t)
	defer cleanup()
	repo := NewScoreRepository(db)

	createdAt := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO scores")).
		WithArgs("S1", "Ana", "3-1", "math", 88.5, "2024-06-01").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(7), createdAt))

	record := &models.ScoreRecord{
		StudentID:   "S1",
		StudentName: "Ana",
		ClassName:   "3-1",
		Course:      "math",
		Score:       88.5,
		ExamDate:    time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, repo.Insert(context.Background(), record))
	assert.Equal(t, int64(7), record.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestScoreRepositoryUpdateMissingRow(t *testing.T) {
	db, mock, cleanup := newScoreRepoMock(t)
	defer cleanup()
	repo := NewScoreRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE scores SET")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), 42, &models.ScoreRecord{
		StudentID: "S1", StudentName: "Ana", ClassName: "3-1", Course: "math", Score: 80,
		ExamDate: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, sql.ErrNoRows))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestScoreRepositoryDelete(t *testing.T) {
	db, mock, cleanup := newScoreRepoMock(t)
	defer cleanup()
	repo := NewScoreRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM scores WHERE id = $1")).
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), 7))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestScoreRepositoryDistinctCatalog(t *testing.T) {
	db, mock, cleanup := newScoreRepoMock(t)
	defer cleanup()
	repo := NewScoreRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT DISTINCT class_name FROM scores ORDER BY class_name")).
		WillReturnRows(sqlmock.NewRows([]string{"class_name"}).AddRow("3-1").AddRow("3-2"))
	classes, err := repo.DistinctClasses(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"3-1", "3-2"}, classes)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT DISTINCT course FROM scores ORDER BY course")).
		WillReturnRows(sqlmock.NewRows([]string{"course"}).AddRow("english").AddRow("math"))
	courses, err := repo.DistinctCourses(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"english", "math"}, courses)

	newer := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	older := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT DISTINCT exam_date FROM scores ORDER BY exam_date DESC")).
		WillReturnRows(sqlmock.NewRows([]string{"exam_date"}).AddRow(newer).AddRow(older))
	dates, err := repo.DistinctExamDates(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []time.Time{newer, older}, dates)

	require.NoError(t, mock.ExpectationsWereMet())
}
