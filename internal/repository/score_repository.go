package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/edulite/scorebook-api/internal/models"
)

// ScoreRepository handles score record persistence.
type ScoreRepository struct {
	db *sqlx.DB
}

// NewScoreRepository creates a new score repository.
func NewScoreRepository(db *sqlx.DB) *ScoreRepository {
	return &ScoreRepository{db: db}
}

// EnsureSchema creates the scores table and its indexes when missing.
func (r *ScoreRepository) EnsureSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS scores (
            id BIGSERIAL PRIMARY KEY,
            student_id TEXT NOT NULL,
            student_name TEXT NOT NULL,
            class_name TEXT NOT NULL,
            course TEXT NOT NULL,
            score DOUBLE PRECISION NOT NULL,
            exam_date DATE NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		"CREATE INDEX IF NOT EXISTS idx_scores_student_id ON scores(student_id)",
		"CREATE INDEX IF NOT EXISTS idx_scores_class_course ON scores(class_name, course)",
		"CREATE INDEX IF NOT EXISTS idx_scores_exam_date ON scores(exam_date)",
	}
	for _, stmt := range statements {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure scores schema: %w", err)
		}
	}
	return nil
}

// List returns score records matching the filter, newest exam first. Every
// query engine consumes this single predicate; no caller re-implements
// filtering.
func (r *ScoreRepository) List(ctx context.Context, filter models.ScoreFilter) ([]models.ScoreRecord, error) {
	var builder strings.Builder
	builder.WriteString("SELECT id, student_id, student_name, class_name, course, score, exam_date, created_at FROM scores WHERE 1=1")
	var args []interface{}
	if filter.ClassName != "" {
		args = append(args, filter.ClassName)
		builder.WriteString(fmt.Sprintf(" AND class_name = $%d", len(args)))
	}
	if filter.Course != "" {
		args = append(args, filter.Course)
		builder.WriteString(fmt.Sprintf(" AND course = $%d", len(args)))
	}
	if filter.ExamDate != nil {
		args = append(args, filter.ExamDate.Format(models.ExamDateLayout))
		builder.WriteString(fmt.Sprintf(" AND exam_date = $%d", len(args)))
	}
	if filter.Keyword != "" {
		args = append(args, "%"+filter.Keyword+"%")
		builder.WriteString(fmt.Sprintf(" AND (student_id ILIKE $%d OR student_name ILIKE $%d)", len(args), len(args)))
	}
	builder.WriteString(" ORDER BY exam_date DESC, id ASC")

	var records []models.ScoreRecord
	if err := r.db.SelectContext(ctx, &records, builder.String(), args...); err != nil {
		return nil, fmt.Errorf("list scores: %w", err)
	}
	return records, nil
}

// FindByID fetches a single score record.
func (r *ScoreRepository) FindByID(ctx context.Context, id int64) (*models.ScoreRecord, error) {
	const query = `SELECT id, student_id, student_name, class_name, course, score, exam_date, created_at
        FROM scores WHERE id = $1`
	var record models.ScoreRecord
	if err := r.db.GetContext(ctx, &record, query, id); err != nil {
		return nil, err
	}
	return &record, nil
}

// Insert stores a new score record and assigns its identifier. Identifiers
// come from a sequence: monotonic, never reused.
func (r *ScoreRepository) Insert(ctx context.Context, record *models.ScoreRecord) error {
	const query = `INSERT INTO scores (student_id, student_name, class_name, course, score, exam_date)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, created_at`
	row := r.db.QueryRowxContext(ctx, query,
		record.StudentID,
		record.StudentName,
		record.ClassName,
		record.Course,
		record.Score,
		record.ExamDate.Format(models.ExamDateLayout),
	)
	if err := row.Scan(&record.ID, &record.CreatedAt); err != nil {
		return fmt.Errorf("insert score: %w", err)
	}
	return nil
}

// Update replaces all fields of a record except its identifier.
func (r *ScoreRepository) Update(ctx context.Context, id int64, record *models.ScoreRecord) error {
	const query = `UPDATE scores SET
        student_id = $1,
        student_name = $2,
        class_name = $3,
        course = $4,
        score = $5,
        exam_date = $6
        WHERE id = $7`
	result, err := r.db.ExecContext(ctx, query,
		record.StudentID,
		record.StudentName,
		record.ClassName,
		record.Course,
		record.Score,
		record.ExamDate.Format(models.ExamDateLayout),
		id,
	)
	if err != nil {
		return fmt.Errorf("update score: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update score: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a score record.
func (r *ScoreRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM scores WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete score: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete score: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DistinctClasses returns class names present in the data, ascending.
func (r *ScoreRepository) DistinctClasses(ctx context.Context) ([]string, error) {
	var classes []string
	if err := r.db.SelectContext(ctx, &classes, "SELECT DISTINCT class_name FROM scores ORDER BY class_name"); err != nil {
		return nil, fmt.Errorf("distinct classes: %w", err)
	}
	return classes, nil
}

// DistinctCourses returns course names present in the data, ascending.
func (r *ScoreRepository) DistinctCourses(ctx context.Context) ([]string, error) {
	var courses []string
	if err := r.db.SelectContext(ctx, &courses, "SELECT DISTINCT course FROM scores ORDER BY course"); err != nil {
		return nil, fmt.Errorf("distinct courses: %w", err)
	}
	return courses, nil
}

// DistinctExamDates returns exam dates present in the data, newest first.
func (r *ScoreRepository) DistinctExamDates(ctx context.Context) ([]time.Time, error) {
	var dates []time.Time
	if err := r.db.SelectContext(ctx, &dates, "SELECT DISTINCT exam_date FROM scores ORDER BY exam_date DESC"); err != nil {
		return nil, fmt.Errorf("distinct exam dates: %w", err)
	}
	return dates, nil
}
