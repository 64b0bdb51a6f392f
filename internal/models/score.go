package models

import "time"

// ExamDateLayout is the wire format for exam dates. Exam dates carry no time
// component; values are stored and compared at day granularity.
const ExamDateLayout = "2006-01-02"

// PassThreshold is the fixed policy constant: a score at or above it passes.
const PassThreshold = 60.0

// ScoreRecord is one exam result for one student in one course on one date.
// (student_id, course, exam_date) is the natural key of a well-formed dataset,
// but duplicates are accepted and both contribute to aggregates.
type ScoreRecord struct {
	ID          int64     `db:"id" json:"id"`
	StudentID   string    `db:"student_id" json:"student_id"`
	StudentName string    `db:"student_name" json:"student_name"`
	ClassName   string    `db:"class_name" json:"class_name"`
	Course      string    `db:"course" json:"course"`
	Score       float64   `db:"score" json:"score"`
	ExamDate    time.Time `db:"exam_date" json:"exam_date"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// ScoreFilter scopes score queries. The zero value of each dimension means
// "all": empty strings for class/course/keyword, nil for the exam date. Class,
// course and student fields are validated non-empty on the write path, so the
// unset state cannot collide with stored data.
type ScoreFilter struct {
	ClassName string
	Course    string
	Keyword   string
	ExamDate  *time.Time
}

// WithoutCourse returns a copy of the filter with the course dimension
// cleared. Cross-course comparison scopes by class and date only.
func (f ScoreFilter) WithoutCourse() ScoreFilter {
	f.Course = ""
	return f
}

// UpsertScoreRequest is the write-path payload for creating or replacing a
// score record. ExamDate travels as a string in ExamDateLayout form.
type UpsertScoreRequest struct {
	StudentID   string  `json:"student_id" validate:"required,max=64"`
	StudentName string  `json:"student_name" validate:"required,max=128"`
	ClassName   string  `json:"class_name" validate:"required,max=128"`
	Course      string  `json:"course" validate:"required,max=128"`
	Score       float64 `json:"score" validate:"gte=0,lte=100"`
	ExamDate    string  `json:"exam_date" validate:"required"`
}

// ImportSummary reports the outcome of a CSV import batch.
type ImportSummary struct {
	BatchID  string   `json:"batch_id"`
	Total    int      `json:"total"`
	Imported int      `json:"imported"`
	Failed   int      `json:"failed"`
	Errors   []string `json:"errors,omitempty"`
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
