package handler

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/edulite/scorebook-api/internal/models"
	appErrors "github.com/edulite/scorebook-api/pkg/errors"
)

// parseScoreFilter reads the common scope parameters from the query string.
// Absent parameters leave the corresponding dimension unset.
func parseScoreFilter(c *gin.Context) (models.ScoreFilter, error) {
	filter := models.ScoreFilter{
		ClassName: strings.TrimSpace(c.Query("class")),
		Course:    strings.TrimSpace(c.Query("course")),
		Keyword:   strings.TrimSpace(c.Query("keyword")),
	}
	dateStr := strings.TrimSpace(c.Query("date"))
	if dateStr != "" {
		parsed, err := time.Parse(models.ExamDateLayout, dateStr)
		if err != nil {
			return models.ScoreFilter{}, appErrors.Clone(appErrors.ErrValidation, "invalid date format, expected YYYY-MM-DD")
		}
		filter.ExamDate = &parsed
	}
	return filter, nil
}

// parseExamDate reads a required exam date parameter. A missing value returns
// the zero time so services can enforce their own scope rules.
func parseExamDate(c *gin.Context) (time.Time, error) {
	dateStr := strings.TrimSpace(c.Query("date"))
	if dateStr == "" {
		return time.Time{}, nil
	}
	parsed, err := time.Parse(models.ExamDateLayout, dateStr)
	if err != nil {
		return time.Time{}, appErrors.Clone(appErrors.ErrValidation, "invalid date format, expected YYYY-MM-DD")
	}
	return parsed, nil
}
