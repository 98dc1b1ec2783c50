package services

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/campus-hub/quiz-service/internal/models"
	"github.com/campus-hub/quiz-service/internal/repositories"
	"github.com/xuri/excelize/v2"
)

// ExportService produces an xlsx results sheet for a quiz: one row per
// attempt with score, state and violation count. Lecturer/admin only.
type ExportService interface {
	ExportResults(ctx context.Context, quizID uint, caller models.Caller) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewExportService(repo repositories.Repository, logger *slog.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

func (s *exportService) ExportResults(ctx context.Context, quizID uint, caller models.Caller) (*bytes.Buffer, string, error) {
	quiz, err := s.repo.Quiz().GetByID(ctx, nil, quizID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, "", ErrQuizNotFound
		}
		return nil, "", fmt.Errorf("failed to get quiz: %w", err)
	}

	allowed := caller.Role == models.RoleAdmin ||
		(caller.Role == models.RoleLecturer && quiz.LecturerID == caller.ID)
	if !allowed {
		return nil, "", NewPermissionError(caller.ID, quizID, "quiz", "export_results", "not quiz owner or admin")
	}

	attempts, err := s.repo.Attempt().ListByQuiz(ctx, nil, quizID, repositories.AttemptFilters{})
	if err != nil {
		return nil, "", fmt.Errorf("failed to list attempts: %w", err)
	}

	file := excelize.NewFile()
	defer file.Close()

	sheet := "Results"
	file.SetSheetName(file.GetSheetName(0), sheet)

	headers := []string{"Attempt ID", "Student ID", "Status", "Score", "Total Marks", "Started At", "Submitted At", "Violations", "Reason"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := file.SetCellValue(sheet, cell, header); err != nil {
			return nil, "", fmt.Errorf("failed to write header: %w", err)
		}
	}

	for row, attempt := range attempts {
		violations, err := s.repo.Violation().CountByAttempt(ctx, nil, attempt.ID)
		if err != nil {
			return nil, "", fmt.Errorf("failed to count violations: %w", err)
		}

		values := []interface{}{
			attempt.ID,
			attempt.StudentID,
			string(attempt.Status),
			formatScore(attempt.Score),
			quiz.TotalMarks,
			attempt.StartedAt.Format(time.RFC3339),
			formatTime(attempt.SubmittedAt),
			violations,
			formatReason(attempt.Reason),
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := file.SetCellValue(sheet, cell, value); err != nil {
				return nil, "", fmt.Errorf("failed to write row: %w", err)
			}
		}
	}

	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, "", fmt.Errorf("failed to serialize workbook: %w", err)
	}

	s.logger.Info("Exported quiz results",
		"quiz_id", quizID,
		"attempts", len(attempts),
		"caller_id", caller.ID)

	filename := fmt.Sprintf("quiz-%d-results.xlsx", quizID)
	return buf, filename, nil
}

func formatScore(score *float64) interface{} {
	if score == nil {
		return ""
	}
	return *score
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}

func formatReason(reason *string) string {
	if reason == nil {
		return ""
	}
	return *reason
}
