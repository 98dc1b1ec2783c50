package services

import "github.com/campus-hub/quiz-service/internal/models"

// SubmittedAnswer is a student's selection for one question as it arrives at
// the boundary.
type SubmittedAnswer struct {
	QuestionID     uint    `json:"question_id" validate:"required"`
	SelectedOption *string `json:"selected_option" validate:"omitempty,option_letter"`
}

// ScoreAttempt computes the score for a submission deterministically. It
// iterates the quiz's questions, not the submitted answers: a question
// without a matching submission is simply incorrect, never an error, and
// submissions for unknown questions are ignored. Correctness is an exact
// case-sensitive letter match. No partial credit, no negative marking.
//
// The returned answer rows are the full replacement set for the attempt,
// one per question, with IsCorrect derived here and nowhere else.
func ScoreAttempt(questions []models.QuizQuestion, submitted []SubmittedAnswer) (float64, []models.QuizAnswer) {
	byQuestion := make(map[uint]SubmittedAnswer, len(submitted))
	for _, sub := range submitted {
		byQuestion[sub.QuestionID] = sub
	}

	var score float64
	answers := make([]models.QuizAnswer, 0, len(questions))

	for _, question := range questions {
		answer := models.QuizAnswer{QuestionID: question.ID}

		if sub, ok := byQuestion[question.ID]; ok && sub.SelectedOption != nil {
			answer.SelectedOption = sub.SelectedOption
			answer.IsCorrect = *sub.SelectedOption == question.CorrectOption
		}
		if answer.IsCorrect {
			score += question.Marks
		}
		answers = append(answers, answer)
	}

	return score, answers
}
