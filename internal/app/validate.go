package app

import (
	"fmt"

	"quizdesk/internal/domain"
)

// validateSubmission checks a raw submission against the quiz's question set.
// multiple maps question id -> whether any of its answers is multiple-typed.
//
// Every quiz question must be answered; unknown question ids in the
// submission are tolerated here (grading rejects them with a not-found).
// Returns nil when the submission is structurally valid.
func validateSubmission(sub domain.Submission, questions []domain.Question, multiple map[int64]bool) *domain.ValidationError {
	if len(sub.Answers) == 0 {
		return domain.NewValidationError("answers", "No answers submitted")
	}

	answered := make(map[int64]struct{}, len(sub.Answers))
	for _, pair := range sub.Answers {
		answered[pair.Question] = struct{}{}
	}
	for _, q := range questions {
		if _, ok := answered[q.ID]; !ok {
			return domain.NewValidationError("answers", "Not all questions have been answered")
		}
	}

	for _, pair := range sub.Answers {
		isMultiple, known := multiple[pair.Question]
		if !known {
			continue
		}
		if isMultiple {
			if !pair.Answer.IsList() {
				return domain.NewValidationError("answers",
					fmt.Sprintf("Question %d expects multiple answers (list)", pair.Question))
			}
			if len(pair.Answer.Multiple()) == 0 {
				return domain.NewValidationError("answers",
					fmt.Sprintf("Question %d requires at least one answer", pair.Question))
			}
		} else if pair.Answer.IsList() {
			return domain.NewValidationError("answers",
				fmt.Sprintf("Question %d expects a single answer, not a list", pair.Question))
		}
	}
	return nil
}
