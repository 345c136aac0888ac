package memory

import (
	"context"
	"strconv"

	"quizdesk/internal/app"
	"quizdesk/internal/domain"
)

// loadSnapshot assembles a quiz with its nested questions and answers from
// the inner store in one pass.
func loadSnapshot(ctx context.Context, store app.QuizStore, quizID int64) (domain.Quiz, error) {
	quiz, err := store.GetQuiz(ctx, quizID)
	if err != nil {
		return domain.Quiz{}, err
	}
	questions, err := store.ListQuestions(ctx, quiz.ID)
	if err != nil {
		return domain.Quiz{}, err
	}
	for i := range questions {
		answers, err := store.ListAnswers(ctx, questions[i].ID)
		if err != nil {
			return domain.Quiz{}, err
		}
		questions[i].Answers = answers
	}
	quiz.Questions = questions
	return quiz, nil
}

func quizIDKey(quizID int64) string {
	return strconv.FormatInt(quizID, 10)
}
