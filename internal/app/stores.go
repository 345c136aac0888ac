package app

import (
	"context"

	"quizdesk/internal/domain"
)

// QuizStore exposes the read side of the record store. Implementations must
// return ordered sequences (ascending id) from the list methods and
// domain.ErrQuizNotFound / domain.ErrQuestionNotFound for missing records.
type QuizStore interface {
	GetQuiz(ctx context.Context, id int64) (domain.Quiz, error)
	ListQuizzes(ctx context.Context) ([]domain.Quiz, error)
	ListQuestions(ctx context.Context, quizID int64) ([]domain.Question, error)
	ListAnswers(ctx context.Context, questionID int64) ([]domain.Answer, error)
	ListCorrectAnswerIDs(ctx context.Context, questionID int64) ([]int64, error)
}

// StatStore persists and retrieves graded attempts.
type StatStore interface {
	CreateUserStat(ctx context.Context, stat domain.UserStat) (domain.UserStat, error)
	ListUserStats(ctx context.Context, userID int64) ([]domain.UserStat, error)
}

// CatalogStore exposes the write side of the record store for quiz content.
type CatalogStore interface {
	CreateQuiz(ctx context.Context, quiz domain.Quiz) (domain.Quiz, error)
	CreateQuestion(ctx context.Context, question domain.Question) (domain.Question, error)
	CreateAnswer(ctx context.Context, answer domain.Answer) (domain.Answer, error)
	CountCorrectAnswers(ctx context.Context, questionID int64) (int, error)
	// DeleteQuiz removes a quiz; its questions and their answers cascade.
	DeleteQuiz(ctx context.Context, quizID int64) error
}

// UserStore resolves and provisions user identities.
type UserStore interface {
	GetUserByName(ctx context.Context, username string) (domain.User, error)
	CreateUser(ctx context.Context, user domain.User) (domain.User, error)
}
