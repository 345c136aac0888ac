package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"quizdesk/internal/domain"
)

// CreateQuizInput is the admin payload for a new quiz.
type CreateQuizInput struct {
	Title       string `json:"title" validate:"required,min=5"`
	Description string `json:"description"`
}

// CreateQuestionInput is the admin payload for a new question.
type CreateQuestionInput struct {
	Quiz int64  `json:"quiz" validate:"required"`
	Text string `json:"text" validate:"required"`
}

// CreateAnswerInput is the admin payload for a new answer. An empty type
// defaults to single.
type CreateAnswerInput struct {
	Question  int64             `json:"question" validate:"required"`
	Text      string            `json:"answer" validate:"required"`
	IsCorrect bool              `json:"is_correct"`
	Type      domain.AnswerType `json:"answer_type" validate:"omitempty,oneof=single multiple select_word"`
}

// CatalogService owns the admin write path for quiz content and the read-only
// list/detail projections. The single-correct-answer invariant for
// single-typed questions is enforced here, at write time; grading trusts it.
type CatalogService struct {
	store    QuizStore
	catalog  CatalogStore
	validate *validator.Validate
}

func NewCatalogService(store QuizStore, catalog CatalogStore) *CatalogService {
	return &CatalogService{
		store:    store,
		catalog:  catalog,
		validate: validator.New(),
	}
}

// ListQuizzes returns all quizzes without their questions.
func (c *CatalogService) ListQuizzes(ctx context.Context) ([]domain.Quiz, error) {
	return c.store.ListQuizzes(ctx)
}

// GetQuizDetail returns a quiz with its ordered questions, each carrying its
// ordered answers.
func (c *CatalogService) GetQuizDetail(ctx context.Context, quizID int64) (domain.Quiz, error) {
	quiz, err := c.store.GetQuiz(ctx, quizID)
	if err != nil {
		return domain.Quiz{}, err
	}

	questions, err := c.store.ListQuestions(ctx, quiz.ID)
	if err != nil {
		return domain.Quiz{}, fmt.Errorf("list questions: %w", err)
	}
	for i := range questions {
		answers, err := c.store.ListAnswers(ctx, questions[i].ID)
		if err != nil {
			return domain.Quiz{}, fmt.Errorf("list answers: %w", err)
		}
		questions[i].Answers = answers
	}
	quiz.Questions = questions
	return quiz, nil
}

// CreateQuiz validates and stores a new quiz.
func (c *CatalogService) CreateQuiz(ctx context.Context, in CreateQuizInput) (domain.Quiz, error) {
	if strings.TrimSpace(in.Title) == "" {
		return domain.Quiz{}, domain.NewValidationError("title", "Title cannot be empty")
	}
	if err := c.validate.Struct(in); err != nil {
		return domain.Quiz{}, quizInputError(err)
	}
	return c.catalog.CreateQuiz(ctx, domain.Quiz{
		Title:       in.Title,
		Description: in.Description,
	})
}

// CreateQuestion validates and stores a new question under an existing quiz.
func (c *CatalogService) CreateQuestion(ctx context.Context, in CreateQuestionInput) (domain.Question, error) {
	if err := c.validate.Struct(in); err != nil {
		return domain.Question{}, questionInputError(err)
	}
	if strings.TrimSpace(in.Text) == "" {
		return domain.Question{}, domain.NewValidationError("text", "Question text cannot be empty")
	}
	if _, err := c.store.GetQuiz(ctx, in.Quiz); err != nil {
		return domain.Question{}, err
	}
	return c.catalog.CreateQuestion(ctx, domain.Question{
		QuizID: in.Quiz,
		Text:   in.Text,
	})
}

// DeleteQuiz removes a quiz and, by cascade, its questions, answers and
// recorded stats.
func (c *CatalogService) DeleteQuiz(ctx context.Context, quizID int64) error {
	return c.catalog.DeleteQuiz(ctx, quizID)
}

// CreateAnswer validates and stores a new answer. For a correct answer it
// first checks that no sibling is already flagged correct.
func (c *CatalogService) CreateAnswer(ctx context.Context, in CreateAnswerInput) (domain.Answer, error) {
	if err := c.validate.Struct(in); err != nil {
		return domain.Answer{}, answerInputError(err)
	}
	if strings.TrimSpace(in.Text) == "" {
		return domain.Answer{}, domain.NewValidationError("answer", "Answer text cannot be empty")
	}

	answerType := in.Type
	if answerType == "" {
		answerType = domain.AnswerTypeSingle
	}

	if in.IsCorrect {
		existing, err := c.catalog.CountCorrectAnswers(ctx, in.Question)
		if err != nil {
			return domain.Answer{}, err
		}
		if existing >= 1 {
			return domain.Answer{}, domain.NewValidationError("is_correct",
				"Each question can only have one correct answer for single type answer")
		}
	}

	return c.catalog.CreateAnswer(ctx, domain.Answer{
		QuestionID: in.Question,
		Text:       in.Text,
		IsCorrect:  in.IsCorrect,
		Type:       answerType,
	})
}

func quizInputError(err error) error {
	verr := &domain.ValidationError{}
	for _, fe := range fieldErrors(err) {
		switch {
		case fe.Field() == "Title" && fe.Tag() == "min":
			verr.Add("title", "Title must be at least 5 characters long")
		case fe.Field() == "Title":
			verr.Add("title", "Title cannot be empty")
		}
	}
	if verr.Empty() {
		return err
	}
	return verr
}

func questionInputError(err error) error {
	verr := &domain.ValidationError{}
	for _, fe := range fieldErrors(err) {
		switch fe.Field() {
		case "Quiz":
			verr.Add("quiz", "Quiz is required")
		case "Text":
			verr.Add("text", "Question text cannot be empty")
		}
	}
	if verr.Empty() {
		return err
	}
	return verr
}

func answerInputError(err error) error {
	verr := &domain.ValidationError{}
	for _, fe := range fieldErrors(err) {
		switch fe.Field() {
		case "Question":
			verr.Add("question", "Question is required")
		case "Text":
			verr.Add("answer", "Answer text cannot be empty")
		case "Type":
			verr.Add("answer_type", "Answer type must be one of single, multiple, select_word")
		}
	}
	if verr.Empty() {
		return err
	}
	return verr
}

func fieldErrors(err error) validator.ValidationErrors {
	if fes, ok := err.(validator.ValidationErrors); ok {
		return fes
	}
	return nil
}
