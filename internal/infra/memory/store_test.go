package memory_test

import (
	"context"
	"testing"
	"time"

	"quizdesk/internal/domain"
	"quizdesk/internal/infra/memory"
)

func TestStoreQuizLifecycle(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	quiz, err := store.CreateQuiz(ctx, domain.Quiz{Title: "Capitals Quiz"})
	if err != nil {
		t.Fatalf("create quiz: %v", err)
	}
	question, err := store.CreateQuestion(ctx, domain.Question{QuizID: quiz.ID, Text: "Capital of France?"})
	if err != nil {
		t.Fatalf("create question: %v", err)
	}
	paris, err := store.CreateAnswer(ctx, domain.Answer{QuestionID: question.ID, Text: "Paris", IsCorrect: true})
	if err != nil {
		t.Fatalf("create answer: %v", err)
	}
	if paris.Type != domain.AnswerTypeSingle {
		t.Fatalf("expected default single type, got %q", paris.Type)
	}
	if _, err := store.CreateAnswer(ctx, domain.Answer{QuestionID: question.ID, Text: "Lyon"}); err != nil {
		t.Fatalf("create answer: %v", err)
	}

	questions, err := store.ListQuestions(ctx, quiz.ID)
	if err != nil || len(questions) != 1 {
		t.Fatalf("expected 1 question, got %d (err=%v)", len(questions), err)
	}
	answers, err := store.ListAnswers(ctx, question.ID)
	if err != nil || len(answers) != 2 {
		t.Fatalf("expected 2 answers, got %d (err=%v)", len(answers), err)
	}
	if answers[0].ID > answers[1].ID {
		t.Fatalf("answers not ordered by id: %+v", answers)
	}

	correct, err := store.ListCorrectAnswerIDs(ctx, question.ID)
	if err != nil {
		t.Fatalf("list correct: %v", err)
	}
	if len(correct) != 1 || correct[0] != paris.ID {
		t.Fatalf("expected correct set {%d}, got %v", paris.ID, correct)
	}

	count, err := store.CountCorrectAnswers(ctx, question.ID)
	if err != nil || count != 1 {
		t.Fatalf("expected 1 correct answer, got %d (err=%v)", count, err)
	}
}

func TestStoreNotFoundErrors(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	if _, err := store.GetQuiz(ctx, 1); err != domain.ErrQuizNotFound {
		t.Fatalf("expected quiz not found, got %v", err)
	}
	if _, err := store.CreateQuestion(ctx, domain.Question{QuizID: 1}); err != domain.ErrQuizNotFound {
		t.Fatalf("expected quiz not found, got %v", err)
	}
	if _, err := store.CreateAnswer(ctx, domain.Answer{QuestionID: 1, Text: "x"}); err != domain.ErrQuestionNotFound {
		t.Fatalf("expected question not found, got %v", err)
	}
	if _, err := store.GetUserByName(ctx, "nobody"); err != domain.ErrUserNotFound {
		t.Fatalf("expected user not found, got %v", err)
	}
}

func TestStoreDeleteQuizCascades(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	user, _ := store.CreateUser(ctx, domain.User{Username: "alice"})
	quiz, _ := store.CreateQuiz(ctx, domain.Quiz{Title: "Capitals Quiz"})
	question, _ := store.CreateQuestion(ctx, domain.Question{QuizID: quiz.ID, Text: "Capital of France?"})
	_, _ = store.CreateAnswer(ctx, domain.Answer{QuestionID: question.ID, Text: "Paris", IsCorrect: true})
	_, _ = store.CreateUserStat(ctx, domain.UserStat{UserID: user.ID, QuizID: quiz.ID, Score: 1})

	if err := store.DeleteQuiz(ctx, quiz.ID); err != nil {
		t.Fatalf("delete quiz: %v", err)
	}
	if _, err := store.GetQuiz(ctx, quiz.ID); err != domain.ErrQuizNotFound {
		t.Fatalf("expected quiz gone, got %v", err)
	}
	answers, err := store.ListAnswers(ctx, question.ID)
	if err != nil {
		t.Fatalf("list answers: %v", err)
	}
	if len(answers) != 0 {
		t.Fatalf("expected answers cascade-deleted, got %d", len(answers))
	}
	stats, err := store.ListUserStats(ctx, user.ID)
	if err != nil {
		t.Fatalf("list stats: %v", err)
	}
	if len(stats) != 0 {
		t.Fatalf("expected stats cascade-deleted, got %d", len(stats))
	}
}

func TestStoreStatsAreAppendOnly(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	user, _ := store.CreateUser(ctx, domain.User{Username: "alice"})
	quiz, _ := store.CreateQuiz(ctx, domain.Quiz{Title: "Capitals Quiz"})

	for i := 0; i < 3; i++ {
		_, err := store.CreateUserStat(ctx, domain.UserStat{
			UserID:    user.ID,
			QuizID:    quiz.ID,
			Score:     i,
			TimeTaken: time.Minute,
			DateTaken: time.Now(),
		})
		if err != nil {
			t.Fatalf("create stat: %v", err)
		}
	}

	stats, err := store.ListUserStats(ctx, user.ID)
	if err != nil {
		t.Fatalf("list stats: %v", err)
	}
	if len(stats) != 3 {
		t.Fatalf("expected 3 stats, got %d", len(stats))
	}
	if stats[0].ID == stats[1].ID {
		t.Fatalf("expected distinct stat rows, got %+v", stats)
	}
}
