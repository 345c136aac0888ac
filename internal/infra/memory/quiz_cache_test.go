package memory_test

import (
	"context"
	"testing"
	"time"

	"quizdesk/internal/app"
	"quizdesk/internal/domain"
	"quizdesk/internal/infra/memory"
)

func TestQuizCacheServesSnapshotsWithoutRereading(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	quiz, question, paris := seedQuiz(t, store)

	counting := &countingStore{QuizStore: store}
	cache := memory.NewQuizCache(counting, time.Minute)

	questions, err := cache.ListQuestions(ctx, quiz.ID)
	if err != nil {
		t.Fatalf("list questions: %v", err)
	}
	if len(questions) != 1 || questions[0].ID != question.ID {
		t.Fatalf("unexpected questions %+v", questions)
	}
	if counting.getCalls != 1 {
		t.Fatalf("expected one inner read, got %d", counting.getCalls)
	}

	// Per-question reads come from the same snapshot, no inner calls.
	correct, err := cache.ListCorrectAnswerIDs(ctx, question.ID)
	if err != nil {
		t.Fatalf("list correct: %v", err)
	}
	if len(correct) != 1 || correct[0] != paris.ID {
		t.Fatalf("expected correct set {%d}, got %v", paris.ID, correct)
	}
	if counting.getCalls != 1 {
		t.Fatalf("expected cache hit, inner reads=%d", counting.getCalls)
	}
}

func TestQuizCacheInvalidate(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	quiz, _, _ := seedQuiz(t, store)

	counting := &countingStore{QuizStore: store}
	cache := memory.NewQuizCache(counting, time.Minute)

	if _, err := cache.GetQuiz(ctx, quiz.ID); err != nil {
		t.Fatalf("get quiz: %v", err)
	}
	cache.Invalidate(quiz.ID)
	if _, err := cache.GetQuiz(ctx, quiz.ID); err != nil {
		t.Fatalf("get quiz: %v", err)
	}
	if counting.getCalls != 2 {
		t.Fatalf("expected reload after invalidate, inner reads=%d", counting.getCalls)
	}
}

func TestQuizCacheMissPropagatesNotFound(t *testing.T) {
	cache := memory.NewQuizCache(memory.NewStore(), time.Minute)
	if _, err := cache.GetQuiz(context.Background(), 42); err != domain.ErrQuizNotFound {
		t.Fatalf("expected quiz not found, got %v", err)
	}
}

func seedQuiz(t *testing.T, store *memory.Store) (domain.Quiz, domain.Question, domain.Answer) {
	t.Helper()
	ctx := context.Background()
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
	if _, err := store.CreateAnswer(ctx, domain.Answer{QuestionID: question.ID, Text: "Lyon"}); err != nil {
		t.Fatalf("create answer: %v", err)
	}
	return quiz, question, paris
}

type countingStore struct {
	app.QuizStore
	getCalls int
}

func (s *countingStore) GetQuiz(ctx context.Context, id int64) (domain.Quiz, error) {
	s.getCalls++
	return s.QuizStore.GetQuiz(ctx, id)
}
