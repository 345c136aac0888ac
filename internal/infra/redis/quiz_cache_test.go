package redis_test

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"

	"quizdesk/internal/app"
	"quizdesk/internal/domain"
	"quizdesk/internal/infra/memory"
	infraredis "quizdesk/internal/infra/redis"
)

func TestQuizCacheCachesSnapshotInRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	ctx := context.Background()
	store := memory.NewStore()
	quiz, question, paris := seedCapitals(t, store)

	counting := &countingStore{QuizStore: store}
	cache := infraredis.NewQuizCache(newClient(mr), counting, time.Minute)

	got, err := cache.GetQuiz(ctx, quiz.ID)
	if err != nil {
		t.Fatalf("get quiz: %v", err)
	}
	if got.Title != "Capitals Quiz" {
		t.Fatalf("unexpected quiz %+v", got)
	}
	if counting.getCalls != 1 {
		t.Fatalf("expected one inner read, got %d", counting.getCalls)
	}

	// Second read comes from redis, inner store untouched.
	if _, err := cache.GetQuiz(ctx, quiz.ID); err != nil {
		t.Fatalf("get quiz: %v", err)
	}
	if counting.getCalls != 1 {
		t.Fatalf("expected cache hit, inner reads=%d", counting.getCalls)
	}

	// Per-question reads resolve through the reverse index.
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

func TestQuizCacheExpiryReloads(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	ctx := context.Background()
	store := memory.NewStore()
	quiz, _, _ := seedCapitals(t, store)

	counting := &countingStore{QuizStore: store}
	cache := infraredis.NewQuizCache(newClient(mr), counting, time.Minute)

	if _, err := cache.GetQuiz(ctx, quiz.ID); err != nil {
		t.Fatalf("get quiz: %v", err)
	}
	mr.FastForward(2 * time.Minute)
	if _, err := cache.GetQuiz(ctx, quiz.ID); err != nil {
		t.Fatalf("get quiz: %v", err)
	}
	if counting.getCalls != 2 {
		t.Fatalf("expected reload after expiry, inner reads=%d", counting.getCalls)
	}
}

func TestQuizCacheNotFoundPassesThrough(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	cache := infraredis.NewQuizCache(newClient(mr), memory.NewStore(), time.Minute)
	if _, err := cache.GetQuiz(context.Background(), 42); err != domain.ErrQuizNotFound {
		t.Fatalf("expected quiz not found, got %v", err)
	}
}

func seedCapitals(t *testing.T, store *memory.Store) (domain.Quiz, domain.Question, domain.Answer) {
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

func newClient(mr *miniredis.Miniredis) *goredis.Client {
	return goredis.NewClient(&goredis.Options{
		Addr: mr.Addr(),
	})
}
