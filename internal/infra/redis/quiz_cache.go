package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"quizdesk/internal/app"
	"quizdesk/internal/domain"
)

// QuizCache caches full quiz snapshots in Redis and falls back to the inner
// store on cache miss. Layout:
//
//	SET quiz:{quizID}:snapshot  <json quiz with nested questions+answers>
//	SET quiz:question:{qID}     <quizID>   (reverse index for per-question reads)
//
// Both keys share the snapshot TTL (with jitter), so per-question reads for a
// cached quiz always come from the same snapshot.
type QuizCache struct {
	client *redis.Client
	inner  app.QuizStore
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

func NewQuizCache(client *redis.Client, inner app.QuizStore, ttl time.Duration) *QuizCache {
	return &QuizCache{
		client: client,
		inner:  inner,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *QuizCache) GetQuiz(ctx context.Context, id int64) (domain.Quiz, error) {
	snapshot, err := c.snapshot(ctx, id)
	if err != nil {
		return domain.Quiz{}, err
	}
	snapshot.Questions = nil
	return snapshot, nil
}

// ListQuizzes is not cached; the listing is cheap and has no grading impact.
func (c *QuizCache) ListQuizzes(ctx context.Context) ([]domain.Quiz, error) {
	return c.inner.ListQuizzes(ctx)
}

func (c *QuizCache) ListQuestions(ctx context.Context, quizID int64) ([]domain.Question, error) {
	snapshot, err := c.snapshot(ctx, quizID)
	if err != nil {
		return nil, err
	}
	questions := make([]domain.Question, 0, len(snapshot.Questions))
	for _, q := range snapshot.Questions {
		q.Answers = nil
		questions = append(questions, q)
	}
	return questions, nil
}

func (c *QuizCache) ListAnswers(ctx context.Context, questionID int64) ([]domain.Answer, error) {
	if q, ok := c.findQuestion(ctx, questionID); ok {
		return q.Answers, nil
	}
	return c.inner.ListAnswers(ctx, questionID)
}

func (c *QuizCache) ListCorrectAnswerIDs(ctx context.Context, questionID int64) ([]int64, error) {
	if q, ok := c.findQuestion(ctx, questionID); ok {
		ids := make([]int64, 0)
		for _, a := range q.Answers {
			if a.IsCorrect {
				ids = append(ids, a.ID)
			}
		}
		return ids, nil
	}
	return c.inner.ListCorrectAnswerIDs(ctx, questionID)
}

// Invalidate drops the cached snapshot for a quiz, e.g. after a catalog write.
func (c *QuizCache) Invalidate(ctx context.Context, quizID int64) {
	_ = c.client.Del(ctx, c.snapshotKey(quizID)).Err()
}

func (c *QuizCache) snapshot(ctx context.Context, quizID int64) (domain.Quiz, error) {
	if quiz, ok := c.cachedSnapshot(ctx, quizID); ok {
		return quiz, nil
	}

	result, err, _ := c.sf.Do(strconv.FormatInt(quizID, 10), func() (interface{}, error) {
		// Re-check in case another goroutine filled the cache.
		if quiz, ok := c.cachedSnapshot(ctx, quizID); ok {
			return quiz, nil
		}

		quiz, err := c.loadSnapshot(ctx, quizID)
		if err != nil {
			return domain.Quiz{}, err
		}

		data, err := json.Marshal(quiz)
		if err != nil {
			return domain.Quiz{}, fmt.Errorf("marshal quiz snapshot: %w", err)
		}

		ttl := c.ttlWithJitter()
		pipe := c.client.Pipeline()
		pipe.Set(ctx, c.snapshotKey(quizID), data, ttl)
		for _, q := range quiz.Questions {
			pipe.Set(ctx, c.questionKey(q.ID), quizID, ttl)
		}
		_, _ = pipe.Exec(ctx)

		return quiz, nil
	})
	if err != nil {
		return domain.Quiz{}, err
	}
	return result.(domain.Quiz), nil
}

func (c *QuizCache) cachedSnapshot(ctx context.Context, quizID int64) (domain.Quiz, bool) {
	raw, err := c.client.Get(ctx, c.snapshotKey(quizID)).Bytes()
	if err != nil {
		return domain.Quiz{}, false
	}
	var quiz domain.Quiz
	if err := json.Unmarshal(raw, &quiz); err != nil {
		return domain.Quiz{}, false
	}
	return quiz, true
}

func (c *QuizCache) findQuestion(ctx context.Context, questionID int64) (domain.Question, bool) {
	quizID, err := c.client.Get(ctx, c.questionKey(questionID)).Int64()
	if err != nil {
		return domain.Question{}, false
	}
	quiz, ok := c.cachedSnapshot(ctx, quizID)
	if !ok {
		return domain.Question{}, false
	}
	for _, q := range quiz.Questions {
		if q.ID == questionID {
			return q, true
		}
	}
	return domain.Question{}, false
}

func (c *QuizCache) loadSnapshot(ctx context.Context, quizID int64) (domain.Quiz, error) {
	quiz, err := c.inner.GetQuiz(ctx, quizID)
	if err != nil {
		if errors.Is(err, domain.ErrQuizNotFound) {
			return domain.Quiz{}, err
		}
		return domain.Quiz{}, fmt.Errorf("load quiz %d: %w", quizID, err)
	}
	questions, err := c.inner.ListQuestions(ctx, quiz.ID)
	if err != nil {
		return domain.Quiz{}, fmt.Errorf("load questions for quiz %d: %w", quizID, err)
	}
	for i := range questions {
		answers, err := c.inner.ListAnswers(ctx, questions[i].ID)
		if err != nil {
			return domain.Quiz{}, fmt.Errorf("load answers for question %d: %w", questions[i].ID, err)
		}
		questions[i].Answers = answers
	}
	quiz.Questions = questions
	return quiz, nil
}

func (c *QuizCache) snapshotKey(quizID int64) string {
	return "quiz:" + strconv.FormatInt(quizID, 10) + ":snapshot"
}

func (c *QuizCache) questionKey(questionID int64) string {
	return "quiz:question:" + strconv.FormatInt(questionID, 10)
}

func (c *QuizCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
