package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"quizdesk/internal/app"
	"quizdesk/internal/domain"
)

// QuizCache caches full quiz snapshots (quiz + questions + answers) in front
// of a slower store, with TTL to avoid repeated reads. All read methods for a
// cached quiz are served from one snapshot, so a submission never observes a
// half-applied catalog edit.
type QuizCache struct {
	inner app.QuizStore
	ttl   time.Duration
	clock func() time.Time
	sf    singleflight.Group
	rnd   *rand.Rand

	mu    sync.RWMutex
	cache map[int64]cachedQuiz
}

type cachedQuiz struct {
	quiz      domain.Quiz
	expiresAt time.Time
}

func NewQuizCache(inner app.QuizStore, ttl time.Duration) *QuizCache {
	return &QuizCache{
		inner: inner,
		ttl:   ttl,
		clock: time.Now,
		rnd:   rand.New(rand.NewSource(time.Now().UnixNano())),
		cache: make(map[int64]cachedQuiz),
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
	if q, ok := c.findQuestion(questionID); ok {
		return q.Answers, nil
	}
	return c.inner.ListAnswers(ctx, questionID)
}

func (c *QuizCache) ListCorrectAnswerIDs(ctx context.Context, questionID int64) ([]int64, error) {
	if q, ok := c.findQuestion(questionID); ok {
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
func (c *QuizCache) Invalidate(quizID int64) {
	c.mu.Lock()
	delete(c.cache, quizID)
	c.mu.Unlock()
}

func (c *QuizCache) snapshot(ctx context.Context, quizID int64) (domain.Quiz, error) {
	now := c.clock()

	c.mu.RLock()
	if entry, ok := c.cache[quizID]; ok && entry.expiresAt.After(now) {
		c.mu.RUnlock()
		return entry.quiz, nil
	}
	c.mu.RUnlock()

	result, err, _ := c.sf.Do(quizIDKey(quizID), func() (interface{}, error) {
		now := c.clock()
		c.mu.RLock()
		if entry, ok := c.cache[quizID]; ok && entry.expiresAt.After(now) {
			c.mu.RUnlock()
			return entry.quiz, nil
		}
		c.mu.RUnlock()

		quiz, err := loadSnapshot(ctx, c.inner, quizID)
		if err != nil {
			return domain.Quiz{}, err
		}

		c.mu.Lock()
		c.cache[quizID] = cachedQuiz{
			quiz:      quiz,
			expiresAt: now.Add(c.ttlWithJitter()),
		}
		c.mu.Unlock()
		return quiz, nil
	})
	if err != nil {
		return domain.Quiz{}, err
	}
	return result.(domain.Quiz), nil
}

func (c *QuizCache) findQuestion(questionID int64) (domain.Question, bool) {
	now := c.clock()
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, entry := range c.cache {
		if !entry.expiresAt.After(now) {
			continue
		}
		for _, q := range entry.quiz.Questions {
			if q.ID == questionID {
				return q, true
			}
		}
	}
	return domain.Question{}, false
}

func (c *QuizCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	// up to 10% jitter to spread expirations
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
