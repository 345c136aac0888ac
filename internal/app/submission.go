package app

import (
	"context"
	"fmt"
	"time"

	"quizdesk/internal/domain"
)

// SubmissionService runs the submission pipeline:
// validate -> grade -> record -> report.
//
// Validation failures are terminal and persist nothing. Grading is a pure
// function of the validated submission and the stored correct-answer sets;
// the only write is the UserStat row at the end.
type SubmissionService struct {
	store QuizStore
	stats StatStore
	feed  *StatsFeed
	clock func() time.Time
}

func NewSubmissionService(store QuizStore, stats StatStore, feed *StatsFeed) *SubmissionService {
	return &SubmissionService{
		store: store,
		stats: stats,
		feed:  feed,
		clock: time.Now,
	}
}

// NewSubmissionServiceWithClock is test-only for deterministic timestamps.
func NewSubmissionServiceWithClock(store QuizStore, stats StatStore, feed *StatsFeed, now func() time.Time) *SubmissionService {
	s := NewSubmissionService(store, stats, feed)
	s.clock = now
	return s
}

// Submit validates and grades a submission for user against quiz quizID, then
// records the outcome as a new UserStat. elapsed is the caller-reported time
// taken; it is recorded as-is (negative values are clamped to zero) and never
// validated against any limit.
func (s *SubmissionService) Submit(ctx context.Context, quizID int64, user domain.User, sub domain.Submission, elapsed time.Duration) (domain.GradeResult, error) {
	quiz, err := s.store.GetQuiz(ctx, quizID)
	if err != nil {
		return domain.GradeResult{}, err
	}

	questions, err := s.store.ListQuestions(ctx, quiz.ID)
	if err != nil {
		return domain.GradeResult{}, fmt.Errorf("list questions: %w", err)
	}

	multiple := make(map[int64]bool, len(questions))
	for _, q := range questions {
		answers, err := s.store.ListAnswers(ctx, q.ID)
		if err != nil {
			return domain.GradeResult{}, fmt.Errorf("list answers: %w", err)
		}
		multiple[q.ID] = anyMultiple(answers)
	}

	if verr := validateSubmission(sub, questions, multiple); verr != nil {
		return domain.GradeResult{}, verr
	}

	result, err := s.grade(ctx, questions, sub)
	if err != nil {
		return domain.GradeResult{}, err
	}

	if elapsed < 0 {
		elapsed = 0
	}
	now := s.clock()
	stat, err := s.stats.CreateUserStat(ctx, domain.UserStat{
		UserID:    user.ID,
		QuizID:    quiz.ID,
		Score:     result.Score,
		TimeTaken: elapsed,
		DateTaken: now,
	})
	if err != nil {
		return domain.GradeResult{}, fmt.Errorf("record stat: %w", err)
	}

	if s.feed != nil {
		s.feed.Publish(domain.StatEvent{
			QuizID:         quiz.ID,
			UserID:         user.ID,
			Username:       user.Username,
			Score:          result.Score,
			CorrectAnswers: result.CorrectAnswers,
			TotalQuestions: result.TotalQuestions,
			DateTaken:      stat.DateTaken,
		})
	}
	return result, nil
}

// grade scores each submitted pair against the stored correct-answer set for
// its question. Each question's correct set is read exactly once, so a
// concurrent catalog edit cannot split a single question's grading across two
// snapshots.
func (s *SubmissionService) grade(ctx context.Context, questions []domain.Question, sub domain.Submission) (domain.GradeResult, error) {
	known := make(map[int64]struct{}, len(questions))
	for _, q := range questions {
		known[q.ID] = struct{}{}
	}

	result := domain.GradeResult{TotalQuestions: len(questions)}
	for _, pair := range sub.Answers {
		if _, ok := known[pair.Question]; !ok {
			return domain.GradeResult{}, domain.ErrQuestionNotFound
		}
		correctIDs, err := s.store.ListCorrectAnswerIDs(ctx, pair.Question)
		if err != nil {
			return domain.GradeResult{}, fmt.Errorf("correct answers for question %d: %w", pair.Question, err)
		}
		if matchesCorrectSet(pair.Answer, correctIDs) {
			result.Score++
			result.CorrectAnswers++
		}
	}
	return result, nil
}

// UserStats returns every recorded attempt for the given user.
func (s *SubmissionService) UserStats(ctx context.Context, userID int64) ([]domain.UserStat, error) {
	return s.stats.ListUserStats(ctx, userID)
}

// matchesCorrectSet reports whether the submitted ids exactly equal the
// correct set: same members, no extras, no omissions. Partially overlapping
// multi-answer submissions earn nothing.
func matchesCorrectSet(payload domain.AnswerPayload, correctIDs []int64) bool {
	correct := make(map[int64]struct{}, len(correctIDs))
	for _, id := range correctIDs {
		correct[id] = struct{}{}
	}

	submitted := payload.IDSet()
	if len(submitted) != len(correct) {
		return false
	}
	for id := range submitted {
		if _, ok := correct[id]; !ok {
			return false
		}
	}
	return true
}

func anyMultiple(answers []domain.Answer) bool {
	for _, a := range answers {
		if a.Type == domain.AnswerTypeMultiple {
			return true
		}
	}
	return false
}
