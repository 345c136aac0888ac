package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"quizdesk/internal/domain"
)

// Store is an in-memory record store implementing every app store interface.
// Useful for tests and for running the server without Postgres.
type Store struct {
	mu        sync.RWMutex
	nextID    int64
	quizzes   map[int64]domain.Quiz
	questions map[int64]domain.Question
	answers   map[int64]domain.Answer
	stats     map[int64]domain.UserStat
	users     map[int64]domain.User
	clock     func() time.Time
}

func NewStore() *Store {
	return &Store{
		quizzes:   make(map[int64]domain.Quiz),
		questions: make(map[int64]domain.Question),
		answers:   make(map[int64]domain.Answer),
		stats:     make(map[int64]domain.UserStat),
		users:     make(map[int64]domain.User),
		clock:     time.Now,
	}
}

// NewStoreWithClock is test-only for deterministic timestamps.
func NewStoreWithClock(now func() time.Time) *Store {
	s := NewStore()
	s.clock = now
	return s
}

func (s *Store) allocID() int64 {
	s.nextID++
	return s.nextID
}

func (s *Store) GetQuiz(_ context.Context, id int64) (domain.Quiz, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	quiz, ok := s.quizzes[id]
	if !ok {
		return domain.Quiz{}, domain.ErrQuizNotFound
	}
	quiz.Questions = nil
	return quiz, nil
}

func (s *Store) ListQuizzes(_ context.Context) ([]domain.Quiz, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Quiz, 0, len(s.quizzes))
	for _, quiz := range s.quizzes {
		quiz.Questions = nil
		out = append(out, quiz)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) ListQuestions(_ context.Context, quizID int64) ([]domain.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Question, 0)
	for _, q := range s.questions {
		if q.QuizID == quizID {
			q.Answers = nil
			out = append(out, q)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) ListAnswers(_ context.Context, questionID int64) ([]domain.Answer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Answer, 0)
	for _, a := range s.answers {
		if a.QuestionID == questionID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) ListCorrectAnswerIDs(_ context.Context, questionID int64) ([]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]int64, 0)
	for _, a := range s.answers {
		if a.QuestionID == questionID && a.IsCorrect {
			out = append(out, a.ID)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

func (s *Store) CreateQuiz(_ context.Context, quiz domain.Quiz) (domain.Quiz, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	quiz.ID = s.allocID()
	quiz.CreatedOn = s.clock()
	quiz.Questions = nil
	s.quizzes[quiz.ID] = quiz
	return quiz, nil
}

func (s *Store) CreateQuestion(_ context.Context, question domain.Question) (domain.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.quizzes[question.QuizID]; !ok {
		return domain.Question{}, domain.ErrQuizNotFound
	}
	question.ID = s.allocID()
	question.CreatedOn = s.clock()
	question.Answers = nil
	s.questions[question.ID] = question
	return question, nil
}

func (s *Store) CreateAnswer(_ context.Context, answer domain.Answer) (domain.Answer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.questions[answer.QuestionID]; !ok {
		return domain.Answer{}, domain.ErrQuestionNotFound
	}
	if answer.Type == "" {
		answer.Type = domain.AnswerTypeSingle
	}
	answer.ID = s.allocID()
	answer.CreatedOn = s.clock()
	s.answers[answer.ID] = answer
	return answer, nil
}

func (s *Store) CountCorrectAnswers(_ context.Context, questionID int64) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.questions[questionID]; !ok {
		return 0, domain.ErrQuestionNotFound
	}
	count := 0
	for _, a := range s.answers {
		if a.QuestionID == questionID && a.IsCorrect {
			count++
		}
	}
	return count, nil
}

// DeleteQuiz removes a quiz and cascades to its questions, answers and stats.
func (s *Store) DeleteQuiz(_ context.Context, quizID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.quizzes[quizID]; !ok {
		return domain.ErrQuizNotFound
	}
	delete(s.quizzes, quizID)
	for id, st := range s.stats {
		if st.QuizID == quizID {
			delete(s.stats, id)
		}
	}
	for id, q := range s.questions {
		if q.QuizID != quizID {
			continue
		}
		delete(s.questions, id)
		for aid, a := range s.answers {
			if a.QuestionID == id {
				delete(s.answers, aid)
			}
		}
	}
	return nil
}

func (s *Store) CreateUserStat(_ context.Context, stat domain.UserStat) (domain.UserStat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stat.ID = s.allocID()
	s.stats[stat.ID] = stat
	return stat, nil
}

func (s *Store) ListUserStats(_ context.Context, userID int64) ([]domain.UserStat, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.UserStat, 0)
	for _, st := range s.stats {
		if st.UserID == userID {
			out = append(out, st)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) GetUserByName(_ context.Context, username string) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Username == username {
			return u, nil
		}
	}
	return domain.User{}, domain.ErrUserNotFound
}

func (s *Store) CreateUser(_ context.Context, user domain.User) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user.ID = s.allocID()
	user.CreatedOn = s.clock()
	s.users[user.ID] = user
	return user, nil
}
