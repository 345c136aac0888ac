package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"quizdesk/internal/domain"
)

// Store is the Postgres-backed record store. Schema is owned by the bun
// migrations in the migrations subpackage.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) GetQuiz(ctx context.Context, id int64) (domain.Quiz, error) {
	var quiz domain.Quiz
	err := s.pool.QueryRow(ctx,
		`SELECT id, title, description, created_on FROM quizzes WHERE id=$1`, id,
	).Scan(&quiz.ID, &quiz.Title, &quiz.Description, &quiz.CreatedOn)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Quiz{}, domain.ErrQuizNotFound
		}
		return domain.Quiz{}, fmt.Errorf("get quiz: %w", err)
	}
	return quiz, nil
}

func (s *Store) ListQuizzes(ctx context.Context) ([]domain.Quiz, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, title, description, created_on FROM quizzes ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list quizzes: %w", err)
	}
	defer rows.Close()

	quizzes := make([]domain.Quiz, 0)
	for rows.Next() {
		var quiz domain.Quiz
		if err := rows.Scan(&quiz.ID, &quiz.Title, &quiz.Description, &quiz.CreatedOn); err != nil {
			return nil, fmt.Errorf("scan quiz: %w", err)
		}
		quizzes = append(quizzes, quiz)
	}
	return quizzes, rows.Err()
}

func (s *Store) ListQuestions(ctx context.Context, quizID int64) ([]domain.Question, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, quiz_id, text, created_on FROM questions WHERE quiz_id=$1 ORDER BY id`, quizID)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	defer rows.Close()

	questions := make([]domain.Question, 0)
	for rows.Next() {
		var q domain.Question
		if err := rows.Scan(&q.ID, &q.QuizID, &q.Text, &q.CreatedOn); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

func (s *Store) ListAnswers(ctx context.Context, questionID int64) ([]domain.Answer, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, question_id, text, is_correct, answer_type, created_on
		 FROM answers WHERE question_id=$1 ORDER BY id`, questionID)
	if err != nil {
		return nil, fmt.Errorf("list answers: %w", err)
	}
	defer rows.Close()

	answers := make([]domain.Answer, 0)
	for rows.Next() {
		var a domain.Answer
		if err := rows.Scan(&a.ID, &a.QuestionID, &a.Text, &a.IsCorrect, &a.Type, &a.CreatedOn); err != nil {
			return nil, fmt.Errorf("scan answer: %w", err)
		}
		answers = append(answers, a)
	}
	return answers, rows.Err()
}

func (s *Store) ListCorrectAnswerIDs(ctx context.Context, questionID int64) ([]int64, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id FROM answers WHERE question_id=$1 AND is_correct ORDER BY id`, questionID)
	if err != nil {
		return nil, fmt.Errorf("list correct answers: %w", err)
	}
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan answer id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *Store) CreateQuiz(ctx context.Context, quiz domain.Quiz) (domain.Quiz, error) {
	err := s.pool.QueryRow(ctx,
		`INSERT INTO quizzes (title, description) VALUES ($1, $2) RETURNING id, created_on`,
		quiz.Title, quiz.Description,
	).Scan(&quiz.ID, &quiz.CreatedOn)
	if err != nil {
		return domain.Quiz{}, fmt.Errorf("create quiz: %w", err)
	}
	return quiz, nil
}

func (s *Store) CreateQuestion(ctx context.Context, question domain.Question) (domain.Question, error) {
	if _, err := s.GetQuiz(ctx, question.QuizID); err != nil {
		return domain.Question{}, err
	}
	err := s.pool.QueryRow(ctx,
		`INSERT INTO questions (quiz_id, text) VALUES ($1, $2) RETURNING id, created_on`,
		question.QuizID, question.Text,
	).Scan(&question.ID, &question.CreatedOn)
	if err != nil {
		return domain.Question{}, fmt.Errorf("create question: %w", err)
	}
	return question, nil
}

func (s *Store) CreateAnswer(ctx context.Context, answer domain.Answer) (domain.Answer, error) {
	if answer.Type == "" {
		answer.Type = domain.AnswerTypeSingle
	}
	if err := s.questionExists(ctx, answer.QuestionID); err != nil {
		return domain.Answer{}, err
	}
	err := s.pool.QueryRow(ctx,
		`INSERT INTO answers (question_id, text, is_correct, answer_type)
		 VALUES ($1, $2, $3, $4) RETURNING id, created_on`,
		answer.QuestionID, answer.Text, answer.IsCorrect, answer.Type,
	).Scan(&answer.ID, &answer.CreatedOn)
	if err != nil {
		return domain.Answer{}, fmt.Errorf("create answer: %w", err)
	}
	return answer, nil
}

func (s *Store) CountCorrectAnswers(ctx context.Context, questionID int64) (int, error) {
	if err := s.questionExists(ctx, questionID); err != nil {
		return 0, err
	}
	var count int
	err := s.pool.QueryRow(ctx,
		`SELECT count(*) FROM answers WHERE question_id=$1 AND is_correct`, questionID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count correct answers: %w", err)
	}
	return count, nil
}

// DeleteQuiz removes a quiz; questions and answers cascade via foreign keys.
func (s *Store) DeleteQuiz(ctx context.Context, quizID int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM quizzes WHERE id=$1`, quizID)
	if err != nil {
		return fmt.Errorf("delete quiz: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrQuizNotFound
	}
	return nil
}

func (s *Store) CreateUserStat(ctx context.Context, stat domain.UserStat) (domain.UserStat, error) {
	err := s.pool.QueryRow(ctx,
		`INSERT INTO user_stats (user_id, quiz_id, score, time_taken_seconds, date_taken)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		stat.UserID, stat.QuizID, stat.Score, int64(stat.TimeTaken/time.Second), stat.DateTaken,
	).Scan(&stat.ID)
	if err != nil {
		return domain.UserStat{}, fmt.Errorf("create user stat: %w", err)
	}
	return stat, nil
}

func (s *Store) ListUserStats(ctx context.Context, userID int64) ([]domain.UserStat, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, user_id, quiz_id, score, time_taken_seconds, date_taken
		 FROM user_stats WHERE user_id=$1 ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list user stats: %w", err)
	}
	defer rows.Close()

	stats := make([]domain.UserStat, 0)
	for rows.Next() {
		var st domain.UserStat
		var seconds int64
		if err := rows.Scan(&st.ID, &st.UserID, &st.QuizID, &st.Score, &seconds, &st.DateTaken); err != nil {
			return nil, fmt.Errorf("scan user stat: %w", err)
		}
		st.TimeTaken = time.Duration(seconds) * time.Second
		stats = append(stats, st)
	}
	return stats, rows.Err()
}

func (s *Store) GetUserByName(ctx context.Context, username string) (domain.User, error) {
	var user domain.User
	err := s.pool.QueryRow(ctx,
		`SELECT id, username, password_hash, created_on FROM users WHERE username=$1`, username,
	).Scan(&user.ID, &user.Username, &user.PasswordHash, &user.CreatedOn)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, domain.ErrUserNotFound
		}
		return domain.User{}, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

func (s *Store) CreateUser(ctx context.Context, user domain.User) (domain.User, error) {
	err := s.pool.QueryRow(ctx,
		`INSERT INTO users (username, password_hash) VALUES ($1, $2) RETURNING id, created_on`,
		user.Username, user.PasswordHash,
	).Scan(&user.ID, &user.CreatedOn)
	if err != nil {
		return domain.User{}, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

func (s *Store) questionExists(ctx context.Context, questionID int64) error {
	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM questions WHERE id=$1)`, questionID,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check question: %w", err)
	}
	if !exists {
		return domain.ErrQuestionNotFound
	}
	return nil
}
