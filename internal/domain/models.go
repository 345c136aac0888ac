package domain

import "time"

// AnswerType classifies how a question's answers are meant to be chosen.
type AnswerType string

const (
	AnswerTypeSingle     AnswerType = "single"
	AnswerTypeMultiple   AnswerType = "multiple"
	AnswerTypeSelectWord AnswerType = "select_word"
)

// Quiz is a named collection of questions.
type Quiz struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedOn   time.Time `json:"created_on"`

	// Questions is populated only by detail projections.
	Questions []Question `json:"questions,omitempty"`
}

// Question is a single prompt within a quiz.
type Question struct {
	ID        int64     `json:"id"`
	QuizID    int64     `json:"quiz"`
	Text      string    `json:"text"`
	CreatedOn time.Time `json:"created_on"`

	Answers []Answer `json:"answers,omitempty"`
}

// Answer is a candidate response to a question, flagged correct or not.
type Answer struct {
	ID         int64      `json:"id"`
	QuestionID int64      `json:"question"`
	Text       string     `json:"answer"`
	IsCorrect  bool       `json:"is_correct"`
	Type       AnswerType `json:"answer_type"`
	CreatedOn  time.Time  `json:"created_on"`
}

// User identifies an authenticated caller. PasswordHash is a bcrypt hash and
// is never serialized.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedOn    time.Time `json:"created_on"`
}

// UserStat records one graded attempt by one user on one quiz. Stats are
// append-only: every graded submission creates a new row.
type UserStat struct {
	ID        int64         `json:"id"`
	UserID    int64         `json:"user"`
	QuizID    int64         `json:"quiz"`
	Score     int           `json:"score"`
	TimeTaken time.Duration `json:"-"`
	DateTaken time.Time     `json:"date_taken"`
}

// SubmittedAnswer pairs a question with the caller's answer choice.
type SubmittedAnswer struct {
	Question int64         `json:"question"`
	Answer   AnswerPayload `json:"answer"`
}

// Submission is the full answer set for one quiz attempt. It is transient;
// only the graded outcome is persisted.
type Submission struct {
	Answers []SubmittedAnswer `json:"answers"`
}

// GradeResult summarizes one graded submission.
type GradeResult struct {
	Score          int `json:"score"`
	CorrectAnswers int `json:"correct_answers"`
	TotalQuestions int `json:"total_questions"`
}

// StatEvent is broadcast to live-results subscribers after a submission has
// been graded and recorded.
type StatEvent struct {
	QuizID         int64     `json:"quiz"`
	UserID         int64     `json:"user"`
	Username       string    `json:"username"`
	Score          int       `json:"score"`
	CorrectAnswers int       `json:"correct_answers"`
	TotalQuestions int       `json:"total_questions"`
	DateTaken      time.Time `json:"date_taken"`
}
