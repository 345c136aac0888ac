package domain

import "errors"

var (
	// ErrQuizNotFound indicates the referenced quiz does not exist.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrQuestionNotFound indicates a referenced question does not exist or
	// does not belong to the quiz being graded.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrUserNotFound indicates no user with the given name exists.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidCredentials indicates the supplied password did not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
