package domain

import "errors"

// Domain errors - these are business logic errors that should be translated
// to appropriate HTTP status codes by the handler layer

var (
	// User errors
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("user with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired token")

	// Competition errors
	ErrCompetitionNotFound     = errors.New("competition not found")
	ErrCompetitionNotAvailable = errors.New("competition is not open for attempts")
	ErrCompetitionLocked       = errors.New("competition has attempts and cannot be modified")
	ErrInvalidStatusTransition = errors.New("invalid competition status transition")

	// Question errors
	ErrQuestionNotFound    = errors.New("question not found")
	ErrInvalidQuestionType = errors.New("invalid question type")
	ErrInvalidOptions      = errors.New("multiple choice questions need at least two options with exactly one correct")

	// Attempt errors
	ErrAttemptNotFound         = errors.New("attempt not found")
	ErrAttemptAlreadyFinalized = errors.New("attempt has already been finalized")

	// Notification errors
	ErrNotificationNotFound = errors.New("notification not found")

	// General errors
	ErrInternalServer = errors.New("internal server error")
	ErrBadRequest     = errors.New("bad request")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
)

// DomainError wraps an error with additional context
type DomainError struct {
	Err     error
	Message string
	Code    string
}

func (e *DomainError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Err.Error()
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError creates a new DomainError with the given error and message
func NewDomainError(err error, message string) *DomainError {
	return &DomainError{
		Err:     err,
		Message: message,
	}
}

// WrapError wraps an error with additional context
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return &DomainError{
		Err:     err,
		Message: message,
	}
}
