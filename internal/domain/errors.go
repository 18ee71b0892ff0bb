package domain

import "errors"

var (
	ErrEmptyMessage        = errors.New("message is empty")
	ErrDuplicateMessage    = errors.New("message was already processed")
	ErrEmptyDescription    = errors.New("task description is empty")
	ErrUnknownCategory     = errors.New("unknown task category")
	ErrInvalidDeadline     = errors.New("invalid deadline")
	ErrDeadlinePast        = errors.New("deadline is before today")
	ErrTaskNotFound        = errors.New("task not found")
	ErrEmptyNote           = errors.New("note is empty")
	ErrInvalidDuration     = errors.New("timer duration must be positive")
	ErrNoSessionInProgress = errors.New("no session in progress")
	ErrMissingCredential   = errors.New("api key is missing")
	ErrSecretNotFound      = errors.New("secret not found")
	ErrSecretReadOnly      = errors.New("secret store is read-only")
	ErrEmptyTip            = errors.New("tip is empty")
	ErrDuplicateTip        = errors.New("tip already in catalog")
)
