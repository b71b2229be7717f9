package service

import "errors"

var (
	// ErrForbidden is returned when the caller lacks the role an operation needs
	ErrForbidden = errors.New("access denied")

	// ErrBoardLimit is returned when a user already owns the maximum number of boards
	ErrBoardLimit = errors.New("maximum number of boards reached")

	// ErrValidation wraps malformed input
	ErrValidation = errors.New("invalid input")

	// ErrUserNotFound is returned when a share targets an unknown email
	ErrUserNotFound = errors.New("user not found")

	// ErrUnsupported is returned for operations the board kind does not offer
	ErrUnsupported = errors.New("operation not supported by this board")
)
