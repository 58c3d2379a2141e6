package auth

import "errors"

var (
	ErrInvalidToken    = errors.New("invalid or expired token")
	ErrUnknownEmployee = errors.New("no profile with that employee id")
)
