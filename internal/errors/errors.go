package errors

import (
	"errors"
)

var (
	ErrUsernameTaken     = errors.New("username already taken")
	ErrEmailAlreadyInUse = errors.New("email already in use")

	ErrTokenExpired   = errors.New("token expired")
	ErrTokenInvalid   = errors.New("token invalid")
	ErrTokenMalformed = errors.New("token malformed")

	ErrInvalidHash = errors.New("invalid password hash")
)
