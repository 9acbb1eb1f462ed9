package services

import "errors"

var (
	ErrPostNotFound      = errors.New("post not found")
	ErrInvalidPostID     = errors.New("invalid post id")
	ErrEmptyPostPayload  = errors.New("empty post payload")
	ErrUserNotFound      = errors.New("user not found")
	ErrIncorrectPassword = errors.New("incorrect password")
	ErrPasswordMismatch  = errors.New("passwords do not match")
	ErrUsernameTaken     = errors.New("username already exists")
	ErrInvalidSeedCount  = errors.New("invalid seed count")
)
