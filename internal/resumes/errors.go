package resumes

import "errors"

var (
	ErrNotFound      = errors.New("resume not found")
	ErrInvalidInput  = errors.New("invalid input")
	ErrAlreadyExists = errors.New("resume already exists")
)
