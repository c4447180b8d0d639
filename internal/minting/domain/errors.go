package domain

import (
	"errors"
	"strings"
)

var (
	ErrRecordNotFound   = errors.New("mint record not found")
	ErrAlreadySubmitted = errors.New("mint record already submitted")
	ErrNotImage         = errors.New("file must be an image")
	ErrImageTooLarge    = errors.New("file size must be less than 10MB")
)

// InvalidRequestError lists the fields of a mint request that failed checks.
type InvalidRequestError struct {
	Fields map[string]string
}

func (e *InvalidRequestError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for k, v := range e.Fields {
		parts = append(parts, k+": "+v)
	}
	return "invalid mint request: " + strings.Join(parts, "; ")
}
