package models

import (
	"fmt"

	"github.com/pkg/errors"
)

// NotFoundError reports a referenced record that does not exist.
type NotFoundError struct {
	Message string
}

func (e NotFoundError) Error() string {
	return e.Message
}

func NewNotFound(format string, args ...interface{}) error {
	return NotFoundError{Message: fmt.Sprintf(format, args...)}
}

func IsNotFound(err error) bool {
	var target NotFoundError
	return errors.As(err, &target)
}
