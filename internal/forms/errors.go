package forms

import (
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("form not found")

// NotFoundError reports a slug with no (active) form.
type NotFoundError struct {
	Slug string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("form %q not found", e.Slug)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}
