package anvio

import (
	"fmt"

	"github.com/pkg/errors"
)

var ErrMissingLibrary = errors.New("reads service did not return library")

// EmptyOutputError is returned when a program left its output missing or empty.
type EmptyOutputError struct {
	Path string
}

func (e *EmptyOutputError) Error() string {
	return fmt.Sprintf("output file %s is missing or empty", e.Path)
}
