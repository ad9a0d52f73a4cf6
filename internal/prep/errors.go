package prep

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is returned when a method name or numeric option is not
// one the stages understand. It is always wrapped with the offending value.
var ErrInvalidConfig = errors.New("invalid configuration")

// MissingColumnError reports a required column absent from the table.
type MissingColumnError struct {
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("column %q not found", e.Column)
}
