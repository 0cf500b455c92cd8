package options

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidOption is matched by every *InvalidOptionError.
var ErrInvalidOption = errors.New("invalid option")

// InvalidOptionError reports an option value that failed validation.
type InvalidOptionError struct {
	Option  string
	Value   string
	Allowed []string
	Reason  string
}

func (e *InvalidOptionError) Error() string {
	msg := fmt.Sprintf("invalid value %q for --%s", e.Value, e.Option)
	if len(e.Allowed) > 0 {
		msg += fmt.Sprintf(" (options: %s)", strings.Join(e.Allowed, "/"))
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

// Is lets errors.Is match ErrInvalidOption.
func (e *InvalidOptionError) Is(target error) bool {
	return target == ErrInvalidOption
}
