package errors

import "fmt"

// Error kinds of the chat core. Call sites wrap them with fmt.Errorf("%w: ...")
// so callers can match the kind with errors.Is while keeping context.
var (
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrAlreadyExists   = fmt.Errorf("already exists")
	ErrNotFound        = fmt.Errorf("not found")
	ErrNotAMember      = fmt.Errorf("not a room member")

	ErrEmptyWords = fmt.Errorf("no words have been found")
)
