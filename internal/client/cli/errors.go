package cli

import (
	"errors"

	"github.com/slidesmith/slidesmith/internal/client/services"
	"github.com/slidesmith/slidesmith/internal/common"
)

// messageError carries the text to show while keeping the cause for
// errors.Is.
type messageError struct {
	msg string
	err error
}

func (e *messageError) Error() string { return e.msg }
func (e *messageError) Unwrap() error { return e.err }

// ErrorText turns a command error into the line shown to the user.
func ErrorText(err error) string {
	var verr *services.ValidationError
	switch {
	case errors.Is(err, common.ErrNoSession):
		return "Not logged in. Run 'login' first."
	case errors.Is(err, common.ErrSessionExpired):
		return "Your session has expired. Please log in again."
	case errors.As(err, &verr):
		return verr.Message
	}
	return err.Error()
}

func errorText(err error) string { return ErrorText(err) }
