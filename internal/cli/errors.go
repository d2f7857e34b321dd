package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jacksmith/storefront/internal/ops"
	"github.com/jacksmith/storefront/internal/storage"
)

// UsageError indicates bad command-line input.
type UsageError struct {
	Message string
	Hint    string // suggestion for how to proceed
}

func (e *UsageError) Error() string {
	if e.Hint != "" {
		return e.Message + "\n" + e.Hint
	}
	return e.Message
}

// hint returns a follow-up line for errors the user can act on.
func hint(err error) string {
	var nf *ops.NotFoundError
	var amb *ops.AmbiguousIDError
	switch {
	case errors.As(err, &nf):
		return fmt.Sprintf("Run 'storefront %s list' to see ids.", nf.Kind)
	case errors.As(err, &amb):
		return "Use more characters of the id."
	case errors.Is(err, storage.ErrConflict):
		return "Another change was saved first. Run the command again."
	case errors.Is(err, storage.ErrCorrupt):
		return "The next change to the collection replaces it and keeps the old value as a .corrupt backup."
	}
	return ""
}

// FormatError returns a user-friendly error message.
// It prefixes the error with "error: " for consistent CLI output and adds a
// hint line when one applies. Login form errors get one line per field.
func FormatError(err error) string {
	if err == nil {
		return ""
	}

	var le *ops.LoginError
	if errors.As(err, &le) {
		var b strings.Builder
		b.WriteString("error: invalid login")
		if le.Email != "" {
			b.WriteString("\n  email: " + le.Email)
		}
		if le.Password != "" {
			b.WriteString("\n  password: " + le.Password)
		}
		return b.String()
	}

	msg := "error: " + err.Error()
	if h := hint(err); h != "" {
		msg += "\n" + h
	}
	return msg
}
