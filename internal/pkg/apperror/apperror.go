package apperror

import "errors"

// Error kinds. Domain errors unwrap to one of these so callers can branch on the
// category without knowing every sentinel.
var (
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
	ErrPreconditionFailed = errors.New("precondition failed")
	ErrIllegalState       = errors.New("illegal state")
	ErrInvalidInput       = errors.New("invalid input")
)

// Error is a typed domain failure with a stable machine-readable code.
type Error struct {
	Kind    error
	Code    string
	Message string
}

func New(kind error, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

// CodeOf returns the code of the first *Error in err's chain, or "" if there is none.
func CodeOf(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// KindOf returns the kind of err, or nil when err carries no known kind.
func KindOf(err error) error {
	for _, kind := range []error{ErrNotFound, ErrConflict, ErrPreconditionFailed, ErrIllegalState, ErrInvalidInput} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}
