package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/apperror"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/validator"
)

// kindStatus maps an apperror kind to its HTTP status.
var kindStatus = map[error]int{
	apperror.ErrNotFound:           http.StatusNotFound,
	apperror.ErrConflict:           http.StatusConflict,
	apperror.ErrPreconditionFailed: http.StatusPreconditionFailed,
	apperror.ErrInvalidInput:       http.StatusBadRequest,
	apperror.ErrIllegalState:       http.StatusInternalServerError,
}

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	kind := apperror.KindOf(err)
	status, ok := kindStatus[kind]
	if !ok {
		slog.Error("Unhandled error", "error", err)
		Fail(w, http.StatusInternalServerError, "", "An unexpected error occurred", nil)
		return
	}

	code := apperror.CodeOf(err)
	if kind == apperror.ErrIllegalState {
		slog.Error("Illegal state", "code", code, "error", err)
	}
	Fail(w, status, code, err.Error(), nil)
}
