package response

import (
	"errors"
	"net/http"

	"github.com/cmlabs-hris/employee-directory/internal/domain/employee"
	"github.com/cmlabs-hris/employee-directory/internal/domain/listview"
	"github.com/cmlabs-hris/employee-directory/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrCorruptCollection):
		InternalServerError(w, "Stored employee data is unreadable")

	// List view domain errors
	case errors.Is(err, listview.ErrViewNotFound):
		NotFound(w, "List view not found")
	case errors.Is(err, listview.ErrViewClosed):
		Conflict(w, "List view is closed")
	case errors.Is(err, listview.ErrNoPendingDelete):
		Conflict(w, "No delete is awaiting confirmation")
	case errors.Is(err, listview.ErrInvalidViewMode):
		BadRequest(w, err.Error(), map[string]string{"mode": err.Error()})
	case errors.Is(err, listview.ErrInvalidPageParam):
		BadRequest(w, err.Error(), map[string]string{"page": err.Error()})

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
