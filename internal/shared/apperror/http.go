package apperror

import (
	"errors"
	"net/http"
)

// HTTPError is the boundary representation of a failed operation. Only
// Code and Message cross the wire; wrapped causes stay server-side.
type HTTPError struct {
	Status  int
	Code    string
	Message string
	Details any
}

// ToHTTP maps any error to its HTTP shape. Errors that are not
// AppErrors deliberately collapse to a generic 500 so that internal
// error text never reaches the caller.
func ToHTTP(err error) HTTPError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return HTTPError{
			Status:  appErr.HTTPStatus,
			Code:    appErr.Code,
			Message: appErr.Message,
		}
	}
	return HTTPError{
		Status:  http.StatusInternalServerError,
		Code:    CodeInternalError,
		Message: "An unexpected error occurred",
	}
}
