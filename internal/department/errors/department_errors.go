package departmenterrors

import (
	"net/http"

	"go-empms/internal/shared/apperror"
)

var (
	ErrDepartmentNotFound = apperror.New(apperror.CodeNotFound, "Department not found", http.StatusNotFound)

	ErrDepartmentNameTaken = apperror.New(apperror.CodeConflict, "A department with this name already exists", http.StatusConflict)

	ErrInvalidDepartmentID = apperror.New(apperror.CodeInvalidInput, "Invalid department id", http.StatusBadRequest)
)
