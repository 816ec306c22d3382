package usererrors

import (
	"net/http"

	"go-empms/internal/shared/apperror"
)

var (
	ErrUserNotFound = apperror.New(apperror.CodeNotFound, "Employee not found", http.StatusNotFound)

	ErrEmailAlreadyRegistered = apperror.New(apperror.CodeConflict, "Email is already registered", http.StatusConflict)

	ErrEmpIDAlreadyExists = apperror.New(apperror.CodeConflict, "Employee ID is already in use", http.StatusConflict)

	ErrInvalidUserID = apperror.New(apperror.CodeInvalidInput, "Invalid user id", http.StatusBadRequest)

	ErrInvalidRole = apperror.New(apperror.CodeInvalidInput, "Unknown role", http.StatusBadRequest)

	ErrInvalidHireDate = apperror.New(apperror.CodeInvalidInput, "Invalid hire_date format, expected YYYY-MM-DD", http.StatusBadRequest)

	ErrDepartmentNotFound = apperror.New(apperror.CodeInvalidInput, "Department does not exist", http.StatusBadRequest)

	ErrNoContactFields = apperror.New(apperror.CodeInvalidInput, "At least one of phone or address is required", http.StatusBadRequest)

	ErrProfileMissing = apperror.New(apperror.CodeNotFound, "No employee profile for this account", http.StatusNotFound)
)
