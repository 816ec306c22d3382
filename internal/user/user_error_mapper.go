package user

import (
	"errors"
	"strings"

	usererrors "go-empms/internal/user/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return usererrors.ErrUserNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			switch pgErr.ConstraintName {
			case "uq_user_email":
				return usererrors.ErrEmailAlreadyRegistered
			case "uq_profile_emp_id":
				return usererrors.ErrEmpIDAlreadyExists
			}
		case "23503":
			// Foreign key, the only one reachable from here is the
			// profile -> department reference.
			return usererrors.ErrDepartmentNotFound
		}
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, "uq_user_email") {
		return usererrors.ErrEmailAlreadyRegistered
	}
	if strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, "uq_profile_emp_id") {
		return usererrors.ErrEmpIDAlreadyExists
	}

	return err
}
