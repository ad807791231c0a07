package validator

import (
	"errors"
	"strconv"
	"strings"

	"drive-me-local/internal/application/services"
	"drive-me-local/internal/interface/api/rest/dto/auth"
)

var ErrInvalidID = errors.New("invalid id")

func ParseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidID
	}

	return id, nil
}

func ValidateRegister(r auth.Request) map[string]string {
	return services.ValidateCredentials(r.Username, r.Password)
}

// ValidateLogin only checks presence; a wrong length is just a wrong password.
func ValidateLogin(r auth.Request) map[string]string {
	errs := make(map[string]string)

	if strings.TrimSpace(r.Username) == "" {
		errs["username"] = "username is required"
	}
	if r.Password == "" {
		errs["password"] = "password is required"
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}
