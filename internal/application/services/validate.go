package services

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	minUsernameLen = 3
	maxUsernameLen = 64
	minPasswordLen = 3
	maxPasswordLen = 72 // bcrypt limit, in bytes
)

// ValidateCredentials checks a username/password pair before it reaches the
// credential store. It returns nil when both are acceptable.
func ValidateCredentials(username, password string) ValidationError {
	errs := make(ValidationError)

	switch l := utf8.RuneCountInString(username); {
	case username == "":
		errs["username"] = "username is required"
	case !utf8.ValidString(username):
		errs["username"] = "username must be valid UTF-8"
	case l < minUsernameLen || l > maxUsernameLen:
		errs["username"] = "username length must be 3-64 characters"
	case strings.TrimSpace(username) != username:
		errs["username"] = "username must not start or end with a space"
	case !isPrintable(username):
		errs["username"] = "username must contain printable characters only"
	}

	switch l := len(password); {
	case password == "":
		errs["password"] = "password is required"
	case l < minPasswordLen || l > maxPasswordLen:
		errs["password"] = "password length must be 3-72 bytes"
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

func isPrintable(s string) bool {
	for _, r := range s {
		if !unicode.IsPrint(r) {
			return false
		}
	}
	return true
}
