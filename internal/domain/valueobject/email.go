package valueobject

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	ErrInvalidEmail = errors.New("invalid email format")
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Email is a normalized (trimmed, lower-cased) address
type Email struct {
	value string
}

// NewEmail validates and normalizes an email address
func NewEmail(email string) (Email, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	if normalized == "" || !emailRegex.MatchString(normalized) {
		return Email{}, fmt.Errorf("%w: %s", ErrInvalidEmail, email)
	}
	return Email{value: normalized}, nil
}

func (e Email) String() string {
	return e.value
}
