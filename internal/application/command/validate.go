package command

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	domainErrors "github.com/bivex/habitpass/internal/domain/errors"
	"github.com/bivex/habitpass/internal/domain/valueobject"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// validateRequest runs struct tag validation and reports the first failing field
func validateRequest(req interface{}) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return &domainErrors.ValidationError{
			Field:   strings.ToLower(fe.Field()),
			Message: fmt.Sprintf("failed on '%s'", fe.Tag()),
			Err:     domainErrors.ErrInvalidInput,
		}
	}
	return fmt.Errorf("%w: %v", domainErrors.ErrInvalidInput, err)
}

func parseUserID(userID string) (uuid.UUID, error) {
	return parseID("user", userID)
}

func parseID(kind, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: invalid %s ID", domainErrors.ErrInvalidInput, kind)
	}
	return id, nil
}

// parseOptionalDay parses a YYYY-MM-DD day; empty yields the zero day
func parseOptionalDay(raw string) (valueobject.Day, error) {
	if raw == "" {
		return valueobject.Day{}, nil
	}
	day, err := valueobject.ParseDay(raw)
	if err != nil {
		return valueobject.Day{}, fmt.Errorf("%w: %v", domainErrors.ErrInvalidDate, err)
	}
	return day, nil
}

// refusal reports whether err is one of the expected business refusals
// and returns its message as a user-facing reason
func refusal(err error, expected ...error) (string, bool) {
	for _, e := range expected {
		if errors.Is(err, e) {
			return e.Error(), true
		}
	}
	return "", false
}
