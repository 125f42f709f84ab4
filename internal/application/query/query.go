package query

import (
	"fmt"

	"github.com/google/uuid"

	domainErrors "github.com/bivex/habitpass/internal/domain/errors"
)

func parseID(kind, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: invalid %s ID", domainErrors.ErrInvalidInput, kind)
	}
	return id, nil
}
