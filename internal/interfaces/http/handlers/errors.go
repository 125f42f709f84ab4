package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appMiddleware "github.com/bivex/habitpass/internal/application/middleware"
	"github.com/bivex/habitpass/internal/domain/entity"
	domainErrors "github.com/bivex/habitpass/internal/domain/errors"
	"github.com/bivex/habitpass/internal/domain/service"
	"github.com/bivex/habitpass/internal/infrastructure/logging"
	"github.com/bivex/habitpass/internal/interfaces/http/response"
)

// unprocessable are requests that are well formed but break a business rule
var unprocessable = []error{
	service.ErrFutureDay,
	service.ErrEmptyTitle,
	service.ErrNegativeXP,
	service.ErrInvalidAmount,
	service.ErrBadgeIdentifier,
	entity.ErrInvalidFrequency,
	entity.ErrInsufficientCurrency,
	entity.ErrNoStreakCorrections,
}

// writeError maps an application error to a response
func writeError(c *gin.Context, err error) {
	var validationErr *domainErrors.ValidationError
	switch {
	case errors.As(err, &validationErr):
		response.FieldError(c, validationErr.Field, validationErr.Error())
	case errors.Is(err, domainErrors.ErrInvalidInput),
		errors.Is(err, domainErrors.ErrInvalidDate),
		errors.Is(err, domainErrors.ErrInvalidFeature):
		response.BadRequest(c, err.Error())
	case errors.Is(err, appMiddleware.ErrInvalidToken),
		errors.Is(err, appMiddleware.ErrTokenRevoked):
		response.Unauthorized(c, err.Error())
	case domainErrors.IsNotFound(err), errors.Is(err, service.ErrBadgeNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, service.ErrHabitOwner):
		response.Forbidden(c, err.Error())
	case errors.Is(err, domainErrors.ErrAccountAlreadyExists):
		response.Conflict(c, err.Error())
	case isAny(err, unprocessable):
		response.UnprocessableEntity(c, err.Error())
	case errors.Is(err, domainErrors.ErrExternalServiceUnavailable):
		response.ServiceUnavailable(c, "Service temporarily unavailable")
	default:
		logging.GetLogger(c).Error("request failed", zap.Error(err))
		response.InternalError(c, "Internal server error")
	}
}

func isAny(err error, targets []error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// userID returns the authenticated user id or writes a 401
func userID(c *gin.Context) (string, bool) {
	id := c.GetString("user_id")
	if id == "" {
		response.Unauthorized(c, "User not authenticated")
		return "", false
	}
	return id, true
}

// bindOptionalJSON binds a JSON body when one is present
func bindOptionalJSON(c *gin.Context, obj interface{}) bool {
	if c.Request.ContentLength == 0 {
		return true
	}
	if err := c.ShouldBindJSON(obj); err != nil {
		response.BadRequest(c, err.Error())
		return false
	}
	return true
}
