package http

import (
	"errors"

	apierrors "github.com/komalvinayak/Ecommerce-Analysis/internal/errors"
	"github.com/komalvinayak/Ecommerce-Analysis/internal/services"
)

// mapServiceError converts service sentinels to API errors. Errors that
// carry their own type, such as schema and window errors, pass through to
// the error handler unchanged.
func mapServiceError(err error) error {
	switch {
	case errors.Is(err, services.ErrDatasetNotLoaded):
		return apierrors.ErrDatasetUnavailable
	case errors.Is(err, services.ErrReloadInProgress):
		return apierrors.ErrReloadInProgress
	case errors.Is(err, services.ErrPageNotFound):
		return apierrors.ErrPageNotFound.WithDetails(err.Error())
	case errors.Is(err, services.ErrInvalidType):
		return apierrors.ErrValidation("type", err.Error())
	case errors.Is(err, services.ErrInvalidField):
		return apierrors.ErrValidation("field", err.Error())
	case errors.Is(err, services.ErrInvalidMetric):
		return apierrors.ErrValidation("metric", err.Error())
	case errors.Is(err, services.ErrInvalidPage):
		return apierrors.ErrValidation("page", err.Error())
	}
	return err
}
