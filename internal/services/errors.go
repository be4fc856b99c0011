package services

import (
	apperrors "prodboard/internal/errors"
)

// errNotLoaded is returned while no snapshot is available.
func errNotLoaded() *apperrors.AppError {
	return apperrors.NewAppError(apperrors.ErrTypeLoadFatal, "dashboard data is not loaded", nil)
}
