package service

import (
	"errors"
	"net/http"

	"github.com/sangkips/salon-checkout/internal/domain/checkout"
	"github.com/sangkips/salon-checkout/pkg/apperror"
)

var (
	errCheckoutNotFound = apperror.NewNotFoundError("Checkout")
	errCheckoutClosed   = apperror.NewConflictError("Checkout is not open for changes")
	errSubmitBusy       = apperror.NewConflictError("This checkout is already being submitted")
)

// toAppError turns checkout core errors into HTTP-aware application errors. Anything it
// does not recognise is returned unchanged.
func toAppError(err error) error {
	if err == nil || apperror.IsAppError(err) {
		return err
	}

	var verrs checkout.ValidationErrors
	if errors.As(err, &verrs) {
		return apperror.NewValidationError(fieldErrors(verrs))
	}
	var verr *checkout.ValidationError
	if errors.As(err, &verr) {
		return apperror.NewValidationError(fieldErrors(checkout.ValidationErrors{verr}))
	}

	switch {
	case errors.Is(err, checkout.ErrLineNotFound):
		return apperror.NewNotFoundError("Line")
	case errors.Is(err, checkout.ErrPaymentNotFound):
		return apperror.NewNotFoundError("Payment")
	case errors.Is(err, checkout.ErrDepositNotFound):
		return apperror.NewNotFoundError("Deposit")
	case errors.Is(err, checkout.ErrNotEditing):
		return apperror.NewBadRequestError("Checkout is not editing an invoice")
	case errors.Is(err, checkout.ErrHoldWhileEditing):
		return apperror.NewBadRequestError("An invoice being edited cannot be held")
	case errors.Is(err, checkout.ErrSubmitInProgress):
		return errSubmitBusy
	case errors.Is(err, checkout.ErrInvalidTransition):
		return errCheckoutClosed
	}
	return err
}

func fieldErrors(verrs checkout.ValidationErrors) []apperror.FieldError {
	out := make([]apperror.FieldError, len(verrs))
	for i, v := range verrs {
		out[i] = apperror.FieldError{Field: v.Field, Kind: string(v.Kind), Message: v.Message}
	}
	return out
}

func validationFailed(field, kind, message string) *apperror.AppError {
	return &apperror.AppError{
		Code:    http.StatusUnprocessableEntity,
		Message: "Validation failed",
		Errors:  []apperror.FieldError{{Field: field, Kind: kind, Message: message}},
	}
}
