package checkout

import (
	"errors"
	"strings"
)

// ErrorKind classifies a local validation failure
type ErrorKind string

const (
	ErrKindMissingClient    ErrorKind = "missing_client"
	ErrKindNoPayment        ErrorKind = "no_payment"
	ErrKindOutstanding      ErrorKind = "outstanding"
	ErrKindMissingReference ErrorKind = "missing_reference"
	ErrKindInvalidAmount    ErrorKind = "invalid_amount"
	ErrKindDepositExceeds   ErrorKind = "deposit_exceeds_balance"
	ErrKindEmptyCart        ErrorKind = "empty_cart"
	ErrKindInvalidLine      ErrorKind = "invalid_line"
	ErrKindInvalidDiscount  ErrorKind = "invalid_discount"
)

// ValidationError is a synchronous, local rule violation. It blocks submission and never
// reaches the salon backend.
type ValidationError struct {
	Kind    ErrorKind `json:"kind"`
	Field   string    `json:"field"`
	Message string    `json:"message"`
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ValidationErrors collects every violation found in one pass
type ValidationErrors []*ValidationError

func (v ValidationErrors) Error() string {
	msgs := make([]string, len(v))
	for i, e := range v {
		msgs[i] = e.Message
	}
	return strings.Join(msgs, "; ")
}

// Has reports whether a violation of the given kind is present
func (v ValidationErrors) Has(kind ErrorKind) bool {
	for _, e := range v {
		if e.Kind == kind {
			return true
		}
	}
	return false
}

var (
	ErrLineNotFound      = errors.New("checkout: line not found")
	ErrPaymentNotFound   = errors.New("checkout: payment not found")
	ErrDepositNotFound   = errors.New("checkout: deposit not found")
	ErrNotEditing        = errors.New("checkout: not editing an existing invoice")
	ErrInvalidTransition = errors.New("checkout: invalid phase transition")
	ErrSubmitInProgress  = errors.New("checkout: submission already in progress")
	ErrHoldWhileEditing  = errors.New("checkout: an invoice being edited cannot be held")
)
