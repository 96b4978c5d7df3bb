package checkout

import (
	"fmt"

	"github.com/sangkips/salon-checkout/internal/domain/enum"
)

var transitions = map[enum.CheckoutPhase][]enum.CheckoutPhase{
	enum.CheckoutPhaseCreating:   {enum.CheckoutPhaseSubmitting},
	enum.CheckoutPhaseEditing:    {enum.CheckoutPhaseSubmitting},
	enum.CheckoutPhaseSubmitting: {enum.CheckoutPhaseSettled, enum.CheckoutPhaseFailed},
	enum.CheckoutPhaseFailed:     {enum.CheckoutPhaseSubmitting},
}

// Transition checks that a checkout may move from one phase to the next.
func Transition(from, to enum.CheckoutPhase) error {
	for _, next := range transitions[from] {
		if next == to {
			return nil
		}
	}
	return fmt.Errorf("%w: %s to %s", ErrInvalidTransition, from, to)
}

// SubmitMode tells the gateway which backend operation settles the checkout.
type SubmitMode string

const (
	SubmitModeCreate SubmitMode = "create"
	SubmitModeUpdate SubmitMode = "update"
	SubmitModeHold   SubmitMode = "hold"
)
