package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// CheckoutPhase represents where a checkout session is in its submit lifecycle
type CheckoutPhase int

const (
	CheckoutPhaseCreating   CheckoutPhase = 0
	CheckoutPhaseEditing    CheckoutPhase = 1
	CheckoutPhaseSubmitting CheckoutPhase = 2
	CheckoutPhaseSettled    CheckoutPhase = 3
	CheckoutPhaseFailed     CheckoutPhase = 4
)

var checkoutPhaseNames = [...]string{"Creating", "Editing", "Submitting", "Settled", "Failed"}

func (p CheckoutPhase) String() string {
	if int(p) < 0 || int(p) >= len(checkoutPhaseNames) {
		return "Creating"
	}
	return checkoutPhaseNames[p]
}

// IsOpen reports whether the session can still be mutated by the cashier
func (p CheckoutPhase) IsOpen() bool {
	return p == CheckoutPhaseCreating || p == CheckoutPhaseEditing || p == CheckoutPhaseFailed
}

func (p CheckoutPhase) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

func (p *CheckoutPhase) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*p = CheckoutPhase(i)
		return nil
	}
	for i, name := range checkoutPhaseNames {
		if name == str {
			*p = CheckoutPhase(i)
			return nil
		}
	}
	return nil
}

func (p CheckoutPhase) Value() (driver.Value, error) {
	return int64(p), nil
}

func (p *CheckoutPhase) Scan(value interface{}) error {
	if value == nil {
		*p = CheckoutPhaseCreating
		return nil
	}
	switch v := value.(type) {
	case int64:
		*p = CheckoutPhase(v)
	case int:
		*p = CheckoutPhase(v)
	}
	return nil
}
