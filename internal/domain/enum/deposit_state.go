package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// DepositState tells how a deposit row relates to a checkout session
type DepositState int

const (
	// DepositStateOffered is a client deposit available for selection
	DepositStateOffered DepositState = 0
	// DepositStateApplied is a deposit selected for the new settlement
	DepositStateApplied DepositState = 1
	// DepositStatePrevious was already applied to the invoice being edited
	DepositStatePrevious DepositState = 2
)

func (s DepositState) String() string {
	names := [...]string{"Offered", "Applied", "Previous"}
	if int(s) < 0 || int(s) >= len(names) {
		return "Offered"
	}
	return names[s]
}

func (s DepositState) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *DepositState) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = DepositState(i)
		return nil
	}
	switch str {
	case "Offered":
		*s = DepositStateOffered
	case "Applied":
		*s = DepositStateApplied
	case "Previous":
		*s = DepositStatePrevious
	}
	return nil
}

func (s DepositState) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *DepositState) Scan(value interface{}) error {
	if value == nil {
		*s = DepositStateOffered
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = DepositState(v)
	case int:
		*s = DepositState(v)
	}
	return nil
}
