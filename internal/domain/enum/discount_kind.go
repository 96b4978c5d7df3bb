package enum

import (
	"encoding/json"
	"fmt"
)

// DiscountKind represents how a discount definition is applied to the cart subtotal
type DiscountKind string

const (
	DiscountKindPercent DiscountKind = "percent"
	DiscountKindFixed   DiscountKind = "fixed"
)

func (k DiscountKind) String() string {
	return string(k)
}

func (k *DiscountKind) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	switch DiscountKind(str) {
	case DiscountKindPercent, DiscountKindFixed:
		*k = DiscountKind(str)
		return nil
	}
	return fmt.Errorf("unknown discount kind %q", str)
}
