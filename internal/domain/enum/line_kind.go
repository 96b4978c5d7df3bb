package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// LineKind tells whether a cart line sells a service or a retail product
type LineKind string

const (
	LineKindService LineKind = "service"
	LineKindProduct LineKind = "product"
)

// Valid reports whether k is a known line kind
func (k LineKind) Valid() bool {
	return k == LineKindService || k == LineKindProduct
}

func (k LineKind) String() string {
	return string(k)
}

func (k *LineKind) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	kind := LineKind(str)
	if !kind.Valid() {
		return fmt.Errorf("unknown line kind %q", str)
	}
	*k = kind
	return nil
}

func (k LineKind) Value() (driver.Value, error) {
	return string(k), nil
}

func (k *LineKind) Scan(value interface{}) error {
	switch v := value.(type) {
	case string:
		*k = LineKind(v)
	case []byte:
		*k = LineKind(v)
	case nil:
		*k = LineKindService
	}
	return nil
}
