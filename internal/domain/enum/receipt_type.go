package enum

import (
	"encoding/json"
	"fmt"
)

// ReceiptType discriminates the two kinds of printable receipt
type ReceiptType int

const (
	ReceiptTypeSale   ReceiptType = 0
	ReceiptTypeReturn ReceiptType = 1
)

func (t ReceiptType) String() string {
	names := [...]string{"sale", "return"}
	if int(t) < 0 || int(t) >= len(names) {
		return "sale"
	}
	return names[t]
}

// IsValid reports whether t is a known receipt type
func (t ReceiptType) IsValid() bool {
	return t == ReceiptTypeSale || t == ReceiptTypeReturn
}

func (t ReceiptType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *ReceiptType) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*t = ReceiptType(i)
		return nil
	}
	switch str {
	case "sale":
		*t = ReceiptTypeSale
	case "return":
		*t = ReceiptTypeReturn
	default:
		return fmt.Errorf("unknown receipt type %q", str)
	}
	return nil
}
