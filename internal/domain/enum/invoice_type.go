package enum

import (
	"encoding/json"
	"fmt"
)

// InvoiceType is the kind of invoice a sale receipt carries
type InvoiceType int

const (
	InvoiceTypeSimplified InvoiceType = 0
	InvoiceTypeFull       InvoiceType = 1
)

func (t InvoiceType) String() string {
	names := [...]string{"simplified", "full"}
	if int(t) < 0 || int(t) >= len(names) {
		return "simplified"
	}
	return names[t]
}

func (t InvoiceType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *InvoiceType) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*t = InvoiceType(i)
		return nil
	}
	switch str {
	case "simplified", "":
		*t = InvoiceTypeSimplified
	case "full":
		*t = InvoiceTypeFull
	default:
		return fmt.Errorf("unknown invoice type %q", str)
	}
	return nil
}
