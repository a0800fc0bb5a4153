package enum

import (
	"encoding/json"
)

// PrintStatus is the lifecycle state of a single print request
type PrintStatus int

const (
	PrintStatusIdle     PrintStatus = 0
	PrintStatusPrinting PrintStatus = 1
	PrintStatusSuccess  PrintStatus = 2
	PrintStatusError    PrintStatus = 3
)

func (s PrintStatus) String() string {
	names := [...]string{"idle", "printing", "success", "error"}
	if int(s) < 0 || int(s) >= len(names) {
		return "idle"
	}
	return names[s]
}

// IsTerminal reports whether s ends the lifecycle of a print request
func (s PrintStatus) IsTerminal() bool {
	return s == PrintStatusSuccess || s == PrintStatusError
}

func (s PrintStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *PrintStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = PrintStatus(i)
		return nil
	}
	switch str {
	case "idle":
		*s = PrintStatusIdle
	case "printing":
		*s = PrintStatusPrinting
	case "success":
		*s = PrintStatusSuccess
	case "error":
		*s = PrintStatusError
	}
	return nil
}
