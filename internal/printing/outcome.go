package printing

import (
	"encoding/json"

	"github.com/sangkips/investify-receipts/internal/domain/enum"
)

// Path identifies which delivery route an attempt used.
type Path string

const (
	PathNone     Path = ""
	PathShared   Path = "shared"
	PathFallback Path = "fallback"
)

// Reason classifies a failed attempt.
type Reason string

const (
	ReasonSurfaceMissing   Reason = "surface_missing"
	ReasonFrameUnavailable Reason = "frame_unavailable"
	ReasonPrint            Reason = "print_failed"
	ReasonOpen             Reason = "fallback_open_failed"
	ReasonFormat           Reason = "format_failed"
)

// Failure records one failed attempt. Attempt is 0 for formatting failures.
type Failure struct {
	Attempt int    `json:"attempt"`
	Path    Path   `json:"path"`
	Reason  Reason `json:"reason"`
	Err     error  `json:"-"`
}

// MarshalJSON includes the error text.
func (f Failure) MarshalJSON() ([]byte, error) {
	type alias Failure
	msg := ""
	if f.Err != nil {
		msg = f.Err.Error()
	}
	return json.Marshal(struct {
		alias
		Error string `json:"error,omitempty"`
	}{alias(f), msg})
}

// Outcome describes how a print request ended.
type Outcome struct {
	Number   string           `json:"number"`
	Status   enum.PrintStatus `json:"status"`
	Attempts int              `json:"attempts"`
	Path     Path             `json:"path,omitempty"`
	Failures []Failure        `json:"failures,omitempty"`
	Err      error            `json:"-"`
}

// Reason returns the reason of the last failure, or "" on success.
func (o *Outcome) Reason() Reason {
	if o.Status == enum.PrintStatusSuccess || len(o.Failures) == 0 {
		return ""
	}
	return o.Failures[len(o.Failures)-1].Reason
}

func (o *Outcome) fail(f Failure) {
	o.Failures = append(o.Failures, f)
	o.Err = f.Err
}
