package printer

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrFrameUnavailable is returned when a surface exists but its content
	// cannot be reached (device unplugged, host unreachable).
	ErrFrameUnavailable = errors.New("printer: surface content is not reachable")
	// ErrNoContent is returned when Print is called before anything was loaded.
	ErrNoContent = errors.New("printer: nothing loaded to print")
)

// Frame is the content slot of a print surface: its document can be
// replaced, and whatever it currently holds can be printed.
type Frame interface {
	// Load replaces the frame's content with doc.
	Load(doc []byte) error
	// Print sends the current content to the device. An error wrapping
	// ErrFrameUnavailable means the device was not reached and nothing printed.
	Print(ctx context.Context) error
}

// Surface is a long-lived print surface shared by every print job in the
// process.
type Surface interface {
	// Frame returns the surface's content slot, or ErrFrameUnavailable.
	Frame() (Frame, error)
}

// SpoolSurface is a Surface backed by a Printer. The loaded document stays
// in the spool until the next Load replaces it.
type SpoolSurface struct {
	mu      sync.Mutex
	printer Printer
	content []byte
}

// NewSpoolSurface creates a shared surface in front of p.
func NewSpoolSurface(p Printer) *SpoolSurface {
	return &SpoolSurface{printer: p}
}

// Frame returns the spool without contacting the device. A device that
// cannot be reached is reported by Print as ErrFrameUnavailable.
func (s *SpoolSurface) Frame() (Frame, error) {
	if s.printer == nil {
		return nil, ErrFrameUnavailable
	}
	return s, nil
}

// Load replaces the spooled document.
func (s *SpoolSurface) Load(doc []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.content = append(s.content[:0], doc...)
	return nil
}

// Print sends the spooled document to the printer.
func (s *SpoolSurface) Print(ctx context.Context) error {
	s.mu.Lock()
	data := make([]byte, len(s.content))
	copy(data, s.content)
	s.mu.Unlock()

	if len(data) == 0 {
		return ErrNoContent
	}
	if err := s.printer.Print(ctx, data); err != nil {
		if errors.Is(err, ErrDeviceUnreachable) {
			return fmt.Errorf("%w: %w", ErrFrameUnavailable, err)
		}
		return err
	}
	return nil
}
