package printer

import (
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"time"
)

// Target is a short-lived output opened for a single print job.
type Target interface {
	Frame
	// Close releases the target. It must be called once the job is done.
	Close() error
}

// Opener opens independent output targets.
type Opener interface {
	Open(ctx context.Context) (Target, error)
}

// streamTarget holds an open device handle for the lifetime of one job.
type streamTarget struct {
	name    string
	w       io.WriteCloser
	content []byte
}

func (t *streamTarget) Load(doc []byte) error {
	t.content = append(t.content[:0], doc...)
	return nil
}

func (t *streamTarget) Print(ctx context.Context) error {
	if len(t.content) == 0 {
		return ErrNoContent
	}
	if conn, ok := t.w.(net.Conn); ok {
		deadline := time.Now().Add(10 * time.Second)
		if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
			deadline = d
		}
		_ = conn.SetWriteDeadline(deadline)
	}
	if _, err := t.w.Write(t.content); err != nil {
		return fmt.Errorf("printer: failed to write to %s: %w", t.name, err)
	}
	return nil
}

func (t *streamTarget) Close() error {
	return t.w.Close()
}

// DeviceOpener opens a fresh connection to a USB or network printer for
// every job.
type DeviceOpener struct {
	Type    string
	USBPath string
	Address string
	Timeout time.Duration
}

// Open opens the configured device.
func (o *DeviceOpener) Open(ctx context.Context) (Target, error) {
	switch o.Type {
	case "usb":
		f, err := os.OpenFile(o.USBPath, os.O_WRONLY, 0)
		if err != nil {
			return nil, fmt.Errorf("printer: failed to open USB device %s: %w", o.USBPath, err)
		}
		return &streamTarget{name: o.USBPath, w: f}, nil
	case "network":
		timeout := o.Timeout
		if timeout <= 0 {
			timeout = 5 * time.Second
		}
		dialer := net.Dialer{Timeout: timeout}
		conn, err := dialer.DialContext(ctx, "tcp", o.Address)
		if err != nil {
			return nil, fmt.Errorf("printer: failed to connect to %s: %w", o.Address, err)
		}
		return &streamTarget{name: o.Address, w: conn}, nil
	default:
		return nil, fmt.Errorf("printer: cannot open printer type %q", o.Type)
	}
}

// NewOpenerFromConfig creates the Opener for the secondary output target.
// It returns nil when printerType is "none" or empty.
func NewOpenerFromConfig(printerType, usbPath, address string) (Opener, error) {
	switch printerType {
	case "usb":
		if usbPath == "" {
			return nil, fmt.Errorf("printer: USB path is required for USB printer type")
		}
	case "network":
		if address == "" {
			return nil, fmt.Errorf("printer: address is required for network printer type")
		}
	case "none", "":
		return nil, nil
	default:
		return nil, fmt.Errorf("printer: unknown printer type %q (use usb, network, or none)", printerType)
	}
	return &DeviceOpener{Type: printerType, USBPath: usbPath, Address: address}, nil
}
