// Package printing delivers formatted receipts to a print surface. A
// request first tries the shared surface, falls back to a freshly opened
// output target when the shared surface is missing or unreachable, and
// retries the whole delivery a bounded number of times.
package printing

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/sangkips/investify-receipts/internal/domain/entity"
	"github.com/sangkips/investify-receipts/internal/domain/enum"
	"github.com/sangkips/investify-receipts/internal/receipt"
	"github.com/sangkips/investify-receipts/pkg/printer"
)

var (
	// ErrNoSurface is recorded when no shared surface is configured.
	ErrNoSurface = errors.New("printing: no shared surface")
	// ErrNoFallback is returned when the fallback path is needed but no opener is configured.
	ErrNoFallback = errors.New("printing: no fallback output target configured")
	// ErrFormat wraps a failure raised while formatting the receipt.
	ErrFormat = errors.New("printing: receipt formatting failed")
	// ErrRetriesExhausted is the terminal cause when every attempt failed.
	ErrRetriesExhausted = errors.New("printing: all delivery attempts failed")
)

// Config controls retry and timing behaviour.
type Config struct {
	MaxAttempts int
	SettleDelay time.Duration // between loading the shared surface and printing it
	RetryDelay  time.Duration // between failed attempts
}

// DefaultConfig returns the standard delivery policy.
func DefaultConfig() Config {
	return Config{
		MaxAttempts: 3,
		SettleDelay: 500 * time.Millisecond,
		RetryDelay:  time.Second,
	}
}

// StatusFunc observes the status sequence of one print request.
type StatusFunc func(status enum.PrintStatus)

// FormatFunc renders a receipt record into a printable document.
type FormatFunc func(in entity.ReceiptInput, profile *entity.StoreProfile) receipt.Document

// Dispatcher delivers receipts. It keeps no state between requests apart
// from the guard that serializes use of the shared surface.
type Dispatcher struct {
	surface printer.Surface
	opener  printer.Opener
	format  FormatFunc
	cfg     Config

	sleep func(time.Duration)
	guard chan struct{}
}

// NewDispatcher creates a dispatcher. surface and opener may be nil; a nil
// surface sends every attempt down the fallback path.
func NewDispatcher(surface printer.Surface, opener printer.Opener, formatter *receipt.Formatter, cfg Config) *Dispatcher {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultConfig().MaxAttempts
	}
	if formatter == nil {
		formatter = receipt.NewFormatter(receipt.DefaultWidth, time.UTC)
	}
	return &Dispatcher{
		surface: surface,
		opener:  opener,
		format:  formatter.Format,
		cfg:     cfg,
		sleep:   time.Sleep,
		guard:   make(chan struct{}, 1),
	}
}

// PrintReceipt formats in once and delivers it. onStatus receives
// PrintStatusPrinting immediately and then exactly one terminal status.
// Failures never escape as panics or errors; they are reported through the
// terminal status and the returned Outcome.
//
// There is no cancellation: ctx is handed to the print devices (dial and
// write deadlines) but the request always runs to a terminal status.
func (d *Dispatcher) PrintReceipt(ctx context.Context, in entity.ReceiptInput, profile *entity.StoreProfile, onStatus StatusFunc) *Outcome {
	emit := func(s enum.PrintStatus) {
		if onStatus != nil {
			onStatus(s)
		}
	}

	emit(enum.PrintStatusPrinting)
	out := &Outcome{Status: enum.PrintStatusPrinting, Number: in.Number()}

	doc, err := d.render(in, profile)
	if err != nil {
		// Formatting is deterministic, so retrying cannot help.
		log.Printf("Printer error (receipt %s): %v", out.Number, err)
		out.fail(Failure{Attempt: 0, Reason: ReasonFormat, Err: err})
		out.Status = enum.PrintStatusError
		emit(out.Status)
		return out
	}

	for attempt := 1; attempt <= d.cfg.MaxAttempts; attempt++ {
		if attempt > 1 {
			d.sleep(d.cfg.RetryDelay)
		}

		out.Attempts = attempt
		path, f := d.attempt(ctx, doc)
		out.Path = path
		if f == nil {
			out.Status = enum.PrintStatusSuccess
			log.Printf("Receipt %s printed via %s path (attempt %d/%d)", out.Number, path, attempt, d.cfg.MaxAttempts)
			emit(out.Status)
			return out
		}

		f.Attempt = attempt
		log.Printf("Printer error (receipt %s, attempt %d/%d, %s path): %v", out.Number, attempt, d.cfg.MaxAttempts, path, f.Err)
		out.fail(*f)
	}

	out.Status = enum.PrintStatusError
	out.Err = fmt.Errorf("%w after %d attempts: %w", ErrRetriesExhausted, out.Attempts, out.Err)
	log.Printf("Printer error (receipt %s): %v", out.Number, out.Err)
	emit(out.Status)
	return out
}

func (d *Dispatcher) render(in entity.ReceiptInput, profile *entity.StoreProfile) (doc receipt.Document, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrFormat, r)
		}
	}()
	return d.format(in, profile), nil
}

// attempt runs one delivery. The path is chosen afresh every time from
// what is available right now. A shared surface whose device turns out to
// be unreachable at print time sends the same attempt to the fallback.
func (d *Dispatcher) attempt(ctx context.Context, doc receipt.Document) (Path, *Failure) {
	frame, err := d.sharedFrame()
	if err == nil {
		err = d.printShared(ctx, frame, doc)
		if err == nil {
			return PathShared, nil
		}
		if !errors.Is(err, printer.ErrFrameUnavailable) {
			return PathShared, &Failure{Path: PathShared, Reason: ReasonPrint, Err: err}
		}
	}

	reason := ReasonSurfaceMissing
	if !errors.Is(err, ErrNoSurface) {
		reason = ReasonFrameUnavailable
	}
	log.Printf("Shared print surface unavailable (%s), using fallback: %v", reason, err)

	if f := d.printFallback(ctx, doc); f != nil {
		return PathFallback, f
	}
	return PathFallback, nil
}

func (d *Dispatcher) sharedFrame() (frame printer.Frame, err error) {
	if d.surface == nil {
		return nil, ErrNoSurface
	}
	defer func() {
		if r := recover(); r != nil {
			frame, err = nil, fmt.Errorf("%w: %v", printer.ErrFrameUnavailable, r)
		}
	}()
	frame, err = d.surface.Frame()
	if err == nil && frame == nil {
		err = printer.ErrFrameUnavailable
	}
	return frame, err
}

// printShared loads the document into the shared surface, lets it settle
// and prints it. The guard keeps a second request from replacing the
// content while the first one is still printing.
func (d *Dispatcher) printShared(ctx context.Context, frame printer.Frame, doc receipt.Document) error {
	d.guard <- struct{}{}
	defer func() { <-d.guard }()

	return safely(func() error {
		if err := frame.Load(doc.Bytes()); err != nil {
			return fmt.Errorf("load shared surface: %w", err)
		}
		d.sleep(d.cfg.SettleDelay)
		if err := frame.Print(ctx); err != nil {
			return fmt.Errorf("print shared surface: %w", err)
		}
		return nil
	})
}

// printFallback opens a fresh output target, prints the document and
// releases the target.
func (d *Dispatcher) printFallback(ctx context.Context, doc receipt.Document) *Failure {
	if d.opener == nil {
		return &Failure{Path: PathFallback, Reason: ReasonOpen, Err: ErrNoFallback}
	}

	var target printer.Target
	err := safely(func() error {
		var err error
		target, err = d.opener.Open(ctx)
		if err == nil && target == nil {
			err = errors.New("opener returned no target")
		}
		return err
	})
	if err != nil {
		return &Failure{Path: PathFallback, Reason: ReasonOpen, Err: fmt.Errorf("open fallback target: %w", err)}
	}
	defer func() {
		if err := safely(target.Close); err != nil {
			log.Printf("Warning: failed to release fallback target: %v", err)
		}
	}()

	err = safely(func() error {
		if err := target.Load(doc.Bytes()); err != nil {
			return fmt.Errorf("load fallback target: %w", err)
		}
		if err := target.Print(ctx); err != nil {
			return fmt.Errorf("print fallback target: %w", err)
		}
		return nil
	})
	if err != nil {
		return &Failure{Path: PathFallback, Reason: ReasonPrint, Err: err}
	}
	return nil
}

// safely runs fn, turning a panic into an error.
func safely(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn()
}
