package service

import (
	"context"
	"encoding/base64"
	"log"
	"sync"
	"time"

	"github.com/sangkips/investify-receipts/internal/domain/entity"
	"github.com/sangkips/investify-receipts/internal/domain/enum"
	"github.com/sangkips/investify-receipts/internal/domain/repository"
	"github.com/sangkips/investify-receipts/internal/printing"
	"github.com/sangkips/investify-receipts/internal/receipt"
	"github.com/sangkips/investify-receipts/pkg/apperror"
	"github.com/sangkips/investify-receipts/pkg/printer"
	"github.com/shopspring/decimal"
)

// ReceiptDispatcher delivers a receipt and reports its status sequence.
type ReceiptDispatcher interface {
	PrintReceipt(ctx context.Context, in entity.ReceiptInput, profile *entity.StoreProfile, onStatus printing.StatusFunc) *printing.Outcome
}

// PrinterService handles receipt formatting and printing.
type PrinterService struct {
	dispatcher   ReceiptDispatcher
	formatter    *receipt.Formatter
	profileRepo  repository.StoreProfileRepository
	printer      printer.Printer
	printerType  string
	fallbackType string
}

// NewPrinterService creates a new printer service.
func NewPrinterService(
	dispatcher ReceiptDispatcher,
	formatter *receipt.Formatter,
	profileRepo repository.StoreProfileRepository,
	p printer.Printer,
	printerType string,
	fallbackType string,
) *PrinterService {
	if formatter == nil {
		formatter = receipt.NewFormatter(receipt.DefaultWidth, time.UTC)
	}
	if p == nil {
		p = printer.NewNullPrinter()
	}
	return &PrinterService{
		dispatcher:   dispatcher,
		formatter:    formatter,
		profileRepo:  profileRepo,
		printer:      p,
		printerType:  printerType,
		fallbackType: fallbackType,
	}
}

// PrinterStatus returns the current printer status information.
type PrinterStatus struct {
	Configured   bool   `json:"configured"`
	Connected    bool   `json:"connected"`
	Type         string `json:"type"`
	FallbackType string `json:"fallback_type"`
}

// PrintResult is what a caller learns about a print request.
type PrintResult struct {
	Number   string               `json:"number"`
	Status   enum.PrintStatus     `json:"status"`
	Statuses []enum.PrintStatus   `json:"statuses"`
	Attempts int                  `json:"attempts"`
	Path     printing.Path        `json:"path,omitempty"`
	Reason   printing.Reason      `json:"reason,omitempty"`
	Failures []printing.Failure   `json:"failures,omitempty"`
	Receipt  *entity.ReceiptInput `json:"receipt,omitempty"`
}

// Succeeded reports whether the receipt was delivered.
func (r *PrintResult) Succeeded() bool {
	return r.Status == enum.PrintStatusSuccess
}

// ReceiptPreview is a formatted receipt that has not been printed.
type ReceiptPreview struct {
	Number string `json:"number"`
	Text   string `json:"text"`
	EscPos string `json:"escpos"` // base64
}

// GetStatus returns printer connection status.
func (s *PrinterService) GetStatus() *PrinterStatus {
	return &PrinterStatus{
		Configured:   s.printerType != "none" && s.printerType != "",
		Connected:    s.printer.IsConnected(),
		Type:         s.printerType,
		FallbackType: s.fallbackType,
	}
}

// TestPrint prints a fixed sample sale receipt.
func (s *PrinterService) TestPrint(ctx context.Context) *PrintResult {
	in := SampleReceipt()
	return s.dispatch(ctx, in, s.loadProfile(ctx))
}

// PrintReceipt validates a receipt record and prints it.
func (s *PrinterService) PrintReceipt(ctx context.Context, in *entity.ReceiptInput) (*PrintResult, error) {
	if err := in.Validate(); err != nil {
		return nil, apperror.NewBadRequestError("Invalid receipt: " + err.Error())
	}
	return s.dispatch(ctx, *in, s.loadProfile(ctx)), nil
}

// Preview formats a receipt record without printing it.
func (s *PrinterService) Preview(ctx context.Context, in *entity.ReceiptInput) (*ReceiptPreview, error) {
	if err := in.Validate(); err != nil {
		return nil, apperror.NewBadRequestError("Invalid receipt: " + err.Error())
	}
	doc := s.formatter.Format(*in, s.loadProfile(ctx))
	return &ReceiptPreview{
		Number: in.Number(),
		Text:   doc.Text(),
		EscPos: base64.StdEncoding.EncodeToString(doc.Bytes()),
	}, nil
}

func (s *PrinterService) dispatch(ctx context.Context, in entity.ReceiptInput, profile *entity.StoreProfile) *PrintResult {
	var mu sync.Mutex
	var statuses []enum.PrintStatus
	onStatus := func(st enum.PrintStatus) {
		mu.Lock()
		statuses = append(statuses, st)
		mu.Unlock()
	}

	outcome := s.dispatcher.PrintReceipt(ctx, in, profile, onStatus)

	mu.Lock()
	defer mu.Unlock()
	return &PrintResult{
		Number:   outcome.Number,
		Status:   outcome.Status,
		Statuses: statuses,
		Attempts: outcome.Attempts,
		Path:     outcome.Path,
		Reason:   outcome.Reason(),
		Failures: outcome.Failures,
		Receipt:  &in,
	}
}

// loadProfile returns the stored store profile, or nil so that the
// formatter falls back to the built-in identity.
func (s *PrinterService) loadProfile(ctx context.Context) *entity.StoreProfile {
	if s.profileRepo == nil {
		return nil
	}
	profile, err := s.profileRepo.Get(ctx)
	if err != nil {
		log.Printf("Warning: failed to load store profile, using default: %v", err)
		return nil
	}
	return profile
}

// SampleReceipt returns the receipt printed by the test page.
func SampleReceipt() entity.ReceiptInput {
	return entity.ReceiptInput{
		Type:      enum.ReceiptTypeSale,
		CreatedAt: time.Date(2024, 1, 2, 15, 4, 0, 0, time.UTC).UnixNano(),
		Items: []entity.LineItem{
			{Quantity: 1, Description: "Test Item 1", UnitPrice: decimal.RequireFromString("10.00"), Total: decimal.RequireFromString("10.00")},
			{Quantity: 2, Description: "Test Item 2", UnitPrice: decimal.RequireFromString("5.00"), Total: decimal.RequireFromString("10.00")},
		},
		Subtotal: decimal.RequireFromString("20.00"),
		Total:    decimal.RequireFromString("20.00"),
		Sale: &entity.SaleDetails{
			OrderNumber:   "TEST-001",
			PaymentMethod: "Cash",
			InvoiceType:   enum.InvoiceTypeSimplified,
			TaxBuckets: []entity.TaxBucket{
				{Rate: 21, Base: decimal.RequireFromString("16.53"), Amount: decimal.RequireFromString("3.47")},
			},
		},
	}
}
