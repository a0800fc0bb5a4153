package entity

import (
	"errors"
	"fmt"

	"github.com/sangkips/investify-receipts/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// LineItem is a frozen snapshot of one sold or returned product line.
type LineItem struct {
	Quantity    int             `json:"quantity"`
	Description string          `json:"description"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Total       decimal.Decimal `json:"total"`
}

// TaxBucket is one rate-grouped row of a sale's tax breakdown.
type TaxBucket struct {
	Rate   int             `json:"rate"` // percentage, e.g. 21
	Base   decimal.Decimal `json:"base"`
	Amount decimal.Decimal `json:"amount"`
}

// SaleDetails holds the fields only a sale receipt carries.
type SaleDetails struct {
	OrderNumber   string           `json:"order_number"`
	Discount      decimal.Decimal  `json:"discount"`
	PaymentMethod string           `json:"payment_method,omitempty"`
	Notes         string           `json:"notes,omitempty"`
	InvoiceType   enum.InvoiceType `json:"invoice_type"`
	TaxBuckets    []TaxBucket      `json:"tax_buckets,omitempty"`

	// Only meaningful for full invoices
	CustomerName  string `json:"customer_name,omitempty"`
	CustomerTaxID string `json:"customer_tax_id,omitempty"`
}

// ReturnDetails holds the fields only a return receipt carries.
type ReturnDetails struct {
	ReturnNumber string `json:"return_number"`
	OrderNumber  string `json:"order_number,omitempty"` // originating sale
	Reason       string `json:"reason,omitempty"`
}

// ReceiptInput is an already-assembled receipt record, either a sale or a
// merchandise return. Exactly one of Sale / Return is set, matching Type.
// It is composed from order/return data at print time and never persisted.
type ReceiptInput struct {
	Type      enum.ReceiptType `json:"receipt_type"`
	CreatedAt int64            `json:"created_at"` // nanoseconds since the Unix epoch
	Items     []LineItem       `json:"items"`
	Subtotal  decimal.Decimal  `json:"subtotal"`
	Total     decimal.Decimal  `json:"total"`

	Sale   *SaleDetails   `json:"sale,omitempty"`
	Return *ReturnDetails `json:"return,omitempty"`
}

// Number returns the order number for sales and the return number for returns.
func (r *ReceiptInput) Number() string {
	switch r.Type {
	case enum.ReceiptTypeReturn:
		if r.Return != nil {
			return r.Return.ReturnNumber
		}
	default:
		if r.Sale != nil {
			return r.Sale.OrderNumber
		}
	}
	return ""
}

var (
	ErrReceiptVariant = errors.New("receipt details do not match receipt type")
	ErrReceiptNoItems = errors.New("receipt has no items")
)

// Validate checks the structural invariants of a receipt record. The
// formatter does not call it; callers validate at their own boundary.
func (r *ReceiptInput) Validate() error {
	if !r.Type.IsValid() {
		return fmt.Errorf("unknown receipt type %d", r.Type)
	}

	switch r.Type {
	case enum.ReceiptTypeSale:
		if r.Sale == nil || r.Return != nil {
			return ErrReceiptVariant
		}
		if r.Sale.OrderNumber == "" {
			return errors.New("sale receipt requires an order number")
		}
		if r.Sale.Discount.IsNegative() {
			return errors.New("discount cannot be negative")
		}
	case enum.ReceiptTypeReturn:
		if r.Return == nil || r.Sale != nil {
			return ErrReceiptVariant
		}
		if r.Return.ReturnNumber == "" {
			return errors.New("return receipt requires a return number")
		}
	}

	if len(r.Items) == 0 {
		return ErrReceiptNoItems
	}
	for i, item := range r.Items {
		if item.Quantity <= 0 {
			return fmt.Errorf("item %d: quantity must be positive", i+1)
		}
	}
	return nil
}
