package request

import (
	"github.com/sangkips/investify-receipts/internal/domain/entity"
	"github.com/sangkips/investify-receipts/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// ReceiptItemRequest is one line item of a receipt
type ReceiptItemRequest struct {
	Quantity    int             `json:"quantity" binding:"required,gt=0"`
	Description string          `json:"description" binding:"required"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Total       decimal.Decimal `json:"total"`
}

// TaxBucketRequest is one row of a sale's tax breakdown
type TaxBucketRequest struct {
	Rate   int             `json:"rate" binding:"gte=0,lte=100"`
	Base   decimal.Decimal `json:"base"`
	Amount decimal.Decimal `json:"amount"`
}

// SaleReceiptRequest carries the sale-only fields
type SaleReceiptRequest struct {
	OrderNumber   string             `json:"order_number" binding:"required"`
	Discount      decimal.Decimal    `json:"discount"`
	PaymentMethod string             `json:"payment_method"`
	Notes         string             `json:"notes"`
	InvoiceType   string             `json:"invoice_type" binding:"omitempty,oneof=simplified full"`
	CustomerName  string             `json:"customer_name"`
	CustomerTaxID string             `json:"customer_tax_id"`
	TaxBuckets    []TaxBucketRequest `json:"tax_buckets" binding:"omitempty,dive"`
}

// ReturnReceiptRequest carries the return-only fields
type ReturnReceiptRequest struct {
	ReturnNumber string `json:"return_number" binding:"required"`
	OrderNumber  string `json:"order_number"`
	Reason       string `json:"reason"`
}

// PrintReceiptRequest is the request body for printing or previewing a receipt
type PrintReceiptRequest struct {
	ReceiptType string                `json:"receipt_type" binding:"required,oneof=sale return"`
	CreatedAt   int64                 `json:"created_at" binding:"required"`
	Items       []ReceiptItemRequest  `json:"items" binding:"required,min=1,dive"`
	Subtotal    decimal.Decimal       `json:"subtotal"`
	Total       decimal.Decimal       `json:"total"`
	Sale        *SaleReceiptRequest   `json:"sale"`
	Return      *ReturnReceiptRequest `json:"return"`
}

// ToEntity converts the request into a receipt record
func (r *PrintReceiptRequest) ToEntity() *entity.ReceiptInput {
	in := &entity.ReceiptInput{
		CreatedAt: r.CreatedAt,
		Subtotal:  r.Subtotal,
		Total:     r.Total,
	}
	if r.ReceiptType == "return" {
		in.Type = enum.ReceiptTypeReturn
	}

	for _, item := range r.Items {
		in.Items = append(in.Items, entity.LineItem{
			Quantity:    item.Quantity,
			Description: item.Description,
			UnitPrice:   item.UnitPrice,
			Total:       item.Total,
		})
	}

	if r.Sale != nil {
		sale := &entity.SaleDetails{
			OrderNumber:   r.Sale.OrderNumber,
			Discount:      r.Sale.Discount,
			PaymentMethod: r.Sale.PaymentMethod,
			Notes:         r.Sale.Notes,
			CustomerName:  r.Sale.CustomerName,
			CustomerTaxID: r.Sale.CustomerTaxID,
		}
		if r.Sale.InvoiceType == "full" {
			sale.InvoiceType = enum.InvoiceTypeFull
		}
		for _, b := range r.Sale.TaxBuckets {
			sale.TaxBuckets = append(sale.TaxBuckets, entity.TaxBucket{
				Rate:   b.Rate,
				Base:   b.Base,
				Amount: b.Amount,
			})
		}
		in.Sale = sale
	}

	if r.Return != nil {
		in.Return = &entity.ReturnDetails{
			ReturnNumber: r.Return.ReturnNumber,
			OrderNumber:  r.Return.OrderNumber,
			Reason:       r.Return.Reason,
		}
	}

	return in
}
