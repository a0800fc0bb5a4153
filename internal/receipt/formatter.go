// Package receipt turns an assembled sale or return record into a
// fixed-format thermal receipt. Formatting is pure: no I/O, no clock reads,
// and identical input always yields byte-identical output.
package receipt

import (
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sangkips/investify-receipts/internal/domain/entity"
	"github.com/sangkips/investify-receipts/internal/domain/enum"
	"github.com/sangkips/investify-receipts/pkg/printer"
	"github.com/shopspring/decimal"
)

// DefaultWidth is the line width of 80mm paper.
const DefaultWidth = 48

// Closing lines printed at the foot of every receipt.
const (
	ClosingThanks = "THANK YOU FOR YOUR VISIT"
	ClosingKeep   = "PLEASE KEEP THIS RECEIPT"
)

// Document is a formatted, printable receipt. It is immutable once built.
type Document struct {
	data []byte
	text string
}

// Bytes returns a copy of the ESC/POS byte stream.
func (d Document) Bytes() []byte {
	out := make([]byte, len(d.data))
	copy(out, d.data)
	return out
}

// String returns the raw ESC/POS stream as a string.
func (d Document) String() string {
	return string(d.data)
}

// Text returns the plain-text rendering of the receipt.
func (d Document) Text() string {
	return d.text
}

// Len returns the size of the byte stream.
func (d Document) Len() int {
	return len(d.data)
}

// Formatter lays out receipts for a given paper width and time zone.
type Formatter struct {
	Width    int
	Location *time.Location
}

// NewFormatter creates a formatter. A non-positive width selects
// DefaultWidth and a nil location selects UTC.
func NewFormatter(width int, loc *time.Location) *Formatter {
	if width <= 0 {
		width = DefaultWidth
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Formatter{Width: width, Location: loc}
}

// Format renders in with the default formatter.
func Format(in entity.ReceiptInput, profile *entity.StoreProfile) Document {
	return NewFormatter(DefaultWidth, time.UTC).Format(in, profile)
}

// Format renders a receipt. A nil profile prints the built-in store identity.
func (f *Formatter) Format(in entity.ReceiptInput, profile *entity.StoreProfile) Document {
	doc := printer.NewDocument(f.Width)
	store := ResolveProfile(profile)

	f.writeHeader(doc, store)
	doc.SetAlign(printer.AlignLeft).Separator('-')

	if in.Type == enum.ReceiptTypeReturn {
		ret := in.Return
		if ret == nil {
			ret = &entity.ReturnDetails{}
		}
		f.writeReturn(doc, in, ret)
	} else {
		sale := in.Sale
		if sale == nil {
			sale = &entity.SaleDetails{}
		}
		f.writeSale(doc, in, sale)
	}

	doc.SetAlign(printer.AlignCenter).
		LineFeed().
		Text(ClosingThanks).
		Text(ClosingKeep).
		SetAlign(printer.AlignLeft).
		FeedLines(3).
		PartialCut()

	return Document{data: append([]byte(nil), doc.Bytes()...), text: doc.Plain()}
}

func (f *Formatter) writeHeader(doc *printer.Document, store entity.StoreProfile) {
	doc.SetAlign(printer.AlignCenter).
		SetBold(true).
		SetFontSize(printer.FontDouble).
		Text(upper(store.Name)).
		SetFontSize(printer.FontNormal).
		SetBold(false).
		Text(upper(store.Address)).
		Text("TEL: " + upper(store.Phone)).
		Text("WHATSAPP: " + upper(store.WhatsApp))

	if store.TaxID != "" {
		doc.Text("TAX ID: " + upper(store.TaxID))
	}
	if store.Email != "" {
		doc.Text(upper(store.Email))
	}
	if store.Website != "" {
		doc.Text(upper(store.Website))
	}
}

func (f *Formatter) writeSale(doc *printer.Document, in entity.ReceiptInput, sale *entity.SaleDetails) {
	if sale.InvoiceType == enum.InvoiceTypeFull {
		doc.SetAlign(printer.AlignCenter).
			SetBold(true).
			Text("INVOICE").
			SetBold(false).
			SetAlign(printer.AlignLeft).
			Text("CUSTOMER: " + upper(sale.CustomerName)).
			Text("TAX ID: " + upper(sale.CustomerTaxID))
	} else {
		doc.SetAlign(printer.AlignCenter).
			SetBold(true).
			Text("SIMPLIFIED INVOICE").
			SetBold(false).
			SetAlign(printer.AlignLeft)
	}

	doc.KeyValue("ORDER No:", upper(sale.OrderNumber))
	f.writeTimestamp(doc, in.CreatedAt)
	if sale.PaymentMethod != "" {
		doc.KeyValue("PAYMENT:", upper(sale.PaymentMethod))
	}

	f.writeItems(doc, in.Items)

	doc.KeyValue("SUBTOTAL", FormatMoney(in.Subtotal))
	if sale.Discount.IsPositive() {
		doc.KeyValue("DISCOUNT", FormatNegativeMoney(sale.Discount))
	}
	doc.SetBold(true).
		KeyValue("TOTAL", FormatMoney(in.Total)).
		SetBold(false)

	if len(sale.TaxBuckets) > 0 {
		f.writeTaxes(doc, sale.TaxBuckets)
	}

	if strings.TrimSpace(sale.Notes) != "" {
		doc.Separator('-').Text("NOTES:")
		for _, line := range wrap(upper(sale.Notes), f.Width) {
			doc.Text(line)
		}
	}
}

func (f *Formatter) writeReturn(doc *printer.Document, in entity.ReceiptInput, ret *entity.ReturnDetails) {
	doc.SetAlign(printer.AlignLeft).
		SetBold(true).
		Text("RETURN RECEIPT").
		SetBold(false)

	doc.KeyValue("RETURN No:", upper(ret.ReturnNumber))
	f.writeTimestamp(doc, in.CreatedAt)

	f.writeItems(doc, in.Items)

	doc.KeyValue("SUBTOTAL", FormatMoney(in.Subtotal))
	doc.SetBold(true).
		KeyValue("REFUND", FormatMoney(in.Total)).
		SetBold(false)

	if strings.TrimSpace(ret.Reason) != "" {
		doc.Separator('-').Text("RETURN REASON:")
		for _, line := range wrap(upper(ret.Reason), f.Width) {
			doc.Text(line)
		}
		if ret.OrderNumber != "" {
			doc.KeyValue("ORIGINAL SALE:", upper(ret.OrderNumber))
		}
	}
}

func (f *Formatter) writeTimestamp(doc *printer.Document, nanos int64) {
	doc.KeyValue("DATE:", FormatDate(nanos, f.Location)).
		KeyValue("TIME:", FormatTime(nanos, f.Location))
}

// itemColumns returns the widths of the quantity, description, unit price
// and line total columns.
func (f *Formatter) itemColumns() (qty, desc, price, total int) {
	qty, price, total = 4, 9, 10
	if f.Width < 40 {
		price, total = 8, 8
	}
	desc = f.Width - qty - price - total - 3
	if desc < 1 {
		desc = 1
	}
	return qty, desc, price, total
}

func (f *Formatter) writeItems(doc *printer.Document, items []entity.LineItem) {
	qtyW, descW, priceW, totalW := f.itemColumns()

	doc.Separator('-').
		Row(
			printer.Cell{Text: "QTY", Width: qtyW},
			printer.Cell{Text: "DESCRIPTION", Width: descW},
			printer.Cell{Text: "PRICE", Width: priceW, Right: true},
			printer.Cell{Text: "TOTAL", Width: totalW, Right: true},
		)

	for _, item := range items {
		price, total := FormatMoney(item.UnitPrice), FormatMoney(item.Total)

		// amounts are never cut; a wide amount narrows the description
		pw, tw := priceW, totalW
		if n := utf8.RuneCountInString(price); n > pw {
			pw = n
		}
		if n := utf8.RuneCountInString(total); n > tw {
			tw = n
		}
		dw := descW - (pw - priceW) - (tw - totalW)
		if dw < 1 {
			dw = 1
		}

		lines := wrap(upper(item.Description), dw)
		if len(lines) == 0 {
			lines = []string{""}
		}

		doc.Row(
			printer.Cell{Text: strconv.Itoa(item.Quantity), Width: qtyW},
			printer.Cell{Text: lines[0], Width: dw},
			printer.Cell{Text: price, Width: pw, Right: true},
			printer.Cell{Text: total, Width: tw, Right: true},
		)
		for _, line := range lines[1:] {
			doc.Row(
				printer.Cell{Width: qtyW},
				printer.Cell{Text: line, Width: dw},
			)
		}
	}

	doc.Separator('-')
}

func (f *Formatter) writeTaxes(doc *printer.Document, buckets []entity.TaxBucket) {
	colW := 12
	if f.Width < 40 {
		colW = 10
	}
	rateW := f.Width - 2*colW - 2

	doc.Separator('-').
		Row(
			printer.Cell{Text: "RATE", Width: rateW},
			printer.Cell{Text: "BASE", Width: colW, Right: true},
			printer.Cell{Text: "TAX", Width: colW, Right: true},
		)

	for _, b := range buckets {
		doc.Row(
			printer.Cell{Text: FormatRate(b.Rate), Width: rateW},
			printer.Cell{Text: FormatMoney(b.Base), Width: colW, Right: true},
			printer.Cell{Text: FormatMoney(b.Amount), Width: colW, Right: true},
		)
	}

	base, amount := SummarizeTaxes(buckets)
	doc.SetBold(true).
		Row(
			printer.Cell{Text: "TOTAL", Width: rateW},
			printer.Cell{Text: FormatMoney(base), Width: colW, Right: true},
			printer.Cell{Text: FormatMoney(amount), Width: colW, Right: true},
		).
		SetBold(false)
}

// SummarizeTaxes sums the taxable bases and tax amounts of all buckets.
func SummarizeTaxes(buckets []entity.TaxBucket) (base, amount decimal.Decimal) {
	for _, b := range buckets {
		base = base.Add(b.Base)
		amount = amount.Add(b.Amount)
	}
	return base, amount
}

// wrap breaks s into lines of at most width characters on word boundaries.
func wrap(s string, width int) []string {
	var lines []string
	var cur string
	for _, word := range strings.Fields(s) {
		for len([]rune(word)) > width {
			if cur != "" {
				lines = append(lines, cur)
				cur = ""
			}
			r := []rune(word)
			lines = append(lines, string(r[:width]))
			word = string(r[width:])
		}
		switch {
		case cur == "":
			cur = word
		case len([]rune(cur))+1+len([]rune(word)) <= width:
			cur += " " + word
		default:
			lines = append(lines, cur)
			cur = word
		}
	}
	if cur != "" {
		lines = append(lines, cur)
	}
	return lines
}
