package receipt

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// FormatMoney renders an amount with a comma decimal separator and exactly
// two fractional digits, without currency symbol or grouping: 1234.5 -> "1234,50".
func FormatMoney(d decimal.Decimal) string {
	return strings.Replace(d.StringFixed(2), ".", ",", 1)
}

// FormatNegativeMoney renders an amount as a deduction: 5.5 -> "-5,50".
func FormatNegativeMoney(d decimal.Decimal) string {
	return FormatMoney(d.Abs().Neg())
}

// FormatRate renders a tax rate percentage: 21 -> "21%".
func FormatRate(rate int) string {
	return strconv.Itoa(rate) + "%"
}

// FormatDate renders a nanosecond timestamp as DD/MM/YYYY in loc.
func FormatDate(nanos int64, loc *time.Location) string {
	return timestamp(nanos, loc).Format("02/01/2006")
}

// FormatTime renders a nanosecond timestamp as 24-hour HH:MM in loc.
func FormatTime(nanos int64, loc *time.Location) string {
	return timestamp(nanos, loc).Format("15:04")
}

func timestamp(nanos int64, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return time.Unix(0, nanos).In(loc)
}

// upper normalizes free text for the document body.
func upper(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
