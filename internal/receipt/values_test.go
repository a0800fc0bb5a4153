package receipt

import (
	"testing"
	"time"

	"github.com/sangkips/investify-receipts/internal/domain/entity"
	"github.com/stretchr/testify/assert"
)

func TestFormatMoney(t *testing.T) {
	cases := map[string]string{
		"0":        "0,00",
		"5.5":      "5,50",
		"1234.567": "1234,57",
		"-3.1":     "-3,10",
		"0.005":    "0,01",
	}
	for in, want := range cases {
		assert.Equal(t, want, FormatMoney(dec(in)), in)
	}
}

func TestFormatNegativeMoney(t *testing.T) {
	assert.Equal(t, "-5,50", FormatNegativeMoney(dec("5.50")))
	assert.Equal(t, "-5,50", FormatNegativeMoney(dec("-5.50")))
}

func TestFormatRate(t *testing.T) {
	assert.Equal(t, "21%", FormatRate(21))
	assert.Equal(t, "0%", FormatRate(0))
}

func TestFormatDateAndTime(t *testing.T) {
	ns := time.Date(2023, 12, 31, 23, 59, 59, 999, time.UTC).UnixNano()

	assert.Equal(t, "31/12/2023", FormatDate(ns, time.UTC))
	assert.Equal(t, "23:59", FormatTime(ns, time.UTC))
	assert.Equal(t, "31/12/2023", FormatDate(ns, nil))

	tokyo := time.FixedZone("JST", 9*60*60)
	assert.Equal(t, "01/01/2024", FormatDate(ns, tokyo))
	assert.Equal(t, "08:59", FormatTime(ns, tokyo))
}

func TestResolveProfile(t *testing.T) {
	def := DefaultStoreProfile()

	assert.Equal(t, def, ResolveProfile(nil))

	got := ResolveProfile(&entity.StoreProfile{
		Name:  " Corner Shop ",
		Phone: "555",
		Email: "shop@example.com",
	})
	assert.Equal(t, "Corner Shop", got.Name)
	assert.Equal(t, def.Address, got.Address)
	assert.Equal(t, "555", got.Phone)
	assert.Equal(t, def.WhatsApp, got.WhatsApp)
	assert.Equal(t, "shop@example.com", got.Email)
	assert.Empty(t, got.TaxID)
	assert.Empty(t, got.Website)
}
