package receipt

import (
	"strings"

	"github.com/sangkips/investify-receipts/internal/domain/entity"
)

// DefaultStoreProfile returns the built-in store identity used until a
// store profile has been configured.
func DefaultStoreProfile() entity.StoreProfile {
	return entity.StoreProfile{
		Name:     "Investify Store",
		Address:  "Calle Mayor 1, 28013 Madrid",
		Phone:    "+34 910 000 000",
		WhatsApp: "+34 600 000 000",
		TaxID:    "B00000000",
		Email:    "hello@investify.store",
		Website:  "www.investify.store",
	}
}

// ResolveProfile returns the profile to print. A nil profile yields the
// default profile. Missing identity fields (name, address, phone, WhatsApp)
// are taken from the default; missing optional fields stay empty.
func ResolveProfile(p *entity.StoreProfile) entity.StoreProfile {
	def := DefaultStoreProfile()
	if p == nil {
		return def
	}

	out := entity.StoreProfile{
		Name:     orDefault(p.Name, def.Name),
		Address:  orDefault(p.Address, def.Address),
		Phone:    orDefault(p.Phone, def.Phone),
		WhatsApp: orDefault(p.WhatsApp, def.WhatsApp),
		TaxID:    strings.TrimSpace(p.TaxID),
		Email:    strings.TrimSpace(p.Email),
		Website:  strings.TrimSpace(p.Website),
	}
	return out
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return strings.TrimSpace(v)
}
