package enum

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// TaxKind represents the tax category applied to a bill
type TaxKind string

const (
	TaxNone TaxKind = "none"
	TaxVAT  TaxKind = "vat"
	TaxNBT  TaxKind = "nbt"
	TaxBoth TaxKind = "both"
)

var taxRates = map[TaxKind]decimal.Decimal{
	TaxNone: decimal.Zero,
	TaxVAT:  decimal.RequireFromString("0.15"),
	TaxNBT:  decimal.RequireFromString("0.02"),
	// flat combined rate, not 15% then 2% compounded
	TaxBoth: decimal.RequireFromString("0.17"),
}

// Rate returns the fixed rate for the tax kind. Unknown kinds are untaxed.
func (k TaxKind) Rate() decimal.Decimal {
	if r, ok := taxRates[k]; ok {
		return r
	}
	return decimal.Zero
}

// Label returns the display label used on bills
func (k TaxKind) Label() string {
	switch k {
	case TaxVAT:
		return "VAT (15%)"
	case TaxNBT:
		return "NBT (2%)"
	case TaxBoth:
		return "VAT + NBT (17%)"
	default:
		return "No Tax"
	}
}

func (k TaxKind) String() string {
	if k == "" {
		return string(TaxNone)
	}
	return string(k)
}

// IsValid reports whether k is a known tax kind
func (k TaxKind) IsValid() bool {
	_, ok := taxRates[k]
	return ok || k == ""
}

func (k TaxKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

func (k *TaxKind) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	*k = ParseTaxKind(str)
	return nil
}

// ParseTaxKind normalises form input
func ParseTaxKind(s string) TaxKind {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return TaxNone
	}
	return TaxKind(s)
}
