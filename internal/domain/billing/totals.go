package billing

import (
	"github.com/pahanabooks/console-api/internal/domain/enum"
	"github.com/pahanabooks/console-api/pkg/apperror"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Discount is the discount selected on the bill form
type Discount struct {
	Kind  enum.DiscountKind `json:"kind"`
	Value decimal.Decimal   `json:"value"`
}

// Tax is the tax category selected on the bill form
type Tax struct {
	Kind enum.TaxKind `json:"kind"`
}

// Totals is derived from line items, discount and tax. It is never stored.
type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Discount decimal.Decimal `json:"discount"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
}

// Calculate computes bill totals. Tax applies to the discounted subtotal.
// The discount is not clamped, so an amount larger than the subtotal yields
// a negative total; tax on a negative base is zero.
func Calculate(items []LineItem, discount Discount, tax Tax) Totals {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	off := discountAmount(subtotal, discount)
	taxable := subtotal.Sub(off)
	taxAmount := decimal.Zero
	if taxable.IsPositive() {
		taxAmount = taxable.Mul(tax.Kind.Rate())
	}

	return Totals{
		Subtotal: subtotal,
		Discount: off,
		Tax:      taxAmount,
		Total:    taxable.Add(taxAmount),
	}
}

// Validate rejects unknown kinds and negative values
func (d Discount) Validate() error {
	if !d.Kind.IsValid() {
		return apperror.NewFieldError("discount_kind", "Unknown discount type")
	}
	if d.Value.IsNegative() {
		return apperror.NewFieldError("discount_value", "Discount cannot be negative")
	}
	if d.Kind == enum.DiscountPercentage && d.Value.GreaterThan(hundred) {
		return apperror.NewFieldError("discount_value", "Percentage discount cannot exceed 100")
	}
	return nil
}

// Validate rejects unknown tax kinds
func (t Tax) Validate() error {
	if !t.Kind.IsValid() {
		return apperror.NewFieldError("tax_kind", "Unknown tax type")
	}
	return nil
}

func discountAmount(subtotal decimal.Decimal, d Discount) decimal.Decimal {
	switch d.Kind {
	case enum.DiscountAmount:
		return d.Value
	case enum.DiscountPercentage:
		return subtotal.Mul(d.Value).Div(hundred)
	default:
		return decimal.Zero
	}
}

// Display is Totals rounded for presentation
type Display struct {
	Subtotal string `json:"subtotal"`
	Discount string `json:"discount"`
	Tax      string `json:"tax"`
	Total    string `json:"total"`
}

// Display rounds every figure to two decimal places
func (t Totals) Display() Display {
	return Display{
		Subtotal: Money(t.Subtotal),
		Discount: Money(t.Discount),
		Tax:      Money(t.Tax),
		Total:    Money(t.Total),
	}
}

// Money formats an amount with two decimal places
func Money(d decimal.Decimal) string {
	return d.StringFixed(2)
}
