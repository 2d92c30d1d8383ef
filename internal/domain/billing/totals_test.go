package billing

import (
	"testing"

	"github.com/pahanabooks/console-api/internal/domain/enum"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func item(price string, qty int) LineItem {
	li := LineItem{UnitPrice: dec(price), Quantity: qty}
	li.recompute()
	return li
}

func TestCalculate_PercentageDiscountWithVAT(t *testing.T) {
	totals := Calculate(
		[]LineItem{item("1500", 2)},
		Discount{Kind: enum.DiscountPercentage, Value: dec("10")},
		Tax{Kind: enum.TaxVAT},
	)

	assert.True(t, totals.Subtotal.Equal(dec("3000")), totals.Subtotal.String())
	assert.True(t, totals.Discount.Equal(dec("300")), totals.Discount.String())
	assert.True(t, totals.Tax.Equal(dec("405")), totals.Tax.String())
	assert.True(t, totals.Total.Equal(dec("3105")), totals.Total.String())
	assert.Equal(t, "3105.00", totals.Display().Total)
}

func TestCalculate_EmptyItems(t *testing.T) {
	kinds := []Discount{
		{Kind: enum.DiscountNone},
		{Kind: enum.DiscountPercentage, Value: dec("25")},
	}
	for _, d := range kinds {
		totals := Calculate(nil, d, Tax{Kind: enum.TaxBoth})
		assert.True(t, totals.Subtotal.IsZero())
		assert.True(t, totals.Discount.IsZero())
		assert.True(t, totals.Tax.IsZero())
		assert.True(t, totals.Total.IsZero())
	}
}

func TestCalculate_TotalIdentityForEveryCombination(t *testing.T) {
	items := []LineItem{item("12.49", 3), item("0.99", 7), item("250", 1)}
	discounts := []Discount{
		{Kind: enum.DiscountNone, Value: dec("40")},
		{Kind: enum.DiscountPercentage, Value: dec("12.5")},
		{Kind: enum.DiscountAmount, Value: dec("17.33")},
	}
	taxes := []Tax{{Kind: enum.TaxNone}, {Kind: enum.TaxVAT}, {Kind: enum.TaxNBT}, {Kind: enum.TaxBoth}}

	expectedSubtotal := dec("12.49").Mul(dec("3")).Add(dec("0.99").Mul(dec("7"))).Add(dec("250"))

	for _, d := range discounts {
		for _, tx := range taxes {
			t.Run(d.Kind.String()+"/"+tx.Kind.String(), func(t *testing.T) {
				totals := Calculate(items, d, tx)
				require.True(t, totals.Subtotal.Equal(expectedSubtotal))
				want := totals.Subtotal.Sub(totals.Discount).Add(totals.Tax)
				assert.True(t, totals.Total.Equal(want), "total %s != %s", totals.Total, want)
				assert.False(t, totals.Discount.IsNegative())
				assert.False(t, totals.Tax.IsNegative())

				base := totals.Subtotal.Sub(totals.Discount)
				assert.True(t, totals.Tax.Equal(base.Mul(tx.Kind.Rate())))
			})
		}
	}
}

func TestCalculate_BothTaxIsFlatRate(t *testing.T) {
	totals := Calculate([]LineItem{item("100", 1)}, Discount{Kind: enum.DiscountNone}, Tax{Kind: enum.TaxBoth})

	assert.Equal(t, "17.00", Money(totals.Tax))
	assert.Equal(t, "117.00", Money(totals.Total))
}

func TestCalculate_NBTOnAmountDiscount(t *testing.T) {
	totals := Calculate([]LineItem{item("200", 2)}, Discount{Kind: enum.DiscountAmount, Value: dec("50")}, Tax{Kind: enum.TaxNBT})

	assert.Equal(t, "400.00", Money(totals.Subtotal))
	assert.Equal(t, "50.00", Money(totals.Discount))
	assert.Equal(t, "7.00", Money(totals.Tax))
	assert.Equal(t, "357.00", Money(totals.Total))
}

func TestCalculate_DiscountLargerThanSubtotal(t *testing.T) {
	totals := Calculate([]LineItem{item("10", 1)}, Discount{Kind: enum.DiscountAmount, Value: dec("25")}, Tax{Kind: enum.TaxVAT})

	assert.Equal(t, "25.00", Money(totals.Discount))
	assert.True(t, totals.Tax.IsZero())
	assert.Equal(t, "-15.00", Money(totals.Total))
}

func TestCalculate_SubtotalIsSumOfLines(t *testing.T) {
	items := []LineItem{item("3.10", 4), item("7.25", 2), item("0", 9)}
	totals := Calculate(items, Discount{}, Tax{})

	sum := decimal.Zero
	for _, li := range items {
		sum = sum.Add(li.Subtotal)
	}
	assert.True(t, totals.Subtotal.Equal(sum))
	assert.True(t, totals.Total.Equal(sum))
}

func TestDiscountValidate(t *testing.T) {
	require.NoError(t, Discount{Kind: enum.DiscountAmount, Value: dec("5")}.Validate())
	require.NoError(t, Discount{}.Validate())
	assert.Error(t, Discount{Kind: enum.DiscountAmount, Value: dec("-1")}.Validate())
	assert.Error(t, Discount{Kind: enum.DiscountPercentage, Value: dec("101")}.Validate())
	assert.Error(t, Discount{Kind: enum.DiscountKind("coupon")}.Validate())
	assert.Error(t, Tax{Kind: enum.TaxKind("gst")}.Validate())
}
