package request

import (
	"errors"
	"net/http"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/pahanabooks/console-api/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newValidator(t *testing.T) *validator.Validate {
	t.Helper()
	v := validator.New()
	v.SetTagName("binding")
	require.NoError(t, registerRules(v))
	return v
}

func TestFieldName(t *testing.T) {
	cases := map[string]string{
		"BookID":        "book_id",
		"ID":            "id",
		"AccountNumber": "account_number",
		"Quantity":      "quantity",
	}
	for in, want := range cases {
		assert.Equal(t, want, fieldName(in), in)
	}
}

func TestAdjustmentRules(t *testing.T) {
	v := newValidator(t)

	assert.NoError(t, v.Struct(AdjustmentsRequest{DiscountType: "percentage", DiscountValue: 10, TaxType: "vat"}))
	assert.NoError(t, v.Struct(AdjustmentsRequest{}))

	err := v.Struct(AdjustmentsRequest{DiscountType: "coupon", TaxType: "gst"})
	require.Error(t, err)

	appErr := apperror.GetAppError(BindingError(err))
	assert.Equal(t, http.StatusUnprocessableEntity, appErr.Code)
	require.Len(t, appErr.Errors, 2)
	assert.Equal(t, "discount_type", appErr.Errors[0].Field)
	assert.Equal(t, "discount type must be none, percentage or amount", appErr.Errors[0].Message)
	assert.Equal(t, "tax_type", appErr.Errors[1].Field)
}

func TestAddItemRequiresPositiveQuantity(t *testing.T) {
	v := newValidator(t)

	err := v.Struct(AddItemRequest{BookID: "b1", Quantity: -2})
	require.Error(t, err)

	appErr := apperror.GetAppError(BindingError(err))
	require.Len(t, appErr.Errors, 1)
	assert.Equal(t, "quantity", appErr.Errors[0].Field)
	assert.Equal(t, "quantity must be greater than 0", appErr.Errors[0].Message)
}

func TestOrderStatusRule(t *testing.T) {
	v := newValidator(t)

	assert.NoError(t, v.Struct(OrderStatusRequest{Status: "confirmed"}))
	assert.Error(t, v.Struct(OrderStatusRequest{Status: "SHIPPED"}))
}

func TestBindingErrorForMalformedBody(t *testing.T) {
	appErr := apperror.GetAppError(BindingError(errors.New("unexpected EOF")))
	assert.Equal(t, http.StatusBadRequest, appErr.Code)
	assert.Equal(t, "Invalid request body", appErr.Message)
}
