package request

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/pahanabooks/console-api/internal/domain/enum"
	"github.com/pahanabooks/console-api/pkg/apperror"
)

// RegisterValidators adds the console's custom binding rules to gin's
// validator engine
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("unexpected validator engine")
	}
	return registerRules(v)
}

func registerRules(v *validator.Validate) error {
	rules := map[string]validator.Func{
		"discount_kind": func(fl validator.FieldLevel) bool {
			return enum.ParseDiscountKind(fl.Field().String()).IsValid()
		},
		"tax_kind": func(fl validator.FieldLevel) bool {
			return enum.ParseTaxKind(fl.Field().String()).IsValid()
		},
		"order_status": func(fl validator.FieldLevel) bool {
			return enum.OrderStatus(strings.ToUpper(strings.TrimSpace(fl.Field().String()))).IsValid()
		},
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return err
		}
	}
	return nil
}

// BindingError converts a binding failure into a field-level validation
// error when the validator produced one
func BindingError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperror.NewBadRequestError("Invalid request body")
	}

	fields := make([]apperror.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, apperror.FieldError{
			Field:   fieldName(fe.Field()),
			Message: fieldMessage(fe),
		})
	}
	return apperror.NewValidationError(fields)
}

func fieldMessage(fe validator.FieldError) string {
	name := fieldName(fe.Field())
	switch fe.Tag() {
	case "required":
		return name + " is required"
	case "email":
		return "Please enter a valid email address"
	case "min", "gte":
		return name + " must be at least " + fe.Param()
	case "max", "lte":
		return name + " must be at most " + fe.Param()
	case "gt":
		return name + " must be greater than " + fe.Param()
	case "discount_kind":
		return "discount type must be none, percentage or amount"
	case "tax_kind":
		return "tax type must be none, vat, nbt or both"
	case "order_status":
		return "status must be PENDING, CONFIRMED, COMPLETED or CANCELLED"
	case "oneof":
		return name + " must be one of: " + fe.Param()
	default:
		return name + " is invalid"
	}
}

// fieldName turns a Go field name into its snake_case JSON name
func fieldName(s string) string {
	var b strings.Builder
	prevLower := false
	for _, r := range s {
		if r >= 'A' && r <= 'Z' {
			if prevLower {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
			prevLower = false
		} else {
			prevLower = true
		}
		b.WriteRune(r)
	}
	return b.String()
}
