package enum

import (
	"encoding/json"
	"strings"
)

// PaymentMethod represents how a bill is settled
type PaymentMethod string

const (
	PaymentCash         PaymentMethod = "CASH"
	PaymentCard         PaymentMethod = "CARD"
	PaymentUPI          PaymentMethod = "UPI"
	PaymentBankTransfer PaymentMethod = "BANK_TRANSFER"
)

func (m PaymentMethod) String() string {
	return string(m)
}

// IsValid reports whether m is an accepted payment method
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentCash, PaymentCard, PaymentUPI, PaymentBankTransfer:
		return true
	}
	return false
}

// Label returns a human readable name
func (m PaymentMethod) Label() string {
	switch m {
	case PaymentCash:
		return "Cash"
	case PaymentCard:
		return "Card"
	case PaymentUPI:
		return "UPI"
	case PaymentBankTransfer:
		return "Bank Transfer"
	case "":
		return "N/A"
	default:
		return string(m)
	}
}

func (m *PaymentMethod) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	*m = PaymentMethod(strings.ToUpper(strings.TrimSpace(str)))
	return nil
}
