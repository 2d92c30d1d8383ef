package enum

import (
	"encoding/json"
	"strings"
)

// DiscountKind represents how a bill discount is applied
type DiscountKind string

const (
	DiscountNone       DiscountKind = "none"
	DiscountPercentage DiscountKind = "percentage"
	DiscountAmount     DiscountKind = "amount"
)

func (k DiscountKind) String() string {
	if k == "" {
		return string(DiscountNone)
	}
	return string(k)
}

// IsValid reports whether k is a known discount kind
func (k DiscountKind) IsValid() bool {
	switch k {
	case "", DiscountNone, DiscountPercentage, DiscountAmount:
		return true
	}
	return false
}

func (k DiscountKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

func (k *DiscountKind) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	*k = ParseDiscountKind(str)
	return nil
}

// ParseDiscountKind normalises form input; unknown values are kept as-is so
// validation can reject them.
func ParseDiscountKind(s string) DiscountKind {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return DiscountNone
	}
	return DiscountKind(s)
}
