package enum

import (
	"encoding/json"
	"strings"
)

// BillStatus represents the lifecycle state of a persisted bill
type BillStatus string

const (
	BillStatusPending BillStatus = "PENDING"
	BillStatusSaved   BillStatus = "SAVED"
	BillStatusPaid    BillStatus = "PAID"
	BillStatusFailed  BillStatus = "FAILED"
)

func (s BillStatus) String() string {
	return string(s)
}

// IsValid reports whether s is a known bill status
func (s BillStatus) IsValid() bool {
	switch s {
	case BillStatusPending, BillStatusSaved, BillStatusPaid, BillStatusFailed:
		return true
	}
	return false
}

func (s BillStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(s))
}

func (s *BillStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	*s = BillStatus(strings.ToUpper(str))
	return nil
}
