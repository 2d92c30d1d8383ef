package utils

import (
	"strings"

	"github.com/google/uuid"
)

// ShortID returns an upper-case eight character reference, used for
// notification ids and export file names.
func ShortID(prefix string) string {
	id := strings.ToUpper(uuid.New().String()[:8])
	if prefix == "" {
		return id
	}
	return prefix + "-" + id
}
