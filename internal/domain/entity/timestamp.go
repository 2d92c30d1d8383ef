package entity

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Timestamp is a point in time as reported by the bookshop backend. The
// backend emits local date-times either as ISO strings (with or without a
// zone) or as Jackson-style arrays [y, m, d, h, min, s, nanos]. Values
// without a zone are read as UTC. Values in any other shape decode as the
// zero time so a single odd record does not fail a whole collection.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// NewTimestamp wraps t
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t}
}

// ParseTimestamp parses the textual forms the backend emits
func ParseTimestamp(s string) (Timestamp, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Timestamp{Time: t}, nil
		}
	}
	return Timestamp{}, fmt.Errorf("unrecognised timestamp %q", s)
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*t = Timestamp{}
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" {
			*t = Timestamp{}
			return nil
		}
		parsed, err := ParseTimestamp(s)
		if err != nil {
			*t = Timestamp{}
			return nil
		}
		*t = parsed
		return nil
	case '[':
		var parts []int
		if err := json.Unmarshal(data, &parts); err != nil || len(parts) == 0 {
			*t = Timestamp{}
			return nil
		}
		for len(parts) < 7 {
			parts = append(parts, 0)
		}
		if parts[1] == 0 {
			parts[1] = 1
		}
		if parts[2] == 0 {
			parts[2] = 1
		}
		*t = Timestamp{Time: time.Date(parts[0], time.Month(parts[1]), parts[2], parts[3], parts[4], parts[5], parts[6], time.UTC)}
		return nil
	default:
		var millis int64
		if err := json.Unmarshal(data, &millis); err != nil {
			*t = Timestamp{}
			return nil
		}
		*t = Timestamp{Time: time.UnixMilli(millis).UTC()}
		return nil
	}
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.UTC().Format(time.RFC3339))
}

// DateKey returns the UTC calendar date as YYYY-MM-DD
func (t Timestamp) DateKey() string {
	return t.UTC().Format("2006-01-02")
}
