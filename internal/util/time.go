package util

import (
	"fmt"
	"strconv"
	"time"
)

var timestampLayouts = []string{time.RFC3339Nano, time.RFC3339}

// ParseTimeFlexible accepts the timestamp formats the stats endpoints take:
// RFC3339 (with or without sub-second precision) or epoch milliseconds.
// The result is always normalized to UTC.
func ParseTimeFlexible(value string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	if ms, err := strconv.ParseInt(value, 10, 64); err == nil {
		return time.UnixMilli(ms).UTC(), nil
	}
	return time.Time{}, fmt.Errorf("invalid time format: %s", value)
}
