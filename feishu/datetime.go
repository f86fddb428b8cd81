package feishu

import (
	"strings"
	"time"
)

// Numeric date values below this threshold are treated as seconds and scaled
// to milliseconds.
const millisThreshold = 1e12

// Layouts tried in order when coercing a date string; first match wins.
var dateLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
	"2006/01/02 15:04:05",
	"2006/01/02",
	"2006年01月02日 15:04:05",
	"2006年01月02日",
}

// toEpochMillis normalizes a date-typed field value to epoch milliseconds.
// Accepted inputs: millisecond or second integers/floats, date strings tried
// against the ordered layout list, the "now" sentinel and native time.Time
// values. The second return is false when the value cannot be interpreted.
func toEpochMillis(value any, now func() time.Time) (int64, bool) {
	switch v := value.(type) {
	case time.Time:
		return v.UnixMilli(), true
	case int:
		return scaleToMillis(float64(v)), true
	case int32:
		return scaleToMillis(float64(v)), true
	case int64:
		return scaleToMillis(float64(v)), true
	case float32:
		return scaleToMillis(float64(v)), true
	case float64:
		return scaleToMillis(v), true
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return 0, false
		}
		if strings.EqualFold(s, "now") {
			return now().UnixMilli(), true
		}
		for _, layout := range dateLayouts {
			if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
				return t.UnixMilli(), true
			}
		}
		return 0, false
	default:
		return 0, false
	}
}

func scaleToMillis(n float64) int64 {
	if n < millisThreshold {
		return int64(n * 1000)
	}
	return int64(n)
}
