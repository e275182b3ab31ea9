package domain

import (
	"strconv"
	"strings"
	"time"
)

// serverTimeLayouts lists the timestamp formats the service has been observed
// to emit, most specific first.
var serverTimeLayouts = []string{
	"2006-01-02T15:04:05.000Z0700",
	time.RFC3339Nano,
	time.RFC3339,
}

// ParseServerTime parses a timestamp string from the service. ok is false
// when no known layout matches; callers keep the raw string for display
// instead of treating this as an error.
func ParseServerTime(s string) (time.Time, bool) {
	for _, layout := range serverTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// displayTime renders a server timestamp in a compact human-readable form,
// falling back to the raw string.
func displayTime(s string) string {
	t, ok := ParseServerTime(s)
	if !ok {
		return s
	}
	return t.Format("Jan 2, 2006 15:04")
}

// FormatRupiah renders a decimal price string the way the storefront shows
// prices, e.g. "Rp 1.250.000". Unparsable input is returned as-is.
func FormatRupiah(price string) string {
	v, err := strconv.ParseFloat(price, 64)
	if err != nil {
		return price
	}
	n := int64(v)
	neg := n < 0
	if neg {
		n = -n
	}
	digits := strconv.FormatInt(n, 10)

	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(digits[i : i+3])
	}

	if neg {
		return "Rp -" + b.String()
	}
	return "Rp " + b.String()
}
