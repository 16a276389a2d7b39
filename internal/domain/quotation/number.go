package quotation

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const requestNumberPrefix = "QR"

var requestNumberPattern = regexp.MustCompile(`^QR-(\d{4})-(\d{4,})$`)

// FormatRequestNumber renders QR-YYYY-NNNN. Sequences above 9999 keep growing.
func FormatRequestNumber(year, seq int) string {
	return fmt.Sprintf("%s-%04d-%04d", requestNumberPrefix, year, seq)
}

// IsRequestNumber reports whether s is a well-formed request number
func IsRequestNumber(s string) bool {
	return requestNumberPattern.MatchString(s)
}

// ParseRequestNumber returns the year and sequence of a request number
func ParseRequestNumber(s string) (year, seq int, ok bool) {
	m := requestNumberPattern.FindStringSubmatch(strings.ToUpper(strings.TrimSpace(s)))
	if m == nil {
		return 0, 0, false
	}
	year, _ = strconv.Atoi(m[1])
	seq, err := strconv.Atoi(m[2])
	if err != nil {
		return 0, 0, false
	}
	return year, seq, true
}

// RequestNumberSequence hands out per-year sequence values. Values are never
// returned twice, including for requests that were later deleted.
type RequestNumberSequence interface {
	Next(ctx context.Context, year int) (int, error)
}
