package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/habitkit/habit-tracker-api/internal/constants"
)

// NormalizeDate validates a calendar date and returns it as YYYY-MM-DD.
// Timestamps such as 2024-01-01T00:00:00Z are truncated to their date part.
func NormalizeDate(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if len(raw) > len(constants.DateLayout) && raw[len(constants.DateLayout)] == 'T' {
		raw = raw[:len(constants.DateLayout)]
	}
	t, err := time.Parse(constants.DateLayout, raw)
	if err != nil {
		return "", fmt.Errorf("invalid date %q: expected YYYY-MM-DD", raw)
	}
	return t.Format(constants.DateLayout), nil
}
