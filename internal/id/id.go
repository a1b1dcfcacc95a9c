package id

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	dateLayout   = "20060102"
	invalidDate  = "invalid"
	maxPrefixLen = 10
)

// ExpenseKey returns a key like "20230102_STARBUCKS_4.50".
// A zero date is rendered as "invalid".
func ExpenseKey(date time.Time, description string, amount decimal.Decimal) string {
	day := invalidDate
	if !date.IsZero() {
		day = date.Format(dateLayout)
	}
	return fmt.Sprintf("%s_%s_%s", day, descPrefix(description), amount.StringFixed(2))
}

// descPrefix keeps the first few alphanumerics of a description.
func descPrefix(desc string) string {
	prefix := strings.Map(func(r rune) rune {
		if r >= 'A' && r <= 'Z' || r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, desc)
	if len(prefix) > maxPrefixLen {
		prefix = prefix[:maxPrefixLen]
	}
	return strings.ToUpper(prefix)
}

// Dedupe suffixes repeated keys with "-2", "-3", ... in order of appearance.
// The first occurrence keeps its key unchanged.
func Dedupe(keys []string) []string {
	out := make([]string, len(keys))
	seen := make(map[string]int, len(keys))
	taken := make(map[string]bool, len(keys))
	for _, k := range keys {
		taken[k] = true
	}
	for i, k := range keys {
		seen[k]++
		if seen[k] == 1 {
			out[i] = k
			continue
		}
		n := seen[k]
		candidate := fmt.Sprintf("%s-%d", k, n)
		// A generated suffix must not collide with a literal key in the set.
		for taken[candidate] {
			n++
			candidate = fmt.Sprintf("%s-%d", k, n)
		}
		seen[k] = n
		taken[candidate] = true
		out[i] = candidate
	}
	return out
}

// ParseExpenseKey splits "20230102_STARBUCKS_4.50-2" into its parts.
// seq is 1 for keys without a suffix.
func ParseExpenseKey(key string) (date time.Time, prefix string, amount decimal.Decimal, seq int, err error) {
	base, seq := key, 1
	if i := strings.LastIndexByte(key, '-'); i >= 0 {
		seq, err = strconv.Atoi(key[i+1:])
		if err != nil {
			return time.Time{}, "", decimal.Zero, 0, fmt.Errorf("invalid sequence in expense key %q: %w", key, err)
		}
		base = key[:i]
	}

	parts := strings.SplitN(base, "_", 3)
	if len(parts) != 3 {
		return time.Time{}, "", decimal.Zero, 0, fmt.Errorf("invalid expense key format: %q", key)
	}

	if parts[0] != invalidDate {
		date, err = time.Parse(dateLayout, parts[0])
		if err != nil {
			return time.Time{}, "", decimal.Zero, 0, fmt.Errorf("invalid date in expense key %q: %w", key, err)
		}
	}

	amount, err = decimal.NewFromString(parts[2])
	if err != nil {
		return time.Time{}, "", decimal.Zero, 0, fmt.Errorf("invalid amount in expense key %q: %w", key, err)
	}

	return date, parts[1], amount, seq, nil
}
