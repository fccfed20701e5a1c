package parse

import (
	"fmt"
	"regexp"
	"time"
)

// Transaction-table dates print as a month abbreviation and a two-digit
// day, usually fused ("Jul07") but occasionally split by the text layer
// ("Jul 07"). The year never prints; it is attributed from the billing
// period.
var (
	fusedDatePattern = regexp.MustCompile(`^(Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)(\d{2})$`)
	monthPattern     = regexp.MustCompile(`^(Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)$`)
	dayPattern       = regexp.MustCompile(`^\d{2}$`)
)

// takeDateToken reads one transaction date starting at tokens[i]. It
// accepts the fused one-token form and the split two-token form, returning
// the raw month/day text and the index of the first unconsumed token.
func takeDateToken(tokens []string, i int) (monthDay string, next int, ok bool) {
	if i >= len(tokens) {
		return "", i, false
	}
	if m := fusedDatePattern.FindStringSubmatch(tokens[i]); m != nil {
		return m[1] + " " + m[2], i + 1, true
	}
	if i+1 < len(tokens) && monthPattern.MatchString(tokens[i]) && dayPattern.MatchString(tokens[i+1]) {
		return tokens[i] + " " + tokens[i+1], i + 2, true
	}
	return "", i, false
}

// resolveDate turns a "Jan 02"-style month/day into a calendar date using
// the billing period to attribute the year. Statements ending in December
// post January activity into the next year; statements ending in January
// carry December activity from the prior year.
func resolveDate(monthDay string, billingEnd time.Time) (time.Time, error) {
	parsed, err := time.Parse("Jan 02", monthDay)
	if err != nil {
		return time.Time{}, fmt.Errorf("cannot parse transaction date %q: %w", monthDay, err)
	}

	year := billingEnd.Year()
	switch {
	case billingEnd.Month() == time.December && parsed.Month() == time.January:
		year++
	case billingEnd.Month() == time.January && parsed.Month() == time.December:
		year--
	}

	return time.Date(year, parsed.Month(), parsed.Day(), 0, 0, 0, 0, time.UTC), nil
}

// parseBillingDate parses a header billing-period date ("July 15, 2024").
func parseBillingDate(raw string) (time.Time, error) {
	t, err := time.Parse("January 2, 2006", raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("cannot parse billing date %q: %w", raw, err)
	}
	return t.UTC(), nil
}
