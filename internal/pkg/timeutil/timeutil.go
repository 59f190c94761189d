// Package timeutil normalizes the free-form clock times and dates that come
// out of the scraped attendance pages.
package timeutil

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/Azure/go-autorest/autorest/date"
)

// slotDuration is the fixed length of one lesson slot in minutes.
const slotDuration = 50

var clockRe = regexp.MustCompile(`(\d{1,2}):(\d{1,2})`)

// Normalize extracts the first H:MM or HH:MM substring from raw and
// zero-pads it to HH:MM. Input without a clock time is returned trimmed but
// otherwise untouched; empty input stays empty. The scraper emits labels
// like "1605～" already converted to "16:05", but also raw cell text.
func Normalize(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}

	m := clockRe.FindStringSubmatch(s)
	if m == nil {
		return s
	}

	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])

	return fmt.Sprintf("%02d:%02d", hour, minute)
}

// DeriveEnd returns the slot end time for a start time: start plus 50
// minutes, wrapping past the hour and past midnight. Empty or unparseable
// input yields the empty string.
func DeriveEnd(start string) string {
	if strings.TrimSpace(start) == "" {
		return ""
	}

	m := clockRe.FindStringSubmatch(start)
	if m == nil {
		return ""
	}

	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])

	total := hour*60 + minute + slotDuration
	endHour := (total / 60) % 24
	endMinute := total % 60

	return fmt.Sprintf("%02d:%02d", endHour, endMinute)
}

// CanonicalDate brings a calendar date into YYYY-MM-DD form, accepting both
// "/" and "-" separators. Input that does not parse as a date is returned
// with separators canonicalized only, so comparisons stay stable either way.
func CanonicalDate(raw string) string {
	s := strings.ReplaceAll(strings.TrimSpace(raw), "/", "-")
	if s == "" {
		return ""
	}

	d, err := date.ParseDate(s)
	if err != nil {
		return s
	}

	return d.String()
}

// DisplayDate formats a calendar date the way the interactive path stores
// it: YYYY/MM/DD.
func DisplayDate(raw string) string {
	s := CanonicalDate(raw)
	return strings.ReplaceAll(s, "-", "/")
}
