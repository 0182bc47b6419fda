// Package timezone parses the timestamp formats upstream providers emit.
// Offset-less values are interpreted in a caller-supplied location.
package timezone

import (
	"strings"
	"time"
)

var zonedFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05-0700", // Without colon
}

var naiveFormats = []string{
	"2006-01-02T15:04:05.9999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseTime accepts RFC3339 and the common ISO-8601 variants without an
// offset. A nil loc means UTC.
func ParseTime(value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	if loc == nil {
		loc = time.UTC
	}

	for _, format := range zonedFormats {
		if t, err := time.Parse(format, value); err == nil {
			return t, nil
		}
	}

	for _, format := range naiveFormats {
		if t, err := time.ParseInLocation(format, value, loc); err == nil {
			return t, nil
		}
	}

	return time.Time{}, &time.ParseError{
		Value:   value,
		Message: "unable to parse time string",
	}
}

// LoadLocation resolves an IANA name or a fixed "UTC+N" offset, falling
// back to UTC.
func LoadLocation(name string) *time.Location {
	name = strings.TrimSpace(name)
	upper := strings.ToUpper(name)
	switch {
	case name == "", upper == "UTC", upper == "Z":
		return time.UTC
	case strings.HasPrefix(upper, "UTC+"), strings.HasPrefix(upper, "UTC-"):
		if d, err := time.ParseDuration(strings.TrimPrefix(upper, "UTC") + "h"); err == nil {
			return time.FixedZone(upper, int(d.Seconds()))
		}
	default:
		if loc, err := time.LoadLocation(name); err == nil {
			return loc
		}
	}
	return time.UTC
}
