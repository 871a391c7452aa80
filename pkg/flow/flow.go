package flow

import (
	"regexp"
	"strconv"
	"strings"
)

// Sanity bounds for a daily flow in m3/day. Values outside this window are
// treated as extraction noise and discarded.
const (
	MinPlausible = 0.1
	MaxPlausible = 1_000_000
)

// Range is a min/max flow window in m3/day
type Range struct {
	Min float64
	Max float64
}

// Contains reports whether v falls inside the window (inclusive)
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

var (
	rangePattern  = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*[-–]\s*(\d+(?:,\d+)*(?:\.\d+)?)`)
	numberPattern = regexp.MustCompile(`\d+(?:,\d+)*(?:\.\d+)?`)
)

// ParseRange extracts a flow window from free text such as "500-2,000 m3/day"
// or "approximately 200 m3/day". A lone number becomes a +/-20% window.
// Unparseable input returns ok=false; it is never an error.
func ParseRange(s string) (Range, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Range{}, false
	}

	if m := rangePattern.FindStringSubmatch(s); m != nil {
		min, err1 := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
		max, err2 := strconv.ParseFloat(strings.ReplaceAll(m[2], ",", ""), 64)
		if err1 == nil && err2 == nil && min <= max {
			return Range{Min: min, Max: max}, true
		}
	}

	if m := numberPattern.FindString(s); m != "" {
		v, err := strconv.ParseFloat(strings.ReplaceAll(m, ",", ""), 64)
		if err == nil && v > 0 {
			return Range{Min: v * 0.8, Max: v * 1.2}, true
		}
	}

	return Range{}, false
}

// Normalize converts a flow value in the given unit to m3/day. Unknown units
// pass the value through unchanged on the assumption it is already daily.
func Normalize(value float64, unit string) float64 {
	switch canonicalUnit(unit) {
	case "l/s":
		return value * 86.4
	case "m3/h":
		return value * 24
	case "gpm":
		return value * 5.451
	case "mgd":
		return value * 3785.41
	default:
		return value
	}
}

// Plausible reports whether a daily flow passes the sanity gate
func Plausible(v float64) bool {
	return v >= MinPlausible && v <= MaxPlausible
}

func canonicalUnit(unit string) string {
	u := strings.ToLower(strings.TrimSpace(unit))
	u = strings.ReplaceAll(u, "³", "3")
	u = strings.ReplaceAll(u, " ", "")
	switch u {
	case "l/s", "lps", "liters/second", "litres/second":
		return "l/s"
	case "m3/h", "m3/hr", "m3/hour", "cmh":
		return "m3/h"
	case "gpm", "gal/min", "gallons/minute":
		return "gpm"
	case "mgd":
		return "mgd"
	case "m3/d", "m3/day", "cmd", "m3day":
		return "m3/day"
	}
	return u
}
