// Package catalog holds the Near-Earth-Object close-approach records and the
// keyed store they live in. Records are keyed by their raw close-approach
// date string, which may carry a time of day and a ± uncertainty suffix.
package catalog

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the calendar-date part of a close-approach timestamp.
const DateLayout = "2006-Jan-02"

// TimestampLayout is a cleaned close-approach timestamp with time of day.
const TimestampLayout = "2006-Jan-02 15:04"

// Record is one close-approach entry. Field values are kept as the raw
// strings from the source catalog; numeric accessors parse on demand.
type Record struct {
	Object            string `json:"Object"`
	CloseApproachDate string `json:"Close-Approach (CA) Date"`
	DistanceNominalAU string `json:"CA DistanceNominal (au)"`
	DistanceMinimumAU string `json:"CA DistanceMinimum (au)"`
	VRelativeKmS      string `json:"V relative(km/s)"`
	VInfinityKmS      string `json:"V infinity(km/s)"`
	HMag              string `json:"H(mag)"`
	Diameter          string `json:"Diameter"`
	Rarity            string `json:"Rarity"`
	MinDiameter       string `json:"Minimum Diameter"`
	MaxDiameter       string `json:"Maximum Diameter"`
}

// CleanDate strips the ± uncertainty suffix and the time of day from a raw
// close-approach timestamp, leaving only the YYYY-Mon-DD date.
func CleanDate(raw string) string {
	if raw == "" {
		return ""
	}

	if i := strings.Index(raw, "±"); i >= 0 {
		raw = strings.TrimSpace(raw[:i])
	}

	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return strings.TrimSpace(raw)
	}
	return fields[0]
}

// CleanTimestamp strips the uncertainty suffix but keeps the time of day.
func CleanTimestamp(raw string) string {
	if i := strings.Index(raw, "±"); i >= 0 {
		raw = raw[:i]
	}
	// Some exports escape the uncertainty separator instead.
	if i := strings.Index(raw, `\`); i >= 0 {
		raw = raw[:i]
	}
	return strings.TrimSpace(raw)
}

// ParseDate parses a cleaned YYYY-Mon-DD date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("unrecognized date format: %q", s)
	}
	return t, nil
}

// ApproachDate returns the record's close-approach calendar date.
func (r *Record) ApproachDate() (time.Time, error) {
	return ParseDate(CleanDate(r.CloseApproachDate))
}

// RelativeVelocity returns the relative velocity in km/s. A missing value
// parses as zero; a malformed value is an error.
func (r *Record) RelativeVelocity() (float64, error) {
	return parseFloatField(r.VRelativeKmS)
}

// Distance returns the nominal close-approach distance in AU, falling back
// to the minimum distance when the nominal value is absent.
func (r *Record) Distance() (float64, error) {
	if strings.TrimSpace(r.DistanceNominalAU) != "" {
		return parseFloatField(r.DistanceNominalAU)
	}
	return parseFloatField(r.DistanceMinimumAU)
}

// Magnitude returns the absolute magnitude H.
func (r *Record) Magnitude() (float64, error) {
	return parseFloatField(r.HMag)
}

// RarityScore returns the rarity value.
func (r *Record) RarityScore() (float64, error) {
	return parseFloatField(r.Rarity)
}

func parseFloatField(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed numeric field %q", s)
	}
	return v, nil
}
