package catalog

import (
	"context"
	"sort"
	"strings"
	"time"
)

// Query helpers for the read-only catalog routes. A record that cannot be
// fetched or parsed is skipped, never fatal, matching the job scan semantics.

// All returns every record keyed by its close-approach date string.
func All(ctx context.Context, s Store) (map[string]*Record, error) {
	keys, err := s.Keys(ctx)
	if err != nil {
		return nil, err
	}

	out := make(map[string]*Record, len(keys))
	for _, key := range keys {
		record, err := s.Get(ctx, key)
		if err != nil {
			continue
		}
		out[key] = record
	}
	return out, nil
}

// ByYear returns the records whose close approach falls in the given year.
// Keys lead with the year, so this is a prefix match on the key.
func ByYear(ctx context.Context, s Store, year string) (map[string]*Record, error) {
	all, err := All(ctx, s)
	if err != nil {
		return nil, err
	}

	out := make(map[string]*Record)
	for key, record := range all {
		if strings.SplitN(key, "-", 2)[0] == year {
			out[key] = record
		}
	}
	return out, nil
}

// DistanceEntry is one row of a distance query result.
type DistanceEntry struct {
	Date       string  `json:"date"`
	Object     string  `json:"object"`
	DistanceAU float64 `json:"distance_au"`
}

// ByDistance returns close-approach distances within the optional [min, max]
// bounds in AU. A nil bound is unconstrained.
func ByDistance(ctx context.Context, s Store, min, max *float64) ([]DistanceEntry, error) {
	all, err := All(ctx, s)
	if err != nil {
		return nil, err
	}

	out := make([]DistanceEntry, 0)
	for key, record := range all {
		distance, err := record.Distance()
		if err != nil {
			continue
		}
		if min != nil && distance < *min {
			continue
		}
		if max != nil && distance > *max {
			continue
		}
		object := record.Object
		if object == "" {
			object = "Unknown"
		}
		out = append(out, DistanceEntry{Date: key, Object: object, DistanceAU: distance})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

// ByVelocity returns the records whose relative velocity falls within
// [min, max] km/s.
func ByVelocity(ctx context.Context, s Store, min, max float64) (map[string]*Record, error) {
	all, err := All(ctx, s)
	if err != nil {
		return nil, err
	}

	out := make(map[string]*Record)
	for key, record := range all {
		velocity, err := record.RelativeVelocity()
		if err != nil {
			continue
		}
		if min <= velocity && velocity <= max {
			out[key] = record
		}
	}
	return out, nil
}

// ByMaxDiameter returns the records whose maximum diameter does not exceed
// the bound. Records without a parseable diameter are skipped.
func ByMaxDiameter(ctx context.Context, s Store, bound float64) (map[string]*Record, error) {
	all, err := All(ctx, s)
	if err != nil {
		return nil, err
	}

	out := make(map[string]*Record)
	for key, record := range all {
		diameter, err := parseFloatField(record.MaxDiameter)
		if err != nil || strings.TrimSpace(record.MaxDiameter) == "" {
			continue
		}
		if diameter <= bound {
			out[key] = record
		}
	}
	return out, nil
}

// Brightest returns up to n records ordered by absolute magnitude ascending;
// lower H means a larger object.
func Brightest(ctx context.Context, s Store, n int) ([]map[string]*Record, error) {
	all, err := All(ctx, s)
	if err != nil {
		return nil, err
	}

	type scored struct {
		key string
		mag float64
		rec *Record
	}

	ranked := make([]scored, 0, len(all))
	for key, record := range all {
		mag, err := record.Magnitude()
		if err != nil {
			continue
		}
		ranked = append(ranked, scored{key: key, mag: mag, rec: record})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].mag != ranked[j].mag {
			return ranked[i].mag < ranked[j].mag
		}
		return ranked[i].key < ranked[j].key
	})

	if n > len(ranked) {
		n = len(ranked)
	}
	out := make([]map[string]*Record, 0, n)
	for _, entry := range ranked[:n] {
		out = append(out, map[string]*Record{entry.key: entry.rec})
	}
	return out, nil
}

// Upcoming returns up to n records whose close approach is at or after now,
// soonest first.
func Upcoming(ctx context.Context, s Store, now time.Time, n int) (map[string]*Record, error) {
	all, err := All(ctx, s)
	if err != nil {
		return nil, err
	}

	type timed struct {
		key string
		at  time.Time
		rec *Record
	}

	future := make([]timed, 0)
	for key, record := range all {
		cleaned := CleanTimestamp(key)
		at, err := time.Parse(TimestampLayout, cleaned)
		if err != nil {
			continue
		}
		if !at.Before(now) {
			future = append(future, timed{key: cleaned, at: at, rec: record})
		}
	}

	sort.Slice(future, func(i, j int) bool { return future[i].at.Before(future[j].at) })

	if n > len(future) {
		n = len(future)
	}
	out := make(map[string]*Record, n)
	for _, entry := range future[:n] {
		out[entry.key] = entry.rec
	}
	return out, nil
}
