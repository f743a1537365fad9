package worker

import (
	"context"
	"log/slog"
	"time"
)

// Series is the numeric data extracted from the catalog for one job. Slices
// are parallel: index i across all of them describes the same record.
type Series struct {
	Distances  []float64
	Velocities []float64
	Magnitudes []float64
	Rarities   []float64
	Days       []int
}

// Len returns the number of usable records in the series.
func (s *Series) Len() int { return len(s.Velocities) }

// buildSeries scans the full catalog and collects the numeric fields of
// every record whose close approach falls inside [start, end] inclusive.
// Individual records that fail to fetch or parse are skipped; one corrupt
// record never fails the batch. A store error, by contrast, is fatal.
func (w *Worker) buildSeries(ctx context.Context, start, end time.Time) (*Series, error) {
	keys, err := w.catalog.Keys(ctx)
	if err != nil {
		return nil, err
	}

	series := &Series{}
	for _, key := range keys {
		record, err := w.catalog.Get(ctx, key)
		if err != nil {
			w.logger.Warn("Skipping unreadable record",
				slog.String("key", key),
				slog.String("error", err.Error()),
			)
			continue
		}

		approach, err := record.ApproachDate()
		if err != nil {
			w.logger.Warn("Skipping record with unparseable date",
				slog.String("key", key),
				slog.String("error", err.Error()),
			)
			continue
		}

		if approach.Before(start) || approach.After(end) {
			continue
		}

		velocity, err := record.RelativeVelocity()
		if err != nil {
			w.logger.Warn("Skipping record with invalid velocity", slog.String("key", key))
			continue
		}
		distance, err := record.Distance()
		if err != nil {
			w.logger.Warn("Skipping record with invalid distance", slog.String("key", key))
			continue
		}
		magnitude, err := record.Magnitude()
		if err != nil {
			w.logger.Warn("Skipping record with invalid magnitude", slog.String("key", key))
			continue
		}
		rarity, err := record.RarityScore()
		if err != nil {
			w.logger.Warn("Skipping record with invalid rarity", slog.String("key", key))
			continue
		}

		series.Velocities = append(series.Velocities, velocity)
		series.Distances = append(series.Distances, distance)
		series.Magnitudes = append(series.Magnitudes, magnitude)
		series.Rarities = append(series.Rarities, rarity)
		series.Days = append(series.Days, approach.Day())
	}

	return series, nil
}
