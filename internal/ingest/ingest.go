// Package ingest loads the JPL close-approach CSV into the catalog store and
// derives the minimum/maximum diameter columns from the raw diameter field.
package ingest

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/avelarq/neo-tracker/internal/catalog"
)

// Ingestor reads the catalog CSV and writes records into the catalog store.
type Ingestor struct {
	store   catalog.Store
	csvPath string
	logger  *slog.Logger
}

// NewIngestor creates an Ingestor for the configured CSV path.
func NewIngestor(store catalog.Store, csvPath string, logger *slog.Logger) *Ingestor {
	return &Ingestor{
		store:   store,
		csvPath: csvPath,
		logger:  logger,
	}
}

// LoadCSV parses the configured CSV and stores every row keyed by its raw
// close-approach date. It returns the number of records stored. A row that
// cannot be stored fails the load; malformed diameter cells only leave the
// derived bounds empty.
func (i *Ingestor) LoadCSV(ctx context.Context) (int, error) {
	f, err := os.Open(i.csvPath)
	if err != nil {
		return 0, fmt.Errorf("failed to open catalog csv: %w", err)
	}
	defer f.Close()

	count, err := i.load(ctx, f)
	if err != nil {
		return count, err
	}

	i.logger.Info("Catalog loaded",
		slog.String("path", i.csvPath),
		slog.Int("records", count),
	)

	return count, nil
}

func (i *Ingestor) load(ctx context.Context, r io.Reader) (int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return 0, fmt.Errorf("failed to read csv header: %w", err)
	}

	col := make(map[string]int, len(header))
	for idx, name := range header {
		col[strings.TrimSpace(name)] = idx
	}

	if _, ok := col["Close-Approach (CA) Date"]; !ok {
		return 0, fmt.Errorf("csv header missing Close-Approach (CA) Date column")
	}

	field := func(row []string, name string) string {
		idx, ok := col[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	count := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return count, fmt.Errorf("failed to read csv row: %w", err)
		}

		diameter := field(row, "Diameter")
		minDiam, maxDiam := DiameterBounds(diameter)

		record := &catalog.Record{
			Object:            field(row, "Object"),
			CloseApproachDate: field(row, "Close-Approach (CA) Date"),
			DistanceNominalAU: field(row, "CA DistanceNominal (au)"),
			DistanceMinimumAU: field(row, "CA DistanceMinimum (au)"),
			VRelativeKmS:      field(row, "V relative(km/s)"),
			VInfinityKmS:      field(row, "V infinity(km/s)"),
			HMag:              field(row, "H(mag)"),
			Diameter:          diameter,
			Rarity:            field(row, "Rarity"),
			MinDiameter:       minDiam,
			MaxDiameter:       maxDiam,
		}

		if record.CloseApproachDate == "" {
			i.logger.Warn("Skipping csv row without close-approach date")
			continue
		}

		if err := i.store.Put(ctx, record.CloseApproachDate, record); err != nil {
			return count, fmt.Errorf("failed to store record %q: %w", record.CloseApproachDate, err)
		}
		count++
	}

	return count, nil
}

// DiameterBounds derives the minimum and maximum diameter from a raw
// diameter cell. The cell is either "base ± offset unit" or a plain range
// like "310 m - 680 m"; anything unparseable yields empty bounds.
func DiameterBounds(raw string) (min, max string) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ""
	}

	if strings.Contains(raw, "±") {
		parts := strings.SplitN(raw, "±", 2)
		base, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		if err != nil {
			return "", ""
		}
		offsetFields := strings.Fields(parts[1])
		if len(offsetFields) == 0 {
			return "", ""
		}
		offset, err := strconv.ParseFloat(offsetFields[0], 64)
		if err != nil {
			return "", ""
		}
		return formatDiameter(base - offset), formatDiameter(base + offset)
	}

	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return "", ""
	}
	min = fields[0]
	if len(fields) >= 2 {
		max = fields[len(fields)-2]
	}
	return min, max
}

func formatDiameter(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
