package ingest

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avelarq/neo-tracker/internal/catalog"
)

func TestDiameterBounds(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantMin string
		wantMax string
	}{
		{
			name:    "empty cell",
			raw:     "",
			wantMin: "",
			wantMax: "",
		},
		{
			name:    "base with uncertainty",
			raw:     "50 ± 10 m",
			wantMin: "40",
			wantMax: "60",
		},
		{
			name:    "fractional base with uncertainty",
			raw:     "0.5 ± 0.1 km",
			wantMin: "0.4",
			wantMax: "0.6",
		},
		{
			name:    "plain range",
			raw:     "310 m - 680 m",
			wantMin: "310",
			wantMax: "680",
		},
		{
			name:    "single value",
			raw:     "310",
			wantMin: "310",
			wantMax: "",
		},
		{
			name:    "unparseable base",
			raw:     "large ± 10 m",
			wantMin: "",
			wantMax: "",
		},
		{
			name:    "unparseable offset",
			raw:     "50 ± big m",
			wantMin: "",
			wantMax: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			min, max := DiameterBounds(tt.raw)
			assert.Equal(t, tt.wantMin, min)
			assert.Equal(t, tt.wantMax, max)
		})
	}
}

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cad.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestIngestor_LoadCSV(t *testing.T) {
	ctx := context.Background()

	t.Run("loads rows keyed by raw approach date", func(t *testing.T) {
		csvData := `Object,Close-Approach (CA) Date,CA DistanceNominal (au),CA DistanceMinimum (au),V relative(km/s),V infinity(km/s),H(mag),Diameter,Rarity
(2019 YH2),2020-Jan-01 12:48 ± 00:01,0.0401,0.0400,10.5,10.4,24.1,50 ± 10 m,0
(2017 AE5),2020-Feb-10 03:15 ± 00:02,0.0120,0.0119,22.0,21.9,19.4,310 m - 680 m,2
`
		store := catalog.NewMemoryStore()
		ing := NewIngestor(store, writeCSV(t, csvData), slog.New(slog.DiscardHandler))

		count, err := ing.LoadCSV(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, count)

		record, err := store.Get(ctx, "2020-Jan-01 12:48 ± 00:01")
		require.NoError(t, err)
		assert.Equal(t, "(2019 YH2)", record.Object)
		assert.Equal(t, "0.0401", record.DistanceNominalAU)
		assert.Equal(t, "40", record.MinDiameter)
		assert.Equal(t, "60", record.MaxDiameter)

		record, err = store.Get(ctx, "2020-Feb-10 03:15 ± 00:02")
		require.NoError(t, err)
		assert.Equal(t, "310", record.MinDiameter)
		assert.Equal(t, "680", record.MaxDiameter)
	})

	t.Run("skips rows without an approach date", func(t *testing.T) {
		csvData := `Object,Close-Approach (CA) Date,H(mag)
(2019 YH2),2020-Jan-01 12:48 ± 00:01,24.1
(no date),,20.0
`
		store := catalog.NewMemoryStore()
		ing := NewIngestor(store, writeCSV(t, csvData), slog.New(slog.DiscardHandler))

		count, err := ing.LoadCSV(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, count)

		keys, err := store.Keys(ctx)
		require.NoError(t, err)
		assert.Len(t, keys, 1)
	})

	t.Run("tolerates missing optional columns", func(t *testing.T) {
		csvData := `Close-Approach (CA) Date
2020-Jan-01 12:48 ± 00:01
`
		store := catalog.NewMemoryStore()
		ing := NewIngestor(store, writeCSV(t, csvData), slog.New(slog.DiscardHandler))

		count, err := ing.LoadCSV(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, count)

		record, err := store.Get(ctx, "2020-Jan-01 12:48 ± 00:01")
		require.NoError(t, err)
		assert.Empty(t, record.Object)
		assert.Empty(t, record.HMag)
	})

	t.Run("rejects csv without the date column", func(t *testing.T) {
		csvData := `Object,H(mag)
(2019 YH2),24.1
`
		store := catalog.NewMemoryStore()
		ing := NewIngestor(store, writeCSV(t, csvData), slog.New(slog.DiscardHandler))

		_, err := ing.LoadCSV(ctx)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "missing Close-Approach (CA) Date column")
	})

	t.Run("missing file", func(t *testing.T) {
		store := catalog.NewMemoryStore()
		ing := NewIngestor(store, filepath.Join(t.TempDir(), "absent.csv"), slog.New(slog.DiscardHandler))

		_, err := ing.LoadCSV(ctx)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to open catalog csv")
	})
}
