package catalog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanDate(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "date with time and uncertainty",
			raw:  "2020-Jan-01 12:48 ± 00:01",
			want: "2020-Jan-01",
		},
		{
			name: "date with time only",
			raw:  "2020-Jan-01 12:48",
			want: "2020-Jan-01",
		},
		{
			name: "bare date",
			raw:  "2020-Jan-01",
			want: "2020-Jan-01",
		},
		{
			name: "uncertainty without space",
			raw:  "2020-Jan-01±00:01",
			want: "2020-Jan-01",
		},
		{
			name: "empty",
			raw:  "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanDate(tt.raw))
		})
	}
}

func TestCleanTimestamp(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "keeps time of day",
			raw:  "2020-Jan-01 12:48 ± 00:01",
			want: "2020-Jan-01 12:48",
		},
		{
			name: "escaped uncertainty separator",
			raw:  `2020-Jan-01 12:48 ± 00:01`,
			want: "2020-Jan-01 12:48",
		},
		{
			name: "no suffix",
			raw:  "2020-Jan-01 12:48",
			want: "2020-Jan-01 12:48",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanTimestamp(tt.raw))
		})
	}
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate("2020-Jan-15")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2020, time.January, 15, 0, 0, 0, 0, time.UTC), got)

	_, err = ParseDate("2020-01-15")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unrecognized date format")
}

func TestRecord_Accessors(t *testing.T) {
	t.Run("approach date from raw timestamp", func(t *testing.T) {
		r := &Record{CloseApproachDate: "2020-Jan-01 12:48 ± 00:01"}
		at, err := r.ApproachDate()
		require.NoError(t, err)
		assert.Equal(t, 2020, at.Year())
		assert.Equal(t, time.January, at.Month())
	})

	t.Run("distance prefers nominal", func(t *testing.T) {
		r := &Record{DistanceNominalAU: "0.05", DistanceMinimumAU: "0.04"}
		d, err := r.Distance()
		require.NoError(t, err)
		assert.Equal(t, 0.05, d)
	})

	t.Run("distance falls back to minimum", func(t *testing.T) {
		r := &Record{DistanceMinimumAU: "0.04"}
		d, err := r.Distance()
		require.NoError(t, err)
		assert.Equal(t, 0.04, d)
	})

	t.Run("missing numeric fields parse as zero", func(t *testing.T) {
		r := &Record{}
		v, err := r.RelativeVelocity()
		require.NoError(t, err)
		assert.Zero(t, v)

		m, err := r.Magnitude()
		require.NoError(t, err)
		assert.Zero(t, m)
	})

	t.Run("malformed numeric field is an error", func(t *testing.T) {
		r := &Record{VRelativeKmS: "fast"}
		_, err := r.RelativeVelocity()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "malformed numeric field")
	})

	t.Run("rarity", func(t *testing.T) {
		r := &Record{Rarity: "2"}
		score, err := r.RarityScore()
		require.NoError(t, err)
		assert.Equal(t, 2.0, score)
	})
}
