package postgres

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationFiles_Paired(t *testing.T) {
	entries, err := migrationFS.ReadDir("migrations")
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	ups := make(map[string]bool)
	downs := make(map[string]bool)
	for _, e := range entries {
		name := e.Name()
		switch {
		case strings.HasSuffix(name, ".up.sql"):
			ups[strings.TrimSuffix(name, ".up.sql")] = true
		case strings.HasSuffix(name, ".down.sql"):
			downs[strings.TrimSuffix(name, ".down.sql")] = true
		default:
			t.Errorf("unexpected migration file %q", name)
		}
	}

	// Every up migration needs a matching down and vice versa.
	assert.Equal(t, ups, downs)
}

func TestMigrationSchema_CoversJobColumns(t *testing.T) {
	data, err := migrationFS.ReadFile("migrations/000001_create_jobs_table.up.sql")
	require.NoError(t, err)
	ddl := string(data)

	// Columns the store reads and writes must exist in the schema.
	for _, column := range []string{
		"job_id",
		"status",
		"start_date",
		"end_date",
		"kind",
		"error_message",
		"completed_at",
		"created_at",
		"updated_at",
	} {
		assert.Contains(t, ddl, column)
	}
	assert.Contains(t, ddl, "CREATE TABLE IF NOT EXISTS jobs")
}
