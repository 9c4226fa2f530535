package dbmigrate

import (
	"io/fs"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shayanthavi/FitTrack-AI/migrations"
)

var migrationName = regexp.MustCompile(`^(\d{6})_[a-z0-9_]+\.(up|down)\.sql$`)

func TestDriverURL(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"postgres://u:p@localhost:5432/fittrack?sslmode=disable", "pgx5://u:p@localhost:5432/fittrack?sslmode=disable"},
		{"postgresql://u@db/fittrack", "pgx5://u@db/fittrack"},
		{"pgx5://u@db/fittrack", "pgx5://u@db/fittrack"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DriverURL(tt.in))
	}
}

// TestMigrationsNotEmpty ensures that all embedded migrations have content.
func TestMigrationsNotEmpty(t *testing.T) {
	files, err := fs.Glob(migrations.FS, "*.sql")
	require.NoError(t, err)
	require.NotEmpty(t, files, "no embedded migrations")

	for _, name := range files {
		content, err := fs.ReadFile(migrations.FS, name)
		require.NoError(t, err)
		require.NotEmpty(t, strings.TrimSpace(string(content)), "Migration file is empty: %s", name)
	}
}

// TestMigrationFileNames checks the NNNNNN_description.{up,down}.sql convention
// and that every up migration has a matching down migration.
func TestMigrationFileNames(t *testing.T) {
	files, err := fs.Glob(migrations.FS, "*.sql")
	require.NoError(t, err)

	ups := map[string]bool{}
	downs := map[string]bool{}
	for _, name := range files {
		m := migrationName.FindStringSubmatch(name)
		require.NotNil(t, m, "File name %q does not match NNNNNN_description.{up,down}.sql", name)
		base := strings.TrimSuffix(strings.TrimSuffix(name, ".sql"), "."+m[2])
		if m[2] == "up" {
			ups[base] = true
		} else {
			downs[base] = true
		}
	}
	assert.Equal(t, ups, downs, "up and down migrations must pair")
}

func TestMigrationsCreateTables(t *testing.T) {
	var schema strings.Builder
	files, err := fs.Glob(migrations.FS, "*.up.sql")
	require.NoError(t, err)
	for _, name := range files {
		content, err := fs.ReadFile(migrations.FS, name)
		require.NoError(t, err)
		schema.Write(content)
	}
	for _, table := range []string{"health_logs", "model_artifacts"} {
		assert.Contains(t, schema.String(), "CREATE TABLE IF NOT EXISTS "+table)
	}
	assert.Contains(t, schema.String(), "UNIQUE (user_id, log_date)")
}
