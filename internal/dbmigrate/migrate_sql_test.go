//go:build sqltest
// +build sqltest

package dbmigrate

import (
	"database/sql"
	"io/fs"
	"testing"

	"github.com/DATA-DOG/go-txdb"
	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/stretchr/testify/require"

	"github.com/Shayanthavi/FitTrack-AI/migrations"
)

func init() {
	txdb.Register("txdb", "postgres", "user=test password=test dbname=test host=/var/run/postgresql sslmode=disable")
}

// TestMigrationsApply は up マイグレーションを順に流し、最後にロールバックします。
func TestMigrationsApply(t *testing.T) {
	db, err := sql.Open("txdb", t.Name())
	require.NoError(t, err)
	defer db.Close()

	files, err := fs.Glob(migrations.FS, "*.up.sql")
	require.NoError(t, err)

	tx, err := db.Begin()
	require.NoError(t, err)
	defer tx.Rollback() // 常にロールバックしてDB状態を変更しない

	for _, name := range files {
		content, err := fs.ReadFile(migrations.FS, name)
		require.NoError(t, err)
		_, err = tx.Exec(string(content))
		require.NoError(t, err, "migration %s failed", name)
	}

	_, err = tx.Exec(`INSERT INTO health_logs (user_id, steps, sleep_hours, calories, log_date) VALUES ('u1', 100, 7, 2000, '2024-05-01')`)
	require.NoError(t, err)
	_, err = tx.Exec(`INSERT INTO health_logs (user_id, steps, sleep_hours, calories, log_date) VALUES ('u1', 200, 8, 2100, '2024-05-01')
		ON CONFLICT (user_id, log_date) DO UPDATE SET steps = EXCLUDED.steps`)
	require.NoError(t, err)

	var steps int
	require.NoError(t, tx.QueryRow(`SELECT steps FROM health_logs WHERE user_id = 'u1'`).Scan(&steps))
	require.Equal(t, 200, steps)
}
