package database

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"roundrobin-tracker/internal/config"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RunsMigrations(t *testing.T) {
	cfg := &config.Config{DBPath: filepath.Join(t.TempDir(), "test.db")}

	db, err := New(cfg, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	for _, table := range []string{"players", "series", "games"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		require.NoError(t, err, table)
		assert.Equal(t, table, name)
	}

	var fk int
	require.NoError(t, db.QueryRow(`PRAGMA foreign_keys`).Scan(&fk))
	assert.Equal(t, 1, fk)
}

func TestDSN(t *testing.T) {
	assert.Equal(t, "a.db?"+dsnParams, dsn("a.db"))
	assert.Equal(t, "file:a.db?mode=rwc&"+dsnParams, dsn("file:a.db?mode=rwc"))
	assert.Contains(t, dsnParams, "_journal_mode=WAL")
	assert.Contains(t, dsnParams, "_synchronous=NORMAL")
}

func TestNew_PragmasOnEveryConnection(t *testing.T) {
	cfg := &config.Config{DBPath: filepath.Join(t.TempDir(), "test.db")}
	db, err := New(cfg, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	conns := make([]*sql.Conn, 2)
	for i := range conns {
		conn, err := db.Conn(ctx)
		require.NoError(t, err)
		t.Cleanup(func() { conn.Close() })
		conns[i] = conn
	}

	for i, conn := range conns {
		var (
			fk, busy, sync, tempStore, cacheSize int
			journal                              string
		)
		require.NoError(t, conn.QueryRowContext(ctx, `PRAGMA foreign_keys`).Scan(&fk))
		require.NoError(t, conn.QueryRowContext(ctx, `PRAGMA busy_timeout`).Scan(&busy))
		require.NoError(t, conn.QueryRowContext(ctx, `PRAGMA synchronous`).Scan(&sync))
		require.NoError(t, conn.QueryRowContext(ctx, `PRAGMA journal_mode`).Scan(&journal))
		require.NoError(t, conn.QueryRowContext(ctx, `PRAGMA temp_store`).Scan(&tempStore))
		require.NoError(t, conn.QueryRowContext(ctx, `PRAGMA cache_size`).Scan(&cacheSize))

		assert.Equal(t, 1, fk, "conn %d", i)
		assert.Equal(t, 5000, busy, "conn %d", i)
		assert.Equal(t, 1, sync, "conn %d", i) // NORMAL
		assert.Equal(t, "wal", journal, "conn %d", i)
		assert.Equal(t, 2, tempStore, "conn %d", i) // MEMORY
		assert.Equal(t, -64000, cacheSize, "conn %d", i)
	}
}
