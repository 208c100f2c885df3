package db

import (
	"path/filepath"
	"testing"

	"github.com/kasuganosora/railsim/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_Memory(t *testing.T) {
	gdb, err := Open(config.ReportConfig{Mode: ModeMemory})
	require.NoError(t, err)
	require.NoError(t, gdb.Exec("CREATE TABLE t (x INTEGER)").Error)
	require.NoError(t, gdb.Exec("INSERT INTO t VALUES (1)").Error)

	var n int64
	require.NoError(t, gdb.Raw("SELECT COUNT(*) FROM t").Scan(&n).Error)
	assert.Equal(t, int64(1), n)
}

func TestOpen_SQLiteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "railsim.db")
	gdb, err := Open(config.ReportConfig{Mode: ModeSQLite, SQLitePath: path})
	require.NoError(t, err)
	assert.NoError(t, gdb.Exec("CREATE TABLE t (x INTEGER)").Error)
	assert.FileExists(t, path)
}

func TestOpen_MySQLWithoutDSN(t *testing.T) {
	_, err := Open(config.ReportConfig{Mode: ModeMySQL})
	assert.ErrorContains(t, err, "empty dsn")
}

func TestOpen_UnknownMode(t *testing.T) {
	for _, mode := range []string{ModeNone, "postgres", ""} {
		_, err := Open(config.ReportConfig{Mode: mode})
		assert.Error(t, err, "mode %q", mode)
	}
}
