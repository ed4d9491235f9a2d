package postgres

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationNames_OrdenLexicografico(t *testing.T) {
	fsys := fstest.MapFS{
		"0002_indices.sql":      {Data: []byte("SELECT 1")},
		"0001_stock_ledger.sql": {Data: []byte("SELECT 1")},
		"README.md":             {Data: []byte("docs")},
	}
	names, err := migrationNames(fsys)
	require.NoError(t, err)
	assert.Equal(t, []string{"0001_stock_ledger.sql", "0002_indices.sql"}, names)
}

func TestPendingMigrations_OmiteAplicadas(t *testing.T) {
	names := []string{"0001_a.sql", "0002_b.sql", "0003_c.sql"}
	done := map[string]struct{}{"0001_a.sql": {}, "0003_c.sql": {}}

	assert.Equal(t, []string{"0002_b.sql"}, pendingMigrations(names, done))
	assert.Nil(t, pendingMigrations(names[:1], done), "nada pendiente")
	assert.Equal(t, names, pendingMigrations(names, map[string]struct{}{}))
}
