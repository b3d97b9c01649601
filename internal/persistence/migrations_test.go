package persistence

import (
	"os"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationFilesAreSortedSQLOnly(t *testing.T) {
	fsys := fstest.MapFS{
		"003_bookings.sql":  {Data: []byte("SELECT 3")},
		"001_users.sql":     {Data: []byte("SELECT 1")},
		"002_cars.sql":      {Data: []byte("SELECT 2")},
		"README.md":         {Data: []byte("docs")},
		"archive/000_x.sql": {Data: []byte("SELECT 0")},
	}

	files, err := migrationFiles(fsys)
	require.NoError(t, err)
	assert.Equal(t, []string{"001_users.sql", "002_cars.sql", "003_bookings.sql"}, files)
}

func TestShippedMigrationsAreOrdered(t *testing.T) {
	files, err := migrationFiles(os.DirFS("../../migrations"))
	require.NoError(t, err)
	assert.Equal(t, []string{"001_users.sql", "002_cars.sql", "003_bookings.sql"}, files)
}
