package migration

import (
	"io/fs"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	ups, err := fs.Glob(embeddedMigrations, migrationsDir+"/*.up.sql")
	require.NoError(t, err)
	downs, err := fs.Glob(embeddedMigrations, migrationsDir+"/*.down.sql")
	require.NoError(t, err)
	assert.NotEmpty(t, ups)
	assert.Len(t, downs, len(ups))
}

type note struct {
	ID   string `gorm:"primaryKey"`
	Body string
}

func TestApplyAutoMigratesOutsidePostgres(t *testing.T) {
	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, Apply(conn, &note{}))
	assert.True(t, conn.Migrator().HasTable(&note{}))
}

func TestRunMigrationsNeedsHandle(t *testing.T) {
	assert.Error(t, RunMigrations(nil))
}
