package database

import (
	"testing"
	"testing/fstest"

	_ "github.com/golang-migrate/migrate/v4/database/stub"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateEmbedded(t *testing.T) {
	migrator, err := Migrate("stub://", Migrations)
	require.NoError(t, err)
	defer migrator.Close()

	version, dirty, err := migrator.Version()
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)
	assert.False(t, dirty)
}

func TestMigrateMissingSource(t *testing.T) {
	_, err := Migrate("stub://", fstest.MapFS{})
	assert.Error(t, err)
}

func TestMigrateUnknownDriver(t *testing.T) {
	_, err := Migrate("nosuchdb://", Migrations)
	assert.Error(t, err)
}
