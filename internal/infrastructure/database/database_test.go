package database

import (
	"testing"

	"github.com/pahanabooks/console-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenSQLiteAndMigrate(t *testing.T) {
	db, err := Open(&config.DatabaseConfig{Driver: "sqlite", SQLitePath: ":memory:"}, false)
	require.NoError(t, err)

	require.NoError(t, AutoMigrate(db))
	assert.True(t, db.Migrator().HasTable("console_sessions"))
	assert.True(t, db.Migrator().HasTable("idempotency_keys"))
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open(&config.DatabaseConfig{Driver: "oracle"}, false)
	assert.Error(t, err)
}
