package store

import (
	"errors"
	"testing"

	"github.com/nutriswap/backend/config"
	"github.com/nutriswap/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestOpenRequiresDSN(t *testing.T) {
	db, err := Open(config.DatabaseConfig{Driver: "sqlite"})
	assert.Error(t, err)
	assert.Nil(t, db)
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	db, err := Open(config.DatabaseConfig{Driver: "oracle", DSN: "x"})
	assert.Error(t, err)
	assert.Nil(t, db)
}

func TestOpenSQLiteMigrates(t *testing.T) {
	db, err := Open(config.DatabaseConfig{
		Driver:       "sqlite",
		DSN:          "file:open_migrates?mode=memory&cache=shared",
		MaxOpenConns: 1,
	})
	require.NoError(t, err)

	for _, m := range Models() {
		assert.True(t, db.Migrator().HasTable(m), "missing table for %T", m)
	}
}

func TestAutoMigrateRejectsNilDatabase(t *testing.T) {
	assert.Error(t, AutoMigrate(nil))
}

func TestWrapErr(t *testing.T) {
	t.Run("record not found maps to ErrNotFound", func(t *testing.T) {
		err := wrapErr("get food 1", gorm.ErrRecordNotFound)
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.NotErrorIs(t, err, domain.ErrDataAccess)
	})

	t.Run("duplicate key maps to ErrConflict", func(t *testing.T) {
		err := wrapErr("save meal", gorm.ErrDuplicatedKey)
		assert.ErrorIs(t, err, domain.ErrConflict)
		assert.NotErrorIs(t, err, domain.ErrDataAccess)
	})

	t.Run("other failures map to ErrDataAccess", func(t *testing.T) {
		err := wrapErr("get food 1", errors.New("connection refused"))
		assert.ErrorIs(t, err, domain.ErrDataAccess)
		assert.Contains(t, err.Error(), "connection refused")
	})
}
