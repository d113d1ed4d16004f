package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SoundInkube/soundinkube-sub000/internal/config"
	"github.com/SoundInkube/soundinkube-sub000/internal/model"
)

func TestNewGormDB_SQLiteMigrates(t *testing.T) {
	gdb, err := NewGormDB(&config.DBConfig{Driver: config.DriverSQLite, SQLitePath: ":memory:"})
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)

	require.NoError(t, model.AutoMigrate(gdb))
	assert.True(t, gdb.Migrator().HasTable(&model.Resource{}))
	assert.True(t, gdb.Migrator().HasTable(&model.Reservation{}))
	assert.True(t, gdb.Migrator().HasTable(&model.ReservationEvent{}))

	// idempotent
	require.NoError(t, model.AutoMigrate(gdb))
}

func TestNewGormDB_UnknownDriver(t *testing.T) {
	_, err := NewGormDB(&config.DBConfig{Driver: "oracle"})
	assert.Error(t, err)
}
