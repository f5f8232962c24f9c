package store_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tasktracker/internal/config"
	"tasktracker/internal/model"
	"tasktracker/internal/store"
)

func memoryConfig() config.DatabaseConfig {
	return config.DatabaseConfig{
		Driver:     config.DriverSQLite,
		SQLitePath: "file:" + uuid.NewString() + "?mode=memory&cache=shared",
	}
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := store.Open(config.DatabaseConfig{Driver: "oracle"}, zerolog.Nop())
	assert.ErrorContains(t, err, "unknown database driver")
}

func TestOpenAndMigrate_SQLite(t *testing.T) {
	db, err := store.Open(memoryConfig(), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close(db) })

	require.NoError(t, store.Migrate(db))
	// Running twice is a no-op.
	require.NoError(t, store.Migrate(db))

	assert.True(t, db.Migrator().HasTable(&model.User{}))
	assert.True(t, db.Migrator().HasTable(&model.Task{}))
}

func TestMigrate_CascadesTasksOnUserDelete(t *testing.T) {
	db, err := store.Open(memoryConfig(), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close(db) })
	require.NoError(t, store.Migrate(db))

	ctx := context.Background()
	user := &model.User{Username: "alice", Email: "alice@example.com", PasswordHash: "x"}
	require.NoError(t, db.WithContext(ctx).Create(user).Error)
	require.NoError(t, db.WithContext(ctx).Create(&model.Task{Title: "t", UserID: user.ID}).Error)

	require.NoError(t, db.WithContext(ctx).Delete(&model.User{}, user.ID).Error)

	var count int64
	require.NoError(t, db.WithContext(ctx).Model(&model.Task{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestMigrate_RejectsTaskWithoutOwner(t *testing.T) {
	db, err := store.Open(memoryConfig(), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close(db) })
	require.NoError(t, store.Migrate(db))

	err = db.Create(&model.Task{Title: "orphan", UserID: 42}).Error
	assert.Error(t, err)
}
