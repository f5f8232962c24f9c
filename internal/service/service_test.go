package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"tasktracker/internal/auth"
	"tasktracker/internal/config"
	"tasktracker/internal/model"
	"tasktracker/internal/repository"
	"tasktracker/internal/service"
	"tasktracker/internal/store"
)

type fixture struct {
	db    *gorm.DB
	auth  *service.Auth
	tasks *service.Tasks
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := store.Open(config.DatabaseConfig{
		Driver:     config.DriverSQLite,
		SQLitePath: "file:" + uuid.NewString() + "?mode=memory&cache=shared",
	}, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, store.Migrate(db))
	t.Cleanup(func() { _ = store.Close(db) })

	users := repository.NewUserRepository(db)
	tasks := repository.NewTaskRepository(db)
	return &fixture{
		db: db,
		auth: service.NewAuth(zerolog.Nop(), db, users,
			auth.NewPasswordHasher(1000),
			auth.NewSessionManager("test-secret", time.Hour),
		),
		tasks: service.NewTasks(zerolog.Nop(), db, tasks),
	}
}

func (f *fixture) register(t *testing.T, username string) *model.User {
	t.Helper()
	user, err := f.auth.Register(context.Background(), service.RegisterInput{
		Username: username,
		Email:    username + "@example.com",
		Password: "pw-" + username,
	})
	require.NoError(t, err)
	return user
}
