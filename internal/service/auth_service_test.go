package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tasktracker/internal/model"
	"tasktracker/internal/service"
)

func TestRegister_ThenLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user, err := f.auth.Register(ctx, service.RegisterInput{
		Username: "alice",
		Email:    "Alice@Example.com",
		Password: "pw1",
	})
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.NotEqual(t, "pw1", user.PasswordHash)

	first, err := f.auth.Login(ctx, service.LoginInput{Username: "alice", Password: "pw1"})
	require.NoError(t, err)
	second, err := f.auth.Login(ctx, service.LoginInput{Username: "alice", Password: "pw1"})
	require.NoError(t, err)

	assert.Equal(t, user.ID, first.User.ID)
	assert.NotEqual(t, first.Token, second.Token)

	current, err := f.auth.CurrentUser(ctx, first.Token)
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, "alice", current.Username)
}

func TestRegister_DuplicateUsername(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "alice")

	_, err := f.auth.Register(ctx, service.RegisterInput{
		Username: "alice",
		Email:    "other@example.com",
		Password: "pw2",
	})
	assert.ErrorIs(t, err, service.ErrConflict)

	var count int64
	require.NoError(t, f.db.Model(&model.User{}).Where("username = ?", "alice").Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	f := newFixture(t)
	f.register(t, "alice")

	_, err := f.auth.Register(context.Background(), service.RegisterInput{
		Username: "alice2",
		Email:    "ALICE@example.com",
		Password: "pw2",
	})
	assert.ErrorIs(t, err, service.ErrConflict)

	var count int64
	require.NoError(t, f.db.Model(&model.User{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestRegister_RequiresAllFields(t *testing.T) {
	f := newFixture(t)

	for _, in := range []service.RegisterInput{
		{Email: "a@example.com", Password: "pw"},
		{Username: "a", Password: "pw"},
		{Username: "a", Email: "a@example.com"},
		{Username: "   ", Email: "a@example.com", Password: "pw"},
	} {
		_, err := f.auth.Register(context.Background(), in)
		assert.ErrorIs(t, err, service.ErrValidation)
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "alice")

	_, wrongPassword := f.auth.Login(ctx, service.LoginInput{Username: "alice", Password: "nope"})
	_, unknownUser := f.auth.Login(ctx, service.LoginInput{Username: "mallory", Password: "pw-alice"})

	assert.ErrorIs(t, wrongPassword, service.ErrInvalidCredentials)
	assert.ErrorIs(t, unknownUser, service.ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownUser.Error())
}

func TestCurrentUser_Anonymous(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, token := range []string{"", "garbage", "a.b.c"} {
		user, err := f.auth.CurrentUser(ctx, token)
		assert.NoError(t, err)
		assert.Nil(t, user)
	}
}

func TestCurrentUser_DeletedUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.register(t, "alice")

	session, err := f.auth.Login(ctx, service.LoginInput{Username: "alice", Password: "pw-alice"})
	require.NoError(t, err)
	require.NoError(t, f.db.Delete(&model.User{}, user.ID).Error)

	current, err := f.auth.CurrentUser(ctx, session.Token)
	assert.NoError(t, err)
	assert.Nil(t, current)
}
