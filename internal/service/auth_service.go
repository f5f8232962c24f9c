package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"tasktracker/internal/auth"
	"tasktracker/internal/model"
	"tasktracker/internal/repository"
)

type Auth struct {
	logger   zerolog.Logger
	db       *gorm.DB
	users    *repository.UserRepository
	hasher   *auth.PasswordHasher
	sessions *auth.SessionManager
}

var _ AuthService = (*Auth)(nil)

func NewAuth(
	logger zerolog.Logger,
	db *gorm.DB,
	users *repository.UserRepository,
	hasher *auth.PasswordHasher,
	sessions *auth.SessionManager,
) *Auth {
	return &Auth{
		logger:   logger,
		db:       db,
		users:    users,
		hasher:   hasher,
		sessions: sessions,
	}
}

func (s *Auth) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if username == "" || email == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: username, email and password are required", ErrValidation)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to hash password")
		return nil, err
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		users := s.users.WithTx(tx)

		exists, err := users.ExistsByUsernameOrEmail(ctx, username, email)
		if err != nil {
			return err
		}
		if exists {
			return ErrConflict
		}

		err = users.Create(ctx, user)
		if errors.Is(err, repository.ErrDuplicate) {
			return ErrConflict
		}
		return err
	})
	if err != nil {
		if errors.Is(err, ErrConflict) {
			s.logger.Warn().
				Str("username", username).
				Msg("username or email already taken")
			return nil, err
		}
		s.logger.Error().
			Err(err).
			Str("username", username).
			Msg("failed to create user")
		return nil, err
	}

	s.logger.Info().
		Uint("user_id", user.ID).
		Str("username", user.Username).
		Msg("registered user")
	return user, nil
}

func (s *Auth) Login(ctx context.Context, in LoginInput) (*Session, error) {
	user, err := s.users.FindByUsername(ctx, strings.TrimSpace(in.Username))
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to find user by username")
		return nil, err
	}
	if user == nil || !s.hasher.Verify(user.PasswordHash, in.Password) {
		s.logger.Warn().
			Str("username", in.Username).
			Msg("rejected login")
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.sessions.Issue(user.ID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Uint("user_id", user.ID).
			Msg("failed to issue session token")
		return nil, err
	}

	s.logger.Info().
		Uint("user_id", user.ID).
		Time("expires_at", expiresAt).
		Msg("user logged in")
	return &Session{
		User:      user,
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}

func (s *Auth) CurrentUser(ctx context.Context, token string) (*model.User, error) {
	if token == "" {
		return nil, nil
	}

	userID, err := s.sessions.Parse(token)
	if err != nil {
		s.logger.Debug().
			Err(err).
			Msg("ignoring session token")
		return nil, nil
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Uint("user_id", userID).
			Msg("failed to load session user")
		return nil, err
	}
	return user, nil
}
