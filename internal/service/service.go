package service

import (
	"context"
	"time"

	"tasktracker/internal/model"
)

type AuthService interface {
	// Register creates a user with a hashed password.
	//
	// It returns ErrValidation if a field is blank and ErrConflict if
	// the username or email is already taken. No row is written in
	// either case.
	Register(ctx context.Context, in RegisterInput) (*model.User, error)

	// Login checks the credentials and issues a session token.
	//
	// It returns ErrInvalidCredentials whether the username is unknown
	// or the password does not match.
	Login(ctx context.Context, in LoginInput) (*Session, error)

	// CurrentUser resolves a session token. A missing, invalid or
	// expired token, or a token for a deleted user, yields nil without
	// an error.
	CurrentUser(ctx context.Context, token string) (*model.User, error)
}

// TaskService operations all take the acting user explicitly and return
// ErrUnauthenticated for a nil owner.
type TaskService interface {
	List(ctx context.Context, owner *model.User) ([]model.Task, error)
	Create(ctx context.Context, owner *model.User, in TaskInput) (*model.Task, error)
	Toggle(ctx context.Context, owner *model.User, taskID uint) (*model.Task, error)
	Edit(ctx context.Context, owner *model.User, taskID uint, in TaskInput) (*model.Task, error)
	Delete(ctx context.Context, owner *model.User, taskID uint) error
	Stats(ctx context.Context, owner *model.User) (Stats, error)
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
}

type LoginInput struct {
	Username string
	Password string
}

type Session struct {
	User      *model.User
	Token     string
	ExpiresAt time.Time
}

// TaskInput carries the raw form values of a task. DueDate is a YYYY-MM-DD
// string or empty.
type TaskInput struct {
	Title       string
	Description string
	Priority    string
	DueDate     string
}

type Stats struct {
	Total     int64 `json:"total"`
	Completed int64 `json:"completed"`
	Pending   int64 `json:"pending"`
}
