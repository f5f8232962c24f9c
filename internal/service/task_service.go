package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"tasktracker/internal/model"
	"tasktracker/internal/repository"
)

type Tasks struct {
	logger zerolog.Logger
	db     *gorm.DB
	tasks  *repository.TaskRepository
}

var _ TaskService = (*Tasks)(nil)

func NewTasks(
	logger zerolog.Logger,
	db *gorm.DB,
	tasks *repository.TaskRepository,
) *Tasks {
	return &Tasks{
		logger: logger,
		db:     db,
		tasks:  tasks,
	}
}

func (s *Tasks) List(ctx context.Context, owner *model.User) ([]model.Task, error) {
	if owner == nil {
		return nil, ErrUnauthenticated
	}

	tasks, err := s.tasks.ListByUserID(ctx, owner.ID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Uint("user_id", owner.ID).
			Msg("failed to list tasks")
		return nil, err
	}
	return tasks, nil
}

func (s *Tasks) Create(ctx context.Context, owner *model.User, in TaskInput) (*model.Task, error) {
	if owner == nil {
		return nil, ErrUnauthenticated
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrValidation)
	}

	task := &model.Task{
		Title:       title,
		Description: in.Description,
		Priority:    priorityOrDefault(in.Priority),
		UserID:      owner.ID,
	}
	if due := strings.TrimSpace(in.DueDate); due != "" {
		d, err := model.ParseDate(due)
		if err != nil {
			return nil, fmt.Errorf("%w: due date must be YYYY-MM-DD", ErrValidation)
		}
		task.DueDate = &d
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		s.logger.Error().
			Err(err).
			Uint("user_id", owner.ID).
			Msg("failed to insert task")
		return nil, err
	}

	s.logger.Info().
		Uint("task_id", task.ID).
		Uint("user_id", owner.ID).
		Msg("created task")
	return task, nil
}

func (s *Tasks) Toggle(ctx context.Context, owner *model.User, taskID uint) (*model.Task, error) {
	if owner == nil {
		return nil, ErrUnauthenticated
	}

	var task *model.Task
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tasks := s.tasks.WithTx(tx)

		var err error
		task, err = ownedTask(ctx, tasks, owner, taskID)
		if err != nil {
			return err
		}

		task.IsCompleted = !task.IsCompleted
		return tasks.Update(ctx, task)
	})
	if err != nil {
		s.logFailure(err, owner, taskID, "failed to toggle task")
		return nil, err
	}

	s.logger.Info().
		Uint("task_id", task.ID).
		Bool("is_completed", task.IsCompleted).
		Msg("toggled task")
	return task, nil
}

// Edit overwrites the mutable fields of a task. An empty due date clears it;
// a due date that does not parse leaves the stored one untouched.
func (s *Tasks) Edit(ctx context.Context, owner *model.User, taskID uint, in TaskInput) (*model.Task, error) {
	if owner == nil {
		return nil, ErrUnauthenticated
	}

	var task *model.Task
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tasks := s.tasks.WithTx(tx)

		var err error
		task, err = ownedTask(ctx, tasks, owner, taskID)
		if err != nil {
			return err
		}

		title := strings.TrimSpace(in.Title)
		if title == "" {
			return fmt.Errorf("%w: title is required", ErrValidation)
		}
		task.Title = title
		task.Description = in.Description
		task.Priority = priorityOrDefault(in.Priority)

		due := strings.TrimSpace(in.DueDate)
		if due == "" {
			task.DueDate = nil
		} else if d, err := model.ParseDate(due); err == nil {
			task.DueDate = &d
		} else {
			s.logger.Debug().
				Str("due_date", due).
				Uint("task_id", task.ID).
				Msg("keeping stored due date")
		}

		return tasks.Update(ctx, task)
	})
	if err != nil {
		s.logFailure(err, owner, taskID, "failed to edit task")
		return nil, err
	}

	s.logger.Info().
		Uint("task_id", task.ID).
		Msg("edited task")
	return task, nil
}

func (s *Tasks) Delete(ctx context.Context, owner *model.User, taskID uint) error {
	if owner == nil {
		return ErrUnauthenticated
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tasks := s.tasks.WithTx(tx)

		if _, err := ownedTask(ctx, tasks, owner, taskID); err != nil {
			return err
		}
		return tasks.Delete(ctx, taskID)
	})
	if err != nil {
		s.logFailure(err, owner, taskID, "failed to delete task")
		return err
	}

	s.logger.Info().
		Uint("task_id", taskID).
		Msg("deleted task")
	return nil
}

func (s *Tasks) Stats(ctx context.Context, owner *model.User) (Stats, error) {
	if owner == nil {
		return Stats{}, ErrUnauthenticated
	}

	counts, err := s.tasks.CountByUserID(ctx, owner.ID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Uint("user_id", owner.ID).
			Msg("failed to count tasks")
		return Stats{}, err
	}
	return Stats{
		Total:     counts.Total,
		Completed: counts.Completed,
		Pending:   counts.Total - counts.Completed,
	}, nil
}

func (s *Tasks) logFailure(err error, owner *model.User, taskID uint, msg string) {
	event := s.logger.Error()
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrForbidden) || errors.Is(err, ErrValidation) {
		event = s.logger.Warn()
	}
	event.
		Err(err).
		Uint("user_id", owner.ID).
		Uint("task_id", taskID).
		Msg(msg)
}

func ownedTask(ctx context.Context, tasks *repository.TaskRepository, owner *model.User, taskID uint) (*model.Task, error) {
	task, err := tasks.GetByID(ctx, taskID)
	if errors.Is(err, repository.ErrTaskNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if !task.OwnedBy(owner.ID) {
		return nil, ErrForbidden
	}
	return task, nil
}

func priorityOrDefault(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return model.PriorityLow
	}
	return p
}
