package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"tasktracker/internal/model"
)

// Incomplete tasks first, then by due date with undated tasks last.
const taskListOrder = "is_completed ASC, due_date IS NULL ASC, due_date ASC, id ASC"

type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// WithTx returns a copy of the repository bound to tx.
func (r *TaskRepository) WithTx(tx *gorm.DB) *TaskRepository {
	return &TaskRepository{db: tx}
}

// TaskCounts holds aggregate counters for a user's tasks.
type TaskCounts struct {
	Total     int64
	Completed int64
}

// Create adds a new task to the database
func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

// GetByID retrieves a task by its ID
func (r *TaskRepository) GetByID(ctx context.Context, id uint) (*model.Task, error) {
	var task model.Task
	result := r.db.WithContext(ctx).First(&task, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, result.Error
	}
	return &task, nil
}

// ListByUserID retrieves all tasks owned by a user in display order
func (r *TaskRepository) ListByUserID(ctx context.Context, userID uint) ([]model.Task, error) {
	var tasks []model.Task
	result := r.db.WithContext(ctx).Where("user_id = ?", userID).Order(taskListOrder).Find(&tasks)
	if result.Error != nil {
		return nil, result.Error
	}
	return tasks, nil
}

// CountByUserID returns the total and completed number of a user's tasks
func (r *TaskRepository) CountByUserID(ctx context.Context, userID uint) (TaskCounts, error) {
	var counts TaskCounts
	err := r.db.WithContext(ctx).
		Model(&model.Task{}).
		Select("COUNT(*) AS total, COALESCE(SUM(CASE WHEN is_completed THEN 1 ELSE 0 END), 0) AS completed").
		Where("user_id = ?", userID).
		Scan(&counts).Error
	return counts, err
}

// Update writes all fields of an existing task
func (r *TaskRepository) Update(ctx context.Context, task *model.Task) error {
	result := r.db.WithContext(ctx).
		Model(&model.Task{}).
		Where("id = ?", task.ID).
		Updates(map[string]any{
			"title":        task.Title,
			"description":  task.Description,
			"priority":     task.Priority,
			"due_date":     task.DueDate,
			"is_completed": task.IsCompleted,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

// Delete removes a task by its ID
func (r *TaskRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&model.Task{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}
