package model

import (
	"time"
)

// DateLayout is the wire format of Task.DueDate.
const DateLayout = "2006-01-02"

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

type Task struct {
	ID          uint       `gorm:"primaryKey"`
	Title       string     `gorm:"size:200;not null"`
	Description string     `gorm:"size:500"`
	Priority    string     `gorm:"size:20;default:low"`
	DueDate     *time.Time `gorm:"type:date"`
	IsCompleted bool       `gorm:"not null;default:false"`
	CreatedAt   time.Time  `gorm:"autoCreateTime"`
	UserID      uint       `gorm:"not null;index"`
}

// OwnedBy reports whether the task belongs to the user with the given id.
func (t *Task) OwnedBy(userID uint) bool {
	return t.UserID == userID
}

// DueDateString formats the due date for forms, empty when unset.
func (t *Task) DueDateString() string {
	if t.DueDate == nil {
		return ""
	}
	return t.DueDate.Format(DateLayout)
}

// IsOverdue is true for unfinished tasks whose due date is before today.
func (t *Task) IsOverdue(today time.Time) bool {
	if t.IsCompleted || t.DueDate == nil {
		return false
	}
	y, m, d := today.Date()
	return t.DueDate.Before(time.Date(y, m, d, 0, 0, 0, 0, t.DueDate.Location()))
}

// ParseDate parses a YYYY-MM-DD string into a UTC midnight time.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}
