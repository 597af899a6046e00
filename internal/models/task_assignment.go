package models

import (
	"time"

	"gorm.io/gorm"
)

// TaskAssignment links a group member to a task. The composite primary
// key permits one row per task and user; unassignment is a soft delete,
// and re-assignment upserts onto the same row clearing deleted_at, so a
// member can be assigned, removed and assigned again without ever
// producing a duplicate.
type TaskAssignment struct {
	TaskID    uint64         `gorm:"primarykey" json:"task_id"`
	UserID    uint64         `gorm:"primarykey" json:"user_id"`
	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Task Task `gorm:"foreignKey:TaskID" json:"task,omitempty"`
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
