package repository

import (
	"github.com/IcramDoku/cmsc447project/internal/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user. The username column carries a unique
	// index, so concurrent creates with the same username resolve at the
	// storage layer: exactly one insert wins and the loser sees
	// gorm.ErrDuplicatedKey.
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByUsername finds a user by username. Absence is reported as
	// gorm.ErrRecordNotFound, which callers treat as a normal outcome.
	FindByUsername(username string) (*models.User, error)
}

// GroupRepository defines the interface for group data access
type GroupRepository interface {
	// CreateWithOwner creates a group and its first membership within a
	// single transaction.
	CreateWithOwner(group *models.Group, ownerID uint64) error

	// FindByID finds a group by ID
	FindByID(id uint64) (*models.Group, error)

	// FindByInviteCode finds a group by invite code
	FindByInviteCode(code string) (*models.Group, error)

	// AddMember adds a member to a group
	AddMember(member *models.GroupMember) error

	// FindMember finds a specific group member
	FindMember(groupID, userID uint64) (*models.GroupMember, error)

	// ListMembers lists all members of a group with users preloaded
	ListMembers(groupID uint64) ([]models.GroupMember, error)

	// ListMembershipsByUserID lists all groups a user is a member of
	ListMembershipsByUserID(userID uint64) ([]models.GroupMember, error)
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindByID finds a task by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Task, error)

	// ListByGroup retrieves the tasks of a group with pagination
	ListByGroup(groupID uint64, page, pageSize int) ([]models.Task, int64, error)

	// Update updates a task
	Update(task *models.Task) error

	// Delete soft deletes a task and its assignments
	Delete(id uint64) error

	// AssignMember attaches a user to a task. Re-assigning an already
	// assigned user is a no-op.
	AssignMember(taskID, userID uint64) error

	// FindAssignment finds a specific task assignment
	FindAssignment(taskID, userID uint64) (*models.TaskAssignment, error)
}
