package dto

import (
	"time"

	"github.com/IcramDoku/cmsc447project/internal/models"
	"github.com/IcramDoku/cmsc447project/internal/utils"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
}

// GroupDTO represents a group in API responses
type GroupDTO struct {
	ID         uint64 `json:"id"`
	Name       string `json:"name"`
	InviteCode string `json:"invite_code,omitempty"`
}

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID            uint64     `json:"id"`
	GroupID       uint64     `json:"group_id"`
	Name          string     `json:"name"`
	Description   string     `json:"description"`
	Completed     bool       `json:"completed"`
	DueAt         *time.Time `json:"due_at"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	AssignedUsers []uint64   `json:"assigned_users"`
	Assignees     []UserDTO  `json:"assignees,omitempty"`
}

// TaskListResponse represents a paginated list of tasks
type TaskListResponse struct {
	Tasks      []TaskDTO                `json:"tasks"`
	Pagination utils.PaginationResponse `json:"pagination"`
}

// Conversion functions

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:       user.ID,
		Username: user.Username,
	}
}

// ToGroupDTO converts a Group model to GroupDTO
func ToGroupDTO(group models.Group, includeInviteCode bool) GroupDTO {
	dto := GroupDTO{
		ID:   group.ID,
		Name: group.Name,
	}
	if includeInviteCode {
		dto.InviteCode = group.InviteCode
	}
	return dto
}

// ToTaskDTO converts a Task model to TaskDTO. AssignedUsers is always
// populated (an empty set marshals as []); Assignees carries user details
// when the assignment users were preloaded.
func ToTaskDTO(task models.Task) TaskDTO {
	dto := TaskDTO{
		ID:            task.ID,
		GroupID:       task.GroupID,
		Name:          task.Name,
		Description:   task.Description,
		Completed:     task.Completed,
		DueAt:         task.DueAt,
		CreatedAt:     task.CreatedAt,
		UpdatedAt:     task.UpdatedAt,
		AssignedUsers: make([]uint64, 0, len(task.Assignments)),
	}

	for _, assignment := range task.Assignments {
		dto.AssignedUsers = append(dto.AssignedUsers, assignment.UserID)
		if assignment.User.ID != 0 {
			dto.Assignees = append(dto.Assignees, ToUserDTO(assignment.User))
		}
	}

	return dto
}

// ToTaskListResponse converts a slice of tasks to TaskListResponse
func ToTaskListResponse(tasks []models.Task, page, pageSize int, totalCount int64) TaskListResponse {
	items := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		items[i] = ToTaskDTO(task)
	}

	return TaskListResponse{
		Tasks: items,
		Pagination: utils.PaginationResponse{
			Page:  page,
			Limit: pageSize,
			Total: totalCount,
		},
	}
}
