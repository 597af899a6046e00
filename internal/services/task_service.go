package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/IcramDoku/cmsc447project/internal/cache"
	"github.com/IcramDoku/cmsc447project/internal/metrics"
	"github.com/IcramDoku/cmsc447project/internal/models"
	"github.com/IcramDoku/cmsc447project/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound     = errors.New("task not found")
	ErrNotAGroupMember  = errors.New("user is not a member of the task's group")
	ErrTaskNameRequired = errors.New("task name is required")
)

// taskPreloads are the relations loaded whenever a full task is returned.
var taskPreloads = []string{"Assignments", "Assignments.User"}

// TaskService handles task business logic: listing, editing, and the
// group-membership-validated assignment workflow.
type TaskService struct {
	taskRepo    repository.TaskRepository
	groupRepo   repository.GroupRepository
	memberCache *cache.MemberCache
}

// NewTaskService creates a new TaskService. memberCache may be nil.
func NewTaskService(taskRepo repository.TaskRepository, groupRepo repository.GroupRepository, memberCache *cache.MemberCache) *TaskService {
	return &TaskService{
		taskRepo:    taskRepo,
		groupRepo:   groupRepo,
		memberCache: memberCache,
	}
}

// MembersForTask resolves a task to its owning group and returns the IDs
// of the group's members, ordered by user ID. Membership rows whose user
// has since been deleted are filtered out rather than failing the request.
func (s *TaskService) MembersForTask(ctx context.Context, taskID uint64) ([]uint64, error) {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	return s.membersForGroup(ctx, task.GroupID)
}

func (s *TaskService) membersForGroup(ctx context.Context, groupID uint64) ([]uint64, error) {
	if ids, ok := s.memberCache.Get(ctx, groupID); ok {
		return ids, nil
	}

	members, err := s.groupRepo.ListMembers(groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list group members: %w", err)
	}

	ids := make([]uint64, 0, len(members))
	for _, m := range members {
		// A membership row can outlive its user; skip stale references.
		if m.User.ID == 0 {
			continue
		}
		ids = append(ids, m.UserID)
	}

	s.memberCache.Set(ctx, groupID, ids)
	return ids, nil
}

// AssignMember attaches a group member to a task and returns the updated
// task. The candidate must be a member of the task's group; assigning an
// already-assigned member is a no-op.
func (s *TaskService) AssignMember(ctx context.Context, taskID, candidateID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	memberIDs, err := s.membersForGroup(ctx, task.GroupID)
	if err != nil {
		return nil, err
	}

	isMember := false
	for _, id := range memberIDs {
		if id == candidateID {
			isMember = true
			break
		}
	}
	if !isMember {
		return nil, ErrNotAGroupMember
	}

	if err := s.taskRepo.AssignMember(taskID, candidateID); err != nil {
		return nil, fmt.Errorf("failed to assign member: %w", err)
	}

	metrics.TaskAssignments.Inc()
	return s.taskRepo.FindByID(taskID, taskPreloads...)
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	GroupID     uint64
	ActorID     uint64
	Name        string
	Description string
	DueAt       *time.Time
}

// CreateTask creates a new task in a group the actor belongs to.
func (s *TaskService) CreateTask(input CreateTaskInput) (*models.Task, error) {
	if input.Name == "" {
		return nil, ErrTaskNameRequired
	}

	if _, err := s.groupRepo.FindMember(input.GroupID, input.ActorID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotAGroupMember
		}
		return nil, fmt.Errorf("failed to verify group membership: %w", err)
	}

	task := &models.Task{
		Name:        input.Name,
		Description: input.Description,
		DueAt:       input.DueAt,
		GroupID:     input.GroupID,
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return task, nil
}

// ListTasks returns the tasks of a group the actor belongs to.
func (s *TaskService) ListTasks(groupID, actorID uint64, page, pageSize int) ([]models.Task, int64, error) {
	if _, err := s.groupRepo.FindMember(groupID, actorID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, ErrNotAGroupMember
		}
		return nil, 0, fmt.Errorf("failed to verify group membership: %w", err)
	}

	tasks, total, err := s.taskRepo.ListByGroup(groupID, page, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, total, nil
}

// EditTaskInput is an explicit tagged update: only fields that are present
// are applied. There is no open-ended key spreading.
type EditTaskInput struct {
	TaskID      uint64
	Name        *string
	Description *string
	Completed   *bool
	DueAt       *time.Time
	ClearDueAt  bool
}

// EditTask applies the provided fields to a task and returns the updated
// task with assignees loaded.
func (s *TaskService) EditTask(input EditTaskInput) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(input.TaskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, ErrTaskNameRequired
		}
		task.Name = *input.Name
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Completed != nil {
		task.Completed = *input.Completed
	}
	if input.ClearDueAt {
		task.DueAt = nil
	} else if input.DueAt != nil {
		task.DueAt = input.DueAt
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return s.taskRepo.FindByID(task.ID, taskPreloads...)
}

// DeleteTask deletes a task and its assignments.
func (s *TaskService) DeleteTask(taskID uint64) error {
	if _, err := s.taskRepo.FindByID(taskID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to find task: %w", err)
	}

	if err := s.taskRepo.Delete(taskID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	return nil
}
