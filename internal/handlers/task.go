package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/IcramDoku/cmsc447project/internal/dto"
	apierrors "github.com/IcramDoku/cmsc447project/internal/errors"
	"github.com/IcramDoku/cmsc447project/internal/middleware"
	"github.com/IcramDoku/cmsc447project/internal/services"
	"github.com/IcramDoku/cmsc447project/internal/utils"
	"github.com/gin-gonic/gin"
)

// TaskHandler coordinates task-related HTTP handlers.
type TaskHandler struct {
	taskService *services.TaskService
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// GroupMembersForTask returns the IDs of the members of the task's group,
// the candidate assignees for the task. Stale member entries are filtered
// out by the service before the list reaches the client.
func (h *TaskHandler) GroupMembersForTask(c *gin.Context) {
	taskID, ok := parseTaskID(c)
	if !ok {
		return
	}

	members, err := h.taskService.MembersForTask(c.Request.Context(), taskID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, members)
}

// AddMemberToTask assigns a group member to the task and returns the
// updated task. The task is loaded by RequireTaskAccess.
func (h *TaskHandler) AddMemberToTask(c *gin.Context) {
	task, ok := middleware.GetTask(c)
	if !ok {
		apierrors.InternalError(c, "")
		return
	}

	type AddMemberRequest struct {
		SelectedMemberID uint64 `json:"selectedMemberId" binding:"required"`
	}

	var req AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	updated, err := h.taskService.AssignMember(c.Request.Context(), task.ID, req.SelectedMemberID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*updated))
}

// CreateTask creates a new task in the :groupId group.
func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	groupID, err := strconv.ParseUint(c.Param("groupId"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid group ID")
		return
	}

	type CreateTaskRequest struct {
		Name        string     `json:"name" binding:"required"`
		Description string     `json:"description"`
		DueAt       *time.Time `json:"due_at"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.CreateTask(services.CreateTaskInput{
		GroupID:     groupID,
		ActorID:     userID,
		Name:        req.Name,
		Description: req.Description,
		DueAt:       req.DueAt,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// ListTasks returns the tasks of the :groupId group.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	groupID, err := strconv.ParseUint(c.Param("groupId"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid group ID")
		return
	}

	params := utils.GetPaginationParams(c)

	tasks, total, err := h.taskService.ListTasks(groupID, userID, params.Page, params.Limit)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskListResponse(tasks, params.Page, params.Limit, total))
}

// EditTask applies a tagged field update to a task and returns the updated
// task. Only fields present in the request body are touched.
func (h *TaskHandler) EditTask(c *gin.Context) {
	type EditTaskRequest struct {
		TaskID      uint64     `json:"id" binding:"required"`
		Name        *string    `json:"name"`
		Description *string    `json:"description"`
		Completed   *bool      `json:"completed"`
		DueAt       *time.Time `json:"due_at"`
		ClearDueAt  bool       `json:"clear_due_at"`
	}

	var req EditTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	// The task ID arrives in the body, so the caller's group membership is
	// checked here instead of in RequireTaskAccess. 404 either way, so
	// task existence is not leaked.
	members, err := h.taskService.MembersForTask(c.Request.Context(), req.TaskID)
	if err != nil {
		respondTaskError(c, err)
		return
	}
	isMember := false
	for _, id := range members {
		if id == userID {
			isMember = true
			break
		}
	}
	if !isMember {
		apierrors.TaskNotFound(c)
		return
	}

	task, err := h.taskService.EditTask(services.EditTaskInput{
		TaskID:      req.TaskID,
		Name:        req.Name,
		Description: req.Description,
		Completed:   req.Completed,
		DueAt:       req.DueAt,
		ClearDueAt:  req.ClearDueAt,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// DeleteTask removes a task and its assignments. The task is loaded by
// RequireTaskAccess.
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	task, ok := middleware.GetTask(c)
	if !ok {
		apierrors.InternalError(c, "")
		return
	}

	if err := h.taskService.DeleteTask(task.ID); err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Task deleted successfully",
	})
}

func parseTaskID(c *gin.Context) (uint64, bool) {
	taskID, err := strconv.ParseUint(c.Param("taskId"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid task ID")
		return 0, false
	}
	return taskID, true
}

func respondTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTaskNotFound):
		apierrors.TaskNotFound(c)
	case errors.Is(err, services.ErrNotAGroupMember):
		apierrors.NotGroupMember(c, "")
	case errors.Is(err, services.ErrTaskNameRequired):
		apierrors.MissingFields(c, "Task name is required")
	default:
		log.Printf("task: unexpected error: %v", err)
		apierrors.InternalError(c, "")
	}
}
