package middleware

import (
	"strconv"

	"github.com/IcramDoku/cmsc447project/internal/constants"
	"github.com/IcramDoku/cmsc447project/internal/database"
	apierrors "github.com/IcramDoku/cmsc447project/internal/errors"
	"github.com/IcramDoku/cmsc447project/internal/models"
	"github.com/gin-gonic/gin"
)

// RequireTaskAccess checks that the :taskId task exists and that the
// caller is a member of its group, then stores the task in context.
func RequireTaskAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		taskIDStr := c.Param("taskId")
		taskID, err := strconv.ParseUint(taskIDStr, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid task ID")
			c.Abort()
			return
		}

		userID, exists := GetUserID(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		var task models.Task
		if err := database.GetDB().
			Preload("Assignments").
			Preload("Assignments.User").
			First(&task, taskID).Error; err != nil {
			apierrors.TaskNotFound(c)
			c.Abort()
			return
		}

		var member models.GroupMember
		err = database.GetDB().
			Where("group_id = ? AND user_id = ?", task.GroupID, userID).
			First(&member).Error
		if err != nil {
			// 404 rather than 403 so task existence is not leaked
			apierrors.TaskNotFound(c)
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyTask, task)
		c.Next()
	}
}

// GetTask retrieves the task stored by RequireTaskAccess.
func GetTask(c *gin.Context) (models.Task, bool) {
	taskValue, exists := c.Get(constants.ContextKeyTask)
	if !exists {
		return models.Task{}, false
	}

	task, ok := taskValue.(models.Task)
	return task, ok
}
