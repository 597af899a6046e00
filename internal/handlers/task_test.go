package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/IcramDoku/cmsc447project/internal/constants"
	"github.com/IcramDoku/cmsc447project/internal/database"
	"github.com/IcramDoku/cmsc447project/internal/dto"
	"github.com/IcramDoku/cmsc447project/internal/middleware"
	"github.com/IcramDoku/cmsc447project/internal/models"
	"github.com/IcramDoku/cmsc447project/internal/repository"
	"github.com/IcramDoku/cmsc447project/internal/services"
)

// TaskHandlerTestSuite defines the test suite for TaskHandler
type TaskHandlerTestSuite struct {
	suite.Suite
	db       *gorm.DB
	taskRepo repository.TaskRepository
	handler  *TaskHandler
	router   *gin.Engine
}

// SetupTest runs before each test
func (suite *TaskHandlerTestSuite) SetupTest() {
	var err error

	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(
		&models.User{},
		&models.Group{},
		&models.GroupMember{},
		&models.Task{},
		&models.TaskAssignment{},
	)
	suite.Require().NoError(err)

	database.SetDB(suite.db)

	suite.taskRepo = repository.NewTaskRepository(suite.db)
	groupRepo := repository.NewGroupRepository(suite.db)
	taskService := services.NewTaskService(suite.taskRepo, groupRepo, nil)
	suite.handler = NewTaskHandler(taskService)

	gin.SetMode(gin.TestMode)
	suite.router = gin.New()

	// Stand-in for RequireAuth: the test request carries its user ID in a
	// header.
	suite.router.Use(func(c *gin.Context) {
		if v := c.GetHeader("X-User-ID"); v != "" {
			id, err := strconv.ParseUint(v, 10, 64)
			suite.Require().NoError(err)
			c.Set(constants.ContextKeyUserID, id)
		}
		c.Next()
	})

	suite.router.GET("/task/group_members_for_task/:taskId", suite.handler.GroupMembersForTask)
	suite.router.POST("/task/add_member_to_task/:taskId", middleware.RequireTaskAccess(), suite.handler.AddMemberToTask)
	suite.router.POST("/task/create_task/:groupId", suite.handler.CreateTask)
	suite.router.GET("/task/get_tasks/:groupId", suite.handler.ListTasks)
	suite.router.PUT("/task/edit_task", suite.handler.EditTask)
	suite.router.DELETE("/task/delete_task/:taskId", middleware.RequireTaskAccess(), suite.handler.DeleteTask)
}

// TearDownTest runs after each test
func (suite *TaskHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

// Helper functions to create test data

func (suite *TaskHandlerTestSuite) createTestUser(username string) *models.User {
	user := &models.User{
		Username:     username,
		PasswordHash: "hashedpassword",
	}
	suite.db.Create(user)
	return user
}

func (suite *TaskHandlerTestSuite) createTestGroup(name string) *models.Group {
	group := &models.Group{
		Name:       name,
		InviteCode: name + "_CODE",
	}
	suite.db.Create(group)
	return group
}

func (suite *TaskHandlerTestSuite) addTestMember(groupID, userID uint64) {
	member := &models.GroupMember{
		GroupID:  groupID,
		UserID:   userID,
		JoinedAt: time.Now(),
	}
	suite.db.Create(member)
}

func (suite *TaskHandlerTestSuite) createTestTask(name string, groupID uint64) *models.Task {
	task := &models.Task{
		Name:        name,
		Description: "Test Description",
		GroupID:     groupID,
	}
	suite.db.Create(task)
	return task
}

func (suite *TaskHandlerTestSuite) doRequest(method, url string, body any, userID uint64) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		suite.Require().NoError(err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, url, reader)
	req.Header.Set("Content-Type", "application/json")
	if userID != 0 {
		req.Header.Set("X-User-ID", strconv.FormatUint(userID, 10))
	}

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *TaskHandlerTestSuite) taskURL(taskID uint64, prefix string) string {
	return "/task/" + prefix + "/" + strconv.FormatUint(taskID, 10)
}

// Tests

func (suite *TaskHandlerTestSuite) TestGroupMembersForTask_ReturnsMemberIDs() {
	u1 := suite.createTestUser("alice")
	u2 := suite.createTestUser("bob")
	group := suite.createTestGroup("Test Group")
	suite.addTestMember(group.ID, u1.ID)
	suite.addTestMember(group.ID, u2.ID)
	task := suite.createTestTask("Test Task", group.ID)

	w := suite.doRequest("GET", suite.taskURL(task.ID, "group_members_for_task"), nil, u1.ID)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var members []uint64
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &members))
	assert.Equal(suite.T(), []uint64{u1.ID, u2.ID}, members)
}

func (suite *TaskHandlerTestSuite) TestGroupMembersForTask_FiltersStaleMembers() {
	u1 := suite.createTestUser("alice")
	u2 := suite.createTestUser("bob")
	group := suite.createTestGroup("Test Group")
	suite.addTestMember(group.ID, u1.ID)
	suite.addTestMember(group.ID, u2.ID)
	task := suite.createTestTask("Test Task", group.ID)

	// bob is gone but his membership row remains; the list must not
	// contain an absent entry.
	suite.db.Delete(&models.User{}, u2.ID)

	w := suite.doRequest("GET", suite.taskURL(task.ID, "group_members_for_task"), nil, u1.ID)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var members []uint64
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &members))
	assert.Equal(suite.T(), []uint64{u1.ID}, members)
}

func (suite *TaskHandlerTestSuite) TestGroupMembersForTask_TaskNotFound() {
	u1 := suite.createTestUser("alice")

	w := suite.doRequest("GET", "/task/group_members_for_task/999", nil, u1.ID)

	assert.Equal(suite.T(), http.StatusNotFound, w.Code)

	var response map[string]string
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(suite.T(), "TASK_NOT_FOUND", response["code"])
}

func (suite *TaskHandlerTestSuite) TestAddMemberToTask_Succeeds() {
	u1 := suite.createTestUser("alice")
	group := suite.createTestGroup("Test Group")
	suite.addTestMember(group.ID, u1.ID)
	task := suite.createTestTask("Test Task", group.ID)

	w := suite.doRequest("POST", suite.taskURL(task.ID, "add_member_to_task"),
		map[string]uint64{"selectedMemberId": u1.ID}, u1.ID)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response dto.TaskDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(suite.T(), []uint64{u1.ID}, response.AssignedUsers)
}

func (suite *TaskHandlerTestSuite) TestAddMemberToTask_IsIdempotent() {
	u1 := suite.createTestUser("alice")
	u2 := suite.createTestUser("bob")
	group := suite.createTestGroup("Test Group")
	suite.addTestMember(group.ID, u1.ID)
	suite.addTestMember(group.ID, u2.ID)
	task := suite.createTestTask("Test Task", group.ID)

	for i := 0; i < 2; i++ {
		w := suite.doRequest("POST", suite.taskURL(task.ID, "add_member_to_task"),
			map[string]uint64{"selectedMemberId": u1.ID}, u2.ID)
		assert.Equal(suite.T(), http.StatusOK, w.Code)

		var response dto.TaskDTO
		suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(suite.T(), []uint64{u1.ID}, response.AssignedUsers)
	}

	// One live assignment row, found through the repository.
	assignment, err := suite.taskRepo.FindAssignment(task.ID, u1.ID)
	suite.Require().NoError(err)
	assert.Equal(suite.T(), task.ID, assignment.TaskID)
	assert.Equal(suite.T(), u1.ID, assignment.UserID)
}

func (suite *TaskHandlerTestSuite) TestAddMemberToTask_RejectsNonMember() {
	u1 := suite.createTestUser("alice")
	outsider := suite.createTestUser("mallory")
	group := suite.createTestGroup("Test Group")
	suite.addTestMember(group.ID, u1.ID)
	task := suite.createTestTask("Test Task", group.ID)

	w := suite.doRequest("POST", suite.taskURL(task.ID, "add_member_to_task"),
		map[string]uint64{"selectedMemberId": outsider.ID}, u1.ID)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)

	var response map[string]string
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(suite.T(), "NOT_A_GROUP_MEMBER", response["code"])

	_, err := suite.taskRepo.FindAssignment(task.ID, outsider.ID)
	assert.ErrorIs(suite.T(), err, gorm.ErrRecordNotFound)
}

func (suite *TaskHandlerTestSuite) TestAddMemberToTask_CallerOutsideGroupGets404() {
	u1 := suite.createTestUser("alice")
	outsider := suite.createTestUser("mallory")
	group := suite.createTestGroup("Test Group")
	suite.addTestMember(group.ID, u1.ID)
	task := suite.createTestTask("Test Task", group.ID)

	w := suite.doRequest("POST", suite.taskURL(task.ID, "add_member_to_task"),
		map[string]uint64{"selectedMemberId": u1.ID}, outsider.ID)

	// 404 rather than 403 so task existence is not leaked
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

func (suite *TaskHandlerTestSuite) TestCreateTask_Succeeds() {
	u1 := suite.createTestUser("alice")
	group := suite.createTestGroup("Test Group")
	suite.addTestMember(group.ID, u1.ID)

	w := suite.doRequest("POST", "/task/create_task/"+strconv.FormatUint(group.ID, 10),
		map[string]string{"name": "New Task", "description": "do the thing"}, u1.ID)

	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	var response dto.TaskDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(suite.T(), "New Task", response.Name)
	assert.Equal(suite.T(), group.ID, response.GroupID)
	assert.False(suite.T(), response.Completed)
}

func (suite *TaskHandlerTestSuite) TestCreateTask_RejectsNonMember() {
	outsider := suite.createTestUser("mallory")
	group := suite.createTestGroup("Test Group")

	w := suite.doRequest("POST", "/task/create_task/"+strconv.FormatUint(group.ID, 10),
		map[string]string{"name": "New Task"}, outsider.ID)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *TaskHandlerTestSuite) TestListTasks_Succeeds() {
	u1 := suite.createTestUser("alice")
	group := suite.createTestGroup("Test Group")
	suite.addTestMember(group.ID, u1.ID)
	suite.createTestTask("First", group.ID)
	suite.createTestTask("Second", group.ID)

	w := suite.doRequest("GET", "/task/get_tasks/"+strconv.FormatUint(group.ID, 10), nil, u1.ID)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response dto.TaskListResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.EqualValues(suite.T(), 2, response.Pagination.Total)
	assert.Equal(suite.T(), 1, response.Pagination.Page)
	assert.Len(suite.T(), response.Tasks, 2)
}

func (suite *TaskHandlerTestSuite) TestEditTask_AppliesProvidedFields() {
	u1 := suite.createTestUser("alice")
	group := suite.createTestGroup("Test Group")
	suite.addTestMember(group.ID, u1.ID)
	task := suite.createTestTask("Old Name", group.ID)

	w := suite.doRequest("PUT", "/task/edit_task", map[string]any{
		"id":        task.ID,
		"name":      "New Name",
		"completed": true,
	}, u1.ID)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response dto.TaskDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(suite.T(), "New Name", response.Name)
	assert.True(suite.T(), response.Completed)
	// Absent fields stay untouched
	assert.Equal(suite.T(), "Test Description", response.Description)

	var stored models.Task
	suite.Require().NoError(suite.db.First(&stored, task.ID).Error)
	assert.Equal(suite.T(), "New Name", stored.Name)
	assert.True(suite.T(), stored.Completed)
}

func (suite *TaskHandlerTestSuite) TestEditTask_ClearsDueDate() {
	u1 := suite.createTestUser("alice")
	group := suite.createTestGroup("Test Group")
	suite.addTestMember(group.ID, u1.ID)

	due := time.Now().Add(24 * time.Hour)
	task := &models.Task{Name: "Dated", GroupID: group.ID, DueAt: &due}
	suite.db.Create(task)

	w := suite.doRequest("PUT", "/task/edit_task", map[string]any{
		"id":           task.ID,
		"clear_due_at": true,
	}, u1.ID)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var stored models.Task
	suite.Require().NoError(suite.db.First(&stored, task.ID).Error)
	assert.Nil(suite.T(), stored.DueAt)
}

func (suite *TaskHandlerTestSuite) TestEditTask_CallerOutsideGroupGets404() {
	outsider := suite.createTestUser("mallory")
	group := suite.createTestGroup("Test Group")
	task := suite.createTestTask("Test Task", group.ID)

	w := suite.doRequest("PUT", "/task/edit_task", map[string]any{
		"id":   task.ID,
		"name": "Hijacked",
	}, outsider.ID)

	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

func (suite *TaskHandlerTestSuite) TestDeleteTask_Succeeds() {
	u1 := suite.createTestUser("alice")
	group := suite.createTestGroup("Test Group")
	suite.addTestMember(group.ID, u1.ID)
	task := suite.createTestTask("Doomed", group.ID)

	w := suite.doRequest("DELETE", suite.taskURL(task.ID, "delete_task"), nil, u1.ID)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var stored models.Task
	err := suite.db.First(&stored, task.ID).Error
	assert.ErrorIs(suite.T(), err, gorm.ErrRecordNotFound)
}

func TestTaskHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(TaskHandlerTestSuite))
}
