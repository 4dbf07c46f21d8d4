package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/RichmondRamil/task-management/internal/constants"
	"github.com/RichmondRamil/task-management/internal/database"
	"github.com/RichmondRamil/task-management/internal/dto"
	"github.com/RichmondRamil/task-management/internal/feed"
	"github.com/RichmondRamil/task-management/internal/models"
	"github.com/RichmondRamil/task-management/internal/repository"
	"github.com/RichmondRamil/task-management/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// TaskHandlerTestSuite defines the test suite for TaskHandler
type TaskHandlerTestSuite struct {
	suite.Suite
	db      *gorm.DB
	hub     *feed.Hub
	handler *TaskHandler
	service *services.TaskService
}

// SetupTest runs before each test
func (suite *TaskHandlerTestSuite) SetupTest() {
	var err error

	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(
		&models.Profile{},
		&models.Project{},
		&models.ProjectMember{},
		&models.Task{},
	)
	suite.Require().NoError(err)

	database.SetDB(suite.db)

	taskRepo := repository.NewTaskRepository(suite.db)
	projectRepo := repository.NewProjectRepository(suite.db)
	suite.hub = feed.NewHub()
	suite.service = services.NewTaskService(taskRepo, projectRepo, suite.hub, nil)
	suite.handler = NewTaskHandler(suite.service)

	gin.SetMode(gin.TestMode)
}

// TearDownTest runs after each test
func (suite *TaskHandlerTestSuite) TearDownTest() {
	suite.hub.Close()
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *TaskHandlerTestSuite) createTestProfile(email string) *models.Profile {
	profile := &models.Profile{
		Email:        email,
		PasswordHash: "hashedpassword",
	}
	suite.db.Create(profile)
	return profile
}

func (suite *TaskHandlerTestSuite) createTestProject(name string, ownerID uint64) *models.Project {
	project := &models.Project{
		Name:    name,
		Status:  models.ProjectStatusActive,
		OwnerID: ownerID,
	}
	suite.db.Create(project)
	suite.db.Create(&models.ProjectMember{
		ProjectID: project.ID,
		UserID:    ownerID,
		Role:      models.RoleOwner,
	})
	return project
}

// createAuthContext builds a request context carrying an authenticated user.
func (suite *TaskHandlerTestSuite) createAuthContext(method, url string, body []byte, userID uint64) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, url, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Set(constants.ContextKeyUserID, userID)

	return c, w
}

func (suite *TaskHandlerTestSuite) membershipCount(projectID, userID uint64) int64 {
	var count int64
	suite.db.Model(&models.ProjectMember{}).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Count(&count)
	return count
}

func (suite *TaskHandlerTestSuite) TestCreateTask_EnrollsAssignee() {
	creator := suite.createTestProfile("creator@example.com")
	assignee := suite.createTestProfile("assignee@example.com")
	project := suite.createTestProject("Launch", creator.ID)

	payload := map[string]any{
		"title":      "Write release notes",
		"projectId":  project.ID,
		"assigneeId": assignee.ID,
	}
	body, _ := json.Marshal(payload)

	c, w := suite.createAuthContext(http.MethodPost, "/api/tasks", body, creator.ID)
	suite.handler.CreateTask(c)

	suite.Equal(http.StatusCreated, w.Code)

	var view dto.TaskView
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &view))
	suite.Equal("Write release notes", view.Title)
	suite.Equal(models.TaskStatusTodo, view.Status)
	suite.Equal(models.TaskPriorityMedium, view.Priority)

	// Assigning someone enrolls them in the project.
	suite.EqualValues(1, suite.membershipCount(project.ID, assignee.ID))
}

func (suite *TaskHandlerTestSuite) TestCreateTask_NoProject() {
	creator := suite.createTestProfile("creator@example.com")

	payload := map[string]any{"title": "Floating task"}
	body, _ := json.Marshal(payload)

	c, w := suite.createAuthContext(http.MethodPost, "/api/tasks", body, creator.ID)
	suite.handler.CreateTask(c)

	suite.Equal(http.StatusBadRequest, w.Code)

	var response map[string]string
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.Equal("No project selected", response["error"])
}

func (suite *TaskHandlerTestSuite) TestCreateTask_UnknownProject() {
	creator := suite.createTestProfile("creator@example.com")

	payload := map[string]any{
		"title":     "Homeless task",
		"projectId": 9999,
	}
	body, _ := json.Marshal(payload)

	c, w := suite.createAuthContext(http.MethodPost, "/api/tasks", body, creator.ID)
	suite.handler.CreateTask(c)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *TaskHandlerTestSuite) TestUpdateTask_PresentationFieldNames() {
	creator := suite.createTestProfile("creator@example.com")
	assignee := suite.createTestProfile("assignee@example.com")
	project := suite.createTestProject("Launch", creator.ID)

	task, err := suite.service.CreateTask(services.CreateTaskInput{
		Title:     "Draft plan",
		ProjectID: &project.ID,
		CreatedBy: creator.ID,
	})
	suite.Require().NoError(err)

	payload := map[string]any{
		"status":     "in_progress",
		"assigneeId": assignee.ID,
		"bogusField": "dropped silently",
	}
	body, _ := json.Marshal(payload)

	c, w := suite.createAuthContext(http.MethodPatch, fmt.Sprintf("/api/tasks/%d", task.ID), body, creator.ID)
	c.Set("task", task)
	suite.handler.UpdateTask(c)

	suite.Equal(http.StatusOK, w.Code)

	var view dto.TaskView
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &view))
	suite.Equal(models.TaskStatusInProgress, view.Status)
	suite.Require().NotNil(view.AssigneeID)
	suite.EqualValues(assignee.ID, *view.AssigneeID)
	suite.True(view.UpdatedAt.After(task.UpdatedAt) || view.UpdatedAt.Equal(task.UpdatedAt))
}

func (suite *TaskHandlerTestSuite) TestUpdateTask_InvalidStatus() {
	creator := suite.createTestProfile("creator@example.com")
	project := suite.createTestProject("Launch", creator.ID)

	task, err := suite.service.CreateTask(services.CreateTaskInput{
		Title:     "Draft plan",
		ProjectID: &project.ID,
		CreatedBy: creator.ID,
	})
	suite.Require().NoError(err)

	payload := map[string]any{"status": "paused"}
	body, _ := json.Marshal(payload)

	c, w := suite.createAuthContext(http.MethodPatch, fmt.Sprintf("/api/tasks/%d", task.ID), body, creator.ID)
	c.Set("task", task)
	suite.handler.UpdateTask(c)

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *TaskHandlerTestSuite) TestDeleteTask_LastTaskRemovesMembership() {
	creator := suite.createTestProfile("creator@example.com")
	assignee := suite.createTestProfile("assignee@example.com")
	project := suite.createTestProject("Launch", creator.ID)

	task, err := suite.service.CreateTask(services.CreateTaskInput{
		Title:      "Only task",
		ProjectID:  &project.ID,
		AssigneeID: &assignee.ID,
		CreatedBy:  creator.ID,
	})
	suite.Require().NoError(err)
	suite.EqualValues(1, suite.membershipCount(project.ID, assignee.ID))

	c, w := suite.createAuthContext(http.MethodDelete, fmt.Sprintf("/api/tasks/%d", task.ID), nil, creator.ID)
	c.Set("task", task)
	suite.handler.DeleteTask(c)

	suite.Equal(http.StatusOK, w.Code)
	suite.EqualValues(0, suite.membershipCount(project.ID, assignee.ID))
}

func (suite *TaskHandlerTestSuite) TestDeleteTask_OtherTaskKeepsMembership() {
	creator := suite.createTestProfile("creator@example.com")
	assignee := suite.createTestProfile("assignee@example.com")
	project := suite.createTestProject("Launch", creator.ID)

	first, err := suite.service.CreateTask(services.CreateTaskInput{
		Title:      "First task",
		ProjectID:  &project.ID,
		AssigneeID: &assignee.ID,
		CreatedBy:  creator.ID,
	})
	suite.Require().NoError(err)
	_, err = suite.service.CreateTask(services.CreateTaskInput{
		Title:      "Second task",
		ProjectID:  &project.ID,
		AssigneeID: &assignee.ID,
		CreatedBy:  creator.ID,
	})
	suite.Require().NoError(err)

	c, w := suite.createAuthContext(http.MethodDelete, fmt.Sprintf("/api/tasks/%d", first.ID), nil, creator.ID)
	c.Set("task", first)
	suite.handler.DeleteTask(c)

	suite.Equal(http.StatusOK, w.Code)
	suite.EqualValues(1, suite.membershipCount(project.ID, assignee.ID))
}

func (suite *TaskHandlerTestSuite) TestDeleteTask_NeverRemovesOwnerMembership() {
	creator := suite.createTestProfile("creator@example.com")
	project := suite.createTestProject("Launch", creator.ID)

	// The owner assigns the only task to themselves, then deletes it.
	task, err := suite.service.CreateTask(services.CreateTaskInput{
		Title:      "Self-assigned",
		ProjectID:  &project.ID,
		AssigneeID: &creator.ID,
		CreatedBy:  creator.ID,
	})
	suite.Require().NoError(err)

	c, w := suite.createAuthContext(http.MethodDelete, fmt.Sprintf("/api/tasks/%d", task.ID), nil, creator.ID)
	c.Set("task", task)
	suite.handler.DeleteTask(c)

	suite.Equal(http.StatusOK, w.Code)

	var member models.ProjectMember
	err = suite.db.Where("project_id = ? AND user_id = ?", project.ID, creator.ID).First(&member).Error
	suite.Require().NoError(err)
	suite.Equal(models.RoleOwner, member.Role)
}

func (suite *TaskHandlerTestSuite) TestDeleteTask_NotCreator() {
	creator := suite.createTestProfile("creator@example.com")
	other := suite.createTestProfile("other@example.com")
	project := suite.createTestProject("Launch", creator.ID)

	task, err := suite.service.CreateTask(services.CreateTaskInput{
		Title:     "Protected",
		ProjectID: &project.ID,
		CreatedBy: creator.ID,
	})
	suite.Require().NoError(err)

	c, w := suite.createAuthContext(http.MethodDelete, fmt.Sprintf("/api/tasks/%d", task.ID), nil, other.ID)
	c.Set("task", task)
	suite.handler.DeleteTask(c)

	suite.Equal(http.StatusForbidden, w.Code)

	var count int64
	suite.db.Model(&models.Task{}).Where("id = ?", task.ID).Count(&count)
	suite.EqualValues(1, count)
}

func (suite *TaskHandlerTestSuite) TestMutations_PublishFeedEvents() {
	creator := suite.createTestProfile("creator@example.com")
	project := suite.createTestProject("Launch", creator.ID)

	_, events := suite.hub.Subscribe()

	payload := map[string]any{
		"title":     "Observable",
		"projectId": project.ID,
	}
	body, _ := json.Marshal(payload)

	c, w := suite.createAuthContext(http.MethodPost, "/api/tasks", body, creator.ID)
	c.Request.Header.Set("X-Correlation-Id", "local-mutation-1")
	suite.handler.CreateTask(c)
	suite.Equal(http.StatusCreated, w.Code)

	event := <-events
	suite.Equal(feed.EventInsert, event.Type)
	suite.Equal("local-mutation-1", event.CorrelationID)
	suite.Equal("Observable", event.Task.Title)
	suite.Equal("local-mutation-1", w.Header().Get("X-Correlation-Id"))
}

func TestTaskHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(TaskHandlerTestSuite))
}
