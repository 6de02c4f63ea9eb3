package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sandeepkv93/taskboard/internal/model"
	"github.com/sandeepkv93/taskboard/internal/service"
)

const dateOnly = "2006-01-02"

type createTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
	DueDate     string `json:"dueDate"`
}

// updateTaskRequest mirrors a partial task. Unknown fields such as id or
// subtasks are ignored.
type updateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Priority    *string `json:"priority"`
	DueDate     *string `json:"dueDate"`
	Status      *string `json:"status"`
	Completed   *bool   `json:"completed"`
}

type createSubtaskRequest struct {
	TaskID string `json:"taskId"`
	Title  string `json:"title"`
}

type updateSubtaskRequest struct {
	Title     *string `json:"title"`
	Completed *bool   `json:"completed"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleListTasks(c *gin.Context) {
	tasks, err := s.svc.ListTasks(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch tasks"})
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func (s *Server) handleCreateTask(c *gin.Context) {
	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if req.Title == "" || req.Description == "" || req.Priority == "" || req.DueDate == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}
	due, err := parseDueDate(req.DueDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid due date", "fields": gin.H{"dueDate": err.Error()}})
		return
	}

	task, err := s.svc.CreateTask(c.Request.Context(), model.TaskForm{
		Title:       req.Title,
		Description: req.Description,
		Priority:    model.Priority(strings.ToLower(req.Priority)),
		DueDate:     due,
	})
	if err != nil {
		s.writeError(c, err, "Task not found", "Failed to create task")
		return
	}
	c.JSON(http.StatusCreated, task)
}

func (s *Server) handleGetTask(c *gin.Context) {
	task, err := s.svc.GetTask(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.writeError(c, err, "Task not found", "Failed to fetch task")
		return
	}
	c.JSON(http.StatusOK, task)
}

func (s *Server) handleUpdateTask(c *gin.Context) {
	var req updateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	patch, err := req.patch()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid due date", "fields": gin.H{"dueDate": err.Error()}})
		return
	}

	task, err := s.svc.UpdateTask(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		s.writeError(c, err, "Task not found", "Failed to update task")
		return
	}
	c.JSON(http.StatusOK, task)
}

func (s *Server) handleDeleteTask(c *gin.Context) {
	if err := s.svc.DeleteTask(c.Request.Context(), c.Param("id")); err != nil {
		s.writeError(c, err, "Task not found", "Failed to delete task")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) handleListSubtasks(c *gin.Context) {
	taskID := c.Query("taskId")
	if taskID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "taskId parameter is required"})
		return
	}
	subs, err := s.svc.ListSubtasks(c.Request.Context(), taskID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch subtasks"})
		return
	}
	c.JSON(http.StatusOK, subs)
}

func (s *Server) handleCreateSubtask(c *gin.Context) {
	var req createSubtaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if req.TaskID == "" || req.Title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "taskId and title are required"})
		return
	}
	sub, err := s.svc.CreateSubtask(c.Request.Context(), req.TaskID, req.Title)
	if err != nil {
		s.writeError(c, err, "Task not found", "Failed to create subtask")
		return
	}
	c.JSON(http.StatusCreated, sub)
}

func (s *Server) handleUpdateSubtask(c *gin.Context) {
	var req updateSubtaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	sub, err := s.svc.UpdateSubtask(c.Request.Context(), c.Param("id"), model.SubtaskPatch{
		Title:     req.Title,
		Completed: req.Completed,
	})
	if err != nil {
		s.writeError(c, err, "Subtask not found", "Failed to update subtask")
		return
	}
	c.JSON(http.StatusOK, sub)
}

func (s *Server) handleDeleteSubtask(c *gin.Context) {
	if err := s.svc.DeleteSubtask(c.Request.Context(), c.Param("id")); err != nil {
		s.writeError(c, err, "Subtask not found", "Failed to delete subtask")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) writeError(c *gin.Context, err error, notFound, internal string) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		msg := "Invalid fields"
		if verr.MissingRequired() {
			msg = "Missing required fields"
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": msg, "fields": verr.Fields})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": notFound})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": internal})
	}
}

func (r updateTaskRequest) patch() (model.TaskPatch, error) {
	patch := model.TaskPatch{
		Title:       r.Title,
		Description: r.Description,
		Completed:   r.Completed,
	}
	if r.Priority != nil {
		p := model.Priority(strings.ToLower(*r.Priority))
		patch.Priority = &p
	}
	if r.Status != nil {
		st := model.Status(strings.ToLower(*r.Status))
		patch.Status = &st
	}
	if r.DueDate != nil {
		due, err := parseDueDate(*r.DueDate)
		if err != nil {
			return model.TaskPatch{}, fmt.Errorf("invalid due date: %w", err)
		}
		patch.DueDate = &due
	}
	// Status decides when a full task is sent back.
	if patch.Status != nil && patch.Completed != nil {
		completed := *patch.Status == model.StatusDone
		patch.Completed = &completed
	}
	return patch, nil
}

// parseDueDate accepts an RFC 3339 timestamp or a bare YYYY-MM-DD date.
func parseDueDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t, nil
	}
	t, err := time.Parse(dateOnly, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("expected RFC 3339 or %s, got %q", dateOnly, raw)
	}
	return t, nil
}
