package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"agencydesk/internal/board"
	"agencydesk/internal/models"
)

type taskRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Stage       string   `json:"stage"`
	Resources   []string `json:"resources"`
}

type moveRequest struct {
	Stage string `json:"stage"`
}

type commentRequest struct {
	Content string `json:"content"`
	Type    string `json:"type"`
}

// handleListTasks fetches a project's board: every task with comments,
// plus the per-column views and the stage rollup.
func (s *Server) handleListTasks(c *gin.Context) {
	project, ok := s.visibleProject(c)
	if !ok {
		return
	}

	b := board.New(s.store, project.ID)
	if err := b.Refresh(c.Request.Context()); err != nil {
		s.respondError(c, err)
		return
	}

	columns := make(map[models.Stage][]models.Task, len(models.Stages))
	for _, stage := range models.Stages {
		columns[stage] = b.TasksByStage(stage)
	}
	respondSuccess(c, http.StatusOK, gin.H{
		"tasks":    b.Tasks(),
		"columns":  columns,
		"stage":    b.Rollup(),
		"progress": b.Progress(),
	})
}

// handleCreateTask adds a task to a project's board.
func (s *Server) handleCreateTask(c *gin.Context) {
	project, ok := s.visibleProject(c)
	if !ok {
		return
	}
	if project.Status == models.ProjectFinished {
		respondStatus(c, http.StatusConflict, "project is finished")
		return
	}

	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondStatus(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	b := board.New(s.store, project.ID)
	if err := b.Refresh(c.Request.Context()); err != nil {
		s.respondError(c, err)
		return
	}

	task, err := b.CreateTask(c.Request.Context(), req.Title, req.Description, models.Stage(req.Stage), currentUser(c).ID)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusCreated, gin.H{"task": task})
}

// handleMoveTask moves a task to another board column. The board of a
// finished project is locked.
func (s *Server) handleMoveTask(c *gin.Context) {
	b, _, ok := s.boardForTask(c, true)
	if !ok {
		return
	}

	var req moveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondStatus(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	task, err := b.MoveTask(c.Request.Context(), c.Param("id"), models.Stage(req.Stage))
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"task": task})
}

// handleAddComment appends a comment, approval or change request to a
// task. Comments stay writable after a project finishes; sign-off often
// happens there.
func (s *Server) handleAddComment(c *gin.Context) {
	b, _, ok := s.boardForTask(c, false)
	if !ok {
		return
	}

	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondStatus(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	task, err := b.AddComment(c.Request.Context(), c.Param("id"), req.Content, currentUser(c).Name, models.CommentType(req.Type))
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusCreated, gin.H{"task": task})
}

// boardForTask resolves the :id task to its project's board, enforcing
// project visibility and, when lockFinished is set, the finished lock.
func (s *Server) boardForTask(c *gin.Context, lockFinished bool) (*board.Board, models.Task, bool) {
	task, err := s.store.GetTask(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return nil, models.Task{}, false
	}

	project, err := s.store.GetProject(c.Request.Context(), task.ProjectID)
	if err != nil {
		s.respondError(c, err)
		return nil, models.Task{}, false
	}
	if !canAccessProject(currentUser(c), project) {
		respondStatus(c, http.StatusNotFound, "task "+task.ID+" not found")
		return nil, models.Task{}, false
	}
	if lockFinished && project.Status == models.ProjectFinished {
		respondStatus(c, http.StatusConflict, "project is finished")
		return nil, models.Task{}, false
	}

	b := board.New(s.store, project.ID)
	if err := b.Refresh(c.Request.Context()); err != nil {
		s.respondError(c, err)
		return nil, models.Task{}, false
	}
	return b, task, true
}
