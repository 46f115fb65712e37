package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/safepaws-ai/safepaws-backend/internal/store"
)

// ─────────────────────────────────────────────
// TYPES
// ─────────────────────────────────────────────

type taskRequest struct {
	Title      string `json:"title"`
	Desc       string `json:"desc"`
	AssignedTo string `json:"assigned_to"`
	Priority   string `json:"priority"`
	DueDate    string `json:"due_date"`
}

type taskStatusRequest struct {
	Status string `json:"status"`
}

// ─────────────────────────────────────────────
// HANDLERS
// ─────────────────────────────────────────────

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	user, _ := userFrom(r)

	var req taskRequest
	if err := decode(r, &req); err != nil {
		s.respondErr(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		s.respondErr(w, http.StatusBadRequest, "title is required")
		return
	}
	if req.AssignedTo != "" {
		if _, err := s.store.UserByEmail(req.AssignedTo); err != nil {
			s.respondErr(w, http.StatusBadRequest, "assignee is not a registered user")
			return
		}
	}

	task, err := s.store.CreateTask(store.NewTaskParams{
		Title:      req.Title,
		Desc:       req.Desc,
		AssignedTo: req.AssignedTo,
		CreatedBy:  user.Email,
		Priority:   req.Priority,
		DueDate:    req.DueDate,
	})
	if err != nil {
		s.respondErr(w, http.StatusInternalServerError, "could not save task")
		return
	}

	if req.AssignedTo != "" {
		if _, err := s.store.AppendNotification(req.AssignedTo, "New task assigned", req.Title); err != nil {
			s.logger.Error("notify assignee", "task", task.ID, "error", err)
		}
	}

	s.respond(w, http.StatusCreated, task)
}

// handleListTasks returns every task, or only the caller's with ?mine=true.
func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	user, _ := userFrom(r)
	if r.URL.Query().Get("mine") == "true" {
		s.respond(w, http.StatusOK, s.store.TasksByAssignee(user.Email))
		return
	}
	s.respond(w, http.StatusOK, s.store.ListTasks())
}

// handleUpdateTaskStatus lets the assignee (or an admin/ngo) move a task
// through its lifecycle.
func (s *Server) handleUpdateTaskStatus(w http.ResponseWriter, r *http.Request) {
	user, _ := userFrom(r)
	id := chi.URLParam(r, "id")

	var req taskStatusRequest
	if err := decode(r, &req); err != nil {
		s.respondErr(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if user.Role != store.RoleAdmin && user.Role != store.RoleNGO {
		owned := false
		for _, t := range s.store.TasksByAssignee(user.Email) {
			if t.ID == id {
				owned = true
				break
			}
		}
		if !owned {
			s.respondErr(w, http.StatusForbidden, "task is not assigned to you")
			return
		}
	}

	task, err := s.store.UpdateTaskStatus(id, req.Status)
	if err != nil {
		s.respondErr(w, storeErrStatus(err), err.Error())
		return
	}
	s.respond(w, http.StatusOK, task)
}
