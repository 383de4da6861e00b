package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/taskhub/pkg/domain/model"
	"github.com/secmon-lab/taskhub/pkg/usecase"
	"github.com/secmon-lab/taskhub/pkg/utils/errutil"
	"github.com/secmon-lab/taskhub/pkg/utils/logging"
	"github.com/secmon-lab/taskhub/pkg/utils/safe"
)

type errorResponse struct {
	Error string `json:"error"`
}

type taskResponse struct {
	ID          string     `json:"id"`
	ParentID    string     `json:"parent_id,omitempty"`
	OwnerUserID string     `json:"owner_user_id"`
	AssigneeIDs []string   `json:"assignee_ids"`
	Status      string     `json:"status"`
	IsArchived  bool       `json:"is_archived"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Priority    string     `json:"priority"`
	ProjectID   string     `json:"project_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func toTaskResponse(t *model.Task) *taskResponse {
	if t == nil {
		return nil
	}
	assignees := make([]string, len(t.AssigneeIDs))
	for i, id := range t.AssigneeIDs {
		assignees[i] = id.String()
	}
	return &taskResponse{
		ID:          t.ID.String(),
		ParentID:    t.ParentID.String(),
		OwnerUserID: t.OwnerUserID.String(),
		AssigneeIDs: assignees,
		Status:      t.Status.String(),
		IsArchived:  t.IsArchived,
		Title:       t.Title,
		Description: t.Description,
		DueDate:     t.DueDate,
		Priority:    t.Priority.String(),
		ProjectID:   t.ProjectID.String(),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func toTaskResponses(tasks []*model.Task) []*taskResponse {
	out := make([]*taskResponse, len(tasks))
	for i, t := range tasks {
		out[i] = toTaskResponse(t)
	}
	return out
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "failed to marshal response"), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	safe.Write(r.Context(), w, data)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, errorResponse{Error: msg})
}

// handleError maps use case errors to responses. Unknown errors are 500 and reported.
func handleError(w http.ResponseWriter, r *http.Request, err error) {
	var status int
	switch {
	case errors.Is(err, usecase.ErrValidation),
		errors.Is(err, usecase.ErrEmptyAssignees),
		errors.Is(err, usecase.ErrInvalidParent):
		status = http.StatusBadRequest
	case errors.Is(err, usecase.ErrTaskNotFound),
		errors.Is(err, usecase.ErrParentNotFound):
		status = http.StatusNotFound
	case errors.Is(err, usecase.ErrNoIdentity):
		status = http.StatusUnauthorized
	default:
		errutil.HandleHTTP(r.Context(), w, err, http.StatusInternalServerError)
		return
	}

	logging.From(r.Context()).Info("request rejected", "status", status, "error", err.Error())
	writeError(w, r, status, publicMessage(err))
}

// publicMessage keeps goerr values out of client responses
func publicMessage(err error) string {
	for _, sentinel := range []error{
		usecase.ErrEmptyAssignees,
		usecase.ErrInvalidParent,
		usecase.ErrTaskNotFound,
		usecase.ErrParentNotFound,
		usecase.ErrNoIdentity,
	} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	// validation messages name the offending field
	return err.Error()
}
