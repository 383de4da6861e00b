package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/taskhub/pkg/domain/model"
	"github.com/secmon-lab/taskhub/pkg/domain/types"
	"github.com/secmon-lab/taskhub/pkg/usecase"
)

const maxRequestBody = 1 << 20

type taskHandler struct {
	task *usecase.TaskUseCase
}

type createTaskRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	AssigneeIDs []string   `json:"assignee_ids"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	ProjectID   string     `json:"project_id"`
	DueDate     *time.Time `json:"due_date"`
}

func (req *createTaskRequest) toInput() model.TaskInput {
	return model.TaskInput{
		Title:       req.Title,
		Description: req.Description,
		AssigneeIDs: toUserIDs(req.AssigneeIDs),
		Status:      types.TaskStatus(req.Status),
		Priority:    types.Priority(req.Priority),
		ProjectID:   types.ProjectID(req.ProjectID),
		DueDate:     req.DueDate,
	}
}

// patchTaskRequest uses pointers so absent fields stay untouched. A JSON null is
// treated as absent; "assignee_ids": [] is an explicit empty list.
type patchTaskRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	DueDate     *time.Time `json:"due_date"`
	Status      *string    `json:"status"`
	Priority    *string    `json:"priority"`
	ProjectID   *string    `json:"project_id"`
	IsArchived  *bool      `json:"is_archived"`
	AssigneeIDs *[]string  `json:"assignee_ids"`
}

func (req *patchTaskRequest) toPatch() model.TaskPatch {
	patch := model.TaskPatch{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		IsArchived:  req.IsArchived,
	}
	if req.Status != nil {
		s := types.TaskStatus(*req.Status)
		patch.Status = &s
	}
	if req.Priority != nil {
		p := types.Priority(*req.Priority)
		patch.Priority = &p
	}
	if req.ProjectID != nil {
		id := types.ProjectID(*req.ProjectID)
		patch.ProjectID = &id
	}
	if req.AssigneeIDs != nil {
		ids := toUserIDs(*req.AssigneeIDs)
		patch.AssigneeIDs = &ids
	}
	return patch
}

func toUserIDs(ids []string) []types.UserID {
	out := make([]types.UserID, len(ids))
	for i, id := range ids {
		out[i] = types.UserID(id)
	}
	return out
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody)).Decode(v); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

func identityOf(w http.ResponseWriter, r *http.Request) (*model.Identity, bool) {
	identity, err := model.IdentityFromContext(r.Context())
	if err != nil {
		handleError(w, r, goerr.Wrap(usecase.ErrNoIdentity, err.Error()))
		return nil, false
	}
	return identity, true
}

func (h *taskHandler) list(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityOf(w, r)
	if !ok {
		return
	}

	var opts usecase.ListOptions
	if v := r.URL.Query().Get("archived"); v != "" {
		archived, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "archived must be a boolean")
			return
		}
		opts.IncludeArchived = archived
	}
	opts.ProjectID = types.ProjectID(r.URL.Query().Get("project"))
	if r.URL.Query().Get("main") == "true" {
		root := types.TaskID("")
		opts.ParentID = &root
	}

	tasks, err := h.task.ListTasks(r.Context(), identity, opts)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toTaskResponses(tasks))
}

func (h *taskHandler) create(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityOf(w, r)
	if !ok {
		return
	}

	var req createTaskRequest
	if !decodeBody(w, r, &req) {
		return
	}

	created, err := h.task.CreateTask(r.Context(), identity, req.toInput())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, toTaskResponse(created))
}

func (h *taskHandler) get(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityOf(w, r)
	if !ok {
		return
	}

	task, err := h.task.GetTask(r.Context(), identity, types.TaskID(chi.URLParam(r, "taskID")))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toTaskResponse(task))
}

func (h *taskHandler) update(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityOf(w, r)
	if !ok {
		return
	}

	var req patchTaskRequest
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := h.task.UpdateTask(r.Context(), identity, types.TaskID(chi.URLParam(r, "taskID")), req.toPatch())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeUpdateResult(w, r, result)
}

func (h *taskHandler) listSubtasks(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityOf(w, r)
	if !ok {
		return
	}

	subtasks, err := h.task.ListSubtasks(r.Context(), identity, types.TaskID(chi.URLParam(r, "taskID")))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toTaskResponses(subtasks))
}

func (h *taskHandler) createSubtask(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityOf(w, r)
	if !ok {
		return
	}

	var req createTaskRequest
	if !decodeBody(w, r, &req) {
		return
	}

	created, err := h.task.CreateSubtask(r.Context(), identity, types.TaskID(chi.URLParam(r, "taskID")), req.toInput())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, toTaskResponse(created))
}

func (h *taskHandler) updateSubtask(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityOf(w, r)
	if !ok {
		return
	}

	var req patchTaskRequest
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := h.task.UpdateSubtask(r.Context(), identity,
		types.TaskID(chi.URLParam(r, "taskID")),
		types.TaskID(chi.URLParam(r, "subtaskID")),
		req.toPatch())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeUpdateResult(w, r, result)
}

func writeUpdateResult(w http.ResponseWriter, r *http.Request, result *model.UpdateResult) {
	switch result.Outcome {
	case model.UpdateOutcomeUpdated:
		writeJSON(w, r, http.StatusOK, toTaskResponse(result.Task))
	case model.UpdateOutcomeNoOp:
		w.WriteHeader(http.StatusNoContent)
	default:
		writeError(w, r, http.StatusNotFound, usecase.ErrTaskNotFound.Error())
	}
}

type archivedSubtaskResponse struct {
	Subtask  *taskResponse `json:"subtask"`
	MainTask *taskResponse `json:"main_task"`
}

func (h *taskHandler) listArchivedSubtasks(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityOf(w, r)
	if !ok {
		return
	}

	results, err := h.task.ListArchivedSubtasks(r.Context(), identity)
	if err != nil {
		handleError(w, r, err)
		return
	}

	resp := make([]archivedSubtaskResponse, len(results))
	for i, item := range results {
		resp[i] = archivedSubtaskResponse{
			Subtask:  toTaskResponse(item.Subtask),
			MainTask: toTaskResponse(item.MainTask),
		}
	}
	writeJSON(w, r, http.StatusOK, resp)
}
