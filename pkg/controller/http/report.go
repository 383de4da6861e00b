package http

import (
	"net/http"

	"github.com/secmon-lab/taskhub/pkg/domain/model"
	"github.com/secmon-lab/taskhub/pkg/usecase"
)

type reportHandler struct {
	report *usecase.ReportUseCase
}

type statusCountsResponse struct {
	Counts          map[string]int `json:"counts"`
	Total           int            `json:"total"`
	CompletionRatio float64        `json:"completion_ratio"`
}

type projectCompletionResponse struct {
	ProjectID string               `json:"project_id"`
	Summary   statusCountsResponse `json:"summary"`
}

type completionReportResponse struct {
	MainTasks statusCountsResponse        `json:"main_tasks"`
	Subtasks  statusCountsResponse        `json:"subtasks"`
	Projects  []projectCompletionResponse `json:"projects"`
}

func toStatusCountsResponse(c model.StatusCounts) statusCountsResponse {
	counts := make(map[string]int, len(c))
	for status, n := range c {
		counts[status.String()] = n
	}
	return statusCountsResponse{
		Counts:          counts,
		Total:           c.Total(),
		CompletionRatio: c.CompletionRatio(),
	}
}

func (h *reportHandler) completion(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityOf(w, r)
	if !ok {
		return
	}

	report, err := h.report.Completion(r.Context(), identity)
	if err != nil {
		handleError(w, r, err)
		return
	}

	resp := completionReportResponse{
		MainTasks: toStatusCountsResponse(report.MainTasks),
		Subtasks:  toStatusCountsResponse(report.Subtasks),
		Projects:  make([]projectCompletionResponse, len(report.Projects)),
	}
	for i, p := range report.Projects {
		resp.Projects[i] = projectCompletionResponse{
			ProjectID: p.ProjectID.String(),
			Summary:   toStatusCountsResponse(p.Counts),
		}
	}
	writeJSON(w, r, http.StatusOK, resp)
}
