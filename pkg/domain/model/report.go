package model

import (
	"sort"

	"github.com/secmon-lab/taskhub/pkg/domain/types"
)

// StatusCounts is the number of tasks per status
type StatusCounts map[types.TaskStatus]int

// Total returns the sum over all statuses
func (c StatusCounts) Total() int {
	total := 0
	for _, n := range c {
		total += n
	}
	return total
}

// CompletionRatio returns completed/total, or 0 for an empty set
func (c StatusCounts) CompletionRatio() float64 {
	total := c.Total()
	if total == 0 {
		return 0
	}
	return float64(c[types.TaskStatusCompleted]) / float64(total)
}

// ProjectCompletion is the per-project section of a completion report
type ProjectCompletion struct {
	ProjectID types.ProjectID
	Counts    StatusCounts
}

// CompletionReport summarises progress over a set of tasks
type CompletionReport struct {
	MainTasks StatusCounts
	Subtasks  StatusCounts
	Projects  []ProjectCompletion // sorted by ProjectID, "" (no project) first
}

// BuildCompletionReport aggregates the given tasks. Archived tasks are skipped.
func BuildCompletionReport(tasks []*Task) *CompletionReport {
	report := &CompletionReport{
		MainTasks: StatusCounts{},
		Subtasks:  StatusCounts{},
	}
	projects := make(map[types.ProjectID]StatusCounts)

	for _, t := range tasks {
		if t.IsArchived {
			continue
		}
		if t.IsMainTask() {
			report.MainTasks[t.Status]++
		} else {
			report.Subtasks[t.Status]++
		}

		counts, ok := projects[t.ProjectID]
		if !ok {
			counts = StatusCounts{}
			projects[t.ProjectID] = counts
		}
		counts[t.Status]++
	}

	report.Projects = make([]ProjectCompletion, 0, len(projects))
	for id, counts := range projects {
		report.Projects = append(report.Projects, ProjectCompletion{ProjectID: id, Counts: counts})
	}
	sort.Slice(report.Projects, func(i, j int) bool {
		return report.Projects[i].ProjectID < report.Projects[j].ProjectID
	})

	return report
}
