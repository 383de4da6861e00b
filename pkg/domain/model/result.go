package model

// UpdateOutcome tells apart the three results of applying a patch
type UpdateOutcome int

const (
	// UpdateOutcomeUpdated means the change-set was written
	UpdateOutcomeUpdated UpdateOutcome = iota
	// UpdateOutcomeNoOp means nothing was left to write and the store was not touched
	UpdateOutcomeNoOp
	// UpdateOutcomeNotFound means the task does not exist or is not visible to the requester
	UpdateOutcomeNotFound
)

func (o UpdateOutcome) String() string {
	switch o {
	case UpdateOutcomeUpdated:
		return "updated"
	case UpdateOutcomeNoOp:
		return "no-op"
	case UpdateOutcomeNotFound:
		return "not-found"
	default:
		return "unknown"
	}
}

// UpdateResult is returned by the task mutator. Task is set only for UpdateOutcomeUpdated.
type UpdateResult struct {
	Outcome UpdateOutcome
	Task    *Task
}

// ArchivedSubtask pairs an archived subtask with its main task. MainTask is nil when the
// parent is not part of the requester's visible set.
type ArchivedSubtask struct {
	Subtask  *Task
	MainTask *Task
}
