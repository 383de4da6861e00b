package types_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/taskhub/pkg/domain/types"
)

func TestTaskStatus_IsValid(t *testing.T) {
	tests := []struct {
		name   string
		status types.TaskStatus
		want   bool
	}{
		{
			name:   "valid to do",
			status: types.TaskStatusTodo,
			want:   true,
		},
		{
			name:   "valid in progress",
			status: types.TaskStatusInProgress,
			want:   true,
		},
		{
			name:   "valid completed",
			status: types.TaskStatusCompleted,
			want:   true,
		},
		{
			name:   "valid blocked",
			status: types.TaskStatusBlocked,
			want:   true,
		},
		{
			name:   "invalid status",
			status: types.TaskStatus("DONE"),
			want:   false,
		},
		{
			name:   "empty status",
			status: types.TaskStatus(""),
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.want {
				gt.B(t, tt.status.IsValid()).True()
			} else {
				gt.B(t, tt.status.IsValid()).False()
			}
		})
	}
}

func TestParseTaskStatus(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    types.TaskStatus
		wantErr bool
	}{
		{name: "to do", input: "TO_DO", want: types.TaskStatusTodo},
		{name: "completed", input: "COMPLETED", want: types.TaskStatusCompleted},
		{name: "lowercase is rejected", input: "completed", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := types.ParseTaskStatus(tt.input)
			if tt.wantErr {
				gt.Error(t, err)
				return
			}
			gt.NoError(t, err).Required()
			gt.V(t, got).Equal(tt.want)
		})
	}
}

func TestAllTaskStatuses(t *testing.T) {
	statuses := types.AllTaskStatuses()
	gt.A(t, statuses).Length(4)
	for _, s := range statuses {
		gt.B(t, s.IsValid()).True()
	}
}
