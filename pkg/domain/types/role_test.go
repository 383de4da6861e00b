package types_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/taskhub/pkg/domain/types"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    types.Role
		wantErr bool
	}{
		{name: "upper staff", input: "STAFF", want: types.RoleStaff},
		{name: "lower manager", input: "manager", want: types.RoleManager},
		{name: "mixed director", input: "Director", want: types.RoleDirector},
		{name: "managing director with spaces", input: "  managing_director ", want: types.RoleManagingDirector},
		{name: "unknown", input: "admin", wantErr: true},
		{name: "empty", input: "", wantErr: true},
		{name: "hyphenated is not accepted", input: "managing-director", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := types.ParseRole(tt.input)
			if tt.wantErr {
				gt.Error(t, err)
				return
			}
			gt.NoError(t, err).Required()
			gt.V(t, got).Equal(tt.want)
		})
	}
}

func TestRole_IsPrivileged(t *testing.T) {
	tests := []struct {
		role types.Role
		want bool
	}{
		{types.RoleStaff, false},
		{types.RoleManager, true},
		{types.RoleDirector, true},
		{types.RoleManagingDirector, true},
		{types.Role("UNKNOWN"), false},
	}

	for _, tt := range tests {
		t.Run(tt.role.String(), func(t *testing.T) {
			if tt.want {
				gt.B(t, tt.role.IsPrivileged()).True()
			} else {
				gt.B(t, tt.role.IsPrivileged()).False()
			}
		})
	}
}

func TestRole_SeesAllTasks(t *testing.T) {
	gt.B(t, types.RoleManagingDirector.SeesAllTasks()).True()
	gt.B(t, types.RoleDirector.SeesAllTasks()).False()
	gt.B(t, types.RoleManager.SeesAllTasks()).False()
	gt.B(t, types.RoleStaff.SeesAllTasks()).False()
}

func TestAllRoles(t *testing.T) {
	roles := types.AllRoles()
	gt.A(t, roles).Length(4)
	for _, r := range roles {
		gt.B(t, r.IsValid()).True()
	}
}
