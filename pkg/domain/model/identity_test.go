package model_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/taskhub/pkg/domain/model"
	"github.com/secmon-lab/taskhub/pkg/domain/types"
)

func TestNewIdentity(t *testing.T) {
	t.Run("parses role case-insensitively and dedupes departments", func(t *testing.T) {
		id, err := model.NewIdentity("U1", "director", []string{"finance", "", "finance", "ops"})
		gt.NoError(t, err).Required()

		gt.V(t, id.UserID).Equal(types.UserID("U1"))
		gt.V(t, id.Role).Equal(types.RoleDirector)
		gt.A(t, id.Departments).Length(2)
	})

	t.Run("trims department names before deduping", func(t *testing.T) {
		id, err := model.NewIdentity("U1", "director", []string{" eng", "eng ", "  ", "ops"})
		gt.NoError(t, err).Required()
		gt.V(t, id.Departments).Equal([]string{"eng", "ops"})
	})

	t.Run("rejects unknown role", func(t *testing.T) {
		_, err := model.NewIdentity("U1", "intern", nil)
		gt.Error(t, err)
	})

	t.Run("rejects empty user ID", func(t *testing.T) {
		_, err := model.NewIdentity("", "staff", nil)
		gt.Error(t, err)
	})
}

func TestIdentityContext(t *testing.T) {
	ctx := context.Background()

	_, err := model.IdentityFromContext(ctx)
	gt.Error(t, err)

	id := &model.Identity{UserID: "U1", Role: types.RoleStaff}
	got, err := model.IdentityFromContext(model.ContextWithIdentity(ctx, id))
	gt.NoError(t, err).Required()
	gt.V(t, got).Equal(id)
}
