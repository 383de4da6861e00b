package model

import (
	"context"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/taskhub/pkg/domain/types"
)

// Identity is the requester context. It is never persisted; callers build one per
// request from whatever authenticated the requester.
type Identity struct {
	UserID      types.UserID
	Role        types.Role
	Departments []string
}

// NewIdentity builds an Identity, parsing role case-insensitively. Department
// names are trimmed to match how the directory stores them.
func NewIdentity(userID string, role string, departments []string) (*Identity, error) {
	if userID == "" {
		return nil, goerr.New("user ID is required")
	}
	r, err := types.ParseRole(role)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to parse role", goerr.V("user_id", userID))
	}

	depts := make([]string, 0, len(departments))
	seen := make(map[string]bool, len(departments))
	for _, d := range departments {
		d = strings.TrimSpace(d)
		if d == "" || seen[d] {
			continue
		}
		seen[d] = true
		depts = append(depts, d)
	}

	return &Identity{
		UserID:      types.UserID(userID),
		Role:        r,
		Departments: depts,
	}, nil
}

type identityContextKey struct{}

// ContextWithIdentity stores the identity in the context
func ContextWithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityContextKey{}, id)
}

// IdentityFromContext retrieves the identity from the context
func IdentityFromContext(ctx context.Context) (*Identity, error) {
	id, ok := ctx.Value(identityContextKey{}).(*Identity)
	if !ok || id == nil {
		return nil, goerr.New("identity not found in context")
	}
	return id, nil
}
