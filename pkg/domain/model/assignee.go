package model

import (
	"github.com/secmon-lab/taskhub/pkg/domain/types"
)

// CanRemoveAssignees reports whether the role may take users off a task. It depends on
// the role alone; department membership is not consulted.
func CanRemoveAssignees(role types.Role) bool {
	return role.IsPrivileged()
}

// IsAssigneeRemoval reports whether replacing current with next only takes users away:
// next is a subset of current and at least one current assignee is missing from next.
// A change that adds anyone, even while removing others, is not a removal.
func IsAssigneeRemoval(current, next []types.UserID) bool {
	cur := make(map[types.UserID]struct{}, len(current))
	for _, id := range current {
		cur[id] = struct{}{}
	}

	nxt := make(map[types.UserID]struct{}, len(next))
	for _, id := range next {
		if _, ok := cur[id]; !ok {
			return false
		}
		nxt[id] = struct{}{}
	}

	return len(nxt) < len(cur)
}

// NormalizeAssignees drops empty and duplicate IDs, keeping first-seen order.
// The result is never nil so that an explicitly empty list stays distinguishable.
func NormalizeAssignees(ids []types.UserID) []types.UserID {
	out := make([]types.UserID, 0, len(ids))
	seen := make(map[types.UserID]struct{}, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
