package http

import (
	"net/http"
)

type meResponse struct {
	UserID      string   `json:"user_id"`
	Role        string   `json:"role"`
	Departments []string `json:"departments"`
}

func meHandler(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityOf(w, r)
	if !ok {
		return
	}

	departments := identity.Departments
	if departments == nil {
		departments = []string{}
	}
	writeJSON(w, r, http.StatusOK, meResponse{
		UserID:      identity.UserID.String(),
		Role:        identity.Role.String(),
		Departments: departments,
	})
}
