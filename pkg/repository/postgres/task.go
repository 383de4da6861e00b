package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/taskhub/pkg/domain/model"
	"github.com/secmon-lab/taskhub/pkg/domain/types"
)

var ErrAlreadyExists = goerr.New("already exists")

const taskColumns = `id, parent_id, owner_user_id, assignee_ids, status, is_archived, title, description, due_date, priority, project_id, created_at, updated_at`

type taskRepository struct {
	pool *pgxpool.Pool
}

func (r *taskRepository) Create(ctx context.Context, task *model.Task) (*model.Task, error) {
	t := task.Clone()
	if t.ID == "" {
		t.ID = types.NewTaskID()
	}
	now := time.Now().UTC().Truncate(time.Microsecond)
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	t.UpdatedAt = now

	_, err := r.pool.Exec(ctx, `
		INSERT INTO tasks (`+taskColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		string(t.ID), string(t.ParentID), string(t.OwnerUserID), userIDStrings(t.AssigneeIDs),
		string(t.Status), t.IsArchived, t.Title, t.Description, t.DueDate,
		string(t.Priority), string(t.ProjectID), t.CreatedAt, t.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, goerr.Wrap(ErrAlreadyExists, "task already exists", goerr.V("id", t.ID))
		}
		return nil, goerr.Wrap(err, "failed to insert task", goerr.V("id", t.ID))
	}

	return t, nil
}

func (r *taskRepository) SelectAll(ctx context.Context) ([]*model.Task, error) {
	return r.SelectByFilter(ctx, model.TaskFilter{})
}

func (r *taskRepository) SelectByFilter(ctx context.Context, filter model.TaskFilter) ([]*model.Task, error) {
	where, args := whereClause(filter, 1)
	rows, err := r.pool.Query(ctx, `SELECT `+taskColumns+` FROM tasks`+where+` ORDER BY created_at ASC, id ASC`, args...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to select tasks")
	}
	defer rows.Close()

	return scanTaskRows(rows)
}

// UpdateByFilter issues a single UPDATE ... RETURNING, so the write is atomic per row
func (r *taskRepository) UpdateByFilter(ctx context.Context, changes model.TaskChanges, filter model.TaskFilter) ([]*model.Task, error) {
	setClauses := []string{"updated_at = $1"}
	args := []any{time.Now().UTC().Truncate(time.Microsecond)}
	set := func(column string, v any) {
		args = append(args, v)
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if changes.Title != nil {
		set("title", *changes.Title)
	}
	if changes.Description != nil {
		set("description", *changes.Description)
	}
	if changes.DueDate != nil {
		set("due_date", *changes.DueDate)
	}
	if changes.Status != nil {
		set("status", string(*changes.Status))
	}
	if changes.Priority != nil {
		set("priority", string(*changes.Priority))
	}
	if changes.ProjectID != nil {
		set("project_id", string(*changes.ProjectID))
	}
	if changes.IsArchived != nil {
		set("is_archived", *changes.IsArchived)
	}
	if changes.AssigneeIDs != nil {
		set("assignee_ids", userIDStrings(changes.AssigneeIDs))
	}
	if changes.ParentID != nil {
		set("parent_id", string(*changes.ParentID))
	}

	where, whereArgs := whereClause(filter, len(args)+1)
	args = append(args, whereArgs...)

	query := `UPDATE tasks SET ` + strings.Join(setClauses, ", ") + where + ` RETURNING ` + taskColumns
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update tasks")
	}
	defer rows.Close()

	return scanTaskRows(rows)
}

// whereClause renders the filter starting at placeholder $start
func whereClause(filter model.TaskFilter, start int) (string, []any) {
	var conds []string
	var args []any
	add := func(column string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf("%s = $%d", column, start+len(args)-1))
	}

	if filter.ID != "" {
		add("id", string(filter.ID))
	}
	if filter.ParentID != nil {
		add("parent_id", string(*filter.ParentID))
	}
	if filter.OwnerUserID != "" {
		add("owner_user_id", string(filter.OwnerUserID))
	}
	if filter.IsArchived != nil {
		add("is_archived", *filter.IsArchived)
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func scanTaskRows(rows pgx.Rows) ([]*model.Task, error) {
	tasks := make([]*model.Task, 0)
	for rows.Next() {
		var (
			t         model.Task
			id        string
			parentID  string
			owner     string
			assignees []string
			status    string
			priority  string
			projectID string
		)
		if err := rows.Scan(&id, &parentID, &owner, &assignees, &status, &t.IsArchived, &t.Title, &t.Description, &t.DueDate, &priority, &projectID, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, goerr.Wrap(err, "failed to scan task")
		}
		t.ID = types.TaskID(id)
		t.ParentID = types.TaskID(parentID)
		t.OwnerUserID = types.UserID(owner)
		t.AssigneeIDs = make([]types.UserID, len(assignees))
		for i, a := range assignees {
			t.AssigneeIDs[i] = types.UserID(a)
		}
		t.Status = types.TaskStatus(status)
		t.Priority = types.Priority(priority)
		t.ProjectID = types.ProjectID(projectID)
		tasks = append(tasks, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, goerr.Wrap(err, "row iteration failed")
	}
	return tasks, nil
}

func userIDStrings(ids []types.UserID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = string(id)
	}
	return out
}
