package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/taskhub/pkg/domain/model"
	"github.com/secmon-lab/taskhub/pkg/domain/types"
)

type userRepository struct {
	pool *pgxpool.Pool
}

func (r *userRepository) GetAll(ctx context.Context) ([]*model.User, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, email, departments, updated_at FROM users ORDER BY id`)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to select users")
	}
	defer rows.Close()
	return scanUserRows(rows)
}

func (r *userRepository) UsersInDepartment(ctx context.Context, name string) ([]*model.User, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, email, departments, updated_at
		FROM users WHERE $1 = ANY(departments) ORDER BY id`, name)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to select department members", goerr.V("department", name))
	}
	defer rows.Close()
	return scanUserRows(rows)
}

// SaveMany upserts all users in a single batch
func (r *userRepository) SaveMany(ctx context.Context, users []*model.User) error {
	if len(users) == 0 {
		return nil
	}

	now := time.Now().UTC().Truncate(time.Microsecond)
	batch := &pgx.Batch{}
	for _, u := range users {
		depts := u.Departments
		if depts == nil {
			depts = []string{}
		}
		updatedAt := u.UpdatedAt
		if updatedAt.IsZero() {
			updatedAt = now
		}
		batch.Queue(`
			INSERT INTO users (id, name, email, departments, updated_at)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (id) DO UPDATE
			SET name = EXCLUDED.name, email = EXCLUDED.email,
			    departments = EXCLUDED.departments, updated_at = EXCLUDED.updated_at`,
			string(u.ID), u.Name, u.Email, depts, updatedAt)
	}

	if err := r.pool.SendBatch(ctx, batch).Close(); err != nil {
		return goerr.Wrap(err, "failed to upsert users", goerr.V("count", len(users)))
	}
	return nil
}

func scanUserRows(rows pgx.Rows) ([]*model.User, error) {
	users := make([]*model.User, 0)
	for rows.Next() {
		var (
			u  model.User
			id string
		)
		if err := rows.Scan(&id, &u.Name, &u.Email, &u.Departments, &u.UpdatedAt); err != nil {
			return nil, goerr.Wrap(err, "failed to scan user")
		}
		u.ID = types.UserID(id)
		users = append(users, &u)
	}
	if err := rows.Err(); err != nil {
		return nil, goerr.Wrap(err, "row iteration failed")
	}
	return users, nil
}
