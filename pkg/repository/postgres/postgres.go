package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/taskhub/pkg/domain/interfaces"
)

// Postgres is a PostgreSQL-backed repository
type Postgres struct {
	pool *pgxpool.Pool
	task *taskRepository
	user *userRepository
}

var _ interfaces.Repository = &Postgres{}

// New connects to the database and verifies the connection
func New(ctx context.Context, dsn string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create postgres pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, goerr.Wrap(err, "failed to ping postgres")
	}

	return &Postgres{
		pool: pool,
		task: &taskRepository{pool: pool},
		user: &userRepository{pool: pool},
	}, nil
}

// EnsureSchema creates tables and indexes if they do not exist
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := p.pool.Exec(ctx, stmt); err != nil {
			return goerr.Wrap(err, "failed to apply schema", goerr.V("statement", stmt))
		}
	}
	return nil
}

// Schema returns the statements EnsureSchema applies, in order
func Schema() []string {
	return append([]string(nil), schema...)
}

func (p *Postgres) Task() interfaces.TaskRepository {
	return p.task
}

func (p *Postgres) User() interfaces.UserRepository {
	return p.user
}

func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS tasks (
		id            TEXT PRIMARY KEY,
		parent_id     TEXT NOT NULL DEFAULT '',
		owner_user_id TEXT NOT NULL,
		assignee_ids  TEXT[] NOT NULL DEFAULT '{}',
		status        TEXT NOT NULL DEFAULT 'TO_DO',
		is_archived   BOOLEAN NOT NULL DEFAULT FALSE,
		title         TEXT NOT NULL,
		description   TEXT NOT NULL DEFAULT '',
		due_date      TIMESTAMPTZ,
		priority      TEXT NOT NULL DEFAULT 'MEDIUM',
		project_id    TEXT NOT NULL DEFAULT '',
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CHECK (parent_id <> id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_parent ON tasks(parent_id) WHERE parent_id != ''`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_owner ON tasks(owner_user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_assignees ON tasks USING GIN (assignee_ids)`,
	`CREATE TABLE IF NOT EXISTS users (
		id          TEXT PRIMARY KEY,
		name        TEXT NOT NULL DEFAULT '',
		email       TEXT NOT NULL DEFAULT '',
		departments TEXT[] NOT NULL DEFAULT '{}',
		updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_users_departments ON users USING GIN (departments)`,
}
