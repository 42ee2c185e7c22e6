package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/devspell/cli/internal/project"
)

const schemaSQL = `
create table if not exists chat_history (
  id           text primary key,
  user_id      text not null,
  user_message text not null,
  llm_response text not null,
  type         text not null,
  created_at   timestamptz not null
);
create index if not exists chat_history_user_idx on chat_history (user_id, created_at desc);

create table if not exists projects (
  id           text primary key,
  user_id      text not null,
  name         text not null,
  slug         text not null,
  config       jsonb,
  plan         text not null default '',
  files        text[] not null default '{}',
  placeholders text[] not null default '{}',
  diagnostics  text[] not null default '{}',
  location     text not null default '',
  created_at   timestamptz not null
);
create index if not exists projects_user_idx on projects (user_id, created_at desc);
`

// PostgresSink stores records in the chat_history and projects tables.
type PostgresSink struct {
	pool *pgxpool.Pool
}

// NewPostgresSink opens a pool for dsn and pings it.
func NewPostgresSink(ctx context.Context, dsn string) (*PostgresSink, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	cfg.MaxConns = 4
	cfg.MaxConnIdleTime = 5 * time.Minute
	cfg.HealthCheckPeriod = 30 * time.Second

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return &PostgresSink{pool: pool}, nil
}

// NewPostgresSinkFromPool wraps an existing pool.
func NewPostgresSinkFromPool(pool *pgxpool.Pool) *PostgresSink {
	return &PostgresSink{pool: pool}
}

// EnsureSchema creates the tables if they do not exist.
func (s *PostgresSink) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

func (s *PostgresSink) SaveChat(ctx context.Context, userID string, rec ChatRecord) (string, error) {
	rec, err := prepareChat(userID, rec)
	if err != nil {
		return "", err
	}
	const q = `
insert into chat_history (id, user_id, user_message, llm_response, type, created_at)
values ($1, $2, $3, $4, $5, $6)
`
	if _, err := s.pool.Exec(ctx, q, rec.ID, rec.UserID, rec.UserMessage, rec.LLMResponse, rec.Type, rec.CreatedAt); err != nil {
		return "", fmt.Errorf("saving chat history: %w", err)
	}
	return rec.ID, nil
}

func (s *PostgresSink) SaveProject(ctx context.Context, userID string, rec ProjectRecord) (string, error) {
	rec, err := prepareProject(userID, rec)
	if err != nil {
		return "", err
	}

	var cfg []byte
	if rec.Config != nil {
		if cfg, err = json.Marshal(rec.Config); err != nil {
			return "", fmt.Errorf("encoding project config: %w", err)
		}
	}

	const q = `
insert into projects (id, user_id, name, slug, config, plan, files, placeholders, diagnostics, location, created_at)
values ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
`
	_, err = s.pool.Exec(ctx, q,
		rec.ID, rec.UserID, rec.Name, rec.Slug, cfg, rec.Plan,
		rec.Files, nonNil(rec.Placeholders), nonNil(rec.Diagnostics), rec.Location, rec.CreatedAt)
	if err != nil {
		return "", fmt.Errorf("saving project: %w", err)
	}
	return rec.ID, nil
}

func (s *PostgresSink) ListProjects(ctx context.Context, userID string, limit int) ([]ProjectRecord, error) {
	if err := checkUser(userID); err != nil {
		return nil, err
	}

	q := `
select id, user_id, name, slug, config, plan, files, placeholders, diagnostics, location, created_at
from projects
where user_id=$1
order by created_at desc
`
	args := []any{userID}
	if limit > 0 {
		q += "limit $2"
		args = append(args, limit)
	}

	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	defer rows.Close()

	out := []ProjectRecord{}
	for rows.Next() {
		var (
			rec ProjectRecord
			cfg []byte
		)
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.Name, &rec.Slug, &cfg, &rec.Plan,
			&rec.Files, &rec.Placeholders, &rec.Diagnostics, &rec.Location, &rec.CreatedAt); err != nil {
			return nil, err
		}
		if len(cfg) > 0 {
			rec.Config = &project.Config{}
			if err := json.Unmarshal(cfg, rec.Config); err != nil {
				return nil, fmt.Errorf("decoding project %s config: %w", rec.ID, err)
			}
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *PostgresSink) Close() error {
	s.pool.Close()
	return nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
