package storage

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	pgTaskColumns    = `id, title, description, priority, status, completed, due_at, created_at`
	pgSubtaskColumns = `id, task_id, title, completed, created_at`
)

type PostgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) (*PostgresRepository, error) {
	if pool == nil {
		return nil, errors.New("storage: nil pool")
	}
	return &PostgresRepository{pool: pool}, nil
}

// OpenPostgres connects to dsn, pings, and applies pending migrations.
func OpenPostgres(ctx context.Context, dsn string) (*PostgresRepository, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	repo := &PostgresRepository{pool: pool}
	if err := repo.MigrateUp(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return repo, nil
}

func (r *PostgresRepository) Close() error {
	r.pool.Close()
	return nil
}

func (r *PostgresRepository) execer(ctx context.Context) execer {
	return func(query string) error {
		_, err := r.pool.Exec(ctx, query)
		return err
	}
}

func (r *PostgresRepository) CreateTask(ctx context.Context, in Task) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO tasks (`+pgTaskColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		in.ID, in.Title, in.Description, in.Priority, in.Status, in.Completed, utcPtr(in.DueAt), in.CreatedAt.UTC(),
	)
	return err
}

func (r *PostgresRepository) GetTask(ctx context.Context, id string) (Task, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+pgTaskColumns+` FROM tasks WHERE id = $1`, id)
	task, err := scanPgTask(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Task{}, ErrNotFound
		}
		return Task{}, err
	}
	return task, nil
}

func (r *PostgresRepository) UpdateTask(ctx context.Context, in Task) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE tasks
		SET title = $1, description = $2, priority = $3, status = $4, completed = $5, due_at = $6
		WHERE id = $7`,
		in.Title, in.Description, in.Priority, in.Status, in.Completed, utcPtr(in.DueAt), in.ID,
	)
	if err != nil {
		return err
	}
	return checkCommandTag(tag)
}

func (r *PostgresRepository) DeleteTask(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkCommandTag(tag)
}

func (r *PostgresRepository) ListTasks(ctx context.Context, filter TaskListFilter) ([]Task, error) {
	query := `SELECT ` + pgTaskColumns + ` FROM tasks`
	args := make([]any, 0, 3)
	if filter.Status != "" {
		args = append(args, filter.Status)
		query += ` WHERE status = $1`
	}
	query += ` ORDER BY created_at ASC, id ASC`
	query += applyPgPagination(&args, filter.Limit, filter.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Task, 0)
	for rows.Next() {
		task, scanErr := scanPgTask(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, task)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) CreateSubtask(ctx context.Context, in Subtask) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO subtasks (`+pgSubtaskColumns+`)
		VALUES ($1, $2, $3, $4, $5)`,
		in.ID, in.TaskID, in.Title, in.Completed, in.CreatedAt.UTC(),
	)
	return err
}

func (r *PostgresRepository) GetSubtask(ctx context.Context, id string) (Subtask, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+pgSubtaskColumns+` FROM subtasks WHERE id = $1`, id)
	item, err := scanPgSubtask(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Subtask{}, ErrNotFound
		}
		return Subtask{}, err
	}
	return item, nil
}

func (r *PostgresRepository) UpdateSubtask(ctx context.Context, in Subtask) error {
	tag, err := r.pool.Exec(ctx, `UPDATE subtasks SET title = $1, completed = $2 WHERE id = $3`,
		in.Title, in.Completed, in.ID,
	)
	if err != nil {
		return err
	}
	return checkCommandTag(tag)
}

func (r *PostgresRepository) DeleteSubtask(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM subtasks WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkCommandTag(tag)
}

func (r *PostgresRepository) ListSubtasks(ctx context.Context, filter SubtaskListFilter) ([]Subtask, error) {
	query := `SELECT ` + pgSubtaskColumns + ` FROM subtasks`
	args := make([]any, 0, 3)
	if filter.TaskID != "" {
		args = append(args, filter.TaskID)
		query += ` WHERE task_id = $1`
	}
	query += ` ORDER BY created_at ASC, id ASC`
	query += applyPgPagination(&args, filter.Limit, filter.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Subtask, 0)
	for rows.Next() {
		item, scanErr := scanPgSubtask(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

func applyPgPagination(args *[]any, limit, offset int) string {
	sql := ""
	if limit > 0 {
		*args = append(*args, limit)
		sql += " LIMIT $" + strconv.Itoa(len(*args))
	}
	if offset > 0 {
		*args = append(*args, offset)
		sql += " OFFSET $" + strconv.Itoa(len(*args))
	}
	return sql
}

func scanPgTask(row pgx.Row) (Task, error) {
	var out Task
	if err := row.Scan(&out.ID, &out.Title, &out.Description, &out.Priority, &out.Status, &out.Completed, &out.DueAt, &out.CreatedAt); err != nil {
		return Task{}, err
	}
	out.CreatedAt = out.CreatedAt.UTC()
	out.DueAt = utcPtr(out.DueAt)
	return out, nil
}

func scanPgSubtask(row pgx.Row) (Subtask, error) {
	var out Subtask
	if err := row.Scan(&out.ID, &out.TaskID, &out.Title, &out.Completed, &out.CreatedAt); err != nil {
		return Subtask{}, err
	}
	out.CreatedAt = out.CreatedAt.UTC()
	return out, nil
}

func utcPtr(v *time.Time) *time.Time {
	if v == nil {
		return nil
	}
	u := v.UTC()
	return &u
}

func checkCommandTag(tag pgconn.CommandTag) error {
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
