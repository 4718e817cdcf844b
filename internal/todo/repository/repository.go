package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4/pgxpool"

	commondb "github.com/semenovda/todo-vault/internal/common/db"
	commonerrors "github.com/semenovda/todo-vault/internal/common/errors"
	"github.com/semenovda/todo-vault/internal/todo/domain"
	userdomain "github.com/semenovda/todo-vault/internal/user/domain"
)

// Repository is the only access path to stored todos. Every method takes the
// owner; there is deliberately no unscoped variant, so cross-user reads or
// writes cannot be expressed at all.
type Repository interface {
	Create(ctx context.Context, todo domain.Todo) error
	ListByOwner(ctx context.Context, ownerID userdomain.ID) ([]domain.Todo, error)
	SetCompleted(ctx context.Context, id domain.ID, ownerID userdomain.ID, completed bool) error
	Delete(ctx context.Context, id domain.ID, ownerID userdomain.ID) error
}

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func (r *PgRepository) Create(ctx context.Context, todo domain.Todo) error {
	start := time.Now()
	_, err := r.pool.Exec(
		ctx,
		`INSERT INTO todos (id, owner_id, text, completed, created_at) VALUES ($1, $2, $3, $4, $5)`,
		string(todo.ID),
		string(todo.OwnerID),
		todo.Text,
		todo.Completed,
		todo.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			commondb.MeasureQueryDuration("create todo", start)
			return commonerrors.ErrTodoIDExists
		}
	}
	return commondb.HandleExecError(err, "create todo", start)
}

func (r *PgRepository) ListByOwner(ctx context.Context, ownerID userdomain.ID) ([]domain.Todo, error) {
	start := time.Now()
	rows, err := r.pool.Query(
		ctx,
		`SELECT id, owner_id, text, completed, created_at
		 FROM todos
		 WHERE owner_id = $1
		 ORDER BY created_at ASC, id ASC`,
		string(ownerID),
	)
	if err != nil {
		return nil, commondb.HandleQueryError(err, err, "list todos", start)
	}
	defer rows.Close()

	todos := make([]domain.Todo, 0)
	for rows.Next() {
		var t domain.Todo
		if err := rows.Scan(&t.ID, &t.OwnerID, &t.Text, &t.Completed, &t.CreatedAt); err != nil {
			return nil, commondb.HandleQueryError(err, err, "list todos", start)
		}
		todos = append(todos, t)
	}

	if rows.Err() != nil {
		return nil, commondb.HandleQueryError(rows.Err(), rows.Err(), "list todos", start)
	}

	commondb.MeasureQueryDuration("list todos", start)
	return todos, nil
}

// SetCompleted matches on (id, owner). A row owned by someone else affects
// zero rows and reports not found, identical to a missing id.
func (r *PgRepository) SetCompleted(ctx context.Context, id domain.ID, ownerID userdomain.ID, completed bool) error {
	start := time.Now()
	tag, err := r.pool.Exec(
		ctx,
		`UPDATE todos SET completed = $1 WHERE id = $2 AND owner_id = $3`,
		completed,
		string(id),
		string(ownerID),
	)
	if err != nil {
		return commondb.HandleExecError(err, "update todo", start)
	}
	commondb.MeasureQueryDuration("update todo", start)

	if tag.RowsAffected() == 0 {
		return commonerrors.ErrTodoNotFound
	}
	return nil
}

func (r *PgRepository) Delete(ctx context.Context, id domain.ID, ownerID userdomain.ID) error {
	start := time.Now()
	tag, err := r.pool.Exec(
		ctx,
		`DELETE FROM todos WHERE id = $1 AND owner_id = $2`,
		string(id),
		string(ownerID),
	)
	if err != nil {
		return commondb.HandleExecError(err, "delete todo", start)
	}
	commondb.MeasureQueryDuration("delete todo", start)

	if tag.RowsAffected() == 0 {
		return commonerrors.ErrTodoNotFound
	}
	return nil
}
