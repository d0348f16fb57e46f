package sqlite

import (
	"context"
	"database/sql"

	"github.com/cerebero/cerebero-server/internal/domain"
	"github.com/cerebero/cerebero-server/internal/store"
)

const todoColumns = `id, created_at, updated_at, user_id, title, completed`

func scanTodo(scanner interface{ Scan(dest ...any) error }) (*domain.Todo, error) {
	var t domain.Todo

	var (
		createdAt string
		updatedAt string
		completed int
	)

	err := scanner.Scan(&t.ID, &createdAt, &updatedAt, &t.UserID, &t.Title, &completed)
	if err != nil {
		return nil, err
	}

	if t.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if t.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	t.Completed = completed != 0

	return &t, nil
}

// CreateTodo inserts a new todo.
func (s *Store) CreateTodo(ctx context.Context, todo *domain.Todo) error {
	ensureID(&todo.ID)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO todos (id, created_at, updated_at, user_id, title, completed)
		VALUES (?, ?, ?, ?, ?, ?)`,
		todo.ID,
		formatTime(todo.CreatedAt),
		formatTime(todo.UpdatedAt),
		todo.UserID,
		todo.Title,
		boolToInt(todo.Completed),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// GetTodo retrieves a todo by ID.
func (s *Store) GetTodo(ctx context.Context, id string) (*domain.Todo, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+todoColumns+` FROM todos WHERE id = ?`, id)

	t, err := scanTodo(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// UpdateTodo performs a full row update on an existing todo.
func (s *Store) UpdateTodo(ctx context.Context, todo *domain.Todo) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE todos SET
			created_at = ?,
			updated_at = ?,
			user_id = ?,
			title = ?,
			completed = ?
		WHERE id = ?`,
		formatTime(todo.CreatedAt),
		formatTime(todo.UpdatedAt),
		todo.UserID,
		todo.Title,
		boolToInt(todo.Completed),
		todo.ID,
	)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// DeleteTodo deletes a todo by ID. Idempotent.
func (s *Store) DeleteTodo(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM todos WHERE id = ?`, id)
	return err
}

// ListTodos returns all of the user's todos, newest first.
func (s *Store) ListTodos(ctx context.Context, userID string) ([]*domain.Todo, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+todoColumns+` FROM todos WHERE user_id = ?
		ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var todos []*domain.Todo
	for rows.Next() {
		t, err := scanTodo(rows)
		if err != nil {
			return nil, err
		}
		todos = append(todos, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return todos, nil
}
