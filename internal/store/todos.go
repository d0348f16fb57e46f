package store

import (
	"context"
	"sort"

	"github.com/cerebero/cerebero-server/internal/domain"
)

// CreateTodo creates a new todo.
func (s *BadgerStore) CreateTodo(ctx context.Context, todo *domain.Todo) error {
	if err := ensureID(&todo.ID, "todo"); err != nil {
		return err
	}
	return s.todos.Create(ctx, todo.ID, todoToRecord(todo))
}

// GetTodo retrieves a todo by ID.
func (s *BadgerStore) GetTodo(ctx context.Context, id string) (*domain.Todo, error) {
	record, err := s.todos.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return todoFromRecord(record), nil
}

// UpdateTodo updates an existing todo.
func (s *BadgerStore) UpdateTodo(ctx context.Context, todo *domain.Todo) error {
	return s.todos.Update(ctx, todo.ID, todoToRecord(todo))
}

// DeleteTodo deletes a todo by ID. Idempotent.
func (s *BadgerStore) DeleteTodo(ctx context.Context, id string) error {
	return s.todos.Delete(ctx, id)
}

// ListTodos returns all of the user's todos, newest first.
func (s *BadgerStore) ListTodos(ctx context.Context, userID string) ([]*domain.Todo, error) {
	ids, err := s.todos.ListByIndex(ctx, "user", userID)
	if err != nil {
		return nil, err
	}

	todos := make([]*domain.Todo, 0, len(ids))
	for _, id := range ids {
		record, err := s.todos.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		todos = append(todos, todoFromRecord(record))
	}

	sort.SliceStable(todos, func(i, j int) bool {
		return todos[i].CreatedAt.After(todos[j].CreatedAt)
	})

	return todos, nil
}
