package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/cerebero/cerebero-server/internal/domain"
	domainerrors "github.com/cerebero/cerebero-server/internal/errors"
	"github.com/cerebero/cerebero-server/internal/store"
	"github.com/cerebero/cerebero-server/internal/validation"
)

// TodoService manages the user's short-lived task list.
type TodoService struct {
	store  store.Store
	logger *slog.Logger
}

// NewTodoService creates a new todo service.
func NewTodoService(store store.Store, logger *slog.Logger) *TodoService {
	return &TodoService{
		store:  store,
		logger: logger,
	}
}

// CreateTodoRequest contains the fields for a new todo.
type CreateTodoRequest struct {
	Title string `json:"title" validate:"required,max=500"`
}

// Add creates a new todo for the user. Clients display at most a few
// active items, but that is a presentation convention; the backend does
// not cap the list.
func (s *TodoService) Add(ctx context.Context, userID string, req CreateTodoRequest) (*domain.Todo, error) {
	if err := validate.Struct(req); err != nil {
		return nil, validation.FormatError(err)
	}

	todo := &domain.Todo{
		UserID: userID,
		Title:  req.Title,
	}
	todo.InitTimestamps()

	if err := s.store.CreateTodo(ctx, todo); err != nil {
		return nil, fmt.Errorf("create todo: %w", err)
	}

	return todo, nil
}

// List returns the user's todos in display order: incomplete items first,
// then completed, each group oldest first.
func (s *TodoService) List(ctx context.Context, userID string) ([]*domain.Todo, error) {
	todos, err := s.store.ListTodos(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}

	sort.SliceStable(todos, func(i, j int) bool {
		if todos[i].Completed != todos[j].Completed {
			return !todos[i].Completed
		}
		return todos[i].CreatedAt.Before(todos[j].CreatedAt)
	})

	return todos, nil
}

// ToggleComplete flips a todo's completed flag.
func (s *TodoService) ToggleComplete(ctx context.Context, userID, todoID string) (*domain.Todo, error) {
	todo, err := s.get(ctx, userID, todoID)
	if err != nil {
		return nil, err
	}

	todo.Completed = !todo.Completed
	todo.Touch()

	if err := s.store.UpdateTodo(ctx, todo); err != nil {
		return nil, fmt.Errorf("update todo: %w", err)
	}

	return todo, nil
}

// Delete removes a todo.
func (s *TodoService) Delete(ctx context.Context, userID, todoID string) error {
	if _, err := s.get(ctx, userID, todoID); err != nil {
		return err
	}

	if err := s.store.DeleteTodo(ctx, todoID); err != nil {
		return fmt.Errorf("delete todo: %w", err)
	}

	return nil
}

func (s *TodoService) get(ctx context.Context, userID, todoID string) (*domain.Todo, error) {
	todo, err := s.store.GetTodo(ctx, todoID)
	if err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("todo not found")
		}
		return nil, fmt.Errorf("get todo: %w", err)
	}
	if todo.UserID != userID {
		return nil, domainerrors.NotFound("todo not found")
	}
	return todo, nil
}
