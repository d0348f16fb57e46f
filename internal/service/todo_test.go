package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/cerebero/cerebero-server/internal/errors"
)

func TestTodoService_AddAndList(t *testing.T) {
	svc := setupServices(t)
	ctx := context.Background()
	user := signupUser(t, svc, "ada@example.com")

	first, err := svc.todos.Add(ctx, user.ID, CreateTodoRequest{Title: "buy milk"})
	require.NoError(t, err)
	second, err := svc.todos.Add(ctx, user.ID, CreateTodoRequest{Title: "write tests"})
	require.NoError(t, err)

	todos, err := svc.todos.List(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, todos, 2)
	// Oldest first while nothing is completed
	assert.Equal(t, first.ID, todos[0].ID)
	assert.Equal(t, second.ID, todos[1].ID)
}

func TestTodoService_Add_Validation(t *testing.T) {
	svc := setupServices(t)
	user := signupUser(t, svc, "ada@example.com")

	_, err := svc.todos.Add(context.Background(), user.ID, CreateTodoRequest{Title: ""})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestTodoService_ToggleComplete_SortsCompletedLast(t *testing.T) {
	svc := setupServices(t)
	ctx := context.Background()
	user := signupUser(t, svc, "ada@example.com")

	first, err := svc.todos.Add(ctx, user.ID, CreateTodoRequest{Title: "first"})
	require.NoError(t, err)
	second, err := svc.todos.Add(ctx, user.ID, CreateTodoRequest{Title: "second"})
	require.NoError(t, err)

	toggled, err := svc.todos.ToggleComplete(ctx, user.ID, first.ID)
	require.NoError(t, err)
	assert.True(t, toggled.Completed)

	todos, err := svc.todos.List(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, todos, 2)
	assert.Equal(t, second.ID, todos[0].ID) // incomplete first
	assert.Equal(t, first.ID, todos[1].ID)

	// Toggling back restores original order
	_, err = svc.todos.ToggleComplete(ctx, user.ID, first.ID)
	require.NoError(t, err)
	todos, err = svc.todos.List(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, todos[0].ID)
}

func TestTodoService_Delete(t *testing.T) {
	svc := setupServices(t)
	ctx := context.Background()
	user := signupUser(t, svc, "ada@example.com")

	todo, err := svc.todos.Add(ctx, user.ID, CreateTodoRequest{Title: "done soon"})
	require.NoError(t, err)

	require.NoError(t, svc.todos.Delete(ctx, user.ID, todo.ID))

	todos, err := svc.todos.List(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, todos)
}

func TestTodoService_OwnershipReportsNotFound(t *testing.T) {
	svc := setupServices(t)
	ctx := context.Background()
	ada := signupUser(t, svc, "ada@example.com")
	eve := signupUser(t, svc, "eve@example.com")

	todo, err := svc.todos.Add(ctx, ada.ID, CreateTodoRequest{Title: "ada's task"})
	require.NoError(t, err)

	_, err = svc.todos.ToggleComplete(ctx, eve.ID, todo.ID)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)

	err = svc.todos.Delete(ctx, eve.ID, todo.ID)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}
