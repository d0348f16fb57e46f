package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/cerebero/cerebero-server/internal/domain"
	"github.com/cerebero/cerebero-server/internal/service"
)

func (s *Server) registerTodoRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listTodos",
		Method:      http.MethodGet,
		Path:        "/api/v1/todos",
		Summary:     "List todos",
		Description: "Lists todos, incomplete first, oldest first within each group",
		Tags:        []string{"Todos"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListTodos)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createTodo",
		Method:        http.MethodPost,
		Path:          "/api/v1/todos",
		Summary:       "Add todo",
		Tags:          []string{"Todos"},
		Security:      []map[string][]string{{"bearer": {}}},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateTodo)

	huma.Register(s.api, huma.Operation{
		OperationID: "toggleTodo",
		Method:      http.MethodPatch,
		Path:        "/api/v1/todos",
		Summary:     "Toggle todo completion",
		Tags:        []string{"Todos"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleToggleTodo)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteTodo",
		Method:      http.MethodDelete,
		Path:        "/api/v1/todos",
		Summary:     "Delete todo",
		Tags:        []string{"Todos"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteTodo)
}

// === DTOs ===

// TodoResponse contains a todo in API responses.
type TodoResponse struct {
	ID        string    `json:"id" doc:"Todo ID"`
	Title     string    `json:"title" doc:"Title"`
	Completed bool      `json:"completed" doc:"Whether the todo is done"`
	CreatedAt time.Time `json:"created_at" doc:"Creation timestamp"`
	UpdatedAt time.Time `json:"updated_at" doc:"Last update timestamp"`
}

// TodoOutput wraps a todo for Huma.
type TodoOutput struct {
	Body TodoResponse
}

// TodoListOutput wraps a todo list for Huma.
type TodoListOutput struct {
	Body []TodoResponse
}

// CreateTodoRequest is the request body for adding a todo.
type CreateTodoRequest struct {
	Title string `json:"title" doc:"Todo title"`
}

// CreateTodoInput wraps the create request for Huma.
type CreateTodoInput struct {
	Body CreateTodoRequest
}

// TodoIDInput identifies a todo. Toggle and delete act on the collection
// path with the id in the query string.
type TodoIDInput struct {
	ID string `query:"id" required:"true" doc:"Todo ID"`
}

// === Handlers ===

func (s *Server) handleListTodos(ctx context.Context, _ *struct{}) (*TodoListOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	todos, err := s.services.Todo.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	body := make([]TodoResponse, 0, len(todos))
	for _, todo := range todos {
		body = append(body, mapTodoResponse(todo))
	}

	return &TodoListOutput{Body: body}, nil
}

func (s *Server) handleCreateTodo(ctx context.Context, input *CreateTodoInput) (*TodoOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	todo, err := s.services.Todo.Add(ctx, userID, service.CreateTodoRequest{Title: input.Body.Title})
	if err != nil {
		return nil, err
	}

	return &TodoOutput{Body: mapTodoResponse(todo)}, nil
}

func (s *Server) handleToggleTodo(ctx context.Context, input *TodoIDInput) (*TodoOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	todo, err := s.services.Todo.ToggleComplete(ctx, userID, input.ID)
	if err != nil {
		return nil, err
	}

	return &TodoOutput{Body: mapTodoResponse(todo)}, nil
}

func (s *Server) handleDeleteTodo(ctx context.Context, input *TodoIDInput) (*MessageOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Todo.Delete(ctx, userID, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Todo deleted"}}, nil
}

// === Helpers ===

func mapTodoResponse(todo *domain.Todo) TodoResponse {
	return TodoResponse{
		ID:        todo.ID,
		Title:     todo.Title,
		Completed: todo.Completed,
		CreatedAt: todo.CreatedAt,
		UpdatedAt: todo.UpdatedAt,
	}
}
