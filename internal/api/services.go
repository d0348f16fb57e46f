package api

import (
	"github.com/cerebero/cerebero-server/internal/service"
)

// Services groups the business logic services used by the API server.
type Services struct {
	Auth    *service.AuthService
	Session *service.SessionService
	Content *service.ContentService
	Tag     *service.TagService
	Todo    *service.TodoService
	Search  *service.SearchService
}
