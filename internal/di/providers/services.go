package providers

import (
	"log/slog"

	"github.com/samber/do/v2"

	"github.com/cerebero/cerebero-server/internal/auth"
	"github.com/cerebero/cerebero-server/internal/service"
)

// ProvideSessionService provides the session management service.
func ProvideSessionService(i do.Injector) (*service.SessionService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	tokenService := do.MustInvoke[*auth.TokenService](i)
	log := do.MustInvoke[*slog.Logger](i)

	return service.NewSessionService(storeHandle.Store, tokenService, log), nil
}

// ProvideAuthService provides the authentication service.
func ProvideAuthService(i do.Injector) (*service.AuthService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	tokenService := do.MustInvoke[*auth.TokenService](i)
	sessionService := do.MustInvoke[*service.SessionService](i)
	log := do.MustInvoke[*slog.Logger](i)

	return service.NewAuthService(storeHandle.Store, tokenService, sessionService, log), nil
}

// ProvideTagService provides the tag service.
func ProvideTagService(i do.Injector) (*service.TagService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*slog.Logger](i)

	return service.NewTagService(storeHandle.Store, log), nil
}

// ProvideContentService provides the content service.
func ProvideContentService(i do.Injector) (*service.ContentService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	tagService := do.MustInvoke[*service.TagService](i)
	embedderHandle := do.MustInvoke[*EmbedderHandle](i)
	log := do.MustInvoke[*slog.Logger](i)

	return service.NewContentService(storeHandle.Store, tagService, embedderHandle.Embedder, log), nil
}

// ProvideTodoService provides the todo service.
func ProvideTodoService(i do.Injector) (*service.TodoService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*slog.Logger](i)

	return service.NewTodoService(storeHandle.Store, log), nil
}

// ProvideSearchService provides the search service.
func ProvideSearchService(i do.Injector) (*service.SearchService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	embedderHandle := do.MustInvoke[*EmbedderHandle](i)
	log := do.MustInvoke[*slog.Logger](i)

	return service.NewSearchService(storeHandle.Store, indexHandle.SearchIndex, embedderHandle.Embedder, log), nil
}
