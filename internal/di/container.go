// Package di provides dependency injection configuration for the Cerebero server.
package di

import (
	"log/slog"

	"github.com/samber/do/v2"

	"github.com/cerebero/cerebero-server/internal/auth"
	"github.com/cerebero/cerebero-server/internal/config"
	"github.com/cerebero/cerebero-server/internal/di/providers"
	"github.com/cerebero/cerebero-server/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideAuthKey)

	// Persistence and search
	do.Provide(injector, providers.ProvideSearchIndex)
	do.Provide(injector, providers.ProvideStore)

	// Auth layer
	do.Provide(injector, providers.ProvideTokenService)

	// AI layer
	do.Provide(injector, providers.ProvideEmbedder)

	// Business services
	do.Provide(injector, providers.ProvideSessionService)
	do.Provide(injector, providers.ProvideAuthService)
	do.Provide(injector, providers.ProvideTagService)
	do.Provide(injector, providers.ProvideContentService)
	do.Provide(injector, providers.ProvideTodoService)
	do.Provide(injector, providers.ProvideSearchService)

	// Background jobs
	do.Provide(injector, providers.ProvideSessionCleanupJob)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and returns once everything is wired.
// This triggers lazy initialization of every provider, ending with the HTTP
// server, which starts listening in the background.
func Bootstrap(injector *do.RootScope) error {
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*slog.Logger](injector)
	_ = do.MustInvoke[providers.AuthKey](injector)
	_ = do.MustInvoke[*providers.SearchIndexHandle](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)
	_ = do.MustInvoke[*auth.TokenService](injector)
	_ = do.MustInvoke[*providers.EmbedderHandle](injector)

	_ = do.MustInvoke[*service.SessionService](injector)
	_ = do.MustInvoke[*service.AuthService](injector)
	_ = do.MustInvoke[*service.TagService](injector)
	_ = do.MustInvoke[*service.ContentService](injector)
	_ = do.MustInvoke[*service.TodoService](injector)
	_ = do.MustInvoke[*service.SearchService](injector)

	_ = do.MustInvoke[*providers.SessionCleanupJob](injector)
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	return nil
}
