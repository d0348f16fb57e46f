package providers

import (
	"log/slog"

	"github.com/samber/do/v2"

	"github.com/cerebero/cerebero-server/internal/ai"
	"github.com/cerebero/cerebero-server/internal/config"
)

// EmbedderHandle wraps the optional embedding provider. A nil Embedder means
// AI features are disabled; dependents must handle that.
type EmbedderHandle struct {
	Embedder ai.Embedder
}

// ProvideEmbedder provides the embedding client when an API key is
// configured. Without one the server runs with AI search disabled.
func ProvideEmbedder(i do.Injector) (*EmbedderHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*slog.Logger](i)

	if !cfg.AIEnabled() {
		log.Info("AI search disabled: no embedding API key configured")
		return &EmbedderHandle{}, nil
	}

	embedder, err := ai.NewOpenAIEmbedder(ai.EmbedderOptions{
		APIKey:  cfg.AI.APIKey,
		BaseURL: cfg.AI.BaseURL,
		Model:   cfg.AI.EmbeddingModel,
		Logger:  log,
	})
	if err != nil {
		return nil, err
	}

	log.Info("Embedding provider configured", "model", embedder.Model())

	return &EmbedderHandle{Embedder: embedder}, nil
}
