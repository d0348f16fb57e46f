// Package ai provides embedding generation for semantic search.
//
// Embeddings are produced by an OpenAI-compatible API and compared
// in-process with cosine similarity. Any endpoint implementing the
// OpenAI embeddings API works (a custom base URL can point at a local
// model server).
package ai

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "text-embedding-3-small"

// requestTimeout bounds a single embeddings API call.
const requestTimeout = 10 * time.Second

// Embedder produces a vector representation of a piece of text.
type Embedder interface {
	// Embed returns the embedding vector for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)
	// Model returns the model identifier used for embeddings.
	Model() string
}

// OpenAIEmbedder calls an OpenAI-compatible embeddings endpoint.
type OpenAIEmbedder struct {
	client openai.Client
	model  string
	logger *slog.Logger
}

// EmbedderOptions configures an OpenAIEmbedder.
type EmbedderOptions struct {
	APIKey  string
	BaseURL string // Optional, for OpenAI-compatible servers
	Model   string // Defaults to DefaultModel
	Logger  *slog.Logger
}

// NewOpenAIEmbedder creates an embedder backed by the OpenAI API.
func NewOpenAIEmbedder(opts EmbedderOptions) (*OpenAIEmbedder, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("embedder requires an API key")
	}

	clientOpts := []option.RequestOption{
		option.WithAPIKey(opts.APIKey),
	}
	if opts.BaseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(opts.BaseURL))
	}

	model := opts.Model
	if model == "" {
		model = DefaultModel
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &OpenAIEmbedder{
		client: openai.NewClient(clientOpts...),
		model:  model,
		logger: logger,
	}, nil
}

// Embed returns the embedding vector for the given text.
func (e *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, fmt.Errorf("cannot embed empty text")
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	start := time.Now()
	resp, err := e.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Model: e.model,
		Input: openai.EmbeddingNewParamsInputUnion{
			OfString: openai.String(text),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("embeddings request: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("embeddings response contained no data")
	}

	vector := make([]float32, len(resp.Data[0].Embedding))
	for i, v := range resp.Data[0].Embedding {
		vector[i] = float32(v)
	}

	e.logger.Debug("generated embedding",
		"model", e.model,
		"dimensions", len(vector),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return vector, nil
}

// Model returns the model identifier used for embeddings.
func (e *OpenAIEmbedder) Model() string {
	return e.model
}
