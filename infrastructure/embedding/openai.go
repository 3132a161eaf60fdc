// Package embedding provides text embedding clients and caching for the
// semantic similarity scorer.
package embedding

import (
	"context"
	"errors"

	openai "github.com/sashabaranov/go-openai"

	"github.com/ahrav/go-mimic/internal/ports"
)

// DefaultModel is the embedding model used when none is configured.
const DefaultModel = openai.SmallEmbedding3

var (
	// ErrEmptyAPIKey indicates a required API key was not provided.
	ErrEmptyAPIKey = errors.New("API key cannot be empty")

	// ErrVectorCountMismatch indicates the API returned a different number
	// of vectors than texts requested.
	ErrVectorCountMismatch = errors.New("embedding count does not match input count")
)

// OpenAIEmbedder implements ports.Embedder over OpenAI's embeddings API.
type OpenAIEmbedder struct {
	client *openai.Client
	model  openai.EmbeddingModel
}

var _ ports.Embedder = (*OpenAIEmbedder)(nil)

// Config holds settings for constructing an OpenAIEmbedder.
type Config struct {
	// APIKey authenticates requests.
	APIKey string
	// Model selects the embedding model. Empty uses DefaultModel.
	Model string
	// BaseURL overrides the default endpoint when non-empty.
	BaseURL string
}

// NewOpenAIEmbedder builds an embedder from config.
func NewOpenAIEmbedder(config Config) (*OpenAIEmbedder, error) {
	if config.APIKey == "" {
		return nil, ports.NewEmbeddingError(config.Model, 0, ErrEmptyAPIKey)
	}

	model := DefaultModel
	if config.Model != "" {
		model = openai.EmbeddingModel(config.Model)
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}

	return &OpenAIEmbedder{
		client: openai.NewClientWithConfig(clientConfig),
		model:  model,
	}, nil
}

// Embed returns the embedding vector for a single text.
func (e *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	vectors, err := e.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedBatch returns one embedding vector per input text, in input order.
func (e *OpenAIEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequestStrings{
		Input: texts,
		Model: e.model,
	})
	if err != nil {
		return nil, ports.NewEmbeddingError(string(e.model), len(texts), err)
	}
	if len(resp.Data) != len(texts) {
		return nil, ports.NewEmbeddingError(string(e.model), len(texts), ErrVectorCountMismatch)
	}

	vectors := make([][]float64, len(resp.Data))
	for i, item := range resp.Data {
		vec := make([]float64, len(item.Embedding))
		for j, v := range item.Embedding {
			vec[j] = float64(v)
		}
		vectors[i] = vec
	}
	return vectors, nil
}
