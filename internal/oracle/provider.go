// Package oracle talks to the external inference services: text generation,
// embeddings and named-entity recognition.
package oracle

import (
	"context"

	"github.com/amishk599/skillsift/internal/model"
)

// Provider sends a prompt to a text-generation backend and returns the raw
// generated text. maxTokens bounds the generation length.
type Provider interface {
	Complete(ctx context.Context, prompt string, maxTokens int) (string, error)
}

// Placer is implemented by backends whose model has to be loaded onto the
// serving hardware before use.
type Placer interface {
	Resident(ctx context.Context) (bool, error)
	Place(ctx context.Context) error
}

// Embedder turns strings into embedding vectors.
type Embedder interface {
	Embed(ctx context.Context, text string) (model.Embedding, error)
	EmbedBatch(ctx context.Context, texts []string) ([]model.Embedding, error)
}
