// Package skills implements the analysis stages that turn job posting text
// into a seniority label and a set of rated, deduplicated technical skills.
// Every stage absorbs its own failures and returns a documented fallback.
package skills

import (
	"context"

	"github.com/amishk599/skillsift/internal/model"
	"github.com/amishk599/skillsift/internal/oracle"
)

// Generation budgets, in tokens.
const (
	seniorityBudget  = 200
	candidatesBudget = 200
	levelsBudget     = 200
	categoriesBudget = 1500
	hierarchyBudget  = 1500
	repairBudget     = 1000
)

// Generator produces text for a prompt. Implementations return "" on failure.
type Generator interface {
	Generate(ctx context.Context, prompt string, maxTokens int) string
}

// Embedder returns the embedding of a single string.
type Embedder interface {
	Embed(ctx context.Context, text string) (model.Embedding, error)
}

// BatchEmbedder returns embeddings for several strings at once.
type BatchEmbedder interface {
	EmbedBatch(ctx context.Context, texts []string) ([]model.Embedding, error)
}

// EntityRecognizer runs named-entity recognition over text.
type EntityRecognizer interface {
	Recognize(ctx context.Context, text string) ([]oracle.Entity, error)
}
