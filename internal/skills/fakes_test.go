package skills

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/amishk599/skillsift/internal/model"
	"github.com/amishk599/skillsift/internal/oracle"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// scriptedGenerator replays replies in order and records every call.
type scriptedGenerator struct {
	mu      sync.Mutex
	replies []string
	prompts []string
	budgets []int
}

func newScriptedGenerator(replies ...string) *scriptedGenerator {
	return &scriptedGenerator{replies: replies}
}

func (g *scriptedGenerator) Generate(_ context.Context, prompt string, maxTokens int) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.prompts = append(g.prompts, prompt)
	g.budgets = append(g.budgets, maxTokens)
	if len(g.replies) == 0 {
		return ""
	}
	r := g.replies[0]
	g.replies = g.replies[1:]
	return r
}

func (g *scriptedGenerator) calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.prompts)
}

// mapEmbedder serves fixed vectors and fails for unknown strings unless a
// fallback vector is set.
type mapEmbedder struct {
	vectors  map[string]model.Embedding
	fallback model.Embedding
	err      error
}

func (e *mapEmbedder) Embed(_ context.Context, text string) (model.Embedding, error) {
	if e.err != nil {
		return nil, e.err
	}
	if v, ok := e.vectors[text]; ok {
		return v, nil
	}
	if e.fallback != nil {
		return e.fallback, nil
	}
	return nil, fmt.Errorf("no vector for %q", text)
}

func (e *mapEmbedder) EmbedBatch(ctx context.Context, texts []string) ([]model.Embedding, error) {
	out := make([]model.Embedding, len(texts))
	for i, t := range texts {
		v, err := e.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

type fakeRecognizer struct {
	entities []oracle.Entity
	err      error
}

func (r *fakeRecognizer) Recognize(context.Context, string) ([]oracle.Entity, error) {
	return r.entities, r.err
}
