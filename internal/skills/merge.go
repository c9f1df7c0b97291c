package skills

import (
	"context"
	"log/slog"
	"unicode/utf8"

	"github.com/amishk599/skillsift/internal/metrics"
	"github.com/amishk599/skillsift/internal/model"
)

// DefaultMergeThreshold is the similarity at which two skills are merged.
const DefaultMergeThreshold = 0.75

// Merger collapses skills whose embeddings are close into one entry.
type Merger struct {
	embedder  Embedder
	threshold float64
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

// NewMerger creates a merger using embedder and threshold.
func NewMerger(embedder Embedder, threshold float64, m *metrics.Metrics, logger *slog.Logger) *Merger {
	return &Merger{embedder: embedder, threshold: threshold, metrics: m, logger: logger.With("stage", "merge")}
}

// Merge walks skills in insertion order. Each unconsumed skill seeds a group
// and pulls in every later unconsumed skill whose similarity to the seed
// reaches the threshold. Similarity is checked against the seed only, so the
// result depends on input order. A group keeps its shortest name (first one
// on ties) and its highest level. On failure the input is returned unchanged.
func (m *Merger) Merge(ctx context.Context, levels *model.SkillLevels) *model.SkillLevels {
	entries := levels.Entries()
	embeddings := make([]model.Embedding, len(entries))
	for i, e := range entries {
		emb, err := m.embedder.Embed(ctx, e.Name)
		if err != nil {
			m.logger.Warn("embedding failed, skipping merge", "skill", e.Name, "error", err)
			m.metrics.Fallback("merge")
			return levels
		}
		embeddings[i] = emb
	}

	used := make([]bool, len(entries))
	merged := model.NewSkillLevels()
	for i, seed := range entries {
		if used[i] {
			continue
		}
		name, level := seed.Name, seed.Level

		for j := i + 1; j < len(entries); j++ {
			if used[j] {
				continue
			}
			sim, err := model.CosineSimilarity(embeddings[i], embeddings[j])
			if err != nil {
				m.logger.Warn("similarity failed, skipping merge", "a", seed.Name, "b", entries[j].Name, "error", err)
				m.metrics.Fallback("merge")
				return levels
			}
			if sim < m.threshold {
				continue
			}
			used[j] = true
			if utf8.RuneCountInString(entries[j].Name) < utf8.RuneCountInString(name) {
				name = entries[j].Name
			}
			if entries[j].Level > level {
				level = entries[j].Level
			}
			m.logger.Debug("merged skills", "seed", seed.Name, "member", entries[j].Name, "similarity", sim)
		}

		used[i] = true
		merged.Set(name, level)
	}
	return merged
}
