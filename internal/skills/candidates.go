package skills

import (
	"context"
	"log/slog"
	"strings"

	"github.com/amishk599/skillsift/internal/extract"
	"github.com/amishk599/skillsift/internal/metrics"
)

// maxCandidateTokens is the longest answer item kept as a candidate.
const maxCandidateTokens = 3

// LLMCandidateExtractor asks the generation oracle for a JSON array of skills.
type LLMCandidateExtractor struct {
	gen     Generator
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewLLMCandidateExtractor creates an extractor backed by gen.
func NewLLMCandidateExtractor(gen Generator, m *metrics.Metrics, logger *slog.Logger) *LLMCandidateExtractor {
	return &LLMCandidateExtractor{gen: gen, metrics: m, logger: logger.With("stage", "candidates", "source", "llm")}
}

// Extract returns the trimmed skill names of at most three words, in the order
// the oracle listed them. It returns an empty list when no array can be read.
func (e *LLMCandidateExtractor) Extract(ctx context.Context, text string) []string {
	prompt, err := render("candidates.tmpl", promptData{Text: text})
	if err != nil {
		e.logger.Warn("candidates prompt failed", "error", err)
		e.metrics.Fallback("candidates")
		return []string{}
	}

	out := e.gen.Generate(ctx, prompt, candidatesBudget)
	items, ok := extract.StringArray(out)
	if !ok {
		e.logger.Warn("no skill array in answer", "answer", out)
		e.metrics.Fallback("candidates")
		return []string{}
	}

	skills := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		n := len(strings.Fields(item))
		if n == 0 || n > maxCandidateTokens {
			continue
		}
		skills = append(skills, item)
	}
	return skills
}

// excludedEntityGroups are entity categories that never denote a skill.
var excludedEntityGroups = map[string]struct{}{
	"ORG": {},
	"LOC": {},
	"PER": {},
}

// NERCandidateExtractor takes skill candidates from a named-entity recognizer.
type NERCandidateExtractor struct {
	recognizer EntityRecognizer
	metrics    *metrics.Metrics
	logger     *slog.Logger
}

// NewNERCandidateExtractor creates an extractor backed by recognizer.
func NewNERCandidateExtractor(recognizer EntityRecognizer, m *metrics.Metrics, logger *slog.Logger) *NERCandidateExtractor {
	return &NERCandidateExtractor{recognizer: recognizer, metrics: m, logger: logger.With("stage", "candidates", "source", "ner")}
}

// Extract returns recognized spans that are not organizations, locations or
// persons, deduplicated in order of first appearance.
func (e *NERCandidateExtractor) Extract(ctx context.Context, text string) []string {
	entities, err := e.recognizer.Recognize(ctx, text)
	if err != nil {
		e.logger.Warn("entity recognition failed", "error", err)
		e.metrics.Fallback("candidates")
		return []string{}
	}

	seen := make(map[string]struct{}, len(entities))
	skills := make([]string, 0, len(entities))
	for _, ent := range entities {
		if _, skip := excludedEntityGroups[ent.Group]; skip {
			continue
		}
		word := strings.TrimSpace(ent.Word)
		if word == "" {
			continue
		}
		if _, dup := seen[word]; dup {
			continue
		}
		seen[word] = struct{}{}
		skills = append(skills, word)
	}
	return skills
}
