package skills

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/amishk599/skillsift/internal/extract"
	"github.com/amishk599/skillsift/internal/metrics"
	"github.com/amishk599/skillsift/internal/model"
)

// DefaultChunkSize is how many skills go into one categorization prompt.
const DefaultChunkSize = 50

// Chunk splits items into contiguous batches of at most size, in order.
// A non-positive size uses DefaultChunkSize.
func Chunk[T any](items []T, size int) [][]T {
	if size <= 0 {
		size = DefaultChunkSize
	}
	batches := make([][]T, 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))
		batches = append(batches, items[start:end])
	}
	return batches
}

// Categorizer assigns each skill one category from a closed vocabulary.
type Categorizer struct {
	gen       Generator
	chunkSize int
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

// NewCategorizer creates a categorizer that sends chunkSize skills per prompt.
func NewCategorizer(gen Generator, chunkSize int, m *metrics.Metrics, logger *slog.Logger) *Categorizer {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &Categorizer{gen: gen, chunkSize: chunkSize, metrics: m, logger: logger.With("stage", "categorize")}
}

// Categorize returns a category for every input skill. A batch whose answer
// cannot be read puts all its skills under "Other"; skills the answer leaves
// out also land under "Other". Entries from later batches overwrite earlier ones.
func (c *Categorizer) Categorize(ctx context.Context, skills []string) model.CategoryMap {
	result := make(model.CategoryMap, len(skills))
	batches := Chunk(skills, c.chunkSize)
	for i, batch := range batches {
		c.logger.Debug("categorizing batch", "batch", i+1, "of", len(batches), "size", len(batch))
		c.categorizeBatch(ctx, batch, result)
	}
	return result
}

func (c *Categorizer) categorizeBatch(ctx context.Context, batch []string, result model.CategoryMap) {
	listed, err := json.MarshalIndent(batch, "", "  ")
	if err != nil {
		c.batchFallback(batch, result, err)
		return
	}
	prompt, err := render("categories.tmpl", promptData{Skills: string(listed), Categories: categoryList()})
	if err != nil {
		c.batchFallback(batch, result, err)
		return
	}

	out := c.gen.Generate(ctx, prompt, categoriesBudget)
	fields, err := extract.ObjectFields(out)
	if err != nil {
		c.batchFallback(batch, result, err)
		return
	}

	answered := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		category, ok := extract.String(f.Value)
		if !ok || category == "" {
			category = model.CategoryOther
		}
		result[f.Key] = category
		answered[f.Key] = struct{}{}
	}
	for _, s := range batch {
		if _, ok := answered[s]; ok {
			continue
		}
		if _, ok := result[s]; !ok {
			result[s] = model.CategoryOther
		}
	}
}

func (c *Categorizer) batchFallback(batch []string, result model.CategoryMap, err error) {
	c.logger.Warn("unreadable category answer, batch set to Other", "size", len(batch), "error", err)
	c.metrics.Fallback("categorize")
	for _, s := range batch {
		result[s] = model.CategoryOther
	}
}
