package skills

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/amishk599/skillsift/internal/extract"
	"github.com/amishk599/skillsift/internal/metrics"
	"github.com/amishk599/skillsift/internal/model"
)

// UngroupedCategory holds a chunk whose grouping could not be read.
const UngroupedCategory = "Ungrouped"

// HierarchicalGrouper groups rated skills under categories, keeping levels.
// Each chunk is grouped by one prompt and then normalized by a second
// format-repair prompt.
type HierarchicalGrouper struct {
	gen       Generator
	chunkSize int
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

// NewHierarchicalGrouper creates a grouper that sends chunkSize skills per prompt.
func NewHierarchicalGrouper(gen Generator, chunkSize int, m *metrics.Metrics, logger *slog.Logger) *HierarchicalGrouper {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &HierarchicalGrouper{gen: gen, chunkSize: chunkSize, metrics: m, logger: logger.With("stage", "hierarchy")}
}

// Group returns category -> skill -> level. When the same skill lands in the
// same category from two chunks, the levels are summed.
func (g *HierarchicalGrouper) Group(ctx context.Context, skills *model.SkillLevels) model.SkillGroups {
	result := model.SkillGroups{}
	for _, chunk := range Chunk(skills.Entries(), g.chunkSize) {
		input := model.SkillLevelsOf(chunk...)
		for category, members := range g.groupChunk(ctx, input) {
			if result[category] == nil {
				result[category] = map[string]int{}
			}
			for skill, level := range members {
				result[category][skill] += level
			}
		}
	}
	return result
}

func (g *HierarchicalGrouper) groupChunk(ctx context.Context, input *model.SkillLevels) model.SkillGroups {
	listed, err := json.MarshalIndent(input, "", "  ")
	if err != nil {
		return g.ungrouped(input, err)
	}
	prompt, err := render("hierarchy.tmpl", promptData{Skills: string(listed), Categories: categoryList()})
	if err != nil {
		return g.ungrouped(input, err)
	}
	draft := extract.Object(g.gen.Generate(ctx, prompt, hierarchyBudget))

	prompt, err = render("repair.tmpl", promptData{Draft: draft})
	if err != nil {
		return g.ungrouped(input, err)
	}
	repaired := g.gen.Generate(ctx, prompt, repairBudget)

	groups, err := coerceGroups(repaired, input)
	if err != nil {
		return g.ungrouped(input, err)
	}
	return groups
}

func (g *HierarchicalGrouper) ungrouped(input *model.SkillLevels, err error) model.SkillGroups {
	g.logger.Warn("unreadable grouping, chunk left ungrouped", "size", input.Len(), "error", err)
	g.metrics.Fallback("hierarchy")
	return model.SkillGroups{UngroupedCategory: input.Map()}
}

// coerceGroups reads the first category -> skill -> level object in text. Non-integer levels
// take the input level of that skill, or the maximum level for skills not in
// the input. A category whose value is not an object becomes a single skill
// named after the category.
func coerceGroups(text string, input *model.SkillLevels) (model.SkillGroups, error) {
	categories, err := extract.ObjectFields(text)
	if err != nil {
		return nil, err
	}

	inputLevel := func(skill string) int {
		if l, ok := input.Get(skill); ok {
			return l
		}
		return model.MaxSkillLevel
	}

	groups := make(model.SkillGroups, len(categories))
	for _, cat := range categories {
		members := map[string]int{}
		groups[cat.Key] = members

		if !isObject(cat.Value) {
			members[cat.Key] = inputLevel(cat.Key)
			continue
		}
		skills, err := extract.Fields(string(cat.Value))
		if err != nil {
			members[cat.Key] = inputLevel(cat.Key)
			continue
		}
		for _, s := range skills {
			level, ok := extract.Int(s.Value)
			if !ok {
				level = inputLevel(s.Key)
			}
			members[s.Key] = level
		}
	}
	return groups, nil
}

func isObject(raw json.RawMessage) bool {
	return strings.HasPrefix(strings.TrimSpace(string(raw)), "{")
}
