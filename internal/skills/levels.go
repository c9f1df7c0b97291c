package skills

import (
	"context"
	"log/slog"
	"strings"

	"github.com/amishk599/skillsift/internal/extract"
	"github.com/amishk599/skillsift/internal/metrics"
	"github.com/amishk599/skillsift/internal/model"
)

// LevelAssigner asks the generation oracle how important each skill is.
type LevelAssigner struct {
	gen     Generator
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewLevelAssigner creates an assigner backed by gen.
func NewLevelAssigner(gen Generator, m *metrics.Metrics, logger *slog.Logger) *LevelAssigner {
	return &LevelAssigner{gen: gen, metrics: m, logger: logger.With("stage", "levels")}
}

// Assign rates skills in the context of text. Keys the oracle invents are
// dropped; keys are matched to skills case-insensitively and reported with the
// skill's own spelling. A key whose value is not an integer gets the maximum
// level, and an unreadable answer rates every skill at the maximum level.
func (a *LevelAssigner) Assign(ctx context.Context, text string, skills []string) *model.SkillLevels {
	levels := model.NewSkillLevels()
	if len(skills) == 0 {
		return levels
	}

	prompt, err := render("levels.tmpl", promptData{Text: text, Skills: strings.Join(skills, ", ")})
	if err != nil {
		a.logger.Warn("levels prompt failed", "error", err)
		a.metrics.Fallback("levels")
		return allMax(skills)
	}

	out := a.gen.Generate(ctx, prompt, levelsBudget)
	fields, err := extract.ObjectFields(out)
	if err != nil {
		a.logger.Warn("unreadable levels answer, rating all skills as must-have", "error", err, "answer", out)
		a.metrics.Fallback("levels")
		return allMax(skills)
	}

	canonical := make(map[string]string, len(skills))
	for _, s := range skills {
		key := strings.ToLower(s)
		if _, ok := canonical[key]; !ok {
			canonical[key] = s
		}
	}

	for _, f := range fields {
		name, ok := canonical[strings.ToLower(strings.TrimSpace(f.Key))]
		if !ok {
			a.logger.Debug("dropping unrequested skill", "skill", f.Key)
			continue
		}
		level, ok := extract.Int(f.Value)
		if !ok {
			a.logger.Warn("non-integer level, using must-have", "skill", name, "value", string(f.Value))
			a.metrics.Fallback("levels")
			level = model.MaxSkillLevel
		}
		levels.Set(name, level)
	}
	return levels
}

func allMax(skills []string) *model.SkillLevels {
	levels := model.NewSkillLevels()
	for _, s := range skills {
		levels.Set(s, model.MaxSkillLevel)
	}
	return levels
}
