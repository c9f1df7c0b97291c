// Package pipeline sequences the analysis stages into the operations the
// front ends expose.
package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/amishk599/skillsift/internal/model"
)

// SeniorityClassifier labels the seniority of a posting.
type SeniorityClassifier interface {
	Classify(ctx context.Context, text string) model.Seniority
}

// CandidateExtractor lists skill candidates mentioned in a posting.
type CandidateExtractor interface {
	Extract(ctx context.Context, text string) []string
}

// TechnicalFilter keeps the technical candidates.
type TechnicalFilter interface {
	Filter(ctx context.Context, candidates []string) []string
}

// LevelAssigner rates skills in the context of a posting.
type LevelAssigner interface {
	Assign(ctx context.Context, text string, skills []string) *model.SkillLevels
}

// Merger collapses near-duplicate skills.
type Merger interface {
	Merge(ctx context.Context, levels *model.SkillLevels) *model.SkillLevels
}

// Categorizer maps skills to categories.
type Categorizer interface {
	Categorize(ctx context.Context, skills []string) model.CategoryMap
}

// Grouper groups rated skills under categories.
type Grouper interface {
	Group(ctx context.Context, skills *model.SkillLevels) model.SkillGroups
}

// Stages are the collaborators of a Pipeline.
type Stages struct {
	Seniority   SeniorityClassifier
	Candidates  CandidateExtractor
	Technical   TechnicalFilter
	Levels      LevelAssigner
	Merger      Merger
	Categorizer Categorizer
	Grouper     Grouper
}

// Pipeline owns the end-to-end operations:
// seniority → candidates → technical filter → levels → merge.
type Pipeline struct {
	stages Stages
	logger *slog.Logger
}

// New creates a pipeline wired with all its stages.
func New(stages Stages, logger *slog.Logger) *Pipeline {
	return &Pipeline{stages: stages, logger: logger}
}

// Analyze runs every stage in order, one at a time, and never fails: each
// stage falls back on its own when an oracle misbehaves.
func (p *Pipeline) Analyze(ctx context.Context, text string) model.AnalysisResult {
	start := time.Now()

	seniority := p.stages.Seniority.Classify(ctx, text)
	candidates := p.stages.Candidates.Extract(ctx, text)
	technical := p.stages.Technical.Filter(ctx, candidates)
	levels := p.stages.Levels.Assign(ctx, text, technical)
	merged := p.stages.Merger.Merge(ctx, levels)
	if merged == nil {
		merged = model.NewSkillLevels()
	}

	p.logger.Info("analyzed posting",
		"seniority", seniority,
		"candidates", len(candidates),
		"technical", len(technical),
		"rated", levels.Len(),
		"skills", merged.Len(),
		"duration", time.Since(start).Round(time.Millisecond).String(),
	)

	return model.AnalysisResult{Seniority: seniority, Skills: merged}
}

// GroupSkills maps every skill to a category.
func (p *Pipeline) GroupSkills(ctx context.Context, skills []string) model.CategoryMap {
	start := time.Now()
	categories := p.stages.Categorizer.Categorize(ctx, skills)
	p.logger.Info("categorized skills",
		"skills", len(skills),
		"duration", time.Since(start).Round(time.Millisecond).String(),
	)
	return categories
}

// GroupSkillLevels groups rated skills under categories.
func (p *Pipeline) GroupSkillLevels(ctx context.Context, skills *model.SkillLevels) model.SkillGroups {
	start := time.Now()
	groups := p.stages.Grouper.Group(ctx, skills)
	p.logger.Info("grouped skill levels",
		"skills", skills.Len(),
		"categories", len(groups),
		"duration", time.Since(start).Round(time.Millisecond).String(),
	)
	return groups
}
