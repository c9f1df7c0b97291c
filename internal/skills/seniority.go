package skills

import (
	"context"
	"log/slog"
	"strings"

	"github.com/amishk599/skillsift/internal/metrics"
	"github.com/amishk599/skillsift/internal/model"
)

// seniorityWindow is how many characters of the answer are searched.
const seniorityWindow = 20

// SeniorityClassifier asks the generation oracle for the role's seniority.
type SeniorityClassifier struct {
	gen     Generator
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewSeniorityClassifier creates a classifier backed by gen.
func NewSeniorityClassifier(gen Generator, m *metrics.Metrics, logger *slog.Logger) *SeniorityClassifier {
	return &SeniorityClassifier{gen: gen, metrics: m, logger: logger.With("stage", "seniority")}
}

// Classify returns the seniority of the posting, or model.DefaultSeniority
// when the answer names no known label.
func (c *SeniorityClassifier) Classify(ctx context.Context, text string) model.Seniority {
	prompt, err := render("seniority.tmpl", promptData{Text: strings.ToLower(text)})
	if err != nil {
		c.logger.Warn("seniority prompt failed", "error", err)
		c.metrics.Fallback("seniority")
		return model.DefaultSeniority
	}

	out := c.gen.Generate(ctx, prompt, seniorityBudget)
	label, ok := ResolveSeniority(out)
	if !ok {
		c.logger.Warn("no seniority label in answer, using default", "answer", out, "default", model.DefaultSeniority)
		c.metrics.Fallback("seniority")
	}
	return label
}

// ResolveSeniority picks the label that occurs earliest within the first 20
// characters of the lower-cased answer. Matching is by raw substring, so
// "seniority" matches "senior". ok is false when no label occurs.
func ResolveSeniority(answer string) (label model.Seniority, ok bool) {
	s := strings.ToLower(strings.TrimSpace(answer))
	if r := []rune(s); len(r) > seniorityWindow {
		s = string(r[:seniorityWindow])
	}

	best := -1
	for _, l := range model.Seniorities {
		i := strings.Index(s, string(l))
		if i >= 0 && (best == -1 || i < best) {
			best = i
			label = l
		}
	}
	if best == -1 {
		return model.DefaultSeniority, false
	}
	return label, true
}
