package skills

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/amishk599/skillsift/internal/filter"
	"github.com/amishk599/skillsift/internal/metrics"
	"github.com/amishk599/skillsift/internal/model"
)

// Default thresholds for the technical check.
const (
	DefaultTechnicalThreshold = 0.55
	DefaultSupportBonus       = 0.05
)

// TechnicalExamples are unambiguous technologies.
var TechnicalExamples = []string{
	// languages
	"Java", "Python", "C++", "C#", "JavaScript", "TypeScript", "Go", "Rust",
	"Kotlin", "Swift", "PHP", "Ruby", "Scala", "Perl",
	// backend frameworks
	"Spring Boot", "Spring", "Node.js", "Express.js", "NestJS", "Django",
	"Flask", "FastAPI", "Laravel", "ASP.NET Core", "GraphQL",
	// frontend
	"React", "Next.js", "Angular", "Vue.js", "Svelte", "Redux",
	"Tailwind CSS", "Bootstrap", "Material UI",
	// cloud and devops
	"AWS", "Azure", "Google Cloud", "Docker", "Kubernetes", "Terraform",
	"Ansible", "Jenkins", "GitHub Actions", "CI/CD", "Serverless",
	// databases
	"PostgreSQL", "MySQL", "MongoDB", "Redis", "Elasticsearch", "Kafka",
	"Oracle", "SQLite", "Cassandra", "DynamoDB", "Neo4j",
	// data and ML
	"TensorFlow", "PyTorch", "scikit-learn", "XGBoost", "pandas", "NumPy",
	"HuggingFace", "LangChain", "Data Science", "Machine Learning",
	// testing
	"JUnit", "Selenium", "Cypress", "Playwright", "TestNG", "Appium",
	"Espresso", "Mockito", "Postman",
	// mobile
	"Android", "iOS", "Jetpack Compose", "React Native", "Flutter",
	"Microservices", "API Gateway", "DevOps", "Backend Development",
	"Frontend Development", "Full Stack Development",
}

// SupportExamples are process and practice terms accepted when close enough.
var SupportExamples = []string{
	"Agile", "Scrum", "Kanban", "CI/CD", "Version Control", "Git",
	"Test Automation", "Unit Testing", "Integration Testing",
	"TDD", "BDD", "SOLID Principles", "Design Patterns",
	"DevOps", "Microservices", "System Architecture",
	"Service Oriented Architecture", "API Design", "REST", "GraphQL",
	"Monitoring", "Logging", "Continuous Deployment",
	"Performance Optimization", "Security Best Practices",
}

// TechnicalClassifier decides whether a candidate names a technical or
// support competency. Lexical checks run first; survivors are compared by
// embedding against the two reference sets.
type TechnicalClassifier struct {
	lexical      *filter.LexicalFilter
	embedder     Embedder
	technical    []model.Embedding
	support      []model.Embedding
	threshold    float64
	supportBonus float64
	metrics      *metrics.Metrics
	logger       *slog.Logger
}

// NewTechnicalClassifier embeds the reference sets with refs and returns a
// classifier that embeds candidates with embedder. It fails when the
// reference sets cannot be embedded.
func NewTechnicalClassifier(
	ctx context.Context,
	embedder Embedder,
	refs BatchEmbedder,
	threshold, supportBonus float64,
	m *metrics.Metrics,
	logger *slog.Logger,
) (*TechnicalClassifier, error) {
	technical, err := refs.EmbedBatch(ctx, TechnicalExamples)
	if err != nil {
		return nil, fmt.Errorf("embedding technical examples: %w", err)
	}
	support, err := refs.EmbedBatch(ctx, SupportExamples)
	if err != nil {
		return nil, fmt.Errorf("embedding support examples: %w", err)
	}

	return &TechnicalClassifier{
		lexical:      filter.NewLexicalFilter(filter.DefaultMaxTokens),
		embedder:     embedder,
		technical:    technical,
		support:      support,
		threshold:    threshold,
		supportBonus: supportBonus,
		metrics:      m,
		logger:       logger.With("stage", "technical"),
	}, nil
}

// IsTechnical reports whether skill is technical. Any failure rejects.
func (c *TechnicalClassifier) IsTechnical(ctx context.Context, skill string) bool {
	if reason := c.lexical.Reject(skill); reason != filter.ReasonNone {
		c.logger.Debug("candidate rejected", "skill", skill, "reason", reason)
		return false
	}

	emb, err := c.embedder.Embed(ctx, skill)
	if err != nil {
		c.logger.Warn("embedding failed, rejecting candidate", "skill", skill, "error", err)
		c.metrics.Fallback("technical")
		return false
	}
	techSim, err := model.MaxSimilarity(emb, c.technical)
	if err != nil {
		c.logger.Warn("technical similarity failed, rejecting candidate", "skill", skill, "error", err)
		c.metrics.Fallback("technical")
		return false
	}
	supportSim, err := model.MaxSimilarity(emb, c.support)
	if err != nil {
		c.logger.Warn("support similarity failed, rejecting candidate", "skill", skill, "error", err)
		c.metrics.Fallback("technical")
		return false
	}

	accepted := Accept(techSim, supportSim, c.threshold, c.supportBonus)
	c.logger.Debug("candidate scored", "skill", skill, "tech_sim", techSim, "support_sim", supportSim, "accepted", accepted)
	return accepted
}

// Accept applies the similarity thresholds. A support match needs to clear
// threshold+bonus/2 and must not trail the technical match by bonus or more.
func Accept(techSim, supportSim, threshold, supportBonus float64) bool {
	if techSim >= threshold {
		return true
	}
	return supportSim >= threshold+supportBonus/2 && supportSim > techSim-supportBonus
}

// Filter keeps the technical candidates, preserving order.
func (c *TechnicalClassifier) Filter(ctx context.Context, candidates []string) []string {
	kept := make([]string, 0, len(candidates))
	for _, s := range candidates {
		if c.IsTechnical(ctx, s) {
			kept = append(kept, s)
		}
	}
	return kept
}
