// Package filter holds the lexical checks that reject skill candidates before
// any embedding is computed.
package filter

import "strings"

// DefaultMaxTokens is the longest candidate, in whitespace-separated tokens,
// that can still be a skill name.
const DefaultMaxTokens = 2

// nonTechnicalPhrases rejects a candidate when any of them occurs anywhere in
// it: role titles, soft skills and business vocabulary.
var nonTechnicalPhrases = []string{
	"developer", "engineer", "lead", "specialist", "expert", "intern", "manager",
	"architect", "consultant", "analyst", "technician", "administrator",

	"environment", "methodologies", "challenges", "solutions", "projects", "roles",
	"package", "benefits", "bonus", "hybrid", "type", "location", "variable",
	"salary", "contract", "permanent", "opportunity", "career", "experience",

	"collaboration", "team player", "communication", "fast-paced", "problem solving",
	"independent", "adaptable", "motivated", "responsibility", "leadership",

	"appropriate", "cutting-edge", "large-scale", "extensive", "real-world", "client-facing",
	"innovative", "scalable", "dynamic", "robust", "world-class",

	"performance", "high performance", "design solutions", "solution development",
	"maximize efficiency", "optimization", "secure", "security focus",
	"life insurance", "life insurance systems", "business dashboards",
	"software development", "development services", "patterns",
	"agile mindset", "agile environment", "agile methodologies",
	"fluent english", "spoken english", "written english", "language skills",
}

// tooGeneric rejects a candidate that equals one of them exactly.
var tooGeneric = map[string]struct{}{
	"development": {}, "software": {}, "software development": {},
	"system": {}, "systems": {}, "application": {}, "applications": {},
	"backend": {}, "back-end": {}, "front-end": {}, "frontend": {},
	"programming": {}, "coding": {}, "design": {}, "architecture": {},
	"cloud": {}, "database": {}, "databases": {}, "api": {}, "apis": {},
}

// Reason says why a candidate was rejected.
type Reason string

const (
	ReasonNone       Reason = ""
	ReasonTooLong    Reason = "too_long"
	ReasonNonTech    Reason = "non_technical"
	ReasonTooGeneric Reason = "too_generic"
)

// LexicalFilter rejects candidates by length and by fixed word lists.
// Matching is case-insensitive.
type LexicalFilter struct {
	maxTokens int
}

// NewLexicalFilter returns a filter that allows at most maxTokens tokens.
// A non-positive maxTokens uses DefaultMaxTokens.
func NewLexicalFilter(maxTokens int) *LexicalFilter {
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	return &LexicalFilter{maxTokens: maxTokens}
}

// Reject returns the reason skill cannot be technical, or ReasonNone when it
// passes every lexical check.
func (f *LexicalFilter) Reject(skill string) Reason {
	s := strings.ToLower(strings.TrimSpace(skill))

	if len(strings.Fields(s)) > f.maxTokens {
		return ReasonTooLong
	}

	for _, phrase := range nonTechnicalPhrases {
		if strings.Contains(s, phrase) {
			return ReasonNonTech
		}
	}

	if _, ok := tooGeneric[s]; ok {
		return ReasonTooGeneric
	}

	return ReasonNone
}
