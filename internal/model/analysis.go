package model

// Seniority is the experience tier of a role.
type Seniority string

const (
	SeniorityIntern Seniority = "intern"
	SeniorityJunior Seniority = "junior"
	SeniorityMid    Seniority = "mid"
	SenioritySenior Seniority = "senior"
)

// DefaultSeniority is reported whenever the oracle answer cannot be resolved.
const DefaultSeniority = SeniorityMid

// Seniorities lists the allowed labels in the order the prompt presents them.
var Seniorities = []Seniority{SeniorityJunior, SeniorityMid, SenioritySenior, SeniorityIntern}

// Skill importance bounds. 5 = must-have, 1 = optional.
const (
	MinSkillLevel = 1
	MaxSkillLevel = 5
)

// AnalysisResult is the outcome of analysing one job posting.
type AnalysisResult struct {
	Seniority Seniority    `json:"seniority"`
	Skills    *SkillLevels `json:"skills"`
}

// CategoryOther is the escape category for skills that fit nowhere else.
const CategoryOther = "Other"

// Categories is the closed category vocabulary offered to the oracle.
var Categories = []string{
	"Backend", "Frontend", "Fullstack", "Mobile", "DevOps", "Cloud", "Data/ML",
	"Databases", "Testing", "Security", "Languages", "Frameworks", "Tools", CategoryOther,
}

// CategoryMap maps a skill name to its category label.
type CategoryMap map[string]string

// SkillGroups maps a category to the skills (and their levels) placed in it.
type SkillGroups map[string]map[string]int
