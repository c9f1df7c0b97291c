package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/amishk599/skillsift/internal/model"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")) // bright blue

	labelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			Width(12)

	skillStyle = lipgloss.NewStyle().
			Width(28)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	barStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")) // green

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
)

// levelBar draws a 5-slot bar for a level; out-of-range levels are shown as-is.
func levelBar(level int) string {
	filled := max(0, min(level, model.MaxSkillLevel))
	return barStyle.Render(strings.Repeat("■", filled)) +
		dimStyle.Render(strings.Repeat("□", model.MaxSkillLevel-filled)) +
		dimStyle.Render(fmt.Sprintf(" %d", level))
}

// RenderAnalysis formats an analysis result for the terminal. Skills keep
// the order the pipeline produced them in.
func RenderAnalysis(res model.AnalysisResult) string {
	var b strings.Builder
	b.WriteString(labelStyle.Render("Seniority") + string(res.Seniority) + "\n\n")
	b.WriteString(headerStyle.Render("Skills") + "\n")

	if res.Skills.Len() == 0 {
		b.WriteString(dimStyle.Render("  no technical skills found") + "\n")
		return boxStyle.Render(strings.TrimRight(b.String(), "\n"))
	}
	for _, e := range res.Skills.Entries() {
		b.WriteString("  " + skillStyle.Render(e.Name) + levelBar(e.Level) + "\n")
	}
	return boxStyle.Render(strings.TrimRight(b.String(), "\n"))
}

// RenderCategories lists skills under their category, categories in the
// canonical order with unknown labels last.
func RenderCategories(cats model.CategoryMap) string {
	byCat := make(map[string][]string)
	for skill, cat := range cats {
		byCat[cat] = append(byCat[cat], skill)
	}

	var b strings.Builder
	for _, cat := range categoryOrder(byCat) {
		skills := byCat[cat]
		sort.Strings(skills)
		b.WriteString(headerStyle.Render(cat) + dimStyle.Render(fmt.Sprintf(" (%d)", len(skills))) + "\n")
		for _, s := range skills {
			b.WriteString("  " + s + "\n")
		}
	}
	if b.Len() == 0 {
		return dimStyle.Render("no skills")
	}
	return strings.TrimRight(b.String(), "\n")
}

func categoryOrder[V any](byCat map[string]V) []string {
	var out []string
	known := make(map[string]bool, len(model.Categories))
	for _, c := range model.Categories {
		known[c] = true
		if _, ok := byCat[c]; ok && c != model.CategoryOther {
			out = append(out, c)
		}
	}
	var extra []string
	for c := range byCat {
		if !known[c] {
			extra = append(extra, c)
		}
	}
	sort.Strings(extra)
	out = append(out, extra...)
	if _, ok := byCat[model.CategoryOther]; ok {
		out = append(out, model.CategoryOther)
	}
	return out
}

// RenderGroups formats the category → skill → level hierarchy.
func RenderGroups(groups model.SkillGroups) string {
	var b strings.Builder
	for _, cat := range categoryOrder(groups) {
		skills := groups[cat]
		names := make([]string, 0, len(skills))
		for s := range skills {
			names = append(names, s)
		}
		sort.Strings(names)
		b.WriteString(headerStyle.Render(cat) + "\n")
		for _, s := range names {
			b.WriteString("  " + skillStyle.Render(s) + levelBar(skills[s]) + "\n")
		}
	}
	if b.Len() == 0 {
		return dimStyle.Render("no skills")
	}
	return strings.TrimRight(b.String(), "\n")
}
