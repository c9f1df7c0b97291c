package pipeline

import (
	"context"
	"io"
	"log/slog"
	"reflect"
	"testing"

	"github.com/amishk599/skillsift/internal/model"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// recorder tracks the order in which stages ran.
type recorder struct {
	calls []string
}

type stubSeniority struct {
	rec   *recorder
	label model.Seniority
}

func (s *stubSeniority) Classify(context.Context, string) model.Seniority {
	s.rec.calls = append(s.rec.calls, "seniority")
	return s.label
}

type stubCandidates struct {
	rec   *recorder
	items []string
}

func (s *stubCandidates) Extract(context.Context, string) []string {
	s.rec.calls = append(s.rec.calls, "candidates")
	return s.items
}

type stubTechnical struct {
	rec    *recorder
	reject map[string]bool
	got    []string
}

func (s *stubTechnical) Filter(_ context.Context, candidates []string) []string {
	s.rec.calls = append(s.rec.calls, "technical")
	s.got = candidates
	var out []string
	for _, c := range candidates {
		if !s.reject[c] {
			out = append(out, c)
		}
	}
	return out
}

type stubLevels struct {
	rec *recorder
	got []string
}

func (s *stubLevels) Assign(_ context.Context, _ string, skills []string) *model.SkillLevels {
	s.rec.calls = append(s.rec.calls, "levels")
	s.got = skills
	out := model.NewSkillLevels()
	for i, sk := range skills {
		out.Set(sk, i+1)
	}
	return out
}

type stubMerger struct {
	rec *recorder
}

func (s *stubMerger) Merge(_ context.Context, levels *model.SkillLevels) *model.SkillLevels {
	s.rec.calls = append(s.rec.calls, "merge")
	return levels
}

func TestAnalyze_RunsStagesInOrder(t *testing.T) {
	rec := &recorder{}
	tech := &stubTechnical{rec: rec, reject: map[string]bool{"Teamwork": true}}
	levels := &stubLevels{rec: rec}
	p := New(Stages{
		Seniority:  &stubSeniority{rec: rec, label: model.SeniorityJunior},
		Candidates: &stubCandidates{rec: rec, items: []string{"Go", "Teamwork", "Docker"}},
		Technical:  tech,
		Levels:     levels,
		Merger:     &stubMerger{rec: rec},
	}, discardLogger)

	got := p.Analyze(context.Background(), "job text")

	wantOrder := []string{"seniority", "candidates", "technical", "levels", "merge"}
	if !reflect.DeepEqual(rec.calls, wantOrder) {
		t.Errorf("stage order = %v, want %v", rec.calls, wantOrder)
	}
	if got.Seniority != model.SeniorityJunior {
		t.Errorf("Seniority = %q, want junior", got.Seniority)
	}
	if !reflect.DeepEqual(levels.got, []string{"Go", "Docker"}) {
		t.Errorf("levels stage got %v, want filtered candidates", levels.got)
	}
	want := []model.SkillLevel{{Name: "Go", Level: 1}, {Name: "Docker", Level: 2}}
	if !reflect.DeepEqual(got.Skills.Entries(), want) {
		t.Errorf("Skills = %v, want %v", got.Skills.Entries(), want)
	}
}

type nilMerger struct{}

func (nilMerger) Merge(context.Context, *model.SkillLevels) *model.SkillLevels { return nil }

func TestAnalyze_AlwaysReturnsSkillsMap(t *testing.T) {
	rec := &recorder{}
	p := New(Stages{
		Seniority:  &stubSeniority{rec: rec, label: model.SeniorityMid},
		Candidates: &stubCandidates{rec: rec},
		Technical:  &stubTechnical{rec: rec},
		Levels:     &stubLevels{rec: rec},
		Merger:     nilMerger{},
	}, discardLogger)

	got := p.Analyze(context.Background(), "")
	if got.Skills == nil {
		t.Fatal("Skills is nil")
	}
	if got.Skills.Len() != 0 {
		t.Errorf("Len = %d, want 0", got.Skills.Len())
	}
}

type stubCategorizer struct{ got []string }

func (s *stubCategorizer) Categorize(_ context.Context, skills []string) model.CategoryMap {
	s.got = skills
	out := model.CategoryMap{}
	for _, sk := range skills {
		out[sk] = "Tools"
	}
	return out
}

type stubGrouper struct{}

func (stubGrouper) Group(_ context.Context, skills *model.SkillLevels) model.SkillGroups {
	return model.SkillGroups{"Other": skills.Map()}
}

func TestGroupSkills(t *testing.T) {
	cat := &stubCategorizer{}
	p := New(Stages{Categorizer: cat}, discardLogger)

	got := p.GroupSkills(context.Background(), []string{"Git", "Jira"})
	if got["Git"] != "Tools" || got["Jira"] != "Tools" {
		t.Errorf("GroupSkills = %v", got)
	}
}

func TestGroupSkillLevels(t *testing.T) {
	p := New(Stages{Grouper: stubGrouper{}}, discardLogger)

	got := p.GroupSkillLevels(context.Background(), model.SkillLevelsOf(model.SkillLevel{Name: "Go", Level: 3}))
	if got["Other"]["Go"] != 3 {
		t.Errorf("GroupSkillLevels = %v", got)
	}
}
