package skills

import (
	"context"
	"reflect"
	"testing"

	"github.com/amishk599/skillsift/internal/model"
)

func TestCoerceGroups(t *testing.T) {
	input := model.SkillLevelsOf(
		model.SkillLevel{Name: "Go", Level: 4},
		model.SkillLevel{Name: "Docker", Level: 2},
		model.SkillLevel{Name: "Testing", Level: 3},
	)
	got, err := coerceGroups(`{
		"Backend": {"Go": "expert", "gRPC": "x", "Kafka": 3},
		"DevOps": {"Docker": 2.9},
		"Testing": "yes"
	}`, input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := model.SkillGroups{
		"Backend": {"Go": 4, "gRPC": 5, "Kafka": 3},
		"DevOps":  {"Docker": 2},
		"Testing": {"Testing": 3},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("coerceGroups = %v, want %v", got, want)
	}
}

func TestCoerceGroups_NoObject(t *testing.T) {
	if _, err := coerceGroups("sorry", model.NewSkillLevels()); err == nil {
		t.Fatal("expected error")
	}
}

func TestHierarchicalGrouper_RepairsAndSums(t *testing.T) {
	gen := newScriptedGenerator(
		// chunk 1: draft, then repaired
		`{"Backend": {"Go": {"level": 4}}}`,
		`{"Backend": {"Go": 4}, "Tools": {"Git": 1}}`,
		// chunk 2: draft, then repaired
		`{"Backend": ["Go"]}`,
		`{"Backend": {"Go": 1}}`,
	)
	g := NewHierarchicalGrouper(gen, 2, nil, discardLogger)

	in := model.SkillLevelsOf(
		model.SkillLevel{Name: "Go", Level: 4},
		model.SkillLevel{Name: "Git", Level: 1},
		model.SkillLevel{Name: "Golang", Level: 1},
	)
	got := g.Group(context.Background(), in)
	want := model.SkillGroups{
		"Backend": {"Go": 5},
		"Tools":   {"Git": 1},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Group = %v, want %v", got, want)
	}

	if gen.calls() != 4 {
		t.Fatalf("oracle calls = %d, want 4", gen.calls())
	}
	wantBudgets := []int{1500, 1000, 1500, 1000}
	if !reflect.DeepEqual(gen.budgets, wantBudgets) {
		t.Errorf("budgets = %v, want %v", gen.budgets, wantBudgets)
	}
}

func TestHierarchicalGrouper_UnreadableChunkIsUngrouped(t *testing.T) {
	gen := newScriptedGenerator("garbage", "still garbage")
	g := NewHierarchicalGrouper(gen, 50, nil, discardLogger)

	in := model.SkillLevelsOf(
		model.SkillLevel{Name: "Go", Level: 4},
		model.SkillLevel{Name: "Rust", Level: 2},
	)
	got := g.Group(context.Background(), in)
	want := model.SkillGroups{UngroupedCategory: {"Go": 4, "Rust": 2}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Group = %v, want %v", got, want)
	}
}
