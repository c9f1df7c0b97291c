package skills

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/amishk599/skillsift/internal/oracle"
)

func TestLLMCandidateExtractor_Extract(t *testing.T) {
	tests := []struct {
		name   string
		answer string
		want   []string
	}{
		{
			name:   "filters long items and trims",
			answer: `["  Go ", "Spring Boot", "Amazon Web Services", "strong written communication skills"]`,
			want:   []string{"Go", "Spring Boot", "Amazon Web Services"},
		},
		{
			name:   "array inside prose",
			answer: "Here you go:\n[\"Docker\", \"Kubernetes\"]\nHope this helps [1]",
			want:   []string{"Docker", "Kubernetes"},
		},
		{
			name:   "drops empty items",
			answer: `["", "  ", "Rust"]`,
			want:   []string{"Rust"},
		},
		{
			name:   "no array",
			answer: `{"skills": "Go"}`,
			want:   []string{},
		},
		{
			name:   "oracle failure",
			answer: "",
			want:   []string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := newScriptedGenerator(tt.answer)
			e := NewLLMCandidateExtractor(gen, nil, discardLogger)

			got := e.Extract(context.Background(), "job text")
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Extract = %#v, want %#v", got, tt.want)
			}
			if gen.budgets[0] != 200 {
				t.Errorf("budget = %d, want 200", gen.budgets[0])
			}
		})
	}
}

func TestNERCandidateExtractor_Extract(t *testing.T) {
	rec := &fakeRecognizer{entities: []oracle.Entity{
		{Group: "SKILL", Word: "Python"},
		{Group: "ORG", Word: "Acme Corp"},
		{Group: "SKILL", Word: " Docker "},
		{Group: "LOC", Word: "Berlin"},
		{Group: "PER", Word: "Jane"},
		{Group: "SKILL", Word: "Python"},
		{Group: "DEGREE", Word: "BSc"},
		{Group: "SKILL", Word: "Docker"},
	}}
	e := NewNERCandidateExtractor(rec, nil, discardLogger)

	got := e.Extract(context.Background(), "job text")
	want := []string{"Python", "Docker", "BSc"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Extract = %v, want %v", got, want)
	}
}

func TestNERCandidateExtractor_Failure(t *testing.T) {
	e := NewNERCandidateExtractor(&fakeRecognizer{err: errors.New("503")}, nil, discardLogger)
	got := e.Extract(context.Background(), "job text")
	if got == nil || len(got) != 0 {
		t.Errorf("Extract = %#v, want empty non-nil list", got)
	}
}
