package highlights

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/forPelevin/viralcut/internal/types"
)

func TestDecodeRules_EmptyKeepsDefaults(t *testing.T) {
	r, err := DecodeRules(strings.NewReader(""))
	if err != nil {
		t.Fatalf("DecodeRules: %v", err)
	}
	def := DefaultRules()
	if len(r.Categories) != len(def.Categories) || r.QuestionBonus != def.QuestionBonus {
		t.Fatalf("expected defaults, got %+v", r)
	}
}

func TestDecodeRules_MergesWithDefaults(t *testing.T) {
	in := `
categories:
  - name: tech
    weight: 4
    words: [golang]
question_bonus: 1
`
	r, err := DecodeRules(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	if len(r.Categories) != 1 || r.Categories[0].Name != "tech" {
		t.Fatalf("expected categories to be replaced, got %+v", r.Categories)
	}
	if r.QuestionBonus != 1 {
		t.Fatalf("question bonus = %d", r.QuestionBonus)
	}
	if r.ExclamationBonus != 5 || r.SweetSpotMax != 30 {
		t.Fatalf("expected defaults to survive, got %+v", r)
	}
	if r.Emphasis.Weight != DefaultRules().Emphasis.Weight {
		t.Fatalf("emphasis should keep default, got %+v", r.Emphasis)
	}
	if got := r.Score(types.Segment{Start: 0, End: 5, Text: "Golang?"}); got != 4+1 {
		t.Fatalf("score with custom rules = %d", got)
	}
}

func TestDecodeRules_Errors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"unknown field", "bonus_points: 4\n"},
		{"negative weight", "categories:\n  - name: x\n    weight: -1\n"},
		{"negative emphasis", "emphasis:\n  weight: -2\n"},
		{"inverted sweet spot", "sweet_spot_min: 40\nsweet_spot_max: 20\n"},
		{"bad yaml", "categories: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeRules(strings.NewReader(tt.in)); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestLoadRules(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keywords.yaml")
	if err := os.WriteFile(path, []byte("exclamation_bonus: 7\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	r, err := LoadRules(path)
	if err != nil {
		t.Fatalf("LoadRules: %v", err)
	}
	if r.ExclamationBonus != 7 {
		t.Fatalf("exclamation_bonus: got %d", r.ExclamationBonus)
	}

	_, err = LoadRules(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil || !strings.Contains(err.Error(), "open rules") {
		t.Fatalf("expected open error, got %v", err)
	}
}
