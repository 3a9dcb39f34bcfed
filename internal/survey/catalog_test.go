package survey_test

import (
	"strings"
	"testing"

	"github.com/nyashahama/provider-scorecard/internal/scoring"
	"github.com/nyashahama/provider-scorecard/internal/survey"
)

func intp(v int) *int { return &v }

func TestLoad_EmbeddedCatalogue(t *testing.T) {
	c, err := survey.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	keys := c.Keys()
	if strings.Join(keys, ",") != "cleanway,transporte" {
		t.Errorf("Keys() = %v, want [cleanway transporte]", keys)
	}
	if c.Default().Key != "transporte" {
		t.Errorf("Default() = %q, want transporte", c.Default().Key)
	}

	for _, f := range c.Forms() {
		if len(f.Questions) != 12 {
			t.Errorf("form %q: %d questions, want 12", f.Key, len(f.Questions))
		}
		ids := f.QuestionIDs()
		for i, id := range ids {
			if id != i+1 {
				t.Errorf("form %q: question at position %d has id %d", f.Key, i, id)
			}
		}
	}
}

func TestResolve(t *testing.T) {
	c := survey.MustLoad()

	f, ok := c.Resolve("")
	if !ok || f.Key != "transporte" {
		t.Errorf("Resolve(\"\") = %v, %v; want transporte", f, ok)
	}
	f, ok = c.Resolve("cleanway")
	if !ok || f.Key != "cleanway" {
		t.Errorf("Resolve(cleanway) = %v, %v", f, ok)
	}
	if _, ok := c.Resolve("nope"); ok {
		t.Error("Resolve(nope) should report not found")
	}
}

func TestFormQuestionLookup(t *testing.T) {
	f := survey.MustLoad().Default()
	q, ok := f.Question(12)
	if !ok || !strings.Contains(q.Text, "quién subió") {
		t.Errorf("Question(12) = %+v, %v", q, ok)
	}
	if _, ok := f.Question(13); ok {
		t.Error("Question(13) should not exist")
	}
}

func TestFormScore(t *testing.T) {
	f := survey.MustLoad().Default()

	answers := scoring.Answers{}
	for id := 1; id <= 6; id++ {
		answers = answers.With(id, 2)
	}
	res, tier := f.Score(answers)

	if res.Total != 12 || res.Missing != 6 || res.Max != 24 {
		t.Errorf("result = %+v, want total=12 missing=6 max=24", res)
	}
	if tier.Level != scoring.LevelMedium || tier.Badge != "Medio" {
		t.Errorf("tier = %+v, want medium/Medio", tier)
	}
}

func TestFormTierCopy(t *testing.T) {
	f, _ := survey.MustLoad().Form("transporte")
	tests := []struct {
		total int
		badge string
	}{
		{0, "Bajo"},
		{11, "Bajo"},
		{12, "Medio"},
		{18, "Medio"},
		{19, "Alto"},
		{24, "Alto"},
	}
	for _, tt := range tests {
		if got := f.Tier(tt.total); got.Badge != tt.badge || got.Message == "" {
			t.Errorf("Tier(%d) = %+v, want badge %q", tt.total, got, tt.badge)
		}
	}
}

func TestParse_Rejects(t *testing.T) {
	tiers := `
    tiers:
      low: {badge: B, message: m}
      medium: {badge: M, message: m}
      high: {badge: A, message: m}`

	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"no forms", `forms: []`, "no forms"},
		{"malformed", `forms: [`, "parse catalogue"},
		{"missing key", `
forms:
  - title: T` + tiers + `
    questions: [{id: 1, text: q}]`, "key must not be empty"},
		{"duplicate question id", `
forms:
  - key: a
    title: T` + tiers + `
    questions: [{id: 1, text: q}, {id: 1, text: r}]`, "duplicate question id"},
		{"non-positive id", `
forms:
  - key: a
    title: T` + tiers + `
    questions: [{id: 0, text: q}]`, "must be positive"},
		{"missing tier copy", `
forms:
  - key: a
    title: T
    tiers:
      low: {badge: B, message: m}
    questions: [{id: 1, text: q}]`, "missing copy"},
		{"unknown default", `
default: b
forms:
  - key: a
    title: T` + tiers + `
    questions: [{id: 1, text: q}]`, "default form"},
		{"duplicate form", `
forms:
  - key: a
    title: T` + tiers + `
    questions: [{id: 1, text: q}]
  - key: a
    title: T` + tiers + `
    questions: [{id: 1, text: q}]`, "duplicate form key"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := survey.Parse([]byte(tt.yaml))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestParse_SubjectDefaultsToTitle(t *testing.T) {
	c, err := survey.Parse([]byte(`
forms:
  - key: a
    title: Only title
    tiers:
      low: {badge: B, message: m}
      medium: {badge: M, message: m}
      high: {badge: A, message: m}
    questions: [{id: 3, text: q}]`))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	f := c.Default()
	if f.Subject != "Only title" {
		t.Errorf("Subject = %q, want title fallback", f.Subject)
	}
	res, _ := f.Score(scoring.Answers{3: intp(1)})
	if res.Total != 1 || res.Max != 2 {
		t.Errorf("result = %+v", res)
	}
}
