// Package survey holds the static form catalogue: the ordered questions each
// survey asks and the copy shown for every tier. Forms are defined at build
// time in forms.yaml and never mutated after Load.
package survey

import (
	_ "embed"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/nyashahama/provider-scorecard/internal/scoring"
)

//go:embed forms.yaml
var embeddedForms []byte

// ─── TYPES ────────────────────────────────────────────────────────────────────

// Question is one statement the respondent scores.
type Question struct {
	ID   int    `yaml:"id" json:"id"`
	Text string `yaml:"text" json:"text"`
}

// TierCopy is the display text for one level of one form.
type TierCopy struct {
	Badge   string `yaml:"badge" json:"badge"`
	Message string `yaml:"message" json:"message"`
}

// Tier is a classified total together with the form's copy for it.
type Tier struct {
	Level   scoring.Level `json:"level"`
	Badge   string        `json:"badge"`
	Message string        `json:"message"`
}

// Form is a single survey variant (transport, cleaning, ...).
type Form struct {
	Key       string                     `yaml:"key" json:"key"`
	Title     string                     `yaml:"title" json:"title"`
	Subtitle  string                     `yaml:"subtitle" json:"subtitle"`
	Logo      string                     `yaml:"logo" json:"logo,omitempty"`
	Subject   string                     `yaml:"subject" json:"-"`
	Tiers     map[scoring.Level]TierCopy `yaml:"tiers" json:"tiers"`
	Questions []Question                 `yaml:"questions" json:"questions"`

	byID map[int]int // question ID → index in Questions
}

type catalogFile struct {
	Default string  `yaml:"default"`
	Forms   []*Form `yaml:"forms"`
}

// Catalog is the immutable set of forms. Safe for concurrent use.
type Catalog struct {
	forms      map[string]*Form
	order      []string
	defaultKey string
}

// ─── LOADING ──────────────────────────────────────────────────────────────────

// Load parses the catalogue compiled into the binary.
func Load() (*Catalog, error) {
	return Parse(embeddedForms)
}

// MustLoad is Load for package-level wiring; it panics on an invalid
// embedded catalogue, which can only happen if forms.yaml is broken.
func MustLoad() *Catalog {
	c, err := Load()
	if err != nil {
		panic(err)
	}
	return c
}

// Parse decodes and validates a YAML catalogue.
func Parse(raw []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("survey: parse catalogue: %w", err)
	}
	if len(file.Forms) == 0 {
		return nil, fmt.Errorf("survey: catalogue has no forms")
	}

	c := &Catalog{
		forms:      make(map[string]*Form, len(file.Forms)),
		order:      make([]string, 0, len(file.Forms)),
		defaultKey: file.Default,
	}
	for i, f := range file.Forms {
		if f == nil || f.Key == "" {
			return nil, fmt.Errorf("survey: form[%d]: key must not be empty", i)
		}
		if _, dup := c.forms[f.Key]; dup {
			return nil, fmt.Errorf("survey: duplicate form key %q", f.Key)
		}
		if err := f.init(); err != nil {
			return nil, err
		}
		c.forms[f.Key] = f
		c.order = append(c.order, f.Key)
	}

	if c.defaultKey == "" {
		c.defaultKey = c.order[0]
	}
	if _, ok := c.forms[c.defaultKey]; !ok {
		return nil, fmt.Errorf("survey: default form %q is not defined", c.defaultKey)
	}
	return c, nil
}

// init validates the form and builds its ID index.
func (f *Form) init() error {
	if f.Title == "" {
		return fmt.Errorf("survey: form %q: title must not be empty", f.Key)
	}
	if len(f.Questions) == 0 {
		return fmt.Errorf("survey: form %q: questions must not be empty", f.Key)
	}
	f.byID = make(map[int]int, len(f.Questions))
	for i, q := range f.Questions {
		if q.ID <= 0 {
			return fmt.Errorf("survey: form %q: question[%d] id must be positive, got %d", f.Key, i, q.ID)
		}
		if q.Text == "" {
			return fmt.Errorf("survey: form %q: question %d has no text", f.Key, q.ID)
		}
		if _, dup := f.byID[q.ID]; dup {
			return fmt.Errorf("survey: form %q: duplicate question id %d", f.Key, q.ID)
		}
		f.byID[q.ID] = i
	}
	for _, lvl := range scoring.Levels {
		if tc, ok := f.Tiers[lvl]; !ok || tc.Badge == "" || tc.Message == "" {
			return fmt.Errorf("survey: form %q: missing copy for tier %q", f.Key, lvl)
		}
	}
	if f.Subject == "" {
		f.Subject = f.Title
	}
	return nil
}

// ─── CATALOG ACCESSORS ────────────────────────────────────────────────────────

// Form returns the form registered under key.
func (c *Catalog) Form(key string) (*Form, bool) {
	f, ok := c.forms[key]
	return f, ok
}

// Default returns the form used when a submission names none.
func (c *Catalog) Default() *Form { return c.forms[c.defaultKey] }

// Resolve returns the form for key, or the default form when key is empty.
func (c *Catalog) Resolve(key string) (*Form, bool) {
	if key == "" {
		return c.Default(), true
	}
	return c.Form(key)
}

// Forms returns every form in catalogue order.
func (c *Catalog) Forms() []*Form {
	out := make([]*Form, 0, len(c.order))
	for _, k := range c.order {
		out = append(out, c.forms[k])
	}
	return out
}

// Keys returns the form keys sorted alphabetically.
func (c *Catalog) Keys() []string {
	keys := append([]string(nil), c.order...)
	sort.Strings(keys)
	return keys
}

// ─── FORM HELPERS ─────────────────────────────────────────────────────────────

// QuestionIDs returns the question IDs in display order.
func (f *Form) QuestionIDs() []int {
	ids := make([]int, len(f.Questions))
	for i, q := range f.Questions {
		ids[i] = q.ID
	}
	return ids
}

// Question looks up a question by ID.
func (f *Form) Question(id int) (Question, bool) {
	i, ok := f.byID[id]
	if !ok {
		return Question{}, false
	}
	return f.Questions[i], true
}

// Tier classifies total and attaches this form's copy.
func (f *Form) Tier(total int) Tier {
	lvl := scoring.Classify(total)
	tc := f.Tiers[lvl]
	return Tier{Level: lvl, Badge: tc.Badge, Message: tc.Message}
}

// Score tallies answers over this form's questions and classifies the total.
func (f *Form) Score(answers scoring.Answers) (scoring.Result, Tier) {
	res := scoring.Tally(f.QuestionIDs(), answers)
	return res, f.Tier(res.Total)
}
