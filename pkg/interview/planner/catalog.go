package planner

import (
	"fmt"
	"os"
	"sort"

	"ai-interview-be/internal/entity"

	"gopkg.in/yaml.v3"
)

// Template is one candidate phase of the fixed catalog.
type Template struct {
	Key             string                  `yaml:"key"`
	Name            string                  `yaml:"name"`
	Category        string                  `yaml:"category"`
	Order           int                     `yaml:"order"`
	Description     string                  `yaml:"description"`
	DurationMinutes int                     `yaml:"duration_minutes"`
	QuestionCount   int                     `yaml:"question_count"`
	Difficulty      entity.Difficulty       `yaml:"difficulty"`
	RequiredFor     []entity.InterviewStyle `yaml:"required_for"`
}

func (t Template) requiredFor(style entity.InterviewStyle) bool {
	for _, s := range t.RequiredFor {
		if s == style {
			return true
		}
	}
	return false
}

// Catalog is read-only after construction.
type Catalog struct {
	templates []Template
}

type catalogFile struct {
	Phases []Template `yaml:"phases"`
}

var (
	allStyles       = []entity.InterviewStyle{entity.StyleTechnical, entity.StyleBehavioral, entity.StyleMixed, entity.StyleLeadership}
	technicalStyles = []entity.InterviewStyle{entity.StyleTechnical, entity.StyleMixed}
	peopleStyles    = []entity.InterviewStyle{entity.StyleBehavioral, entity.StyleMixed, entity.StyleLeadership}
)

// DefaultCatalog returns the built-in nine-phase catalog.
func DefaultCatalog() *Catalog {
	c, _ := NewCatalog([]Template{
		{Key: "introduction", Name: "Introduction & Ice Breaker", Category: "introduction", Order: 1,
			Description:     "Welcome the candidate, explain the process and open with ice-breaker questions",
			DurationMinutes: 5, QuestionCount: 2, Difficulty: entity.DifficultyEasy, RequiredFor: allStyles},
		{Key: "warm_up", Name: "Warm-up Questions", Category: "general", Order: 2,
			Description:     "Simple questions to build confidence and assess basic communication",
			DurationMinutes: 8, QuestionCount: 3, Difficulty: entity.DifficultyEasy, RequiredFor: allStyles},
		{Key: "technical_basic", Name: "Basic Technical Assessment", Category: "technical", Order: 3,
			Description:     "Fundamental technical questions appropriate for the candidate's level",
			DurationMinutes: 15, QuestionCount: 4, Difficulty: entity.DifficultyMedium, RequiredFor: technicalStyles},
		{Key: "technical_advanced", Name: "Advanced Technical Assessment", Category: "technical", Order: 4,
			Description:     "Complex technical questions testing depth of knowledge",
			DurationMinutes: 20, QuestionCount: 3, Difficulty: entity.DifficultyHard, RequiredFor: technicalStyles},
		{Key: "behavioral", Name: "Behavioral Assessment", Category: "behavioral", Order: 5,
			Description:     "Past experiences, teamwork and soft skills",
			DurationMinutes: 15, QuestionCount: 4, Difficulty: entity.DifficultyMedium, RequiredFor: peopleStyles},
		{Key: "problem_solving", Name: "Problem-Solving Scenarios", Category: "problem_solving", Order: 6,
			Description:     "Real-world scenarios testing analytical thinking and decision-making",
			DurationMinutes: 12, QuestionCount: 2, Difficulty: entity.DifficultyHard,
			RequiredFor: []entity.InterviewStyle{entity.StyleTechnical, entity.StyleMixed, entity.StyleLeadership}},
		{Key: "situational", Name: "Situational Questions", Category: "situational", Order: 7,
			Description:     "Hypothetical scenarios assessing judgment and approach",
			DurationMinutes: 10, QuestionCount: 2, Difficulty: entity.DifficultyMedium, RequiredFor: peopleStyles},
		{Key: "cultural_fit", Name: "Cultural Fit Assessment", Category: "cultural_fit", Order: 8,
			Description:     "Work style, values and team dynamics",
			DurationMinutes: 8, QuestionCount: 2, Difficulty: entity.DifficultyMedium, RequiredFor: peopleStyles},
		{Key: "closing", Name: "Closing & Next Steps", Category: "closing", Order: 9,
			Description:     "Wrap up, answer candidate questions and explain next steps",
			DurationMinutes: 5, QuestionCount: 1, Difficulty: entity.DifficultyEasy, RequiredFor: allStyles},
	})
	return c
}

// NewCatalog validates templates and orders them by their phase order.
func NewCatalog(templates []Template) (*Catalog, error) {
	if len(templates) == 0 {
		return nil, fmt.Errorf("catalog must contain at least one phase")
	}

	seen := make(map[string]bool, len(templates))
	for i, t := range templates {
		if t.Key == "" {
			return nil, fmt.Errorf("phase %d must have a key", i)
		}
		if seen[t.Key] {
			return nil, fmt.Errorf("duplicate phase key %q", t.Key)
		}
		seen[t.Key] = true

		if t.Name == "" {
			return nil, fmt.Errorf("phase %q must have a name", t.Key)
		}
		if t.Order <= 0 {
			return nil, fmt.Errorf("phase %q must have a positive order", t.Key)
		}
		if t.QuestionCount < 1 {
			return nil, fmt.Errorf("phase %q must ask at least one question", t.Key)
		}
		if t.DurationMinutes < 1 {
			return nil, fmt.Errorf("phase %q must have a positive duration", t.Key)
		}
		if !t.Difficulty.IsValid() {
			return nil, fmt.Errorf("phase %q has unknown difficulty %q", t.Key, t.Difficulty)
		}
		if len(t.RequiredFor) == 0 {
			return nil, fmt.Errorf("phase %q must be required for at least one interview style", t.Key)
		}
		for _, s := range t.RequiredFor {
			if !s.IsValid() {
				return nil, fmt.Errorf("phase %q references unknown interview style %q", t.Key, s)
			}
		}
	}

	sorted := make([]Template, len(templates))
	copy(sorted, templates)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Order < sorted[j].Order })

	return &Catalog{templates: sorted}, nil
}

// LoadCatalog reads a YAML phase catalog from disk.
func LoadCatalog(filename string) (*Catalog, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", filename, err)
	}

	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse catalog YAML: %w", err)
	}

	catalog, err := NewCatalog(file.Phases)
	if err != nil {
		return nil, fmt.Errorf("validate catalog: %w", err)
	}
	return catalog, nil
}

// Templates returns a copy of the ordered templates.
func (c *Catalog) Templates() []Template {
	out := make([]Template, len(c.templates))
	copy(out, c.templates)
	return out
}

// ForStyle returns the templates required for a style, in phase order.
func (c *Catalog) ForStyle(style entity.InterviewStyle) []Template {
	var out []Template
	for _, t := range c.templates {
		if t.requiredFor(style) {
			out = append(out, t)
		}
	}
	return out
}

func (c *Catalog) Template(key string) (Template, bool) {
	for _, t := range c.templates {
		if t.Key == key {
			return t, true
		}
	}
	return Template{}, false
}
