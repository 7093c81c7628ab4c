package planner

import (
	"strings"

	"ai-interview-be/internal/entity"
)

const (
	minPhaseMinutes   = 3
	maxQuestionCount  = 6
	baselineQuestions = 3.0
	hardMultiplier    = 1.3
	easyMultiplier    = 0.8
	seniorYears       = 5
	juniorYears       = 1
)

// Planner computes the phase schedule a session follows. It never replans
// mid-session.
type Planner struct {
	catalog *Catalog
}

func NewPlanner(catalog *Catalog) *Planner {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	return &Planner{catalog: catalog}
}

func (p *Planner) Catalog() *Catalog {
	return p.catalog
}

// Plan selects the phases for the interview style, adapts them to the
// candidate and fits them into totalMinutes. Each phase keeps a 3 minute
// floor even when that pushes the total over a very short budget.
func (p *Planner) Plan(candidate entity.CandidateRecord, profile entity.SkillProfile, style entity.InterviewStyle, totalMinutes int) []entity.Phase {
	years := ExperienceYears(candidate, profile)

	templates := p.catalog.ForStyle(style)
	phases := make([]entity.Phase, 0, len(templates))
	for _, t := range templates {
		difficulty := adjustDifficulty(t.Difficulty, years)
		count := adjustQuestionCount(t.QuestionCount, years, candidate.Position)

		phases = append(phases, entity.Phase{
			Key:              t.Key,
			Name:             t.Name,
			Category:         t.Category,
			Order:            t.Order,
			Description:      t.Description,
			TargetDifficulty: difficulty,
			QuestionCount:    count,
			DurationMinutes:  phaseDuration(t.DurationMinutes, count, difficulty),
		})
	}

	return fitDuration(phases, totalMinutes)
}

// ExperienceYears prefers the resume-derived figure and falls back to the
// declared seniority band when the resume read produced nothing.
func ExperienceYears(candidate entity.CandidateRecord, profile entity.SkillProfile) float64 {
	if profile.Confidence > 0 || profile.ExperienceYears > 0 {
		return profile.ExperienceYears
	}
	return candidate.Seniority.NominalYears()
}

func adjustDifficulty(base entity.Difficulty, years float64) entity.Difficulty {
	switch {
	case years <= juniorYears:
		return base.StepDown()
	case years >= seniorYears:
		return base.StepUp()
	default:
		return base
	}
}

func adjustQuestionCount(base int, years float64, position string) int {
	title := strings.ToLower(position)
	if strings.Contains(title, "senior") || strings.Contains(title, "lead") {
		base = min(base+1, maxQuestionCount)
	}
	if years <= juniorYears {
		base = max(base-1, 1)
	}
	return base
}

func phaseDuration(baseMinutes, questionCount int, difficulty entity.Difficulty) int {
	duration := float64(baseMinutes) * (float64(questionCount) / baselineQuestions)

	switch difficulty {
	case entity.DifficultyHard:
		duration *= hardMultiplier
	case entity.DifficultyEasy:
		duration *= easyMultiplier
	}

	return max(int(duration), minPhaseMinutes)
}

func fitDuration(phases []entity.Phase, totalMinutes int) []entity.Phase {
	estimated := TotalMinutes(phases)
	if estimated <= totalMinutes || estimated == 0 {
		return phases
	}

	ratio := float64(totalMinutes) / float64(estimated)
	for i := range phases {
		phases[i].DurationMinutes = max(int(float64(phases[i].DurationMinutes)*ratio), minPhaseMinutes)
	}
	return phases
}

func TotalMinutes(phases []entity.Phase) int {
	total := 0
	for _, ph := range phases {
		total += ph.DurationMinutes
	}
	return total
}

func TotalQuestions(phases []entity.Phase) int {
	total := 0
	for _, ph := range phases {
		total += ph.QuestionCount
	}
	return total
}
