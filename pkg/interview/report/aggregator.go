package report

import (
	"fmt"
	"strings"
	"time"

	"ai-interview-be/internal/entity"
)

const (
	technicalShare      = 0.4
	communicationShare  = 0.3
	problemSolvingShare = 0.3
)

type band int

const (
	bandLow band = iota
	bandMid
	bandHigh
)

func bandFor(score float64) band {
	switch {
	case score >= 7:
		return bandHigh
	case score >= 5:
		return bandMid
	default:
		return bandLow
	}
}

var strengthBank = map[band][]string{
	bandHigh: {"Strong technical foundation", "Good communication skills", "Demonstrates practical experience"},
	bandMid:  {"Basic technical knowledge", "Some relevant experience"},
	bandLow:  {"Shows willingness to learn"},
}

var improvementBank = map[band][]string{
	bandHigh: {"Could provide more specific examples", "Consider deeper technical explanations"},
	bandMid:  {"Improve technical depth", "Enhance communication clarity", "Provide more concrete examples"},
	bandLow:  {"Focus on fundamental concepts", "Improve technical knowledge", "Enhance communication skills"},
}

var recommendationBank = map[band][]string{
	bandHigh: {"Recommend for hire", "Provide onboarding support focused on team practices", "Consider for stretch assignments early"},
	bandMid:  {"Consider with reservations", "Provide additional training", "Re-evaluate after probation"},
	bandLow:  {"Not recommended for this position", "Consider for other roles", "Provide constructive feedback"},
}

var behavioralCategories = map[string]bool{
	"behavioral":  true,
	"situational": true,
	"leadership":  true,
}

const culturalFitCategory = "cultural_fit"

// Hiring maps an overall score to a recommendation and the confidence in it.
// Each band is inclusive at its lower bound.
func Hiring(overall float64) (entity.HiringRecommendation, float64) {
	switch {
	case overall >= 8.0:
		return entity.RecommendStrongHire, 0.9
	case overall >= 7.0:
		return entity.RecommendHire, 0.8
	case overall >= 6.0:
		return entity.RecommendConsider, 0.6
	default:
		return entity.RecommendDoNotHire, 0.7
	}
}

// Aggregate builds the final report for a session. It reads the session only.
func Aggregate(session *entity.Session, generatedAt time.Time) entity.Report {
	responses := session.Responses

	overall := mean(responses, func(r entity.Response) float64 { return r.Evaluation.OverallScore })
	avgTime := mean(responses, func(r entity.Response) float64 { return float64(r.Answer.TimeTaken) })

	technical := overall * technicalShare
	communication := overall * communicationShare
	problemSolving := overall * problemSolvingShare
	var behavioral, culturalFit float64

	if len(responses) > 0 {
		technical = mean(responses, func(r entity.Response) float64 { return r.Evaluation.TechnicalAccuracy })
		communication = mean(responses, func(r entity.Response) float64 { return r.Evaluation.CommunicationClarity })
		problemSolving = mean(responses, func(r entity.Response) float64 { return r.Evaluation.ProblemSolving })
		relevance := mean(responses, func(r entity.Response) float64 { return r.Evaluation.ExperienceRelevance })

		behavioral = categoryMean(responses, func(c string) bool { return behavioralCategories[c] }, relevance)
		culturalFit = categoryMean(responses, func(c string) bool { return c == culturalFitCategory }, relevance)
	}

	ended := generatedAt
	if session.EndedAt != nil {
		ended = *session.EndedAt
	}

	recommendation, confidence := Hiring(overall)
	b := bandFor(overall)

	r := entity.Report{
		SessionId:             session.Id,
		Candidate:             session.Candidate,
		Position:              session.Candidate.Position,
		OverallScore:          overall,
		TechnicalScore:        technical,
		BehavioralScore:       behavioral,
		CommunicationScore:    communication,
		ProblemSolvingScore:   problemSolving,
		CulturalFitScore:      culturalFit,
		Strengths:             clone(strengthBank[b]),
		AreasForImprovement:   clone(improvementBank[b]),
		SkillGaps:             skillGaps(responses),
		Recommendations:       clone(recommendationBank[b]),
		TotalQuestions:        len(session.Questions),
		TotalResponses:        len(responses),
		AverageResponseTime:   avgTime,
		DifficultyProgression: progression(responses),
		HiringRecommendation:  recommendation,
		ConfidenceLevel:       confidence,
		GeneratedAt:           generatedAt,
		InterviewDuration:     ended.Sub(session.StartedAt).Minutes(),
	}
	r.DetailedFeedback = narrative(&r)

	return r
}

func mean(responses []entity.Response, pick func(entity.Response) float64) float64 {
	if len(responses) == 0 {
		return 0
	}
	sum := 0.0
	for _, r := range responses {
		sum += pick(r)
	}
	return sum / float64(len(responses))
}

func categoryMean(responses []entity.Response, match func(string) bool, fallback float64) float64 {
	sum, n := 0.0, 0
	for _, r := range responses {
		if match(r.Category) {
			sum += r.Evaluation.OverallScore
			n++
		}
	}
	if n == 0 {
		return fallback
	}
	return sum / float64(n)
}

func skillGaps(responses []entity.Response) []string {
	seen := make(map[string]bool)
	gaps := []string{}
	for _, r := range responses {
		for _, gap := range r.Evaluation.SkillGaps {
			key := strings.ToLower(strings.TrimSpace(gap))
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			gaps = append(gaps, strings.TrimSpace(gap))
		}
	}
	return gaps
}

func progression(responses []entity.Response) []entity.DifficultyStep {
	steps := make([]entity.DifficultyStep, 0, len(responses))
	for _, r := range responses {
		steps = append(steps, entity.DifficultyStep{
			QuestionId: r.Answer.QuestionId,
			Difficulty: r.Difficulty,
			Score:      r.Evaluation.OverallScore,
		})
	}
	return steps
}

func narrative(r *entity.Report) string {
	name := r.Candidate.Name
	if name == "" {
		name = "The candidate"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s answered %d of %d questions for the %s position with an overall score of %.1f/10. ",
		name, r.TotalResponses, r.TotalQuestions, r.Position, r.OverallScore)
	fmt.Fprintf(&sb, "Technical %.1f, communication %.1f, problem solving %.1f. ",
		r.TechnicalScore, r.CommunicationScore, r.ProblemSolvingScore)

	switch bandFor(r.OverallScore) {
	case bandHigh:
		sb.WriteString("Performance was consistently strong across the interview.")
	case bandMid:
		sb.WriteString("Performance was adequate with room to grow in several areas.")
	default:
		sb.WriteString("Performance fell below the level expected for this role.")
	}

	if len(r.SkillGaps) > 0 {
		fmt.Fprintf(&sb, " Skill gaps noted: %s.", strings.Join(r.SkillGaps, ", "))
	}
	return sb.String()
}

func clone(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
