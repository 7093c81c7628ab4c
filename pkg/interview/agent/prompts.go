package agent

import (
	"fmt"
	"strings"

	"ai-interview-be/internal/entity"
	"ai-interview-be/pkg/interview/engine"
)

// ExperienceLevel buckets years of experience for prompt wording.
func ExperienceLevel(years float64) string {
	switch {
	case years <= 2:
		return "junior"
	case years <= 5:
		return "mid-level"
	case years <= 7:
		return "senior"
	default:
		return "lead"
	}
}

func firstN(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}
	return items
}

func recentThemes(questions []entity.Question, n int) []string {
	var themes []string
	for i := len(questions) - 1; i >= 0 && len(themes) < n; i-- {
		themes = append(themes, questions[i].Category)
	}
	return themes
}

func listOrNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}

func questionPrompt(req engine.QuestionRequest) string {
	var sb strings.Builder

	sb.WriteString("Generate the next interview question for this candidate.\n\n")
	fmt.Fprintf(&sb, "Position: %s\n", req.Position)
	fmt.Fprintf(&sb, "Experience level: %s (%.1f years)\n", ExperienceLevel(req.Profile.ExperienceYears), req.Profile.ExperienceYears)
	fmt.Fprintf(&sb, "Interview style: %s\n", req.Candidate.Style)
	fmt.Fprintf(&sb, "Phase: %s (%s)\n", req.Phase.Name, req.Phase.Description)
	fmt.Fprintf(&sb, "Required difficulty: %s\n", req.Difficulty)
	fmt.Fprintf(&sb, "Progress: %.0f%% (question %d of %d)\n", req.Progress*100, req.QuestionNumber, req.TotalQuestions)
	fmt.Fprintf(&sb, "Resume skills: %s\n", listOrNone(firstN(req.Profile.Skills, 5)))
	fmt.Fprintf(&sb, "Recent themes: %s\n", listOrNone(recentThemes(req.PriorQuestions, 3)))

	if len(req.PriorQuestions) > 0 {
		sb.WriteString("\nDo not repeat these questions:\n")
		for _, q := range req.PriorQuestions {
			fmt.Fprintf(&sb, "- %s\n", q.Text)
		}
	}

	fmt.Fprintf(&sb, `
Requirements:
1. The question must match %s difficulty and the %s category.
2. It should take 3-5 minutes to answer.

Respond with a single JSON object:
{"question": "...", "category": "%s", "difficulty": "%s", "expected_duration": 300, "context": {}, "follow_up_hints": ["..."]}
`, req.Difficulty, req.Phase.Category, req.Phase.Category, req.Difficulty)

	return sb.String()
}

func evaluationPrompt(req engine.ScoreRequest) string {
	var sb strings.Builder

	sb.WriteString("Evaluate this interview answer.\n\n")
	fmt.Fprintf(&sb, "Question: %s\n", req.Question.Text)
	fmt.Fprintf(&sb, "Category: %s\n", req.Question.Category)
	fmt.Fprintf(&sb, "Difficulty: %s\n", req.Question.Difficulty)
	fmt.Fprintf(&sb, "Position: %s\n", req.Position)
	fmt.Fprintf(&sb, "Experience level: %s\n", ExperienceLevel(req.Profile.ExperienceYears))
	fmt.Fprintf(&sb, "Resume skills: %s\n", listOrNone(firstN(req.Profile.Skills, 5)))
	fmt.Fprintf(&sb, "Time taken: %d seconds\n\n", req.Answer.TimeTaken)
	fmt.Fprintf(&sb, "Answer:\n%s\n", truncate(req.Answer.Text, maxAnswerChars))

	sb.WriteString(`
Score each criterion from 0 to 10: technical accuracy, communication clarity,
problem-solving approach and experience relevance. Suggest the difficulty of
the next question.

Respond with a single JSON object:
{"technical_accuracy": 7.5, "communication_clarity": 7.0, "problem_solving_approach": 8.0,
 "experience_relevance": 6.5, "overall_score": 7.3, "strengths": ["..."],
 "areas_for_improvement": ["..."], "suggestions": ["..."], "suggested_difficulty": "easy|medium|hard",
 "follow_up_questions": ["..."], "skill_gaps": ["..."]}
`)
	return sb.String()
}

func resumePrompt(text string) string {
	return fmt.Sprintf(`Extract structured facts from this resume.

Resume:
%s

Respond with a single JSON object:
{"skills": ["..."], "experience_years": 4.5, "education": "...", "confidence": 0.8}
confidence is how certain you are about the extraction, from 0 to 1.
`, truncate(text, maxResumeChars))
}
