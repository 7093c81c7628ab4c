package agent

import (
	"context"
	"fmt"
	"strings"

	"ai-interview-be/internal/entity"
	"ai-interview-be/internal/pkg/logger"
	"ai-interview-be/pkg/interview/engine"
	"ai-interview-be/pkg/llm"
)

type ResumeAnalyzer struct {
	llm    llm.LLMProvider
	logger logger.ILogger
}

var _ engine.ResumeInsightProvider = &ResumeAnalyzer{}

func NewResumeAnalyzer(provider llm.LLMProvider, log logger.ILogger) *ResumeAnalyzer {
	return &ResumeAnalyzer{llm: provider, logger: log}
}

type resumePayload struct {
	Skills          []string `json:"skills"`
	ExperienceYears float64  `json:"experience_years"`
	Education       string   `json:"education"`
	Confidence      float64  `json:"confidence"`
}

func (a *ResumeAnalyzer) AnalyzeResume(ctx context.Context, text string) (entity.SkillProfile, error) {
	reply, err := a.llm.Chat(ctx, []llm.Message{
		{Role: "system", Content: "You extract resume data. Always answer with valid JSON only."},
		{Role: "user", Content: resumePrompt(text)},
	}, llm.WithJSON(), llm.WithTemperature(0))
	if err != nil {
		return entity.SkillProfile{}, fmt.Errorf("analyze resume: %w", err)
	}

	a.logger.Info(logModule, "Resume analyzed", map[string]interface{}{
		"chars": len(text),
		"reply": reply,
	})

	var payload resumePayload
	if err := decodeJSON(reply, &payload); err != nil {
		return entity.SkillProfile{}, err
	}

	return entity.SkillProfile{
		Skills:          dedupe(payload.Skills),
		ExperienceYears: max(payload.ExperienceYears, 0),
		Education:       strings.TrimSpace(payload.Education),
		Confidence:      min(max(payload.Confidence, 0), 1),
	}, nil
}

func dedupe(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, s := range nonEmpty(items) {
		key := strings.ToLower(s)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, s)
	}
	return out
}
