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

const (
	logModule      = "AGENT"
	maxAnswerChars = 6000
	maxResumeChars = 12000
)

const interviewerPersona = "You are an experienced technical interviewer. Always answer with valid JSON only."

type QuestionGenerator struct {
	llm    llm.LLMProvider
	logger logger.ILogger
}

var _ engine.QuestionProvider = &QuestionGenerator{}

func NewQuestionGenerator(provider llm.LLMProvider, log logger.ILogger) *QuestionGenerator {
	return &QuestionGenerator{llm: provider, logger: log}
}

type questionPayload struct {
	Question         string                 `json:"question"`
	Category         string                 `json:"category"`
	Difficulty       string                 `json:"difficulty"`
	ExpectedDuration float64                `json:"expected_duration"`
	Context          map[string]interface{} `json:"context"`
	FollowUpHints    []string               `json:"follow_up_hints"`
}

func (g *QuestionGenerator) GenerateQuestion(ctx context.Context, req engine.QuestionRequest) (entity.Question, error) {
	prompt := questionPrompt(req)

	reply, err := g.llm.Chat(ctx, []llm.Message{
		{Role: "system", Content: interviewerPersona},
		{Role: "user", Content: prompt},
	}, llm.WithJSON(), llm.WithTemperature(0.7))
	if err != nil {
		return entity.Question{}, fmt.Errorf("generate question: %w", err)
	}

	g.logger.Info(logModule, "Question generated", map[string]interface{}{
		"session_id": req.SessionId,
		"phase":      req.Phase.Key,
		"difficulty": req.Difficulty,
		"reply":      reply,
	})

	var payload questionPayload
	if err := decodeJSON(reply, &payload); err != nil {
		return entity.Question{}, err
	}

	text := strings.TrimSpace(payload.Question)
	if text == "" {
		return entity.Question{}, fmt.Errorf("model returned an empty question")
	}

	difficulty, ok := entity.ParseDifficulty(payload.Difficulty)
	if !ok {
		difficulty = req.Difficulty
	}

	category := strings.TrimSpace(payload.Category)
	if category == "" {
		category = req.Phase.Category
	}

	return entity.Question{
		Text:            text,
		Category:        category,
		Difficulty:      difficulty,
		ExpectedSeconds: int(payload.ExpectedDuration),
		Context:         payload.Context,
		FollowUpHints:   nonEmpty(payload.FollowUpHints),
	}, nil
}
