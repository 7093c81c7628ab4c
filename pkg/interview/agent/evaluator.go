package agent

import (
	"context"
	"fmt"

	"ai-interview-be/internal/entity"
	"ai-interview-be/internal/pkg/logger"
	"ai-interview-be/pkg/interview/engine"
	"ai-interview-be/pkg/llm"
)

// AnswerEvaluator scores answers with the model. It has no fallback: an
// unusable evaluation is an error, never a guessed score.
type AnswerEvaluator struct {
	llm    llm.LLMProvider
	logger logger.ILogger
}

var _ engine.AnswerScorer = &AnswerEvaluator{}

func NewAnswerEvaluator(provider llm.LLMProvider, log logger.ILogger) *AnswerEvaluator {
	return &AnswerEvaluator{llm: provider, logger: log}
}

type evaluationPayload struct {
	TechnicalAccuracy    *float64 `json:"technical_accuracy"`
	CommunicationClarity *float64 `json:"communication_clarity"`
	ProblemSolving       *float64 `json:"problem_solving_approach"`
	ExperienceRelevance  *float64 `json:"experience_relevance"`
	OverallScore         *float64 `json:"overall_score"`
	Strengths            []string `json:"strengths"`
	AreasForImprovement  []string `json:"areas_for_improvement"`
	Suggestions          []string `json:"suggestions"`
	SuggestedDifficulty  string   `json:"suggested_difficulty"`
	FollowUpQuestions    []string `json:"follow_up_questions"`
	SkillGaps            []string `json:"skill_gaps"`
}

func (e *AnswerEvaluator) ScoreAnswer(ctx context.Context, req engine.ScoreRequest) (entity.ScoreCard, error) {
	reply, err := e.llm.Chat(ctx, []llm.Message{
		{Role: "system", Content: interviewerPersona},
		{Role: "user", Content: evaluationPrompt(req)},
	}, llm.WithJSON(), llm.WithTemperature(0.2))
	if err != nil {
		return entity.ScoreCard{}, fmt.Errorf("evaluate answer: %w", err)
	}

	e.logger.Info(logModule, "Answer evaluated", map[string]interface{}{
		"question_id": req.Question.Id,
		"reply":       reply,
	})

	var payload evaluationPayload
	if err := decodeJSON(reply, &payload); err != nil {
		return entity.ScoreCard{}, err
	}

	return payload.toScoreCard()
}

func (p evaluationPayload) toScoreCard() (entity.ScoreCard, error) {
	subScores := []struct {
		name  string
		value *float64
	}{
		{"technical_accuracy", p.TechnicalAccuracy},
		{"communication_clarity", p.CommunicationClarity},
		{"problem_solving_approach", p.ProblemSolving},
		{"experience_relevance", p.ExperienceRelevance},
	}

	sum := 0.0
	for _, s := range subScores {
		if s.value == nil {
			return entity.ScoreCard{}, fmt.Errorf("evaluation is missing %s", s.name)
		}
		if err := checkScore(s.name, *s.value); err != nil {
			return entity.ScoreCard{}, err
		}
		sum += *s.value
	}

	overall := sum / float64(len(subScores))
	if p.OverallScore != nil {
		if err := checkScore("overall_score", *p.OverallScore); err != nil {
			return entity.ScoreCard{}, err
		}
		overall = *p.OverallScore
	}

	suggested, _ := entity.ParseDifficulty(p.SuggestedDifficulty)
	if !suggested.IsValid() {
		suggested = ""
	}

	return entity.ScoreCard{
		OverallScore:         overall,
		TechnicalAccuracy:    *p.TechnicalAccuracy,
		CommunicationClarity: *p.CommunicationClarity,
		ProblemSolving:       *p.ProblemSolving,
		ExperienceRelevance:  *p.ExperienceRelevance,
		Strengths:            nonEmpty(p.Strengths),
		AreasForImprovement:  nonEmpty(p.AreasForImprovement),
		Suggestions:          nonEmpty(p.Suggestions),
		SuggestedDifficulty:  suggested,
		FollowUpQuestions:    nonEmpty(p.FollowUpQuestions),
		SkillGaps:            nonEmpty(p.SkillGaps),
	}, nil
}

func checkScore(name string, v float64) error {
	if v < 0 || v > 10 {
		return fmt.Errorf("%s %.2f is outside [0,10]", name, v)
	}
	return nil
}
