package report

import (
	"testing"
	"time"

	"ai-interview-be/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var started = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func response(id, category string, d entity.Difficulty, overall float64, took int, gaps ...string) entity.Response {
	return entity.Response{
		Answer: entity.Answer{QuestionId: id, Text: "answer", TimeTaken: took},
		Evaluation: entity.ScoreCard{
			OverallScore:         overall,
			TechnicalAccuracy:    overall - 1,
			CommunicationClarity: overall,
			ProblemSolving:       overall + 0.5,
			ExperienceRelevance:  overall - 0.5,
			SkillGaps:            gaps,
		},
		Difficulty: d,
		Category:   category,
	}
}

func session(responses ...entity.Response) *entity.Session {
	questions := make([]entity.Question, len(responses))
	for i, r := range responses {
		questions[i] = entity.Question{Id: r.Answer.QuestionId, Category: r.Category, Difficulty: r.Difficulty}
	}
	ended := started.Add(42 * time.Minute)
	return &entity.Session{
		Id:        "session-1",
		Candidate: entity.CandidateRecord{Name: "Ada", Position: "Platform Engineer"},
		Questions: questions,
		Responses: responses,
		StartedAt: started,
		EndedAt:   &ended,
	}
}

func TestAggregate_StrongHire(t *testing.T) {
	s := session(
		response("q_1", "technical", entity.DifficultyMedium, 8.0, 120, "Kubernetes"),
		response("q_2", "technical", entity.DifficultyHard, 8.5, 180, "kubernetes ", "Terraform"),
		response("q_3", "behavioral", entity.DifficultyHard, 8.4, 240),
	)

	r := Aggregate(s, started.Add(time.Hour))

	assert.InDelta(t, 8.3, r.OverallScore, 1e-9)
	assert.Equal(t, entity.RecommendStrongHire, r.HiringRecommendation)
	assert.Equal(t, 0.9, r.ConfidenceLevel)
	assert.InDelta(t, 180.0, r.AverageResponseTime, 1e-9)
	assert.InDelta(t, 42.0, r.InterviewDuration, 1e-9)
	assert.Equal(t, 3, r.TotalQuestions)
	assert.Equal(t, 3, r.TotalResponses)

	assert.InDelta(t, 7.3, r.TechnicalScore, 1e-9)
	assert.InDelta(t, 8.3, r.CommunicationScore, 1e-9)
	assert.InDelta(t, 8.8, r.ProblemSolvingScore, 1e-9)
	assert.InDelta(t, 8.4, r.BehavioralScore, 1e-9)
	assert.InDelta(t, 7.8, r.CulturalFitScore, 1e-9, "falls back to experience relevance")

	assert.Equal(t, []string{"Kubernetes", "Terraform"}, r.SkillGaps)
	assert.Equal(t, strengthBank[bandHigh], r.Strengths)
	assert.Equal(t, "Platform Engineer", r.Position)
	assert.Contains(t, r.DetailedFeedback, "Ada answered 3 of 3 questions")

	require.Len(t, r.DifficultyProgression, 3)
	assert.Equal(t, entity.DifficultyStep{QuestionId: "q_2", Difficulty: entity.DifficultyHard, Score: 8.5}, r.DifficultyProgression[1])
}

func TestAggregate_NoResponses(t *testing.T) {
	s := session()
	s.EndedAt = nil

	r := Aggregate(s, started.Add(10*time.Minute))

	assert.Zero(t, r.OverallScore)
	assert.Zero(t, r.AverageResponseTime)
	assert.Zero(t, r.TechnicalScore)
	assert.Zero(t, r.BehavioralScore)
	assert.Zero(t, r.CulturalFitScore)
	assert.Equal(t, entity.RecommendDoNotHire, r.HiringRecommendation)
	assert.Equal(t, 0.7, r.ConfidenceLevel)
	assert.InDelta(t, 10.0, r.InterviewDuration, 1e-9)
	assert.Empty(t, r.SkillGaps)
	assert.Empty(t, r.DifficultyProgression)
	assert.Equal(t, recommendationBank[bandLow], r.Recommendations)
}

func TestAggregate_BanksDoNotAlias(t *testing.T) {
	r := Aggregate(session(response("q_1", "technical", entity.DifficultyMedium, 9, 60)), started)
	r.Strengths[0] = "mutated"

	assert.Equal(t, "Strong technical foundation", strengthBank[bandHigh][0])
}

func TestHiring(t *testing.T) {
	tests := []struct {
		score      float64
		expected   entity.HiringRecommendation
		confidence float64
	}{
		{10, entity.RecommendStrongHire, 0.9},
		{8.0, entity.RecommendStrongHire, 0.9},
		{7.99, entity.RecommendHire, 0.8},
		{7.0, entity.RecommendHire, 0.8},
		{6.0, entity.RecommendConsider, 0.6},
		{5.99, entity.RecommendDoNotHire, 0.7},
		{0, entity.RecommendDoNotHire, 0.7},
	}

	for _, tt := range tests {
		rec, conf := Hiring(tt.score)
		assert.Equal(t, tt.expected, rec, "score %.2f", tt.score)
		assert.Equal(t, tt.confidence, conf, "score %.2f", tt.score)
	}
}

func TestBands(t *testing.T) {
	tests := []struct {
		score    float64
		expected band
	}{
		{7, bandHigh},
		{6.99, bandMid},
		{5, bandMid},
		{4.99, bandLow},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, bandFor(tt.score), "score %.2f", tt.score)
	}
}
