package engine

import (
	"context"
	"errors"

	"ai-interview-be/internal/entity"
)

// ErrSessionMissing is returned by a SessionStore for unknown or expired ids.
var ErrSessionMissing = errors.New("session not found in store")

// SessionStore keeps one serialized record per session id with a bounded TTL.
type SessionStore interface {
	Save(ctx context.Context, session *entity.Session) error
	Load(ctx context.Context, id string) (*entity.Session, error)
	Delete(ctx context.Context, id string) error
}

type QuestionRequest struct {
	SessionId      string
	Candidate      entity.CandidateRecord
	Profile        entity.SkillProfile
	Position       string
	Phase          entity.Phase
	Difficulty     entity.Difficulty
	Progress       float64
	QuestionNumber int
	TotalQuestions int
	PriorQuestions []entity.Question
	PriorResponses []entity.Response
}

type QuestionProvider interface {
	GenerateQuestion(ctx context.Context, req QuestionRequest) (entity.Question, error)
}

type ScoreRequest struct {
	Question  entity.Question
	Answer    entity.Answer
	Candidate entity.CandidateRecord
	Profile   entity.SkillProfile
	Position  string
}

type AnswerScorer interface {
	ScoreAnswer(ctx context.Context, req ScoreRequest) (entity.ScoreCard, error)
}

type ResumeInsightProvider interface {
	AnalyzeResume(ctx context.Context, text string) (entity.SkillProfile, error)
}
