package dto

import (
	"time"

	"ai-interview-be/internal/entity"
	"ai-interview-be/pkg/interview/engine"
)

type UploadedFileRequest struct {
	Name    string `json:"name" validate:"required"`
	Type    string `json:"type" validate:"omitempty,oneof=resume cv cover_letter"`
	Size    int64  `json:"size" validate:"gte=0"`
	Content string `json:"content" validate:"required"`
}

type StartInterviewRequest struct {
	Name            string                `json:"name" validate:"required"`
	Email           string                `json:"email" validate:"required,email"`
	Position        string                `json:"position" validate:"required"`
	ExperienceLevel string                `json:"experience_level" validate:"omitempty,oneof=junior mid-level senior lead"`
	InterviewType   string                `json:"interview_type" validate:"omitempty,oneof=technical behavioral mixed leadership"`
	DurationMinutes int                   `json:"duration_minutes" validate:"omitempty,min=30,max=120"`
	Files           []UploadedFileRequest `json:"files" validate:"max=10,dive"`
}

type StartInterviewResponse struct {
	SessionId        string                 `json:"session_id"`
	Status           entity.SessionStatus   `json:"status"`
	Candidate        entity.CandidateRecord `json:"candidate"`
	SkillProfile     entity.SkillProfile    `json:"skill_profile"`
	Phases           []entity.Phase         `json:"phases"`
	PlannedQuestions int                    `json:"planned_questions"`
	DurationMinutes  int                    `json:"duration_minutes"`
	Warnings         []string               `json:"warnings"`
	StartedAt        time.Time              `json:"started_at"`
}

type SessionResponse struct {
	SessionId         string                 `json:"session_id"`
	Status            entity.SessionStatus   `json:"status"`
	Candidate         entity.CandidateRecord `json:"candidate"`
	CurrentPhase      *entity.Phase          `json:"current_phase"`
	CurrentDifficulty entity.Difficulty      `json:"current_difficulty"`
	QuestionsAsked    int                    `json:"questions_asked"`
	QuestionsAnswered int                    `json:"questions_answered"`
	PlannedQuestions  int                    `json:"planned_questions"`
	AverageScore      float64                `json:"average_score"`
	AwaitingAnswer    bool                   `json:"awaiting_answer"`
	StartedAt         time.Time              `json:"started_at"`
	EndedAt           *time.Time             `json:"ended_at,omitempty"`
}

type NextQuestionResponse = engine.IssuedQuestion

type SubmitAnswerRequest struct {
	QuestionId string `json:"question_id" validate:"required"`
	Answer     string `json:"answer"`
	TimeTaken  int    `json:"time_taken" validate:"gte=0"`
}

type SubmitAnswerResponse struct {
	QuestionId        string            `json:"question_id"`
	Evaluation        entity.ScoreCard  `json:"evaluation"`
	AverageScore      float64           `json:"average_score"`
	NextDifficulty    entity.Difficulty `json:"next_difficulty"`
	QuestionsAnswered int               `json:"questions_answered"`
	PlannedQuestions  int               `json:"planned_questions"`
}

// InterviewEventMessage travels on the in-process bus between the
// interview service and the event consumer.
type InterviewEventMessage struct {
	Type       string                 `json:"type"`
	SessionId  string                 `json:"session_id"`
	Data       map[string]interface{} `json:"data"`
	Report     *entity.Report         `json:"report,omitempty"`
	OccurredAt time.Time              `json:"occurred_at"`
}
