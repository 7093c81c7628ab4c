package service

import (
	"context"
	"encoding/json"
	"time"

	"ai-interview-be/internal/dto"
	"ai-interview-be/internal/entity"
	"ai-interview-be/internal/pkg/logger"
	"ai-interview-be/pkg/events"
	"ai-interview-be/pkg/ingest"
	"ai-interview-be/pkg/interview/engine"
)

const interviewModule = "INTERVIEW"

// InterviewEngine is the session state machine the service drives.
type InterviewEngine interface {
	Start(ctx context.Context, req engine.StartRequest) (*entity.Session, error)
	Get(ctx context.Context, id string) (*entity.Session, error)
	NextQuestion(ctx context.Context, id string) (*engine.IssuedQuestion, error)
	SubmitAnswer(ctx context.Context, id string, in engine.AnswerInput) (*entity.ScoreCard, error)
	Finalize(ctx context.Context, id string) (*entity.Report, error)
	GetReport(ctx context.Context, id string) (*entity.Report, error)
}

type CandidateIngestor interface {
	Ingest(ctx context.Context, in ingest.CandidateInput) (*ingest.Result, error)
}

type IInterviewService interface {
	Start(ctx context.Context, req *dto.StartInterviewRequest) (*dto.StartInterviewResponse, error)
	GetSession(ctx context.Context, id string) (*dto.SessionResponse, error)
	NextQuestion(ctx context.Context, id string) (*dto.NextQuestionResponse, error)
	SubmitAnswer(ctx context.Context, id string, req *dto.SubmitAnswerRequest) (*dto.SubmitAnswerResponse, error)
	Finalize(ctx context.Context, id string) (*entity.Report, error)
	GetReport(ctx context.Context, id string) (*entity.Report, error)
}

type interviewService struct {
	engine    InterviewEngine
	ingestor  CandidateIngestor
	publisher IPublisherService
	locks     *sessionLocks
	logger    logger.ILogger
}

func NewInterviewService(
	engine InterviewEngine,
	ingestor CandidateIngestor,
	publisher IPublisherService,
	log logger.ILogger,
) IInterviewService {
	return &interviewService{
		engine:    engine,
		ingestor:  ingestor,
		publisher: publisher,
		locks:     newSessionLocks(),
		logger:    log,
	}
}

func (s *interviewService) Start(ctx context.Context, req *dto.StartInterviewRequest) (*dto.StartInterviewResponse, error) {
	input := ingest.CandidateInput{
		Name:      req.Name,
		Email:     req.Email,
		Position:  req.Position,
		Seniority: entity.SeniorityBand(req.ExperienceLevel),
		Style:     entity.InterviewStyle(req.InterviewType),
	}
	for _, f := range req.Files {
		input.Files = append(input.Files, ingest.UploadedFile{
			Name:    f.Name,
			Type:    ingest.FileType(f.Type),
			Content: f.Content,
		})
	}

	ingested, err := s.ingestor.Ingest(ctx, input)
	if err != nil {
		s.logger.Warn(interviewModule, "Candidate intake rejected", map[string]interface{}{
			"position": req.Position,
			"error":    err.Error(),
		})
		return nil, err
	}

	session, err := s.engine.Start(ctx, engine.StartRequest{
		Candidate:       ingested.Candidate,
		Documents:       ingested.Documents,
		DurationMinutes: req.DurationMinutes,
	})
	if err != nil {
		s.logger.Error(interviewModule, "Failed to start interview", map[string]interface{}{
			"position": req.Position,
			"error":    err.Error(),
		})
		return nil, err
	}

	s.logger.Info(interviewModule, "Interview started", map[string]interface{}{
		"session_id": session.Id,
		"style":      session.Candidate.Style,
		"files":      len(session.Candidate.Files),
		"warnings":   len(ingested.Warnings),
	})

	s.publish(ctx, dto.InterviewEventMessage{
		Type:      events.InterviewStarted,
		SessionId: session.Id,
		Data: map[string]interface{}{
			"candidate_name":    session.Candidate.Name,
			"position":          session.Candidate.Position,
			"interview_style":   session.Candidate.Style,
			"planned_questions": session.PlannedQuestions(),
			"duration_minutes":  session.DurationMinutes,
		},
	})

	warnings := ingested.Warnings
	if warnings == nil {
		warnings = []string{}
	}

	return &dto.StartInterviewResponse{
		SessionId:        session.Id,
		Status:           session.Status,
		Candidate:        session.Candidate,
		SkillProfile:     session.Profile,
		Phases:           session.Phases,
		PlannedQuestions: session.PlannedQuestions(),
		DurationMinutes:  session.DurationMinutes,
		Warnings:         warnings,
		StartedAt:        session.StartedAt,
	}, nil
}

func (s *interviewService) GetSession(ctx context.Context, id string) (*dto.SessionResponse, error) {
	session, err := s.engine.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return toSessionResponse(session), nil
}

func toSessionResponse(session *entity.Session) *dto.SessionResponse {
	_, awaiting := session.OutstandingQuestion()
	return &dto.SessionResponse{
		SessionId:         session.Id,
		Status:            session.Status,
		Candidate:         session.Candidate,
		CurrentPhase:      session.ActivePhase(),
		CurrentDifficulty: session.CurrentDifficulty,
		QuestionsAsked:    len(session.Questions),
		QuestionsAnswered: len(session.Responses),
		PlannedQuestions:  session.PlannedQuestions(),
		AverageScore:      session.AverageScore,
		AwaitingAnswer:    awaiting && session.Status == entity.StatusInProgress,
		StartedAt:         session.StartedAt,
		EndedAt:           session.EndedAt,
	}
}

func (s *interviewService) NextQuestion(ctx context.Context, id string) (*dto.NextQuestionResponse, error) {
	unlock := s.locks.lock(id)
	defer unlock()

	issued, err := s.engine.NextQuestion(ctx, id)
	if err != nil {
		return nil, err
	}

	s.logger.Info(interviewModule, "Question issued", map[string]interface{}{
		"session_id":  id,
		"question_id": issued.Question.Id,
		"phase":       issued.Phase.Key,
		"difficulty":  issued.Question.Difficulty,
		"number":      issued.QuestionNumber,
	})

	s.publish(ctx, dto.InterviewEventMessage{
		Type:      events.QuestionIssued,
		SessionId: id,
		Data: map[string]interface{}{
			"question_id":     issued.Question.Id,
			"question":        issued.Question.Text,
			"category":        issued.Question.Category,
			"difficulty":      issued.Question.Difficulty,
			"phase":           issued.Phase.Key,
			"question_number": issued.QuestionNumber,
			"total_questions": issued.TotalQuestions,
			"progress":        issued.Progress,
			"time_limit":      issued.TimeLimitSeconds,
		},
	})

	return issued, nil
}

func (s *interviewService) SubmitAnswer(ctx context.Context, id string, req *dto.SubmitAnswerRequest) (*dto.SubmitAnswerResponse, error) {
	unlock := s.locks.lock(id)
	defer unlock()

	card, err := s.engine.SubmitAnswer(ctx, id, engine.AnswerInput{
		QuestionId: req.QuestionId,
		Text:       req.Answer,
		TimeTaken:  req.TimeTaken,
	})
	if err != nil {
		return nil, err
	}

	session, err := s.engine.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	s.logger.Info(interviewModule, "Answer scored", map[string]interface{}{
		"session_id":      id,
		"question_id":     req.QuestionId,
		"overall_score":   card.OverallScore,
		"average_score":   session.AverageScore,
		"next_difficulty": session.CurrentDifficulty,
	})

	s.publish(ctx, dto.InterviewEventMessage{
		Type:      events.AnswerScored,
		SessionId: id,
		Data: map[string]interface{}{
			"question_id":     req.QuestionId,
			"overall_score":   card.OverallScore,
			"average_score":   session.AverageScore,
			"next_difficulty": session.CurrentDifficulty,
			"answered":        len(session.Responses),
		},
	})

	return &dto.SubmitAnswerResponse{
		QuestionId:        req.QuestionId,
		Evaluation:        *card,
		AverageScore:      session.AverageScore,
		NextDifficulty:    session.CurrentDifficulty,
		QuestionsAnswered: len(session.Responses),
		PlannedQuestions:  session.PlannedQuestions(),
	}, nil
}

func (s *interviewService) Finalize(ctx context.Context, id string) (*entity.Report, error) {
	unlock := s.locks.lock(id)
	defer unlock()

	report, err := s.engine.Finalize(ctx, id)
	if err != nil {
		return nil, err
	}

	s.logger.Info(interviewModule, "Interview completed", map[string]interface{}{
		"session_id":     id,
		"overall_score":  report.OverallScore,
		"recommendation": report.HiringRecommendation,
		"responses":      report.TotalResponses,
	})

	s.publish(ctx, dto.InterviewEventMessage{
		Type:      events.InterviewCompleted,
		SessionId: id,
		Data: map[string]interface{}{
			"overall_score":         report.OverallScore,
			"hiring_recommendation": report.HiringRecommendation,
			"total_responses":       report.TotalResponses,
		},
		Report: report,
	})

	return report, nil
}

func (s *interviewService) GetReport(ctx context.Context, id string) (*entity.Report, error) {
	return s.engine.GetReport(ctx, id)
}

// publish never fails the caller; the transition is already persisted.
func (s *interviewService) publish(ctx context.Context, evt dto.InterviewEventMessage) {
	if s.publisher == nil {
		return
	}
	evt.OccurredAt = time.Now().UTC()

	payload, err := json.Marshal(evt)
	if err != nil {
		s.logger.Error(interviewModule, "Failed to encode interview event", map[string]interface{}{
			"session_id": evt.SessionId,
			"type":       evt.Type,
			"error":      err.Error(),
		})
		return
	}

	if err := s.publisher.Publish(ctx, payload); err != nil {
		s.logger.Error(interviewModule, "Failed to publish interview event", map[string]interface{}{
			"session_id": evt.SessionId,
			"type":       evt.Type,
			"error":      err.Error(),
		})
	}
}
