package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"ai-interview-be/internal/entity"
	"ai-interview-be/internal/pkg/logger"
	"ai-interview-be/pkg/interview/difficulty"
	"ai-interview-be/pkg/interview/planner"
	"ai-interview-be/pkg/interview/report"

	"github.com/google/uuid"
)

const (
	logModule = "ENGINE"

	defaultExpectedSeconds = 300
	minExpectedSeconds     = 30
	maxScore               = 10.0
)

type Config struct {
	DefaultDurationMinutes int
	MinDurationMinutes     int
	MaxDurationMinutes     int
}

func DefaultConfig() Config {
	return Config{DefaultDurationMinutes: 60, MinDurationMinutes: 30, MaxDurationMinutes: 120}
}

type Dependencies struct {
	Store     SessionStore
	Planner   *planner.Planner
	Questions QuestionProvider
	Scorer    AnswerScorer
	Insight   ResumeInsightProvider
	Logger    logger.ILogger
}

type Option func(*Engine)

func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func WithIdGenerator(newId func() string) Option {
	return func(e *Engine) { e.newId = newId }
}

// Engine drives the interview state machine. It holds no per-session state;
// callers serialize operations on the same session id.
type Engine struct {
	store     SessionStore
	planner   *planner.Planner
	questions QuestionProvider
	scorer    AnswerScorer
	insight   ResumeInsightProvider
	logger    logger.ILogger
	cfg       Config
	now       func() time.Time
	newId     func() string
}

func New(deps Dependencies, cfg Config, opts ...Option) *Engine {
	if deps.Planner == nil {
		deps.Planner = planner.NewPlanner(nil)
	}
	if deps.Logger == nil {
		deps.Logger = logger.NewNopLogger()
	}
	if cfg.DefaultDurationMinutes <= 0 {
		cfg = DefaultConfig()
	}

	e := &Engine{
		store:     deps.Store,
		planner:   deps.Planner,
		questions: deps.Questions,
		scorer:    deps.Scorer,
		insight:   deps.Insight,
		logger:    deps.Logger,
		cfg:       cfg,
		now:       func() time.Time { return time.Now().UTC() },
		newId:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

type StartRequest struct {
	Candidate       entity.CandidateRecord
	Documents       []entity.ResumeDocument
	DurationMinutes int
}

// IssuedQuestion is a question plus the context a client needs to present it.
type IssuedQuestion struct {
	Question         entity.Question `json:"question"`
	TimeLimitSeconds int             `json:"time_limit"`
	Progress         float64         `json:"progress"`
	QuestionNumber   int             `json:"question_number"`
	TotalQuestions   int             `json:"total_questions"`
	Phase            entity.Phase    `json:"phase"`
}

func (e *Engine) Start(ctx context.Context, req StartRequest) (*entity.Session, error) {
	profile := e.readResume(ctx, req.Documents)
	duration := e.clampDuration(req.DurationMinutes)

	phases := e.planner.Plan(req.Candidate, profile, req.Candidate.Style, duration)
	if len(phases) == 0 {
		return nil, newError(KindInvalidState, "no phases planned for interview style %q", req.Candidate.Style)
	}

	session := &entity.Session{
		Id:                e.newId(),
		Candidate:         req.Candidate,
		Profile:           profile,
		Phases:            phases,
		DurationMinutes:   duration,
		CurrentDifficulty: entity.DifficultyMedium,
		Questions:         []entity.Question{},
		Responses:         []entity.Response{},
		Status:            entity.StatusInProgress,
		StartedAt:         e.now(),
	}

	if err := e.store.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	e.logger.Info(logModule, "Session planned", map[string]interface{}{
		"session_id":        session.Id,
		"phases":            len(phases),
		"planned_questions": session.PlannedQuestions(),
		"planned_minutes":   planner.TotalMinutes(phases),
	})

	return session, nil
}

// readResume never fails: a missing or unreadable resume yields an empty
// zero-confidence profile.
func (e *Engine) readResume(ctx context.Context, docs []entity.ResumeDocument) entity.SkillProfile {
	var parts []string
	for _, d := range docs {
		if text := strings.TrimSpace(d.Text); text != "" {
			parts = append(parts, text)
		}
	}
	if len(parts) == 0 || e.insight == nil {
		return entity.EmptySkillProfile()
	}

	profile, err := e.insight.AnalyzeResume(ctx, strings.Join(parts, "\n\n"))
	if err != nil {
		e.logger.Warn(logModule, "Resume insight unavailable, continuing with empty profile", map[string]interface{}{
			"error": err.Error(),
		})
		return entity.EmptySkillProfile()
	}
	if !finite(profile.Confidence) || !finite(profile.ExperienceYears) {
		e.logger.Warn(logModule, "Resume insight returned non-finite values, continuing with empty profile", map[string]interface{}{
			"confidence":       fmt.Sprint(profile.Confidence),
			"experience_years": fmt.Sprint(profile.ExperienceYears),
		})
		return entity.EmptySkillProfile()
	}

	if profile.Skills == nil {
		profile.Skills = []string{}
	}
	if profile.ExperienceYears < 0 {
		profile.ExperienceYears = 0
	}
	profile.Confidence = difficulty.Clamp(profile.Confidence)
	return profile
}

func (e *Engine) clampDuration(minutes int) int {
	if minutes <= 0 {
		return e.cfg.DefaultDurationMinutes
	}
	return min(max(minutes, e.cfg.MinDurationMinutes), e.cfg.MaxDurationMinutes)
}

func (e *Engine) Get(ctx context.Context, id string) (*entity.Session, error) {
	return e.load(ctx, id)
}

func (e *Engine) load(ctx context.Context, id string) (*entity.Session, error) {
	session, err := e.store.Load(ctx, id)
	if err != nil {
		if errors.Is(err, ErrSessionMissing) {
			return nil, newError(KindNotFound, "session %s not found or expired", id)
		}
		return nil, fmt.Errorf("load session: %w", err)
	}
	return session, nil
}

func (e *Engine) loadActive(ctx context.Context, id string) (*entity.Session, error) {
	session, err := e.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.Status != entity.StatusInProgress {
		return nil, newError(KindInvalidState, "session %s is %s", id, session.Status)
	}
	return session, nil
}

// NextQuestion issues the next question. An unanswered question is
// superseded and counts as skipped.
func (e *Engine) NextQuestion(ctx context.Context, id string) (*IssuedQuestion, error) {
	session, err := e.loadActive(ctx, id)
	if err != nil {
		return nil, err
	}

	asked := len(session.Questions)
	planned := session.PlannedQuestions()
	if asked >= planned {
		return nil, newError(KindInvalidState, "all %d planned questions have been asked", planned)
	}

	entering := false
	for session.PhaseQuestions >= session.Phases[session.CurrentPhase].QuestionCount &&
		session.CurrentPhase < len(session.Phases)-1 {
		session.CurrentPhase++
		session.PhaseQuestions = 0
		entering = true
	}
	phase := session.Phases[session.CurrentPhase]

	progress := difficulty.Progress(asked, planned)
	target := e.requestDifficulty(session, phase, entering, progress)

	q, err := e.questions.GenerateQuestion(ctx, QuestionRequest{
		SessionId:      session.Id,
		Candidate:      session.Candidate,
		Profile:        session.Profile,
		Position:       session.Candidate.Position,
		Phase:          phase,
		Difficulty:     target,
		Progress:       progress,
		QuestionNumber: asked + 1,
		TotalQuestions: planned,
		PriorQuestions: session.Questions,
		PriorResponses: session.Responses,
	})
	if err != nil {
		e.logger.Error(logModule, "Question generation failed", map[string]interface{}{
			"session_id": session.Id,
			"phase":      phase.Key,
			"error":      err.Error(),
		})
		return nil, collaboratorFailure("question generation failed", err)
	}

	q, err = e.normalizeQuestion(session, q, phase, target)
	if err != nil {
		return nil, err
	}

	session.Questions = append(session.Questions, q)
	session.PhaseQuestions++
	session.CurrentDifficulty = q.Difficulty

	if err := e.store.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	return &IssuedQuestion{
		Question:         q,
		TimeLimitSeconds: q.ExpectedSeconds,
		Progress:         progress,
		QuestionNumber:   asked + 1,
		TotalQuestions:   planned,
		Phase:            phase,
	}, nil
}

// requestDifficulty resolves which signal picks the next difficulty. A
// scorer suggestion already stored by SubmitAnswer wins; otherwise the
// controller decides, seeded by the phase target when a new phase begins.
func (e *Engine) requestDifficulty(s *entity.Session, phase entity.Phase, entering bool, progress float64) entity.Difficulty {
	answered := s.LastQuestionAnswered()
	if answered && s.Responses[len(s.Responses)-1].Evaluation.SuggestedDifficulty.IsValid() {
		return s.CurrentDifficulty
	}
	if entering {
		return difficulty.Next(phase.TargetDifficulty, s.AverageScore, progress)
	}
	if answered && s.CurrentDifficulty.IsValid() {
		return s.CurrentDifficulty
	}
	return difficulty.Next(s.CurrentDifficulty, s.AverageScore, progress)
}

func (e *Engine) normalizeQuestion(s *entity.Session, q entity.Question, phase entity.Phase, requested entity.Difficulty) (entity.Question, error) {
	q.Text = strings.TrimSpace(q.Text)
	if q.Text == "" {
		return q, collaboratorFailure("question provider returned an empty question", nil)
	}

	if q.Id == "" || questionExists(s, q.Id) {
		q.Id = fmt.Sprintf("q_%d", len(s.Questions)+1)
	}
	if !q.Difficulty.IsValid() {
		q.Difficulty = requested
	}
	if q.Category == "" {
		q.Category = phase.Category
	}
	switch {
	case q.ExpectedSeconds <= 0:
		q.ExpectedSeconds = defaultExpectedSeconds
	case q.ExpectedSeconds < minExpectedSeconds:
		q.ExpectedSeconds = minExpectedSeconds
	}
	if q.FollowUpHints == nil {
		q.FollowUpHints = []string{}
	}
	ctxValues, err := normalizeContext(q.Context)
	if err != nil {
		return q, collaboratorFailure("question context is not JSON encodable", err)
	}
	q.Context = ctxValues
	q.PhaseKey = phase.Key
	q.IssuedAt = e.now()

	return q, nil
}

// normalizeContext gives the issued question the same value types a reloaded
// session decodes to, so numbers always come back as float64.
func normalizeContext(values map[string]interface{}) (map[string]interface{}, error) {
	if len(values) == 0 {
		return nil, nil
	}
	raw, err := json.Marshal(values)
	if err != nil {
		return nil, err
	}
	var out map[string]interface{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func questionExists(s *entity.Session, id string) bool {
	for _, q := range s.Questions {
		if q.Id == id {
			return true
		}
	}
	return false
}

type AnswerInput struct {
	QuestionId string
	Text       string
	TimeTaken  int
}

func (e *Engine) SubmitAnswer(ctx context.Context, id string, in AnswerInput) (*entity.ScoreCard, error) {
	session, err := e.loadActive(ctx, id)
	if err != nil {
		return nil, err
	}

	q, ok := session.OutstandingQuestion()
	if !ok {
		return nil, newError(KindNoActiveQuestion, "no question is awaiting an answer")
	}
	if q.Id != in.QuestionId {
		return nil, newError(KindNoActiveQuestion, "question %s is not the outstanding question", in.QuestionId)
	}

	answer := entity.Answer{
		QuestionId: q.Id,
		Text:       in.Text,
		TimeTaken:  max(in.TimeTaken, 0),
	}

	card, err := e.scorer.ScoreAnswer(ctx, ScoreRequest{
		Question:  *q,
		Answer:    answer,
		Candidate: session.Candidate,
		Profile:   session.Profile,
		Position:  session.Candidate.Position,
	})
	if err != nil {
		e.logger.Error(logModule, "Answer scoring failed", map[string]interface{}{
			"session_id":  session.Id,
			"question_id": q.Id,
			"error":       err.Error(),
		})
		return nil, collaboratorFailure("answer scoring failed", err)
	}
	if err := validateScoreCard(&card); err != nil {
		return nil, err
	}

	session.Responses = append(session.Responses, entity.Response{
		Answer:     answer,
		Evaluation: card,
		Difficulty: q.Difficulty,
		Category:   q.Category,
		AnsweredAt: e.now(),
	})
	session.AverageScore = averageScore(session.Responses)

	if card.SuggestedDifficulty.IsValid() {
		session.CurrentDifficulty = card.SuggestedDifficulty
	} else {
		progress := difficulty.Progress(len(session.Questions), session.PlannedQuestions())
		session.CurrentDifficulty = difficulty.Next(session.CurrentDifficulty, session.AverageScore, progress)
	}

	if err := e.store.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	return &card, nil
}

func validateScoreCard(card *entity.ScoreCard) error {
	scores := []struct {
		name  string
		value float64
	}{
		{"overall_score", card.OverallScore},
		{"technical_accuracy", card.TechnicalAccuracy},
		{"communication_clarity", card.CommunicationClarity},
		{"problem_solving_approach", card.ProblemSolving},
		{"experience_relevance", card.ExperienceRelevance},
	}
	for _, sc := range scores {
		if !finite(sc.value) {
			return collaboratorFailure(fmt.Sprintf("%s is not a finite number", sc.name), nil)
		}
		if sc.value < 0 || sc.value > maxScore {
			return collaboratorFailure(fmt.Sprintf("%s %.2f is outside [0,10]", sc.name, sc.value), nil)
		}
	}

	if card.SuggestedDifficulty != "" && !card.SuggestedDifficulty.IsValid() {
		card.SuggestedDifficulty = ""
	}
	for _, list := range []*[]string{&card.Strengths, &card.AreasForImprovement, &card.Suggestions, &card.FollowUpQuestions, &card.SkillGaps} {
		if *list == nil {
			*list = []string{}
		}
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// averageScore is recomputed from the full history on every answer.
func averageScore(responses []entity.Response) float64 {
	if len(responses) == 0 {
		return 0
	}
	sum := 0.0
	for _, r := range responses {
		sum += r.Evaluation.OverallScore
	}
	return sum / float64(len(responses))
}

func (e *Engine) Finalize(ctx context.Context, id string) (*entity.Report, error) {
	session, err := e.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.Status == entity.StatusCompleted {
		return nil, newError(KindAlreadyCompleted, "session %s was already finalized", id)
	}

	now := e.now()
	session.EndedAt = &now
	r := report.Aggregate(session, now)
	session.Report = &r
	session.Status = entity.StatusCompleted

	if err := e.store.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	e.logger.Info(logModule, "Session finalized", map[string]interface{}{
		"session_id":     session.Id,
		"overall_score":  r.OverallScore,
		"recommendation": r.HiringRecommendation,
	})

	return &r, nil
}

func (e *Engine) GetReport(ctx context.Context, id string) (*entity.Report, error) {
	session, err := e.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.Status != entity.StatusCompleted || session.Report == nil {
		return nil, newError(KindNotReady, "session %s has not been finalized", id)
	}
	return session.Report, nil
}
