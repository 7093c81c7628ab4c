package service

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"ai-interview-be/internal/dto"
	"ai-interview-be/internal/entity"
	"ai-interview-be/internal/pkg/logger"
	"ai-interview-be/internal/repository/memory"
	"ai-interview-be/pkg/events"
	"ai-interview-be/pkg/ingest"
	"ai-interview-be/pkg/interview/engine"
	"ai-interview-be/pkg/interview/planner"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, payload []byte) error {
	args := m.Called(ctx, payload)
	return args.Error(0)
}

func (m *mockPublisher) published(t *testing.T) []dto.InterviewEventMessage {
	t.Helper()
	var out []dto.InterviewEventMessage
	for _, c := range m.Calls {
		var evt dto.InterviewEventMessage
		require.NoError(t, json.Unmarshal(c.Arguments.Get(1).([]byte), &evt))
		out = append(out, evt)
	}
	return out
}

type stubQuestions struct{}

func (stubQuestions) GenerateQuestion(ctx context.Context, req engine.QuestionRequest) (entity.Question, error) {
	return entity.Question{
		Text:            fmt.Sprintf("Question %d", req.QuestionNumber),
		Difficulty:      req.Difficulty,
		ExpectedSeconds: 120,
	}, nil
}

type stubScorer struct {
	mu    sync.Mutex
	calls int
}

func (s *stubScorer) ScoreAnswer(ctx context.Context, req engine.ScoreRequest) (entity.ScoreCard, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	// Widen the window in which an unserialized second submit would slip through
	time.Sleep(10 * time.Millisecond)
	return entity.ScoreCard{
		OverallScore:         8,
		TechnicalAccuracy:    8,
		CommunicationClarity: 8,
		ProblemSolving:       8,
		ExperienceRelevance:  8,
	}, nil
}

func newTestService(t *testing.T, pub IPublisherService) (IInterviewService, *stubScorer) {
	t.Helper()

	catalog, err := planner.NewCatalog([]planner.Template{{
		Key: "core", Name: "Core", Category: "technical", Order: 1, DurationMinutes: 30,
		QuestionCount: 2, Difficulty: entity.DifficultyMedium,
		RequiredFor: []entity.InterviewStyle{entity.StyleTechnical},
	}})
	require.NoError(t, err)

	scorer := &stubScorer{}
	eng := engine.New(engine.Dependencies{
		Store:     memory.NewSessionRepository(time.Hour),
		Planner:   planner.NewPlanner(catalog),
		Questions: stubQuestions{},
		Scorer:    scorer,
	}, engine.DefaultConfig())

	return NewInterviewService(eng, ingest.NewIngestor(), pub, logger.NewNopLogger()), scorer
}

func startRequest() *dto.StartInterviewRequest {
	return &dto.StartInterviewRequest{
		Name:            "Grace Hopper",
		Email:           "grace@example.com",
		Position:        "Backend Engineer",
		ExperienceLevel: "mid-level",
		InterviewType:   "technical",
		Files: []dto.UploadedFileRequest{{
			Name:    "resume.txt",
			Type:    "resume",
			Content: base64.StdEncoding.EncodeToString([]byte("COBOL, compilers")),
		}},
	}
}

func TestInterviewService_FullFlow(t *testing.T) {
	ctx := context.Background()
	pub := &mockPublisher{}
	pub.On("Publish", mock.Anything, mock.Anything).Return(nil)
	svc, _ := newTestService(t, pub)

	started, err := svc.Start(ctx, startRequest())
	require.NoError(t, err)
	assert.Equal(t, entity.StatusInProgress, started.Status)
	assert.Equal(t, 2, started.PlannedQuestions)
	assert.Equal(t, 60, started.DurationMinutes)
	assert.Empty(t, started.Warnings)
	require.Len(t, started.Candidate.Files, 1)

	for i := 0; i < 2; i++ {
		q, err := svc.NextQuestion(ctx, started.SessionId)
		require.NoError(t, err)

		res, err := svc.SubmitAnswer(ctx, started.SessionId, &dto.SubmitAnswerRequest{
			QuestionId: q.Question.Id,
			Answer:     "A thoughtful answer",
			TimeTaken:  60,
		})
		require.NoError(t, err)
		assert.Equal(t, 8.0, res.AverageScore)
		assert.Equal(t, i+1, res.QuestionsAnswered)
	}

	snapshot, err := svc.GetSession(ctx, started.SessionId)
	require.NoError(t, err)
	assert.Equal(t, 2, snapshot.QuestionsAsked)
	assert.False(t, snapshot.AwaitingAnswer)

	report, err := svc.Finalize(ctx, started.SessionId)
	require.NoError(t, err)
	assert.Equal(t, entity.RecommendStrongHire, report.HiringRecommendation)

	stored, err := svc.GetReport(ctx, started.SessionId)
	require.NoError(t, err)
	assert.Equal(t, report.OverallScore, stored.OverallScore)

	var types []string
	for _, evt := range pub.published(t) {
		assert.Equal(t, started.SessionId, evt.SessionId)
		assert.False(t, evt.OccurredAt.IsZero())
		types = append(types, evt.Type)
	}
	assert.Equal(t, []string{
		events.InterviewStarted,
		events.QuestionIssued, events.AnswerScored,
		events.QuestionIssued, events.AnswerScored,
		events.InterviewCompleted,
	}, types)

	completed := pub.published(t)[5]
	require.NotNil(t, completed.Report)
	assert.Equal(t, "Grace Hopper", completed.Report.Candidate.Name)
}

func TestInterviewService_StartRejectsBadIntake(t *testing.T) {
	pub := &mockPublisher{}
	svc, _ := newTestService(t, pub)

	req := startRequest()
	req.Files[0].Name = "../etc/passwd.txt"

	_, err := svc.Start(context.Background(), req)

	assert.True(t, ingest.IsValidationError(err))
	pub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestInterviewService_PublishFailureIsNotFatal(t *testing.T) {
	pub := &mockPublisher{}
	pub.On("Publish", mock.Anything, mock.Anything).Return(errors.New("bus closed"))
	svc, _ := newTestService(t, pub)

	started, err := svc.Start(context.Background(), startRequest())
	require.NoError(t, err)

	_, err = svc.NextQuestion(context.Background(), started.SessionId)
	assert.NoError(t, err)
	pub.AssertNumberOfCalls(t, "Publish", 2)
}

func TestInterviewService_EngineErrorsPassThrough(t *testing.T) {
	svc, _ := newTestService(t, nil)

	_, err := svc.NextQuestion(context.Background(), "missing")
	assert.ErrorIs(t, err, engine.ErrNotFound)

	started, err := svc.Start(context.Background(), startRequest())
	require.NoError(t, err)

	_, err = svc.GetReport(context.Background(), started.SessionId)
	assert.ErrorIs(t, err, engine.ErrNotReady)

	_, err = svc.SubmitAnswer(context.Background(), started.SessionId, &dto.SubmitAnswerRequest{QuestionId: "q_1"})
	assert.ErrorIs(t, err, engine.ErrNoActiveQuestion)
}

func TestInterviewService_SerializesPerSession(t *testing.T) {
	ctx := context.Background()
	svc, scorer := newTestService(t, nil)

	started, err := svc.Start(ctx, startRequest())
	require.NoError(t, err)
	q, err := svc.NextQuestion(ctx, started.SessionId)
	require.NoError(t, err)

	const workers = 5
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.SubmitAnswer(ctx, started.SessionId, &dto.SubmitAnswerRequest{QuestionId: q.Question.Id, Answer: "same"})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, engine.ErrNoActiveQuestion)
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, scorer.calls)

	snapshot, err := svc.GetSession(ctx, started.SessionId)
	require.NoError(t, err)
	assert.Equal(t, 1, snapshot.QuestionsAnswered)
	assert.Equal(t, 0, svc.(*interviewService).locks.size())
}

func TestSessionLocks(t *testing.T) {
	locks := newSessionLocks()

	unlockA := locks.lock("a")
	unlockB := locks.lock("b")
	assert.Equal(t, 2, locks.size())

	acquired := make(chan struct{})
	go func() {
		unlock := locks.lock("a")
		close(acquired)
		unlock()
	}()

	select {
	case <-acquired:
		t.Fatal("second holder entered while the first still held the lock")
	case <-time.After(20 * time.Millisecond):
	}

	unlockA()
	<-acquired
	unlockB()

	require.Eventually(t, func() bool { return locks.size() == 0 }, time.Second, time.Millisecond)
}
