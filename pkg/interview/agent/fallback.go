package agent

import (
	"context"

	"ai-interview-be/internal/entity"
	"ai-interview-be/internal/pkg/logger"
	"ai-interview-be/pkg/interview/engine"
)

type bankEntry struct {
	difficulty entity.Difficulty // empty matches any level
	text       string
}

// fallbackBank is keyed by phase category.
var fallbackBank = map[string][]bankEntry{
	"introduction": {
		{"", "Tell me a little about yourself and what drew you to this role."},
		{"", "Walk me through your current role and your main responsibilities."},
	},
	"general": {
		{"", "What kind of projects do you enjoy working on the most, and why?"},
		{"", "How do you keep your skills up to date?"},
		{"", "Describe a typical working day in your current position."},
	},
	"technical": {
		{entity.DifficultyEasy, "Tell me about your experience with the technologies mentioned in your resume."},
		{entity.DifficultyEasy, "Which tool or language do you use most, and what do you like about it?"},
		{entity.DifficultyMedium, "Describe how you would design and test a small service that exposes a REST API."},
		{entity.DifficultyMedium, "How do you track down a bug that only shows up in production?"},
		{entity.DifficultyHard, "Walk me through how you would scale a system whose traffic grows tenfold in a month."},
		{entity.DifficultyHard, "Describe the hardest technical trade-off you have made and how you evaluated the options."},
	},
	"behavioral": {
		{"", "Tell me about a time you disagreed with a teammate. How did you resolve it?"},
		{"", "Describe a situation where you had to deliver under a tight deadline."},
		{"", "Give an example of feedback you received and what you changed because of it."},
	},
	"problem_solving": {
		{"", "A critical feature is failing for some users but not others. How do you approach it?"},
		{"", "How would you break down a large, vaguely defined project into deliverable pieces?"},
	},
	"situational": {
		{"", "Your manager asks for a feature you believe will hurt users. What do you do?"},
		{"", "Two stakeholders give you conflicting priorities on the same day. How do you handle it?"},
	},
	"cultural_fit": {
		{"", "What does a healthy team culture look like to you?"},
		{"", "How do you prefer to give and receive feedback?"},
	},
	"closing": {
		{"", "Is there anything we have not covered that you would like us to know, and do you have questions for us?"},
	},
}

// FallbackQuestions wraps a QuestionProvider and answers from a fixed bank
// when the primary fails. It is wired explicitly; scoring has no equivalent.
type FallbackQuestions struct {
	primary engine.QuestionProvider
	logger  logger.ILogger
}

var _ engine.QuestionProvider = &FallbackQuestions{}

func NewFallbackQuestions(primary engine.QuestionProvider, log logger.ILogger) *FallbackQuestions {
	return &FallbackQuestions{primary: primary, logger: log}
}

func (f *FallbackQuestions) GenerateQuestion(ctx context.Context, req engine.QuestionRequest) (entity.Question, error) {
	q, err := f.primary.GenerateQuestion(ctx, req)
	if err == nil {
		return q, nil
	}
	if ctx.Err() != nil {
		return entity.Question{}, err
	}

	f.logger.Warn(logModule, "Question provider failed, using fallback bank", map[string]interface{}{
		"session_id": req.SessionId,
		"phase":      req.Phase.Key,
		"error":      err.Error(),
	})

	return FallbackQuestion(req), nil
}

// FallbackQuestion picks deterministically by category, difficulty and
// question number, skipping texts already asked in the session.
func FallbackQuestion(req engine.QuestionRequest) entity.Question {
	category := req.Phase.Category
	entries, ok := fallbackBank[category]
	if !ok {
		category = "general"
		entries = fallbackBank[category]
	}

	var candidates []string
	for _, e := range entries {
		if e.difficulty == "" || e.difficulty == req.Difficulty {
			candidates = append(candidates, e.text)
		}
	}
	if len(candidates) == 0 {
		for _, e := range entries {
			candidates = append(candidates, e.text)
		}
	}

	asked := make(map[string]bool, len(req.PriorQuestions))
	for _, q := range req.PriorQuestions {
		asked[q.Text] = true
	}

	text := candidates[req.QuestionNumber%len(candidates)]
	for i := 0; i < len(candidates); i++ {
		c := candidates[(req.QuestionNumber+i)%len(candidates)]
		if !asked[c] {
			text = c
			break
		}
	}

	return entity.Question{
		Text:            text,
		Category:        category,
		Difficulty:      req.Difficulty,
		ExpectedSeconds: 300,
		Context:         map[string]interface{}{"source": "fallback"},
		FollowUpHints:   []string{},
	}
}
