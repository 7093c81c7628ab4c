package entity

import (
	"strings"
	"time"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

var difficultyRank = map[Difficulty]int{
	DifficultyEasy:   0,
	DifficultyMedium: 1,
	DifficultyHard:   2,
}

var difficultyByRank = []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}

func (d Difficulty) IsValid() bool {
	_, ok := difficultyRank[d]
	return ok
}

// Rank orders difficulties easy < medium < hard. Unknown values rank as medium.
func (d Difficulty) Rank() int {
	if r, ok := difficultyRank[d]; ok {
		return r
	}
	return difficultyRank[DifficultyMedium]
}

// StepUp returns the next harder level, clamped at hard.
func (d Difficulty) StepUp() Difficulty {
	r := d.Rank() + 1
	if r >= len(difficultyByRank) {
		r = len(difficultyByRank) - 1
	}
	return difficultyByRank[r]
}

// StepDown returns the next easier level, clamped at easy.
func (d Difficulty) StepDown() Difficulty {
	r := d.Rank() - 1
	if r < 0 {
		r = 0
	}
	return difficultyByRank[r]
}

func ParseDifficulty(s string) (Difficulty, bool) {
	d := Difficulty(strings.ToLower(strings.TrimSpace(s)))
	return d, d.IsValid()
}

type InterviewStyle string

const (
	StyleTechnical  InterviewStyle = "technical"
	StyleBehavioral InterviewStyle = "behavioral"
	StyleMixed      InterviewStyle = "mixed"
	StyleLeadership InterviewStyle = "leadership"
)

func (s InterviewStyle) IsValid() bool {
	switch s {
	case StyleTechnical, StyleBehavioral, StyleMixed, StyleLeadership:
		return true
	}
	return false
}

type SeniorityBand string

const (
	SeniorityJunior SeniorityBand = "junior"
	SeniorityMid    SeniorityBand = "mid-level"
	SenioritySenior SeniorityBand = "senior"
	SeniorityLead   SeniorityBand = "lead"
)

func (b SeniorityBand) IsValid() bool {
	switch b {
	case SeniorityJunior, SeniorityMid, SenioritySenior, SeniorityLead:
		return true
	}
	return false
}

// NominalYears is the experience assumed for a declared band when the
// resume read produced nothing usable.
func (b SeniorityBand) NominalYears() float64 {
	switch b {
	case SeniorityJunior:
		return 1
	case SenioritySenior:
		return 6
	case SeniorityLead:
		return 8
	default:
		return 3
	}
}

type SessionStatus string

const (
	StatusInProgress SessionStatus = "in_progress"
	StatusCompleted  SessionStatus = "completed"
)

type HiringRecommendation string

const (
	RecommendStrongHire HiringRecommendation = "strong_hire"
	RecommendHire       HiringRecommendation = "hire"
	RecommendConsider   HiringRecommendation = "consider"
	RecommendDoNotHire  HiringRecommendation = "do_not_hire"
)

type ResumeFile struct {
	FileId   string `json:"file_id"`
	Filename string `json:"filename"`
	FileType string `json:"file_type"`
	Size     int64  `json:"size"`
}

// CandidateRecord is fixed once a session starts.
type CandidateRecord struct {
	Name      string         `json:"name"`
	Email     string         `json:"email"`
	Position  string         `json:"position"`
	Seniority SeniorityBand  `json:"seniority"`
	Style     InterviewStyle `json:"interview_style"`
	Files     []ResumeFile   `json:"files"`
}

// ResumeDocument is an ingested file with whatever text could be extracted.
type ResumeDocument struct {
	File ResumeFile `json:"file"`
	Text string     `json:"-"`
}

type SkillProfile struct {
	Skills          []string `json:"skills"`
	ExperienceYears float64  `json:"experience_years"`
	Education       string   `json:"education"`
	Confidence      float64  `json:"confidence"`
}

// EmptySkillProfile is attached when no usable resume insight exists.
func EmptySkillProfile() SkillProfile {
	return SkillProfile{Skills: []string{}}
}

type Phase struct {
	Key              string     `json:"key"`
	Name             string     `json:"name"`
	Category         string     `json:"category"`
	Order            int        `json:"order"`
	TargetDifficulty Difficulty `json:"target_difficulty"`
	QuestionCount    int        `json:"question_count"`
	DurationMinutes  int        `json:"duration_minutes"`
	Description      string     `json:"description,omitempty"`
}

type Question struct {
	Id              string                 `json:"id"`
	Text            string                 `json:"text"`
	Category        string                 `json:"category"`
	Difficulty      Difficulty             `json:"difficulty"`
	ExpectedSeconds int                    `json:"expected_duration"`
	Context         map[string]interface{} `json:"context,omitempty"`
	FollowUpHints   []string               `json:"follow_up_hints"`
	PhaseKey        string                 `json:"phase_key"`
	IssuedAt        time.Time              `json:"issued_at"`
}

type Answer struct {
	QuestionId string `json:"question_id"`
	Text       string `json:"answer"`
	TimeTaken  int    `json:"time_taken"`
}

type ScoreCard struct {
	OverallScore         float64    `json:"overall_score"`
	TechnicalAccuracy    float64    `json:"technical_accuracy"`
	CommunicationClarity float64    `json:"communication_clarity"`
	ProblemSolving       float64    `json:"problem_solving_approach"`
	ExperienceRelevance  float64    `json:"experience_relevance"`
	Strengths            []string   `json:"strengths"`
	AreasForImprovement  []string   `json:"areas_for_improvement"`
	Suggestions          []string   `json:"suggestions"`
	SuggestedDifficulty  Difficulty `json:"suggested_difficulty"`
	FollowUpQuestions    []string   `json:"follow_up_questions"`
	SkillGaps            []string   `json:"skill_gaps"`
}

// Response pairs an answer with its evaluation; both are immutable once recorded.
type Response struct {
	Answer     Answer     `json:"answer"`
	Evaluation ScoreCard  `json:"evaluation"`
	Difficulty Difficulty `json:"difficulty"`
	Category   string     `json:"category"`
	AnsweredAt time.Time  `json:"answered_at"`
}

type Session struct {
	Id                string          `json:"session_id"`
	Candidate         CandidateRecord `json:"candidate"`
	Profile           SkillProfile    `json:"skill_profile"`
	Phases            []Phase         `json:"phases"`
	DurationMinutes   int             `json:"duration_minutes"`
	CurrentPhase      int             `json:"current_phase"`
	PhaseQuestions    int             `json:"phase_questions_asked"`
	CurrentDifficulty Difficulty      `json:"current_difficulty"`
	Questions         []Question      `json:"questions"`
	Responses         []Response      `json:"responses"`
	AverageScore      float64         `json:"average_score"`
	Status            SessionStatus   `json:"status"`
	StartedAt         time.Time       `json:"started_at"`
	EndedAt           *time.Time      `json:"ended_at,omitempty"`
	Report            *Report         `json:"final_report,omitempty"`
}

// PlannedQuestions is the total question budget across all phases.
func (s *Session) PlannedQuestions() int {
	total := 0
	for _, p := range s.Phases {
		total += p.QuestionCount
	}
	return total
}

// OutstandingQuestion returns the most recently issued question when it has
// not been answered yet.
func (s *Session) OutstandingQuestion() (*Question, bool) {
	if len(s.Questions) == 0 {
		return nil, false
	}
	last := &s.Questions[len(s.Questions)-1]
	for _, r := range s.Responses {
		if r.Answer.QuestionId == last.Id {
			return nil, false
		}
	}
	return last, true
}

// LastQuestionAnswered reports whether the latest issued question has a response.
func (s *Session) LastQuestionAnswered() bool {
	if len(s.Questions) == 0 || len(s.Responses) == 0 {
		return false
	}
	return s.Responses[len(s.Responses)-1].Answer.QuestionId == s.Questions[len(s.Questions)-1].Id
}

func (s *Session) ActivePhase() *Phase {
	if s.CurrentPhase < 0 || s.CurrentPhase >= len(s.Phases) {
		return nil
	}
	return &s.Phases[s.CurrentPhase]
}

type DifficultyStep struct {
	QuestionId string     `json:"question_id"`
	Difficulty Difficulty `json:"difficulty"`
	Score      float64    `json:"score"`
}

type Report struct {
	SessionId             string               `json:"session_id"`
	Candidate             CandidateRecord      `json:"candidate"`
	Position              string               `json:"position"`
	OverallScore          float64              `json:"overall_score"`
	TechnicalScore        float64              `json:"technical_score"`
	BehavioralScore       float64              `json:"behavioral_score"`
	CommunicationScore    float64              `json:"communication_score"`
	ProblemSolvingScore   float64              `json:"problem_solving_score"`
	CulturalFitScore      float64              `json:"cultural_fit_score"`
	Strengths             []string             `json:"strengths"`
	AreasForImprovement   []string             `json:"areas_for_improvement"`
	SkillGaps             []string             `json:"skill_gaps"`
	Recommendations       []string             `json:"recommendations"`
	TotalQuestions        int                  `json:"total_questions"`
	TotalResponses        int                  `json:"total_responses"`
	AverageResponseTime   float64              `json:"average_response_time"`
	DifficultyProgression []DifficultyStep     `json:"difficulty_progression"`
	HiringRecommendation  HiringRecommendation `json:"hiring_recommendation"`
	ConfidenceLevel       float64              `json:"confidence_level"`
	DetailedFeedback      string               `json:"detailed_feedback"`
	GeneratedAt           time.Time            `json:"generated_at"`
	InterviewDuration     float64              `json:"interview_duration"`
}
