package events

const (
	InterviewStarted   = "INTERVIEW_STARTED"
	QuestionIssued     = "QUESTION_ISSUED"
	AnswerScored       = "ANSWER_SCORED"
	InterviewCompleted = "INTERVIEW_COMPLETED"
)

const (
	// SubjectPrefix namespaces every event on the external bus.
	SubjectPrefix = "events."
	SessionIdKey  = "session_id"
)

// Types lists the interview event types in lifecycle order.
func Types() []string {
	return []string{InterviewStarted, QuestionIssued, AnswerScored, InterviewCompleted}
}

func IsKnown(eventType string) bool {
	for _, t := range Types() {
		if t == eventType {
			return true
		}
	}
	return false
}

func Subject(eventType string) string {
	return SubjectPrefix + eventType
}
