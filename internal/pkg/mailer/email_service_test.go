package mailer

import (
	"errors"
	"testing"

	"ai-interview-be/internal/entity"
	"ai-interview-be/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

type fakeSender struct {
	sent []*gomail.Message
	err  error
}

func (f *fakeSender) DialAndSend(m ...*gomail.Message) error {
	f.sent = append(f.sent, m...)
	return f.err
}

func sampleReport() *entity.Report {
	return &entity.Report{
		SessionId:            "s1",
		Candidate:            entity.CandidateRecord{Name: "Ada <Lovelace>"},
		Position:             "Backend Engineer",
		OverallScore:         8.3,
		TechnicalScore:       7.5,
		HiringRecommendation: entity.RecommendStrongHire,
		ConfidenceLevel:      0.9,
		Strengths:            []string{"Clear communication"},
		DetailedFeedback:     "Solid session.",
	}
}

func TestRenderReport(t *testing.T) {
	subject, body := RenderReport(sampleReport(), "https://app.example.com")

	assert.Equal(t, "Interview report: Ada <Lovelace> for Backend Engineer (STRONG HIRE)", subject)
	assert.Contains(t, body, "Ada &lt;Lovelace&gt;")
	assert.Contains(t, body, "<strong>8.3</strong>")
	assert.Contains(t, body, "confidence 90%")
	assert.Contains(t, body, "<li>Clear communication</li>")
	assert.NotContains(t, body, "Skill gaps")
	assert.Contains(t, body, "https://app.example.com/interviews/s1/report")
}

func TestSendInterviewReport(t *testing.T) {
	fs := &fakeSender{}
	svc := &emailService{dialer: fs, senderEmail: "noreply@example.com", logger: logger.NewNopLogger()}

	require.NoError(t, svc.SendInterviewReport("recruiter@example.com", sampleReport()))
	require.Len(t, fs.sent, 1)
	assert.Equal(t, []string{"recruiter@example.com"}, fs.sent[0].GetHeader("To"))
	assert.Equal(t, []string{"noreply@example.com"}, fs.sent[0].GetHeader("From"))
}

func TestSendInterviewReport_Error(t *testing.T) {
	svc := &emailService{dialer: &fakeSender{err: errors.New("smtp down")}, logger: logger.NewNopLogger()}

	assert.Error(t, svc.SendInterviewReport("recruiter@example.com", sampleReport()))
}
