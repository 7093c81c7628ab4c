package mailer

import (
	"fmt"
	"html"
	"strings"

	"ai-interview-be/internal/entity"
	"ai-interview-be/internal/pkg/logger"

	"gopkg.in/gomail.v2"
)

const logModule = "MAILER"

type IEmailService interface {
	SendInterviewReport(toEmail string, report *entity.Report) error
}

type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

type emailService struct {
	dialer      sender
	senderEmail string
	frontendURL string
	logger      logger.ILogger
}

func NewEmailService(host string, port int, username, password, senderEmail, frontendURL string, log logger.ILogger) IEmailService {
	return &emailService{
		dialer:      gomail.NewDialer(host, port, username, password),
		senderEmail: senderEmail,
		frontendURL: strings.TrimRight(frontendURL, "/"),
		logger:      log,
	}
}

func (s *emailService) SendInterviewReport(toEmail string, report *entity.Report) error {
	subject, body := RenderReport(report, s.frontendURL)

	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		s.logger.Error(logModule, "Failed to send interview report", map[string]interface{}{
			"session_id": report.SessionId,
			"to":         toEmail,
			"error":      err.Error(),
		})
		return err
	}

	s.logger.Info(logModule, "Interview report sent", map[string]interface{}{
		"session_id": report.SessionId,
		"to":         toEmail,
	})
	return nil
}

// RenderReport builds the subject and HTML body of the recruiter summary.
func RenderReport(report *entity.Report, frontendURL string) (string, string) {
	subject := fmt.Sprintf("Interview report: %s for %s (%s)",
		report.Candidate.Name, report.Position, label(report.HiringRecommendation))

	var b strings.Builder
	b.WriteString(`<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">`)
	fmt.Fprintf(&b, `<h2>%s</h2>`, html.EscapeString(report.Candidate.Name))
	fmt.Fprintf(&b, `<p>Position: %s<br>Overall score: <strong>%.1f</strong> / 10<br>Recommendation: <strong>%s</strong> (confidence %.0f%%)</p>`,
		html.EscapeString(report.Position), report.OverallScore, label(report.HiringRecommendation), report.ConfidenceLevel*100)

	b.WriteString(`<table cellpadding="4">`)
	for _, row := range []struct {
		name  string
		score float64
	}{
		{"Technical", report.TechnicalScore},
		{"Communication", report.CommunicationScore},
		{"Problem solving", report.ProblemSolvingScore},
		{"Behavioral", report.BehavioralScore},
		{"Cultural fit", report.CulturalFitScore},
	} {
		fmt.Fprintf(&b, `<tr><td>%s</td><td>%.1f</td></tr>`, row.name, row.score)
	}
	b.WriteString(`</table>`)

	writeList(&b, "Strengths", report.Strengths)
	writeList(&b, "Areas for improvement", report.AreasForImprovement)
	writeList(&b, "Skill gaps", report.SkillGaps)

	fmt.Fprintf(&b, `<p>%s</p>`, html.EscapeString(report.DetailedFeedback))
	if frontendURL != "" {
		link := fmt.Sprintf("%s/interviews/%s/report", frontendURL, report.SessionId)
		fmt.Fprintf(&b, `<p><a href="%s">Open the full report</a></p>`, html.EscapeString(link))
	}
	b.WriteString(`</div>`)

	return subject, b.String()
}

func writeList(b *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, `<h3>%s</h3><ul>`, title)
	for _, item := range items {
		fmt.Fprintf(b, `<li>%s</li>`, html.EscapeString(item))
	}
	b.WriteString(`</ul>`)
}

func label(r entity.HiringRecommendation) string {
	return strings.ToUpper(strings.ReplaceAll(string(r), "_", " "))
}
