package mailer

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/resend/resend-go/v2"
)

// ResendMailer delivers manager email through the Resend API. When no API
// key is configured it logs the email instead, so local runs stay usable.
type ResendMailer struct {
	apiKey      string
	fromEmail   string
	hrEmail     string
	companyName string
}

func NewResendMailer(apiKey, fromEmail, hrEmail, companyName string) *ResendMailer {
	if apiKey == "" {
		log.Println("⚠️  RESEND_API_KEY not set, escalation emails will be logged only")
	}
	return &ResendMailer{
		apiKey:      apiKey,
		fromEmail:   fromEmail,
		hrEmail:     hrEmail,
		companyName: companyName,
	}
}

func (m *ResendMailer) SendEscalation(ctx context.Context, esc Escalation) error {
	subject := fmt.Sprintf("🚨 Onboarding Task Overdue - Action Required: %s", esc.EmployeeName)

	var taskRows, historyRows strings.Builder
	for _, t := range esc.Tasks {
		fmt.Fprintf(&taskRows, "<li><strong>%s</strong> - %d days overdue (Due: %s)</li>",
			t.Title, t.DaysOverdue, t.DueDate.Format("2006-01-02"))
		fmt.Fprintf(&historyRows, "<li>%s: %d reminders sent</li>", t.Title, t.ReminderCount)
	}

	startDate := "unknown"
	if esc.StartDate != nil {
		startDate = esc.StartDate.Format("2006-01-02")
	}

	html := fmt.Sprintf(`
		<div style="font-family: sans-serif; max-width: 560px; margin: 0 auto; padding: 24px;">
			<h2 style="color: #c0392b;">Onboarding tasks overdue</h2>
			<p><strong>%s</strong> (started %s) has overdue onboarding tasks that have
			exhausted their automated reminders:</p>
			<ul>%s</ul>
			<h3>Reminder history</h3>
			<ul>%s</ul>
			<p>Please follow up with them directly, or contact HR at
			<a href="mailto:%s">%s</a>.</p>
			<p style="color: #aaa; font-size: 12px;">%s onboarding assistant</p>
		</div>`,
		esc.EmployeeName, startDate, taskRows.String(), historyRows.String(),
		m.hrEmail, m.hrEmail, m.companyName)

	return m.send(esc.ManagerEmail, esc.EmployeeEmail, subject, html)
}

func (m *ResendMailer) SendCompletionSummary(ctx context.Context, sum CompletionSummary) error {
	subject := fmt.Sprintf("✅ Onboarding Completed: %s", sum.EmployeeName)

	html := fmt.Sprintf(`
		<div style="font-family: sans-serif; max-width: 560px; margin: 0 auto; padding: 24px;">
			<h2 style="color: #28a745;">🎉 Onboarding successfully completed!</h2>
			<p><strong>%s</strong> finished all mandatory onboarding tasks on %s.</p>
			<p>%d of %d assigned tasks were mandatory and are now done.</p>
			<p style="color: #aaa; font-size: 12px;">%s onboarding assistant</p>
		</div>`,
		sum.EmployeeName, sum.CompletedAt.Format("January 2, 2006"),
		sum.MandatoryDone, sum.TotalTasks, m.companyName)

	return m.send(sum.ManagerEmail, "", subject, html)
}

func (m *ResendMailer) send(to, cc, subject, html string) error {
	if m.apiKey == "" {
		log.Printf("📧 [Dev Mode] Email to %s: %s", to, subject)
		return nil
	}

	client := resend.NewClient(m.apiKey)

	params := &resend.SendEmailRequest{
		From:    m.fromEmail,
		To:      []string{to},
		Subject: subject,
		Html:    html,
	}
	if cc != "" {
		params.Cc = []string{cc}
	}

	sent, err := client.Emails.Send(params)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	log.Printf("📧 Email sent successfully (ID: %s) — To: %s", sent.Id, to)
	return nil
}
