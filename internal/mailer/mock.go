package mailer

import (
	"context"
	"log"
)

// MockMailer logs instead of sending. Useful in tests and local runs.
type MockMailer struct{}

func NewMockMailer() *MockMailer {
	return &MockMailer{}
}

func (m *MockMailer) SendEscalation(ctx context.Context, esc Escalation) error {
	log.Printf("📧 [MockMailer] Escalation to %s about %s (%d tasks)", esc.ManagerEmail, esc.EmployeeName, len(esc.Tasks))
	return nil
}

func (m *MockMailer) SendCompletionSummary(ctx context.Context, sum CompletionSummary) error {
	log.Printf("📧 [MockMailer] Completion summary to %s about %s", sum.ManagerEmail, sum.EmployeeName)
	return nil
}
