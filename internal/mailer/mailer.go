package mailer

import (
	"context"
	"time"
)

// OverdueTask is one row of an escalation: what is overdue and how many
// reminders were already sent for it.
type OverdueTask struct {
	Title         string
	DueDate       time.Time
	DaysOverdue   int
	ReminderCount int
}

// Escalation carries everything a manager needs to act on an overdue
// employee: identity, the overdue work, and the reminder history.
type Escalation struct {
	ManagerEmail  string
	EmployeeName  string
	EmployeeEmail string
	StartDate     *time.Time
	Tasks         []OverdueTask
}

// CompletionSummary notifies a manager that an employee finished onboarding.
type CompletionSummary struct {
	ManagerEmail  string
	EmployeeName  string
	CompletedAt   time.Time
	TotalTasks    int
	MandatoryDone int
}

// Mailer sends manager-facing email. Implementations must not be retried by
// callers: a failed send is logged and audited, not re-driven synchronously.
type Mailer interface {
	SendEscalation(ctx context.Context, esc Escalation) error
	SendCompletionSummary(ctx context.Context, sum CompletionSummary) error
}
