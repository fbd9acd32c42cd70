package model

// RoleTag is the functional category resolved from a new hire's job title.
type RoleTag string

const (
	RoleAIEngineer        RoleTag = "ai_engineer"
	RoleDataScientist     RoleTag = "data_scientist"
	RoleSoftwareDeveloper RoleTag = "software_developer"
	RoleHRAssociate       RoleTag = "hr_associate"
	RoleProductManager    RoleTag = "product_manager"
	RoleDesigner          RoleTag = "designer"
	RoleMarketing         RoleTag = "marketing"
	RoleSales             RoleTag = "sales"
	RoleOther             RoleTag = "other"
)

// TaskStatus is the lifecycle state of a single onboarding task.
type TaskStatus string

const (
	TaskNotStarted TaskStatus = "not_started"
	TaskInProgress TaskStatus = "in_progress"
	TaskCompleted  TaskStatus = "completed"
	TaskOverdue    TaskStatus = "overdue"
	TaskSkipped    TaskStatus = "skipped"
)

// ReminderStatus tracks a reminder row from pending through escalation.
// Escalated is terminal: the due-reminder scan never revisits such rows.
type ReminderStatus string

const (
	ReminderPending   ReminderStatus = "pending"
	ReminderSent      ReminderStatus = "sent"
	ReminderFailed    ReminderStatus = "failed"
	ReminderEscalated ReminderStatus = "escalated"
)

// ProfileStatus is the cached result of the last profile-completeness check.
type ProfileStatus string

const (
	ProfileIncomplete    ProfileStatus = "incomplete"
	ProfilePendingReview ProfileStatus = "pending_review"
	ProfileComplete      ProfileStatus = "complete"
)
