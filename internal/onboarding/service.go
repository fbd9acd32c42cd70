package onboarding

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"onboardbot/internal/catalog"
	"onboardbot/internal/mailer"
	"onboardbot/internal/model"
	"onboardbot/internal/profile"
	"onboardbot/internal/repository"
	"onboardbot/internal/role"
)

var (
	// ErrUserNotFound is returned when the platform user id is unknown
	ErrUserNotFound = errors.New("user not found")

	// ErrOrdinalOutOfRange is returned when a task number does not address
	// any task in the user's current list
	ErrOrdinalOutOfRange = errors.New("task number out of range")

	// ErrProfileIncomplete is returned when assignment is attempted before
	// the profile completeness gate has passed
	ErrProfileIncomplete = errors.New("profile incomplete")
)

// CatalogProvider yields the current role → task-template catalog. It is
// consulted on every assignment so catalog edits apply without a restart.
type CatalogProvider interface {
	Load() (*catalog.Catalog, error)
}

// Service implements the task-lifecycle core: user bootstrap, the profile
// gate, transactional task assignment, ordinal-addressed status updates,
// and completion evaluation.
type Service struct {
	users      repository.UserRepositoryInterface
	tasks      repository.TaskRepositoryInterface
	reminders  repository.ReminderRepositoryInterface
	checks     repository.ProfileCheckRepositoryInterface
	source     profile.Source
	analyzer   *profile.Analyzer
	classifier *role.Classifier
	catalog    CatalogProvider
	mail       mailer.Mailer

	maxReminders    int
	fallbackManager string

	now func() time.Time
}

func NewService(
	users repository.UserRepositoryInterface,
	tasks repository.TaskRepositoryInterface,
	reminders repository.ReminderRepositoryInterface,
	checks repository.ProfileCheckRepositoryInterface,
	source profile.Source,
	analyzer *profile.Analyzer,
	classifier *role.Classifier,
	catalogProvider CatalogProvider,
	mail mailer.Mailer,
	maxReminders int,
	fallbackManager string,
) *Service {
	return &Service{
		users:           users,
		tasks:           tasks,
		reminders:       reminders,
		checks:          checks,
		source:          source,
		analyzer:        analyzer,
		classifier:      classifier,
		catalog:         catalogProvider,
		mail:            mail,
		maxReminders:    maxReminders,
		fallbackManager: fallbackManager,
		now:             time.Now,
	}
}

// GetUser resolves a platform user id to a stored user.
func (s *Service) GetUser(ctx context.Context, platformUserID string) (*model.User, error) {
	user, err := s.users.GetByPlatformID(ctx, platformUserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// EnsureUser returns the user for a platform id, creating a record on first
// contact. Profile fields are filled from the directory when the lookup
// succeeds; a failed lookup still yields a minimal record.
func (s *Service) EnsureUser(ctx context.Context, platformUserID string) (*model.User, error) {
	user, err := s.users.GetByPlatformID(ctx, platformUserID)
	if err != nil {
		return nil, err
	}
	if user != nil {
		return user, nil
	}

	user = &model.User{
		ID:             uuid.New(),
		PlatformUserID: platformUserID,
		Role:           model.RoleOther,
	}

	if p, perr := s.source.FetchProfile(ctx, platformUserID); perr != nil {
		log.Printf("⚠️  Could not fetch profile for %s: %v", platformUserID, perr)
	} else {
		applyProfile(user, p)
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user %s: %w", platformUserID, err)
	}
	log.Printf("✅ Created new user: %s", platformUserID)
	return user, nil
}

// RefreshProfile re-fetches the user's directory profile, re-runs the
// completeness analysis, and overwrites the cached ProfileCheck row.
func (s *Service) RefreshProfile(ctx context.Context, user *model.User) (profile.Analysis, error) {
	p, err := s.source.FetchProfile(ctx, user.PlatformUserID)
	if err != nil {
		return profile.Analysis{}, fmt.Errorf("fetch profile for %s: %w", user.PlatformUserID, err)
	}

	applyProfile(user, p)
	if err := s.users.Save(ctx, user); err != nil {
		return profile.Analysis{}, err
	}

	analysis := s.analyzer.Analyze(p)
	now := s.now()

	check := &model.ProfileCheck{
		ID:              uuid.New(),
		UserID:          user.ID,
		HasRealName:     analysis.HasRealName,
		HasDisplayName:  analysis.HasDisplayName,
		HasProfileImage: analysis.HasProfileImage,
		HasJobTitle:     analysis.HasJobTitle,
		HasDepartment:   analysis.HasDepartment,
		HasPhone:        analysis.HasPhone,
		HasManagerInfo:  analysis.HasManagerInfo,
		HasStartDate:    analysis.HasStartDate,
		CompletionScore: analysis.CompletionScore,
		MissingFields:   mustJSON(analysis.MissingFields),
		Status:          model.ProfileIncomplete,
		LastCheckedAt:   now,
	}
	if analysis.IsComplete {
		check.Status = model.ProfileComplete
		check.CompletedAt = &now
	}

	if err := s.checks.Upsert(ctx, check); err != nil {
		return profile.Analysis{}, err
	}
	return analysis, nil
}

// Assign replaces the user's task set with the catalog set for the role
// resolved from jobTitle. The swap of tasks and reminders is one atomic
// transaction; a failure anywhere leaves the previous assignment intact.
// The profile completeness gate must have passed first.
func (s *Service) Assign(ctx context.Context, user *model.User, jobTitle string) error {
	check, err := s.checks.GetByUser(ctx, user.ID)
	if err != nil {
		return err
	}
	if check == nil || check.Status != model.ProfileComplete {
		return ErrProfileIncomplete
	}

	resolved := s.classifier.Classify(jobTitle)

	cat, err := s.catalog.Load()
	if err != nil {
		return err
	}
	templates := cat.TasksFor(resolved)

	// One clock read keeps due dates and reminder offsets consistent
	// across the whole batch.
	now := s.now()

	tasks := make([]model.OnboardingTask, 0, len(templates))
	reminders := make([]model.TaskReminder, 0, len(templates))
	for i, tpl := range templates {
		due := now.AddDate(0, 0, tpl.DueDays)
		task := model.OnboardingTask{
			ID:           uuid.New(),
			UserID:       user.ID,
			Name:         tpl.Name,
			Description:  tpl.Description,
			Category:     tpl.Category,
			Role:         resolved,
			Priority:     tpl.Priority,
			DueDate:      &due,
			Status:       model.TaskNotStarted,
			Mandatory:    tpl.Mandatory,
			EstimatedMin: tpl.EstimatedMin,
			Instructions: tpl.Instructions,
			Resources:    mustJSON(tpl.Resources),
			Position:     i + 1,
		}
		tasks = append(tasks, task)

		remindAt := due.AddDate(0, 0, -1)
		reminders = append(reminders, model.TaskReminder{
			ID:              uuid.New(),
			TaskID:          task.ID,
			UserID:          user.ID,
			MaxReminders:    s.maxReminders,
			NextReminderDue: &remindAt,
			Status:          model.ReminderPending,
		})
	}

	if err := s.tasks.ReplaceForUser(ctx, user.ID, tasks, reminders); err != nil {
		return fmt.Errorf("replace task set for %s: %w", user.PlatformUserID, err)
	}

	user.Role = resolved
	user.JobTitle = jobTitle
	if err := s.users.Save(ctx, user); err != nil {
		return err
	}

	log.Printf("✅ Assigned %d tasks to user %s for role %s", len(tasks), user.PlatformUserID, resolved)
	return nil
}

// TaskList returns the user's tasks in presentation order; ordinals in user
// commands are 1-indexed positions into this list.
func (s *Service) TaskList(ctx context.Context, user *model.User) ([]model.OnboardingTask, error) {
	return s.tasks.ListByUser(ctx, user.ID)
}

// UpdateTaskStatus applies a status transition to the task at the given
// 1-indexed ordinal. Repeating a transition is a no-op that still succeeds
// and re-stamps the timestamp.
func (s *Service) UpdateTaskStatus(ctx context.Context, user *model.User, ordinal int, status model.TaskStatus) (*model.OnboardingTask, error) {
	tasks, err := s.tasks.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if ordinal < 1 || ordinal > len(tasks) {
		return nil, ErrOrdinalOutOfRange
	}

	task := tasks[ordinal-1]
	task.Status = status

	now := s.now()
	switch status {
	case model.TaskCompleted:
		task.CompletedAt = &now
	case model.TaskInProgress:
		task.StartedAt = &now
	}

	if err := s.tasks.UpdateStatus(ctx, &task); err != nil {
		return nil, err
	}
	log.Printf("✅ Updated task %d for user %s to status %s", ordinal, user.PlatformUserID, status)
	return &task, nil
}

// CheckAndFinalize reports whether every mandatory task is completed, and
// on the first such call flips the user's completion flag and notifies the
// manager. Repeated calls return true without touching the stored
// completion timestamp.
func (s *Service) CheckAndFinalize(ctx context.Context, user *model.User) (bool, error) {
	incomplete, err := s.tasks.CountMandatoryIncomplete(ctx, user.ID)
	if err != nil {
		return false, err
	}
	if incomplete > 0 {
		return false, nil
	}

	firstCompletion := !user.OnboardingCompleted
	now := s.now()
	if err := s.users.MarkOnboardingComplete(ctx, user.ID, now); err != nil {
		return false, err
	}
	user.OnboardingCompleted = true
	if user.OnboardingCompletedAt == nil {
		user.OnboardingCompletedAt = &now
	}

	if firstCompletion {
		s.sendCompletionSummary(ctx, user, now)
	}
	return true, nil
}

// TaskHelp returns the task addressed by ordinal together with its decoded
// resource list.
func (s *Service) TaskHelp(ctx context.Context, user *model.User, ordinal int) (*model.OnboardingTask, []string, error) {
	tasks, err := s.tasks.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}
	if ordinal < 1 || ordinal > len(tasks) {
		return nil, nil, ErrOrdinalOutOfRange
	}

	task := tasks[ordinal-1]
	var resources []string
	if len(task.Resources) > 0 {
		if err := json.Unmarshal(task.Resources, &resources); err != nil {
			log.Printf("⚠️  Malformed resources for task %s: %v", task.ID, err)
		}
	}
	return &task, resources, nil
}

func (s *Service) sendCompletionSummary(ctx context.Context, user *model.User, completedAt time.Time) {
	managerEmail := user.ManagerEmail
	if managerEmail == "" {
		managerEmail = s.fallbackManager
	}
	if managerEmail == "" {
		return
	}

	tasks, err := s.tasks.ListByUser(ctx, user.ID)
	if err != nil {
		log.Printf("⚠️  Could not load tasks for completion summary: %v", err)
		return
	}
	mandatory := 0
	for _, t := range tasks {
		if t.Mandatory {
			mandatory++
		}
	}

	sum := mailer.CompletionSummary{
		ManagerEmail:  managerEmail,
		EmployeeName:  user.FullName,
		CompletedAt:   completedAt,
		TotalTasks:    len(tasks),
		MandatoryDone: mandatory,
	}
	// Fire-and-forget: a failed summary never blocks completion itself.
	if err := s.mail.SendCompletionSummary(ctx, sum); err != nil {
		log.Printf("⚠️  Completion summary email failed for %s: %v", user.PlatformUserID, err)
	}
}

func applyProfile(user *model.User, p *profile.Profile) {
	if p == nil {
		return
	}
	if p.RealName != "" {
		user.FullName = p.RealName
	}
	if p.DisplayName != "" {
		user.DisplayName = p.DisplayName
	}
	if p.Email != "" {
		user.Email = p.Email
	}
	if p.JobTitle != "" {
		user.JobTitle = p.JobTitle
	}
	if p.Phone != "" {
		user.Phone = p.Phone
	}
	if p.Department != "" {
		user.Department = p.Department
	}
	if p.ManagerRef != "" {
		user.ManagerEmail = p.ManagerRef
	}
	if p.StartDate != nil {
		user.StartDate = p.StartDate
	}
}

func mustJSON(v interface{}) datatypes.JSON {
	b, err := json.Marshal(v)
	if err != nil || string(b) == "null" {
		return datatypes.JSON([]byte("[]"))
	}
	return datatypes.JSON(b)
}
