package onboarding

import (
	"context"
	"testing"
	"time"

	"onboardbot/internal/catalog"
	"onboardbot/internal/mailer"
	"onboardbot/internal/model"
	"onboardbot/internal/profile"
	"onboardbot/internal/role"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/datatypes"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	if u := args.Get(0); u != nil {
		return u.(*model.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) GetByPlatformID(ctx context.Context, platformUserID string) (*model.User, error) {
	args := m.Called(ctx, platformUserID)
	if u := args.Get(0); u != nil {
		return u.(*model.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) Save(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) MarkOnboardingComplete(ctx context.Context, id uuid.UUID, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

func (m *MockUserRepository) DigestCounts(ctx context.Context) (int64, int64, int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Get(1).(int64), args.Get(2).(int64), args.Error(3)
}

type MockTaskRepository struct {
	mock.Mock
}

func (m *MockTaskRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.OnboardingTask, error) {
	args := m.Called(ctx, id)
	if t := args.Get(0); t != nil {
		return t.(*model.OnboardingTask), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockTaskRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.OnboardingTask, error) {
	args := m.Called(ctx, userID)
	if t := args.Get(0); t != nil {
		return t.([]model.OnboardingTask), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockTaskRepository) ReplaceForUser(ctx context.Context, userID uuid.UUID, tasks []model.OnboardingTask, reminders []model.TaskReminder) error {
	args := m.Called(ctx, userID, tasks, reminders)
	return args.Error(0)
}

func (m *MockTaskRepository) UpdateStatus(ctx context.Context, task *model.OnboardingTask) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *MockTaskRepository) CountMandatoryIncomplete(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

type MockReminderRepository struct {
	mock.Mock
}

func (m *MockReminderRepository) DueForScan(ctx context.Context, now time.Time) ([]model.TaskReminder, error) {
	args := m.Called(ctx, now)
	if r := args.Get(0); r != nil {
		return r.([]model.TaskReminder), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockReminderRepository) Save(ctx context.Context, reminder *model.TaskReminder) error {
	args := m.Called(ctx, reminder)
	return args.Error(0)
}

func (m *MockReminderRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.TaskReminder, error) {
	args := m.Called(ctx, userID)
	if r := args.Get(0); r != nil {
		return r.([]model.TaskReminder), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockProfileCheckRepository struct {
	mock.Mock
}

func (m *MockProfileCheckRepository) GetByUser(ctx context.Context, userID uuid.UUID) (*model.ProfileCheck, error) {
	args := m.Called(ctx, userID)
	if c := args.Get(0); c != nil {
		return c.(*model.ProfileCheck), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProfileCheckRepository) Upsert(ctx context.Context, check *model.ProfileCheck) error {
	args := m.Called(ctx, check)
	return args.Error(0)
}

type fakeSource struct {
	p   *profile.Profile
	err error
}

func (f *fakeSource) FetchProfile(ctx context.Context, platformUserID string) (*profile.Profile, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.p != nil {
		return f.p, nil
	}
	return &profile.Profile{}, nil
}

type recordingMailer struct {
	escalations []mailer.Escalation
	summaries   []mailer.CompletionSummary
	err         error
}

func (r *recordingMailer) SendEscalation(ctx context.Context, esc mailer.Escalation) error {
	r.escalations = append(r.escalations, esc)
	return r.err
}

func (r *recordingMailer) SendCompletionSummary(ctx context.Context, sum mailer.CompletionSummary) error {
	r.summaries = append(r.summaries, sum)
	return r.err
}

type fixture struct {
	users     *MockUserRepository
	tasks     *MockTaskRepository
	reminders *MockReminderRepository
	checks    *MockProfileCheckRepository
	source    *fakeSource
	mail      *recordingMailer
	now       time.Time
	svc       *Service
}

func newFixture() *fixture {
	f := &fixture{
		users:     new(MockUserRepository),
		tasks:     new(MockTaskRepository),
		reminders: new(MockReminderRepository),
		checks:    new(MockProfileCheckRepository),
		source:    &fakeSource{},
		mail:      &recordingMailer{},
		now:       time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC),
	}
	f.svc = NewService(
		f.users, f.tasks, f.reminders, f.checks,
		f.source,
		profile.NewAnalyzer(80),
		role.NewClassifier(nil),
		catalog.NewProvider(""),
		f.mail,
		2,
		"hr-fallback@example.com",
	)
	f.svc.now = func() time.Time { return f.now }
	return f
}

func completeCheck(userID uuid.UUID) *model.ProfileCheck {
	return &model.ProfileCheck{ID: uuid.New(), UserID: userID, Status: model.ProfileComplete, CompletionScore: 100}
}

func TestAssign_BlockedWithoutProfileCheck(t *testing.T) {
	f := newFixture()
	user := &model.User{ID: uuid.New(), PlatformUserID: "U1"}

	f.checks.On("GetByUser", mock.Anything, user.ID).Return(nil, nil)

	err := f.svc.Assign(context.Background(), user, "Backend Engineer")

	assert.ErrorIs(t, err, ErrProfileIncomplete)
	f.tasks.AssertNotCalled(t, "ReplaceForUser", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAssign_BlockedWhileIncomplete(t *testing.T) {
	f := newFixture()
	user := &model.User{ID: uuid.New(), PlatformUserID: "U1"}

	check := &model.ProfileCheck{UserID: user.ID, Status: model.ProfileIncomplete, CompletionScore: 40}
	f.checks.On("GetByUser", mock.Anything, user.ID).Return(check, nil)

	err := f.svc.Assign(context.Background(), user, "Backend Engineer")

	assert.ErrorIs(t, err, ErrProfileIncomplete)
	f.tasks.AssertNotCalled(t, "ReplaceForUser", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAssign_DeveloperGetsRoleTasks(t *testing.T) {
	f := newFixture()
	user := &model.User{ID: uuid.New(), PlatformUserID: "U1"}

	f.checks.On("GetByUser", mock.Anything, user.ID).Return(completeCheck(user.ID), nil)

	var gotTasks []model.OnboardingTask
	f.tasks.On("ReplaceForUser", mock.Anything, user.ID, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			gotTasks = args.Get(2).([]model.OnboardingTask)
		}).
		Return(nil)
	f.users.On("Save", mock.Anything, user).Return(nil)

	err := f.svc.Assign(context.Background(), user, "Backend Engineer")
	assert.NoError(t, err)

	// Base catalog plus the developer extension.
	assert.Len(t, gotTasks, 6)
	names := make([]string, 0, len(gotTasks))
	for _, task := range gotTasks {
		names = append(names, task.Name)
	}
	assert.Contains(t, names, "Development Environment Setup")
	assert.Contains(t, names, "Complete Profile Setup")

	assert.Equal(t, model.RoleSoftwareDeveloper, user.Role)
	assert.Equal(t, "Backend Engineer", user.JobTitle)
	f.users.AssertCalled(t, "Save", mock.Anything, user)
}

// Each task carries the ordinal it will be addressed by, and exactly one
// reminder keyed to it.
func TestAssign_PositionsAndReminders(t *testing.T) {
	f := newFixture()
	user := &model.User{ID: uuid.New(), PlatformUserID: "U1"}

	f.checks.On("GetByUser", mock.Anything, user.ID).Return(completeCheck(user.ID), nil)

	var gotTasks []model.OnboardingTask
	var gotReminders []model.TaskReminder
	f.tasks.On("ReplaceForUser", mock.Anything, user.ID, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			gotTasks = args.Get(2).([]model.OnboardingTask)
			gotReminders = args.Get(3).([]model.TaskReminder)
		}).
		Return(nil)
	f.users.On("Save", mock.Anything, user).Return(nil)

	assert.NoError(t, f.svc.Assign(context.Background(), user, "Sales Representative"))
	assert.Equal(t, len(gotTasks), len(gotReminders))

	taskIDs := make(map[uuid.UUID]bool, len(gotTasks))
	for i, task := range gotTasks {
		assert.Equal(t, i+1, task.Position)
		assert.Equal(t, model.TaskNotStarted, task.Status)
		taskIDs[task.ID] = true
	}
	for i, rem := range gotReminders {
		assert.True(t, taskIDs[rem.TaskID], "reminder %d points at an unknown task", i)
		assert.Equal(t, 2, rem.MaxReminders)
		assert.Equal(t, model.ReminderPending, rem.Status)
		// Reminders fire one day before the task is due.
		assert.Equal(t, gotTasks[i].DueDate.AddDate(0, 0, -1), *rem.NextReminderDue)
	}
}

func TestAssign_DueDatesFromSingleClockRead(t *testing.T) {
	f := newFixture()
	user := &model.User{ID: uuid.New(), PlatformUserID: "U1"}

	f.checks.On("GetByUser", mock.Anything, user.ID).Return(completeCheck(user.ID), nil)

	var gotTasks []model.OnboardingTask
	f.tasks.On("ReplaceForUser", mock.Anything, user.ID, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			gotTasks = args.Get(2).([]model.OnboardingTask)
		}).
		Return(nil)
	f.users.On("Save", mock.Anything, user).Return(nil)

	assert.NoError(t, f.svc.Assign(context.Background(), user, "Recruiter"))

	for _, task := range gotTasks {
		offset := int(task.DueDate.Sub(f.now).Hours() / 24)
		assert.GreaterOrEqual(t, offset, 1)
		assert.Equal(t, f.now.AddDate(0, 0, offset), *task.DueDate)
	}
}

func TestAssign_ReplaceFailureLeavesUserUntouched(t *testing.T) {
	f := newFixture()
	user := &model.User{ID: uuid.New(), PlatformUserID: "U1", Role: model.RoleOther}

	f.checks.On("GetByUser", mock.Anything, user.ID).Return(completeCheck(user.ID), nil)
	f.tasks.On("ReplaceForUser", mock.Anything, user.ID, mock.Anything, mock.Anything).Return(assert.AnError)

	err := f.svc.Assign(context.Background(), user, "Backend Engineer")

	assert.Error(t, err)
	f.users.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestUpdateTaskStatus_Completed(t *testing.T) {
	f := newFixture()
	user := &model.User{ID: uuid.New(), PlatformUserID: "U1"}

	tasks := []model.OnboardingTask{
		{ID: uuid.New(), Name: "Complete Profile Setup", Position: 1},
		{ID: uuid.New(), Name: "Read Employee Handbook", Position: 2},
		{ID: uuid.New(), Name: "Complete Security Training", Position: 3},
	}
	f.tasks.On("ListByUser", mock.Anything, user.ID).Return(tasks, nil)

	var updated *model.OnboardingTask
	f.tasks.On("UpdateStatus", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { updated = args.Get(1).(*model.OnboardingTask) }).
		Return(nil)

	task, err := f.svc.UpdateTaskStatus(context.Background(), user, 2, model.TaskCompleted)

	assert.NoError(t, err)
	assert.Equal(t, tasks[1].ID, task.ID)
	assert.Equal(t, model.TaskCompleted, updated.Status)
	assert.Equal(t, f.now, *updated.CompletedAt)
	assert.Nil(t, updated.StartedAt)
}

func TestUpdateTaskStatus_InProgressStampsStart(t *testing.T) {
	f := newFixture()
	user := &model.User{ID: uuid.New(), PlatformUserID: "U1"}

	tasks := []model.OnboardingTask{{ID: uuid.New(), Position: 1}}
	f.tasks.On("ListByUser", mock.Anything, user.ID).Return(tasks, nil)
	f.tasks.On("UpdateStatus", mock.Anything, mock.Anything).Return(nil)

	task, err := f.svc.UpdateTaskStatus(context.Background(), user, 1, model.TaskInProgress)

	assert.NoError(t, err)
	assert.Equal(t, f.now, *task.StartedAt)
	assert.Nil(t, task.CompletedAt)
}

func TestUpdateTaskStatus_OrdinalOutOfRange(t *testing.T) {
	f := newFixture()
	user := &model.User{ID: uuid.New(), PlatformUserID: "U1"}

	tasks := []model.OnboardingTask{{ID: uuid.New(), Position: 1}}
	f.tasks.On("ListByUser", mock.Anything, user.ID).Return(tasks, nil)

	for _, ordinal := range []int{0, -1, 2, 99} {
		_, err := f.svc.UpdateTaskStatus(context.Background(), user, ordinal, model.TaskCompleted)
		assert.ErrorIs(t, err, ErrOrdinalOutOfRange)
	}
	f.tasks.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything)
}

func TestCheckAndFinalize_NotDoneYet(t *testing.T) {
	f := newFixture()
	user := &model.User{ID: uuid.New(), PlatformUserID: "U1"}

	f.tasks.On("CountMandatoryIncomplete", mock.Anything, user.ID).Return(int64(2), nil)

	done, err := f.svc.CheckAndFinalize(context.Background(), user)

	assert.NoError(t, err)
	assert.False(t, done)
	f.users.AssertNotCalled(t, "MarkOnboardingComplete", mock.Anything, mock.Anything, mock.Anything)
	assert.Empty(t, f.mail.summaries)
}

func TestCheckAndFinalize_FirstCompletion(t *testing.T) {
	f := newFixture()
	user := &model.User{
		ID:             uuid.New(),
		PlatformUserID: "U1",
		FullName:       "Dana Smith",
		ManagerEmail:   "lee@example.com",
	}

	f.tasks.On("CountMandatoryIncomplete", mock.Anything, user.ID).Return(int64(0), nil)
	f.users.On("MarkOnboardingComplete", mock.Anything, user.ID, f.now).Return(nil)
	f.tasks.On("ListByUser", mock.Anything, user.ID).Return([]model.OnboardingTask{
		{Name: "Complete Profile Setup", Mandatory: true, Status: model.TaskCompleted},
		{Name: "Read Employee Handbook", Mandatory: true, Status: model.TaskCompleted},
	}, nil)

	done, err := f.svc.CheckAndFinalize(context.Background(), user)

	assert.NoError(t, err)
	assert.True(t, done)
	assert.True(t, user.OnboardingCompleted)
	assert.Equal(t, f.now, *user.OnboardingCompletedAt)

	if assert.Len(t, f.mail.summaries, 1) {
		sum := f.mail.summaries[0]
		assert.Equal(t, "lee@example.com", sum.ManagerEmail)
		assert.Equal(t, "Dana Smith", sum.EmployeeName)
		assert.Equal(t, 2, sum.TotalTasks)
		assert.Equal(t, 2, sum.MandatoryDone)
	}
}

// A completion evaluation after the flag is already set still reports done
// but never re-sends the manager summary.
func TestCheckAndFinalize_Idempotent(t *testing.T) {
	f := newFixture()
	completedAt := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	user := &model.User{
		ID:                    uuid.New(),
		PlatformUserID:        "U1",
		ManagerEmail:          "lee@example.com",
		OnboardingCompleted:   true,
		OnboardingCompletedAt: &completedAt,
	}

	f.tasks.On("CountMandatoryIncomplete", mock.Anything, user.ID).Return(int64(0), nil)
	f.users.On("MarkOnboardingComplete", mock.Anything, user.ID, f.now).Return(nil)

	done, err := f.svc.CheckAndFinalize(context.Background(), user)

	assert.NoError(t, err)
	assert.True(t, done)
	assert.Equal(t, completedAt, *user.OnboardingCompletedAt)
	assert.Empty(t, f.mail.summaries)
}

func TestCheckAndFinalize_FallbackManager(t *testing.T) {
	f := newFixture()
	user := &model.User{ID: uuid.New(), PlatformUserID: "U1", FullName: "Dana Smith"}

	f.tasks.On("CountMandatoryIncomplete", mock.Anything, user.ID).Return(int64(0), nil)
	f.users.On("MarkOnboardingComplete", mock.Anything, user.ID, f.now).Return(nil)
	f.tasks.On("ListByUser", mock.Anything, user.ID).Return([]model.OnboardingTask{}, nil)

	done, err := f.svc.CheckAndFinalize(context.Background(), user)

	assert.NoError(t, err)
	assert.True(t, done)
	if assert.Len(t, f.mail.summaries, 1) {
		assert.Equal(t, "hr-fallback@example.com", f.mail.summaries[0].ManagerEmail)
	}
}

func TestEnsureUser_ExistingUser(t *testing.T) {
	f := newFixture()
	existing := &model.User{ID: uuid.New(), PlatformUserID: "U1"}

	f.users.On("GetByPlatformID", mock.Anything, "U1").Return(existing, nil)

	user, err := f.svc.EnsureUser(context.Background(), "U1")

	assert.NoError(t, err)
	assert.Equal(t, existing, user)
	f.users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestEnsureUser_CreatesFromDirectory(t *testing.T) {
	f := newFixture()
	f.source.p = &profile.Profile{
		RealName: "Dana Smith",
		Email:    "dana@example.com",
		JobTitle: "Backend Engineer",
	}

	f.users.On("GetByPlatformID", mock.Anything, "U1").Return(nil, nil)
	f.users.On("Create", mock.Anything, mock.Anything).Return(nil)

	user, err := f.svc.EnsureUser(context.Background(), "U1")

	assert.NoError(t, err)
	assert.Equal(t, "U1", user.PlatformUserID)
	assert.Equal(t, "Dana Smith", user.FullName)
	assert.Equal(t, model.RoleOther, user.Role)
}

// A directory outage must not block first contact: a minimal record is
// created and the profile filled in later.
func TestEnsureUser_DirectoryFailure(t *testing.T) {
	f := newFixture()
	f.source.err = assert.AnError

	f.users.On("GetByPlatformID", mock.Anything, "U1").Return(nil, nil)
	f.users.On("Create", mock.Anything, mock.Anything).Return(nil)

	user, err := f.svc.EnsureUser(context.Background(), "U1")

	assert.NoError(t, err)
	assert.Equal(t, "U1", user.PlatformUserID)
	assert.Empty(t, user.FullName)
}

func TestRefreshProfile_CompleteProfile(t *testing.T) {
	f := newFixture()
	start := time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC)
	f.source.p = &profile.Profile{
		RealName:    "Dana Smith",
		DisplayName: "dana",
		Email:       "dana@example.com",
		JobTitle:    "Backend Engineer",
		Phone:       "+1 555 0100",
		Department:  "Engineering",
		ManagerRef:  "lee@example.com",
		ImageURL:    "https://cdn.example.com/dana.png",
		StartDate:   &start,
	}
	user := &model.User{ID: uuid.New(), PlatformUserID: "U1"}

	f.users.On("Save", mock.Anything, user).Return(nil)

	var check *model.ProfileCheck
	f.checks.On("Upsert", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { check = args.Get(1).(*model.ProfileCheck) }).
		Return(nil)

	analysis, err := f.svc.RefreshProfile(context.Background(), user)

	assert.NoError(t, err)
	assert.True(t, analysis.IsComplete)
	assert.Equal(t, "Dana Smith", user.FullName)
	assert.Equal(t, "lee@example.com", user.ManagerEmail)

	assert.Equal(t, model.ProfileComplete, check.Status)
	assert.Equal(t, 100, check.CompletionScore)
	assert.Equal(t, f.now, *check.CompletedAt)
}

func TestRefreshProfile_IncompleteProfile(t *testing.T) {
	f := newFixture()
	f.source.p = &profile.Profile{RealName: "Dana Smith"}
	user := &model.User{ID: uuid.New(), PlatformUserID: "U1"}

	f.users.On("Save", mock.Anything, user).Return(nil)

	var check *model.ProfileCheck
	f.checks.On("Upsert", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { check = args.Get(1).(*model.ProfileCheck) }).
		Return(nil)

	analysis, err := f.svc.RefreshProfile(context.Background(), user)

	assert.NoError(t, err)
	assert.False(t, analysis.IsComplete)
	assert.Equal(t, model.ProfileIncomplete, check.Status)
	assert.Nil(t, check.CompletedAt)
}

func TestTaskHelp_DecodesResources(t *testing.T) {
	f := newFixture()
	user := &model.User{ID: uuid.New(), PlatformUserID: "U1"}

	tasks := []model.OnboardingTask{{
		ID:        uuid.New(),
		Name:      "Development Environment Setup",
		Resources: datatypes.JSON([]byte(`["Dev Setup Guide","VPN Instructions"]`)),
		Position:  1,
	}}
	f.tasks.On("ListByUser", mock.Anything, user.ID).Return(tasks, nil)

	task, resources, err := f.svc.TaskHelp(context.Background(), user, 1)

	assert.NoError(t, err)
	assert.Equal(t, "Development Environment Setup", task.Name)
	assert.Equal(t, []string{"Dev Setup Guide", "VPN Instructions"}, resources)
}

func TestTaskHelp_OrdinalOutOfRange(t *testing.T) {
	f := newFixture()
	user := &model.User{ID: uuid.New(), PlatformUserID: "U1"}

	f.tasks.On("ListByUser", mock.Anything, user.ID).Return([]model.OnboardingTask{}, nil)

	_, _, err := f.svc.TaskHelp(context.Background(), user, 1)
	assert.ErrorIs(t, err, ErrOrdinalOutOfRange)
}

func TestGetUser_NotFound(t *testing.T) {
	f := newFixture()
	f.users.On("GetByPlatformID", mock.Anything, "U404").Return(nil, nil)

	_, err := f.svc.GetUser(context.Background(), "U404")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestMustJSON_NilSlice(t *testing.T) {
	assert.Equal(t, datatypes.JSON([]byte("[]")), mustJSON([]string(nil)))
	assert.Equal(t, datatypes.JSON([]byte(`["a"]`)), mustJSON([]string{"a"}))
}
