package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"onboardbot/internal/mailer"
	"onboardbot/internal/messenger"
	"onboardbot/internal/model"
	"onboardbot/internal/repository"
)

// Policy holds the reminder cadence knobs. Read on every tick so config
// changes apply without restarting the process.
type Policy struct {
	PushInterval    time.Duration // how far a delivered reminder pushes next_reminder_due
	FallbackManager string        // escalation recipient for users without a manager email
}

// Scheduler is the periodic reminder/escalation process. Exactly one
// instance runs per deployment; it is constructed by the server entry
// point and handed to anything that needs to trigger an ad-hoc scan.
type Scheduler struct {
	reminders repository.ReminderRepositoryInterface
	users     repository.UserRepositoryInterface
	chat      messenger.Messenger
	mail      mailer.Mailer
	policy    Policy

	scanInterval   time.Duration
	digestInterval time.Duration

	now func() time.Time

	mu      sync.Mutex
	stop    chan struct{}
	done    chan struct{}
	running bool
}

func New(
	reminders repository.ReminderRepositoryInterface,
	users repository.UserRepositoryInterface,
	chat messenger.Messenger,
	mail mailer.Mailer,
	policy Policy,
	scanInterval, digestInterval time.Duration,
) *Scheduler {
	return &Scheduler{
		reminders:      reminders,
		users:          users,
		chat:           chat,
		mail:           mail,
		policy:         policy,
		scanInterval:   scanInterval,
		digestInterval: digestInterval,
		now:            time.Now,
	}
}

// Start launches the tick loop. Calling Start on a running scheduler is a
// logged no-op.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		log.Println("⚠️  Scheduler is already running")
		return
	}
	s.running = true
	s.stop = make(chan struct{})
	s.done = make(chan struct{})

	go s.run()
	log.Printf("📅 Scheduler started (scan every %s, digest every %s)", s.scanInterval, s.digestInterval)
}

// Stop shuts the loop down and waits for the current tick to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.stop)
	done := s.done
	s.mu.Unlock()

	<-done
	log.Println("🛑 Scheduler stopped")
}

func (s *Scheduler) run() {
	defer close(s.done)

	scanTicker := time.NewTicker(s.scanInterval)
	digestTicker := time.NewTicker(s.digestInterval)
	defer scanTicker.Stop()
	defer digestTicker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-scanTicker.C:
			s.RunScan(context.Background())
		case <-digestTicker.C:
			s.RunDigest(context.Background())
		}
	}
}

// RunScan processes every due reminder once. Each row is handled
// independently: one row's failure is logged and never aborts the rest of
// the scan or the loop.
func (s *Scheduler) RunScan(ctx context.Context) {
	now := s.now()

	due, err := s.reminders.DueForScan(ctx, now)
	if err != nil {
		log.Printf("❌ Reminder scan failed: %v", err)
		return
	}
	if len(due) == 0 {
		return
	}

	log.Printf("⏰ Processing %d due reminders", len(due))
	for i := range due {
		if err := s.processReminder(ctx, &due[i], now); err != nil {
			log.Printf("⚠️  Reminder %s not advanced: %v", due[i].ID, err)
		}
	}
}

// processReminder either sends another nudge or escalates. A reminder that
// has already used all but its last allowed send is escalated instead of
// nudged again.
func (s *Scheduler) processReminder(ctx context.Context, r *model.TaskReminder, now time.Time) error {
	if r.ReminderCount+1 >= r.MaxReminders {
		return s.escalate(ctx, r, now)
	}

	text := reminderText(r)
	if err := s.chat.Send(ctx, r.User.PlatformUserID, text); err != nil {
		// Row state untouched: still pending, retried next tick.
		return fmt.Errorf("send reminder: %w", err)
	}

	r.ReminderCount++
	r.LastReminderSent = &now
	next := now.Add(s.policy.PushInterval)
	r.NextReminderDue = &next
	return s.reminders.Save(ctx, r)
}

// escalate performs the one-way transition to manager notification. The
// escalation marker is persisted before the email goes out, so a failed
// send still leaves an auditable record instead of retrying silently
// forever.
func (s *Scheduler) escalate(ctx context.Context, r *model.TaskReminder, now time.Time) error {
	daysOverdue := 0
	if r.Task.DueDate != nil {
		daysOverdue = int(now.Sub(*r.Task.DueDate).Hours() / 24)
		if daysOverdue < 0 {
			daysOverdue = 0
		}
	}

	r.Status = model.ReminderEscalated
	r.ManagerNotified = true
	r.ManagerNotifiedAt = &now
	r.EscalationReason = fmt.Sprintf("%d reminders sent, task %q %d days overdue", r.ReminderCount, r.Task.Name, daysOverdue)

	if err := s.reminders.Save(ctx, r); err != nil {
		return fmt.Errorf("record escalation: %w", err)
	}

	managerEmail := r.User.ManagerEmail
	if managerEmail == "" {
		managerEmail = s.policy.FallbackManager
	}

	esc := mailer.Escalation{
		ManagerEmail:  managerEmail,
		EmployeeName:  r.User.FullName,
		EmployeeEmail: r.User.Email,
		StartDate:     r.User.StartDate,
		Tasks: []mailer.OverdueTask{{
			Title:         r.Task.Name,
			DaysOverdue:   daysOverdue,
			ReminderCount: r.ReminderCount,
		}},
	}
	if r.Task.DueDate != nil {
		esc.Tasks[0].DueDate = *r.Task.DueDate
	}

	if err := s.mail.SendEscalation(ctx, esc); err != nil {
		log.Printf("⚠️  Escalation email for %s failed (escalation recorded): %v", r.User.PlatformUserID, err)
	} else {
		log.Printf("📧 Escalated task %q for %s to %s", r.Task.Name, r.User.PlatformUserID, managerEmail)
	}
	return nil
}

// RunDigest logs aggregate onboarding counts. Informational only.
func (s *Scheduler) RunDigest(ctx context.Context) {
	total, completed, inProgress, err := s.users.DigestCounts(ctx)
	if err != nil {
		log.Printf("❌ Digest failed: %v", err)
		return
	}
	log.Printf("📊 Onboarding digest: %d total users, %d completed, %d in progress", total, completed, inProgress)
}

func reminderText(r *model.TaskReminder) string {
	due := "soon"
	if r.Task.DueDate != nil {
		due = r.Task.DueDate.Format("Jan 2")
	}
	name := r.User.FullName
	if name == "" {
		name = "there"
	}
	return fmt.Sprintf("👋 Hi %s! Friendly reminder: your onboarding task %q is due %s. "+
		"Say \"completed task N\" when you finish, or \"help with task N\" if you're stuck.",
		name, r.Task.Name, due)
}
