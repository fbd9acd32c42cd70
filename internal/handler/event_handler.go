package handler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"onboardbot/internal/messenger"
	"onboardbot/internal/model"
	"onboardbot/internal/onboarding"
	"onboardbot/internal/profile"
)

// EventHandler receives inbound chat-platform events and dispatches them by
// text pattern to the onboarding service. Replies go back through the
// Messenger; the handler itself never exposes raw errors to the user.
type EventHandler struct {
	service *onboarding.Service
	chat    messenger.Messenger
	routes  []route
}

type route struct {
	pattern *regexp.Regexp
	handle  func(ctx context.Context, ev *InboundEvent, match []string) string
}

// InboundEvent is the messaging-platform adapter's delivery shape.
type InboundEvent struct {
	UserID  string `json:"user_id" binding:"required"`
	Text    string `json:"text" binding:"required"`
	Channel string `json:"channel"`
}

func NewEventHandler(service *onboarding.Service, chat messenger.Messenger) *EventHandler {
	h := &EventHandler{service: service, chat: chat}
	h.routes = []route{
		{regexp.MustCompile(`(?i)^\s*(hi|hello|hey)\b`), h.handleGreeting},
		{regexp.MustCompile(`(?i)profile\s+updated`), h.handleProfileUpdated},
		{regexp.MustCompile(`(?i)completed\s+task\s+(\d+)`), h.handleCompletedTask},
		{regexp.MustCompile(`(?i)started\s+task\s+(\d+)`), h.handleStartedTask},
		{regexp.MustCompile(`(?i)help\s+with\s+task\s+(\d+)`), h.handleTaskHelp},
		{regexp.MustCompile(`(?i)(show|my)\s+tasks`), h.handleShowTasks},
		{regexp.MustCompile(`(?i)^\s*help\s*$`), h.handleHelp},
	}
	return h
}

// HandleEvent is the webhook entry point for inbound user signals.
func (h *EventHandler) HandleEvent(c *gin.Context) {
	var ev InboundEvent
	if err := c.ShouldBindJSON(&ev); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event payload"})
		return
	}

	reply := h.dispatch(c.Request.Context(), &ev)
	if reply != "" {
		recipient := ev.Channel
		if recipient == "" {
			recipient = ev.UserID
		}
		if err := h.chat.Send(c.Request.Context(), recipient, reply); err != nil {
			log.Printf("⚠️  Could not deliver reply to %s: %v", recipient, err)
		}
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *EventHandler) dispatch(ctx context.Context, ev *InboundEvent) string {
	for _, r := range h.routes {
		if match := r.pattern.FindStringSubmatch(ev.Text); match != nil {
			return r.handle(ctx, ev, match)
		}
	}
	return ""
}

// handleGreeting runs the first-contact flow: ensure the user exists,
// analyze their profile, and either assign role tasks or ask for the
// missing profile fields.
func (h *EventHandler) handleGreeting(ctx context.Context, ev *InboundEvent, _ []string) string {
	user, err := h.service.EnsureUser(ctx, ev.UserID)
	if err != nil {
		log.Printf("❌ Greeting flow failed for %s: %v", ev.UserID, err)
		return failureReply
	}
	return h.profileGateFlow(ctx, user)
}

// handleProfileUpdated re-checks the profile and, once the gate passes,
// assigns the role task set.
func (h *EventHandler) handleProfileUpdated(ctx context.Context, ev *InboundEvent, _ []string) string {
	user, err := h.service.GetUser(ctx, ev.UserID)
	if err != nil {
		if errors.Is(err, onboarding.ErrUserNotFound) {
			return "👋 Let's start from the beginning — just say \"hello\" and I'll set you up!"
		}
		log.Printf("❌ Profile re-check failed for %s: %v", ev.UserID, err)
		return failureReply
	}
	return h.profileGateFlow(ctx, user)
}

func (h *EventHandler) profileGateFlow(ctx context.Context, user *model.User) string {
	// A finished user greeting again must not get their completed task set
	// wiped and reassigned.
	if user.OnboardingCompleted {
		return welcomeBackMessage(user)
	}

	analysis, err := h.service.RefreshProfile(ctx, user)
	if err != nil {
		log.Printf("❌ Profile analysis failed for %s: %v", user.PlatformUserID, err)
		return failureReply
	}

	if !analysis.IsComplete {
		return profileCompletionMessage(analysis)
	}

	if err := h.service.Assign(ctx, user, user.JobTitle); err != nil {
		log.Printf("❌ Task assignment failed for %s: %v", user.PlatformUserID, err)
		return failureReply
	}

	tasks, err := h.service.TaskList(ctx, user)
	if err != nil {
		log.Printf("❌ Could not load task list for %s: %v", user.PlatformUserID, err)
		return failureReply
	}
	return taskListMessage(user, tasks)
}

func (h *EventHandler) handleCompletedTask(ctx context.Context, ev *InboundEvent, match []string) string {
	return h.statusChange(ctx, ev, match[1], model.TaskCompleted)
}

func (h *EventHandler) handleStartedTask(ctx context.Context, ev *InboundEvent, match []string) string {
	return h.statusChange(ctx, ev, match[1], model.TaskInProgress)
}

func (h *EventHandler) statusChange(ctx context.Context, ev *InboundEvent, ordinalText string, status model.TaskStatus) string {
	ordinal, err := strconv.Atoi(ordinalText)
	if err != nil {
		return "🤔 I couldn't read that task number. Try \"completed task 1\"."
	}

	user, err := h.service.GetUser(ctx, ev.UserID)
	if err != nil {
		if errors.Is(err, onboarding.ErrUserNotFound) {
			return "👋 I don't have you set up yet — say \"hello\" to get started!"
		}
		log.Printf("❌ Status change failed for %s: %v", ev.UserID, err)
		return failureReply
	}

	task, err := h.service.UpdateTaskStatus(ctx, user, ordinal, status)
	if err != nil {
		if errors.Is(err, onboarding.ErrOrdinalOutOfRange) {
			return fmt.Sprintf("❌ Task %d not found. Say \"show tasks\" to see your list.", ordinal)
		}
		log.Printf("❌ Status change failed for %s: %v", ev.UserID, err)
		return failureReply
	}

	if status == model.TaskInProgress {
		return fmt.Sprintf("🔄 Got it — you've started **%s**. Good luck!", task.Name)
	}

	reply := fmt.Sprintf("✅ Nice work! **%s** is done.", task.Name)
	complete, err := h.service.CheckAndFinalize(ctx, user)
	if err != nil {
		log.Printf("⚠️  Completion check failed for %s: %v", ev.UserID, err)
		return reply
	}
	if complete {
		reply += "\n\n" + completionMessage(user)
	}
	return reply
}

func (h *EventHandler) handleTaskHelp(ctx context.Context, ev *InboundEvent, match []string) string {
	ordinal, _ := strconv.Atoi(match[1])

	user, err := h.service.GetUser(ctx, ev.UserID)
	if err != nil {
		if errors.Is(err, onboarding.ErrUserNotFound) {
			return "👋 I don't have you set up yet — say \"hello\" to get started!"
		}
		log.Printf("❌ Task help failed for %s: %v", ev.UserID, err)
		return failureReply
	}

	task, resources, err := h.service.TaskHelp(ctx, user, ordinal)
	if err != nil {
		if errors.Is(err, onboarding.ErrOrdinalOutOfRange) {
			return fmt.Sprintf("❌ Task %d not found. Say \"show tasks\" to see your list.", ordinal)
		}
		log.Printf("❌ Task help failed for %s: %v", ev.UserID, err)
		return failureReply
	}
	return taskHelpMessage(ordinal, task, resources)
}

func (h *EventHandler) handleShowTasks(ctx context.Context, ev *InboundEvent, _ []string) string {
	user, err := h.service.GetUser(ctx, ev.UserID)
	if err != nil {
		if errors.Is(err, onboarding.ErrUserNotFound) {
			return "👋 I don't have you set up yet — say \"hello\" to get started!"
		}
		log.Printf("❌ Show tasks failed for %s: %v", ev.UserID, err)
		return failureReply
	}

	tasks, err := h.service.TaskList(ctx, user)
	if err != nil {
		log.Printf("❌ Show tasks failed for %s: %v", ev.UserID, err)
		return failureReply
	}
	if len(tasks) == 0 {
		return "✅ No tasks assigned yet. Say \"hello\" and I'll set up your onboarding checklist!"
	}
	return taskListMessage(user, tasks)
}

func (h *EventHandler) handleHelp(ctx context.Context, ev *InboundEvent, _ []string) string {
	return helpMessage
}

const failureReply = "😓 Sorry, something went wrong on my side. Please try again in a moment!"

const helpMessage = `🤖 **Here's what I can do:**
• Say "hello" to start (or restart) your onboarding
• Say "profile updated" after editing your profile
• Say "show tasks" to see your checklist
• Say "started task N" / "completed task N" to update a task
• Say "help with task N" for instructions and resources`

func profileCompletionMessage(a profile.Analysis) string {
	var missing strings.Builder
	for _, f := range a.MissingFields {
		fmt.Fprintf(&missing, "   • %s\n", f)
	}
	return fmt.Sprintf(`📋 **Let's complete your profile first!**

🎯 Profile completion: %d%%

**Missing information:**
%s
📱 Update your profile in the app, then say "profile updated" and I'll check again!`,
		a.CompletionScore, missing.String())
}

func taskListMessage(user *model.User, tasks []model.OnboardingTask) string {
	roleName := titleCase(strings.ReplaceAll(string(user.Role), "_", " "))

	var b strings.Builder
	fmt.Fprintf(&b, "🎯 **Your Onboarding Tasks (%s)**\n\n", roleName)
	for i, task := range tasks {
		priority := "🟢"
		switch task.Priority {
		case 1:
			priority = "🔴"
		case 2:
			priority = "🟡"
		}
		status := "📝"
		switch task.Status {
		case model.TaskCompleted:
			status = "✅"
		case model.TaskInProgress:
			status = "⏳"
		}
		due := "TBD"
		if task.DueDate != nil {
			due = task.DueDate.Format("Jan 2")
		}
		fmt.Fprintf(&b, "**%d. %s** %s %s\n   📝 %s\n   ⏰ Due: %s | 🕐 Est: %d min\n\n",
			i+1, task.Name, priority, status, task.Description, due, task.EstimatedMin)
	}
	b.WriteString(`💡 Say "completed task 1" when you finish, "started task 2" when you begin, or "help with task 3" for details.`)
	return b.String()
}

func taskHelpMessage(ordinal int, task *model.OnboardingTask, resources []string) string {
	due := "No due date"
	if task.DueDate != nil {
		due = task.DueDate.Format("January 2, 2006")
	}
	priority := "Low"
	switch task.Priority {
	case 1:
		priority = "High"
	case 2:
		priority = "Medium"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "❓ **Help for Task %d: %s**\n\n", ordinal, task.Name)
	fmt.Fprintf(&b, "📝 %s\n\n📋 **Instructions:**\n%s\n\n", task.Description, task.Instructions)
	fmt.Fprintf(&b, "⏰ **Due:** %s | 🕐 **Est:** %d min | 🔥 **Priority:** %s\n\n📚 **Resources:**\n", due, task.EstimatedMin, priority)
	if len(resources) == 0 {
		b.WriteString("• Contact your manager or HR for specific resources\n")
	}
	for _, r := range resources {
		fmt.Fprintf(&b, "• %s\n", r)
	}
	fmt.Fprintf(&b, "\n🚀 When ready, say \"started task %d\" or \"completed task %d\"", ordinal, ordinal)
	return b.String()
}

// titleCase capitalizes each word of a role tag for display. Role tags are
// plain ASCII, so no locale handling is needed.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func welcomeBackMessage(user *model.User) string {
	name := user.FullName
	if name == "" {
		name = "there"
	}
	return fmt.Sprintf(`👋 Welcome back, %s! You've already completed your onboarding — nothing left to do.
Say "show tasks" if you'd like to review your checklist.`, name)
}

func completionMessage(user *model.User) string {
	name := user.FullName
	if name == "" {
		name = "there"
	}
	return fmt.Sprintf(`🎉🎊 **CONGRATULATIONS %s!** 🎊🎉

✅ You've completed all your mandatory onboarding tasks.
🚀 You're fully onboarded and ready to make an impact — welcome to the team!`, name)
}
