package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"onboardbot/internal/auth"
	"onboardbot/internal/onboarding"
	"onboardbot/internal/repository"
	"onboardbot/internal/scheduler"
)

// AdminHandler exposes the operator surface: login, aggregate stats,
// per-user task inspection, and an ad-hoc reminder scan trigger.
type AdminHandler struct {
	service   *onboarding.Service
	users     repository.UserRepositoryInterface
	reminders repository.ReminderRepositoryInterface
	sched     *scheduler.Scheduler

	jwtSecret     string
	jwtExpiry     time.Duration
	adminEmail    string
	adminPassHash []byte
}

func NewAdminHandler(
	service *onboarding.Service,
	users repository.UserRepositoryInterface,
	reminders repository.ReminderRepositoryInterface,
	sched *scheduler.Scheduler,
	jwtSecret string,
	jwtExpiry time.Duration,
	adminEmail, adminPassword string,
) *AdminHandler {
	var hash []byte
	if adminPassword != "" {
		hash, _ = bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	}
	return &AdminHandler{
		service:       service,
		users:         users,
		reminders:     reminders,
		sched:         sched,
		jwtSecret:     jwtSecret,
		jwtExpiry:     jwtExpiry,
		adminEmail:    adminEmail,
		adminPassHash: hash,
	}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *AdminHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	if len(h.adminPassHash) == 0 || req.Email != h.adminEmail ||
		bcrypt.CompareHashAndPassword(h.adminPassHash, []byte(req.Password)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := auth.GenerateToken(h.jwtSecret, req.Email, h.jwtExpiry)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Token error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

// Stats returns the same aggregate counts the scheduler digest logs.
func (h *AdminHandler) Stats(c *gin.Context) {
	total, completed, inProgress, err := h.users.DigestCounts(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute stats"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"total_users": total,
		"completed":   completed,
		"in_progress": inProgress,
	})
}

// UserTasks lists a user's tasks and reminder rows by platform user id.
func (h *AdminHandler) UserTasks(c *gin.Context) {
	platformID := c.Param("platform_id")

	user, err := h.service.GetUser(c.Request.Context(), platformID)
	if err != nil {
		if errors.Is(err, onboarding.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load user"})
		return
	}

	tasks, err := h.service.TaskList(c.Request.Context(), user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load tasks"})
		return
	}
	rems, err := h.reminders.ListByUser(c.Request.Context(), user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load reminders"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":      user,
		"tasks":     tasks,
		"reminders": rems,
	})
}

// RunScan triggers an immediate reminder scan outside the normal cadence.
func (h *AdminHandler) RunScan(c *gin.Context) {
	h.sched.RunScan(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
