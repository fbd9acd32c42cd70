package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	ServerPort string

	JWTSecret      string
	JWTExpiryHours int
	AdminEmail     string
	AdminPassword  string

	// Messaging platform adapter and profile directory
	PlatformWebhookURL string
	DirectoryBaseURL   string
	DirectoryToken     string

	// Email (manager escalations and completion summaries)
	ResendAPIKey           string
	FromEmail              string
	ManagerEscalationEmail string
	HRSupportEmail         string
	CompanyName            string

	// Reminder/escalation policy
	CatalogPath       string
	ScanIntervalMin   int
	DigestIntervalHrs int
	ReminderPushDays  int
	MaxReminders      int
	ProfileThreshold  int
}

func Load() *Config {
	err := godotenv.Load()
	if err != nil {
		log.Println("⚠️  No .env file found, using system environment variables")
	}

	return &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "onboarding_user"),
		DBPassword: getEnv("DB_PASSWORD", "onboarding_pass"),
		DBName:     getEnv("DB_NAME", "onboarding_db"),
		ServerPort: getEnv("SERVER_PORT", "8080"),

		JWTSecret:      getEnv("JWT_SECRET", "supersecretkey"),
		JWTExpiryHours: getEnvInt("JWT_EXPIRY_HOURS", 24),
		AdminEmail:     getEnv("ADMIN_EMAIL", "admin@company.com"),
		AdminPassword:  getEnv("ADMIN_PASSWORD", ""),

		PlatformWebhookURL: getEnv("PLATFORM_WEBHOOK_URL", ""),
		DirectoryBaseURL:   getEnv("DIRECTORY_BASE_URL", ""),
		DirectoryToken:     getEnv("DIRECTORY_TOKEN", ""),

		ResendAPIKey:           getEnv("RESEND_API_KEY", ""),
		FromEmail:              getEnv("FROM_EMAIL", "onboarding@company.com"),
		ManagerEscalationEmail: getEnv("MANAGER_ESCALATION_EMAIL", "manager@company.com"),
		HRSupportEmail:         getEnv("HR_SUPPORT_EMAIL", "hr@company.com"),
		CompanyName:            getEnv("COMPANY_NAME", "Your Company"),

		CatalogPath:       getEnv("TASK_CATALOG_PATH", "config/task_catalog.yaml"),
		ScanIntervalMin:   getEnvInt("SCAN_INTERVAL_MINUTES", 30),
		DigestIntervalHrs: getEnvInt("DIGEST_INTERVAL_HOURS", 24),
		ReminderPushDays:  getEnvInt("REMINDER_PUSH_DAYS", 2),
		MaxReminders:      getEnvInt("MAX_REMINDERS", 2),
		ProfileThreshold:  getEnvInt("PROFILE_SCORE_THRESHOLD", 80),
	}
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if value, exists := os.LookupEnv(key); exists {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
		log.Printf("⚠️  Invalid value for %s, using default %d", key, defaultVal)
	}
	return defaultVal
}
