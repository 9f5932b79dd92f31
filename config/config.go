package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port           string
	Version        string
	DBUrl          string
	RunMigrations  bool
	AllowedOrigins []string
	// SMTP Configuration
	EmailProvider  string // "smtp" or "resend"
	SMTPHost       string
	SMTPPort       string
	SMTPUsername   string
	SMTPPassword   string
	SMTPFromEmail  string
	SMTPFromName   string
	ContactEmailTo string
	ResendAPIKey   string
	EmailTimeout   time.Duration
	// Attach the submitted file to the operator notification
	NotifyAttachUpload bool
	// Attachment storage
	StorageDriver       string // "local" or "s3"
	UploadDir           string
	UploadVerifyContent bool
	S3Provider          string
	S3AccessKeyID       string
	S3SecretAccessKey   string
	S3Region            string
	S3Bucket            string
	S3Endpoint          string
	// Admin endpoints are open when empty
	AdminJWTSecret string
}

func LoadConfig() (*Config, error) {
	// .env is only present locally; missing file is fine
	_ = godotenv.Load()

	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		Version:        getEnv("APP_VERSION", "1.0.0"),
		DBUrl:          getEnv("DATABASE_URL", ""),
		RunMigrations:  getEnvBool("RUN_MIGRATIONS", true),
		AllowedOrigins: getEnvList("ALLOWED_ORIGINS", []string{"*"}),
		// SMTP Configuration
		EmailProvider:      strings.ToLower(getEnv("EMAIL_PROVIDER", "smtp")),
		SMTPHost:           getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:           getEnv("SMTP_PORT", "587"),
		SMTPUsername:       getEnv("SMTP_USERNAME", ""),
		SMTPPassword:       getEnv("SMTP_PASSWORD", ""),
		SMTPFromEmail:      getEnv("SMTP_FROM_EMAIL", getEnv("FROM_EMAIL", "noreply@portfolio.dev")),
		SMTPFromName:       getEnv("SMTP_FROM_NAME", getEnv("FROM_NAME", "Portfolio Contact")),
		ContactEmailTo:     getEnv("CONTACT_EMAIL_TO", getEnv("TO_EMAIL", "")),
		ResendAPIKey:       getEnv("RESEND_API_KEY", ""),
		EmailTimeout:       getEnvDuration("EMAIL_TIMEOUT", 15*time.Second),
		NotifyAttachUpload: getEnvBool("NOTIFY_ATTACH_UPLOAD", false),
		// Storage
		StorageDriver:       strings.ToLower(getEnv("STORAGE_DRIVER", "local")),
		UploadDir:           getEnv("UPLOAD_DIR", "./uploads"),
		UploadVerifyContent: getEnvBool("UPLOAD_VERIFY_CONTENT", false),
		S3Provider:          getEnv("S3_PROVIDER", "aws"),
		S3AccessKeyID:       getEnv("S3_ACCESS_KEY_ID", ""),
		S3SecretAccessKey:   getEnv("S3_SECRET_ACCESS_KEY", ""),
		S3Region:            getEnv("S3_REGION", "us-east-1"),
		S3Bucket:            getEnv("S3_BUCKET", ""),
		S3Endpoint:          strings.TrimRight(getEnv("S3_ENDPOINT", ""), "/"),
		// Admin
		AdminJWTSecret: getEnv("ADMIN_JWT_SECRET", ""),
	}

	if cfg.DBUrl == "" {
		log.Println("WARNING: DATABASE_URL is missing. Application may fail to connect.")
	}
	if cfg.ContactEmailTo == "" {
		log.Println("WARNING: CONTACT_EMAIL_TO not configured. Operator notifications will fail.")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvBool returns a boolean environment variable or fallback if not set/invalid
func getEnvBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}

// getEnvDuration accepts Go duration strings ("10s") or a plain number of seconds.
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	if d, err := time.ParseDuration(value); err == nil && d > 0 {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return fallback
}

// getEnvList splits a comma separated variable, dropping empty entries.
func getEnvList(key string, fallback []string) []string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
