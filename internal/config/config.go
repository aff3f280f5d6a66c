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
	Port            string
	Environment     string
	DatabaseURL     string
	RunMigrations   bool
	MigrationsPath  string
	JWTSecret       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	GoogleClientID  string
	AllowOrigins    []string
	LogstashTCPAddr string
	LogLevel        string

	PublicBaseURL          string
	ApprovalSigningSecret  string
	ApprovalLinkTTL        time.Duration
	ApprovalOwnerEmail     string
	PartnerPortalRedirect  string
	OTPTTL                 time.Duration
	OTPMaxAttempts         int
	OTPRequestsPerWindow   int
	OTPRequestWindow       time.Duration
	RedisAddr              string
	RedisPassword          string
	RedisDB                int
	NATSURL                string
	NATSSubjectPrefix      string

	MinIOEndpoint     string
	MinIOAccessKey    string
	MinIOSecretKey    string
	MinIOUseSSL       bool
	MinIOBucketMedia  string
	MinIOPublicURL    string
	ImageMaxBytes     int64
	ImageMaxDimension int

	SMTPHost            string
	SMTPPort            string
	SMTPUsername        string
	SMTPPassword        string
	SMTPFrom            string
	MailerSendAPIKey    string
	MailerSendFromName  string
}

func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	return Config{
		Port:            getenv("PORT", "8080"),
		Environment:     getenv("APP_ENV", "development"),
		DatabaseURL:     must("DATABASE_URL"),
		RunMigrations:   getenv("RUN_MIGRATIONS", "true") == "true",
		MigrationsPath:  getenv("MIGRATIONS_PATH", "migrations"),
		JWTSecret:       must("JWT_SECRET"),
		AccessTokenTTL:  getduration("ACCESS_TOKEN_TTL", 30*time.Minute),
		RefreshTokenTTL: getduration("REFRESH_TOKEN_TTL", 7*24*time.Hour),
		GoogleClientID:  getenv("GOOGLE_CLIENT_ID", ""),
		AllowOrigins:    splitAndTrim(getenv("ALLOW_ORIGINS", "*")),
		LogstashTCPAddr: getenv("LOGSTASH_TCP_ADDR", ""),
		LogLevel:        getenv("LOG_LEVEL", "info"),

		PublicBaseURL:         strings.TrimRight(getenv("PUBLIC_BASE_URL", "http://localhost:8080"), "/"),
		ApprovalSigningSecret: getenv("APPROVAL_SIGNING_SECRET", os.Getenv("JWT_SECRET")),
		ApprovalLinkTTL:       getduration("APPROVAL_LINK_TTL", 7*24*time.Hour),
		ApprovalOwnerEmail:    getenv("APPROVAL_OWNER_EMAIL", ""),
		PartnerPortalRedirect: getenv("PARTNER_PORTAL_REDIRECT", "/hotel-admin/"),
		OTPTTL:                getduration("OTP_TTL", 2*time.Minute),
		OTPMaxAttempts:        getint("OTP_MAX_ATTEMPTS", 5),
		OTPRequestsPerWindow:  getint("OTP_REQUESTS_PER_WINDOW", 5),
		OTPRequestWindow:      getduration("OTP_REQUEST_WINDOW", 10*time.Minute),
		RedisAddr:             getenv("REDIS_ADDR", ""),
		RedisPassword:         getenv("REDIS_PASSWORD", ""),
		RedisDB:               getint("REDIS_DB", 0),
		NATSURL:               getenv("NATS_URL", ""),
		NATSSubjectPrefix:     getenv("NATS_SUBJECT_PREFIX", "rs1500"),

		MinIOEndpoint:     must("MINIO_ENDPOINT"),
		MinIOAccessKey:    must("MINIO_ACCESS_KEY"),
		MinIOSecretKey:    must("MINIO_SECRET_KEY"),
		MinIOUseSSL:       getenv("MINIO_USE_SSL", "false") == "true",
		MinIOBucketMedia:  getenv("MINIO_BUCKET_MEDIA", "rs1500-hotel-media"),
		MinIOPublicURL:    getenv("MINIO_PUBLIC_URL", ""),
		ImageMaxBytes:     int64(getint("IMAGE_MAX_BYTES", 5*1024*1024)),
		ImageMaxDimension: getint("IMAGE_MAX_DIMENSION", 1920),

		SMTPHost:           getenv("SMTP_HOST", ""),
		SMTPPort:           getenv("SMTP_PORT", "587"),
		SMTPUsername:       getenv("SMTP_USERNAME", ""),
		SMTPPassword:       getenv("SMTP_PASSWORD", ""),
		SMTPFrom:           getenv("SMTP_FROM", ""),
		MailerSendAPIKey:   getenv("MAILERSEND_API_KEY", ""),
		MailerSendFromName: getenv("MAILERSEND_FROM_NAME", "1500rs"),
	}
}

func splitAndTrim(input string) []string {
	parts := strings.Split(input, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getint(k string, d int) int {
	if v, err := strconv.Atoi(getenv(k, "")); err == nil && v > 0 {
		return v
	}
	return d
}

func getduration(k string, d time.Duration) time.Duration {
	if v, err := time.ParseDuration(getenv(k, "")); err == nil && v > 0 {
		return v
	}
	return d
}

func must(k string) string {
	v := os.Getenv(k)
	if v == "" {
		panic("missing env: " + k)
	}
	return v
}
