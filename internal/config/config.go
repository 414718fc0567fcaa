package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort string
	AppEnv  string

	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string
	DynamoTables   DynamoTables
	S3BucketName   string

	JWTPrivateKeyPath string
	JWTPublicKeyPath  string
	JWTExpiry         time.Duration

	SMTPHost     string
	SMTPPort     string
	SMTPFrom     string
	SMTPUsername string
	SMTPPassword string
	SNSRegion    string

	AllowedOrigins []string // CORS allowed origins

	// Identity verification settings.
	EncryptionKey      string // hex-encoded 32-byte AES key
	MaxAttempts        int    // attempt budget per entry
	TokenTTL           time.Duration
	VerifyBaseURL      string // public base for verification links
	StaffAlertEmails   []string
	BrokerContactEmail string

	// External registry clients.
	CACAPIBaseURL   string
	CACAPISecretKey string
	NINAPIBaseURL   string
	NINAPIKey       string
	RegistryTimeout time.Duration
	RegistryRetries int
}

// DynamoTables holds the DynamoDB table name for each entity.
type DynamoTables struct {
	Lists      string
	Entries    string
	AuditLogs  string
	StaffUsers string
}

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		AppPort: getEnv("APP_PORT", "3000"),
		AppEnv:  getEnv("APP_ENV", "development"),

		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),
		DynamoTables: DynamoTables{
			Lists:      getEnv("DYNAMO_TABLE_LISTS", "identity_lists"),
			Entries:    getEnv("DYNAMO_TABLE_ENTRIES", "identity_entries"),
			AuditLogs:  getEnv("DYNAMO_TABLE_AUDIT_LOGS", "verification_audit_logs"),
			StaffUsers: getEnv("DYNAMO_TABLE_STAFF_USERS", "staff_users"),
		},
		S3BucketName: getEnv("S3_BUCKET_NAME", "identity-list-uploads"),

		JWTPrivateKeyPath: getEnv("JWT_PRIVATE_KEY_PATH", "./private_key.pem"),
		JWTPublicKeyPath:  getEnv("JWT_PUBLIC_KEY_PATH", "./public_key.pem"),
		JWTExpiry:         time.Duration(getEnvInt("JWT_EXPIRY_HOURS", 12)) * time.Hour,

		SMTPHost:     getEnv("SMTP_HOST", "localhost"),
		SMTPPort:     getEnv("SMTP_PORT", "1025"),
		SMTPFrom:     getEnv("SMTP_FROM", "noreply@example.com"),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		SNSRegion:    getEnv("SNS_REGION", "us-east-1"),

		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),

		EncryptionKey:      getEnv("ENCRYPTION_KEY", ""),
		MaxAttempts:        getEnvInt("MAX_VERIFICATION_ATTEMPTS", 3),
		TokenTTL:           time.Duration(getEnvInt("TOKEN_TTL_DAYS", 7)) * 24 * time.Hour,
		VerifyBaseURL:      getEnv("VERIFY_BASE_URL", "http://localhost:3000"),
		StaffAlertEmails:   splitNonEmpty(getEnv("STAFF_ALERT_EMAILS", "")),
		BrokerContactEmail: getEnv("BROKER_CONTACT_EMAIL", ""),

		CACAPIBaseURL:   getEnv("CAC_API_BASE_URL", "https://vd.villextra.com"),
		CACAPISecretKey: getEnv("CAC_API_SECRET_KEY", ""),
		NINAPIBaseURL:   getEnv("NIN_API_BASE_URL", ""),
		NINAPIKey:       getEnv("NIN_API_KEY", ""),
		RegistryTimeout: time.Duration(getEnvInt("REGISTRY_TIMEOUT_SECONDS", 30)) * time.Second,
		RegistryRetries: getEnvInt("REGISTRY_MAX_RETRIES", 3),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func splitNonEmpty(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
