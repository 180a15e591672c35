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

	AWSRegion       string
	AWSEndpointURL  string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID  string
	AWSSecretKey    string
	DynamoTables    DynamoTables
	DynamoBootstrap bool
	S3BucketName    string
	SNSRegion       string
	SMSSenderID     string

	JWTPrivateKeyPath string // optional; only needed to mint tokens
	JWTPublicKeyPath  string
	JWTExpiry         time.Duration

	AllowedOrigins []string // CORS allowed origins
	CallRateLimit  float64  // call creations per second per IP
	CallRateBurst  int

	AgencyName         string
	DateOrder          string // "day-first" or "month-first"
	CallTimeZone       string
	NicknamesPath      string // optional YAML override of the embedded alias table
	PaymentLinkBaseURL string
	SessionIdleTimeout time.Duration
	SweepInterval      time.Duration

	StripeSecretKey  string // empty sends the static payment link
	StripeBaseURL    string
	StripeSuccessURL string

	OpenAIAPIKey  string // empty selects the keyword intent classifier
	OpenAIBaseURL string
	OpenAIModel   string
}

// DynamoTables holds the DynamoDB table name for each entity.
type DynamoTables struct {
	Accounts string
	Outcomes string
}

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		AppPort: getEnv("APP_PORT", "3000"),
		AppEnv:  getEnv("APP_ENV", "development"),

		AWSRegion:      getEnv("AWS_REGION", "eu-west-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),
		DynamoTables: DynamoTables{
			Accounts: getEnv("DYNAMO_TABLE_ACCOUNTS", "accounts"),
			Outcomes: getEnv("DYNAMO_TABLE_CALL_OUTCOMES", "call_outcomes"),
		},
		DynamoBootstrap: getEnvBool("DYNAMO_BOOTSTRAP", false),
		S3BucketName:    getEnv("S3_BUCKET_NAME", "call-transcripts"),
		SNSRegion:       getEnv("SNS_REGION", "eu-west-1"),
		SMSSenderID:     getEnv("SMS_SENDER_ID", ""),

		JWTPrivateKeyPath: getEnv("JWT_PRIVATE_KEY_PATH", ""),
		JWTPublicKeyPath:  getEnv("JWT_PUBLIC_KEY_PATH", "./public_key.pem"),
		JWTExpiry:         getEnvDuration("JWT_EXPIRY", 12*time.Hour),

		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
		CallRateLimit:  getEnvFloat("CALL_RATE_LIMIT", 2),
		CallRateBurst:  getEnvInt("CALL_RATE_BURST", 10),

		AgencyName:         getEnv("AGENCY_NAME", "CMOS"),
		DateOrder:          getEnv("DATE_ORDER", "day-first"),
		CallTimeZone:       getEnv("CALL_TIME_ZONE", "Europe/Dublin"),
		NicknamesPath:      getEnv("NICKNAMES_PATH", ""),
		PaymentLinkBaseURL: getEnv("PAYMENT_LINK_BASE_URL", ""),
		SessionIdleTimeout: getEnvDuration("SESSION_IDLE_TIMEOUT", 15*time.Minute),
		SweepInterval:      getEnvDuration("SESSION_SWEEP_INTERVAL", time.Minute),

		StripeSecretKey:  getEnv("STRIPE_SECRET_KEY", ""),
		StripeBaseURL:    getEnv("STRIPE_BASE_URL", ""),
		StripeSuccessURL: getEnv("STRIPE_SUCCESS_URL", ""),

		OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", ""),
		OpenAIModel:   getEnv("OPENAI_MODEL", "gpt-4o-mini"),
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

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
