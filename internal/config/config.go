// Package config loads the service configuration from environment variables.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	BackendREST     = "rest"
	BackendDynamoDB = "dynamodb"
)

type Config struct {
	Server   ServerConfig
	Remote   RemoteConfig
	Dynamo   DynamoConfig
	Business BusinessConfig
	Payments PaymentsConfig
	Cache    CacheConfig
}

type ServerConfig struct {
	Port string
}

// RemoteConfig selects the store backend. Backend is "rest" or "dynamodb".
type RemoteConfig struct {
	Backend string
	BaseURL string
	Token   string
	Timeout time.Duration
}

type DynamoConfig struct {
	Region      string
	Endpoint    string
	AccessKey   string
	SecretKey   string
	TablePrefix string
}

// BusinessConfig lists the businesses service items can be invoiced to.
type BusinessConfig struct {
	Primary string
	Names   []string
}

type PaymentsConfig struct {
	AccessToken       string
	MockMode          bool
	SandboxPayerEmail string
}

type CacheConfig struct {
	RefreshSchedule string
}

func Load() *Config {
	primary := getEnv("PRIMARY_BUSINESS", "Auto Gamma")
	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
		},
		Remote: RemoteConfig{
			Backend: strings.ToLower(getEnv("REMOTE_BACKEND", BackendREST)),
			BaseURL: getEnv("API_BASE_URL", "http://localhost:5000/api"),
			Token:   os.Getenv("API_TOKEN"),
			Timeout: getEnvDuration("API_TIMEOUT", 10*time.Second),
		},
		Dynamo: DynamoConfig{
			Region:      getEnv("AWS_REGION", "us-east-1"),
			Endpoint:    os.Getenv("DYNAMODB_ENDPOINT"),
			AccessKey:   getEnv("AWS_ACCESS_KEY_ID", "local"),
			SecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", "local"),
			TablePrefix: getEnv("DYNAMODB_TABLE_PREFIX", "crm_"),
		},
		Business: BusinessConfig{
			Primary: primary,
			Names:   splitList(getEnv("BUSINESSES", primary+",Business 2")),
		},
		Payments: PaymentsConfig{
			AccessToken:       os.Getenv("MERCADOPAGO_ACCESS_TOKEN"),
			MockMode:          ParseBool(os.Getenv("PAYMENT_GATEWAY_MOCK")) || ParseBool(os.Getenv("MERCADOPAGO_MOCK")),
			SandboxPayerEmail: os.Getenv("MERCADOPAGO_TEST_PAYER_EMAIL"),
		},
		Cache: CacheConfig{
			RefreshSchedule: getEnv("CACHE_REFRESH_SCHEDULE", "@every 1m"),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

// getEnvDuration accepts Go durations ("15s") or a plain number of seconds.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if n, err := strconv.Atoi(value); err == nil && n > 0 {
		return time.Duration(n) * time.Second
	}
	return defaultValue
}

// ParseBool accepts 1/true/yes/on/mock as true.
func ParseBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on", "mock":
		return true
	}
	return false
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
