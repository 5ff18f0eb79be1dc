package config

import (
	"log/slog"
	"os"
	"time"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	RegistryURL            string
	InvestmentsURL         string
	ReturnsURL             string
	KYCURL                 string
	WalletProviderURL      string
	DatabaseURL            string
	HTTPPort               string
	AdminAPIKey            string
	GatewayPrincipal       string
	GatewaySeed            string
	SnapshotSlug           string
	SnapshotWorkerInterval time.Duration
	KYCWorkerInterval      time.Duration
	SpreadsheetID          string
	GoogleCredentialsJSON  string
	ReportPath             string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	return Config{
		RegistryURL:            envOrDefault("REGISTRY_URL", "http://localhost:7001"),
		InvestmentsURL:         envOrDefault("INVESTMENTS_URL", "http://localhost:7002"),
		ReturnsURL:             envOrDefault("RETURNS_URL", "http://localhost:7003"),
		KYCURL:                 envOrDefault("KYC_URL", "http://localhost:7004"),
		WalletProviderURL:      envOrDefault("WALLET_PROVIDER_URL", ""),
		DatabaseURL:            envOrDefaultWarn("DATABASE_URL", ""),
		HTTPPort:               envOrDefault("HTTP_PORT", "8080"),
		AdminAPIKey:            envOrDefaultWarn("ADMIN_API_KEY", ""),
		GatewayPrincipal:       envOrDefaultWarn("GATEWAY_PRINCIPAL", ""),
		GatewaySeed:            envOrDefaultWarn("GATEWAY_SEED", ""),
		SnapshotSlug:           envOrDefault("SNAPSHOT_SLUG", "platform"),
		SnapshotWorkerInterval: envOrDefaultDuration("SNAPSHOT_WORKER_INTERVAL", 24*time.Hour),
		KYCWorkerInterval:      envOrDefaultDuration("KYC_WORKER_INTERVAL", 1*time.Hour),
		SpreadsheetID:          envOrDefault("SPREADSHEET_ID", ""),
		GoogleCredentialsJSON:  envOrDefault("GOOGLE_CREDENTIALS_JSON", ""),
		ReportPath:             envOrDefault("REPORT_PATH", "platform_report.xlsx"),
	}
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envOrDefaultWarn(key, defaultVal string) string {
	v := envOrDefault(key, defaultVal)
	if v == "" {
		slog.Warn("required env var not set", "key", key)
	}
	return v
}

func envOrDefaultDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			slog.Warn("invalid duration env var, using default", "key", key, "value", v, "default", defaultVal)
			return defaultVal
		}
		return d
	}
	return defaultVal
}
