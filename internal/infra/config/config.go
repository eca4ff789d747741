// internal/infra/config/config.go
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds the environment configuration for the whole service.
type Config struct {
	FirestoreProjectID       string
	FirestoreCredentialsFile string
	FirebaseProjectID        string

	// LocalDBPath is the embedded SQLite file backing the Local Cache
	// Mirror (cart, ledger snapshot, sync queue, order fallback).
	LocalDBPath string

	// SendGridAPIKey may be left empty and resolved from Secret Manager
	// (see platform/di) instead.
	SendGridAPIKey   string
	SendGridFrom     string
	SendGridSecretID string

	ShopBaseURL string
	GCSBucket   string

	// RemoteTimeout bounds every remote store call.
	RemoteTimeout time.Duration
}

// Load reads the environment and returns the configuration.
func Load() *Config {
	defaultProject := getenvDefault("GCP_PROJECT_ID", "bloomstead-farm")

	return &Config{
		FirestoreProjectID:       getenvDefault("FIRESTORE_PROJECT_ID", defaultProject),
		FirestoreCredentialsFile: os.Getenv("FIRESTORE_CREDENTIALS_FILE"),
		FirebaseProjectID:        getenvDefault("FIREBASE_PROJECT_ID", defaultProject),

		LocalDBPath: getenvDefault("LOCAL_DB_PATH", "bloomstead.db"),

		SendGridAPIKey:   os.Getenv("SENDGRID_API_KEY"),
		SendGridFrom:     getenvDefault("SENDGRID_FROM", "orders@bloomsteadfarm.com"),
		SendGridSecretID: getenvDefault("SENDGRID_SECRET_ID", "sendgrid-api-key"),

		ShopBaseURL: getenvDefault("SHOP_BASE_URL", "https://bloomsteadfarm.com"),
		GCSBucket:   os.Getenv("GCS_BUCKET"),

		RemoteTimeout: getenvDuration("REMOTE_TIMEOUT_SECONDS", 5*time.Second),
	}
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	secs, err := strconv.Atoi(v)
	if err != nil || secs <= 0 {
		return def
	}
	return time.Duration(secs) * time.Second
}
