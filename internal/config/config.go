package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/priya-kumar159/CodeQuest-Project/internal/progress"
	sharedauth "github.com/priya-kumar159/CodeQuest-Project/internal/shared/auth"
	"github.com/priya-kumar159/CodeQuest-Project/internal/shared/envconfig"
)

// Config encapsulates the runtime configuration shared by the server and the terminal client.
type Config struct {
	Port         string `validate:"required"`
	GCPProjectID string
	DataStore    DataStore
	Sheet        string `validate:"required"`
	CatalogPath  string `validate:"required"`
	LogFile      string
	Session      SessionConfig
	Auth         AuthConfig
	Firestore    FirestoreConfig
	SQL          SQLConfig
	Redis        RedisConfig
}

// DataStore enumerates supported progress backends.
type DataStore string

const (
	// DataStoreMemory keeps progress in-process (useful for local development/testing).
	DataStoreMemory DataStore = "memory"
	// DataStoreFirestore stores progress in Google Cloud Firestore.
	DataStoreFirestore DataStore = "firestore"
	// DataStoreSQLite stores progress in a local SQLite file.
	DataStoreSQLite DataStore = "sqlite"
	// DataStorePostgres stores progress in PostgreSQL.
	DataStorePostgres DataStore = "postgres"
)

// SessionStore enumerates supported session state backends.
type SessionStore string

const (
	SessionStoreMemory SessionStore = "memory"
	SessionStoreRedis  SessionStore = "redis"
)

// SessionConfig controls where per-user session state lives.
type SessionConfig struct {
	Store SessionStore
	TTL   time.Duration `validate:"gte=0"`
}

// AuthConfig stores authentication middleware setup.
type AuthConfig struct {
	Mode     sharedauth.Mode
	JWKSURL  string
	Audience string
	Issuer   string
}

// FirestoreConfig tailors Firestore client behavior.
type FirestoreConfig struct {
	Database     string
	EmulatorHost string
}

// SQLConfig locates the SQL progress store.
type SQLConfig struct {
	SQLitePath  string
	DatabaseURL string
}

// RedisConfig locates the Redis session store.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int `validate:"gte=0"`
}

// Load reads environment variables into Config with validation.
func Load() (Config, error) {
	cfg := Config{
		Port:         envconfig.Get("PORT", "8080"),
		GCPProjectID: envconfig.Get("GCP_PROJECT_ID", ""),
		DataStore:    DataStore(strings.ToLower(envconfig.Get("DATASTORE", string(DataStoreMemory)))),
		Sheet:        envconfig.Get("PROGRESS_SHEET", progress.DefaultSheet),
		CatalogPath:  envconfig.Get("CATALOG_PATH", "data/challenges.json"),
		LogFile:      envconfig.Get("CODEQUEST_LOG_FILE", ""),
		Session: SessionConfig{
			Store: SessionStore(strings.ToLower(envconfig.Get("SESSION_STORE", string(SessionStoreMemory)))),
			TTL:   envconfig.GetDuration("SESSION_TTL", 24*time.Hour),
		},
		Auth: AuthConfig{
			Mode:     sharedauth.Mode(strings.ToLower(envconfig.Get("AUTH_MODE", string(sharedauth.ModeNoop)))),
			JWKSURL:  envconfig.Get("CLERK_JWKS_URL", ""),
			Audience: envconfig.Get("CLERK_AUDIENCE", ""),
			Issuer:   envconfig.Get("CLERK_ISSUER", ""),
		},
		Firestore: FirestoreConfig{
			Database:     envconfig.Get("FIRESTORE_DATABASE", ""),
			EmulatorHost: envconfig.Get("FIRESTORE_EMULATOR_HOST", ""),
		},
		SQL: SQLConfig{
			SQLitePath:  envconfig.Get("SQLITE_PATH", "data/codequest.db"),
			DatabaseURL: envconfig.Get("DATABASE_URL", ""),
		},
		Redis: RedisConfig{
			Addr:     envconfig.Get("REDIS_ADDR", "localhost:6379"),
			Password: envconfig.Get("REDIS_PASSWORD", ""),
			DB:       envconfig.GetInt("REDIS_DB", 0),
		},
	}

	if err := validate(cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func validate(cfg Config) error {
	if err := envconfig.Validate(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	switch cfg.DataStore {
	case DataStoreMemory:
		// no-op
	case DataStoreFirestore:
		if cfg.GCPProjectID == "" {
			return fmt.Errorf("gcp project id required when datastore=firestore")
		}
	case DataStoreSQLite:
		if strings.TrimSpace(cfg.SQL.SQLitePath) == "" {
			return fmt.Errorf("SQLITE_PATH is required when datastore=sqlite")
		}
	case DataStorePostgres:
		if cfg.SQL.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when datastore=postgres")
		}
	default:
		return fmt.Errorf("unsupported datastore: %s", cfg.DataStore)
	}

	switch cfg.Session.Store {
	case SessionStoreMemory:
		// no-op
	case SessionStoreRedis:
		if cfg.Redis.Addr == "" {
			return fmt.Errorf("REDIS_ADDR is required when SESSION_STORE=redis")
		}
	default:
		return fmt.Errorf("unsupported session store: %s", cfg.Session.Store)
	}

	switch cfg.Auth.Mode {
	case sharedauth.ModeClerk:
		if cfg.Auth.JWKSURL == "" {
			return fmt.Errorf("CLERK_JWKS_URL is required when AUTH_MODE=clerk")
		}
	case sharedauth.ModeNoop:
		// no-op
	default:
		return fmt.Errorf("unsupported auth mode: %s", cfg.Auth.Mode)
	}

	return nil
}
