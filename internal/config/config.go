// Package config provides configuration loading and management.
package config

import "time"

// LLMConfig selects and tunes the text-generation provider.
type LLMConfig struct {
	// Provider is "gemini", "groq" or "fake". Empty disables model-driven
	// commands.
	// Env: DEVSPELL_LLM_PROVIDER
	Provider string `json:"provider,omitempty" mapstructure:"provider"`

	// Model overrides the provider's default model.
	Model string `json:"model,omitempty" mapstructure:"model"`

	// APIKey authenticates with the provider. When empty the provider's
	// conventional variable is used: GEMINI_API_KEY or GROQ_API_KEY.
	APIKey string `json:"apiKey,omitempty" mapstructure:"apiKey"`

	// BaseURL overrides the Groq endpoint.
	BaseURL string `json:"baseURL,omitempty" mapstructure:"baseURL"`

	// Timeout bounds one model call. Default: 90s.
	Timeout time.Duration `json:"timeout,omitempty" mapstructure:"timeout"`

	// Retries is the number of retries after a failed call. Default: 2.
	Retries int `json:"retries" mapstructure:"retries"`

	// RPS limits calls per second. Zero disables limiting.
	RPS float64 `json:"rps" mapstructure:"rps"`

	// Burst is the rate limiter bucket size. Default: 1.
	Burst int `json:"burst" mapstructure:"burst"`
}

// FirestoreConfig addresses a Firebase project.
type FirestoreConfig struct {
	ProjectID       string `json:"projectID,omitempty" mapstructure:"projectID"`
	CredentialsFile string `json:"credentialsFile,omitempty" mapstructure:"credentialsFile"`
}

// PostgresConfig addresses a PostgreSQL database.
type PostgresConfig struct {
	// DSN is a pgx connection string.
	// Env: DEVSPELL_STORE_POSTGRES_DSN or DATABASE_URL
	DSN string `json:"dsn,omitempty" mapstructure:"dsn"`
}

// StoreConfig selects where chat and project records go.
type StoreConfig struct {
	// Kind is "none", "memory", "firestore" or "postgres". Default: none.
	Kind      string          `json:"kind" mapstructure:"kind"`
	Firestore FirestoreConfig `json:"firestore,omitempty" mapstructure:"firestore"`
	Postgres  PostgresConfig  `json:"postgres,omitempty" mapstructure:"postgres"`
}

// S3Config addresses an S3-compatible bucket.
type S3Config struct {
	Endpoint  string `json:"endpoint,omitempty" mapstructure:"endpoint"`
	Region    string `json:"region,omitempty" mapstructure:"region"`
	Bucket    string `json:"bucket,omitempty" mapstructure:"bucket"`
	Prefix    string `json:"prefix,omitempty" mapstructure:"prefix"`
	AccessKey string `json:"accessKey,omitempty" mapstructure:"accessKey"`
	SecretKey string `json:"secretKey,omitempty" mapstructure:"secretKey"`
	UseSSL    bool   `json:"useSSL" mapstructure:"useSSL"`
}

// ExportConfig selects where archives are copied after generation.
type ExportConfig struct {
	// Kind is "none", "file" or "s3". Default: none.
	Kind string `json:"kind" mapstructure:"kind"`

	// Dir is the target of the file exporter.
	Dir string   `json:"dir,omitempty" mapstructure:"dir"`
	S3  S3Config `json:"s3,omitempty" mapstructure:"s3"`
}

// ServerConfig configures devspell serve.
type ServerConfig struct {
	// Addr is the listen address. Default: ":8080".
	Addr string `json:"addr" mapstructure:"addr"`

	// CORSOrigins lists allowed browser origins.
	CORSOrigins []string `json:"corsOrigins,omitempty" mapstructure:"corsOrigins"`
}

// LogConfig contains logging-related settings.
type LogConfig struct {
	// Timestamps controls whether timestamps are shown in log output.
	// Default: true. Override with --timestamps flag.
	Timestamps *bool `json:"timestamps,omitempty" mapstructure:"timestamps"`
}

// Config represents the devspell CLI configuration.
// Loaded from ~/.devspell/config.yaml, validated against the embedded CUE schema.
type Config struct {
	LLM    LLMConfig    `json:"llm" mapstructure:"llm"`
	Store  StoreConfig  `json:"store" mapstructure:"store"`
	Export ExportConfig `json:"export" mapstructure:"export"`
	Server ServerConfig `json:"server" mapstructure:"server"`
	Log    LogConfig    `json:"log,omitempty" mapstructure:"log"`
}

// Store and export kinds.
const (
	KindNone      = "none"
	KindMemory    = "memory"
	KindFirestore = "firestore"
	KindPostgres  = "postgres"
	KindFile      = "file"
	KindS3        = "s3"
)

// DefaultConfig returns a Config with all default values populated.
// Used by `devspell config init` to generate the initial config file.
func DefaultConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider: "gemini",
			Timeout:  90 * time.Second,
			Retries:  2,
			Burst:    1,
		},
		Store:  StoreConfig{Kind: KindNone},
		Export: ExportConfig{Kind: KindNone},
		Server: ServerConfig{Addr: ":8080"},
	}
}
