package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/devspell/cli/internal/output"
)

// Environment variable prefix for devspell configuration.
const envPrefix = "DEVSPELL"

// Loader handles loading and merging configuration from multiple sources.
type Loader struct {
	v *viper.Viper

	// DotEnv is loaded before the environment is read. Missing files are
	// ignored. Default: ".env".
	DotEnv string
}

// NewLoader creates a new configuration loader with defaults registered so
// every key can be overridden from the environment.
func NewLoader() *Loader {
	v := viper.New()

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	def := DefaultConfig()
	v.SetDefault("llm.provider", def.LLM.Provider)
	v.SetDefault("llm.model", "")
	v.SetDefault("llm.apiKey", "")
	v.SetDefault("llm.baseURL", "")
	v.SetDefault("llm.timeout", def.LLM.Timeout)
	v.SetDefault("llm.retries", def.LLM.Retries)
	v.SetDefault("llm.rps", def.LLM.RPS)
	v.SetDefault("llm.burst", def.LLM.Burst)
	v.SetDefault("store.kind", def.Store.Kind)
	v.SetDefault("store.firestore.projectID", "")
	v.SetDefault("store.firestore.credentialsFile", "")
	v.SetDefault("store.postgres.dsn", "")
	v.SetDefault("export.kind", def.Export.Kind)
	v.SetDefault("export.dir", "")
	v.SetDefault("export.s3.endpoint", "")
	v.SetDefault("export.s3.region", "")
	v.SetDefault("export.s3.bucket", "")
	v.SetDefault("export.s3.prefix", "")
	v.SetDefault("export.s3.accessKey", "")
	v.SetDefault("export.s3.secretKey", "")
	v.SetDefault("export.s3.useSSL", false)
	v.SetDefault("server.addr", def.Server.Addr)
	v.SetDefault("server.corsOrigins", []string{})

	// Conventional names used by hosting platforms.
	_ = v.BindEnv("store.postgres.dsn", "DEVSPELL_STORE_POSTGRES_DSN", "DATABASE_URL")
	_ = v.BindEnv("store.firestore.credentialsFile", "DEVSPELL_STORE_FIRESTORE_CREDENTIALSFILE", "GOOGLE_APPLICATION_CREDENTIALS")
	_ = v.BindEnv("server.addr", "DEVSPELL_SERVER_ADDR")

	return &Loader{v: v, DotEnv: ".env"}
}

// Load loads configuration from the given file path.
// If configFile is empty, it uses the default config file path.
// Environment variables take precedence over file values.
func (l *Loader) Load(configFile string) (*Config, error) {
	if l.DotEnv != "" {
		if err := godotenv.Load(l.DotEnv); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("loading %s: %w", l.DotEnv, err)
		}
	}

	if configFile == "" {
		var err error
		configFile, err = GetConfigFile()
		if err != nil {
			return nil, fmt.Errorf("getting config file path: %w", err)
		}
	}

	expandedPath, err := ExpandPath(configFile)
	if err != nil {
		return nil, fmt.Errorf("expanding config path: %w", err)
	}

	l.v.SetConfigFile(expandedPath)
	l.v.SetConfigType("yaml")

	// A missing config file is fine; defaults and env vars still apply.
	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		output.Debug("config file not found, using defaults", "path", expandedPath)
	}

	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if l.v.IsSet("log.timestamps") {
		ts := l.v.GetBool("log.timestamps")
		cfg.Log.Timestamps = &ts
	}

	return &cfg, nil
}

// ConfigFileExists checks if the config file exists.
func ConfigFileExists(configFile string) (bool, error) {
	if configFile == "" {
		var err error
		configFile, err = GetConfigFile()
		if err != nil {
			return false, err
		}
	}

	expandedPath, err := ExpandPath(configFile)
	if err != nil {
		return false, err
	}

	_, err = os.Stat(expandedPath)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}

	return true, nil
}
