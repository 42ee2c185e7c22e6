package config

import (
	"os"
	"strings"

	"github.com/devspell/cli/internal/output"
)

// ConfigSource indicates where a configuration value came from.
type ConfigSource string

const (
	// SourceFlag indicates value came from command-line flag.
	SourceFlag ConfigSource = "flag"
	// SourceEnv indicates value came from environment variable.
	SourceEnv ConfigSource = "env"
	// SourceConfig indicates value came from config file.
	SourceConfig ConfigSource = "config"
	// SourceDefault indicates value is the built-in default.
	SourceDefault ConfigSource = "default"
)

// ResolvedValue is one configuration value together with its origin.
type ResolvedValue struct {
	Key      string
	Value    string
	Source   ConfigSource
	Shadowed map[ConfigSource]string
}

// ResolveConfigPathOptions contains options for config path resolution.
type ResolveConfigPathOptions struct {
	// FlagValue is the --config flag value (empty if not set).
	FlagValue string
}

// ResolveConfigPathResult contains the resolved config path and its source.
type ResolveConfigPathResult struct {
	// ConfigPath is the resolved config file path.
	ConfigPath string
	// Source indicates where the config path came from.
	Source ConfigSource
	// Shadowed contains values that were overridden by higher precedence.
	Shadowed map[ConfigSource]string
}

// ResolveConfigPath resolves the config file path using precedence:
// (1) --config flag, (2) DEVSPELL_CONFIG env, (3) ~/.devspell/config.yaml
func ResolveConfigPath(opts ResolveConfigPathOptions) (ResolveConfigPathResult, error) {
	result := ResolveConfigPathResult{
		Shadowed: make(map[ConfigSource]string),
	}

	envValue := os.Getenv("DEVSPELL_CONFIG")

	paths, err := DefaultPaths()
	if err != nil {
		return result, err
	}
	defaultPath := paths.ConfigFile

	switch {
	case opts.FlagValue != "":
		result.ConfigPath = opts.FlagValue
		result.Source = SourceFlag
		if envValue != "" {
			result.Shadowed[SourceEnv] = envValue
		}
		result.Shadowed[SourceDefault] = defaultPath
	case envValue != "":
		result.ConfigPath = envValue
		result.Source = SourceEnv
		result.Shadowed[SourceDefault] = defaultPath
	default:
		result.ConfigPath = defaultPath
		result.Source = SourceDefault
	}

	return result, nil
}

// providerKeyEnv lists the conventional API key variables per provider.
var providerKeyEnv = map[string][]string{
	"gemini": {"GEMINI_API_KEY", "GOOGLE_API_KEY"},
	"groq":   {"GROQ_API_KEY"},
}

// ResolveAPIKey returns the LLM API key using precedence:
// (1) llm.apiKey (file or DEVSPELL_LLM_APIKEY), (2) the provider's
// conventional variable. The key itself is never logged.
func ResolveAPIKey(cfg *LLMConfig) ResolvedValue {
	rv := ResolvedValue{Key: "llm.apiKey", Shadowed: make(map[ConfigSource]string)}

	var envName string
	for _, name := range providerKeyEnv[strings.ToLower(cfg.Provider)] {
		if os.Getenv(name) != "" {
			envName = name
			break
		}
	}

	switch {
	case cfg.APIKey != "":
		rv.Value = cfg.APIKey
		rv.Source = SourceConfig
		if envName != "" {
			rv.Shadowed[SourceEnv] = envName
		}
	case envName != "":
		rv.Value = os.Getenv(envName)
		rv.Source = SourceEnv
	}

	return rv
}

// LogResolvedValues logs configuration resolution at DEBUG level.
// Values under keys that look like secrets are masked.
func LogResolvedValues(values []ResolvedValue) {
	for _, v := range values {
		value := v.Value
		if isSecret(v.Key) && value != "" {
			value = "****"
		}
		output.Debug("config value resolved",
			"key", v.Key,
			"value", value,
			"source", v.Source,
		)
		for source, shadowed := range v.Shadowed {
			if isSecret(v.Key) {
				shadowed = "****"
			}
			output.Debug("  shadowed by higher precedence",
				"key", v.Key,
				"shadowed_source", source,
				"shadowed_value", shadowed,
			)
		}
	}
}

func isSecret(key string) bool {
	k := strings.ToLower(key)
	return strings.Contains(k, "key") || strings.Contains(k, "dsn") || strings.Contains(k, "secret")
}
