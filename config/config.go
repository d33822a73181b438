package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/spf13/viper"

	"github.com/ascendhq/ascendcore/internal/skillmapper"
)

// Config struct holds all configuration values needed by the application.
// The struct tags (mapstructure) tell Viper how to map environment variables to struct fields.
type Config struct {
	DBSource          string `mapstructure:"DB_SOURCE"`           // Database connection string
	ServerAddress     string `mapstructure:"SERVER_ADDRESS"`      // Address where the server will run (e.g., "localhost:8080")
	TokenSymmetricKey string `mapstructure:"TOKEN_SYMMETRIC_KEY"` // Secret key verifying tokens issued elsewhere
	FrontendURL       string `mapstructure:"FRONTEND_URL"`

	LLMAPIURL   string `mapstructure:"LLM_API_URL"`
	LLMAPIKey   string `mapstructure:"LLM_API_KEY"`
	LLMModel    string `mapstructure:"LLM_MODEL"`

	LLMTimeoutSec            int     `mapstructure:"LLM_TIMEOUT_SEC"`
	LLMMaxRetries             int     `mapstructure:"LLM_MAX_RETRIES"`
	LLMTemperatureGeneration  float64 `mapstructure:"LLM_TEMPERATURE_GENERATION"`
	LLMTemperatureEvaluation  float64 `mapstructure:"LLM_TEMPERATURE_EVALUATION"`

	MaxActiveChallengesPerProfile int `mapstructure:"MAX_ACTIVE_CHALLENGES_PER_PROFILE"`
	EventQueueBound               int `mapstructure:"EVENT_QUEUE_BOUND"`

	// SkillKeywordsPath optionally points at a JSON file overriding
	// skillmapper.DefaultSoftSkillKeywords. Left empty, the default table
	// applies. A nested keyword table doesn't flatten cleanly into env
	// vars, so it lives in its own file rather than in app.env.
	SkillKeywordsPath string `mapstructure:"SKILL_KEYWORDS_PATH"`
}

// defaults mirror spec §6's configuration key table.
func setDefaults() {
	viper.SetDefault("LLM_TIMEOUT_SEC", 30)
	viper.SetDefault("LLM_MAX_RETRIES", 3)
	viper.SetDefault("LLM_TEMPERATURE_GENERATION", 0.9)
	viper.SetDefault("LLM_TEMPERATURE_EVALUATION", 0.3)
	viper.SetDefault("MAX_ACTIVE_CHALLENGES_PER_PROFILE", 3)
	viper.SetDefault("EVENT_QUEUE_BOUND", 64)
}

// LoadConfig loads environment variables from a file and environment into the Config struct
func LoadConfig(path string) (config Config, err error) {
	// Add the directory where the config file is located
	viper.AddConfigPath(path)

	// Specify the name of the config file (without extension)
	viper.SetConfigName("app")

	// Specify the file type. In this case, we're using a .env-style file
	viper.SetConfigType("env")

	setDefaults()

	// Automatically read in any environment variables that match the keys
	viper.AutomaticEnv()

	// Read the config file
	err = viper.ReadInConfig()
	if err != nil {
		// If there's an error reading the file, return immediately with the error
		return
	}

	// Unmarshal the config values into the Config struct
	err = viper.Unmarshal(&config)

	// Return the filled config struct and any error encountered during unmarshaling
	return
}

// Timeout converts LLMTimeoutSec to a time.Duration for llmclient.Options.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.LLMTimeoutSec) * time.Second
}

// LoadSkillKeywords reads SkillKeywordsPath (a JSON array of
// skillmapper.KeywordSet) if set, falling back to
// skillmapper.DefaultSoftSkillKeywords when the path is empty.
func (c Config) LoadSkillKeywords() ([]skillmapper.KeywordSet, error) {
	if c.SkillKeywordsPath == "" {
		return skillmapper.DefaultSoftSkillKeywords, nil
	}
	raw, err := os.ReadFile(c.SkillKeywordsPath)
	if err != nil {
		return nil, err
	}
	var sets []skillmapper.KeywordSet
	if err := json.Unmarshal(raw, &sets); err != nil {
		return nil, err
	}
	return sets, nil
}
