package story

import (
	"encoding/json"
	"os"

	"github.com/joho/godotenv"
)

// LLMConfig selects and authenticates the text-generation backend.
type LLMConfig struct {
	Provider string `json:"provider,omitempty"`
	Model    string `json:"model,omitempty"`
	APIKey   string `json:"api_key,omitempty"`
	BaseURL  string `json:"base_url,omitempty"`
}

// Config holds the application settings.
type Config struct {
	LLM         *LLMConfig `json:"llm,omitempty"`
	ServerAddr  string     `json:"server_addr,omitempty"`
	MaxAttempts int        `json:"max_attempts,omitempty"`
	Retries     int        `json:"retries,omitempty"`
	// RateLimit caps backend calls in requests per second; zero means unpaced.
	RateLimit float64 `json:"rate_limit,omitempty"`
}

// LoadConfig reads the JSON config file and fills credentials from the
// environment (a .env file is honored). A missing file is not an error:
// everything can come from the environment, letting the tool run with only
// OPENAI_API_KEY set.
func LoadConfig(path string) (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	data, err := os.ReadFile(path)
	if err == nil {
		if err := json.Unmarshal(data, &cfg); err != nil {
			return Config{}, err
		}
	} else if !os.IsNotExist(err) {
		return Config{}, err
	}

	if cfg.LLM == nil {
		cfg.LLM = &LLMConfig{}
	}
	if cfg.LLM.Provider == "" {
		cfg.LLM.Provider = "openai"
	}
	if cfg.LLM.Model == "" {
		cfg.LLM.Model = "gpt-3.5-turbo"
	}
	if cfg.LLM.APIKey == "" {
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	if cfg.Retries < 1 {
		cfg.Retries = DefaultRetries
	}
	return cfg, nil
}
