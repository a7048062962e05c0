package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/viper"
)

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"

	defaultPort = 5001

	defaultTemperature float32 = 0.7
	maxTemperature     float32 = 2
)

type Config struct {
	Port         int      `mapstructure:"port"`
	AllowOrigins []string `mapstructure:"allow_origins"`

	// StrictCredentials makes the generative endpoint fail with 500 when
	// no provider credential is configured instead of answering statically.
	StrictCredentials bool          `mapstructure:"strict_credentials"`
	StaticDelay       time.Duration `mapstructure:"static_delay"`

	Generation struct {
		Provider     string        `mapstructure:"provider"`
		OpenAIAPIKey string        `mapstructure:"openai_api_key"`
		OpenAIModel  string        `mapstructure:"openai_model"`
		OpenAIBase   string        `mapstructure:"openai_base_url"`
		GeminiAPIKey string        `mapstructure:"gemini_api_key"`
		GeminiModel  string        `mapstructure:"gemini_model"`
		MaxTokens    int           `mapstructure:"max_tokens"`
		Temperature  float32       `mapstructure:"temperature"`
		Timeout      time.Duration `mapstructure:"timeout"`
	} `mapstructure:"generation"`

	Database struct {
		DSN string `mapstructure:"dsn"`
	} `mapstructure:"database"`

	Log struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"`
	} `mapstructure:"log"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", defaultPort)
	v.SetDefault("allow_origins", []string{"http://localhost:3000"})
	v.SetDefault("strict_credentials", false)
	v.SetDefault("static_delay", 1200*time.Millisecond)

	v.SetDefault("generation.provider", ProviderOpenAI)
	v.SetDefault("generation.openai_model", "gpt-3.5-turbo")
	v.SetDefault("generation.openai_base_url", "")
	v.SetDefault("generation.openai_api_key", "")
	v.SetDefault("generation.gemini_api_key", "")
	v.SetDefault("generation.gemini_model", "gemini-1.5-flash")
	v.SetDefault("generation.max_tokens", 500)
	v.SetDefault("generation.temperature", defaultTemperature)
	v.SetDefault("generation.timeout", 30*time.Second)

	v.SetDefault("database.dsn", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// Load reads configuration from defaults, an optional yaml file and the
// environment. An empty path looks for config.yaml in the working directory.
//
// Environment variables use the FARMVIBE_ prefix with dots replaced by
// underscores (FARMVIBE_GENERATION_OPENAI_MODEL). OPENAI_API_KEY, GEMINI_API_KEY
// and PORT are honored without the prefix.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("FARMVIBE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	_ = v.BindEnv("port", "FARMVIBE_PORT", "PORT")
	_ = v.BindEnv("generation.provider", "FARMVIBE_GENERATION_PROVIDER", "FARMVIBE_PROVIDER")
	_ = v.BindEnv("generation.openai_api_key", "FARMVIBE_GENERATION_OPENAI_API_KEY", "OPENAI_API_KEY")
	_ = v.BindEnv("generation.gemini_api_key", "FARMVIBE_GENERATION_GEMINI_API_KEY", "GEMINI_API_KEY")
	_ = v.BindEnv("database.dsn", "FARMVIBE_DATABASE_DSN", "FARMVIBE_DB_URL")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	// An unparsable PORT keeps the service up on the default.
	if port, err := strconv.Atoi(strings.TrimSpace(v.GetString("port"))); err != nil || port <= 0 {
		v.Set("port", defaultPort)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error decoding config: %w", err)
	}

	cfg.normalize()
	return cfg, nil
}

func (c *Config) normalize() {
	if c.Port <= 0 || c.Port > 65535 {
		c.Port = defaultPort
	}
	c.Generation.Provider = strings.ToLower(strings.TrimSpace(c.Generation.Provider))
	if c.Generation.Provider == "" {
		c.Generation.Provider = ProviderOpenAI
	}
	c.Generation.OpenAIAPIKey = strings.TrimSpace(c.Generation.OpenAIAPIKey)
	c.Generation.GeminiAPIKey = strings.TrimSpace(c.Generation.GeminiAPIKey)
	if c.Generation.MaxTokens <= 0 {
		c.Generation.MaxTokens = 500
	}
	// go-openai drops a zero temperature from the request, so the API would
	// silently use its own default. Keep it inside (0, 2].
	if c.Generation.Temperature <= 0 {
		c.Generation.Temperature = defaultTemperature
	}
	if c.Generation.Temperature > maxTemperature {
		c.Generation.Temperature = maxTemperature
	}
	if c.Generation.Timeout <= 0 {
		c.Generation.Timeout = 30 * time.Second
	}
	if c.StaticDelay < 0 {
		c.StaticDelay = 0
	}

	origins := make([]string, 0, len(c.AllowOrigins))
	for _, origin := range c.AllowOrigins {
		for _, part := range strings.Split(origin, ",") {
			if part = strings.TrimSpace(part); part != "" {
				origins = append(origins, part)
			}
		}
	}
	c.AllowOrigins = origins
}

// APIKey returns the credential for the configured provider.
func (c *Config) APIKey() string {
	if c.Generation.Provider == ProviderGemini {
		return c.Generation.GeminiAPIKey
	}
	return c.Generation.OpenAIAPIKey
}

// Model returns the model identifier for the configured provider.
func (c *Config) Model() string {
	if c.Generation.Provider == ProviderGemini {
		return c.Generation.GeminiModel
	}
	return c.Generation.OpenAIModel
}
