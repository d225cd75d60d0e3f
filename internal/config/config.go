package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"ProductImporter/pkg/logger"
)

const (
	configPathEnv = "PRODUCT_IMPORTER_CONFIG"
	dotenvPathEnv = "PRODUCT_IMPORTER_DOTENV"

	logLevelEnv          = "LOG_LEVEL"
	logFormatEnv         = "LOG_FORMAT"
	ideasoftBaseURLEnv   = "IDEASOFT_API_URL"
	ideasoftShopIDEnv    = "IDEASOFT_SHOP_ID"
	ideasoftTokenEnv     = "IDEASOFT_ACCESS_TOKEN"
	ideasoftClientIDEnv  = "IDEASOFT_CLIENT_ID"
	ideasoftSecretEnv    = "IDEASOFT_CLIENT_SECRET"
	googleAPIKeyEnv      = "GOOGLE_API_KEY"
	googleEngineIDEnv    = "GOOGLE_SEARCH_ENGINE_ID"
	enrichmentEnabledEnv = "ENRICHMENT_ENABLED"
	chatGPTAPIKeyEnv     = "CHATGPT_API_KEY"
	chatGPTModelEnv      = "CHATGPT_MODEL"
	telegramTokenEnv     = "TELEGRAM_BOT_TOKEN"
	telegramChatIDEnv    = "TELEGRAM_CHAT_ID"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging       LoggingConfig      `yaml:"logging"`
	Ideasoft      IdeasoftConfig     `yaml:"ideasoft"`
	Search        SearchConfig       `yaml:"search"`
	Scraper       ScraperConfig      `yaml:"scraper"`
	Enrichment    EnrichmentConfig   `yaml:"enrichment"`
	Import        ImportConfig       `yaml:"import"`
	ChatGPT       ChatGPTConfig      `yaml:"chatgpt"`
	Notifications NotificationConfig `yaml:"notifications"`
}

// LoggingConfig selects slog level and handler.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// IdeasoftConfig describes the remote catalog API and its credentials.
type IdeasoftConfig struct {
	BaseURL           string        `yaml:"baseUrl"`
	TokenURL          string        `yaml:"tokenUrl"`
	ShopID            string        `yaml:"shopId"`
	AccessToken       string        `yaml:"accessToken"`
	ClientID          string        `yaml:"clientId"`
	ClientSecret      string        `yaml:"clientSecret"`
	RequestsPerSecond float64       `yaml:"requestsPerSecond"`
	Timeout           time.Duration `yaml:"timeout"`
}

// SearchConfig wires the Google Custom Search credentials.
type SearchConfig struct {
	Endpoint          string        `yaml:"endpoint"`
	APIKey            string        `yaml:"apiKey"`
	EngineID          string        `yaml:"engineId"`
	RequestsPerSecond float64       `yaml:"requestsPerSecond"`
	Timeout           time.Duration `yaml:"timeout"`
}

// ScraperConfig tunes product page downloads.
type ScraperConfig struct {
	UserAgent string        `yaml:"userAgent"`
	Timeout   time.Duration `yaml:"timeout"`
}

// EnrichmentConfig controls the batch enricher and its fallbacks.
type EnrichmentConfig struct {
	Enabled         bool          `yaml:"enabled"`
	Delay           time.Duration `yaml:"delay"`
	PlaceholderBase string        `yaml:"placeholderBase"`
}

// ImportConfig controls the batch importer.
type ImportConfig struct {
	Delay time.Duration `yaml:"delay"`
}

// ChatGPTConfig defines how to contact the ChatGPT API.
type ChatGPTConfig struct {
	Endpoint     string `yaml:"endpoint"`
	Model        string `yaml:"model"`
	APIKey       string `yaml:"apiKey"`
	SystemPrompt string `yaml:"systemPrompt"`
}

// NotificationConfig encapsulates outbound channels (Telegram, etc.).
type NotificationConfig struct {
	Telegram TelegramConfig `yaml:"telegram"`
}

// TelegramConfig wires all data required to send messages.
type TelegramConfig struct {
	BotToken string `yaml:"botToken"`
	ChatID   string `yaml:"chatId"`
}

// Load reads .env and YAML configuration (if present) and applies
// environment overrides.
func Load() Config {
	log := logger.New("config")
	cfg := defaultConfig()

	dotenv := os.Getenv(dotenvPathEnv)
	if dotenv == "" {
		dotenv = ".env"
	}
	if err := godotenv.Load(dotenv); err != nil && !os.IsNotExist(err) {
		log.Warn("cannot load dotenv file", "path", dotenv, "error", err)
	}

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Warn("cannot read config, falling back to defaults", "path", path, "error", err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Warn("cannot parse config, falling back to defaults", "path", path, "error", err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	return cfg
}

func (c *Config) applyEnvOverrides() {
	setString := func(env string, dst *string) {
		if v := os.Getenv(env); v != "" {
			*dst = v
		}
	}

	setString(logLevelEnv, &c.Logging.Level)
	setString(logFormatEnv, &c.Logging.Format)

	setString(ideasoftBaseURLEnv, &c.Ideasoft.BaseURL)
	setString(ideasoftShopIDEnv, &c.Ideasoft.ShopID)
	setString(ideasoftTokenEnv, &c.Ideasoft.AccessToken)
	setString(ideasoftClientIDEnv, &c.Ideasoft.ClientID)
	setString(ideasoftSecretEnv, &c.Ideasoft.ClientSecret)

	setString(googleAPIKeyEnv, &c.Search.APIKey)
	setString(googleEngineIDEnv, &c.Search.EngineID)

	if v := os.Getenv(enrichmentEnabledEnv); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			c.Enrichment.Enabled = enabled
		}
	}

	setString(chatGPTAPIKeyEnv, &c.ChatGPT.APIKey)
	setString(chatGPTModelEnv, &c.ChatGPT.Model)

	setString(telegramTokenEnv, &c.Notifications.Telegram.BotToken)
	setString(telegramChatIDEnv, &c.Notifications.Telegram.ChatID)
}

func mergeConfig(base, override Config) Config {
	mergeString := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	mergeDuration := func(dst *time.Duration, v time.Duration) {
		if v > 0 {
			*dst = v
		}
	}
	mergeRate := func(dst *float64, v float64) {
		if v > 0 {
			*dst = v
		}
	}

	mergeString(&base.Logging.Level, override.Logging.Level)
	mergeString(&base.Logging.Format, override.Logging.Format)

	mergeString(&base.Ideasoft.BaseURL, override.Ideasoft.BaseURL)
	mergeString(&base.Ideasoft.TokenURL, override.Ideasoft.TokenURL)
	mergeString(&base.Ideasoft.ShopID, override.Ideasoft.ShopID)
	mergeString(&base.Ideasoft.AccessToken, override.Ideasoft.AccessToken)
	mergeString(&base.Ideasoft.ClientID, override.Ideasoft.ClientID)
	mergeString(&base.Ideasoft.ClientSecret, override.Ideasoft.ClientSecret)
	mergeRate(&base.Ideasoft.RequestsPerSecond, override.Ideasoft.RequestsPerSecond)
	mergeDuration(&base.Ideasoft.Timeout, override.Ideasoft.Timeout)

	mergeString(&base.Search.Endpoint, override.Search.Endpoint)
	mergeString(&base.Search.APIKey, override.Search.APIKey)
	mergeString(&base.Search.EngineID, override.Search.EngineID)
	mergeRate(&base.Search.RequestsPerSecond, override.Search.RequestsPerSecond)
	mergeDuration(&base.Search.Timeout, override.Search.Timeout)

	mergeString(&base.Scraper.UserAgent, override.Scraper.UserAgent)
	mergeDuration(&base.Scraper.Timeout, override.Scraper.Timeout)

	// A YAML file can only switch enrichment on; ENRICHMENT_ENABLED can do both.
	if override.Enrichment.Enabled {
		base.Enrichment.Enabled = true
	}
	mergeDuration(&base.Enrichment.Delay, override.Enrichment.Delay)
	mergeString(&base.Enrichment.PlaceholderBase, override.Enrichment.PlaceholderBase)

	mergeDuration(&base.Import.Delay, override.Import.Delay)

	mergeString(&base.ChatGPT.Endpoint, override.ChatGPT.Endpoint)
	mergeString(&base.ChatGPT.Model, override.ChatGPT.Model)
	mergeString(&base.ChatGPT.APIKey, override.ChatGPT.APIKey)
	mergeString(&base.ChatGPT.SystemPrompt, override.ChatGPT.SystemPrompt)

	mergeString(&base.Notifications.Telegram.BotToken, override.Notifications.Telegram.BotToken)
	mergeString(&base.Notifications.Telegram.ChatID, override.Notifications.Telegram.ChatID)

	return base
}

func defaultConfig() Config {
	return Config{
		Logging: LoggingConfig{Level: "info", Format: "text"},
		Ideasoft: IdeasoftConfig{
			BaseURL:           "https://api.ideasoft.com.tr/api/v1",
			TokenURL:          "https://api.ideasoft.com.tr/oauth/token",
			RequestsPerSecond: 4,
			Timeout:           30 * time.Second,
		},
		Search: SearchConfig{
			Endpoint:          "https://www.googleapis.com/customsearch/v1",
			RequestsPerSecond: 1,
			Timeout:           10 * time.Second,
		},
		Scraper: ScraperConfig{Timeout: 10 * time.Second},
		Enrichment: EnrichmentConfig{
			Delay:           time.Second,
			PlaceholderBase: "https://source.unsplash.com/800x600/",
		},
		Import: ImportConfig{Delay: 500 * time.Millisecond},
		ChatGPT: ChatGPTConfig{
			Endpoint:     "https://api.openai.com/v1/chat/completions",
			Model:        "gpt-4o-mini",
			SystemPrompt: "Sen bir e-ticaret metin yazarısın. Verilen ürün için 2-3 cümlelik, abartısız Türkçe bir ürün açıklaması yaz.",
		},
	}
}
