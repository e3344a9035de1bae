package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	TelegramToken string
	WeatherAPIKey string
	WeatherURL    string
	WeatherLang   string
	GeminiAPIKey  string
	GeminiModel   string
	DBPath        string
	ReferenceTZ   string
	LogLevel      string
}

// Load reads configuration from the environment, with .env as a fallback.
func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	// .env is optional
	_ = viper.ReadInConfig()

	viper.SetDefault("WEATHER_URL", "https://api.openweathermap.org/data/2.5/weather")
	viper.SetDefault("WEATHER_LANG", "en")
	viper.SetDefault("GEMINI_MODEL", "gemini-1.5-flash")
	viper.SetDefault("DB_PATH", "bot.db")
	viper.SetDefault("REFERENCE_TZ", "Europe/Moscow")
	viper.SetDefault("LOG_LEVEL", "info")

	cfg := &Config{
		TelegramToken: viper.GetString("TELEGRAM_BOT_TOKEN"),
		WeatherAPIKey: viper.GetString("WEATHER_API_KEY"),
		WeatherURL:    viper.GetString("WEATHER_URL"),
		WeatherLang:   viper.GetString("WEATHER_LANG"),
		GeminiAPIKey:  viper.GetString("GEMINI_API_KEY"),
		GeminiModel:   viper.GetString("GEMINI_MODEL"),
		DBPath:        viper.GetString("DB_PATH"),
		ReferenceTZ:   viper.GetString("REFERENCE_TZ"),
		LogLevel:      viper.GetString("LOG_LEVEL"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.TelegramToken == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
	}
	if c.WeatherAPIKey == "" {
		return fmt.Errorf("WEATHER_API_KEY is required")
	}
	if c.GeminiAPIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY is required")
	}
	if _, err := time.LoadLocation(c.ReferenceTZ); err != nil {
		return fmt.Errorf("REFERENCE_TZ %q is not a valid zone: %w", c.ReferenceTZ, err)
	}
	return nil
}

// Zone returns the reference time zone all delivery times are read in.
func (c *Config) Zone() *time.Location {
	loc, err := time.LoadLocation(c.ReferenceTZ)
	if err != nil {
		// Validate rejects unloadable zones, so this only happens when the
		// config was built by hand.
		return time.UTC
	}
	return loc
}
