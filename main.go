package main

import (
	"context"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"telegram-weather-stylist/internal/advice"
	"telegram-weather-stylist/internal/compose"
	"telegram-weather-stylist/internal/config"
	"telegram-weather-stylist/internal/conversation"
	"telegram-weather-stylist/internal/handlers"
	"telegram-weather-stylist/internal/models"
	"telegram-weather-stylist/internal/schedule"
	"telegram-weather-stylist/internal/storage"
	"telegram-weather-stylist/internal/weather"
)

func main() {
	_ = godotenv.Load() // TELEGRAM_BOT_TOKEN etc.

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := buildLogger(cfg.LogLevel)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	db, err := storage.New(cfg.DBPath)
	if err != nil {
		logger.Fatal("open storage", zap.Error(err))
	}
	defer db.Close()

	bot, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		logger.Fatal("telegram api", zap.Error(err))
	}

	ctx := context.Background()
	gen, err := advice.NewGenerator(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		logger.Fatal("gemini client", zap.Error(err))
	}
	defer gen.Close()

	sender := handlers.NewSender(bot)
	owm := weather.NewClient(cfg.WeatherURL, cfg.WeatherAPIKey, cfg.WeatherLang)
	composer := compose.New(db, owm, gen, sender, logger)

	registry, err := schedule.NewRegistry(db, composer, sender, cfg.Zone(), clockwork.NewRealClock(), logger)
	if err != nil {
		logger.Fatal("scheduler", zap.Error(err))
	}
	registry.Start()
	defer registry.Shutdown()

	// bring daily delivery jobs back after a restart
	stored, err := db.ListProfiles()
	if err != nil {
		logger.Fatal("list profiles", zap.Error(err))
	}
	for _, p := range stored {
		if p.Frequency != models.FrequencyDaily {
			continue
		}
		if err := registry.EnsureScheduled(p.ChatID); err != nil {
			logger.Error("reschedule stored profile", zap.Int64("chat_id", p.ChatID), zap.Error(err))
		}
	}

	engine := conversation.NewEngine(conversation.NewMemorySessions(), db, registry, composer, sender, logger)
	h := &handlers.Handler{Bot: bot, Engine: engine, Log: logger}

	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := bot.GetUpdatesChan(updateConfig)

	logger.Info("bot started", zap.String("username", bot.Self.UserName), zap.String("reference_tz", cfg.ReferenceTZ))

	for upd := range updates {
		h.HandleUpdate(ctx, upd)
	}
}

func buildLogger(level string) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}
	zcfg.Level = lvl
	return zcfg.Build()
}
