package handlers

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"telegram-weather-stylist/internal/conversation"
)

// Handler routes telegram updates into the conversation engine.
type Handler struct {
	Bot    *tgbotapi.BotAPI
	Engine *conversation.Engine
	Log    *zap.Logger
}

func (h *Handler) HandleUpdate(ctx context.Context, upd tgbotapi.Update) {
	if upd.Message == nil || upd.Message.Text == "" {
		return
	}
	chatID := upd.Message.Chat.ID

	if upd.Message.IsCommand() {
		switch upd.Message.Command() {
		case "start":
			h.Engine.Start(chatID)
		case "reset":
			h.Engine.Reset(ctx, chatID)
		default:
			h.Log.Debug("unknown command", zap.Int64("chat_id", chatID), zap.String("command", upd.Message.Command()))
		}
		return
	}

	h.Engine.HandleText(ctx, chatID, upd.Message.Text)
}
