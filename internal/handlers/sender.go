package handlers

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Sender is the outbound half of the transport: plain texts and reply
// keyboards. SendChoices without rows hides the current keyboard, which is
// how the free-text questions (city, time) are asked.
type Sender struct {
	Bot *tgbotapi.BotAPI
}

func NewSender(bot *tgbotapi.BotAPI) *Sender {
	return &Sender{Bot: bot}
}

func (s *Sender) Send(chatID int64, text string) error {
	_, err := s.Bot.Send(tgbotapi.NewMessage(chatID, text))
	return err
}

func (s *Sender) SendChoices(chatID int64, text string, rows ...[]string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	if len(rows) == 0 {
		msg.ReplyMarkup = tgbotapi.NewRemoveKeyboard(true)
	} else {
		kbRows := make([][]tgbotapi.KeyboardButton, 0, len(rows))
		for _, row := range rows {
			btns := make([]tgbotapi.KeyboardButton, 0, len(row))
			for _, label := range row {
				btns = append(btns, tgbotapi.NewKeyboardButton(label))
			}
			kbRows = append(kbRows, tgbotapi.NewKeyboardButtonRow(btns...))
		}
		msg.ReplyMarkup = tgbotapi.NewReplyKeyboard(kbRows...)
	}
	_, err := s.Bot.Send(msg)
	return err
}
