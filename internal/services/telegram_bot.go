package services

import (
	"fmt"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramService анонсирует новые статьи в канал. Необязательный компонент:
// без токена возвращается nil, все вызовы через nil-receiver безопасны.
type TelegramService struct {
	bot       *tgbotapi.BotAPI
	channelID int64
}

func NewTelegramService(botToken string, channelID int64) *TelegramService {
	if botToken == "" || channelID == 0 {
		log.Printf("[tg] disabled: token or channel_id empty")
		return nil
	}
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		log.Printf("[tg] init failed: %v", err)
		return nil
	}
	return &TelegramService{bot: bot, channelID: channelID}
}

func (t *TelegramService) AnnounceArticle(title, author string, articleID int) error {
	if t == nil || t.bot == nil {
		return nil
	}
	text := fmt.Sprintf("<b>%s</b>\nНовая статья от %s (id=%d)", title, author, articleID)
	msg := tgbotapi.NewMessage(t.channelID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true

	if _, err := t.bot.Send(msg); err != nil {
		log.Printf("[tg][announce] failed: article_id=%d err=%v", articleID, err)
		return err
	}
	log.Printf("[tg][announce] ok: article_id=%d", articleID)
	return nil
}
