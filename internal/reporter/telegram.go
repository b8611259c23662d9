package reporter

import (
	"context"
	"fmt"
	"html"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"go-jobpilot-automation/internal/config"
)

// sender is the part of *tgbotapi.BotAPI the reporter uses.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type TelegramReporter struct {
	bot    sender
	chatID int64
}

func NewTelegramReporter(cfg config.Telegram) (*TelegramReporter, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram bot: %w", err)
	}

	//turn this on in case of debug
	//bot.Debug = true

	return &TelegramReporter{bot: bot, chatID: cfg.ChatID}, nil
}

func (t *TelegramReporter) SendMessage(text string) error {
	msg := tgbotapi.NewMessage(t.chatID, text)
	msg.ParseMode = "HTML" //use HTML for bold/italic
	msg.DisableWebPagePreview = true
	_, err := t.bot.Send(msg)
	return err
}

func (t *TelegramReporter) Summary(_ context.Context, s Summary) error {
	text := fmt.Sprintf(
		"🤖 <b>JobPilot run</b> <code>%s</code>\n"+
			"🔍 Scraped: %d (unique %d, matched %d)\n"+
			"🎯 Selected: %d\n"+
			"✅ Succeeded: %d\n"+
			"❌ Failed: %d\n"+
			"⏱ %s",
		html.EscapeString(s.RunID),
		s.Scraped, s.Unique, s.Matched,
		s.Selected,
		s.Succeeded,
		s.Failed,
		s.Duration().Round(time.Second),
	)
	if s.Error != "" {
		text += "\n⚠️ <b>Aborted</b>: " + html.EscapeString(s.Error)
	}
	return t.SendMessage(text)
}

func (t *TelegramReporter) Failure(_ context.Context, f Failure) error {
	p := f.Posting
	text := fmt.Sprintf(
		"⚠️ <b>%s</b>\n"+
			"🏢 %s\n"+
			"📍 %s\n"+
			"🧩 %s: %s",
		html.EscapeString(p.Title),
		html.EscapeString(p.Company),
		html.EscapeString(p.Location),
		html.EscapeString(f.Stage),
		html.EscapeString(fmt.Sprint(f.Err)),
	)
	if p.ApplyLink != "" {
		text += fmt.Sprintf("\n🔗 <a href=\"%s\">Apply link</a>", html.EscapeString(p.ApplyLink))
	}
	return t.SendMessage(text)
}
