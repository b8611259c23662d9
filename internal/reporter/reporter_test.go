package reporter

import (
	"context"
	"errors"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-jobpilot-automation/internal/scraper"
)

type fakeBot struct {
	sent []tgbotapi.MessageConfig
	err  error
}

func (f *fakeBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if msg, ok := c.(tgbotapi.MessageConfig); ok {
		f.sent = append(f.sent, msg)
	}
	return tgbotapi.Message{}, f.err
}

func TestTelegramReporter_Summary(t *testing.T) {
	bot := &fakeBot{}
	r := &TelegramReporter{bot: bot, chatID: 42}
	start := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

	require.NoError(t, r.Summary(context.Background(), Summary{
		RunID: "run-1", StartedAt: start, FinishedAt: start.Add(90 * time.Second),
		Scraped: 30, Unique: 25, Matched: 12, Selected: 10, Processed: 10, Succeeded: 8, Failed: 2,
	}))

	require.Len(t, bot.sent, 1)
	msg := bot.sent[0]
	assert.Equal(t, int64(42), msg.ChatID)
	assert.Equal(t, "HTML", msg.ParseMode)
	assert.Contains(t, msg.Text, "Selected: 10")
	assert.Contains(t, msg.Text, "Failed: 2")
	assert.Contains(t, msg.Text, "1m30s")
}

func TestTelegramReporter_FailureEscapesHTML(t *testing.T) {
	bot := &fakeBot{}
	r := &TelegramReporter{bot: bot, chatID: 1}

	require.NoError(t, r.Failure(context.Background(), Failure{
		Posting: scraper.Posting{Title: "C++ <Dev>", Company: "A&B", ApplyLink: "https://x/?a=1&b=2"},
		Stage:   "submit",
		Err:     errors.New("timeout"),
	}))
	assert.Contains(t, bot.sent[0].Text, "C++ &lt;Dev&gt;")
	assert.Contains(t, bot.sent[0].Text, "A&amp;B")
	assert.Contains(t, bot.sent[0].Text, "submit: timeout")
}

func TestMulti_JoinsErrors(t *testing.T) {
	failing := &TelegramReporter{bot: &fakeBot{err: errors.New("chat not found")}}
	m := Multi{LogReporter{}, failing}

	err := m.Summary(context.Background(), Summary{RunID: "r"})
	assert.ErrorContains(t, err, "chat not found")
	assert.NoError(t, Multi{LogReporter{}}.Failure(context.Background(), Failure{Err: errors.New("x")}))
}
