package duel

import (
	"context"
	"fmt"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"f1duel/pkg/model"
)

func calendar(n int) []model.Event {
	events := make([]model.Event, n)
	start := time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)
	for i := range events {
		events[i] = model.Event{
			EventName: fmt.Sprintf("Grand Prix %d", i+1),
			Country:   "Country",
			EventDate: start.AddDate(0, 0, 14*i),
		}
	}
	return events
}

func TestRacesTextMarkup(t *testing.T) {
	events := calendar(20)

	text, markup := racesTextMarkup(2024, 0, events)
	assert.Contains(t, text, "2024 calendar (1/3)")
	assert.Contains(t, text, "Grand Prix 1, Country (02 Mar 2024)")
	assert.NotContains(t, text, "Grand Prix 9,")
	require.Len(t, markup.InlineKeyboard[0], 1)
	assert.Equal(t, "races:2024:1", *markup.InlineKeyboard[0][0].CallbackData)

	text, markup = racesTextMarkup(2024, 2, events)
	assert.Contains(t, text, "Grand Prix 20,")
	require.Len(t, markup.InlineKeyboard[0], 1)
	assert.Equal(t, "races:2024:1", *markup.InlineKeyboard[0][0].CallbackData)

	_, markup = racesTextMarkup(2024, 1, events)
	assert.Len(t, markup.InlineKeyboard[0], 2)
}

func TestRacesCommandAndCallback(t *testing.T) {
	app, bot := newApp(fakeLoader{events: calendar(10)}, nil)

	accept, handler := app.AcceptCommand("/races 2024")
	require.True(t, accept)
	require.NoError(t, handler(context.Background(), 3))
	require.Len(t, bot.sent, 1)
	assert.IsType(t, tgbotapi.InlineKeyboardMarkup{}, bot.sent[0].(tgbotapi.MessageConfig).ReplyMarkup)

	query := &tgbotapi.CallbackQuery{
		Data:    "races:2024:1",
		Message: &tgbotapi.Message{MessageID: 12, Chat: &tgbotapi.Chat{ID: 3}},
	}
	accept, callback := app.AcceptCallback(query)
	require.True(t, accept)
	require.NoError(t, callback(context.Background(), query))
	require.Len(t, bot.sent, 2)
	edit := bot.sent[1].(tgbotapi.EditMessageTextConfig)
	assert.Equal(t, 12, edit.MessageID)
	assert.Contains(t, edit.Text, "Grand Prix 10,")
}

func TestRacesSinglePageHasNoKeyboard(t *testing.T) {
	app, bot := newApp(fakeLoader{events: calendar(3)}, nil)

	_, handler := app.AcceptCommand("/races 2024")
	require.NoError(t, handler(context.Background(), 3))
	assert.Nil(t, bot.sent[0].(tgbotapi.MessageConfig).ReplyMarkup)
}

func TestRacesUsage(t *testing.T) {
	app, bot := newApp(fakeLoader{}, nil)

	_, handler := app.AcceptCommand("/races")
	require.NoError(t, handler(context.Background(), 3))
	assert.Equal(t, []string{usageRaces}, bot.texts())

	accept, _ := app.AcceptCallback(&tgbotapi.CallbackQuery{Data: "other:1"})
	assert.False(t, accept)
}
