package duel

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/samber/lo"

	"f1duel/pkg/model"
	"f1duel/pkg/summary"
)

const (
	commandRaces    = "/races"
	subcommandRaces = "races"
	racesPerPage    = 8
	buttonRacesPrev = "⬅️ Previous"
	buttonRacesNext = "Next ➡️"
	usageRaces      = "/races <year>"
)

func racesPages(events []model.Event) int {
	return (len(events) + racesPerPage - 1) / racesPerPage
}

// racesTextMarkup renders one page of the calendar with the navigation
// buttons. Callback data is "races:<year>:<page>".
func racesTextMarkup(year, page int, events []model.Event) (string, tgbotapi.InlineKeyboardMarkup) {
	maxPages := racesPages(events)
	chunks := lo.Chunk(events, racesPerPage)
	lines := []string{fmt.Sprintf("%d calendar (%d/%d)", year, page+1, maxPages)}
	for _, e := range chunks[page] {
		lines = append(lines, fmt.Sprintf(" ▸ %s, %s (%s)", e.EventName, e.Country, e.EventDate.Format(summary.DateLayout)))
	}

	var row []tgbotapi.InlineKeyboardButton
	if page > 0 {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(buttonRacesPrev, fmt.Sprintf("%s:%d:%d", subcommandRaces, year, page-1)))
	}
	if page < maxPages-1 {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(buttonRacesNext, fmt.Sprintf("%s:%d:%d", subcommandRaces, year, page+1)))
	}
	return strings.Join(lines, "\n"), tgbotapi.NewInlineKeyboardMarkup(row)
}

func (da *DuelApp) sendRaces(ctx context.Context, chatId int64, messageId *int, year, page int) error {
	events, err := da.provider.Meetings(ctx, year)
	if err != nil {
		return da.sendWarning(chatId, err)
	}
	if len(events) == 0 {
		return da.send(chatId, fmt.Sprintf("No races in %d", year))
	}
	page = lo.Clamp(page, 0, racesPages(events)-1)
	text, keyboard := racesTextMarkup(year, page, events)

	var cfg tgbotapi.Chattable
	if messageId == nil {
		msg := tgbotapi.NewMessage(chatId, text)
		if len(keyboard.InlineKeyboard[0]) > 0 {
			msg.ReplyMarkup = keyboard
		}
		cfg = msg
	} else {
		msg := tgbotapi.NewEditMessageText(chatId, *messageId, text)
		msg.ReplyMarkup = &keyboard
		cfg = msg
	}
	_, err = da.bot.Send(cfg)
	return err
}

func (da *DuelApp) renderRaces(fields []string) func(ctx context.Context, chatId int64) error {
	return func(ctx context.Context, chatId int64) error {
		if len(fields) != 1 {
			return da.send(chatId, usageRaces)
		}
		year, err := strconv.Atoi(fields[0])
		if err != nil {
			return da.send(chatId, usageRaces)
		}
		return da.sendRaces(ctx, chatId, nil, year, 0)
	}
}

func (da *DuelApp) renderRacesCallback(data []string) func(ctx context.Context, query *tgbotapi.CallbackQuery) error {
	return func(ctx context.Context, query *tgbotapi.CallbackQuery) error {
		if len(data) != 3 || query.Message == nil {
			return nil
		}
		year, err := strconv.Atoi(data[1])
		if err != nil {
			return nil
		}
		page, err := strconv.Atoi(data[2])
		if err != nil {
			return nil
		}
		return da.sendRaces(ctx, query.Message.Chat.ID, &query.Message.MessageID, year, page)
	}
}
