package duel

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"

	"f1duel/log"
	"f1duel/pkg/apps"
	"f1duel/pkg/charts"
	"f1duel/pkg/menus"
	"f1duel/pkg/model"
	"f1duel/pkg/report"
	"f1duel/pkg/resources"
	"f1duel/pkg/settings"
)

const (
	commandDuel        = "/duel"
	commandPodium      = "/podium"
	commandSubscribe   = "/subscribe"
	commandUnsubscribe = "/unsubscribe"

	buttonSubscribe   = "Subscribe"
	buttonUnsubscribe = "Unsubscribe"
	buttonHelp        = "Help"

	usageDuel   = "/duel <year> <race> <session> <D1> <D2>\ne.g. /duel 2023 Monaco Race VER ALO"
	usagePodium = "/podium <year> <race> <session>\ne.g. /podium 2023 Monaco Race"
)

// Provider loads sessions and season calendars.
type Provider interface {
	LoadSession(ctx context.Context, year int, raceName, sessionType string) (*model.Session, error)
	Meetings(ctx context.Context, year int) ([]model.Event, error)
}

type TrackRenderer interface {
	TrackPNG(ctx context.Context, s *model.Session, l model.Lap) (resources.Resource, error)
}

type Subscriptions interface {
	Subscribe(user settings.TelegramUser) error
	Unsubscribe(userID string) (bool, error)
	IsSubscribed(userID string) (bool, error)
}

type DuelApp struct {
	bot          apps.Sender
	appMenu      menus.ApplicationMenu
	menuKeyboard tgbotapi.ReplyKeyboardMarkup
	provider     Provider
	tracks       TrackRenderer
	subs         Subscriptions
	logger       *log.Logger
}

// NewDuelApp builds the Telegram duel commands. tracks and subs may be nil, in
// which case track maps and subscriptions are not offered.
func NewDuelApp(bot apps.Sender, appMenu menus.ApplicationMenu, provider Provider, tracks TrackRenderer, subs Subscriptions) *DuelApp {
	menuKeyboard := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(buttonHelp),
			tgbotapi.NewKeyboardButton(buttonSubscribe),
			tgbotapi.NewKeyboardButton(buttonUnsubscribe),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(appMenu.ButtonBackTo()),
		),
	)
	return &DuelApp{
		bot:          bot,
		appMenu:      appMenu,
		menuKeyboard: menuKeyboard,
		provider:     provider,
		tracks:       tracks,
		subs:         subs,
		logger:       log.Default().Named("duel"),
	}
}

func (da *DuelApp) Menu() tgbotapi.ReplyKeyboardMarkup {
	return da.menuKeyboard
}

func (da *DuelApp) AcceptCommand(command string) (bool, func(ctx context.Context, chatId int64) error) {
	name, fields := splitCommand(command)
	switch name {
	case commandDuel:
		return true, da.renderDuel(fields)
	case commandPodium:
		return true, da.renderPodium(fields)
	case commandSubscribe:
		return true, da.renderSubscribe(true)
	case commandUnsubscribe:
		return true, da.renderSubscribe(false)
	case commandRaces:
		return true, da.renderRaces(fields)
	}
	return false, nil
}

func (da *DuelApp) AcceptButton(button string) (bool, func(ctx context.Context, chatId int64) error) {
	switch button {
	case da.appMenu.Name, buttonHelp:
		return true, da.renderHelp()
	case buttonSubscribe:
		return true, da.renderSubscribe(true)
	case buttonUnsubscribe:
		return true, da.renderSubscribe(false)
	case da.appMenu.ButtonBackTo():
		return true, func(ctx context.Context, chatId int64) error {
			msg := tgbotapi.NewMessage(chatId, "OK")
			msg.ReplyMarkup = da.appMenu.PrevMenu()
			_, err := da.bot.Send(msg)
			return err
		}
	}
	return false, nil
}

func (da *DuelApp) AcceptCallback(query *tgbotapi.CallbackQuery) (bool, func(ctx context.Context, query *tgbotapi.CallbackQuery) error) {
	data := strings.Split(query.Data, ":")
	if data[0] == subcommandRaces {
		return true, da.renderRacesCallback(data)
	}
	return false, nil
}

func (da *DuelApp) send(chatId int64, text string) error {
	msg := tgbotapi.NewMessage(chatId, text)
	_, err := da.bot.Send(msg)
	return err
}

func (da *DuelApp) sendTable(chatId int64, title, rendered string) error {
	msg := tgbotapi.NewMessage(chatId, report.CodeBlock(title, rendered))
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	_, err := da.bot.Send(msg)
	return err
}

func (da *DuelApp) sendWarning(chatId int64, err error) error {
	return da.send(chatId, fmt.Sprintf("⚠️ Error loading session: %s", err))
}

func (da *DuelApp) renderHelp() func(ctx context.Context, chatId int64) error {
	return func(ctx context.Context, chatId int64) error {
		message := "Compare two drivers of a session:\n\n" + usageDuel + "\n\n" + usagePodium + "\n\n" + usageRaces + "\n\n"
		message += fmt.Sprintf("%s - notify me when a duel is shared\n%s - stop notifications", commandSubscribe, commandUnsubscribe)
		msg := tgbotapi.NewMessage(chatId, message)
		msg.ReplyMarkup = da.menuKeyboard
		_, err := da.bot.Send(msg)
		return err
	}
}

func (da *DuelApp) renderPodium(fields []string) func(ctx context.Context, chatId int64) error {
	return func(ctx context.Context, chatId int64) error {
		args, err := parseSession(fields)
		if err != nil {
			return da.send(chatId, usagePodium)
		}
		s, err := da.provider.LoadSession(ctx, args.Year, args.Race, args.Session)
		if err != nil {
			da.logger.Warn("error loading session", log.String("race", args.Race), log.ErrorField(err))
			return da.sendWarning(chatId, err)
		}
		title := fmt.Sprintf("%s %d %s", s.Event.EventName, s.Year, s.Name)
		return da.sendTable(chatId, title, report.PodiumTable(s.Podium(3)))
	}
}

func (da *DuelApp) renderDuel(fields []string) func(ctx context.Context, chatId int64) error {
	return func(ctx context.Context, chatId int64) error {
		args, err := parseDuel(fields)
		if err != nil {
			return da.send(chatId, usageDuel)
		}
		s, err := da.provider.LoadSession(ctx, args.Year, args.Race, args.Session)
		if err != nil {
			da.logger.Warn("error loading session", log.String("race", args.Race), log.ErrorField(err))
			return da.sendWarning(chatId, err)
		}
		d, err := report.NewDuel(s, args.D1, args.D2)
		if err != nil {
			return da.sendWarning(chatId, err)
		}

		if err := da.sendTable(chatId, fmt.Sprintf("%s %d %s", s.Event.EventName, s.Year, s.Name), report.RaceTable(d.Race)); err != nil {
			return err
		}
		if err := da.sendTable(chatId, "Podium", report.PodiumTable(d.Podium)); err != nil {
			return err
		}
		if err := da.sendTable(chatId, d.Title(), report.BattleTable(d.Battle)); err != nil {
			return err
		}
		if err := da.sendTable(chatId, "Lap by lap", report.LapsTable(d.Laps1, d.Laps2, d.D1.Code, d.D2.Code)); err != nil {
			return err
		}
		if err := da.sendLapChart(chatId, d); err != nil {
			return err
		}
		return da.sendTrack(ctx, chatId, s, d)
	}
}

func (da *DuelApp) sendLapChart(chatId int64, d *report.Duel) error {
	var b bytes.Buffer
	err := charts.LapChartPNG(&b, d.Laps1, d.Laps2, d.D1.Code, d.D2.Code)
	if errors.Is(err, charts.ErrNotEnoughLaps) {
		return nil
	}
	if err != nil {
		return err
	}
	photo := tgbotapi.NewPhoto(chatId, tgbotapi.FileBytes{Name: "lapchart.png", Bytes: b.Bytes()})
	photo.Caption = d.Title()
	_, err = da.bot.Send(photo)
	return err
}

func (da *DuelApp) sendTrack(ctx context.Context, chatId int64, s *model.Session, d *report.Duel) error {
	if da.tracks == nil {
		return nil
	}
	fastest := d.Battle.Driver1.Fastest
	res, err := da.tracks.TrackPNG(ctx, s, fastest)
	if err != nil {
		da.logger.Warn("error building track map", log.String("event", s.Event.EventName), log.ErrorField(err))
		return nil
	}
	photo := tgbotapi.NewPhoto(chatId, tgbotapi.FilePath(res.FilePath()))
	photo.Caption = s.Event.EventName
	_, err = da.bot.Send(photo)
	return err
}

func (da *DuelApp) renderSubscribe(subscribe bool) func(ctx context.Context, chatId int64) error {
	return func(ctx context.Context, chatId int64) error {
		if da.subs == nil {
			return da.send(chatId, "Subscriptions are not available")
		}
		user, ok := apps.UserFrom(ctx)
		if !ok {
			return da.send(chatId, "Could not read the user")
		}
		userID := strconv.FormatInt(user.ID, 10)
		if !subscribe {
			removed, err := da.subs.Unsubscribe(userID)
			if err != nil {
				return err
			}
			if !removed {
				return da.send(chatId, "You were not subscribed")
			}
			return da.send(chatId, "Unsubscribed")
		}
		subscribed, err := da.subs.IsSubscribed(userID)
		if err != nil {
			return err
		}
		// the chat is stored again, notifications follow the last one used
		err = da.subs.Subscribe(settings.TelegramUser{
			ID:     userID,
			Name:   user.UserName,
			ChatID: strconv.FormatInt(chatId, 10),
		})
		if err != nil {
			return err
		}
		if subscribed {
			return da.send(chatId, "Already subscribed to shared duels")
		}
		return da.send(chatId, "Subscribed to shared duels 🔔")
	}
}
