package mainapp

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"f1duel/log"
	"f1duel/pkg/apps"
	"f1duel/pkg/apps/duel"
	"f1duel/pkg/menus"
)

const (
	menuStart  = "/start"
	menuMenu   = "/menu"
	buttonDuel = "Duel"
	appName    = "menu"
)

var (
	menuKeyboard = tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(buttonDuel),
		),
	)
)

type menuer struct{}

func (m menuer) Menu() tgbotapi.ReplyKeyboardMarkup {
	return menuKeyboard
}

type MainApp struct {
	bot       apps.Sender
	accepters []apps.Accepter
	logger    *log.Logger
}

func NewMainApp(bot apps.Sender, provider duel.Provider, tracks duel.TrackRenderer, subs duel.Subscriptions) *MainApp {
	duelAppMenu := menus.NewApplicationMenu(buttonDuel, appName, menuer{})
	duelApp := duel.NewDuelApp(bot, duelAppMenu, provider, tracks, subs)

	return &MainApp{
		bot:       bot,
		accepters: []apps.Accepter{duelApp},
		logger:    log.Default().Named("bot"),
	}
}

// Run handles updates until ctx is done or the channel is closed.
func (m *MainApp) Run(ctx context.Context, updates <-chan tgbotapi.Update) {
	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			m.handleUpdate(ctx, update)
		}
	}
}

func (m *MainApp) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.Message != nil:
		m.handleMessage(ctx, update.Message)
	case update.CallbackQuery != nil:
		m.handleCallback(ctx, update.CallbackQuery)
	}
}

func (m *MainApp) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	user := message.From
	if user == nil || message.Chat == nil {
		return
	}
	m.logger.Debug("message received", log.String("user", user.UserName), log.String("text", message.Text))

	ctx = context.WithValue(ctx, apps.UserContextKey, user)
	ctx = context.WithValue(ctx, apps.ChatContextKey, message.Chat.ID)

	var accept bool
	var handler func(ctx context.Context, chatId int64) error
	if message.IsCommand() {
		accept, handler = m.AcceptCommand(message.Text)
	} else {
		accept, handler = m.AcceptButton(message.Text)
	}
	if !accept {
		return
	}
	if err := handler(ctx, message.Chat.ID); err != nil {
		m.logger.Error("error handling message", log.String("text", message.Text), log.ErrorField(err))
	}
}

func (m *MainApp) handleCallback(ctx context.Context, query *tgbotapi.CallbackQuery) {
	accept, handler := m.AcceptCallback(query)
	if !accept {
		return
	}
	ctx = context.WithValue(ctx, apps.UserContextKey, query.From)
	if err := handler(ctx, query); err != nil {
		m.logger.Error("error handling callback", log.String("data", query.Data), log.ErrorField(err))
	}
}

func (m *MainApp) AcceptCommand(command string) (bool, func(ctx context.Context, chatId int64) error) {
	if command == menuStart {
		return true, m.renderStart()
	} else if command == menuMenu {
		return true, m.renderMenu()
	}
	for _, accepter := range m.accepters {
		accept, handler := accepter.AcceptCommand(command)
		if accept {
			return true, handler
		}
	}

	return false, nil
}

func (m *MainApp) AcceptCallback(query *tgbotapi.CallbackQuery) (bool, func(ctx context.Context, query *tgbotapi.CallbackQuery) error) {
	for _, accepter := range m.accepters {
		accept, handler := accepter.AcceptCallback(query)
		if accept {
			return true, handler
		}
	}

	return false, nil
}

func (m *MainApp) AcceptButton(button string) (bool, func(ctx context.Context, chatId int64) error) {
	for _, accepter := range m.accepters {
		accept, handler := accepter.AcceptButton(button)
		if accept {
			return true, handler
		}
	}
	return false, nil
}

func (m *MainApp) renderStart() func(ctx context.Context, chatId int64) error {
	return func(ctx context.Context, chatId int64) error {
		message := "Hi, I compare the lap times of two Formula 1 drivers in a session.\n\n"
		message += "You can use the following command:\n\n"
		message += fmt.Sprintf("%s - Shows the bot menu\n", menuMenu)
		msg := tgbotapi.NewMessage(chatId, message)
		msg.ReplyMarkup = menuKeyboard
		_, err := m.bot.Send(msg)
		return err
	}
}

func (m *MainApp) renderMenu() func(ctx context.Context, chatId int64) error {
	return func(ctx context.Context, chatId int64) error {
		message := "Bot menu.\n\n"
		msg := tgbotapi.NewMessage(chatId, message)
		msg.ReplyMarkup = menuKeyboard
		_, err := m.bot.Send(msg)
		return err
	}
}
