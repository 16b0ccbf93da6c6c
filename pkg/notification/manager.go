package notification

import (
	"context"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/nikoksr/notify"

	"f1duel/log"
	"f1duel/pkg/model"
	"f1duel/pkg/settings"
)

type Lister interface {
	ListSubscribers() ([]settings.TelegramUser, error)
}

// NotifierFactory builds the service delivering a message to chatIDs.
type NotifierFactory func(chatIDs []int64) notify.Notifier

// TelegramNotifier sends through the bot client.
func TelegramNotifier(bot *tgbotapi.BotAPI) NotifierFactory {
	return func(chatIDs []int64) notify.Notifier {
		tg := NewTelegram(bot)
		tg.AddReceivers(chatIDs...)
		return tg
	}
}

type Manager struct {
	lister      Lister
	newNotifier NotifierFactory
	logger      *log.Logger
}

func NewManager(lister Lister, newNotifier NotifierFactory) *Manager {
	return &Manager{
		lister:      lister,
		newNotifier: newNotifier,
		logger:      log.Default().Named("notification"),
	}
}

// Start delivers every shared duel received on sharedChan until ctx is done
// or the channel is closed.
func (m *Manager) Start(ctx context.Context, sharedChan <-chan model.DuelShared) {
	for {
		select {
		case <-ctx.Done():
			return
		case shared, ok := <-sharedChan:
			if !ok {
				return
			}
			m.handleNotification(ctx, shared)
		}
	}
}

func (m *Manager) handleNotification(ctx context.Context, shared model.DuelShared) {
	receipients, err := m.lister.ListSubscribers()
	if err != nil {
		m.logger.Error("error listing subscribers", log.ErrorField(err))
		return
	}
	m.logger.Info("sending notification", log.String("title", shared.Title), log.Int("receipients", len(receipients)))
	if err := m.sendNotification(ctx, receipients, shared); err != nil {
		m.logger.Error("error notifying users", log.ErrorField(err))
	}
}

func (m *Manager) sendNotification(ctx context.Context, tusers []settings.TelegramUser, shared model.DuelShared) error {
	if len(tusers) == 0 {
		return nil
	}

	chatIDs := make([]int64, 0, len(tusers))
	for _, tuser := range tusers {
		chatID, err := strconv.ParseInt(tuser.ChatID, 0, 64)
		if err != nil {
			m.logger.Warn("invalid chat id", log.String("user", tuser.ID), log.String("chat", tuser.ChatID))
			continue
		}
		chatIDs = append(chatIDs, chatID)
	}
	if len(chatIDs) == 0 {
		return nil
	}

	n := notify.NewWithServices(m.newNotifier(chatIDs))
	return n.Send(ctx, shared.Title, shared.Body)
}
