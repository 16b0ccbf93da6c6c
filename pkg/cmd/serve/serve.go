package serve

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/spf13/cobra"

	"f1duel/log"
	"f1duel/pkg/apps/mainapp"
	"f1duel/pkg/cmd/provider"
	"f1duel/pkg/config"
	"f1duel/pkg/dashboard"
	"f1duel/pkg/ghostmap"
	"f1duel/pkg/model"
	"f1duel/pkg/notification"
	"f1duel/pkg/openf1"
	"f1duel/pkg/pubsub"
	"f1duel/pkg/resources"
	"f1duel/pkg/settings"
	"f1duel/pkg/webserver"
)

func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "starts the web dashboard and, when a token is set, the Telegram bot",
		RunE: func(cmd *cobra.Command, args []string) error {
			return startServer()
		},
	}
	cmd.Flags().StringVarP(&config.Addr,
		"addr",
		"a",
		config.DefaultAddr,
		"web dashboard listen address")
	cmd.Flags().StringVar(&config.ResourcesDir,
		"resources-dir",
		config.DefaultResources,
		"directory of the generated track maps")
	cmd.Flags().StringVar(&config.TelegramToken,
		"telegram-token",
		"",
		"Telegram bot token (the bot is disabled when empty)")
	cmd.Flags().IntVar(&config.FirstSeason,
		"first-season",
		2023,
		"oldest season offered in the selector")
	cmd.Flags().IntVar(&config.LastSeason,
		"last-season",
		time.Now().Year(),
		"most recent season offered in the selector")
	return cmd
}

func startServer() error {
	logger := log.Default().Named("serve")

	client, cm, err := provider.Open()
	if err != nil {
		return err
	}
	defer cm.Close()

	res, err := resources.NewBuilder(config.ResourcesDir, client)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var ps *pubsub.PubSub[model.DuelShared]
	if config.TelegramToken != "" {
		ps = pubsub.NewPubSub[model.DuelShared]()
		stop, err := startBot(ctx, client, res, ps)
		if err != nil {
			return err
		}
		defer stop()
	} else {
		logger.Info("no Telegram token, bot disabled")
	}

	wm := webserver.NewManager(config.Addr, res.Dir())
	dashboard.NewDashboard(wm.Router(), client, ps)
	ghostmap.NewGhostMap(wm.Router(), client, res)
	for _, route := range wm.Routes() {
		logger.Debug("route", log.String("path", route))
	}

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		logger.Info("signal received", log.String("signal", sig.String()))
		cancel()
	}()

	return wm.Serve(ctx)
}

// startBot runs the Telegram update loop and the notification manager until
// ctx is done. The returned func releases the bot resources.
func startBot(ctx context.Context, loader *openf1.Client, res *resources.Builder, ps *pubsub.PubSub[model.DuelShared]) (func(), error) {
	logger := log.Default().Named("serve")

	bot, err := tgbotapi.NewBotAPI(config.TelegramToken)
	if err != nil {
		return nil, err
	}
	logger.Info("authorized on account", log.String("account", bot.Self.UserName))

	sm, err := settings.NewManager(config.DB)
	if err != nil {
		return nil, err
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := bot.GetUpdatesChan(u)

	app := mainapp.NewMainApp(bot, loader, res, sm)
	go app.Run(ctx, updates)

	nm := notification.NewManager(sm, notification.TelegramNotifier(bot))
	go nm.Start(ctx, ps.Subscribe(pubsub.TopicDuelShared))

	return func() {
		bot.StopReceivingUpdates()
		ps.Close()
		if err := sm.Close(); err != nil {
			logger.Warn("closing settings", log.ErrorField(err))
		}
	}, nil
}
