package application

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"buff_autoaccept/internal/config"
	"buff_autoaccept/internal/domain/entity"
	"buff_autoaccept/internal/domain/service/protection"
	"buff_autoaccept/internal/infrastructure/buff"
	"buff_autoaccept/internal/infrastructure/notifier"
	"buff_autoaccept/internal/infrastructure/persistence"
	"buff_autoaccept/internal/infrastructure/steam"
	"buff_autoaccept/internal/server"
	"buff_autoaccept/internal/transport/bot"
	"buff_autoaccept/internal/worker"
	"buff_autoaccept/pkg/application/connectors"
	"buff_autoaccept/pkg/application/modules"
	"buff_autoaccept/pkg/contextx"
	"buff_autoaccept/pkg/httpx"
	"buff_autoaccept/pkg/logx"
)

const (
	logFieldMaxLen              = 4096
	notifyTimeout               = 30 * time.Second
	httpServerReadHeaderTimeout = 5 * time.Second
)

type journal interface {
	worker.Journal
	Recent(ctx context.Context, limit int) ([]entity.JournalEntry, error)
	ByOffer(ctx context.Context, offerID string) ([]entity.JournalEntry, error)
}

func Run(ctx context.Context, log *slog.Logger) error {
	// 1. Config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config.Load: %w", err)
	}

	level, err := logx.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		log.Warn("unknown log level, using info", logx.Error(err))
	}

	log = logx.New(os.Stdout, level).With(
		slog.String(logx.FieldAppName, cfg.App.Name),
		slog.String(logx.FieldAppVersion, cfg.App.Version),
	)
	slog.SetDefault(log)

	ctx = contextx.WithLogger(ctx, log)

	// 2. HTTP transport
	masker := logx.NewSensitiveDataMasker()

	transport := func(service string) http.RoundTripper {
		if !cfg.App.LogHTTP {
			return http.DefaultTransport
		}

		return httpx.NewLoggingRoundTripper(
			http.DefaultTransport,
			httpx.WithSensitiveDataMasker(masker),
			httpx.WithLogFieldMaxLen(logFieldMaxLen),
			httpx.WithService(service),
		)
	}

	// 3. BUFF
	cookies := buff.NewCookieFile(cfg.Buff.CookiesPath)
	if err = cookies.Authenticate(ctx); err != nil {
		return fmt.Errorf("cookies.Authenticate: %w", err)
	}

	log.Info("buff cookies loaded, logging in")

	buffHTTP := &http.Client{
		Transport: httpx.NewAuthCookieRoundTripper(transport("buff"), cookies, http.Header{
			"User-Agent": {cfg.Buff.UserAgent},
		}),
		Timeout: cfg.Buff.Timeout,
	}

	buffClient := buff.NewClient(cfg.Buff.BaseURL, buffHTTP,
		buff.WithDevOverrides(cfg.Buff.MessageNotificationDevPath, cfg.Buff.SteamTradeDevPath),
	)

	// 4. Steam
	account, err := steam.LoadAccount(cfg.Steam.AccountPath)
	if err != nil {
		return fmt.Errorf("steam.LoadAccount: %w", err)
	}

	steamClient, err := steam.NewClient(
		steam.Config{
			CommunityURL: cfg.Steam.CommunityURL,
			APIURL:       cfg.Steam.APIURL,
			Timeout:      cfg.Steam.Timeout,
		},
		account,
		steam.NewSessionStore(cfg.Steam.SessionPath),
		transport("steam"),
	)
	if err != nil {
		return fmt.Errorf("steam.NewClient: %w", err)
	}

	// Сессию Steam трогают только под этим мьютексом.
	steamMu := &sync.Mutex{}

	// 5. Notifications
	senders, err := notifier.ParseServers(cfg.Task.Servers, &http.Client{Transport: transport("notify"), Timeout: notifyTimeout})
	if err != nil {
		return fmt.Errorf("notifier.ParseServers: %w", err)
	}

	dispatcher := notifier.NewDispatcher(senders...)
	defer dispatcher.Wait()

	// 6. Protection
	evaluator := protection.NewEvaluator(
		buffClient,
		protection.NewPriceCache(protection.PriceCacheTTL),
		dispatcher,
		protection.Settings{
			Enabled:      cfg.Task.Protection.Enabled,
			Percentage:   decimal.NewFromFloat(cfg.Task.Protection.Percentage),
			MinimumPrice: decimal.NewFromFloat(cfg.Task.Protection.MinimumPrice),
		},
	).WithNotification(newTemplate(cfg.Task.ProtectionNotification))

	// 7. Journal
	var offerJournal journal = persistence.NopJournal{}

	if cfg.Postgres.Enabled() {
		pg := &connectors.Postgres{
			DSN:             cfg.Postgres.DSN,
			MaxOpenConns:    cfg.Postgres.MaxOpenConns,
			MaxIdleConns:    cfg.Postgres.MaxIdleConns,
			ConnMaxLifetime: cfg.Postgres.ConnMaxLifetime,
		}
		db := pg.Client(ctx)
		defer pg.Close(ctx)

		offerJournal = persistence.NewOfferJournal(db)
	}

	// 8. Worker
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	acceptor := worker.NewOfferAcceptor(
		buffClient,
		steamClient,
		evaluator,
		dispatcher,
		steamMu,
		worker.Settings{
			Interval:                  cfg.Task.PollInterval(),
			Pause:                     cfg.Task.Pause(),
			AcceptRetries:             cfg.Task.AcceptRetries,
			RequireBuyerSendOffer:     cfg.Task.RequireBuyerSendOffer,
			Games:                     lo.Map(cfg.Task.Games, newGameType),
			SellNotification:          newTemplate(cfg.Task.SellNotification),
			CookieExpiredNotification: newTemplate(cfg.Task.BuffCookieExpiredNotification),
		},
	).
		WithJournal(offerJournal).
		WithMetrics(worker.NewMetrics(registry))

	// 9. Control bot
	var controlBot *bot.Bot

	if cfg.Bot.Enabled() {
		controlBot, err = bot.New(ctx, cfg.Bot.Token, cfg.Bot.AdminID, acceptor, offerJournal)
		if err != nil {
			return fmt.Errorf("bot.New: %w", err)
		}
	}

	// 10. Modules
	g, ctx := errgroup.WithContext(ctx)

	modules.ProbeServer{
		Name:          cfg.App.Name,
		Version:       cfg.App.Version,
		ListenAddress: cfg.Servers.ProbeAddress,
		Ready:         func() bool { return acceptor.Status().Running },
	}.Run(ctx, g)

	modules.MetricServer{
		ListenAddress: cfg.Servers.MetricsAddress,
		Gatherer:      registry,
	}.Run(ctx, g)

	modules.HTTPServer{
		ShutdownTimeout: cfg.Servers.ShutdownTimeout,
	}.Run(ctx, g, &http.Server{
		Addr:              cfg.Servers.HTTPAddress,
		Handler:           server.NewRouter(server.NewServer(server.NewStatusServer(acceptor, offerJournal)), masker, logFieldMaxLen),
		ReadHeaderTimeout: httpServerReadHeaderTimeout,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	})

	if controlBot != nil {
		g.Go(func() error {
			return controlBot.Run(ctx)
		})
	}

	g.Go(func() error {
		if err := acceptor.Run(ctx); err != nil {
			return fmt.Errorf("acceptor.Run: %w", err)
		}

		return nil
	})

	if err = g.Wait(); err != nil {
		return fmt.Errorf("g.Wait: %w", err)
	}

	log.Info("application stopping")

	return nil
}

func newTemplate(t *config.Template) *entity.Template {
	if t == nil {
		return nil
	}

	return &entity.Template{
		Title: t.Title,
		Body:  t.Body,
	}
}

func newGameType(g config.Game, _ int) entity.GameType {
	return entity.GameType{
		Name:  g.Name,
		AppID: g.AppID,
	}
}
