package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/rs/xid"
	"github.com/shopspring/decimal"

	"buff_autoaccept/internal/domain/entity"
	"buff_autoaccept/internal/infrastructure/buff"
	"buff_autoaccept/internal/infrastructure/steam"
	"buff_autoaccept/pkg/contextx"
	"buff_autoaccept/pkg/logx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

var (
	ErrAuthentication       = errors.New("buff authentication failed")
	ErrSteamAccountMismatch = errors.New("steam account differs from the one bound to buff")
)

type Buff interface {
	AccountState(ctx context.Context) (string, error)
	BoundSteamID(ctx context.Context) (string, error)
	RequireBuyerSendOffer(ctx context.Context) error
	MessageNotification(ctx context.Context) (entity.PendingCounts, error)
	SteamTrades(ctx context.Context) ([]entity.TradeOffer, error)
	ToDeliver(ctx context.Context, game entity.GameType) ([]entity.OrderInfo, error)
	SellOrderHistory(ctx context.Context, game entity.GameType) ([]entity.OrderInfo, error)
}

type Steam interface {
	SteamID() string
	IsSessionAlive(ctx context.Context) (bool, error)
	ReLogin(ctx context.Context) error
	SaveSession() error
	AcceptOffer(ctx context.Context, offerID string) (steam.AcceptResult, error)
	GetOfferState(ctx context.Context, offerID string) (int, error)
	ConfirmOffer(ctx context.Context, offerID string) error
}

type Evaluator interface {
	Evaluate(ctx context.Context, offer entity.TradeOffer, order *entity.OrderInfo) (entity.Decision, error)
}

type Notifier interface {
	Notify(ctx context.Context, tmpl *entity.Template, offer entity.TradeOffer, order entity.OrderInfo)
	NotifyPlain(ctx context.Context, tmpl *entity.Template)
}

type Journal interface {
	Record(ctx context.Context, entry entity.JournalEntry) error
}

type Settings struct {
	Interval              time.Duration
	Pause                 time.Duration
	AcceptRetries         int
	RequireBuyerSendOffer bool
	Games                 []entity.GameType

	SellNotification          *entity.Template
	CookieExpiredNotification *entity.Template
}

// Status это снимок состояния воркера для HTTP API.
type Status struct {
	Running         bool
	Nickname        string
	SteamID         string
	Iterations      int
	LastStartedAt   time.Time
	LastFinishedAt  time.Time
	LastError       string
	Pending         entity.PendingCounts
	IgnoredOffers   int
	KnownOrders     int
	NextIterationAt time.Time
}

// OfferAcceptor сверяет офферы BUFF с сессией Steam: принимает проданное,
// подтверждает ожидающее подтверждения и больше не трогает обработанное.
type OfferAcceptor struct {
	buff      Buff
	steam     Steam
	evaluator Evaluator
	notifier  Notifier
	journal   Journal
	metrics   *Metrics
	steamMu   *sync.Mutex
	settings  Settings

	book *offerBook

	mu     sync.RWMutex
	status Status
}

func NewOfferAcceptor(
	buff Buff,
	steam Steam,
	evaluator Evaluator,
	notifier Notifier,
	steamMu *sync.Mutex,
	settings Settings,
) *OfferAcceptor {
	if settings.AcceptRetries < 1 {
		settings.AcceptRetries = 1
	}

	return &OfferAcceptor{
		buff:      buff,
		steam:     steam,
		evaluator: evaluator,
		notifier:  notifier,
		journal:   nopJournal{},
		steamMu:   steamMu,
		settings:  settings,
		book:      newOfferBook(),
	}
}

func (w *OfferAcceptor) WithJournal(journal Journal) *OfferAcceptor {
	w.journal = journal
	return w
}

func (w *OfferAcceptor) WithMetrics(metrics *Metrics) *OfferAcceptor {
	w.metrics = metrics
	return w
}

func (w *OfferAcceptor) Status() Status {
	w.mu.RLock()
	status := w.status
	w.mu.RUnlock()

	status.IgnoredOffers, status.KnownOrders = w.book.counts()

	return status
}

func (w *OfferAcceptor) IgnoredOffers() []IgnoredOffer {
	return w.book.ignoredOffers()
}

// Run крутит цикл сверки до отмены контекста или ошибки авторизации.
func (w *OfferAcceptor) Run(ctx context.Context) error {
	if err := w.startup(ctx); err != nil {
		return err
	}

	w.updateStatus(func(s *Status) { s.Running = true })
	defer w.updateStatus(func(s *Status) { s.Running = false })

	logger(ctx).Info("offer acceptor started", slog.Duration("interval", w.settings.Interval))

	for {
		traceID := xid.New().String()
		iterCtx := contextx.WithTraceID(ctx, contextx.TraceID(traceID))
		iterCtx = contextx.WithLogger(iterCtx, logger(ctx).With(slog.String(logx.FieldTraceID, traceID)))

		err := w.runIteration(iterCtx)

		if errors.Is(err, ErrAuthentication) {
			logger(iterCtx).Error("buff session expired, offer acceptor stopped", logx.Error(err))
			return err
		}

		if ctx.Err() != nil {
			logger(ctx).Info("offer acceptor stopped")
			return nil
		}

		if err != nil {
			logger(iterCtx).Error("iteration failed, will retry", logx.Error(err))
		}

		w.updateStatus(func(s *Status) { s.NextIterationAt = time.Now().Add(w.settings.Interval) })
		logger(ctx).Info("next check scheduled", slog.Duration("interval", w.settings.Interval))

		if err = wait(ctx, w.settings.Interval); err != nil {
			logger(ctx).Info("offer acceptor stopped")
			return nil
		}
	}
}

func (w *OfferAcceptor) runIteration(ctx context.Context) error {
	start := time.Now()
	w.updateStatus(func(s *Status) { s.LastStartedAt = start })

	err := w.iteration(ctx)

	w.updateStatus(func(s *Status) {
		s.Iterations++
		s.LastFinishedAt = time.Now()
		s.LastError = ""

		if err != nil {
			s.LastError = err.Error()
		}
	})

	if w.metrics != nil {
		w.metrics.iteration(time.Since(start).Seconds(), err)
	}

	return err
}

// startup проверяет cookie BUFF и что BUFF привязан к тому же аккаунту Steam.
func (w *OfferAcceptor) startup(ctx context.Context) error {
	nickname, err := w.refreshIdentity(ctx)
	if err != nil {
		return err
	}

	bound, err := w.buff.BoundSteamID(ctx)
	if errors.Is(err, buff.ErrLoginRequired) {
		return fmt.Errorf("buff.BoundSteamID: %w", errors.Join(ErrAuthentication, err))
	}

	if err != nil {
		return fmt.Errorf("buff.BoundSteamID: %w", err)
	}

	steamID := w.steam.SteamID()
	if bound != steamID {
		logger(ctx).Error("steam account mismatch",
			slog.String(logx.FieldSteamID, steamID),
			slog.String(logx.FieldBoundSteamID, bound),
		)

		return ErrSteamAccountMismatch
	}

	w.updateStatus(func(s *Status) { s.SteamID = steamID })

	logger(ctx).Info("logged in to buff",
		slog.String(logx.FieldNickname, nickname),
		slog.String(logx.FieldSteamID, steamID),
	)

	if w.settings.RequireBuyerSendOffer {
		if err = w.buff.RequireBuyerSendOffer(ctx); err != nil {
			logger(ctx).Error("failed to enable buyer send offer", logx.Error(err))
		}
	}

	return nil
}

func (w *OfferAcceptor) iteration(ctx context.Context) error {
	if err := w.checkSession(ctx); err != nil {
		return err
	}

	logger(ctx).Info("checking buff deliveries")

	if _, err := w.refreshIdentity(ctx); err != nil {
		return err
	}

	w.logPendingCounts(ctx)

	trades, err := w.buff.SteamTrades(ctx)
	if err != nil {
		return fmt.Errorf("buff.SteamTrades: %w", err)
	}

	candidates, err := w.fetchConfirmables(ctx)
	if err != nil {
		return err
	}

	logger(ctx).Info("pending offers found",
		slog.Int("to-accept", len(trades)),
		slog.Int("to-confirm", len(candidates)),
	)

	if err = w.processDeliverables(ctx, trades); err != nil {
		return err
	}

	return w.processConfirmables(ctx, candidates)
}

func (w *OfferAcceptor) checkSession(ctx context.Context) error {
	w.steamMu.Lock()
	defer w.steamMu.Unlock()

	alive, err := w.steam.IsSessionAlive(ctx)
	if err != nil {
		return fmt.Errorf("steam.IsSessionAlive: %w", err)
	}

	if alive {
		return nil
	}

	logger(ctx).Info("steam session expired, logging in again")

	if err = w.steam.ReLogin(ctx); err != nil {
		return fmt.Errorf("steam.ReLogin: %w", err)
	}

	if err = w.steam.SaveSession(); err != nil {
		logger(ctx).Error("failed to save steam session", logx.Error(err))
	}

	logger(ctx).Info("steam session updated")

	return nil
}

func (w *OfferAcceptor) refreshIdentity(ctx context.Context) (string, error) {
	nickname, err := w.buff.AccountState(ctx)
	if errors.Is(err, buff.ErrLoginRequired) {
		w.notifier.NotifyPlain(ctx, w.settings.CookieExpiredNotification)
		return "", fmt.Errorf("buff.AccountState: %w", errors.Join(ErrAuthentication, err))
	}

	if err != nil {
		return "", fmt.Errorf("buff.AccountState: %w", err)
	}

	w.updateStatus(func(s *Status) { s.Nickname = nickname })

	return nickname, nil
}

func (w *OfferAcceptor) logPendingCounts(ctx context.Context) {
	counts, err := w.buff.MessageNotification(ctx)
	if err != nil {
		logger(ctx).Error("failed to get pending delivery counts", logx.Error(err))
		return
	}

	w.updateStatus(func(s *Status) { s.Pending = counts })

	if counts.Total() == 0 {
		return
	}

	logger(ctx).Info("pending deliveries", slog.Int(logx.FieldCount, counts.Total()))

	for game, n := range counts {
		logger(ctx).Info("pending deliveries by game", slog.String(logx.FieldGame, game), slog.Int(logx.FieldCount, n))
	}
}

// fetchConfirmables собирает offer id заказов к отправке по всем играм
// и запоминает записи о продажах.
func (w *OfferAcceptor) fetchConfirmables(ctx context.Context) ([]string, error) {
	var candidates []string

	seen := make(map[string]struct{})

	for _, game := range w.settings.Games {
		orders, err := w.buff.ToDeliver(ctx, game)
		if err != nil {
			return nil, fmt.Errorf("buff.ToDeliver %s: %w", game.Name, err)
		}

		w.book.putOrders(orders)

		for _, order := range orders {
			if _, ok := seen[order.OfferID]; ok {
				continue
			}

			seen[order.OfferID] = struct{}{}
			candidates = append(candidates, order.OfferID)
		}

		if err = w.pause(ctx); err != nil {
			return nil, err
		}
	}

	return candidates, nil
}

func (w *OfferAcceptor) processDeliverables(ctx context.Context, trades []entity.TradeOffer) error {
	for i, trade := range trades {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		log := logger(ctx).With(slog.String(logx.FieldOfferID, trade.ID))
		log.Info("processing offer", slog.Int("n", i+1))

		if w.book.isIgnored(trade.ID) {
			log.Info("offer already processed, skipped")
			continue
		}

		if err := w.processTrade(contextx.WithLogger(ctx, log), trade); err != nil {
			return err
		}
	}

	return nil
}

// processTrade возвращает ошибку только при отмене контекста, остальное логируется.
// Состояние оффера: pending -> accepted (-> to-confirm -> accepted) или pending -> ignored.
func (w *OfferAcceptor) processTrade(ctx context.Context, trade entity.TradeOffer) error {
	trade.State = entity.OfferStatePending
	order := w.orderFor(ctx, trade)

	decision, err := w.evaluator.Evaluate(ctx, trade, order)
	if err != nil {
		logger(ctx).Error("failed to evaluate offer, will retry", logx.Error(err))
		w.record(ctx, trade, order, entity.Decision{}, entity.OutcomeFailed, err.Error())

		return nil
	}

	if w.metrics != nil {
		w.metrics.priceLookup(decision)
	}

	if !decision.Accept {
		trade.State = entity.OfferStateIgnored
		w.ignore(ctx, trade.ID, entity.OutcomeRejected)
		w.record(ctx, trade, order, decision, entity.OutcomeRejected, "sale price below protection threshold")

		return nil
	}

	result, err := w.steam.AcceptOffer(ctx, trade.ID)
	if err != nil {
		attempt := w.book.addAttempt(trade.ID)
		logger(ctx).Error("failed to accept offer", slog.Int(logx.FieldAttempt, attempt), logx.Error(err))

		if attempt >= w.settings.AcceptRetries {
			trade.State = entity.OfferStateIgnored
			w.ignore(ctx, trade.ID, entity.OutcomeFailed)
			w.record(ctx, trade, order, decision, entity.OutcomeFailed, err.Error())
		}

		return w.pause(ctx)
	}

	trade.State = entity.OfferStateAccepted
	if result.NeedsConfirmation {
		trade.State = entity.OfferStateToConfirm
	}

	w.ignore(ctx, trade.ID, entity.OutcomeAccepted)
	w.record(ctx, trade, order, decision, entity.OutcomeAccepted, "")
	logger(ctx).Info("offer accepted and added to ignore list", slog.String(logx.FieldState, string(trade.State)))

	if result.NeedsConfirmation && w.confirm(ctx, trade.ID) {
		trade.State = entity.OfferStateAccepted
	}

	var soldOrder entity.OrderInfo
	if order != nil {
		soldOrder = *order
	}

	w.notifier.Notify(ctx, w.settings.SellNotification, trade, soldOrder)

	return w.pause(ctx)
}

// orderFor берёт запись о продаже из книги, при отсутствии подтягивает историю продаж игры.
func (w *OfferAcceptor) orderFor(ctx context.Context, trade entity.TradeOffer) *entity.OrderInfo {
	if order, ok := w.book.order(trade.ID); ok {
		return &order
	}

	game := entity.GameType{Name: trade.Game, AppID: trade.AppID}
	for _, g := range w.settings.Games {
		if g.AppID == trade.AppID {
			game = g
			break
		}
	}

	orders, err := w.buff.SellOrderHistory(ctx, game)
	if err != nil {
		logger(ctx).Error("failed to get sell order history", logx.Error(err))
		return nil
	}

	w.book.putOrders(orders)

	if err = w.pause(ctx); err != nil {
		return nil
	}

	if order, ok := w.book.order(trade.ID); ok {
		return &order
	}

	return nil
}

func (w *OfferAcceptor) processConfirmables(ctx context.Context, candidates []string) error {
	for _, offerID := range candidates {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		log := logger(ctx).With(slog.String(logx.FieldOfferID, offerID))

		if w.book.isIgnored(offerID) {
			log.Info("offer already processed, skipped")
			continue
		}

		offerCtx := contextx.WithLogger(ctx, log)

		state, err := w.steam.GetOfferState(offerCtx, offerID)

		switch {
		case err != nil:
			log.Error("failed to get offer state", logx.Error(err))
		case state == steam.TradeOfferStateNeedsConfirmation:
			w.confirm(offerCtx, offerID)
		default:
			log.Info("offer is not awaiting confirmation", slog.Int(logx.FieldState, state))
		}

		if err = w.pause(ctx); err != nil {
			return err
		}
	}

	return nil
}

// confirm подтверждает оффер под общей блокировкой сессии Steam.
func (w *OfferAcceptor) confirm(ctx context.Context, offerID string) bool {
	w.steamMu.Lock()
	err := w.steam.ConfirmOffer(ctx, offerID)
	w.steamMu.Unlock()

	if err != nil {
		logger(ctx).Error("failed to confirm offer", logx.Error(err))
		return false
	}

	w.ignore(ctx, offerID, entity.OutcomeConfirmed)

	if w.metrics != nil {
		w.metrics.offer(entity.OutcomeConfirmed)
	}

	entry := entity.JournalEntry{OfferID: offerID, Outcome: entity.OutcomeConfirmed, State: entity.OfferStateAccepted}
	if err = w.journal.Record(ctx, entry); err != nil {
		logger(ctx).Error("failed to write offer journal", logx.Error(err))
	}

	logger(ctx).Info("offer confirmed and added to ignore list")

	return true
}

func (w *OfferAcceptor) ignore(_ context.Context, offerID string, outcome entity.Outcome) {
	total := w.book.ignore(offerID, outcome)

	if w.metrics != nil {
		w.metrics.ignoredOffers.Set(float64(total))
	}
}

func (w *OfferAcceptor) record(
	ctx context.Context,
	trade entity.TradeOffer,
	order *entity.OrderInfo,
	decision entity.Decision,
	outcome entity.Outcome,
	reason string,
) {
	if w.metrics != nil {
		w.metrics.offer(outcome)
	}

	entry := entity.JournalEntry{
		OfferID: trade.ID,
		Game:    trade.Game,
		Outcome: outcome,
		State:   trade.State,
		Reason:  reason,
	}

	if goods, ok := trade.PrimaryGoods(); ok {
		entry.GoodsID = goods.GoodsID
	}

	if order != nil {
		entry.SalePrice = decimal.NewNullDecimal(order.Price)
	}

	if !decision.LowPrice.IsZero() {
		entry.LowPrice = decimal.NewNullDecimal(decision.LowPrice)
	}

	if err := w.journal.Record(ctx, entry); err != nil {
		logger(ctx).Error("failed to write offer journal", logx.Error(err))
	}
}

func (w *OfferAcceptor) pause(ctx context.Context) error {
	return wait(ctx, w.settings.Pause)
}

func (w *OfferAcceptor) updateStatus(fn func(*Status)) {
	w.mu.Lock()
	fn(&w.status)
	w.mu.Unlock()
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
