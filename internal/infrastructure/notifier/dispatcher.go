package notifier

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"buff_autoaccept/internal/domain/entity"
	"buff_autoaccept/pkg/contextx"
	"buff_autoaccept/pkg/logx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

const sendTimeout = 30 * time.Second

// Dispatcher рассылает уведомления во все каналы асинхронно: воркер не ждёт доставки.
type Dispatcher struct {
	senders []Sender
	wg      sync.WaitGroup
}

func NewDispatcher(senders ...Sender) *Dispatcher {
	return &Dispatcher{senders: senders}
}

// Notify рендерит шаблон по офферу и отправляет его.
func (d *Dispatcher) Notify(ctx context.Context, tmpl *entity.Template, offer entity.TradeOffer, order entity.OrderInfo) {
	if !tmpl.Configured() {
		return
	}

	vars := Variables(offer, order)
	d.Dispatch(ctx, Render(tmpl.Title, vars), Render(tmpl.Body, vars))
}

// NotifyPlain отправляет шаблон без подстановок.
func (d *Dispatcher) NotifyPlain(ctx context.Context, tmpl *entity.Template) {
	if !tmpl.Configured() {
		return
	}

	d.Dispatch(ctx, tmpl.Title, tmpl.Body)
}

func (d *Dispatcher) Dispatch(ctx context.Context, title, body string) {
	if len(d.senders) == 0 {
		return
	}

	ctx = context.WithoutCancel(ctx)

	for _, s := range d.senders {
		d.wg.Add(1)

		go func() {
			defer d.wg.Done()

			sendCtx, cancel := context.WithTimeout(ctx, sendTimeout)
			defer cancel()

			if err := s.Send(sendCtx, title, body); err != nil {
				logger(ctx).Error("notification not delivered",
					slog.String(logx.FieldService, s.Name()),
					logx.Error(err),
				)

				return
			}

			logger(ctx).Debug("notification sent", slog.String(logx.FieldService, s.Name()))
		}()
	}
}

// Wait дожидается всех начатых отправок.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}
