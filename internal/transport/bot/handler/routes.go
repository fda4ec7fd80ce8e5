package handler

import (
	th "github.com/mymmrac/telego/telegohandler"

	"buff_autoaccept/internal/transport/bot/middleware"
)

func (h *Handler) RegisterRoutes(bh *th.BotHandler, adminID int64) {
	adminGroup := bh.Group(th.AnyMessage())
	adminGroup.Use(middleware.AdminOnly(adminID))

	adminGroup.HandleMessage(h.OnStart, th.CommandEqual("start"))
	adminGroup.HandleMessage(h.OnStatus, th.CommandEqual("status"))
	adminGroup.HandleMessage(h.OnIgnored, th.CommandEqual("ignored"))
	adminGroup.HandleMessage(h.OnJournal, th.CommandEqual("journal"))

	cbGroup := bh.Group(th.AnyCallbackQuery())
	cbGroup.Use(middleware.AdminOnly(adminID))

	cbGroup.HandleCallbackQuery(h.OnIgnoredCallback, th.CallbackDataPrefix(ignoredPagePrefix))
}
