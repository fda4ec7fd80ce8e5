// Данный файл должен быть сгенерирован из openapi спецификации и называться types.gen.go
package rest

import "time"

// Status Состояние воркера автоприёма
type Status struct {
	Running         bool           `json:"running"`
	Nickname        string         `json:"nickname"`
	SteamID         string         `json:"steamId"`
	Iterations      int            `json:"iterations"`
	LastStartedAt   *time.Time     `json:"lastStartedAt,omitempty"`
	LastFinishedAt  *time.Time     `json:"lastFinishedAt,omitempty"`
	NextIterationAt *time.Time     `json:"nextIterationAt,omitempty"`
	LastError       string         `json:"lastError,omitempty"`
	Pending         map[string]int `json:"pending"`
	IgnoredOffers   int            `json:"ignoredOffers"`
	KnownOrders     int            `json:"knownOrders"`
}

// IgnoredOffer Оффер, который больше не обрабатывается в этом запуске
type IgnoredOffer struct {
	OfferID   string    `json:"offerId"`
	Outcome   string    `json:"outcome"`
	State     string    `json:"state,omitempty"`
	IgnoredAt time.Time `json:"ignoredAt"`
}

// JournalEntry Запись журнала решений
type JournalEntry struct {
	OfferID   string    `json:"offerId"`
	Game      string    `json:"game,omitempty"`
	GoodsID   string    `json:"goodsId,omitempty"`
	Outcome   string    `json:"outcome"`
	State     string    `json:"state,omitempty"`
	SalePrice *string   `json:"salePrice,omitempty"`
	LowPrice  *string   `json:"lowPrice,omitempty"`
	Reason    string    `json:"reason,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Error Модель ошибок
type Error struct {
	// Code Код ошибки
	Code ErrorCode `json:"code"`

	// Message Сообщение об ошибке (для отображения в UI в будущем)
	Message string `json:"message"`

	// SupportID Идентификатор запроса для поддержки
	SupportID string `json:"supportId"`
}

// ErrorCode Код ошибки
type ErrorCode string
