package config

import "time"

type Buff struct {
	BaseURL     string        `env:"BUFF_BASE_URL" envDefault:"https://buff.163.com"`
	CookiesPath string        `env:"BUFF_COOKIES_PATH" envDefault:"config/buff_cookies.txt"`
	UserAgent   string        `env:"BUFF_USER_AGENT" envDefault:"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/105.0.0.0 Safari/537.36 Edg/105.0.1343.27"`
	Timeout     time.Duration `env:"BUFF_TIMEOUT" envDefault:"30s"`

	// Локальные файлы для офлайн-отладки: если файл есть, сетевой вызов пропускается.
	MessageNotificationDevPath string `env:"BUFF_DEV_MESSAGE_NOTIFICATION_PATH" envDefault:"dev/message_notification.json"`
	SteamTradeDevPath          string `env:"BUFF_DEV_STEAM_TRADE_PATH" envDefault:"dev/steam_trade.json"`
}
