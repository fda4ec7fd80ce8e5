package config

// Bot настраивает управляющий Telegram-бот. Пустой токен отключает бота.
type Bot struct {
	Token   string `env:"BOT_TOKEN" json:"-"`
	AdminID int64  `env:"BOT_ADMIN_ID"`
}

func (b Bot) Enabled() bool {
	return b.Token != "" && b.AdminID != 0
}
