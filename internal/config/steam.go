package config

import "time"

type Steam struct {
	AccountPath  string        `env:"STEAM_ACCOUNT_PATH" envDefault:"config/steam_account_info.json"`
	SessionPath  string        `env:"STEAM_SESSION_PATH" envDefault:"session/steam_session.json"`
	CommunityURL string        `env:"STEAM_COMMUNITY_URL" envDefault:"https://steamcommunity.com"`
	APIURL       string        `env:"STEAM_API_URL" envDefault:"https://api.steampowered.com"`
	Timeout      time.Duration `env:"STEAM_TIMEOUT" envDefault:"30s"`
}
