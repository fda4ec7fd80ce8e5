package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled()) //nolint:gochecknoglobals // skip

// Task содержит настройки автоприёма из TOML-файла.
type Task struct {
	Interval              duration `toml:"interval"`
	RequestPause          duration `toml:"request_pause"`
	AcceptRetries         int      `toml:"accept_retries" validate:"gte=1"`
	RequireBuyerSendOffer bool     `toml:"require_buyer_send_offer"`

	Servers []string `toml:"servers" validate:"dive,required"`

	Protection Protection `toml:"protection"`

	SellNotification              *Template `toml:"sell_notification"`
	ProtectionNotification        *Template `toml:"protection_notification"`
	BuffCookieExpiredNotification *Template `toml:"buff_cookie_expired_notification"`

	Games []Game `toml:"games" validate:"required,min=1,dive"`
}

type Protection struct {
	Enabled      bool    `toml:"enabled"`
	Percentage   float64 `toml:"percentage" validate:"gte=0"`
	MinimumPrice float64 `toml:"minimum_price" validate:"gte=0"`
}

type Template struct {
	Title string `toml:"title"`
	Body  string `toml:"body"`
}

type Game struct {
	Name  string `toml:"game" validate:"required"`
	AppID int    `toml:"app_id" validate:"gt=0"`
}

// duration позволяет писать в TOML строки вида "5s" или "5m".
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))

	return err
}

func (d duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

func DefaultTask() Task {
	return Task{
		Interval:      duration{300 * time.Second},
		RequestPause:  duration{5 * time.Second},
		AcceptRetries: 1,
		Protection: Protection{
			Percentage:   0.9,
			MinimumPrice: 1,
		},
		Games: []Game{
			{Name: "csgo", AppID: 730},
			{Name: "dota2", AppID: 570},
		},
	}
}

func LoadTask(path string) (Task, error) {
	task := DefaultTask()
	defaultGames := task.Games
	task.Games = nil

	if _, err := toml.DecodeFile(path, &task); err != nil {
		return Task{}, fmt.Errorf("toml.DecodeFile: %w", err)
	}

	if len(task.Games) == 0 {
		task.Games = defaultGames
	}

	if err := task.Validate(); err != nil {
		return Task{}, fmt.Errorf("task.Validate: %w", err)
	}

	return task, nil
}

func (t Task) Validate() error {
	if err := validate.Struct(t); err != nil {
		return fmt.Errorf("validate.Struct: %w", err)
	}

	if t.Interval.Duration <= 0 {
		return errors.New("interval must be positive")
	}

	if t.RequestPause.Duration < 0 {
		return errors.New("request_pause must not be negative")
	}

	return nil
}

func (t Task) PollInterval() time.Duration {
	return t.Interval.Duration
}

func (t Task) Pause() time.Duration {
	return t.RequestPause.Duration
}
