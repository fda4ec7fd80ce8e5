package steam

import (
	"fmt"
	"os"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals

// Account хранит данные Steam Guard, нужные для подтверждения обменов.
type Account struct {
	Username       string `json:"username"`
	IdentitySecret string `json:"identity_secret"`
	SharedSecret   string `json:"shared_secret"`
}

func LoadAccount(path string) (Account, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Account{}, fmt.Errorf("os.ReadFile: %w", err)
	}

	var account Account
	if err = json.Unmarshal(data, &account); err != nil {
		return Account{}, fmt.Errorf("json.Unmarshal: %w", err)
	}

	if account.IdentitySecret == "" {
		return Account{}, fmt.Errorf("%s: identity_secret is empty", path)
	}

	return account, nil
}
