package steam

import (
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

const loginSecureCookie = "steamLoginSecure"

type sessionCookie struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// SessionStore хранит cookie сессии Steam в JSON-файле. Файл обновляет
// внешний инструмент входа, сервис только читает и пересохраняет его.
type SessionStore struct {
	path string
}

func NewSessionStore(path string) *SessionStore {
	return &SessionStore{path: path}
}

func (s *SessionStore) Load() ([]*http.Cookie, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("os.ReadFile: %w", err)
	}

	var stored []sessionCookie
	if err = json.Unmarshal(data, &stored); err != nil {
		return nil, fmt.Errorf("json.Unmarshal: %w", err)
	}

	cookies := make([]*http.Cookie, 0, len(stored))
	for _, c := range stored {
		if c.Name == "" {
			continue
		}

		cookies = append(cookies, &http.Cookie{Name: c.Name, Value: c.Value})
	}

	if len(cookies) == 0 {
		return nil, ErrNoSession
	}

	return cookies, nil
}

func (s *SessionStore) Save(cookies []*http.Cookie) error {
	stored := make([]sessionCookie, 0, len(cookies))
	for _, c := range cookies {
		stored = append(stored, sessionCookie{Name: c.Name, Value: c.Value})
	}

	data, err := json.MarshalIndent(stored, "", "  ")
	if err != nil {
		return fmt.Errorf("json.MarshalIndent: %w", err)
	}

	if err = os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("os.MkdirAll: %w", err)
	}

	tmp := s.path + ".tmp"
	if err = os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("os.WriteFile: %w", err)
	}

	if err = os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("os.Rename: %w", err)
	}

	return nil
}

// parseLoginSecure разбирает cookie вида "<steamid>%7C%7C<access token>".
func parseLoginSecure(value string) (steamID, accessToken string, ok bool) {
	decoded, err := url.QueryUnescape(value)
	if err != nil {
		return "", "", false
	}

	steamID, accessToken, ok = strings.Cut(decoded, "||")
	if !ok || steamID == "" {
		return "", "", false
	}

	return steamID, accessToken, true
}
