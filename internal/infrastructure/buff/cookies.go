package buff

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
)

// CookieFile читает cookie BUFF из файла. Берётся только первый сегмент до ";"
// (session=...), переводы строк выкидываются.
type CookieFile struct {
	path string

	mu     sync.RWMutex
	cookie string
}

func NewCookieFile(path string) *CookieFile {
	return &CookieFile{path: path}
}

// Authenticate перечитывает файл. Вызывается на старте и после 401.
func (f *CookieFile) Authenticate(context.Context) error {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return fmt.Errorf("os.ReadFile: %w", err)
	}

	cookie := ParseCookie(string(data))
	if cookie == "" {
		return fmt.Errorf("%s: %w", f.path, ErrEmptyCookie)
	}

	f.mu.Lock()
	f.cookie = cookie
	f.mu.Unlock()

	return nil
}

func (f *CookieFile) Cookie() string {
	f.mu.RLock()
	defer f.mu.RUnlock()

	return f.cookie
}

func ParseCookie(raw string) string {
	raw = strings.ReplaceAll(raw, "\r", "")
	raw = strings.ReplaceAll(raw, "\n", "")
	first, _, _ := strings.Cut(raw, ";")

	return strings.TrimSpace(first)
}
