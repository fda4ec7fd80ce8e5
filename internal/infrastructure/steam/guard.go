package steam

import (
	"crypto/hmac"
	"crypto/sha1" //nolint:gosec
	"encoding/base64"
	"encoding/binary"
	"encoding/hex"
	"fmt"
)

// ConfirmationKey считает подпись запроса к мобильным подтверждениям:
// base64(HMAC-SHA1(identity_secret, time || tag)).
func ConfirmationKey(identitySecret string, timestamp int64, tag string) (string, error) {
	secret, err := base64.StdEncoding.DecodeString(identitySecret)
	if err != nil {
		return "", fmt.Errorf("base64.DecodeString: %w", err)
	}

	buf := make([]byte, 8, 8+len(tag))
	binary.BigEndian.PutUint64(buf, uint64(timestamp)) //nolint:gosec
	buf = append(buf, tag...)

	mac := hmac.New(sha1.New, secret)
	mac.Write(buf)

	return base64.StdEncoding.EncodeToString(mac.Sum(nil)), nil
}

// DeviceID строит идентификатор устройства из steam id так же, как мобильный клиент.
func DeviceID(steamID string) string {
	sum := sha1.Sum([]byte(steamID)) //nolint:gosec
	h := hex.EncodeToString(sum[:])

	return "android:" + h[0:8] + "-" + h[8:12] + "-" + h[12:16] + "-" + h[16:20] + "-" + h[20:32]
}
