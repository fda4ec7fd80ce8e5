package steam_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"buff_autoaccept/internal/infrastructure/steam"
)

func TestConfirmationKey(t *testing.T) {
	rq := require.New(t)

	key, err := steam.ConfirmationKey("c2VjcmV0", 1700000000, "conf")
	rq.NoError(err)
	rq.Equal("4LBOmu/LzpxSU/QI05VXAYLdZBo=", key)

	_, err = steam.ConfirmationKey("not base64!", 1, "conf")
	rq.Error(err)
}

func TestDeviceID(t *testing.T) {
	rq := require.New(t)

	rq.Equal("android:ca748b58-133d-73d0-adcd-109baa02c0fa", steam.DeviceID("76561198000000001"))
}
