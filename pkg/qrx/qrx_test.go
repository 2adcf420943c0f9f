package qrx

import (
	"bytes"
	"encoding/base64"
	"image/png"
	"strings"
	"testing"

	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/require"
)

func TestDataURLProducesScannablePNG(t *testing.T) {
	t.Parallel()

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      "gestion-riesgos",
		AccountName: "a@x.com",
	})
	require.NoError(t, err)

	url, err := DataURL(key)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(url, "data:image/png;base64,"))

	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(url, "data:image/png;base64,"))
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(raw))
	require.NoError(t, err)
	require.Equal(t, imageSize, img.Bounds().Dx())
	require.Equal(t, imageSize, img.Bounds().Dy())
}
