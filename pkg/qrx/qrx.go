// Package qrx renders TOTP enrollment keys as QR data URLs suitable for
// embedding directly in a JSON response or an <img> tag.
package qrx

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image/png"

	"github.com/pquerna/otp"
)

// Size of the rendered QR image in pixels. 256px scans reliably from
// phone screens without bloating the response body.
const imageSize = 256

// DataURL encodes the key's otpauth:// URI as a PNG QR code wrapped in a
// base64 data URL.
func DataURL(key *otp.Key) (string, error) {
	img, err := key.Image(imageSize, imageSize)
	if err != nil {
		return "", fmt.Errorf("qrx: render QR image: %w", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("qrx: encode PNG: %w", err)
	}

	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
