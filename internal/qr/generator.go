package qr

import (
	"encoding/base64"
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

const dataURLPrefix = "data:image/png;base64,"

// Generator renders submission QR codes. The QR payload is the plain admin
// URL for a submission; the encrypted access token travels separately and is
// never embedded in the image.
type Generator struct {
	baseURL string
	size    int
}

// NewGenerator builds a generator for the given public base URL. size is the
// rendered image width/height in pixels; values <= 0 fall back to 256.
func NewGenerator(baseURL string, size int) *Generator {
	if size <= 0 {
		size = 256
	}
	return &Generator{baseURL: baseURL, size: size}
}

// AdminURL is the address encoded into the printed QR image.
func (g *Generator) AdminURL(submissionID string) string {
	return fmt.Sprintf("%s/admin/submission/%s", g.baseURL, submissionID)
}

// ScanURL is the token-keyed address used by the separate QR-scan flow.
func (g *Generator) ScanURL(tok string) string {
	return fmt.Sprintf("%s/qr/%s", g.baseURL, tok)
}

// GenerateDataURL renders content as a PNG QR code at medium error
// correction and returns it as a data URL.
func (g *Generator) GenerateDataURL(content string) (string, error) {
	png, err := qrcode.Encode(content, qrcode.Medium, g.size)
	if err != nil {
		return "", fmt.Errorf("failed to generate QR code: %w", err)
	}
	return dataURLPrefix + base64.StdEncoding.EncodeToString(png), nil
}
