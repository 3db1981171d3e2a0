//go:build ocr

// Package ocr recovers text from rasterized pages.
//
// Scanned books embed no text layer, so identifier and cover-text
// recovery falls back to optical recognition of rendered page images.
// This implementation wraps the Tesseract engine via gosseract and is
// selected by the "ocr" build tag:
//
//	go build -tags ocr
//
// Tesseract must be installed on the system. On macOS:
//
//	brew install tesseract
//
// On Ubuntu/Debian:
//
//	apt-get install tesseract-ocr libtesseract-dev
//
// Without the tag a stub is compiled in and New reports ErrNotEnabled,
// which callers treat as "no recognition available" rather than a
// failure.
package ocr

import (
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

// Client performs optical text recognition on page images. A Client
// holds a Tesseract handle; release it with Close.
type Client struct {
	tess *gosseract.Client
}

// New creates a recognition client with the default language (English).
func New() (*Client, error) {
	return &Client{tess: gosseract.NewClient()}, nil
}

// Close releases the engine resources. Safe on a nil client.
func (c *Client) Close() error {
	if c == nil || c.tess == nil {
		return nil
	}
	return c.tess.Close()
}

// RecognizeImage runs recognition over encoded image data (PNG, JPEG,
// TIFF) and returns the text, trimmed. Pages rendered at 2x zoom or
// higher recognize considerably better than at natural size.
func (c *Client) RecognizeImage(imageData []byte) (string, error) {
	if err := c.tess.SetImageFromBytes(imageData); err != nil {
		return "", fmt.Errorf("set image: %w", err)
	}
	text, err := c.tess.Text()
	if err != nil {
		return "", fmt.Errorf("recognize: %w", err)
	}
	return strings.TrimSpace(text), nil
}

// SetLanguage selects the recognition language(s). Combine several
// with "+", e.g. "eng+deu". Tesseract must have the matching trained
// data installed.
func (c *Client) SetLanguage(lang string) error {
	return c.tess.SetLanguage(lang)
}
