//go:build !ocr

// Package ocr recovers text from rasterized pages.
//
// This is the stub compiled without the "ocr" build tag. New reports
// ErrNotEnabled and callers degrade to embedded text only: identifier
// and cover recovery simply skip their optical stages. Rebuild with
//
//	go build -tags ocr
//
// to get the Tesseract-backed implementation (requires Tesseract on
// the system).
package ocr

import "errors"

// ErrNotEnabled reports that recognition support was not compiled in.
var ErrNotEnabled = errors.New("ocr support not enabled; rebuild with -tags ocr")

// Client is the disabled recognition client.
type Client struct{}

// New reports ErrNotEnabled.
func New() (*Client, error) {
	return nil, ErrNotEnabled
}

// Close is a no-op. Safe on a nil client.
func (c *Client) Close() error { return nil }

// RecognizeImage reports ErrNotEnabled.
func (c *Client) RecognizeImage(imageData []byte) (string, error) {
	return "", ErrNotEnabled
}

// SetLanguage reports ErrNotEnabled.
func (c *Client) SetLanguage(lang string) error { return ErrNotEnabled }
