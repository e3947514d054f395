// internal/app/system/assets/cloudinary.go
package assets

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"go.uber.org/zap"
)

// Cloudinary uploads photos with an unsigned upload preset.
type Cloudinary struct {
	UploadURL string // e.g. https://api.cloudinary.com/v1_1/<cloud>/image/upload
	CloudName string
	Preset    string
	MaxBytes  int64
	HTTP      *http.Client
	Log       *zap.Logger
}

type cloudinaryResponse struct {
	SecureURL string `json:"secure_url"`
	Error     *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Upload posts the file as multipart form data and returns secure_url.
func (c *Cloudinary) Upload(ctx context.Context, filename string, r io.Reader) (string, error) {
	im, err := readImage(r, c.MaxBytes)
	if err != nil {
		return "", err
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", cleanName(filename, im.ext))
	if err != nil {
		return "", fmt.Errorf("cloudinary: build form: %w", err)
	}
	if _, err := fw.Write(im.data); err != nil {
		return "", fmt.Errorf("cloudinary: build form: %w", err)
	}
	if err := mw.WriteField("upload_preset", c.Preset); err != nil {
		return "", fmt.Errorf("cloudinary: build form: %w", err)
	}
	if err := mw.WriteField("cloud_name", c.CloudName); err != nil {
		return "", fmt.Errorf("cloudinary: build form: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("cloudinary: build form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.UploadURL, &body)
	if err != nil {
		return "", fmt.Errorf("cloudinary: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	hc := c.HTTP
	if hc == nil {
		hc = http.DefaultClient
	}
	resp, err := hc.Do(req)
	if err != nil {
		return "", fmt.Errorf("cloudinary: upload: %w", err)
	}
	defer resp.Body.Close()

	var out cloudinaryResponse
	decErr := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&out)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := http.StatusText(resp.StatusCode)
		if decErr == nil && out.Error != nil && out.Error.Message != "" {
			msg = out.Error.Message
		}
		c.log().Warn("cloudinary upload rejected",
			zap.Int("status", resp.StatusCode), zap.String("message", msg))
		return "", fmt.Errorf("cloudinary: upload rejected (%d): %s", resp.StatusCode, msg)
	}
	if decErr != nil {
		return "", fmt.Errorf("cloudinary: decode response: %w", decErr)
	}
	if out.SecureURL == "" {
		return "", fmt.Errorf("cloudinary: response has no secure_url")
	}
	return out.SecureURL, nil
}

func (c *Cloudinary) log() *zap.Logger {
	if c.Log == nil {
		return zap.NewNop()
	}
	return c.Log
}
