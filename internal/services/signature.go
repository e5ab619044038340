package services

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"strings"

	_ "image/jpeg"
	_ "image/png"

	"github.com/fogleman/gg"
	"golang.org/x/image/draw"

	"github.com/znznow/agreements-backend/internal/platform/logger"
)

// SignatureService turns the data-URI string captured by the signing pad
// into PNG bytes suitable for embedding. Decode failures are non-fatal: a
// bad signature yields nil and the submission proceeds without an image.
type SignatureService interface {
	Decode(dataURI string) []byte
}

type signatureService struct {
	log      *logger.Logger
	maxWidth int
}

func NewSignatureService(log *logger.Logger) SignatureService {
	serviceLog := log.With("service", "SignatureService")
	return &signatureService{log: serviceLog, maxWidth: 600}
}

func (ss *signatureService) Decode(dataURI string) []byte {
	if strings.TrimSpace(dataURI) == "" {
		return nil
	}

	// data:image/png;base64,<payload>. Anything before the comma is
	// metadata; without a comma the whole string is the payload.
	payload := dataURI
	if idx := strings.Index(dataURI, ","); idx >= 0 {
		payload = dataURI[idx+1:]
	}

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		ss.log.Warn("signature decode failed (ignored)", "error", err)
		return nil
	}

	normalized, err := normalizeSignaturePNG(raw, ss.maxWidth)
	if err != nil {
		ss.log.Warn("signature image rejected (ignored)", "error", err)
		return nil
	}
	return normalized
}

// normalizeSignaturePNG validates the decoded bytes as an image and
// guarantees PNG output. Small PNGs pass through untouched; oversized or
// non-PNG images are downscaled/re-encoded.
func normalizeSignaturePNG(raw []byte, maxWidth int) ([]byte, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode image config: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("empty image")
	}
	if format == "png" && cfg.Width <= maxWidth {
		return raw, nil
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	if cfg.Width > maxWidth {
		height := cfg.Height * maxWidth / cfg.Width
		if height < 1 {
			height = 1
		}
		scaled := image.NewRGBA(image.Rect(0, 0, maxWidth, height))
		draw.CatmullRom.Scale(scaled, scaled.Bounds(), img, img.Bounds(), draw.Over, nil)
		img = scaled
	}

	var out bytes.Buffer
	dc := gg.NewContextForImage(img)
	if err := dc.EncodePNG(&out); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return out.Bytes(), nil
}
