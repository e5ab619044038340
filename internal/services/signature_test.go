package services

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/znznow/agreements-backend/internal/data/repos/testutil"
)

// pngBytes renders a small opaque image so DecodeConfig has real pixels.
func pngBytes(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: 10, G: 20, B: 30, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}

func pngDataURI(t *testing.T, width, height int) string {
	t.Helper()
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngBytes(t, width, height))
}

func TestDecodePassthrough(t *testing.T) {
	svc := NewSignatureService(testutil.Logger(t))

	raw := pngBytes(t, 300, 120)
	uri := "data:image/png;base64," + base64.StdEncoding.EncodeToString(raw)

	got := svc.Decode(uri)
	if !bytes.Equal(got, raw) {
		t.Fatalf("small PNG should pass through unchanged: got %d bytes, want %d", len(got), len(raw))
	}
}

func TestDecodeWithoutPrefix(t *testing.T) {
	svc := NewSignatureService(testutil.Logger(t))

	raw := pngBytes(t, 100, 40)
	got := svc.Decode(base64.StdEncoding.EncodeToString(raw))
	if !bytes.Equal(got, raw) {
		t.Fatalf("bare base64 payload should decode: got %d bytes, want %d", len(got), len(raw))
	}
}

func TestDecodeOversizedIsDownscaled(t *testing.T) {
	svc := NewSignatureService(testutil.Logger(t))

	got := svc.Decode(pngDataURI(t, 900, 300))
	if got == nil {
		t.Fatal("oversized PNG should decode, got nil")
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(got))
	if err != nil {
		t.Fatalf("output not decodable: %v", err)
	}
	if format != "png" {
		t.Fatalf("output format = %q, want png", format)
	}
	if cfg.Width != 600 {
		t.Fatalf("output width = %d, want 600", cfg.Width)
	}
	if cfg.Height != 200 {
		t.Fatalf("output height = %d, want 200", cfg.Height)
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	svc := NewSignatureService(testutil.Logger(t))

	cases := map[string]string{
		"empty":          "",
		"whitespace":     "   ",
		"invalid base64": "data:image/png;base64,!!!not-base64!!!",
		"not an image":   "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("hello world")),
	}
	for name, uri := range cases {
		if got := svc.Decode(uri); got != nil {
			t.Fatalf("%s: Decode = %d bytes, want nil", name, len(got))
		}
	}
}
