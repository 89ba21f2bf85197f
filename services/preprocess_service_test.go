package services

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"malaria-http-service/config"
	"malaria-http-service/models"
)

func newPreprocessConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		UploadDir:      filepath.Join(t.TempDir(), "uploads"),
		MaxUploadBytes: 1 << 20,
	}
}

// encodePNG 生成一张纯色测试图
func encodePNG(t *testing.T, c color.RGBA, w, h int) *bytes.Buffer {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return &buf
}

func TestAllowedFile(t *testing.T) {
	cases := []struct {
		name string
		want bool
	}{
		{"smear.png", true},
		{"smear.jpg", true},
		{"SMEAR.JPEG", true},
		{"smear.gif", false},
		{"smear.pdf", false},
		{"smear", false},
	}
	for _, tc := range cases {
		if got := AllowedFile(tc.name); got != tc.want {
			t.Errorf("AllowedFile(%q) = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestPreprocess(t *testing.T) {
	t.Run("normalizes to fixed tensor", func(t *testing.T) {
		cfg := newPreprocessConfig(t)
		svc := NewPreprocessService(cfg)

		buf := encodePNG(t, color.RGBA{R: 255, A: 255}, 8, 8)
		tensor, err := svc.Preprocess(buf, "smear.png")
		if err != nil {
			t.Fatalf("Preprocess: %v", err)
		}

		wantLen := models.ImageSize * models.ImageSize * models.ImageChannels
		if len(tensor.Data) != wantLen {
			t.Fatalf("len(Data) = %d, want %d", len(tensor.Data), wantLen)
		}

		// 纯红图：红通道接近1，绿蓝通道为0
		if r := tensor.At(10, 10, 0); r < 0.95 {
			t.Errorf("red channel = %f, want near 1", r)
		}
		if g := tensor.At(10, 10, 1); g > 0.05 {
			t.Errorf("green channel = %f, want near 0", g)
		}
		for _, v := range tensor.Data {
			if v < 0 || v > 1 {
				t.Fatalf("channel value %f outside [0,1]", v)
			}
		}
	})

	t.Run("rejects unlisted extension", func(t *testing.T) {
		svc := NewPreprocessService(newPreprocessConfig(t))
		_, err := svc.Preprocess(strings.NewReader("whatever"), "smear.gif")
		if !errors.Is(err, ErrUnsupportedFormat) {
			t.Errorf("err = %v, want ErrUnsupportedFormat", err)
		}
	})

	t.Run("rejects undecodable content", func(t *testing.T) {
		svc := NewPreprocessService(newPreprocessConfig(t))
		_, err := svc.Preprocess(strings.NewReader("not an image at all"), "smear.png")
		if !errors.Is(err, ErrUnsupportedFormat) {
			t.Errorf("err = %v, want ErrUnsupportedFormat", err)
		}
	})

	t.Run("enforces upload size limit", func(t *testing.T) {
		cfg := newPreprocessConfig(t)
		cfg.MaxUploadBytes = 16
		svc := NewPreprocessService(cfg)

		_, err := svc.Preprocess(strings.NewReader(strings.Repeat("x", 64)), "smear.png")
		if !errors.Is(err, ErrUploadTooLarge) {
			t.Errorf("err = %v, want ErrUploadTooLarge", err)
		}
	})

	t.Run("removes scratch file", func(t *testing.T) {
		cfg := newPreprocessConfig(t)
		svc := NewPreprocessService(cfg)

		if _, err := svc.Preprocess(encodePNG(t, color.RGBA{G: 128, A: 255}, 4, 4), "smear.png"); err != nil {
			t.Fatalf("Preprocess: %v", err)
		}

		entries, err := os.ReadDir(cfg.UploadDir)
		if err != nil {
			t.Fatal(err)
		}
		if len(entries) != 0 {
			t.Errorf("scratch dir has %d leftover files, want 0", len(entries))
		}
	})
}
