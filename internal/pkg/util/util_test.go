package util

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 255, A: 255})
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestParseID(t *testing.T) {
	cases := map[string]bool{"1": true, "42": true, "0": false, "-3": false, "abc": false, "": false, "5f1e": false}
	for raw, ok := range cases {
		if _, got := ParseID(raw); got != ok {
			t.Errorf("ParseID(%q) ok = %v, want %v", raw, got, ok)
		}
	}
}

type sample struct {
	Name   string `validate:"required,max=5"`
	Moment string `validate:"omitempty,moment"`
}

func TestValidateDTO(t *testing.T) {
	if err := ValidateDTO(&sample{Name: "ok", Moment: "2024-02-29"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err := ValidateDTO(&sample{Name: "too long name"})
	var ve *ValidationError
	if !errors.As(err, &ve) || ve.Field != "Name" || ve.Rule != "max" {
		t.Fatalf("expected max violation on Name, got %v", err)
	}

	err = ValidateDTO(&sample{Name: "a", Moment: "2024/01/01"})
	if !errors.As(err, &ve) || ve.Rule != "moment" {
		t.Fatalf("expected moment violation, got %v", err)
	}
}

type credentialSample struct {
	Password string `validate:"required,bcryptlen"`
}

func TestValidateBcryptLenCountsBytes(t *testing.T) {
	cases := []struct {
		password string
		ok       bool
	}{
		{strings.Repeat("a", 72), true},
		{strings.Repeat("a", 73), false},
		{strings.Repeat("가", 24), true},
		{strings.Repeat("가", 30), false},
	}
	for _, tc := range cases {
		err := ValidateDTO(&credentialSample{Password: tc.password})
		if tc.ok && err != nil {
			t.Errorf("%d bytes: unexpected error %v", len(tc.password), err)
			continue
		}
		var ve *ValidationError
		if !tc.ok && (!errors.As(err, &ve) || ve.Rule != "bcryptlen") {
			t.Errorf("%d bytes: expected bcryptlen violation, got %v", len(tc.password), err)
		}
	}
}

func TestDetectImageType(t *testing.T) {
	mime, ext, err := DetectImageType(pngBytes(t, 2, 2))
	if err != nil || mime != "image/png" || ext != ".png" {
		t.Fatalf("got %q %q %v", mime, ext, err)
	}

	if _, _, err = DetectImageType([]byte("plain text body")); !errors.Is(err, ErrNotImage) {
		t.Fatalf("expected ErrNotImage, got %v", err)
	}
}

func TestNormalizeImage(t *testing.T) {
	small := pngBytes(t, 10, 5)
	out, resized, err := NormalizeImage(small, 20)
	if err != nil || resized || !bytes.Equal(out, small) {
		t.Fatalf("small image should pass through, resized=%v err=%v", resized, err)
	}

	out, resized, err = NormalizeImage(pngBytes(t, 40, 20), 20)
	if err != nil || !resized {
		t.Fatalf("expected resize, err=%v", err)
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("decode resized: %v", err)
	}
	if cfg.Width != 20 || cfg.Height != 10 {
		t.Fatalf("resized to %dx%d, want 20x10", cfg.Width, cfg.Height)
	}
}
