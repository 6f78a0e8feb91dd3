package media

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/zalbum/albumdb/internal/common"
	"github.com/zalbum/albumdb/internal/models"
)

func TestCodec_TextRoundTrip(t *testing.T) {
	c := NewCodec()

	data, err := c.Encode(models.MediaText, "hello")
	if err != nil {
		t.Fatalf("Encode error: %v", err)
	}

	got, err := c.Decode(models.MediaText, data)
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if got != "hello" {
		t.Fatalf("expected %q, got %v", "hello", got)
	}
}

func TestCodec_LinkRoundTrip(t *testing.T) {
	c := NewCodec()

	const uri = "https://example.net/a/b?c=1"
	data, err := c.Encode(models.MediaLink, uri)
	if err != nil {
		t.Fatalf("Encode error: %v", err)
	}

	got, err := c.Decode(models.MediaLink, data)
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if got != uri {
		t.Fatalf("expected %q, got %v", uri, got)
	}
}

func TestCodec_NoneEncodesToNothing(t *testing.T) {
	c := NewCodec()

	data, err := c.Encode(models.MediaNone, "ignored")
	if err != nil {
		t.Fatalf("Encode error: %v", err)
	}
	if data != nil {
		t.Fatalf("expected nil payload for NONE, got %d bytes", len(data))
	}

	got, err := c.Decode(models.MediaNone, nil)
	if err != nil || got != nil {
		t.Fatalf("expected nil result for NONE, got %v, %v", got, err)
	}
}

func TestCodec_ImageRoundTrip(t *testing.T) {
	c := NewCodec()

	src := image.NewRGBA(image.Rect(0, 0, 2, 2))
	src.Set(0, 0, color.RGBA{R: 255, A: 255})
	src.Set(1, 1, color.RGBA{B: 255, A: 255})

	data, err := c.Encode(models.MediaImage, src)
	if err != nil {
		t.Fatalf("Encode error: %v", err)
	}

	decoded, err := c.Decode(models.MediaImage, data)
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	img, ok := decoded.(image.Image)
	if !ok {
		t.Fatalf("expected image.Image, got %T", decoded)
	}
	if img.Bounds() != src.Bounds() {
		t.Fatalf("expected bounds %v, got %v", src.Bounds(), img.Bounds())
	}
	r, _, _, _ := img.At(0, 0).RGBA()
	if r == 0 {
		t.Errorf("expected red pixel at (0,0) to survive the round trip")
	}
}

func TestCodec_ImageRejectsNonImagePayload(t *testing.T) {
	c := NewCodec()

	if _, err := c.Encode(models.MediaImage, "not an image"); !errors.Is(err, common.ErrorUnsupportedMediaType) {
		t.Fatalf("expected ErrorUnsupportedMediaType, got %v", err)
	}
}

func TestCodec_VideoAndSoundUnimplemented(t *testing.T) {
	c := NewCodec()

	for _, mt := range []models.MediaType{models.MediaVideo, models.MediaSound} {
		if _, err := c.Encode(mt, []byte{1}); !errors.Is(err, common.ErrorUnsupportedMediaType) {
			t.Errorf("%v encode: expected ErrorUnsupportedMediaType, got %v", mt, err)
		}
		if _, err := c.Decode(mt, []byte{1}); !errors.Is(err, common.ErrorUnsupportedMediaType) {
			t.Errorf("%v decode: expected ErrorUnsupportedMediaType, got %v", mt, err)
		}
	}
}

func TestCodec_UnknownType(t *testing.T) {
	c := NewCodec()

	if _, err := c.Encode(models.MediaType(99), "x"); !errors.Is(err, common.ErrorUnsupportedMediaType) {
		t.Fatalf("expected ErrorUnsupportedMediaType, got %v", err)
	}
	if _, err := c.Decode(models.MediaType(99), nil); !errors.Is(err, common.ErrorUnsupportedMediaType) {
		t.Fatalf("expected ErrorUnsupportedMediaType, got %v", err)
	}
}
