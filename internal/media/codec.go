// Package media implements the codec collaborator that turns media payloads
// into bytes and back, keyed by the media type recorded on the document.
package media

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"github.com/zalbum/albumdb/internal/common"
	"github.com/zalbum/albumdb/internal/models"
)

// Codec encodes and decodes media payloads. NONE carries no payload,
// LINK and TEXT are UTF-8 text, IMAGE is a PNG raster. VIDEO and SOUND are
// recognized types without a codec yet; they fail loudly instead of
// silently dropping data.
type Codec struct{}

func NewCodec() *Codec {
	return &Codec{}
}

// Encode serializes obj according to t.
func (c *Codec) Encode(t models.MediaType, obj any) ([]byte, error) {
	switch t {
	case models.MediaNone:
		return nil, nil
	case models.MediaLink, models.MediaText:
		switch v := obj.(type) {
		case string:
			return []byte(v), nil
		case []byte:
			return v, nil
		default:
			return []byte(fmt.Sprint(obj)), nil
		}
	case models.MediaImage:
		img, ok := obj.(image.Image)
		if !ok {
			return nil, fmt.Errorf("%w: IMAGE payload must be an image, got %T", common.ErrorUnsupportedMediaType, obj)
		}
		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("encoding image: %w", err)
		}
		return buf.Bytes(), nil
	case models.MediaVideo:
		return nil, fmt.Errorf("%w: VIDEO encoding not implemented", common.ErrorUnsupportedMediaType)
	case models.MediaSound:
		return nil, fmt.Errorf("%w: SOUND encoding not implemented", common.ErrorUnsupportedMediaType)
	default:
		return nil, fmt.Errorf("%w: no encoding for type %d", common.ErrorUnsupportedMediaType, t)
	}
}

// Decode deserializes data according to t. LINK and TEXT yield a string,
// IMAGE an image.Image, NONE nil.
func (c *Codec) Decode(t models.MediaType, data []byte) (any, error) {
	switch t {
	case models.MediaNone:
		return nil, nil
	case models.MediaLink, models.MediaText:
		return string(data), nil
	case models.MediaImage:
		img, err := png.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("decoding image: %w", err)
		}
		return img, nil
	case models.MediaVideo:
		return nil, fmt.Errorf("%w: VIDEO decoding not implemented", common.ErrorUnsupportedMediaType)
	case models.MediaSound:
		return nil, fmt.Errorf("%w: SOUND decoding not implemented", common.ErrorUnsupportedMediaType)
	default:
		return nil, fmt.Errorf("%w: no decoding for type %d", common.ErrorUnsupportedMediaType, t)
	}
}
