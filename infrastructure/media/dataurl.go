package media

import (
	"encoding/base64"
	"strings"
)

// Image is a decoded data URL.
type Image struct {
	ContentType string
	Data        []byte
}

// ParseDataURL decodes "data:image/<type>;base64,<payload>" as sent by browsers.
func ParseDataURL(raw string) (Image, error) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(raw), "data:")
	if !ok {
		return Image{}, ErrInvalidImage
	}

	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return Image{}, ErrInvalidImage
	}

	contentType, encoding, ok := strings.Cut(meta, ";")
	if !ok || encoding != "base64" {
		return Image{}, ErrInvalidImage
	}
	contentType = strings.ToLower(contentType)
	if !strings.HasPrefix(contentType, "image/") || len(contentType) == len("image/") {
		return Image{}, ErrInvalidImage
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil || len(data) == 0 {
		return Image{}, ErrInvalidImage
	}

	return Image{ContentType: contentType, Data: data}, nil
}
