package artwork

import (
	"bytes"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/pkg/errors"
)

var errEmptyImage = errors.New("empty image data")

// decodeImage sniffs and fully decodes data so that a truncated or foreign
// file is rejected here instead of at display time.
func decodeImage(artworkID string, source ImageSource, data []byte) (*Image, error) {
	if len(data) == 0 {
		return nil, errEmptyImage
	}

	mtype := mimetype.Detect(data)
	if !strings.HasPrefix(mtype.String(), "image/") {
		return nil, errors.Errorf("unexpected content type %s", mtype.String())
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode image")
	}

	bounds := img.Bounds()
	return &Image{
		ArtworkID: artworkID,
		Source:    source,
		MIMEType:  mtype.String(),
		Width:     bounds.Dx(),
		Height:    bounds.Dy(),
		Data:      data,
	}, nil
}
