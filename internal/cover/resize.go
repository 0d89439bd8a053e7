package cover

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"

	"github.com/nfnt/resize"

	"github.com/llehouerou/metawrite/internal/errmsg"
	"github.com/llehouerou/metawrite/internal/tags"
)

const jpegQuality = 90

// downscale shrinks JPEG and PNG covers that exceed the configured maximum
// dimension. Anything else, and any failure, returns the input unchanged.
func (r *Resolver) downscale(pic *tags.Picture) *tags.Picture {
	if r.maxDimension <= 0 {
		return pic
	}
	if pic.MIMEType != tags.MIMEJPEG && pic.MIMEType != tags.MIMEPNG {
		return pic
	}

	data, resized, err := fitWithin(pic.Data, pic.MIMEType, r.maxDimension)
	if err != nil {
		r.log.Warn(errmsg.Format(errmsg.OpCoverResize, err))
		return pic
	}
	if !resized {
		return pic
	}
	r.log.Debug("cover downscaled", "max", r.maxDimension, "before", len(pic.Data), "after", len(data))
	return &tags.Picture{Data: data, MIMEType: pic.MIMEType}
}

// fitWithin re-encodes data so that neither side exceeds maxDim.
// resized is false when the image already fits.
func fitWithin(data []byte, mimeType string, maxDim int) (out []byte, resized bool, err error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, false, fmt.Errorf("decode config: %w", err)
	}
	if cfg.Width <= maxDim && cfg.Height <= maxDim {
		return data, false, nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, false, fmt.Errorf("decode: %w", err)
	}

	//nolint:gosec // maxDim is positive
	thumb := resize.Thumbnail(uint(maxDim), uint(maxDim), img, resize.Lanczos3)

	var buf bytes.Buffer
	if mimeType == tags.MIMEPNG {
		err = png.Encode(&buf, thumb)
	} else {
		err = jpeg.Encode(&buf, thumb, &jpeg.Options{Quality: jpegQuality})
	}
	if err != nil {
		return nil, false, fmt.Errorf("encode: %w", err)
	}
	return buf.Bytes(), true, nil
}
