package tags

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	_ "image/jpeg" // JPEG config decoder for picture blocks
	"image/png"

	"github.com/go-flac/flacpicture"
)

// newPictureBlock builds a FLAC PICTURE block for a front cover.
// Dimensions are filled in when the image header can be decoded and left
// at zero otherwise.
func newPictureBlock(p *Picture) *flacpicture.MetadataBlockPicture {
	pic := &flacpicture.MetadataBlockPicture{
		PictureType: flacpicture.PictureTypeFrontCover,
		MIME:        p.MIMEType,
		Description: coverDescription,
		ImageData:   p.Data,
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(p.Data))
	if err != nil {
		return pic
	}
	pic.Width = uint32(cfg.Width)   //nolint:gosec // image dimensions are non-negative
	pic.Height = uint32(cfg.Height) //nolint:gosec // image dimensions are non-negative
	pic.ColorDepth, pic.IndexedColorCount = colorDepth(cfg.ColorModel)
	return pic
}

// colorDepth returns bits per pixel and, for paletted images, the palette size.
func colorDepth(m color.Model) (depth, indexed uint32) {
	if palette, ok := m.(color.Palette); ok {
		return 8, uint32(len(palette)) //nolint:gosec // palettes hold at most 256 entries
	}
	switch m {
	case color.GrayModel:
		return 8, 0
	case color.Gray16Model:
		return 16, 0
	case color.YCbCrModel:
		return 24, 0
	case color.RGBA64Model, color.NRGBA64Model:
		return 64, 0
	default:
		return 32, 0
	}
}

// encodePictureComment serializes a cover as the base64 FLAC picture block
// stored in the METADATA_BLOCK_PICTURE Vorbis comment.
func encodePictureComment(p *Picture) string {
	block := newPictureBlock(p).Marshal()
	return base64.StdEncoding.EncodeToString(block.Data)
}

// gifToPNG re-encodes the first frame of a GIF image as PNG.
func gifToPNG(data []byte) ([]byte, error) {
	img, err := gif.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode gif: %w", err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
