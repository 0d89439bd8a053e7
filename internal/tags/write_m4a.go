package tags

import (
	"fmt"

	"github.com/Sorrow446/go-mp4tag"
)

// mp4DeleteAllPictures is the go-mp4tag delete key that clears every covr picture.
const mp4DeleteAllPictures = "allpictures"

// writeM4ATags writes MP4/M4A atoms using go-mp4tag.
// Fields left empty in the MP4Tags value keep their current atoms.
func writeM4ATags(path string, t *Fields) error {
	tags := &mp4tag.MP4Tags{
		Title:  t.Title,
		Artist: t.Artist,
		Lyrics: t.Lyrics,
	}

	// go-mp4tag appends pictures to the existing covr list unless it is
	// told to drop them first
	var del []string
	if t.hasCover() {
		pic, err := mp4Picture(t.Cover)
		if err != nil {
			return err
		}
		tags.Pictures = []*mp4tag.MP4Picture{pic}
		del = append(del, mp4DeleteAllPictures)
	}

	mp4, err := mp4tag.Open(path)
	if err != nil {
		return fmt.Errorf("open: %w", err)
	}
	defer mp4.Close()

	if err := mp4.Write(tags, del); err != nil {
		return fmt.Errorf("write: %w", err)
	}

	return nil
}

// mp4Picture converts a cover to a covr entry. go-mp4tag flags the entry
// from the image bytes and covr only knows JPEG and PNG, so GIF data is
// re-encoded as PNG instead of being mislabelled.
func mp4Picture(p *Picture) (*mp4tag.MP4Picture, error) {
	data := p.Data
	if p.MIMEType == MIMEGIF {
		var err error
		if data, err = gifToPNG(p.Data); err != nil {
			return nil, fmt.Errorf("convert gif cover: %w", err)
		}
	}
	return &mp4tag.MP4Picture{Data: data}, nil
}
