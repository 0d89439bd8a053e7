package tags

import (
	"fmt"
	"net/http"
	"os"

	"github.com/dhowden/tag"
	"go.senan.xyz/taglib"
)

// Read reads the managed fields back from a music file.
func Read(path string) (*Tag, error) {
	if _, err := FormatForPath(path); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &FileNotFoundError{Path: path}
		}
		return nil, err
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		// dhowden/tag can't parse some files (e.g., ffmpeg-created M4A)
		return readWithTaglib(path)
	}

	t := &Tag{
		Path:   path,
		Title:  m.Title(),
		Artist: m.Artist(),
		Lyrics: m.Lyrics(),
	}
	if pic := m.Picture(); pic != nil && len(pic.Data) > 0 {
		mimeType := pic.MIMEType
		if mimeType == "" {
			mimeType = detectMimeType(pic.Data)
		}
		t.Cover = &Picture{Data: pic.Data, MIMEType: mimeType}
	}
	return t, nil
}

// readWithTaglib reads the managed fields using TagLib as fallback when dhowden/tag fails.
func readWithTaglib(path string) (*Tag, error) {
	rawTags, err := taglib.ReadTags(path)
	if err != nil {
		return nil, fmt.Errorf("read tags: %w", err)
	}
	tags := taglibTags(rawTags)

	t := &Tag{
		Path:   path,
		Title:  tags.get(taglib.Title),
		Artist: tags.get(taglib.Artist),
		Lyrics: tags.get(vorbisLyrics),
	}

	img, err := taglib.ReadImage(path)
	if err == nil && len(img) > 0 {
		t.Cover = &Picture{Data: img, MIMEType: detectMimeType(img)}
	}
	return t, nil
}

// taglibTags wraps a taglib result map with helper methods.
type taglibTags map[string][]string

// get returns the first value for any of the given keys, or empty string if not found.
func (t taglibTags) get(keys ...string) string {
	for _, key := range keys {
		if values, ok := t[key]; ok && len(values) > 0 {
			return values[0]
		}
	}
	return ""
}

// detectMimeType detects the MIME type of image data.
func detectMimeType(data []byte) string {
	switch http.DetectContentType(data) {
	case MIMEPNG:
		return MIMEPNG
	case MIMEGIF:
		return MIMEGIF
	default:
		// Default to JPEG for unknown types
		return MIMEJPEG
	}
}
