package tags

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"go.senan.xyz/taglib"
)

// oggCodec identifies the stream inside an Ogg container by the first bytes
// of its identification header packet.
type oggCodec struct {
	name  string
	magic []byte
}

var (
	oggVorbis = oggCodec{name: "Vorbis", magic: []byte("\x01vorbis")}
	oggOpus   = oggCodec{name: "Opus", magic: []byte("OpusHead")}
)

// oggPageHeaderSize is the fixed part of an Ogg page header, up to and
// including the segment count.
const oggPageHeaderSize = 27

// writeOggTags writes Vorbis comments to an Ogg Vorbis or Opus file using TagLib.
// Comments that are not written are kept.
func writeOggTags(path string, t *Fields, codec oggCodec) error {
	if err := checkOggCodec(path, codec); err != nil {
		return err
	}

	tags := make(map[string][]string)

	addTag := func(key, value string) {
		if value != "" {
			tags[key] = []string{value}
		}
	}

	addTag(vorbisLyrics, t.Lyrics)
	addTag(vorbisTitle, t.Title)
	addTag(vorbisArtist, t.Artist)

	if t.hasCover() {
		// TagLib keeps parsed pictures apart from the comment fields, so clear
		// them before storing the new block.
		if err := clearOggPictures(path); err != nil {
			return err
		}
		tags[vorbisPicture] = []string{encodePictureComment(t.Cover)}
	}

	if len(tags) == 0 {
		return nil
	}

	if err := taglib.WriteTags(path, tags, 0); err != nil {
		return fmt.Errorf("write tags: %w", err)
	}

	return nil
}

// clearOggPictures removes every embedded picture. WriteImage with no data
// drops a single picture per call.
func clearOggPictures(path string) error {
	props, err := taglib.ReadProperties(path)
	if err != nil {
		return fmt.Errorf("read properties: %w", err)
	}
	for range props.Images {
		if err := taglib.WriteImage(path, nil); err != nil {
			return fmt.Errorf("clear cover art: %w", err)
		}
	}
	return nil
}

// checkOggCodec verifies that the first Ogg page carries the codec the file
// extension promises.
func checkOggCodec(path string, codec oggCodec) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	header := make([]byte, oggPageHeaderSize)
	if _, err := io.ReadFull(f, header); err != nil || string(header[:4]) != "OggS" {
		return fmt.Errorf("not an Ogg %s file: missing OggS page", codec.name)
	}

	// Skip the segment table to reach the first packet
	segments := int64(header[oggPageHeaderSize-1])
	if _, err := io.CopyN(io.Discard, f, segments); err != nil {
		return fmt.Errorf("not an Ogg %s file: truncated page header", codec.name)
	}

	magic := make([]byte, len(codec.magic))
	if _, err := io.ReadFull(f, magic); err != nil || !bytes.Equal(magic, codec.magic) {
		return fmt.Errorf("not an Ogg %s file: unexpected stream header", codec.name)
	}

	return nil
}
