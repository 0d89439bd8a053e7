package tags

import (
	"fmt"
	"strings"

	"github.com/go-flac/flacvorbis"
	"github.com/go-flac/go-flac"
)

// Vorbis comment keys. Keys are case-insensitive; they are written upper-case.
const (
	vorbisTitle   = "TITLE"
	vorbisArtist  = "ARTIST"
	vorbisLyrics  = "LYRICS"
	vorbisPicture = "METADATA_BLOCK_PICTURE"
)

const flacMagic = "fLaC"

// writeFLACTags writes Vorbis comments and a front cover to a FLAC file.
func writeFLACTags(path string, t *Fields) error {
	f, err := flac.ParseFile(path)
	if err != nil {
		// Some taggers prepend an ID3v2 tag, which hides the fLaC marker
		size, sizeErr := id3PrefixBefore(path, flacMagic)
		if sizeErr != nil || size == 0 {
			return fmt.Errorf("parse file: %w", err)
		}
		if err := stripLeadingID3(path); err != nil {
			return fmt.Errorf("strip ID3v2 header: %w", err)
		}
		if f, err = flac.ParseFile(path); err != nil {
			return fmt.Errorf("parse file after ID3 strip: %w", err)
		}
	}

	if t.Lyrics != "" || t.Title != "" || t.Artist != "" {
		if err := updateVorbisComments(f, t); err != nil {
			return err
		}
	}

	if t.hasCover() {
		// Remove existing picture blocks
		newMeta := make([]*flac.MetaDataBlock, 0, len(f.Meta)+1)
		for _, meta := range f.Meta {
			if meta.Type != flac.Picture {
				newMeta = append(newMeta, meta)
			}
		}
		picBlock := newPictureBlock(t.Cover).Marshal()
		f.Meta = append(newMeta, &picBlock)
	}

	if err := f.Save(path); err != nil {
		return fmt.Errorf("save file: %w", err)
	}

	return nil
}

// updateVorbisComments replaces the written keys in the file's comment block,
// keeping every other comment and the vendor string.
func updateVorbisComments(f *flac.File, t *Fields) error {
	cmtIdx := -1
	var cmts *flacvorbis.MetaDataBlockVorbisComment
	for i, meta := range f.Meta {
		if meta.Type == flac.VorbisComment {
			parsed, err := flacvorbis.ParseFromMetaDataBlock(*meta)
			if err != nil {
				return fmt.Errorf("parse vorbis comments: %w", err)
			}
			cmts = parsed
			cmtIdx = i
			break
		}
	}
	if cmts == nil {
		cmts = flacvorbis.New()
	}

	set := func(key, value string) error {
		if value == "" {
			return nil
		}
		cmts.Comments = withoutKey(cmts.Comments, key)
		return cmts.Add(key, value)
	}

	if err := set(vorbisLyrics, t.Lyrics); err != nil {
		return fmt.Errorf("add lyrics: %w", err)
	}
	if err := set(vorbisTitle, t.Title); err != nil {
		return fmt.Errorf("add title: %w", err)
	}
	if err := set(vorbisArtist, t.Artist); err != nil {
		return fmt.Errorf("add artist: %w", err)
	}

	cmtBlock := cmts.Marshal()
	if cmtIdx >= 0 {
		f.Meta[cmtIdx] = &cmtBlock
	} else {
		f.Meta = append(f.Meta, &cmtBlock)
	}
	return nil
}

// withoutKey drops every "KEY=value" entry whose key matches case-insensitively.
func withoutKey(comments []string, key string) []string {
	kept := comments[:0]
	for _, c := range comments {
		k, _, ok := strings.Cut(c, "=")
		if ok && strings.EqualFold(k, key) {
			continue
		}
		kept = append(kept, c)
	}
	return kept
}
