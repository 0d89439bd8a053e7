// Package tags writes cover art, lyrics, title and artist into music files.
// It covers MP3 (ID3v2), FLAC, MP4/M4A (iTunes atoms) and Ogg Vorbis/Opus.
package tags

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// File extensions supported by the tags package.
const (
	ExtMP3  = ".mp3"
	ExtFLAC = ".flac"
	ExtM4A  = ".m4a"
	ExtMP4  = ".mp4"
	ExtAAC  = ".aac"
	ExtOGG  = ".ogg"
	ExtOPUS = ".opus"
)

// id3Magic is the magic bytes for ID3v2 header detection.
const id3Magic = "ID3"

// Image MIME types a cover can carry.
const (
	MIMEJPEG = "image/jpeg"
	MIMEPNG  = "image/png"
	MIMEGIF  = "image/gif"
)

// coverDescription is the description stored alongside every embedded cover.
const coverDescription = "Cover"

// Format identifies the tag scheme used for a file.
type Format int

const (
	FormatMP3 Format = iota + 1
	FormatFLAC
	FormatMP4
	FormatOggVorbis
	FormatOggOpus
)

func (f Format) String() string {
	switch f {
	case FormatMP3:
		return "MP3"
	case FormatFLAC:
		return "FLAC"
	case FormatMP4:
		return "MP4"
	case FormatOggVorbis:
		return "OGG"
	case FormatOggOpus:
		return "OPUS"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

var formatsByExt = map[string]Format{
	ExtMP3:  FormatMP3,
	ExtFLAC: FormatFLAC,
	ExtM4A:  FormatMP4,
	ExtMP4:  FormatMP4,
	ExtAAC:  FormatMP4,
	ExtOGG:  FormatOggVorbis,
	ExtOPUS: FormatOggOpus,
}

// ErrUnsupportedFormat is matched by every *UnsupportedFormatError.
var ErrUnsupportedFormat = errors.New("unsupported format")

// ErrFileNotFound is matched by every *FileNotFoundError.
var ErrFileNotFound = errors.New("file not found")

// UnsupportedFormatError reports a file extension with no known tag scheme.
type UnsupportedFormatError struct {
	Ext string
}

func (e *UnsupportedFormatError) Error() string {
	return "Unsupported format: " + e.Ext
}

func (e *UnsupportedFormatError) Is(target error) bool {
	return target == ErrUnsupportedFormat
}

// FileNotFoundError reports a target file that does not exist.
type FileNotFoundError struct {
	Path string
}

func (e *FileNotFoundError) Error() string {
	return "File not found: " + e.Path
}

func (e *FileNotFoundError) Is(target error) bool {
	return target == ErrFileNotFound
}

// FormatForPath maps the file extension (case-insensitive) to a Format.
func FormatForPath(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if f, ok := formatsByExt[ext]; ok {
		return f, nil
	}
	return 0, &UnsupportedFormatError{Ext: ext}
}

// IsSupported returns true if the path has a supported extension.
func IsSupported(path string) bool {
	_, err := FormatForPath(path)
	return err == nil
}

// Picture is an image ready to embed.
type Picture struct {
	Data     []byte
	MIMEType string
}

// Fields holds the values to write. Empty values are left untouched.
type Fields struct {
	Cover  *Picture
	Lyrics string
	Title  string
	Artist string
}

func (f *Fields) hasCover() bool {
	return f.Cover != nil && len(f.Cover.Data) > 0
}

// written reports which fields a writer will touch.
func (f *Fields) written() Written {
	return Written{
		Cover:  f.hasCover(),
		Lyrics: f.Lyrics != "",
		Title:  f.Title != "",
		Artist: f.Artist != "",
	}
}

// Written reports which fields were written to the file.
type Written struct {
	Cover  bool
	Lyrics bool
	Title  bool
	Artist bool
}

// Any returns true if at least one field was written.
func (w Written) Any() bool {
	return w.Cover || w.Lyrics || w.Title || w.Artist
}

// Tag is the subset of a file's metadata this package manages.
type Tag struct {
	Path   string
	Title  string
	Artist string
	Lyrics string
	Cover  *Picture
}
