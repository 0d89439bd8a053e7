package tags

import (
	"fmt"
	"os"
)

type writeFunc func(path string, f *Fields) error

// writers holds one handler per Format. Ogg Vorbis and Opus share a handler
// that checks the stream codec against the extension.
var writers = map[Format]writeFunc{
	FormatMP3:       writeMP3Tags,
	FormatFLAC:      writeFLACTags,
	FormatMP4:       writeM4ATags,
	FormatOggVorbis: func(path string, f *Fields) error { return writeOggTags(path, f, oggVorbis) },
	FormatOggOpus:   func(path string, f *Fields) error { return writeOggTags(path, f, oggOpus) },
}

// Write writes the non-empty fields of f to a music file.
// The file must already exist. This operation modifies the file in place.
func Write(path string, f *Fields) (Written, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return Written{}, &FileNotFoundError{Path: path}
		}
		return Written{}, fmt.Errorf("stat file: %w", err)
	}

	format, err := FormatForPath(path)
	if err != nil {
		return Written{}, err
	}

	if f == nil {
		f = &Fields{}
	}

	if err := writers[format](path, f); err != nil {
		return Written{}, err
	}
	return f.written(), nil
}
