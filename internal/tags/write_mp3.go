package tags

import (
	"errors"
	"fmt"

	"github.com/bogem/id3v2/v2"
)

// lyricsLanguage is the ISO-639-2 code stored in USLT frames.
const lyricsLanguage = "chi"

const lyricsDescription = "Lyrics"

// writeMP3Tags writes ID3v2 frames to an MP3 file.
// Each written field replaces every existing frame with the same ID.
func writeMP3Tags(path string, f *Fields) error {
	tag, err := openID3(path)
	if err != nil {
		return err
	}
	defer tag.Close()

	// Use ID3v2.4 with UTF-8 for better Unicode support
	tag.SetVersion(4)
	tag.SetDefaultEncoding(id3v2.EncodingUTF8)

	if f.hasCover() {
		tag.DeleteFrames(tag.CommonID("Attached picture"))
		tag.AddAttachedPicture(id3v2.PictureFrame{
			Encoding:    id3v2.EncodingUTF8,
			MimeType:    f.Cover.MIMEType,
			PictureType: id3v2.PTFrontCover,
			Description: coverDescription,
			Picture:     f.Cover.Data,
		})
	}

	if f.Lyrics != "" {
		tag.DeleteFrames(tag.CommonID("Unsynchronised lyrics/text transcription"))
		tag.AddUnsynchronisedLyricsFrame(id3v2.UnsynchronisedLyricsFrame{
			Encoding:          id3v2.EncodingUTF8,
			Language:          lyricsLanguage,
			ContentDescriptor: lyricsDescription,
			Lyrics:            f.Lyrics,
		})
	}

	if f.Title != "" {
		titleID := tag.CommonID("Title/Songname/Content description")
		tag.DeleteFrames(titleID)
		tag.AddTextFrame(titleID, id3v2.EncodingUTF8, f.Title)
	}

	if f.Artist != "" {
		artistID := tag.CommonID("Lead artist/Lead performer/Soloist/Performing group")
		tag.DeleteFrames(artistID)
		tag.AddTextFrame(artistID, id3v2.EncodingUTF8, f.Artist)
	}

	if err := tag.Save(); err != nil {
		return fmt.Errorf("save tags: %w", err)
	}

	return nil
}

// openID3 opens the ID3v2 tag of an MP3 file, creating an empty one when
// the file has no header.
func openID3(path string) (*id3v2.Tag, error) {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if errors.Is(err, id3v2.ErrUnsupportedVersion) {
		// ID3v2.2 or older tags - strip them and retry
		if stripErr := stripLeadingID3(path); stripErr != nil {
			return nil, fmt.Errorf("strip unsupported ID3v2.2 tag: %w", stripErr)
		}
		tag, err = id3v2.Open(path, id3v2.Options{Parse: true})
	}
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	return tag, nil
}
