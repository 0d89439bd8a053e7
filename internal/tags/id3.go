package tags

import (
	"fmt"
	"io"
	"os"
)

// id3v2HeaderSize is the length of an ID3v2 header, and of its optional footer.
const id3v2HeaderSize = 10

// leadingID3Size returns the full length of the ID3v2 tag at the start of b,
// footer included, or 0 when b does not start with one. The extended header
// is part of the size field.
func leadingID3Size(b []byte) int64 {
	if len(b) < id3v2HeaderSize || string(b[:3]) != id3Magic {
		return 0
	}
	size := id3v2HeaderSize + syncsafe(b[6:10])
	if b[5]&0x10 != 0 {
		size += id3v2HeaderSize
	}
	return size
}

// id3PrefixBefore returns the size of a leading ID3v2 tag that is directly
// followed by magic, or 0 if the file does not look like that.
func id3PrefixBefore(path, magic string) (int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	header := make([]byte, id3v2HeaderSize)
	if _, err := io.ReadFull(f, header); err != nil {
		return 0, nil //nolint:nilerr // too short to carry a tag
	}
	size := leadingID3Size(header)
	if size == 0 {
		return 0, nil
	}

	buf := make([]byte, len(magic))
	if _, err := f.ReadAt(buf, size); err != nil || string(buf) != magic {
		return 0, nil //nolint:nilerr // nothing recognizable after the tag
	}
	return size, nil
}

// stripLeadingID3 rewrites path without its leading ID3v2 tag.
// A file without one is left untouched.
func stripLeadingID3(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	size := leadingID3Size(data)
	if size == 0 {
		return nil
	}
	if size >= int64(len(data)) {
		return fmt.Errorf("ID3v2 tag size (%d) exceeds file size (%d)", size, len(data))
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat file: %w", err)
	}
	if err := os.WriteFile(path, data[size:], info.Mode().Perm()); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}

// syncsafe decodes a 4-byte ID3v2 synchsafe integer (7 bits per byte).
func syncsafe(b []byte) int64 {
	return int64(b[0]&0x7f)<<21 |
		int64(b[1]&0x7f)<<14 |
		int64(b[2]&0x7f)<<7 |
		int64(b[3]&0x7f)
}
