package tags

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

// createTestMP3 creates a minimal MP3 file with no tag.
func createTestMP3(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "test.mp3")

	// Create minimal MP3 frame (MPEG1 Layer3, 128kbps, 44100Hz, stereo)
	mp3Frame := make([]byte, 417)
	mp3Frame[0] = 0xff
	mp3Frame[1] = 0xfb
	mp3Frame[2] = 0x90
	mp3Frame[3] = 0x00

	if err := os.WriteFile(path, mp3Frame, 0o600); err != nil {
		t.Fatalf("failed to create test MP3: %v", err)
	}
	return path
}

// encodeTestAudio encodes one second of sine into name using ffmpeg.
// It reports false when ffmpeg is missing or cannot encode with codec.
func encodeTestAudio(t *testing.T, dir, name, codec string) (string, bool) {
	t.Helper()
	path := filepath.Join(dir, name)

	cmd := exec.Command("ffmpeg", "-y", "-f", "lavfi", "-i", "sine=frequency=440:duration=1", "-c:a", codec, path)
	cmd.Stderr = nil
	cmd.Stdout = nil
	if err := cmd.Run(); err != nil {
		t.Logf("ffmpeg %s unavailable, using built-in fixture: %v", codec, err)
		return "", false
	}
	return path, true
}

func createTestFLAC(t *testing.T, dir string) string {
	t.Helper()
	if path, ok := encodeTestAudio(t, dir, "test.flac", "flac"); ok {
		return path
	}
	return writeFixture(t, filepath.Join(dir, "test.flac"), synthFLAC())
}

func createTestM4A(t *testing.T, dir string) string {
	t.Helper()
	if path, ok := encodeTestAudio(t, dir, "test.m4a", "aac"); ok {
		return path
	}
	return writeFixture(t, filepath.Join(dir, "test.m4a"), synthM4A())
}

func createTestOpus(t *testing.T, dir string) string {
	t.Helper()
	if path, ok := encodeTestAudio(t, dir, "test.opus", "libopus"); ok {
		return path
	}
	return writeFixture(t, filepath.Join(dir, "test.opus"), synthOpus())
}

// createTestVorbis has no built-in fixture; the test is skipped without ffmpeg.
func createTestVorbis(t *testing.T, dir string) string {
	t.Helper()
	path, ok := encodeTestAudio(t, dir, "test.ogg", "libvorbis")
	if !ok {
		t.Skip("ffmpeg with libvorbis not available")
	}
	return path
}

func testImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := range w {
		for y := range h {
			img.Set(x, y, color.RGBA{R: uint8(x * 16), G: uint8(y * 16), B: 200, A: 255}) //nolint:gosec // test pattern
		}
	}
	return img
}

func testJPEG(t *testing.T) *Picture {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, testImage(8, 4), nil); err != nil {
		t.Fatalf("encode jpeg: %v", err)
	}
	return &Picture{Data: buf.Bytes(), MIMEType: MIMEJPEG}
}

func testPNG(t *testing.T) *Picture {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, testImage(4, 4)); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return &Picture{Data: buf.Bytes(), MIMEType: MIMEPNG}
}

func testGIF(t *testing.T) *Picture {
	t.Helper()
	var buf bytes.Buffer
	if err := gif.Encode(&buf, testImage(4, 4), nil); err != nil {
		t.Fatalf("encode gif: %v", err)
	}
	return &Picture{Data: buf.Bytes(), MIMEType: MIMEGIF}
}

func allFields(t *testing.T) *Fields {
	t.Helper()
	return &Fields{
		Cover:  testJPEG(t),
		Lyrics: "[00:01.00]第一行\n[00:02.00]second line",
		Title:  "Test Title",
		Artist: "Test Artist",
	}
}

func mustWrite(t *testing.T, path string, f *Fields) Written {
	t.Helper()
	w, err := Write(path, f)
	if err != nil {
		t.Fatalf("Write() error: %v", err)
	}
	return w
}

func assertEqual[T comparable](t *testing.T, field string, got, want T) {
	t.Helper()
	if got != want {
		t.Errorf("%s = %v, want %v", field, got, want)
	}
}

func verifyFields(t *testing.T, got *Tag, want *Fields) {
	t.Helper()
	assertEqual(t, "Title", got.Title, want.Title)
	assertEqual(t, "Artist", got.Artist, want.Artist)
	assertEqual(t, "Lyrics", got.Lyrics, want.Lyrics)
	if want.Cover == nil {
		return
	}
	if got.Cover == nil {
		t.Fatal("expected cover, got nil")
	}
	if !bytes.Equal(got.Cover.Data, want.Cover.Data) {
		t.Errorf("cover data differs: got %d bytes, want %d", len(got.Cover.Data), len(want.Cover.Data))
	}
}
