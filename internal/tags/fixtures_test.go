package tags

import (
	"bytes"
	"encoding/binary"
	"os"
	"testing"
)

// Minimal containers built in memory, used when ffmpeg is unavailable and
// for fixtures ffmpeg cannot produce. They carry no decodable audio.

const fixtureVendor = "metawrite test"

func writeFixture(t *testing.T, path string, data []byte) string {
	t.Helper()
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

// vorbisCommentBody encodes a Vorbis comment list without framing bit.
func vorbisCommentBody(comments ...string) []byte {
	b := binary.LittleEndian.AppendUint32(nil, uint32(len(fixtureVendor)))
	b = append(b, fixtureVendor...)
	b = binary.LittleEndian.AppendUint32(b, uint32(len(comments))) //nolint:gosec // test fixture
	for _, c := range comments {
		b = binary.LittleEndian.AppendUint32(b, uint32(len(c))) //nolint:gosec // test fixture
		b = append(b, c...)
	}
	return b
}

// synthFLAC returns a FLAC stream with STREAMINFO and a VORBIS_COMMENT block.
func synthFLAC(comments ...string) []byte {
	var buf bytes.Buffer
	buf.WriteString(flacMagic)

	streamInfo := make([]byte, 34)
	binary.BigEndian.PutUint16(streamInfo[0:], 4096)
	binary.BigEndian.PutUint16(streamInfo[2:], 4096)
	// 44.1kHz, 2 channels, 16 bits per sample, unknown sample count
	binary.BigEndian.PutUint64(streamInfo[10:], 44100<<44|1<<41|15<<36)

	writeFLACBlock(&buf, 0, false, streamInfo)
	writeFLACBlock(&buf, 4, true, vorbisCommentBody(comments...))
	return buf.Bytes()
}

func writeFLACBlock(buf *bytes.Buffer, blockType byte, last bool, data []byte) {
	if last {
		blockType |= 0x80
	}
	n := len(data)
	buf.Write([]byte{blockType, byte(n >> 16), byte(n >> 8), byte(n)})
	buf.Write(data)
}

var oggCRCTable = func() (table [256]uint32) {
	for i := range table {
		r := uint32(i) << 24 //nolint:gosec // i < 256
		for range 8 {
			if r&0x80000000 != 0 {
				r = r<<1 ^ 0x04c11db7
			} else {
				r <<= 1
			}
		}
		table[i] = r
	}
	return table
}()

func oggCRC(b []byte) uint32 {
	var crc uint32
	for _, c := range b {
		crc = crc<<8 ^ oggCRCTable[byte(crc>>24)^c]
	}
	return crc
}

// oggPage wraps one packet in one Ogg page.
func oggPage(headerType byte, granule uint64, seq uint32, packet []byte) []byte {
	var segments []byte
	n := len(packet)
	for n >= 255 {
		segments = append(segments, 255)
		n -= 255
	}
	segments = append(segments, byte(n))
	if len(segments) > 255 {
		panic("packet too large for a single Ogg page")
	}

	page := []byte("OggS")
	page = append(page, 0, headerType)
	page = binary.LittleEndian.AppendUint64(page, granule)
	page = binary.LittleEndian.AppendUint32(page, 0x6d657461) // serial
	page = binary.LittleEndian.AppendUint32(page, seq)
	page = binary.LittleEndian.AppendUint32(page, 0) // CRC, filled below
	page = append(page, byte(len(segments)))
	page = append(page, segments...)
	page = append(page, packet...)

	binary.LittleEndian.PutUint32(page[22:], oggCRC(page))
	return page
}

// synthOpus returns an Ogg Opus stream with the given comments and one
// 20 ms silence frame.
func synthOpus(comments ...string) []byte {
	head := []byte("OpusHead")
	head = append(head, 1, 2) // version, channels
	head = binary.LittleEndian.AppendUint16(head, 312)
	head = binary.LittleEndian.AppendUint32(head, 48000)
	head = binary.LittleEndian.AppendUint16(head, 0) // output gain
	head = append(head, 0)                           // channel mapping family

	opusTags := append([]byte("OpusTags"), vorbisCommentBody(comments...)...)

	var out []byte
	out = append(out, oggPage(0x02, 0, 0, head)...)
	out = append(out, oggPage(0x00, 0, 1, opusTags)...)
	out = append(out, oggPage(0x04, 312+960, 2, []byte{0xf8, 0xff, 0xfe})...)
	return out
}

func mp4Box(boxType string, payload ...[]byte) []byte {
	size := 8
	for _, p := range payload {
		size += len(p)
	}
	b := binary.BigEndian.AppendUint32(nil, uint32(size)) //nolint:gosec // test fixture
	b = append(b, boxType...)
	for _, p := range payload {
		b = append(b, p...)
	}
	return b
}

func mp4FullBox(boxType string, body []byte) []byte {
	return mp4Box(boxType, []byte{0, 0, 0, 0}, body)
}

var mp4IdentityMatrix = func() []byte {
	var b []byte
	for _, v := range []uint32{0x00010000, 0, 0, 0, 0x00010000, 0, 0, 0, 0x40000000} {
		b = binary.BigEndian.AppendUint32(b, v)
	}
	return b
}()

// synthM4A returns an M4A file with one audio track, an empty ilst and a
// small mdat referenced by the track's chunk offset table.
func synthM4A() []byte {
	ftyp := mp4Box("ftyp", []byte("M4A "), []byte{0, 0, 0, 0}, []byte("M4A mp42isom"))
	mdatPayload := make([]byte, 16)

	build := func(chunkOffset uint32) []byte {
		mvhd := binary.BigEndian.AppendUint32(nil, 0)          // creation
		mvhd = binary.BigEndian.AppendUint32(mvhd, 0)          // modification
		mvhd = binary.BigEndian.AppendUint32(mvhd, 1000)       // timescale
		mvhd = binary.BigEndian.AppendUint32(mvhd, 1000)       // duration
		mvhd = binary.BigEndian.AppendUint32(mvhd, 0x00010000) // rate
		mvhd = binary.BigEndian.AppendUint16(mvhd, 0x0100)     // volume
		mvhd = append(mvhd, make([]byte, 10)...)
		mvhd = append(mvhd, mp4IdentityMatrix...)
		mvhd = append(mvhd, make([]byte, 24)...)
		mvhd = binary.BigEndian.AppendUint32(mvhd, 2) // next track ID

		tkhd := binary.BigEndian.AppendUint32(nil, 0)
		tkhd = binary.BigEndian.AppendUint32(tkhd, 0)
		tkhd = binary.BigEndian.AppendUint32(tkhd, 1) // track ID
		tkhd = binary.BigEndian.AppendUint32(tkhd, 0)
		tkhd = binary.BigEndian.AppendUint32(tkhd, 1000)
		tkhd = append(tkhd, make([]byte, 8)...)
		tkhd = binary.BigEndian.AppendUint16(tkhd, 0)      // layer
		tkhd = binary.BigEndian.AppendUint16(tkhd, 0)      // alternate group
		tkhd = binary.BigEndian.AppendUint16(tkhd, 0x0100) // volume
		tkhd = binary.BigEndian.AppendUint16(tkhd, 0)
		tkhd = append(tkhd, mp4IdentityMatrix...)
		tkhd = append(tkhd, make([]byte, 8)...) // width, height

		mdhd := binary.BigEndian.AppendUint32(nil, 0)
		mdhd = binary.BigEndian.AppendUint32(mdhd, 0)
		mdhd = binary.BigEndian.AppendUint32(mdhd, 44100)
		mdhd = binary.BigEndian.AppendUint32(mdhd, 44100)
		mdhd = binary.BigEndian.AppendUint16(mdhd, 0x55c4) // "und"
		mdhd = binary.BigEndian.AppendUint16(mdhd, 0)

		handler := func(kind, reserved string) []byte {
			b := make([]byte, 4)
			b = append(b, kind...)
			r := make([]byte, 12)
			copy(r, reserved)
			b = append(b, r...)
			return append(b, 0)
		}

		stco := binary.BigEndian.AppendUint32(nil, 1)
		stco = binary.BigEndian.AppendUint32(stco, chunkOffset)

		trak := mp4Box("trak",
			mp4FullBox("tkhd", tkhd),
			mp4Box("mdia",
				mp4FullBox("mdhd", mdhd),
				mp4FullBox("hdlr", handler("soun", "")),
				mp4Box("minf",
					mp4Box("stbl", mp4FullBox("stco", stco)),
				),
			),
		)
		udta := mp4Box("udta",
			mp4FullBox("meta", append(mp4FullBox("hdlr", handler("mdir", "appl")), mp4Box("ilst")...)),
		)
		return mp4Box("moov", mp4FullBox("mvhd", mvhd), trak, udta)
	}

	moov := build(0)
	offset := len(ftyp) + len(moov) + 8
	moov = build(uint32(offset)) //nolint:gosec // small fixture

	out := append([]byte{}, ftyp...)
	out = append(out, moov...)
	return append(out, mp4Box("mdat", mdatPayload)...)
}
