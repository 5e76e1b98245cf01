package audio

import (
	"bytes"
	"errors"
	"io"
)

type container int

const (
	containerUnknown container = iota
	containerWAV
	containerFLAC
	containerMP3
	containerOpus
	containerRIFF // RIFF, but not WAVE
	containerOgg  // Ogg, but not Opus
)

// sniffLen covers the first Ogg page header plus the OpusHead magic.
const sniffLen = 64

func (c container) String() string {
	switch c {
	case containerWAV:
		return "wav"
	case containerFLAC:
		return "flac"
	case containerMP3:
		return "mp3"
	case containerOpus:
		return "opus"
	case containerRIFF:
		return "riff"
	case containerOgg:
		return "ogg"
	default:
		return "unknown"
	}
}

// readHead reads up to sniffLen bytes from the current offset.
// Short streams are not an error.
func readHead(r io.Reader) ([]byte, error) {
	buf := make([]byte, sniffLen)
	n, err := io.ReadFull(r, buf)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, err
	}
	return buf[:n], nil
}

// detect identifies the container from its leading bytes.
func detect(head []byte) container {
	switch {
	case len(head) >= 12 && bytes.Equal(head[0:4], []byte("RIFF")):
		if bytes.Equal(head[8:12], []byte("WAVE")) {
			return containerWAV
		}
		return containerRIFF
	case bytes.HasPrefix(head, []byte("fLaC")):
		return containerFLAC
	case bytes.HasPrefix(head, []byte("OggS")):
		// The first page carries the codec identification packet at byte 28
		// when the page has a single segment, which is what encoders emit.
		if len(head) >= 36 && bytes.Equal(head[28:36], []byte("OpusHead")) {
			return containerOpus
		}
		return containerOgg
	case bytes.HasPrefix(head, []byte("ID3")):
		return containerMP3
	case isMPEGAudioSync(head):
		return containerMP3
	}
	return containerUnknown
}

// isMPEGAudioSync reports whether head starts with an MPEG audio frame header.
// ADTS AAC shares the sync word but has layer bits 00.
func isMPEGAudioSync(head []byte) bool {
	if len(head) < 4 {
		return false
	}
	if head[0] != 0xFF || head[1]&0xE0 != 0xE0 {
		return false
	}
	version := (head[1] >> 3) & 0x03
	layer := (head[1] >> 1) & 0x03
	bitrate := head[2] >> 4
	rate := (head[2] >> 2) & 0x03
	return version != 0x01 && layer != 0x00 && bitrate != 0x0F && rate != 0x03
}
