package audio

import (
	"errors"
	"io"

	"github.com/hajimehoshi/go-mp3"
)

// go-mp3 always decodes to 16-bit stereo.
const mp3BytesPerFrame = 4

// parseMP3 relies on r being seekable so the decoder can scan every frame
// header up front and report the total decoded length.
func parseMP3(r io.ReadSeeker) (*Format, error) {
	d, err := mp3.NewDecoder(r)
	if err != nil {
		return nil, decodeErr("mp3", err)
	}
	size := d.Length()
	if size < 0 {
		return nil, decodeErr("mp3", errors.New("unknown stream length"))
	}
	rate := d.SampleRate()
	if rate <= 0 {
		return nil, decodeErr("mp3", errors.New("invalid sample rate"))
	}

	return &Format{
		Name:       "mp3",
		Length:     float64(size) / mp3BytesPerFrame / float64(rate),
		SampleRate: rate,
		Channels:   2,
	}, nil
}
