package audio

import (
	"errors"
	"fmt"
)

// Opus always decodes at 48kHz regardless of the input rate.
const OpusSampleRate = 48000

// ErrDecode marks a stream whose container was detected but could not be parsed.
var ErrDecode = errors.New("audio decode failed")

// Format describes a recognized audio stream.
type Format struct {
	Name       string  // container name: wav, flac, mp3, opus or the ffprobe format
	Length     float64 // seconds
	SampleRate int
	Channels   int
}

func decodeErr(name string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrDecode, name, err)
}
