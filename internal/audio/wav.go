package audio

import (
	"errors"
	"io"

	"github.com/go-audio/wav"
)

// parseWAV reads the fmt and data chunk headers. Length is derived from the
// PCM byte count, so the samples themselves are never read.
func parseWAV(r io.ReadSeeker) (*Format, error) {
	d := wav.NewDecoder(r)
	if !d.IsValidFile() {
		err := d.Err()
		if err == nil {
			err = errors.New("invalid wav header")
		}
		return nil, decodeErr("wav", err)
	}
	if err := d.FwdToPCM(); err != nil {
		return nil, decodeErr("wav", err)
	}

	bytesPerSec := float64(d.AvgBytesPerSec)
	if bytesPerSec == 0 {
		bytesPerSec = float64(d.SampleRate) * float64(d.NumChans) * float64(d.BitDepth) / 8
	}
	if bytesPerSec <= 0 {
		return nil, decodeErr("wav", errors.New("zero byte rate"))
	}

	return &Format{
		Name:       "wav",
		Length:     float64(d.PCMSize) / bytesPerSec,
		SampleRate: int(d.SampleRate),
		Channels:   int(d.NumChans),
	}, nil
}
