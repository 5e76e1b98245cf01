package audio

import (
	"errors"
	"io"

	"github.com/mewkiz/flac"
)

func parseFLAC(r io.ReadSeeker) (*Format, error) {
	// flac.Stream.Close closes its reader when it can; hide the caller's Closer.
	stream, err := flac.New(struct{ io.Reader }{r})
	if err != nil {
		return nil, decodeErr("flac", err)
	}
	info := stream.Info
	if info == nil || info.SampleRate == 0 {
		return nil, decodeErr("flac", errors.New("missing stream info"))
	}
	// A zero sample count (total unknown to the encoder) reads as length 0,
	// which the length check rejects.
	return &Format{
		Name:       "flac",
		Length:     float64(info.NSamples) / float64(info.SampleRate),
		SampleRate: int(info.SampleRate),
		Channels:   int(info.NChannels),
	}, nil
}
