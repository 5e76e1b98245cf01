package audio

import (
	"errors"
	"io"

	"gopkg.in/hraban/opus.v2"
)

// Ogg Opus carries no reliable duration in its headers, so the stream is
// decoded and samples are counted. 120ms at 48kHz is the largest Opus packet.
const opusMaxFrame = 5760

func parseOpus(r io.ReadSeeker) (*Format, error) {
	s, err := opus.NewStream(struct{ io.Reader }{r})
	if err != nil {
		return nil, decodeErr("opus", err)
	}
	defer s.Close()

	// Room for 8 channels; Read reports samples per channel.
	pcm := make([]int16, opusMaxFrame*8)
	var total int64
	for {
		n, err := s.Read(pcm)
		total += int64(n)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, decodeErr("opus", err)
		}
		if n == 0 {
			break
		}
	}

	return &Format{
		Name:       "opus",
		Length:     float64(total) / OpusSampleRate,
		SampleRate: OpusSampleRate,
	}, nil
}
