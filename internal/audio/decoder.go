package audio

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/satindergrewal/po33hub/internal/logging"
)

// nativeParsers maps detected containers to their in-process parsers.
var nativeParsers = map[container]func(io.ReadSeeker) (*Format, error){
	containerWAV:  parseWAV,
	containerFLAC: parseFLAC,
	containerMP3:  parseMP3,
	containerOpus: parseOpus,
}

// Decoder detects an audio container from stream contents and reads its
// duration. The zero value handles WAV, FLAC, MP3 and Ogg Opus natively.
type Decoder struct {
	// FFprobe is the ffprobe binary used for formats without a native parser.
	// Empty disables the fallback.
	FFprobe string
	// FFprobeTimeout bounds a single ffprobe run. Zero means no limit.
	FFprobeTimeout time.Duration
	Logger         *slog.Logger
}

// NewDecoder creates a decoder with an optional ffprobe fallback.
func NewDecoder(ffprobe string, timeout time.Duration, logger *slog.Logger) *Decoder {
	return &Decoder{FFprobe: ffprobe, FFprobeTimeout: timeout, Logger: logger}
}

// Parse returns the stream's audio format, or nil when the contents are not
// recognized as audio. Errors wrap ErrDecode. The stream is read from the
// start and left at the offset it had on entry; it is never closed.
func (d *Decoder) Parse(r io.ReadSeeker) (format *Format, err error) {
	origin, err := r.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, decodeErr("seek", err)
	}
	defer func() {
		if _, seekErr := r.Seek(origin, io.SeekStart); seekErr != nil && err == nil {
			format, err = nil, decodeErr("seek", seekErr)
		}
	}()

	kind := containerUnknown
	// Third-party parsers can index out of range on corrupt input.
	defer func() {
		if p := recover(); p != nil {
			format, err = nil, decodeErr(kind.String(), fmt.Errorf("panic: %v", p))
		}
	}()

	if err := rewind(r); err != nil {
		return nil, err
	}
	head, err := readHead(r)
	if err != nil {
		return nil, decodeErr("read", err)
	}
	if err := rewind(r); err != nil {
		return nil, err
	}

	kind = detect(head)
	d.logger().Debug("audio container detected", "container", kind.String(), "head_bytes", len(head))

	if parse, ok := nativeParsers[kind]; ok {
		return parse(r)
	}

	if len(head) == 0 || d.FFprobe == "" {
		return nil, nil
	}
	return runFFprobe(d.FFprobe, d.FFprobeTimeout, r)
}

func (d *Decoder) logger() *slog.Logger {
	if d == nil || d.Logger == nil {
		return logging.Discard()
	}
	return d.Logger
}

func rewind(r io.Seeker) error {
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return decodeErr("seek", fmt.Errorf("rewind: %w", err))
	}
	return nil
}
