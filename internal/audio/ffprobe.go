package audio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// probeResult is the subset of ffprobe's JSON output the fallback needs.
type probeResult struct {
	Streams []probeStream `json:"streams"`
	Format  probeFormat   `json:"format"`
}

type probeStream struct {
	CodecType  string `json:"codec_type"`
	CodecName  string `json:"codec_name"`
	SampleRate string `json:"sample_rate"`
	Channels   int    `json:"channels"`
	Duration   string `json:"duration"`
}

type probeFormat struct {
	FormatName string `json:"format_name"`
	Duration   string `json:"duration"`
}

// runFFprobe pipes r into ffprobe. A non-zero exit means ffprobe did not recognize
// the input, which is reported as an unrecognized format rather than an error.
func runFFprobe(binary string, timeout time.Duration, r io.Reader) (*Format, error) {
	ctx := context.Background()
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, binary,
		"-v", "error",
		"-hide_banner",
		"-show_format",
		"-show_streams",
		"-of", "json",
		"-i", "pipe:0",
	)
	cmd.Stdin = r
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, decodeErr("ffprobe", ctx.Err())
		}
		if _, ok := err.(*exec.ExitError); ok {
			return nil, nil
		}
		return nil, decodeErr("ffprobe", fmt.Errorf("%w: %s", err, strings.TrimSpace(stderr.String())))
	}

	var result probeResult
	if err := json.Unmarshal(stdout.Bytes(), &result); err != nil {
		return nil, decodeErr("ffprobe", fmt.Errorf("parse output: %w", err))
	}
	return result.format(), nil
}

// format converts an ffprobe result into a Format, or nil when it holds no
// audio stream with a usable duration.
func (p probeResult) format() *Format {
	var audio *probeStream
	for i := range p.Streams {
		if strings.EqualFold(p.Streams[i].CodecType, "audio") {
			audio = &p.Streams[i]
			break
		}
	}
	if audio == nil {
		return nil
	}

	length := parseSeconds(p.Format.Duration)
	if length <= 0 {
		length = parseSeconds(audio.Duration)
	}
	if length <= 0 {
		return nil
	}

	rate, _ := strconv.Atoi(strings.TrimSpace(audio.SampleRate))
	name := p.Format.FormatName
	if name == "" {
		name = audio.CodecName
	}
	return &Format{
		Name:       name,
		Length:     length,
		SampleRate: rate,
		Channels:   audio.Channels,
	}
}

// parseSeconds returns 0 for empty, "N/A" and malformed values.
func parseSeconds(value string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
