// Package sample validates uploaded pack samples: PO-33 data transfer
// recordings, which have a fixed length.
package sample

import (
	"errors"
	"io"
	"math"

	"github.com/satindergrewal/po33hub/internal/audio"
)

const (
	// PerfectPackLength is the nominal length of a PO-33 data transfer, in seconds.
	PerfectPackLength = 4 * 60
	// AllowedError is the tolerance around PerfectPackLength, in seconds.
	AllowedError = 10

	MinLength = PerfectPackLength - AllowedError
	MaxLength = PerfectPackLength + AllowedError
)

const (
	FileLoadMessage      = "Error loading audio file."
	NotAudioMessage      = "File not detected as audio."
	InvalidLengthMessage = "Pack sample files (PO-33 data transfer audios) must be from 4min to 4min 20s long."
)

// ErrorKind classifies a validation failure.
type ErrorKind int

const (
	FileLoadError ErrorKind = iota + 1
	NotAudioError
	InvalidLengthError
)

func (k ErrorKind) String() string {
	switch k {
	case FileLoadError:
		return "file_load"
	case NotAudioError:
		return "not_audio"
	case InvalidLengthError:
		return "invalid_length"
	default:
		return "unknown"
	}
}

// Message returns the user-facing text for the kind.
func (k ErrorKind) Message() string {
	switch k {
	case FileLoadError:
		return FileLoadMessage
	case NotAudioError:
		return NotAudioMessage
	case InvalidLengthError:
		return InvalidLengthMessage
	default:
		return "Invalid pack sample."
	}
}

// ValidationError is returned for every rejected sample. Its message is safe
// to show to the uploader.
type ValidationError struct {
	Kind ErrorKind
	Err  error // decode failure behind a FileLoadError, if any
}

func (e *ValidationError) Error() string {
	return e.Kind.Message()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// KindOf reports the kind of a validation error anywhere in err's chain.
func KindOf(err error) (ErrorKind, bool) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.Kind, true
	}
	return 0, false
}

// Parser reads audio metadata from a stream. It returns a nil format without
// error when the contents are not audio.
type Parser interface {
	Parse(r io.ReadSeeker) (*audio.Format, error)
}

// Validator checks uploaded samples with the given parser.
type Validator struct {
	Parser Parser
}

// NewValidator creates a validator backed by p.
func NewValidator(p Parser) *Validator {
	return &Validator{Parser: p}
}

// ValidatePackSampleLength decodes r and checks that its length falls within
// the PO-33 transfer window. r is borrowed: it is not closed.
func (v *Validator) ValidatePackSampleLength(r io.ReadSeeker) error {
	format, err := v.Load(r)
	if err != nil {
		return err
	}
	return ValidateLength(format.Length)
}

// Load decodes r and returns its format, or a ValidationError when r cannot
// be read or is not audio.
func (v *Validator) Load(r io.ReadSeeker) (*audio.Format, error) {
	format, err := v.Parser.Parse(r)
	if err != nil {
		return nil, &ValidationError{Kind: FileLoadError, Err: err}
	}
	if format == nil {
		return nil, &ValidationError{Kind: NotAudioError}
	}
	return format, nil
}

// ValidateLength accepts lengths in [MinLength, MaxLength] seconds, inclusive.
func ValidateLength(length float64) error {
	if math.IsNaN(length) || length < MinLength || length > MaxLength {
		return &ValidationError{Kind: InvalidLengthError}
	}
	return nil
}
