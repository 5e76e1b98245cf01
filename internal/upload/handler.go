package upload

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/satindergrewal/po33hub/internal/logging"
	"github.com/satindergrewal/po33hub/internal/sample"
)

// FieldName is the multipart field carrying the sample file.
const FieldName = "sample"

// Parts beyond this stay on disk while the form is parsed.
const formMemory = 8 << 20

// Handler accepts pack sample uploads and runs the length validator on them.
// Accepted samples are not stored.
type Handler struct {
	validator *sample.Validator
	maxBytes  int64
	logger    *slog.Logger
}

// Response is the JSON body returned for every upload.
type Response struct {
	OK       bool    `json:"ok"`
	Filename string  `json:"filename,omitempty"`
	Format   string  `json:"format,omitempty"`
	Length   float64 `json:"length,omitempty"`
	Error    string  `json:"error,omitempty"`
	Kind     string  `json:"kind,omitempty"`
}

// NewHandler creates an upload handler. maxBytes bounds the request body.
func NewHandler(v *sample.Validator, maxBytes int64, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Handler{validator: v, maxBytes: maxBytes, logger: logger}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.NewString()
	w.Header().Set("X-Request-ID", requestID)
	log := h.logger.With("request_id", requestID)

	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeJSON(w, http.StatusMethodNotAllowed, Response{Error: "POST required"})
		return
	}

	if h.maxBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)
	}
	if err := r.ParseMultipartForm(formMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			msg := fmt.Sprintf("Upload exceeds the %s limit.", humanize.IBytes(uint64(h.maxBytes)))
			log.Warn("upload rejected", "reason", "too_large", "limit", h.maxBytes)
			writeJSON(w, http.StatusRequestEntityTooLarge, Response{Error: msg})
			return
		}
		log.Warn("upload rejected", "reason", "malformed_form", "error", err)
		writeJSON(w, http.StatusBadRequest, Response{Error: "Invalid upload form."})
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile(FieldName)
	if err != nil {
		log.Warn("upload rejected", "reason", "missing_file", "error", err)
		writeJSON(w, http.StatusBadRequest, Response{Error: "No sample file provided."})
		return
	}
	defer file.Close()

	log = log.With("filename", header.Filename, "size", header.Size)

	format, err := h.validator.Load(file)
	if err == nil {
		err = sample.ValidateLength(format.Length)
	}
	if err != nil {
		kind, ok := sample.KindOf(err)
		if !ok {
			log.Error("sample validation failed", "error", err)
			writeJSON(w, http.StatusInternalServerError, Response{Error: "Internal error."})
			return
		}
		attrs := []any{"kind", kind.String()}
		if format != nil {
			attrs = append(attrs, "format", format.Name, "length", format.Length)
		}
		if cause := errors.Unwrap(err); cause != nil {
			attrs = append(attrs, "error", cause)
		}
		log.Info("sample rejected", attrs...)
		writeJSON(w, http.StatusBadRequest, Response{Filename: header.Filename, Error: err.Error(), Kind: kind.String()})
		return
	}

	log.Info("sample accepted", "format", format.Name, "length", format.Length)
	writeJSON(w, http.StatusOK, Response{
		OK:       true,
		Filename: header.Filename,
		Format:   format.Name,
		Length:   format.Length,
	})
}

func writeJSON(w http.ResponseWriter, status int, body Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
