package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/getsentry/sentry-go"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/shah-jinay/image-tool.io/internal/config"
	"github.com/shah-jinay/image-tool.io/internal/convert"
	"github.com/shah-jinay/image-tool.io/internal/entities"
	"github.com/shah-jinay/image-tool.io/internal/queue"
)

type Queue interface {
	Ingest(ctx context.Context, inputs []queue.Input) []entities.QueueEntry
	ImportURL(ctx context.Context, rawURL string) (entities.QueueEntry, error)
	AddSamples(ctx context.Context) []entities.QueueEntry
	Entries() []entities.QueueEntry
	Entry(i int) (entities.QueueEntry, bool)
	Remove(i int) bool
	Clear() int
}

type Converter interface {
	Convert(ctx context.Context, files []convert.File, opts entities.ConversionOptions) (*convert.Result, error)
}

type Settings interface {
	Theme(ctx context.Context) string
	SetTheme(ctx context.Context, theme string) error
}

type Handler struct {
	queue     Queue
	converter Converter
	settings  Settings
	cfg       *config.Config
	validator *validator.Validate
}

func New(q Queue, c Converter, s Settings, cfg *config.Config) *Handler {
	return &Handler{
		queue:     q,
		converter: c,
		settings:  s,
		cfg:       cfg,
		validator: validator.New(),
	}
}

// Upload ingests the files of one multipart request (picker, drop or paste
// all land here). A file that fails to read is skipped; the rest of the
// batch still goes through.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.cfg.Upload.MaxRequestBodyMB<<20)

	if err := r.ParseMultipartForm(h.cfg.Upload.MaxMultipartMemoryMB << 20); err != nil {
		writeMultipartError(w, err)
		return
	}

	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		writeJSONError(w, `missing files: form field key should be "files"`, http.StatusBadRequest)
		return
	}

	inputs := make([]queue.Input, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			continue
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			continue
		}
		inputs = append(inputs, queue.Input{
			Name:         fh.Filename,
			DeclaredType: fh.Header.Get("Content-Type"),
			Data:         data,
		})
	}

	batch := h.queue.Ingest(r.Context(), inputs)

	base := h.queue.Entries()
	offset := len(base) - len(batch)
	out := make([]EntrySummary, len(batch))
	for i, e := range batch {
		out[i] = summarize(offset+i, e)
	}
	writeJSON(w, http.StatusCreated, out)
}

func (h *Handler) ListQueue(w http.ResponseWriter, r *http.Request) {
	entries := h.queue.Entries()
	out := make([]EntrySummary, len(entries))
	for i, e := range entries {
		out[i] = summarize(i, e)
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) RemoveEntry(w http.ResponseWriter, r *http.Request) {
	i := parseIntDefault(chi.URLParam(r, "index"), -1)
	if !h.queue.Remove(i) {
		writeJSONError(w, fmt.Sprintf("no queue entry at index %d", i), http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ClearQueue(w http.ResponseWriter, r *http.Request) {
	h.queue.Clear()
	w.WriteHeader(http.StatusNoContent)
}

// Preview serves the thumbnail bytes behind an entry's preview handle.
func (h *Handler) Preview(w http.ResponseWriter, r *http.Request) {
	i := parseIntDefault(chi.URLParam(r, "index"), -1)
	e, ok := h.queue.Entry(i)
	if !ok || e.Preview == nil {
		writeJSONError(w, fmt.Sprintf("no preview for index %d", i), http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", e.Preview.ContentType())
	_, _ = w.Write(e.Preview.Bytes())
}

func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	var req ImportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		writeJSON(w, http.StatusBadRequest, validationErrorsToMap(err))
		return
	}

	e, err := h.queue.ImportURL(r.Context(), req.URL)
	if err != nil {
		var ferr *queue.FetchError
		if errors.As(err, &ferr) {
			writeJSONError(w, ferr.Error(), http.StatusBadGateway)
		} else {
			writeJSONError(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	// Locate the imported entry in one snapshot; a concurrent upload may
	// have appended after it, so the tail is not necessarily ours.
	entries := h.queue.Entries()
	index := len(entries) - 1
	for i := len(entries) - 1; i >= 0; i-- {
		if sameEntry(entries[i], e) {
			index = i
			break
		}
	}
	writeJSON(w, http.StatusCreated, summarize(index, e))
}

func (h *Handler) AddSamples(w http.ResponseWriter, r *http.Request) {
	h.queue.AddSamples(r.Context())
	h.ListQueue(w, r)
}

// Convert submits the whole queue plus the user's options as one request to
// the remote conversion service and streams the returned file back as a
// download.
func (h *Handler) Convert(w http.ResponseWriter, r *http.Request) {
	entries := h.queue.Entries()
	if len(entries) == 0 {
		writeJSONError(w, "queue is empty", http.StatusBadRequest)
		return
	}

	if err := r.ParseForm(); err != nil {
		writeJSONError(w, "invalid form body", http.StatusBadRequest)
		return
	}
	opts := parseOptions(r)

	files := make([]convert.File, len(entries))
	for i, e := range entries {
		files[i] = convert.File{Name: e.Name, Data: e.Data}
	}

	res, err := h.converter.Convert(r.Context(), files, opts)
	if err != nil {
		var cerr *convert.ConversionError
		switch {
		case errors.As(err, &cerr):
			writeJSONError(w, cerr.Message, http.StatusBadGateway)
		case errors.Is(err, convert.ErrInvalidOptions):
			writeJSONError(w, err.Error(), http.StatusBadRequest)
		default:
			sentry.CaptureException(err)
			writeJSONError(w, err.Error(), http.StatusBadGateway)
		}
		return
	}

	w.Header().Set("Content-Type", res.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", res.Filename))
	_, _ = w.Write(res.Data)
}

func (h *Handler) GetTheme(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, ThemeResponse{Theme: h.settings.Theme(r.Context())})
}

func (h *Handler) SetTheme(w http.ResponseWriter, r *http.Request) {
	var req ThemeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		writeJSON(w, http.StatusBadRequest, validationErrorsToMap(err))
		return
	}
	if err := h.settings.SetTheme(r.Context(), req.Theme); err != nil {
		writeJSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, ThemeResponse{Theme: req.Theme})
}

// parseOptions maps form fields onto ConversionOptions. Absent numerics stay
// nil; fit defaults to true like the conversion service itself.
func parseOptions(r *http.Request) entities.ConversionOptions {
	return entities.ConversionOptions{
		To:           strings.ToLower(r.Form.Get("to")),
		Quality:      parseIntPtr(r.Form.Get("quality")),
		Lossless:     parseBoolDefault(r.Form.Get("lossless"), false),
		Progressive:  parseBoolDefault(r.Form.Get("progressive"), false),
		KeepMetadata: parseBoolDefault(r.Form.Get("keep_metadata"), false),
		ToSRGB:       parseBoolDefault(r.Form.Get("to_srgb"), false),
		Width:        parseIntPtr(r.Form.Get("width")),
		Height:       parseIntPtr(r.Form.Get("height")),
		Fit:          parseBoolDefault(r.Form.Get("fit"), true),
		RotateDeg:    parseIntDefault(r.Form.Get("rotate_deg"), 0),
		CropX:        parseIntPtr(r.Form.Get("crop_x")),
		CropY:        parseIntPtr(r.Form.Get("crop_y")),
		CropW:        parseIntPtr(r.Form.Get("crop_w")),
		CropH:        parseIntPtr(r.Form.Get("crop_h")),
		Background:   r.Form.Get("bg"),
	}
}

// sameEntry reports whether two entry snapshots refer to the same queued
// file, matching on the shared preview handle or data backing array.
func sameEntry(a, b entities.QueueEntry) bool {
	if a.Preview != nil || b.Preview != nil {
		return a.Preview == b.Preview
	}
	if len(a.Data) > 0 && len(b.Data) > 0 {
		return &a.Data[0] == &b.Data[0]
	}
	return a.Name == b.Name
}

func summarize(index int, e entities.QueueEntry) EntrySummary {
	return EntrySummary{
		Index:      index,
		Name:       e.Name,
		Size:       e.Size,
		HasPreview: e.Preview != nil,
		Dims:       e.Dims,
		Label:      e.Label,
	}
}
