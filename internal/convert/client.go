package convert

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shah-jinay/image-tool.io/internal/entities"
)

// filesField is the repeated multipart field carrying the queued files.
const filesField = "files"

// File is one queued file as submitted to the conversion service.
type File struct {
	Name string
	Data []byte
}

// Result is a successful conversion: a single converted image or a zip
// archive, plus the filename the user's download should carry.
type Result struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Client submits conversion batches to the remote service. The whole batch
// goes out as one multipart POST and succeeds or fails as one request; there
// is no retry and no partial-failure reporting.
type Client struct {
	baseURL  string
	hc       *http.Client
	validate *validator.Validate
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:  baseURL,
		hc:       &http.Client{Timeout: timeout},
		validate: validator.New(),
	}
}

// Convert posts files and options to {baseURL}/convert and returns the
// converted payload.
func (c *Client) Convert(ctx context.Context, files []File, opts entities.ConversionOptions) (*Result, error) {
	if len(files) == 0 {
		return nil, errors.New("convert: no files queued")
	}
	if err := c.validate.Struct(opts); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidOptions, err)
	}

	body, contentType, err := buildForm(files, opts)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/convert", body)
	if err != nil {
		return nil, fmt.Errorf("convert: build request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("convert: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, readError(resp)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("convert: read response: %w", err)
	}

	respType := resp.Header.Get("Content-Type")
	return &Result{
		Filename:    filenameFor(resp.Header.Get("Content-Disposition"), respType, opts.To),
		ContentType: respType,
		Data:        data,
	}, nil
}

// buildForm writes the multipart body: every file under the repeated files
// field, then one field per option. Nil numerics and an empty background are
// omitted; booleans are always sent as their string form.
func buildForm(files []File, opts entities.ConversionOptions) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, f := range files {
		part, err := w.CreateFormFile(filesField, f.Name)
		if err != nil {
			return nil, "", fmt.Errorf("convert: form file %q: %w", f.Name, err)
		}
		if _, err := part.Write(f.Data); err != nil {
			return nil, "", fmt.Errorf("convert: write %q: %w", f.Name, err)
		}
	}

	fields := []struct {
		name  string
		value string
		omit  bool
	}{
		{name: "to", value: opts.To},
		{name: "quality", value: intString(opts.Quality), omit: opts.Quality == nil},
		{name: "lossless", value: strconv.FormatBool(opts.Lossless)},
		{name: "progressive", value: strconv.FormatBool(opts.Progressive)},
		{name: "keep_metadata", value: strconv.FormatBool(opts.KeepMetadata)},
		{name: "to_srgb", value: strconv.FormatBool(opts.ToSRGB)},
		{name: "width", value: intString(opts.Width), omit: opts.Width == nil},
		{name: "height", value: intString(opts.Height), omit: opts.Height == nil},
		{name: "fit", value: strconv.FormatBool(opts.Fit)},
		{name: "rotate_deg", value: strconv.Itoa(opts.RotateDeg)},
		{name: "crop_x", value: intString(opts.CropX), omit: opts.CropX == nil},
		{name: "crop_y", value: intString(opts.CropY), omit: opts.CropY == nil},
		{name: "crop_w", value: intString(opts.CropW), omit: opts.CropW == nil},
		{name: "crop_h", value: intString(opts.CropH), omit: opts.CropH == nil},
		{name: "bg", value: opts.Background, omit: opts.Background == ""},
	}
	for _, f := range fields {
		if f.omit {
			continue
		}
		if err := w.WriteField(f.name, f.value); err != nil {
			return nil, "", fmt.Errorf("convert: write field %q: %w", f.name, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("convert: close form: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}

func intString(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

// readError turns a non-2xx response into a ConversionError, preferring the
// JSON error field and falling back to the HTTP status text.
func readError(resp *http.Response) error {
	cerr := &ConversionError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil || len(body) == 0 {
		return cerr
	}

	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
		cerr.Message = payload.Error
	}
	return cerr
}
