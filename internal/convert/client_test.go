package convert

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shah-jinay/image-tool.io/internal/entities"
)

func intp(v int) *int { return &v }

func testImage(t *testing.T) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.SetRGBA(x, y, color.RGBA{R: uint8(32 * x), G: uint8(32 * y), A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestConvertBuildsExpectedForm(t *testing.T) {
	var form map[string][]string
	var fileNames []string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/convert" {
			t.Errorf("Expected path /convert, got %s", r.URL.Path)
		}
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		form = r.MultipartForm.Value
		for _, fh := range r.MultipartForm.File["files"] {
			fileNames = append(fileNames, fh.Filename)
		}
		w.Header().Set("Content-Type", "image/webp")
		_, _ = w.Write([]byte("webp-bytes"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second)
	res, err := c.Convert(context.Background(), []File{{Name: "in.png", Data: testImage(t)}}, entities.ConversionOptions{
		To:      "webp",
		Quality: intp(85),
		Fit:     true,
	})
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}

	if len(fileNames) != 1 || fileNames[0] != "in.png" {
		t.Errorf("Expected exactly one files entry named in.png, got %v", fileNames)
	}

	expect := map[string]string{
		"to":            "webp",
		"quality":       "85",
		"lossless":      "false",
		"progressive":   "false",
		"keep_metadata": "false",
		"to_srgb":       "false",
		"fit":           "true",
		"rotate_deg":    "0",
	}
	for field, want := range expect {
		got := form[field]
		if len(got) != 1 || got[0] != want {
			t.Errorf("Expected field %s=%q, got %v", field, want, got)
		}
	}

	for _, absent := range []string{"width", "height", "crop_x", "crop_y", "crop_w", "crop_h", "bg"} {
		if _, ok := form[absent]; ok {
			t.Errorf("Expected field %s to be omitted, got %v", absent, form[absent])
		}
	}

	if string(res.Data) != "webp-bytes" {
		t.Errorf("Expected response body to round-trip, got %q", res.Data)
	}
}

func TestConvertOmitsNilCropComponentsIndividually(t *testing.T) {
	var form map[string][]string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		form = r.MultipartForm.Value
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second)
	_, err := c.Convert(context.Background(), []File{{Name: "in.png", Data: testImage(t)}}, entities.ConversionOptions{
		To:    "png",
		Fit:   true,
		CropY: intp(5),
		CropH: intp(10),
	})
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}

	if _, ok := form["crop_x"]; ok {
		t.Errorf("Expected crop_x omitted, got %v", form["crop_x"])
	}
	if _, ok := form["crop_w"]; ok {
		t.Errorf("Expected crop_w omitted, got %v", form["crop_w"])
	}
	if got := form["crop_y"]; len(got) != 1 || got[0] != "5" {
		t.Errorf("Expected crop_y=5, got %v", got)
	}
	if got := form["crop_h"]; len(got) != 1 || got[0] != "10" {
		t.Errorf("Expected crop_h=10, got %v", got)
	}
}

func TestConvertSurfacesServerErrorMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"error": "bad format"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second)
	_, err := c.Convert(context.Background(), []File{{Name: "in.png", Data: testImage(t)}}, entities.ConversionOptions{To: "webp", Fit: true})

	var cerr *ConversionError
	if !errors.As(err, &cerr) {
		t.Fatalf("Expected ConversionError, got %v", err)
	}
	if cerr.Message != "bad format" {
		t.Errorf("Expected message %q, got %q", "bad format", cerr.Message)
	}
	if cerr.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("Expected status 422, got %d", cerr.StatusCode)
	}
}

func TestConvertFallsBackToStatusText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second)
	_, err := c.Convert(context.Background(), []File{{Name: "in.png", Data: testImage(t)}}, entities.ConversionOptions{To: "jpg", Fit: true})

	var cerr *ConversionError
	if !errors.As(err, &cerr) {
		t.Fatalf("Expected ConversionError, got %v", err)
	}
	if cerr.Message != "Bad Gateway" {
		t.Errorf("Expected status text fallback, got %q", cerr.Message)
	}
}

func TestConvertRejectsEmptyBatchAndBadOptions(t *testing.T) {
	c := NewClient("http://127.0.0.1:0", time.Second)

	if _, err := c.Convert(context.Background(), nil, entities.ConversionOptions{To: "webp"}); err == nil {
		t.Error("Expected error for empty batch")
	}

	files := []File{{Name: "in.png", Data: []byte{1}}}
	if _, err := c.Convert(context.Background(), files, entities.ConversionOptions{To: "exe"}); !errors.Is(err, ErrInvalidOptions) {
		t.Errorf("Expected ErrInvalidOptions for bad target format, got %v", err)
	}
	if _, err := c.Convert(context.Background(), files, entities.ConversionOptions{To: "webp", Quality: intp(500)}); !errors.Is(err, ErrInvalidOptions) {
		t.Errorf("Expected ErrInvalidOptions for out-of-range quality, got %v", err)
	}
}

func TestFilenameFor(t *testing.T) {
	tests := []struct {
		name        string
		disposition string
		contentType string
		format      string
		expected    string
	}{
		{name: "quoted filename", disposition: `attachment; filename="out.png"`, contentType: "image/png", format: "png", expected: "out.png"},
		{name: "unquoted filename", disposition: `attachment; filename=out.webp`, contentType: "image/webp", format: "webp", expected: "out.webp"},
		{name: "case insensitive header", disposition: `attachment; FILENAME="Out.Jpg"`, contentType: "image/jpeg", format: "jpg", expected: "Out.Jpg"},
		{name: "zip fallback", disposition: "", contentType: "application/zip", format: "png", expected: "converted_images.zip"},
		{name: "format fallback", disposition: "", contentType: "application/octet-stream", format: "tiff", expected: "converted.tiff"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := filenameFor(tt.disposition, tt.contentType, tt.format); got != tt.expected {
				t.Errorf("filenameFor(%q, %q, %q) = %q, want %q", tt.disposition, tt.contentType, tt.format, got, tt.expected)
			}
		})
	}
}
