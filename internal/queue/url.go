package queue

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/shah-jinay/image-tool.io/internal/entities"
)

// maxImportBytes caps how much of a remote body the importer will buffer.
const maxImportBytes = 64 << 20

// FetchError reports a failed URL import: either the request itself failed
// or the server answered with a non-success status.
type FetchError struct {
	URL    string
	Status string
	Err    error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("fetch %s: %s", e.URL, e.Status)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ImportURL downloads rawURL, wraps the body as a file-like input and routes
// it through the normal ingestion path. The filename comes from the URL path
// when it carries an extension, otherwise from the current time and the
// response's declared media type.
func (m *Manager) ImportURL(ctx context.Context, rawURL string) (entities.QueueEntry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return entities.QueueEntry{}, &FetchError{URL: rawURL, Err: err}
	}

	resp, err := m.client.Do(req)
	if err != nil {
		return entities.QueueEntry{}, &FetchError{URL: rawURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return entities.QueueEntry{}, &FetchError{URL: rawURL, Status: resp.Status}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImportBytes))
	if err != nil {
		return entities.QueueEntry{}, &FetchError{URL: rawURL, Err: err}
	}

	declared := resp.Header.Get("Content-Type")
	in := Input{
		Name:         importName(rawURL, declared, time.Now()),
		DeclaredType: declared,
		Data:         data,
	}

	batch := m.Ingest(ctx, []Input{in})
	return batch[0], nil
}

func importName(rawURL, declaredType string, now time.Time) string {
	if u, err := url.Parse(rawURL); err == nil {
		if base := path.Base(u.Path); base != "." && base != "/" && path.Ext(base) != "" {
			return base
		}
	}

	// Content-Type may carry parameters ("image/png; charset=binary").
	declaredType, _, _ = strings.Cut(declaredType, ";")

	ext := ""
	if mt := mimetype.Lookup(strings.TrimSpace(declaredType)); mt != nil {
		ext = mt.Extension()
	}
	return fmt.Sprintf("import-%s%s", now.Format("20060102-150405"), ext)
}
