package manifest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

const defaultTimeout = 30 * time.Second

// Loader produces the manifest for a session. When LocalPath points at a
// synced mirror it is preferred (the development path); otherwise the
// remote URL is fetched. No retries, no caching beyond HTTP's own.
type Loader struct {
	URL       string
	LocalPath string
	Client    *http.Client
}

// NewLoader builds a loader for the given URL, falling back to DefaultURL
// when url is empty.
func NewLoader(url string, timeout time.Duration) *Loader {
	if url == "" {
		url = DefaultURL
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Loader{
		URL:    url,
		Client: &http.Client{Timeout: timeout},
	}
}

// Load is the lenient session path: local mirror first, then remote, then
// an empty manifest. It never returns an error; failures are reported on
// stderr and the caller simply gets fewer (or zero) entries.
func (l *Loader) Load(ctx context.Context) *Manifest {
	if l.LocalPath != "" {
		m, err := l.readLocal()
		if err == nil {
			return m
		}
		if !os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Warning: ignoring local manifest %s: %v\n", l.LocalPath, err)
		}
	}

	m, err := l.FetchRemote(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not load manifest: %v\n", err)
		return New()
	}
	return m
}

// FetchRemote fetches and parses the remote manifest. The sync run calls
// this directly and treats any error as fatal.
func (l *Loader) FetchRemote(ctx context.Context) (*Manifest, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("building manifest request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := l.client().Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching manifest: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching manifest: %s returned %s", l.URL, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading manifest body: %w", err)
	}

	m := New()
	if err := json.Unmarshal(body, m); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}
	return m, nil
}

func (l *Loader) readLocal() (*Manifest, error) {
	data, err := os.ReadFile(l.LocalPath)
	if err != nil {
		return nil, err
	}
	m := New()
	if err := json.Unmarshal(data, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (l *Loader) client() *http.Client {
	if l.Client != nil {
		return l.Client
	}
	return &http.Client{Timeout: defaultTimeout}
}
