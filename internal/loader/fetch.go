package loader

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"prodboard/internal/config"
)

// Fetcher reads the raw bytes of a source location.
type Fetcher struct {
	client   *http.Client
	maxBytes int64
	logger   *slog.Logger
}

// NewFetcher creates a fetcher. A nil client gets one with the default
// source timeout.
func NewFetcher(client *http.Client, logger *slog.Logger) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: config.DefaultHTTPTimeout}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Fetcher{
		client:   client,
		maxBytes: config.MaxSourceBytes,
		logger:   logger.With(slog.String("component", "fetcher")),
	}
}

// Location is a parsed source location.
type Location struct {
	Raw   string
	URL   string // set for http(s) sources
	Path  string // set for local sources
	Sheet string // optional xlsx sheet name
}

// IsXLSX reports whether the location names an Excel workbook.
func (l Location) IsXLSX() bool {
	target := l.Path
	if l.URL != "" {
		if u, err := url.Parse(l.URL); err == nil {
			target = u.Path
		}
	}
	return strings.EqualFold(filepath.Ext(target), ".xlsx")
}

// ParseLocation splits a location into its transport and optional sheet.
func ParseLocation(raw string) (Location, error) {
	loc := Location{Raw: raw}
	s := strings.TrimSpace(raw)
	if s == "" {
		return loc, fmt.Errorf("empty source location")
	}

	if i := strings.LastIndex(s, "#"); i >= 0 && strings.Contains(strings.ToLower(s[:i]), ".xlsx") {
		loc.Sheet = s[i+1:]
		s = s[:i]
	}

	switch {
	case strings.HasPrefix(s, "http://"), strings.HasPrefix(s, "https://"):
		loc.URL = s
	case strings.HasPrefix(s, "file://"):
		u, err := url.Parse(s)
		if err != nil {
			return loc, fmt.Errorf("invalid file location %q: %w", raw, err)
		}
		loc.Path = u.Path
	default:
		loc.Path = s
	}
	return loc, nil
}

// Fetch returns the content of the location.
func (f *Fetcher) Fetch(ctx context.Context, loc Location) ([]byte, error) {
	start := time.Now()

	var (
		data []byte
		err  error
	)
	if loc.URL != "" {
		data, err = f.fetchHTTP(ctx, loc.URL)
	} else {
		data, err = f.readFile(ctx, loc.Path)
	}
	if err != nil {
		return nil, err
	}

	f.logger.DebugContext(ctx, "source fetched",
		slog.String("location", loc.Raw),
		slog.Int("bytes", len(data)),
		slog.Duration("duration", time.Since(start)))
	return data, nil
}

func (f *Fetcher) fetchHTTP(ctx context.Context, target string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", config.AppName)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", target, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: unexpected status %s", target, resp.Status)
	}
	return f.readLimited(resp.Body)
}

func (f *Fetcher) readFile(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()
	return f.readLimited(file)
}

func (f *Fetcher) readLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, f.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read source: %w", err)
	}
	if int64(len(data)) > f.maxBytes {
		return nil, fmt.Errorf("source exceeds %d bytes", f.maxBytes)
	}
	return data, nil
}
