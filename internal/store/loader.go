package store

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"showcase-cli/internal/model"
)

// StatusError is returned when an HTTP source answers with a non-2xx status.
type StatusError struct {
	Source string
	Code   int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("catalog: %s: unexpected status %d %s", e.Source, e.Code, http.StatusText(e.Code))
}

// Loader reads a catalog from Source, which is an http(s) URL, a file:// URL,
// or a filesystem path.
type Loader struct {
	Source string
	Client *http.Client
	Logger *zap.Logger
}

// Load fetches the catalog and never fails: any error is logged and the
// fallback catalog is returned instead.
func (l Loader) Load(ctx context.Context) model.Catalog {
	c, err := l.Fetch(ctx)
	if err != nil {
		l.logger().Warn("using fallback catalog", zap.String("source", l.Source), zap.Error(err))
		return Fallback()
	}
	return c
}

// Fetch makes a single attempt and reports every failure.
func (l Loader) Fetch(ctx context.Context) (model.Catalog, error) {
	src := strings.TrimSpace(l.Source)
	if src == "" {
		return model.Catalog{}, fmt.Errorf("catalog: no source configured")
	}
	if u, err := url.Parse(src); err == nil {
		switch u.Scheme {
		case "http", "https":
			return l.fetchHTTP(ctx, src, u)
		case "file":
			return l.fetchFile(ctx, u.Path)
		}
	}
	return l.fetchFile(ctx, src)
}

// LocalPath returns the filesystem path behind Source, if it is local.
func (l Loader) LocalPath() (string, bool) {
	src := strings.TrimSpace(l.Source)
	if src == "" {
		return "", false
	}
	if u, err := url.Parse(src); err == nil {
		switch u.Scheme {
		case "http", "https":
			return "", false
		case "file":
			return u.Path, true
		}
	}
	return src, true
}

func (l Loader) fetchHTTP(ctx context.Context, src string, u *url.URL) (model.Catalog, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return model.Catalog{}, err
	}
	req.Header.Set("Cache-Control", "no-store")
	req.Header.Set("Pragma", "no-cache")
	req.Header.Set("Accept", "application/json, application/yaml;q=0.9")

	client := l.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return model.Catalog{}, fmt.Errorf("catalog: fetch %s: %w", src, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return model.Catalog{}, &StatusError{Source: src, Code: resp.StatusCode}
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return model.Catalog{}, fmt.Errorf("catalog: read %s: %w", src, err)
	}
	yaml := isYAMLPath(u.Path) || isYAMLContentType(resp.Header.Get("Content-Type"))
	l.logger().Debug("fetched catalog", zap.String("source", src), zap.Int("bytes", len(data)))
	return decode(data, yaml)
}

func (l Loader) fetchFile(ctx context.Context, path string) (model.Catalog, error) {
	if err := ctx.Err(); err != nil {
		return model.Catalog{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Catalog{}, fmt.Errorf("catalog: %w", err)
	}
	l.logger().Debug("read catalog", zap.String("path", path), zap.Int("bytes", len(data)))
	return decode(data, isYAMLPath(path))
}

func (l Loader) logger() *zap.Logger {
	if l.Logger == nil {
		return zap.NewNop()
	}
	return l.Logger
}

func decode(data []byte, yaml bool) (model.Catalog, error) {
	if yaml {
		return model.DecodeYAML(data)
	}
	return model.DecodeJSON(data)
}

func isYAMLPath(p string) bool {
	switch strings.ToLower(filepath.Ext(p)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

func isYAMLContentType(ct string) bool {
	mt, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return false
	}
	switch mt {
	case "application/yaml", "application/x-yaml", "text/yaml", "text/x-yaml":
		return true
	}
	return false
}
