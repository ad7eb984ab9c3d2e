package blobstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// Local keeps objects under a directory and serves them from urlPrefix.
type Local struct {
	root      string
	urlPrefix string
}

// NewLocal creates root if needed.
func NewLocal(root, urlPrefix string) (*Local, error) {
	if root == "" {
		return nil, errors.New("blobstore: local root is empty")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &Local{root: root, urlPrefix: strings.TrimRight(urlPrefix, "/")}, nil
}

// FullPath resolves key inside root, refusing keys that escape it.
func (l *Local) FullPath(key string) (string, error) {
	p := filepath.Join(l.root, filepath.FromSlash(key))
	rel, err := filepath.Rel(l.root, p)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("blobstore: key %q escapes storage root", key)
	}
	return p, nil
}

func (l *Local) Put(_ context.Context, key string, r io.Reader, _ int64, _ string) error {
	p, err := l.FullPath(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.Create(p)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(p)
		return err
	}
	return f.Close()
}

func (l *Local) Delete(_ context.Context, key string) error {
	p, err := l.FullPath(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (l *Local) URL(key string) string {
	return l.urlPrefix + "/" + strings.TrimLeft(key, "/")
}

// Handler serves stored files; mount it at the URL prefix.
func (l *Local) Handler() http.Handler {
	return http.StripPrefix(l.urlPrefix, http.FileServer(http.Dir(l.root)))
}
