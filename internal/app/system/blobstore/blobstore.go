// Package blobstore stores uploaded media and documents on local disk or in
// S3 and hands back a public URL for each object.
package blobstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Folders used by the portal's uploads.
const (
	DirChatFiles  = "chat_files"
	DirPosts      = "posts"
	DirEvents     = "events"
	DirProjects   = "projects"
	DirMemberDocs = "member_docs"
	DirSettings   = "settings"
	DirAvatars    = "avatars"
)

// ErrEmptyFile is returned for zero-byte uploads.
var ErrEmptyFile = errors.New("blobstore: empty file")

// Store is a blob backend.
type Store interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Delete(ctx context.Context, key string) error
	URL(key string) string
}

// Progress receives the uploaded percentage (0–100).
type Progress func(pct float64)

// Object describes a stored upload.
type Object struct {
	Key         string `json:"key"`
	URL         string `json:"url"`
	FileName    string `json:"file_name"`
	Size        int64  `json:"size"`
	ContentType string `json:"content_type"`
}

// Upload writes r under dir with a unique key and returns the stored
// object. progress may be nil.
func Upload(ctx context.Context, s Store, dir, filename string, r io.Reader, size int64, contentType string, progress Progress) (Object, error) {
	if size == 0 {
		return Object{}, ErrEmptyFile
	}
	key := NewKey(dir, filename, time.Now().UTC())
	if progress != nil {
		progress(0)
		r = &progressReader{r: r, total: size, fn: progress}
	}
	if err := s.Put(ctx, key, r, size, contentType); err != nil {
		return Object{}, fmt.Errorf("upload %s: %w", key, err)
	}
	if progress != nil {
		progress(100)
	}
	return Object{
		Key:         key,
		URL:         s.URL(key),
		FileName:    filename,
		Size:        size,
		ContentType: contentType,
	}, nil
}

// NewKey builds dir/YYYY/MM/<id>-<name>.
func NewKey(dir, filename string, now time.Time) string {
	return path.Join(
		strings.Trim(dir, "/"),
		fmt.Sprintf("%04d/%02d", now.Year(), now.Month()),
		uuid.New().String()[:8]+"-"+SanitizeFilename(filename),
	)
}

// MediaType classifies an upload for a feed post: video when the MIME type
// starts with "video", image otherwise.
func MediaType(contentType string) string {
	if strings.HasPrefix(strings.ToLower(contentType), "video") {
		return "video"
	}
	return "image"
}

// SanitizeFilename keeps the base name and replaces anything outside
// [A-Za-z0-9._-] with '_'.
func SanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	out := make([]byte, 0, len(name))
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-', c == '_', c == '.':
			out = append(out, c)
		default:
			out = append(out, '_')
		}
	}
	if len(out) == 0 || string(out) == "." || string(out) == ".." {
		return "file"
	}
	if len(out) > 100 {
		ext := filepath.Ext(string(out))
		if len(ext) > 0 && len(ext) < 10 {
			out = append(out[:100-len(ext)], ext...)
		} else {
			out = out[:100]
		}
	}
	return string(out)
}

type progressReader struct {
	r     io.Reader
	total int64
	read  int64
	fn    Progress
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 && p.total > 0 {
		p.read += int64(n)
		pct := float64(p.read) * 100 / float64(p.total)
		if pct > 100 {
			pct = 100
		}
		p.fn(pct)
	}
	return n, err
}
