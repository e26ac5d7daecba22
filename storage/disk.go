// Package storage keeps uploaded team resources on the local disk.
package storage

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"teamchat/errors"

	"github.com/gabriel-vasile/mimetype"
)

const sniffLength = 512

// Object describes a stored file.
type Object struct {
	Path     string
	URL      string
	MimeType string
	Size     int64
}

type IObjectStore interface {
	Put(ctx context.Context, path string, content io.Reader) (Object, error)
	Open(path string) (io.ReadCloser, error)
	Delete(path string) error
}

// DiskStore writes objects below root. Paths are relative and may not
// escape root.
type DiskStore struct {
	root    string
	baseURL string
	log     *slog.Logger
}

func NewDiskStore(root, baseURL string, log *slog.Logger) (*DiskStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create storage root: %w", err)
	}
	return &DiskStore{root: root, baseURL: strings.TrimSuffix(baseURL, "/"), log: log}, nil
}

func (d *DiskStore) resolve(path string) (string, error) {
	clean := filepath.Clean("/" + filepath.FromSlash(path))
	if path == "" || clean == string(filepath.Separator) || strings.Contains(path, "..") {
		return "", errors.ErrInvalidPath
	}
	return filepath.Join(d.root, clean), nil
}

// Put streams content to disk. The mime type is sniffed from the first
// bytes, so the extension of the name is not trusted.
func (d *DiskStore) Put(ctx context.Context, path string, content io.Reader) (Object, error) {
	target, err := d.resolve(path)
	if err != nil {
		return Object{}, err
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return Object{}, err
	}

	reader := bufio.NewReaderSize(content, sniffLength)
	head, err := reader.Peek(sniffLength)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return Object{}, err
	}
	mime := mimetype.Detect(head)

	file, err := os.Create(target)
	if err != nil {
		return Object{}, err
	}
	size, err := io.Copy(file, contextReader{ctx: ctx, r: reader})
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(target)
		return Object{}, fmt.Errorf("write %s: %w", path, err)
	}

	d.log.Debug("Object stored", "path", path, "mime", mime.String(), "size", size)
	return Object{
		Path:     path,
		URL:      d.baseURL + "/" + path,
		MimeType: mime.String(),
		Size:     size,
	}, nil
}

func (d *DiskStore) Open(path string) (io.ReadCloser, error) {
	target, err := d.resolve(path)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(target)
	if os.IsNotExist(err) {
		return nil, errors.ErrResourceNotFound
	}
	return file, err
}

// Delete removes the object. A missing object is not an error.
func (d *DiskStore) Delete(path string) error {
	target, err := d.resolve(path)
	if err != nil {
		return err
	}
	if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// contextReader stops a long upload once the caller is gone.
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (c contextReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
