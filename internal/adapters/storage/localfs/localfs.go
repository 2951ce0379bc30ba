package localfs

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// URLPrefix is where the HTTP server exposes the storage directory.
const URLPrefix = "/uploads/"

// Storage keeps uploaded images in a directory on local disk.
type Storage struct {
	dir string
	now func() time.Time
}

func New(dir string) *Storage {
	return &Storage{dir: dir, now: time.Now}
}

func (s *Storage) Dir() string { return s.dir }

// SaveImage writes data under a sanitized, timestamped name and returns the
// URL the image is served at.
func (s *Storage) SaveImage(ctx context.Context, filename string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", errors.New("empty image")
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", err
	}
	name := strconv.FormatInt(s.now().UnixNano(), 10) + "-" + sanitizeFileName(filename)
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	return URLPrefix + name, nil
}

// DeleteImage removes a file previously returned by SaveImage. URLs outside
// the uploads prefix are ignored and a missing file is not an error.
func (s *Storage) DeleteImage(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	u := strings.TrimSpace(url)
	if !strings.HasPrefix(u, URLPrefix) {
		return nil
	}
	name := path.Base(strings.TrimPrefix(u, URLPrefix))
	if name == "." || name == "/" || name == "" {
		return nil
	}
	err := os.Remove(filepath.Join(s.dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

func sanitizeFileName(name string) string {
	if name == "" {
		return "image.jpg"
	}
	name = strings.ReplaceAll(name, "\\", "-")
	name = strings.ReplaceAll(name, "/", "-")
	mapped := strings.Map(func(r rune) rune {
		if r == '.' || r == '-' || r == '_' || unicode.IsDigit(r) || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			return r
		}
		return '-'
	}, name)
	for strings.Contains(mapped, "--") {
		mapped = strings.ReplaceAll(mapped, "--", "-")
	}
	mapped = strings.Trim(mapped, "-.")
	if mapped == "" {
		return "image.jpg"
	}
	return mapped
}
