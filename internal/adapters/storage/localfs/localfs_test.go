package localfs

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestSaveAndDeleteImage(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)
	s.now = func() time.Time { return time.Unix(0, 42) }

	url, err := s.SaveImage(context.Background(), "my photo.png", []byte("png"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if url != "/uploads/42-my-photo.png" {
		t.Fatalf("unexpected url %q", url)
	}
	got, err := os.ReadFile(filepath.Join(dir, "42-my-photo.png"))
	if err != nil || !bytes.Equal(got, []byte("png")) {
		t.Fatalf("file not written: %v %q", err, got)
	}

	if err := s.DeleteImage(context.Background(), url); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "42-my-photo.png")); !os.IsNotExist(err) {
		t.Fatalf("expected file to be gone, stat err %v", err)
	}
	// second delete is a no-op
	if err := s.DeleteImage(context.Background(), url); err != nil {
		t.Fatalf("delete again: %v", err)
	}
}

func TestDeleteImage_IgnoresForeignURLs(t *testing.T) {
	dir := t.TempDir()
	keep := filepath.Join(dir, "keep.png")
	if err := os.WriteFile(keep, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	s := New(dir)
	for _, u := range []string{"https://cdn.example.com/keep.png", "/public/keep.png"} {
		if err := s.DeleteImage(context.Background(), u); err != nil {
			t.Fatalf("delete %q: %v", u, err)
		}
	}
	if _, err := os.Stat(keep); err != nil {
		t.Fatalf("file outside uploads prefix was touched: %v", err)
	}
}

func TestSaveImage_RejectsEmpty(t *testing.T) {
	s := New(t.TempDir())
	if _, err := s.SaveImage(context.Background(), "a.png", nil); err == nil {
		t.Fatalf("expected an error for empty data")
	}
}

func TestSanitizeFileName(t *testing.T) {
	cases := []struct{ in, want string }{
		{in: "", want: "image.jpg"},
		{in: "../../etc/passwd", want: "etc-passwd"},
		{in: "Foto Ñandú.JPG", want: "Foto-and-.JPG"},
		{in: "---", want: "image.jpg"},
	}
	for _, c := range cases {
		if got := sanitizeFileName(c.in); got != c.want {
			t.Errorf("sanitizeFileName(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
