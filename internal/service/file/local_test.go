package file

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"
)

func newTestLocalStorage(t *testing.T) *LocalStorage {
	t.Helper()
	s, err := NewLocalStorage(t.TempDir(), "http://localhost:8080/objects/", NewURLSigner("signing-key"))
	if err != nil {
		t.Fatalf("NewLocalStorage() unexpected error: %v", err)
	}
	return s
}

func TestLocalStorage_UploadOverwrites(t *testing.T) {
	ctx := context.Background()
	s := newTestLocalStorage(t)

	if err := s.Upload(ctx, "U1/notes.pdf", strings.NewReader("first"), 5, "application/pdf"); err != nil {
		t.Fatalf("Upload() unexpected error: %v", err)
	}
	if err := s.Upload(ctx, "U1/notes.pdf", strings.NewReader("second"), 6, "application/pdf"); err != nil {
		t.Fatalf("Upload() unexpected error: %v", err)
	}

	data, err := s.Download(ctx, "U1/notes.pdf")
	if err != nil {
		t.Fatalf("Download() unexpected error: %v", err)
	}
	if string(data) != "second" {
		t.Errorf("Download() = %q, want second", data)
	}
}

func TestLocalStorage_RemoveAndMissing(t *testing.T) {
	ctx := context.Background()
	s := newTestLocalStorage(t)
	_ = s.Upload(ctx, "U1/a.pdf", strings.NewReader("a"), 1, "application/pdf")

	if err := s.Remove(ctx, "U1/a.pdf", "U1/never-existed.pdf"); err != nil {
		t.Fatalf("Remove() unexpected error: %v", err)
	}
	if _, err := s.Download(ctx, "U1/a.pdf"); !errors.Is(err, ErrObjectNotFound) {
		t.Errorf("Download() error = %v, want ErrObjectNotFound", err)
	}
	if _, err := s.Open("U1/a.pdf"); !errors.Is(err, ErrObjectNotFound) {
		t.Errorf("Open() error = %v, want ErrObjectNotFound", err)
	}
}

func TestLocalStorage_RejectsTraversal(t *testing.T) {
	ctx := context.Background()
	s := newTestLocalStorage(t)

	for _, key := range []string{"../escape.pdf", "U1/../../escape.pdf", ""} {
		if err := s.Upload(ctx, key, strings.NewReader("x"), 1, "application/pdf"); err == nil {
			t.Errorf("Upload(%q) expected error", key)
		}
	}
}

func TestLocalStorage_DotPrefixedName(t *testing.T) {
	ctx := context.Background()
	s := newTestLocalStorage(t)

	for _, key := range []string{"..notes/x.pdf", "U1/..notes.pdf"} {
		if err := s.Upload(ctx, key, strings.NewReader("x"), 1, "application/pdf"); err != nil {
			t.Errorf("Upload(%q) unexpected error: %v", key, err)
			continue
		}
		data, err := s.Download(ctx, key)
		if err != nil || string(data) != "x" {
			t.Errorf("Download(%q) = %q, %v", key, data, err)
		}
	}
}

func TestLocalStorage_SignedURL(t *testing.T) {
	ctx := context.Background()
	s := newTestLocalStorage(t)

	raw, err := s.SignedURL(ctx, "U1/my notes.pdf", time.Hour)
	if err != nil {
		t.Fatalf("SignedURL() unexpected error: %v", err)
	}
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("parse %q: %v", raw, err)
	}
	if u.Path != "/objects/U1/my notes.pdf" {
		t.Errorf("path = %q, want /objects/U1/my notes.pdf", u.Path)
	}

	token := u.Query().Get("token")
	if err := s.Verify("U1/my notes.pdf", token); err != nil {
		t.Errorf("Verify() unexpected error: %v", err)
	}
	if err := s.Verify("U2/my notes.pdf", token); !errors.Is(err, ErrInvalidSignature) {
		t.Errorf("Verify(other key) error = %v, want ErrInvalidSignature", err)
	}
}

func TestClampTTL(t *testing.T) {
	tests := []struct {
		ttl  time.Duration
		want time.Duration
	}{
		{0, maxPresignTTL},
		{-time.Second, maxPresignTTL},
		{time.Hour, time.Hour},
		{2 * 365 * 24 * time.Hour, maxPresignTTL},
	}
	for _, tt := range tests {
		if got := clampTTL(tt.ttl, maxPresignTTL); got != tt.want {
			t.Errorf("clampTTL(%v) = %v, want %v", tt.ttl, got, tt.want)
		}
	}
}
