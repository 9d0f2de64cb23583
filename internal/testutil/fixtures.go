// Package testutil provides shared test doubles and fixtures for backend tests.
package testutil

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"sync"
	"testing"

	"photoshare/internal/media"
)

// PNGBytes returns a small encoded PNG suitable for upload tests.
func PNGBytes(tb testing.TB) []byte {
	tb.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		tb.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

// MemoryStore is an in-memory media.Store. Uploaded public IDs are recorded
// and the returned URLs round-trip through media.PublicIDFromURL.
type MemoryStore struct {
	mu        sync.Mutex
	Uploads   []string
	Destroyed []string

	// UploadErr, when set, is returned by every Upload call.
	UploadErr error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Upload(_ context.Context, _ io.Reader, publicID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.UploadErr != nil {
		return "", s.UploadErr
	}
	s.Uploads = append(s.Uploads, publicID)
	return "https://res.cloudinary.com/test/image/upload/" + publicID + ".png", nil
}

func (s *MemoryStore) TransformedURL(publicID string, t media.Transformation) (string, error) {
	if err := t.Validate(); err != nil {
		return "", err
	}
	return "https://res.cloudinary.com/test/image/upload/t/" + publicID + ".png", nil
}

func (s *MemoryStore) Destroy(_ context.Context, publicID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Destroyed = append(s.Destroyed, publicID)
	return nil
}

// MailRecorder records confirmation emails instead of sending them.
type MailRecorder struct {
	mu     sync.Mutex
	Sent   []string
	Tokens map[string]string
}

func NewMailRecorder() *MailRecorder {
	return &MailRecorder{Tokens: make(map[string]string)}
}

func (m *MailRecorder) SendConfirmation(_ context.Context, email, _, _, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, email)
	m.Tokens[email] = token
	return nil
}

// LastToken returns the most recent confirmation token sent to email.
func (m *MailRecorder) LastToken(email string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Tokens[email]
}
