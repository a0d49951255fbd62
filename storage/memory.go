package storage

import (
	"bytes"
	"context"
	"io"
	"net/url"
	"strings"
	"sync"
)

// MemoryUploader keeps objects in memory. Used in demo mode and tests.
type MemoryUploader struct {
	mu      sync.Mutex
	base    *url.URL
	Objects map[string][]byte
}

func NewMemoryUploader(publicBaseURL string) *MemoryUploader {
	base, _ := url.Parse(strings.TrimSuffix(publicBaseURL, "/") + "/")
	return &MemoryUploader{base: base, Objects: make(map[string][]byte)}
}

func (m *MemoryUploader) Upload(_ context.Context, key string, _ string, reader io.Reader) (*UploadResult, error) {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, reader); err != nil {
		return nil, err
	}
	m.mu.Lock()
	m.Objects[key] = buf.Bytes()
	m.mu.Unlock()
	return &UploadResult{Key: key, Location: m.GetPublicURL(key)}, nil
}

func (m *MemoryUploader) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.Objects, key)
	m.mu.Unlock()
	return nil
}

func (m *MemoryUploader) GetPublicURL(key string) string {
	return publicURL(m.base, key)
}
