package storage

import (
	"context"
	"net/url"
	"strconv"
	"sync"
	"time"
)

// MemoryStorage keeps objects in process memory. It backs the "stub" provider
// used in development and tests, where no bucket is available.
type MemoryStorage struct {
	mu      sync.RWMutex
	baseURL string
	objects map[string]memoryObject
	// keys with an outstanding presigned upload
	pending map[string]time.Time
	// when set, a presigned key counts as uploaded until its URL expires,
	// since nothing can PUT to the fake URL
	assumePresigned bool
	now             func() time.Time
}

type memoryObject struct {
	data        []byte
	contentType string
}

// MemoryOption configures a MemoryStorage
type MemoryOption func(*MemoryStorage)

// WithBaseURL sets the host used in generated URLs
func WithBaseURL(base string) MemoryOption {
	return func(s *MemoryStorage) { s.baseURL = base }
}

// WithStrictUploads makes ObjectExists report only objects written with Upload
func WithStrictUploads() MemoryOption {
	return func(s *MemoryStorage) { s.assumePresigned = false }
}

// NewMemoryStorage creates an empty store
func NewMemoryStorage(opts ...MemoryOption) *MemoryStorage {
	s := &MemoryStorage{
		baseURL:         "http://localhost:8080/_storage",
		objects:         make(map[string]memoryObject),
		pending:         make(map[string]time.Time),
		assumePresigned: true,
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *MemoryStorage) signedURL(action, key string, expiresAt time.Time) (string, error) {
	u, err := url.Parse(s.baseURL)
	if err != nil {
		return "", err
	}
	u = u.JoinPath(action, key)
	q := u.Query()
	q.Set("expires", strconv.FormatInt(expiresAt.Unix(), 10))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// GenerateUploadURL returns a fake upload URL and records the key as pending
func (s *MemoryStorage) GenerateUploadURL(_ context.Context, storageKey, _ string, expiresIn time.Duration) (string, time.Time, error) {
	if storageKey == "" {
		return "", time.Time{}, ErrEmptyKey
	}
	if expiresIn <= 0 {
		expiresIn = defaultPresignExpiry
	}
	expiresAt := s.now().Add(expiresIn)
	link, err := s.signedURL("upload", storageKey, expiresAt)
	if err != nil {
		return "", time.Time{}, err
	}
	s.mu.Lock()
	s.pending[storageKey] = expiresAt
	s.mu.Unlock()
	return link, expiresAt, nil
}

// GenerateDownloadURL returns a fake download URL
func (s *MemoryStorage) GenerateDownloadURL(_ context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error) {
	if storageKey == "" {
		return "", time.Time{}, ErrEmptyKey
	}
	if expiresIn <= 0 {
		expiresIn = defaultPresignExpiry
	}
	expiresAt := s.now().Add(expiresIn)
	link, err := s.signedURL("download", storageKey, expiresAt)
	if err != nil {
		return "", time.Time{}, err
	}
	return link, expiresAt, nil
}

// DeleteObject forgets the key
func (s *MemoryStorage) DeleteObject(_ context.Context, storageKey string) error {
	if storageKey == "" {
		return ErrEmptyKey
	}
	s.mu.Lock()
	delete(s.objects, storageKey)
	delete(s.pending, storageKey)
	s.mu.Unlock()
	return nil
}

// ObjectExists reports whether the key was uploaded
func (s *MemoryStorage) ObjectExists(_ context.Context, storageKey string) (bool, error) {
	if storageKey == "" {
		return false, ErrEmptyKey
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.objects[storageKey]; ok {
		return true, nil
	}
	if !s.assumePresigned {
		return false, nil
	}
	expiresAt, ok := s.pending[storageKey]
	return ok && s.now().Before(expiresAt), nil
}

// Upload stores a copy of data under the key
func (s *MemoryStorage) Upload(_ context.Context, storageKey string, data []byte, contentType string) error {
	if storageKey == "" {
		return ErrEmptyKey
	}
	buf := make([]byte, len(data))
	copy(buf, data)
	s.mu.Lock()
	s.objects[storageKey] = memoryObject{data: buf, contentType: contentType}
	delete(s.pending, storageKey)
	s.mu.Unlock()
	return nil
}

// Get returns the stored bytes and content type of a key
func (s *MemoryStorage) Get(storageKey string) ([]byte, string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[storageKey]
	if !ok {
		return nil, "", false
	}
	return obj.data, obj.contentType, true
}
