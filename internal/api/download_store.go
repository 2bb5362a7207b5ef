package api

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// reportDownload 待下载的报告（仅保存在内存中）
type reportDownload struct {
	name      string
	data      []byte
	runID     string
	expiresAt time.Time
}

type reportDownloadStore struct {
	mu    sync.Mutex
	items map[string]reportDownload
	now   func() time.Time
}

func newReportDownloadStore() *reportDownloadStore {
	return &reportDownloadStore{
		items: make(map[string]reportDownload),
		now:   time.Now,
	}
}

func (s *reportDownloadStore) put(item reportDownload, ttl time.Duration) (token string, expiresAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.purgeExpiredLocked(now)

	token = uuid.NewString()
	item.expiresAt = now.Add(ttl)
	s.items[token] = item
	return token, item.expiresAt
}

func (s *reportDownloadStore) get(token string) (reportDownload, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.purgeExpiredLocked(now)

	v, ok := s.items[token]
	if !ok {
		return reportDownload{}, false
	}
	return v, true
}

func (s *reportDownloadStore) delete(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, token)
}

func (s *reportDownloadStore) size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

func (s *reportDownloadStore) purgeExpiredLocked(now time.Time) {
	for k, v := range s.items {
		if now.After(v.expiresAt) {
			delete(s.items, k)
		}
	}
}
