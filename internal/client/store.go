package client

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/sunrise-classroom/content-portal/internal/catalog"
	"github.com/sunrise-classroom/content-portal/internal/notify"
)

// Store mirrors the server-side catalog locally. Mutations call the
// backend first and only touch the mirror on success, so a failed
// call never leaves the local list out of sync. User-facing outcomes
// are reported through the notification queue.
type Store struct {
	api   *API
	queue *notify.Queue
	log   *zap.SugaredLogger

	surfaceRefreshErrors bool

	mu    sync.RWMutex
	items []catalog.Item
}

type StoreOption func(*Store)

// SurfaceRefreshErrors makes failed refreshes push an error
// notification instead of only logging. Off by default: a background
// refresh failing on startup should not greet the user with an error.
func SurfaceRefreshErrors() StoreOption {
	return func(s *Store) { s.surfaceRefreshErrors = true }
}

func NewStore(api *API, queue *notify.Queue, log *zap.SugaredLogger, opts ...StoreOption) *Store {
	s := &Store{api: api, queue: queue, log: log}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Refresh replaces the mirror with the server's catalog. On failure
// the previous contents are kept.
func (s *Store) Refresh(ctx context.Context) error {
	items, err := s.api.FetchContent(ctx)
	if err != nil {
		s.log.Errorw("refresh catalog", "err", err)
		if s.surfaceRefreshErrors {
			s.queue.Push(notify.Error, "Failed to load content")
		}
		return err
	}
	s.mu.Lock()
	s.items = items
	s.mu.Unlock()
	return nil
}

// Create uploads a file and appends the resulting item to the mirror.
func (s *Store) Create(ctx context.Context, filename string, data []byte, meta catalog.Metadata) (*catalog.Item, error) {
	item, err := s.api.Upload(ctx, filename, data, meta)
	if err != nil {
		s.log.Errorw("upload", "filename", filename, "err", err)
		s.queue.Push(notify.Error, "Failed to upload file")
		return nil, err
	}
	s.mu.Lock()
	s.items = append([]catalog.Item{*item}, s.items...)
	s.mu.Unlock()
	s.queue.Push(notify.Success, "File uploaded successfully")
	return item, nil
}

// Update rewrites an item's annotation on the server and, on success,
// in the mirror.
func (s *Store) Update(ctx context.Context, publicID, resourceType string, meta catalog.Metadata) error {
	if err := s.api.UpdateContent(ctx, publicID, resourceType, meta); err != nil {
		s.log.Errorw("update content", "public_id", publicID, "err", err)
		s.queue.Push(notify.Error, "Failed to update content")
		return err
	}
	s.mu.Lock()
	for i := range s.items {
		if s.items[i].PublicID == publicID {
			s.items[i].SetMeta(meta)
			break
		}
	}
	s.mu.Unlock()
	s.queue.Push(notify.Success, "Content updated successfully")
	return nil
}

// Delete removes an item on the server and from the mirror.
func (s *Store) Delete(ctx context.Context, publicID, resourceType string) error {
	if err := s.api.DeleteContent(ctx, publicID, resourceType); err != nil {
		s.log.Errorw("delete content", "public_id", publicID, "err", err)
		s.queue.Push(notify.Error, "Failed to delete content")
		return err
	}
	s.mu.Lock()
	kept := s.items[:0]
	for _, it := range s.items {
		if it.PublicID != publicID {
			kept = append(kept, it)
		}
	}
	s.items = kept
	s.mu.Unlock()
	s.queue.Push(notify.Success, "Content deleted successfully")
	return nil
}

// Items returns a copy of the current mirror.
func (s *Store) Items() []catalog.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]catalog.Item, len(s.items))
	copy(out, s.items)
	return out
}

// Filter applies the criteria to the mirror without touching it.
func (s *Store) Filter(c catalog.Criteria) []catalog.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return catalog.Filter(s.items, c)
}

// Item looks up a mirrored item by id.
func (s *Store) Item(publicID string) (catalog.Item, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, it := range s.items {
		if it.PublicID == publicID {
			return it, true
		}
	}
	return catalog.Item{}, false
}
