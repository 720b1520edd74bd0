package services

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"net/http"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/sunrise-classroom/content-portal/internal/catalog"
	"github.com/sunrise-classroom/content-portal/internal/storage"
)

// Provider object-metadata keys. "context" carries the encoded
// annotation string; "kind" and "uploaded-at" are fixed at upload time
// and preserved across metadata rewrites.
const (
	metaContext    = "context"
	metaKind       = "kind"
	metaUploadedAt = "uploaded-at"
)

const thumbSuffix = "_thumb.jpg"

// maxCatalogSize is the fixed listing cap; there is no pagination.
const maxCatalogSize = 100

// Provider is the slice of the object store the catalog needs.
type Provider interface {
	Put(ctx context.Context, key, contentType string, data []byte, metadata map[string]string) error
	List(ctx context.Context, prefix string, keep func(key string) bool) ([]storage.Object, error)
	Head(ctx context.Context, key string) (*storage.Object, error)
	ReplaceMetadata(ctx context.Context, key, contentType string, metadata map[string]string) error
	Delete(ctx context.Context, key string) error
	URL(ctx context.Context, key string) (string, error)
}

// CatalogService maps the portal's content operations onto the media
// provider. Provider calls run through a circuit breaker so a dead
// provider sheds load fast instead of tying up requests.
type CatalogService struct {
	provider Provider
	folder   string
	breaker  *gobreaker.CircuitBreaker
	log      *zap.SugaredLogger
}

func NewCatalogService(p Provider, folder string, log *zap.SugaredLogger) *CatalogService {
	return &CatalogService{
		provider: p,
		folder:   strings.TrimRight(folder, "/"),
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "media-provider",
			Timeout: 30 * time.Second,
		}),
		log: log,
	}
}

// List returns up to 100 items from the portal folder, newest first.
func (s *CatalogService) List(ctx context.Context) ([]catalog.Item, error) {
	v, err := s.breaker.Execute(func() (interface{}, error) {
		return s.provider.List(ctx, s.folder+"/", func(key string) bool {
			return !strings.HasSuffix(key, thumbSuffix)
		})
	})
	if err != nil {
		return nil, err
	}
	objs := v.([]storage.Object)

	items := make([]catalog.Item, 0, len(objs))
	for _, o := range objs {
		items = append(items, s.toItem(ctx, o))
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	if len(items) > maxCatalogSize {
		items = items[:maxCatalogSize]
	}
	return items, nil
}

// Upload stores the file under a fresh key and returns the resulting
// item. Image uploads get a best-effort thumbnail alongside.
func (s *CatalogService) Upload(ctx context.Context, filename string, data []byte, meta catalog.Metadata) (*catalog.Item, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	contentType := mime.TypeByExtension(ext)
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	kind := kindFromContentType(contentType)
	now := time.Now().UTC().Truncate(time.Second)
	key := fmt.Sprintf("%s/%s%s", s.folder, uuid.New().String(), ext)

	md := map[string]string{
		metaContext:    meta.Encode(),
		metaKind:       kind,
		metaUploadedAt: now.Format(time.RFC3339),
	}
	if _, err := s.breaker.Execute(func() (interface{}, error) {
		return nil, s.provider.Put(ctx, key, contentType, data, md)
	}); err != nil {
		return nil, err
	}

	if kind == catalog.KindImage {
		if thumb, err := thumbnailJPEG(data); err == nil {
			if err := s.provider.Put(ctx, key+thumbSuffix, "image/jpeg", thumb, nil); err != nil {
				s.log.Warnw("thumbnail upload failed", "key", key, "err", err)
			}
		} else {
			s.log.Debugw("thumbnail generation skipped", "key", key, "err", err)
		}
	}

	item := catalog.Item{
		PublicID:     key,
		CreatedAt:    now,
		ResourceType: kind,
		Format:       strings.TrimPrefix(ext, "."),
		Bytes:        int64(len(data)),
	}
	item.SetMeta(meta)
	s.resolveURLs(ctx, &item)
	return &item, nil
}

// UpdateMetadata rewrites an item's annotation while preserving its
// kind and upload timestamp.
func (s *CatalogService) UpdateMetadata(ctx context.Context, publicID string, meta catalog.Metadata) error {
	v, err := s.breaker.Execute(func() (interface{}, error) {
		return s.provider.Head(ctx, publicID)
	})
	if err != nil {
		return err
	}
	obj := v.(*storage.Object)

	md := map[string]string{metaContext: meta.Encode()}
	if kind := obj.Metadata[metaKind]; kind != "" {
		md[metaKind] = kind
	}
	if ts := obj.Metadata[metaUploadedAt]; ts != "" {
		md[metaUploadedAt] = ts
	}
	_, err = s.breaker.Execute(func() (interface{}, error) {
		return nil, s.provider.ReplaceMetadata(ctx, publicID, obj.ContentType, md)
	})
	return err
}

// Delete removes an item and, best effort, its thumbnail.
func (s *CatalogService) Delete(ctx context.Context, publicID string) error {
	if _, err := s.breaker.Execute(func() (interface{}, error) {
		return nil, s.provider.Delete(ctx, publicID)
	}); err != nil {
		return err
	}
	if err := s.provider.Delete(ctx, publicID+thumbSuffix); err != nil {
		s.log.Debugw("thumbnail delete", "key", publicID, "err", err)
	}
	return nil
}

func (s *CatalogService) toItem(ctx context.Context, o storage.Object) catalog.Item {
	created := o.LastModified
	if ts := o.Metadata[metaUploadedAt]; ts != "" {
		if t, err := time.Parse(time.RFC3339, ts); err == nil {
			created = t
		}
	}
	kind := o.Metadata[metaKind]
	if kind == "" {
		kind = kindFromContentType(o.ContentType)
	}
	item := catalog.Item{
		PublicID:     o.Key,
		CreatedAt:    created,
		ResourceType: kind,
		Format:       strings.TrimPrefix(strings.ToLower(filepath.Ext(o.Key)), "."),
		Bytes:        o.Size,
	}
	item.SetMeta(catalog.DecodeContext(o.Metadata[metaContext]))
	s.resolveURLs(ctx, &item)
	return item
}

func (s *CatalogService) resolveURLs(ctx context.Context, item *catalog.Item) {
	u, err := s.provider.URL(ctx, item.PublicID)
	if err != nil {
		s.log.Warnw("resolve url", "key", item.PublicID, "err", err)
		return
	}
	item.SecureURL = u
	if item.ResourceType == catalog.KindImage {
		if tu, err := s.provider.URL(ctx, item.PublicID+thumbSuffix); err == nil {
			item.ThumbnailURL = tu
		}
	}
}

func kindFromContentType(ct string) string {
	switch {
	case strings.HasPrefix(ct, "image/"):
		return catalog.KindImage
	case strings.HasPrefix(ct, "video/"):
		return catalog.KindVideo
	default:
		return catalog.KindRaw
	}
}

func thumbnailJPEG(data []byte) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	thumb := imaging.Resize(img, 320, 0, imaging.Lanczos)
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, imaging.JPEG); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
