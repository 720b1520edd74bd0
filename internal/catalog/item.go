package catalog

import "time"

// Resource kinds assigned by the storage provider from the uploaded bytes.
const (
	KindImage = "image"
	KindVideo = "video"
	KindRaw   = "raw"
)

// Item is one stored file plus its classroom metadata, in the wire
// shape the provider returns. PublicID, SecureURL, CreatedAt and
// ResourceType are assigned at upload time and never change; the
// context metadata is the only mutable part.
type Item struct {
	PublicID     string    `json:"public_id"`
	SecureURL    string    `json:"secure_url"`
	ThumbnailURL string    `json:"thumbnail_url,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	ResourceType string    `json:"resource_type"`
	Format       string    `json:"format,omitempty"`
	Bytes        int64     `json:"bytes,omitempty"`
	Context      *Context  `json:"context,omitempty"`
}

// Context mirrors the provider's annotation envelope.
type Context struct {
	Custom Metadata `json:"custom"`
}

// Meta returns the item's metadata, zero-valued when the provider
// returned no context.
func (it *Item) Meta() Metadata {
	if it.Context == nil {
		return Metadata{}
	}
	return it.Context.Custom
}

// SetMeta replaces the item's metadata in place.
func (it *Item) SetMeta(m Metadata) {
	if it.Context == nil {
		it.Context = &Context{}
	}
	it.Context.Custom = m
}

// DisplayTitle is the title shown to users, falling back to the
// public id when no title was ever set.
func (it *Item) DisplayTitle() string {
	if t := it.Meta().Title; t != "" {
		return t
	}
	return it.PublicID
}
