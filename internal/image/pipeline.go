package image

import (
	"context"
	"errors"
	"fmt"
	"path"
	"time"

	"github.com/google/uuid"

	"github.com/juanpablosotoc/zartex/config"
	"github.com/juanpablosotoc/zartex/internal/blob"
	"github.com/juanpablosotoc/zartex/internal/logging"
	"github.com/juanpablosotoc/zartex/internal/store"
	"github.com/juanpablosotoc/zartex/internal/types"
)

// RecordStore is the slice of the persistence layer the pipeline needs.
type RecordStore interface {
	InsertImage(ctx context.Context, smallURL, mediumURL, largeURL string) (*types.ImageRecord, error)
	GetImage(ctx context.Context, id int64) (*types.ImageRecord, error)
	DeleteImage(ctx context.Context, id int64) error
}

// Events receives a notification after an image is committed. Failures are
// logged and never affect the ingestion result.
type Events interface {
	Send(ctx context.Context, payload any) error
}

// IngestedEvent is the message posted to the queue after a commit.
type IngestedEvent struct {
	ImageID   int64     `json:"image_id"`
	SmallURL  string    `json:"small_url"`
	CreatedAt time.Time `json:"created_at"`
}

// Pipeline sequences validation, per-rendition render+store and the final
// metadata commit for uploaded images. Within one call renditions are
// processed in the configured order, so generated object keys and any
// compensation run in a reproducible sequence. Calls are independent; the
// per-call unique filename keeps concurrent ingestions from colliding.
type Pipeline struct {
	validator *Validator
	records   RecordStore
	blobs     blob.Storage
	sizes     []config.RenditionSize
	events    Events // nil when no queue is configured
	log       logging.Logger
}

func NewPipeline(validator *Validator, records RecordStore, blobs blob.Storage,
	sizes []config.RenditionSize, events Events, log logging.Logger) *Pipeline {
	return &Pipeline{
		validator: validator,
		records:   records,
		blobs:     blobs,
		sizes:     sizes,
		events:    events,
		log:       log,
	}
}

// ObjectName is the bucket key convention for one rendition of a file.
func ObjectName(sizeLabel, filename string) string {
	return fmt.Sprintf("images/%s/%s", sizeLabel, filename)
}

// Ingest validates buf, stores one blob per configured rendition and
// commits the metadata record. A failure at any rendition deletes the
// blobs stored so far (best-effort) and returns the original error; a
// failure at the commit step deletes all stored blobs the same way, so a
// partially-visible record is never left behind in either direction.
func (p *Pipeline) Ingest(ctx context.Context, buf []byte, contentType, filename string) (*types.ImageRecord, error) {
	decoded, err := p.validator.Validate(buf, contentType, filename)
	if err != nil {
		return nil, err
	}

	// one generated filename shared by every rendition of this call
	generated := uuid.New().String() + decoded.Ext

	urls := make(map[string]string, len(p.sizes))
	var stored []string

	for _, size := range p.sizes {
		rendition, err := Render(decoded, size.MaxWidth, size.MaxHeight)
		if err != nil {
			p.compensate(ctx, stored)
			return nil, err
		}

		key := ObjectName(size.Label, generated)
		if err := p.blobs.Put(ctx, key, rendition); err != nil {
			p.compensate(ctx, stored)
			return nil, err
		}

		stored = append(stored, key)
		urls[size.Label] = p.blobs.PublicURL(key)
		p.log.Debug(ctx, "stored rendition", "size", size.Label, "key", key)
	}

	// a record is committed with all rendition URLs or not at all
	for _, label := range config.RequiredSizeLabels {
		if urls[label] == "" {
			p.compensate(ctx, stored)
			return nil, types.ConfigurationError(fmt.Sprintf("no %q rendition configured", label))
		}
	}

	record, err := p.records.InsertImage(ctx, urls["small"], urls["medium"], urls["large"])
	if err != nil {
		p.compensate(ctx, stored)
		return nil, types.PersistenceError("Failed to process image", err)
	}

	if p.events != nil {
		event := IngestedEvent{ImageID: record.ID, SmallURL: record.SmallURL, CreatedAt: record.CreatedAt}
		if err := p.events.Send(ctx, event); err != nil {
			p.log.Warn(ctx, "failed to post ingested event", "image_id", record.ID, "error", err.Error())
		}
	}

	p.log.Info(ctx, "image ingested", "image_id", record.ID, "filename", generated)
	return record, nil
}

// compensate deletes the blobs stored so far. Every delete is attempted
// regardless of earlier failures; errors are logged and swallowed so the
// original ingestion error is what the caller sees.
func (p *Pipeline) compensate(ctx context.Context, stored []string) {
	for _, key := range stored {
		if err := p.blobs.Delete(ctx, key); err != nil {
			p.log.Warn(ctx, "compensation delete failed", "key", key, "error", err.Error())
		}
	}
}

// Get returns the committed record for id.
func (p *Pipeline) Get(ctx context.Context, id int64) (*types.ImageRecord, error) {
	record, err := p.records.GetImage(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, types.NotFoundError("Image not found")
		}
		return nil, types.PersistenceError("Failed to fetch image", err)
	}
	return record, nil
}

// Delete removes the record for id and best-effort deletes its blobs. The
// row is removed even when every blob delete fails: storage leakage is
// tolerated, a dangling metadata row is not.
func (p *Pipeline) Delete(ctx context.Context, id int64) error {
	record, err := p.records.GetImage(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return types.NotFoundError("Image not found")
		}
		return types.PersistenceError("Failed to fetch image", err)
	}

	for _, ref := range []struct{ label, url string }{
		{"small", record.SmallURL},
		{"medium", record.MediumURL},
		{"large", record.LargeURL},
	} {
		if ref.url == "" {
			continue
		}
		key := ObjectName(ref.label, path.Base(ref.url))
		if err := p.blobs.Delete(ctx, key); err != nil {
			p.log.Warn(ctx, "failed to delete rendition", "image_id", id, "key", key, "error", err.Error())
		}
	}

	if err := p.records.DeleteImage(ctx, id); err != nil {
		return types.PersistenceError("Failed to delete image", err)
	}

	p.log.Info(ctx, "image deleted", "image_id", id)
	return nil
}
