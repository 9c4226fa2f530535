// Package inference serves predictions from the currently published model.
package inference

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/Shayanthavi/FitTrack-AI/internal/learning"
)

// Snapshot is a published bundle. It is never mutated after publication.
type Snapshot struct {
	Bundle   *learning.Bundle
	LoadedAt time.Time
}

// Registry は現在公開中のモデルを保持します。
// 読み手は Current でスナップショットを取得し、書き手は Publish で丸ごと差し替えます。
type Registry struct {
	current atomic.Pointer[Snapshot]
}

func NewRegistry() *Registry {
	return &Registry{}
}

// Publish swaps in a new snapshot.
func (r *Registry) Publish(s *Snapshot) {
	r.current.Store(s)
}

// Current returns the live snapshot or nil when nothing is published.
func (r *Registry) Current() *Snapshot {
	return r.current.Load()
}

// Activate validates a bundle and publishes it.
func (r *Registry) Activate(b *learning.Bundle) error {
	if err := b.Validate(); err != nil {
		return fmt.Errorf("refusing to publish model: %w", err)
	}
	r.Publish(&Snapshot{Bundle: b, LoadedAt: time.Now().UTC()})
	return nil
}

// Loader is the read side of a model store.
type Loader interface {
	Load(ctx context.Context) (*learning.Bundle, error)
}

// LoadFrom publishes the bundle currently held by the store. The store's
// error, including its no-model error, is returned unchanged.
func (r *Registry) LoadFrom(ctx context.Context, store Loader) error {
	b, err := store.Load(ctx)
	if err != nil {
		return err
	}
	return r.Activate(b)
}
