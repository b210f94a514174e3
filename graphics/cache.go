//go:build !ios && !android && (amd64 || arm64)

package graphics

import (
	"sync"
	"time"

	"github.com/obinnaokechukwu/sfgo/internal/logging"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

// NoExpiration keeps cached textures until they are evicted explicitly.
const NoExpiration = cache.NoExpiration

// TextureCache loads each texture file once and shares it.
//
// The cache owns its textures: callers must not Close them, and a texture
// stays valid only until it is evicted, by Evict, by Prune after its time
// to live, or by Close. Copy a texture to keep it beyond that. Expired
// entries are only dropped by Prune; the cache runs no background work.
type TextureCache struct {
	mu    sync.Mutex
	items *cache.Cache
	load  func(path string) (*Texture, error)
}

// NewTextureCache returns an empty cache whose entries live for ttl after
// being loaded, or forever with NoExpiration.
func NewTextureCache(ttl time.Duration) *TextureCache {
	tc := &TextureCache{
		items: cache.New(ttl, 0),
		load:  NewTextureFromFile,
	}
	tc.items.OnEvicted(func(path string, v interface{}) {
		if err := v.(*Texture).Close(); err != nil {
			logging.Logger().Warn("closing evicted texture", zap.String("path", path), zap.Error(err))
		}
	})
	return tc
}

// Get returns the texture for path, loading it on first use.
func (tc *TextureCache) Get(path string) (*Texture, error) {
	tc.mu.Lock()
	defer tc.mu.Unlock()

	if v, ok := tc.items.Get(path); ok {
		return v.(*Texture), nil
	}
	// An expired entry is still stored; close it before replacing it.
	tc.items.Delete(path)

	tex, err := tc.load(path)
	if err != nil {
		return nil, err
	}
	tc.items.Set(path, tex, cache.DefaultExpiration)
	return tex, nil
}

// Evict closes and forgets the texture for path, if cached.
func (tc *TextureCache) Evict(path string) {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	tc.items.Delete(path)
}

// Prune closes and forgets every expired texture.
func (tc *TextureCache) Prune() {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	tc.items.DeleteExpired()
}

// Len returns the number of cached textures, expired ones included.
func (tc *TextureCache) Len() int {
	return tc.items.ItemCount()
}

// Close closes every cached texture and empties the cache.
func (tc *TextureCache) Close() error {
	tc.mu.Lock()
	defer tc.mu.Unlock()

	// Flush would skip the eviction hook, and Items leaves out expired
	// entries, so those go first.
	tc.items.DeleteExpired()
	for path := range tc.items.Items() {
		tc.items.Delete(path)
	}
	return nil
}
