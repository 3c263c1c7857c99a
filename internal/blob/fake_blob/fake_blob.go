// Package fake_blob is an in-memory blob.Storage with failure injection,
// used by pipeline and handler tests.
package fake_blob

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/juanpablosotoc/zartex/internal/types"
)

type FakeBlob struct {
	mu      sync.Mutex
	objects map[string][]byte
	deleted []string

	// FailPutAt makes the Nth Put call (1-based) fail. Zero disables.
	FailPutAt int
	// FailDelete makes every Delete call fail.
	FailDelete bool

	puts int
}

func New() *FakeBlob {
	return &FakeBlob{objects: make(map[string][]byte)}
}

func (f *FakeBlob) Put(ctx context.Context, key string, body []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.puts++
	if f.FailPutAt != 0 && f.puts == f.FailPutAt {
		return types.StorageError(fmt.Sprintf("error uploading object %s", key), errors.New("injected put failure"))
	}
	cp := make([]byte, len(body))
	copy(cp, body)
	f.objects[key] = cp
	return nil
}

func (f *FakeBlob) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, key)
	if f.FailDelete {
		return types.StorageError(fmt.Sprintf("error deleting object %s", key), errors.New("injected delete failure"))
	}
	delete(f.objects, key)
	return nil
}

func (f *FakeBlob) PublicURL(key string) string {
	return "https://test-bucket.s3.us-east-1.amazonaws.com/" + key
}

// Object returns the stored bytes for key, if present.
func (f *FakeBlob) Object(key string) ([]byte, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.objects[key]
	return b, ok
}

// Keys returns the currently stored keys.
func (f *FakeBlob) Keys() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	keys := make([]string, 0, len(f.objects))
	for k := range f.objects {
		keys = append(keys, k)
	}
	return keys
}

// PutCalls reports how many Put calls were made.
func (f *FakeBlob) PutCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.puts
}

// DeleteCalls returns the keys passed to Delete, in call order.
func (f *FakeBlob) DeleteCalls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.deleted...)
}
