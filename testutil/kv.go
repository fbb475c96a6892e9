package testutil

import (
	"slices"
	"sync"
	"testing"
)

// KV is an in-memory key value data structure to create fake data stores
// with, such as order.FakeRepository. It is safe for concurrent use.
type KV[K comparable, V any] struct {
	mu   *sync.RWMutex
	data map[K]V
}

func NewKV[K comparable, V any](t *testing.T) *KV[K, V] {
	t.Helper()
	return &KV[K, V]{
		mu:   new(sync.RWMutex),
		data: map[K]V{},
	}
}

func (k *KV[K, V]) Put(key K, value V) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.data[key] = value
}

// PutIfAbsent stores the value and returns true only if the key is not
// already present.
func (k *KV[K, V]) PutIfAbsent(key K, value V) bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	if _, ok := k.data[key]; ok {
		return false
	}
	k.data[key] = value
	return true
}

func (k *KV[K, V]) Get(key K) (V, bool) {
	k.mu.RLock()
	defer k.mu.RUnlock()
	v, ok := k.data[key]
	return v, ok
}

func (k *KV[K, V]) Delete(key K) {
	k.mu.Lock()
	defer k.mu.Unlock()
	delete(k.data, key)
}

func (k *KV[K, V]) Len() int {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return len(k.data)
}

// List returns up to limit values, after skipping offset values, ordered by
// the cmp function. A limit <= 0 returns all remaining values.
func (k *KV[K, V]) List(offset int64, limit int64, cmp func(a, b V) int) []V {
	k.mu.RLock()
	values := make([]V, 0, len(k.data))
	for _, v := range k.data {
		values = append(values, v)
	}
	k.mu.RUnlock()

	slices.SortFunc(values, cmp)

	if offset >= int64(len(values)) {
		return []V{}
	}
	values = values[offset:]
	if limit > 0 && limit < int64(len(values)) {
		values = values[:limit]
	}
	return values
}
