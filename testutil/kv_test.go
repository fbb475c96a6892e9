package testutil

import (
	"cmp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKV(t *testing.T) {
	kv := NewKV[string, int](t)

	assert.True(t, kv.PutIfAbsent("b", 2))
	assert.False(t, kv.PutIfAbsent("b", 20))
	kv.Put("a", 1)
	kv.Put("c", 3)

	got, ok := kv.Get("b")
	assert.True(t, ok)
	assert.Equal(t, 2, got)
	assert.Equal(t, 3, kv.Len())

	assert.Equal(t, []int{1, 2, 3}, kv.List(0, 0, cmp.Compare[int]))
	assert.Equal(t, []int{2}, kv.List(1, 1, cmp.Compare[int]))
	assert.Equal(t, []int{3}, kv.List(2, 5, cmp.Compare[int]))
	assert.Empty(t, kv.List(3, 5, cmp.Compare[int]))

	kv.Delete("b")
	_, ok = kv.Get("b")
	assert.False(t, ok)
	assert.Equal(t, 2, kv.Len())
}
