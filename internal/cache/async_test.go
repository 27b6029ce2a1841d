package cache

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAsyncCacheDrainsQueuedPutsBeforeShutdownReturns(t *testing.T) {
	local := newTestLocalCache(t, CodecNone, 0)
	async := NewAsyncCache(local, 2)

	bodies := map[string][]byte{
		"a": []byte("body-a"),
		"b": []byte("body-b"),
		"c": []byte("body-c"),
	}
	var dones []<-chan error
	for name, body := range bodies {
		dones = append(dones, async.Put(name, "1.0.0", "url", sha256Hex(body), body))
	}
	for _, done := range dones {
		require.NoError(t, <-done)
	}
	async.Shutdown()

	for name := range bodies {
		require.True(t, local.Has(name, "1.0.0"))
	}
}

func TestPutBatchWritesAllEntriesConcurrently(t *testing.T) {
	local := newTestLocalCache(t, CodecNone, 0)

	entries := []BatchEntry{
		{Name: "x", Version: "1.0.0", URL: "url", SHA256: sha256Hex([]byte("x-body")), Body: []byte("x-body")},
		{Name: "y", Version: "1.0.0", URL: "url", SHA256: sha256Hex([]byte("y-body")), Body: []byte("y-body")},
		{Name: "z", Version: "1.0.0", URL: "url", SHA256: sha256Hex([]byte("z-body")), Body: []byte("z-body")},
	}

	require.NoError(t, PutBatch(local, 2, entries))

	for _, e := range entries {
		got, err := local.Read(e.Name, e.Version)
		require.NoError(t, err)
		require.Equal(t, e.Body, got)
	}
}
