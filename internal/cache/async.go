package cache

import (
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Writer is the subset of LocalCache/SharedCache that AsyncCache queues
// writes against.
type Writer interface {
	Put(name, version, url, sha256 string, body []byte) error
}

type putRequest struct {
	name, version, url, sha256 string
	body                       []byte
	done                       chan error
}

// AsyncCache hands Put calls to a fixed worker pool; Put returns as
// soon as a worker has accepted the request (the queue is unbuffered,
// so Put blocks while every worker is busy), and callers that need to
// observe the write's outcome can wait on the returned channel. A channel of pending requests is
// drained by a fixed number of worker goroutines, with Shutdown closing
// the channel and waiting for drain.
type AsyncCache struct {
	requests chan putRequest
	real     Writer
	wg       sync.WaitGroup
}

// NewAsyncCache starts workers goroutines draining queued puts against
// real.
func NewAsyncCache(real Writer, workers int) *AsyncCache {
	if workers < 1 {
		workers = 1
	}
	c := &AsyncCache{
		requests: make(chan putRequest),
		real:     real,
	}
	c.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go c.run()
	}
	return c
}

// Put enqueues a write and returns a channel that receives its result
// once a worker processes it. Callers that don't care about the
// outcome may discard the channel.
func (c *AsyncCache) Put(name, version, url, sha256 string, body []byte) <-chan error {
	done := make(chan error, 1)
	c.requests <- putRequest{name: name, version: version, url: url, sha256: sha256, body: body, done: done}
	return done
}

func (c *AsyncCache) run() {
	defer c.wg.Done()
	for r := range c.requests {
		err := c.real.Put(r.name, r.version, r.url, r.sha256, r.body)
		r.done <- err
		close(r.done)
	}
}

// Shutdown closes the request queue and waits for every worker to
// drain its remaining requests.
func (c *AsyncCache) Shutdown() {
	close(c.requests)
	c.wg.Wait()
}

// BatchEntry is one package body to write in a PutBatch call.
type BatchEntry struct {
	Name, Version, URL, SHA256 string
	Body                       []byte
}

// PutBatch writes many entries concurrently against real, bounded to
// workers in flight at once (defaulting to runtime.NumCPU() when
// workers <= 0), fanning the batch out across an errgroup.
func PutBatch(real Writer, workers int, entries []BatchEntry) error {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	g := new(errgroup.Group)
	g.SetLimit(workers)
	for _, e := range entries {
		e := e
		g.Go(func() error {
			return real.Put(e.Name, e.Version, e.URL, e.SHA256, e.Body)
		})
	}
	return g.Wait()
}
