package common

import (
	"sync"
	"time"
)

// QueueProcessor is a function that processes a batch of items from the queue.
type QueueProcessor[V any] func(items []V)

// QueueHandler collects items and hands them to the processor in chunks from
// a background goroutine. Tracking uses it so event publishing never blocks a
// request.
type QueueHandler[V any] struct {
	mu        sync.Mutex
	queue     []V
	processor QueueProcessor[V]
	chunkSize int
	done      chan struct{}
}

func NewQueueHandler[V any](processor QueueProcessor[V], chunkSize int) *QueueHandler[V] {
	q := &QueueHandler[V]{
		queue:     make([]V, 0),
		processor: processor,
		chunkSize: chunkSize,
		done:      make(chan struct{}),
	}
	go q.processQueue()
	return q
}

// Add adds items to the queue.
func (h *QueueHandler[V]) Add(item ...V) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.queue = append(h.queue, item...)
}

// Close stops the background goroutine after draining what is queued.
func (h *QueueHandler[V]) Close() {
	close(h.done)
	for {
		if batch := h.take(); len(batch) == 0 {
			return
		} else {
			h.processor(batch)
		}
	}
}

func (h *QueueHandler[V]) take() []V {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.queue) == 0 {
		return nil
	}
	items := h.queue[:min(h.chunkSize, len(h.queue))]
	h.queue = h.queue[len(items):]
	return items
}

func (h *QueueHandler[V]) processQueue() {
	for {
		select {
		case <-h.done:
			return
		default:
		}
		items := h.take()
		if items == nil {
			time.Sleep(time.Second)
			continue
		}
		h.processor(items)
	}
}
