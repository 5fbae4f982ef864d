package order

import "sync"

// deliveryQueue runs tasks one at a time in push order on a worker that
// exists only while tasks are pending. push never blocks.
type deliveryQueue struct {
	mu      sync.Mutex
	pending []func()
	running bool
	wg      *sync.WaitGroup
}

func newDeliveryQueue(wg *sync.WaitGroup) *deliveryQueue {
	return &deliveryQueue{wg: wg}
}

func (q *deliveryQueue) push(task func()) {
	q.wg.Add(1)

	q.mu.Lock()
	q.pending = append(q.pending, task)
	if q.running {
		q.mu.Unlock()
		return
	}
	q.running = true
	q.mu.Unlock()

	go q.drain()
}

func (q *deliveryQueue) drain() {
	for {
		q.mu.Lock()
		if len(q.pending) == 0 {
			q.running = false
			q.mu.Unlock()
			return
		}
		task := q.pending[0]
		q.pending[0] = nil
		q.pending = q.pending[1:]
		q.mu.Unlock()

		task()
		q.wg.Done()
	}
}
