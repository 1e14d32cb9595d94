package workerpool

import (
	"context"
	"errors"
	"sync"
	"time"

	"taskforce/internal/domain"
	"taskforce/internal/logger"
)

var (
	ErrPoolFull   = errors.New("event pool is full")
	ErrPoolClosed = errors.New("event pool is closed")
)

// writeTimeout bounds a single event write by a worker.
const writeTimeout = 5 * time.Second

type EventPool interface {
	Enqueue(e domain.TaskEvent) error
}

type EventRecorder interface {
	AppendEvent(ctx context.Context, e domain.TaskEvent) error
}

// Pool writes task events to the recorder in the background.
type Pool struct {
	queue    chan domain.TaskEvent
	recorder EventRecorder
	log      logger.Logger

	mu      sync.RWMutex
	closed  bool
	workers int
	wg      sync.WaitGroup
}

func New(poolSize int, recorder EventRecorder, log logger.Logger) *Pool {
	return &Pool{
		queue:    make(chan domain.TaskEvent, poolSize),
		recorder: recorder,
		log:      log,
	}
}

// Start launches n workers. With zero workers events queue up until
// Shutdown drains them.
func (p *Pool) Start(n int) {
	p.mu.Lock()
	p.workers += n
	p.mu.Unlock()

	for i := 0; i < n; i++ {
		p.wg.Add(1)
		go p.work(i)
	}
}

// Enqueue never blocks.
func (p *Pool) Enqueue(e domain.TaskEvent) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return ErrPoolClosed
	}

	select {
	case p.queue <- e:
		return nil
	default:
		return ErrPoolFull
	}
}

// Shutdown stops accepting events and waits for the workers to drain the
// queue or for ctx to end.
func (p *Pool) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.queue)
		if p.workers == 0 {
			p.workers = 1
			p.wg.Add(1)
			go p.work(0)
		}
	}
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Pool) work(id int) {
	defer p.wg.Done()

	for e := range p.queue {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		err := p.recorder.AppendEvent(ctx, e)
		cancel()

		if err != nil {
			p.log.Error("failed to record task event",
				"worker", id, "event_id", e.ID, "task_id", e.TaskID, "action", e.Action, "error", err)
			continue
		}
		p.log.Debug("task event recorded", "worker", id, "event_id", e.ID, "task_id", e.TaskID)
	}
}
