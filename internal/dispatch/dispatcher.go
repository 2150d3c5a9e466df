// Package dispatch runs best-effort side effects off the request path.
package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aevon-lab/adpulse/internal/core/partition"
)

const (
	defaultWorkers     = 4
	defaultQueueSize   = 1024
	defaultTaskTimeout = 10 * time.Second
)

// Task is one side effect. Its context carries the task timeout and is never
// the request context.
type Task struct {
	Name string
	Pool string // lane group; defaults to Name. Pools never wait on each other.
	Key  string // lane key; tasks with the same pool and key run in submission order
	Run  func(ctx context.Context) error
}

func (t Task) pool() string {
	if t.Pool != "" {
		return t.Pool
	}
	return t.Name
}

type Options struct {
	Workers     int // lanes per pool
	QueueSize   int // per lane
	TaskTimeout time.Duration
}

func (o Options) normalized() Options {
	if o.Workers <= 0 {
		o.Workers = defaultWorkers
	}
	if o.QueueSize <= 0 {
		o.QueueSize = defaultQueueSize
	}
	if o.TaskTimeout <= 0 {
		o.TaskTimeout = defaultTaskTimeout
	}
	return o
}

// Dispatcher owns one group of lanes per pool, each lane drained by one
// goroutine. Pools are created on first use.
type Dispatcher struct {
	opts    Options
	pools   map[string][]chan Task
	wg      sync.WaitGroup
	mu      sync.RWMutex
	stopped bool
	dropped atomic.Int64
}

func New(opts Options) *Dispatcher {
	opts = opts.normalized()
	slog.Info("[Dispatch] Started",
		"workers_per_pool", opts.Workers,
		"queue_size", opts.QueueSize,
		"task_timeout", opts.TaskTimeout)
	return &Dispatcher{
		opts:  opts,
		pools: make(map[string][]chan Task),
	}
}

// Submit enqueues the task without blocking. It returns false when the task was
// dropped because its lane is full or the dispatcher is stopped.
func (d *Dispatcher) Submit(t Task) bool {
	d.ensurePool(t.pool())

	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.stopped {
		d.dropped.Add(1)
		slog.Warn("[Dispatch] Dropped task after stop", "task", t.Name, "key", t.Key)
		return false
	}

	lanes := d.pools[t.pool()]
	lane := lanes[partition.For(t.Key, len(lanes))]
	select {
	case lane <- t:
		return true
	default:
		d.dropped.Add(1)
		slog.Warn("[Dispatch] Queue full, dropping task", "task", t.Name, "pool", t.pool(), "key", t.Key)
		return false
	}
}

func (d *Dispatcher) ensurePool(name string) {
	d.mu.RLock()
	_, ok := d.pools[name]
	d.mu.RUnlock()
	if ok {
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.pools[name]; ok || d.stopped {
		return
	}
	lanes := make([]chan Task, d.opts.Workers)
	d.wg.Add(len(lanes))
	for i := range lanes {
		lanes[i] = make(chan Task, d.opts.QueueSize)
		go d.work(name, i, lanes[i])
	}
	d.pools[name] = lanes
	slog.Debug("[Dispatch] Pool started", "pool", name, "lanes", len(lanes))
}

// Dropped returns how many tasks were discarded since start.
func (d *Dispatcher) Dropped() int64 {
	return d.dropped.Load()
}

// Stop closes intake and waits for queued tasks to finish or ctx to end.
func (d *Dispatcher) Stop(ctx context.Context) error {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return nil
	}
	d.stopped = true
	for _, lanes := range d.pools {
		for _, lane := range lanes {
			close(lane)
		}
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		slog.Info("[Dispatch] Drained and stopped", "dropped", d.Dropped())
		return nil
	case <-ctx.Done():
		return fmt.Errorf("dispatcher drain interrupted: %w", ctx.Err())
	}
}

func (d *Dispatcher) work(pool string, id int, lane <-chan Task) {
	defer d.wg.Done()
	for t := range lane {
		d.run(pool, id, t)
	}
}

func (d *Dispatcher) run(pool string, lane int, t Task) {
	ctx, cancel := context.WithTimeout(context.Background(), d.opts.TaskTimeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			slog.Error("[Dispatch] Task panicked",
				"task", t.Name,
				"pool", pool,
				"key", t.Key,
				"lane", lane,
				"panic", r)
		}
	}()

	if err := t.Run(ctx); err != nil {
		slog.Warn("[Dispatch] Task failed",
			"task", t.Name,
			"pool", pool,
			"key", t.Key,
			"lane", lane,
			"error", err)
	}
}
