// Package memory is an in-process secondary index for local runs and tests.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"

	v1 "github.com/aevon-lab/adpulse/internal/api/v1"
	"github.com/aevon-lab/adpulse/internal/core/aggregation"
	"github.com/aevon-lab/adpulse/internal/index"
)

var errClosed = errors.New("memory index closed")

// Index keeps one document per event id; re-indexing replaces the document.
type Index struct {
	mu     sync.RWMutex
	docs   map[string]index.Document
	closed bool
}

var _ index.Index = (*Index)(nil)

func New() *Index {
	return &Index{docs: make(map[string]index.Document)}
}

func (m *Index) EnsureIndex(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return errClosed
	}
	return nil
}

func (m *Index) IndexOne(ctx context.Context, event *v1.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return errClosed
	}
	m.docs[event.ID] = index.DocumentFrom(event)
	return nil
}

func (m *Index) IndexBulk(ctx context.Context, events []*v1.Event) (index.BulkResult, error) {
	if err := ctx.Err(); err != nil {
		return index.BulkResult{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return index.BulkResult{}, errClosed
	}

	var res index.BulkResult
	for _, e := range events {
		if e.ID == "" {
			res.Failed = append(res.Failed, index.BulkFailure{Err: errors.New("document has no event id")})
			continue
		}
		m.docs[e.ID] = index.DocumentFrom(e)
		res.Indexed++
	}
	return res, nil
}

func (m *Index) Query(ctx context.Context, q aggregation.Query) ([]aggregation.Bucket, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, errClosed
	}
	if !q.GroupBy.Valid() {
		return nil, fmt.Errorf("unsupported group by %q", q.GroupBy)
	}

	facts := make([]aggregation.Fact, 0, len(m.docs))
	for _, d := range m.docs {
		facts = append(facts, d.Fact())
	}
	return aggregation.Fold(facts, q), nil
}

func (m *Index) Ping(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return errClosed
	}
	return nil
}

// Len returns the number of documents held.
func (m *Index) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.docs)
}

func (m *Index) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
