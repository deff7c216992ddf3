package store

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Memory is an in-process document store. It keeps a tree of
// map[string]any nodes and notifies subscribers synchronously on every
// write that touches their path or anything below it.
type Memory struct {
	mu   sync.Mutex
	root map[string]any
	subs map[int]*subscriber
	next int
	seqs map[string]int64
}

type subscriber struct {
	path string
	fn   func(any)
}

func NewMemory() *Memory {
	return &Memory{
		root: make(map[string]any),
		subs: make(map[int]*subscriber),
		seqs: make(map[string]int64),
	}
}

func (m *Memory) Get(path string) (any, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.get(splitPath(path))
}

func (m *Memory) Set(path string, value any) {
	parts := splitPath(path)
	m.mu.Lock()
	node := m.descend(parts[:len(parts)-1])
	node[parts[len(parts)-1]] = clone(value)
	subs := m.affected(path)
	m.mu.Unlock()
	m.notify(subs)
}

// Update merges the given fields at the path. Field keys may themselves
// contain slashes to address nested children, so a single call can touch
// several entrants at once.
func (m *Memory) Update(path string, fields map[string]any) {
	parts := splitPath(path)
	m.mu.Lock()
	base := m.descend(parts)
	for k, v := range fields {
		kp := splitPath(k)
		node := base
		if len(kp) > 1 {
			node = descendFrom(base, kp[:len(kp)-1])
		}
		node[kp[len(kp)-1]] = clone(v)
	}
	subs := m.affected(path)
	m.mu.Unlock()
	m.notify(subs)
}

// Push mints a new child key under the given parent. Keys sort
// lexicographically in creation order per parent, so roster insertion
// order is recoverable by sorting.
func (m *Memory) Push(path string) string {
	path = strings.Trim(path, "/")
	m.mu.Lock()
	m.seqs[path]++
	seq := m.seqs[path]
	m.mu.Unlock()
	return fmt.Sprintf("%013d%06d-%s", time.Now().UnixMilli(), seq, uuid.NewString()[:8])
}

// Subscribe registers fn for change notifications at path. If a value
// already exists there, fn is called once immediately with it.
func (m *Memory) Subscribe(path string, fn func(any)) func() {
	m.mu.Lock()
	m.next++
	id := m.next
	m.subs[id] = &subscriber{path: strings.Trim(path, "/"), fn: fn}
	snap, ok := m.get(splitPath(path))
	m.mu.Unlock()
	if ok {
		fn(snap)
	}
	return func() {
		m.mu.Lock()
		delete(m.subs, id)
		m.mu.Unlock()
	}
}

func (m *Memory) get(parts []string) (any, bool) {
	var cur any = m.root
	for _, p := range parts {
		node, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = node[p]
		if !ok {
			return nil, false
		}
	}
	return clone(cur), true
}

func (m *Memory) descend(parts []string) map[string]any {
	return descendFrom(m.root, parts)
}

func descendFrom(node map[string]any, parts []string) map[string]any {
	for _, p := range parts {
		child, ok := node[p].(map[string]any)
		if !ok {
			child = make(map[string]any)
			node[p] = child
		}
		node = child
	}
	return node
}

func (m *Memory) affected(path string) []*subscriber {
	path = strings.Trim(path, "/")
	var out []*subscriber
	for _, s := range m.subs {
		if isPathPrefix(s.path, path) || isPathPrefix(path, s.path) {
			out = append(out, s)
		}
	}
	return out
}

// notify is called without the lock held so that callbacks may read or
// write the store.
func (m *Memory) notify(subs []*subscriber) {
	for _, s := range subs {
		m.mu.Lock()
		snap, ok := m.get(splitPath(s.path))
		m.mu.Unlock()
		if ok {
			s.fn(snap)
		}
	}
}

func splitPath(path string) []string {
	return strings.Split(strings.Trim(path, "/"), "/")
}

func isPathPrefix(a, b string) bool {
	return a == b || strings.HasPrefix(b, a+"/")
}

func clone(v any) any {
	mp, ok := v.(map[string]any)
	if !ok {
		return v
	}
	out := make(map[string]any, len(mp))
	for k, val := range mp {
		out[k] = clone(val)
	}
	return out
}
