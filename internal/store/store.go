package store

// Store is keyed hierarchical storage shared by every connected client.
// Paths are slash-separated (e.g. "games/abc/players/p1"). Set replaces the
// whole subtree at a path, Update merges at the named fields only. Writes
// from one caller are observed in order; no ordering is guaranteed across
// callers, and concurrent writes to the same field path resolve
// last-write-wins.
type Store interface {
	Get(path string) (any, bool)
	Set(path string, value any)
	Update(path string, fields map[string]any)
	Push(path string) string
	Subscribe(path string, fn func(snapshot any)) (unsubscribe func())
}
