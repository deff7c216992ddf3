package game

import (
	"time"

	"github.com/promptarena/promptarena/internal/store"
)

const gamesRoot = "games"

// DB is a typed client for one session record in the shared document
// store. All paths hang off games/{gameID}.
type DB struct {
	st store.Store
	id string
}

// CreateGame writes a fresh lobby-phase session and returns a handle to it.
func CreateGame(st store.Store) *DB {
	id := st.Push(gamesRoot)
	st.Set(gamesRoot+"/"+id, map[string]any{
		"phase": string(PhaseLobby),
		"settings": map[string]any{
			"promptTime": DefaultPromptTime,
			"votingTime": DefaultVotingTime,
		},
		"timeRemaining": 0,
		"startTime":     time.Now().UnixMilli(),
	})
	return &DB{st: st, id: id}
}

// OpenGame binds to an existing session. Joining via identifier requires
// the session to already exist.
func OpenGame(st store.Store, id string) (*DB, error) {
	if _, ok := st.Get(gamesRoot + "/" + id); !ok {
		return nil, ErrGameNotFound
	}
	return &DB{st: st, id: id}, nil
}

func (d *DB) GameID() string { return d.id }

func (d *DB) Load() (Session, bool) {
	v, ok := d.st.Get(gamesRoot + "/" + d.id)
	if !ok {
		return Session{}, false
	}
	return decodeSession(v), true
}

// Watch subscribes to the session record. The callback fires once with the
// current state and then on every write that touches the record.
func (d *DB) Watch(fn func(Session)) (unsubscribe func()) {
	return d.st.Subscribe(gamesRoot+"/"+d.id, func(v any) {
		fn(decodeSession(v))
	})
}

func (d *DB) UpdateGame(fields map[string]any) {
	d.st.Update(gamesRoot+"/"+d.id, fields)
}

func (d *DB) UpdateSettings(fields map[string]any) {
	d.st.Update(gamesRoot+"/"+d.id+"/settings", fields)
}

func (d *DB) UpdateEntrant(id string, fields map[string]any) {
	d.st.Update(gamesRoot+"/"+d.id+"/players/"+id, fields)
}

// UpdateEntrants merges fields across the whole roster subtree; keys are
// relative paths like "{entrantID}/prompt".
func (d *DB) UpdateEntrants(fields map[string]any) {
	d.st.Update(gamesRoot+"/"+d.id+"/players", fields)
}

// AddEntrant creates a zeroed entrant record and returns its new ID.
func (d *DB) AddEntrant(name string) string {
	id := d.st.Push(gamesRoot + "/" + d.id + "/players")
	d.st.Set(gamesRoot+"/"+d.id+"/players/"+id, map[string]any{
		"id":          id,
		"name":        name,
		"prompt":      "",
		"imageUrl":    "",
		"votes":       0,
		"variety":     0,
		"relevance":   0,
		"imagination": 0,
	})
	return id
}
