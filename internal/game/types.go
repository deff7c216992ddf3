package game

import "sort"

// Phase values match the wire format stored in the shared session record.
type Phase string

const (
	PhaseLobby    Phase = "lobby"
	PhaseCreating Phase = "creating"
	PhaseVoting   Phase = "voting"
	PhaseResults  Phase = "results"
)

type Role string

const (
	RoleParticipant Role = "participant"
	RoleSpectator   Role = "spectator"
)

const (
	// The game is designed for up to three competing images.
	MaxEntrants        = 3
	MinEntrantsToStart = 2

	DefaultPromptTime = 120 // seconds
	DefaultVotingTime = 55  // seconds
)

type Settings struct {
	PromptTime int `json:"promptTime"`
	VotingTime int `json:"votingTime"`
}

// Entrant is one participant's in-game record. The rating sums accumulate
// across raters during voting; everything except ID and Name is cleared
// when the session resets back to the lobby.
type Entrant struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Prompt      string `json:"prompt"`
	ImageURL    string `json:"imageUrl"`
	Votes       int    `json:"votes"`
	Variety     int    `json:"variety"`
	Relevance   int    `json:"relevance"`
	Imagination int    `json:"imagination"`
}

// Session is the shared mutable game record. No single client owns it; the
// document store holds the durable copy and every connected client derives
// its view from the same snapshot.
type Session struct {
	Phase         Phase
	Entrants      map[string]Entrant
	Settings      Settings
	TimeRemaining int
	StartTime     int64
	Challenge     string
	Category      string
}

// EntrantIDs returns the roster in insertion order. Child keys sort
// lexicographically in creation order, so a plain sort recovers it.
func (s Session) EntrantIDs() []string {
	ids := make([]string, 0, len(s.Entrants))
	for id := range s.Entrants {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (s Session) EntrantList() []Entrant {
	ids := s.EntrantIDs()
	out := make([]Entrant, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.Entrants[id])
	}
	return out
}

// AllImagesReady reports whether every current entrant has generated an
// image, which lets the creating phase end before the clock runs out.
func (s Session) AllImagesReady() bool {
	if len(s.Entrants) == 0 {
		return false
	}
	for _, e := range s.Entrants {
		if e.ImageURL == "" {
			return false
		}
	}
	return true
}
