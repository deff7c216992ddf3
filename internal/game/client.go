package game

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/jonboulle/clockwork"
	"github.com/promptarena/promptarena/internal/ai"
	"github.com/promptarena/promptarena/internal/store"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	ErrGameNotFound     = errors.New("game not found")
	ErrGameFull         = errors.New("game is full")
	ErrNotEnoughPlayers = errors.New("not enough players to start")
	ErrInvalidPhase     = errors.New("invalid phase for action")
	ErrIncompleteRating = errors.New("all three rating values are required")
	ErrInvalidRating    = errors.New("rating values must be between 1 and 5")
	ErrSpectatorsOnly   = errors.New("participants cannot rate")
	ErrParticipantsOnly = errors.New("spectators cannot do this")
	ErrEmptyPrompt      = errors.New("prompt must not be empty")
	ErrEmptyName        = errors.New("name must not be empty")
	ErrEntrantNotFound  = errors.New("entrant not found")
	ErrUnknownCategory  = errors.New("unknown challenge category")
	ErrNotJoined        = errors.New("not joined to a game")
	ErrInvalidSettings  = errors.New("durations must be positive")
)

// Client is one connected participant or spectator. There is no central
// coordinator: every client subscribes to the shared session record,
// mutates it directly, and independently evaluates whether it currently
// is the timer authority.
type Client struct {
	st       store.Store
	provider ai.Provider
	clock    clockwork.Clock
	log      zerolog.Logger

	db *DB

	mu        sync.Mutex
	entrantID string
	role      Role
	rated     map[string]bool
	lastPhase Phase
	onState   func(Session)
	unwatch   func()
	stopTimer context.CancelFunc

	// ExportFile, when set, receives the final standings whenever this
	// client's authority loop ends a game.
	ExportFile string
}

func NewClient(st store.Store, provider ai.Provider) *Client {
	return &Client{
		st:       st,
		provider: provider,
		clock:    clockwork.NewRealClock(),
		log:      log.Logger,
		rated:    make(map[string]bool),
	}
}

// OnState registers the handler invoked with every observed session
// snapshot.
func (c *Client) OnState(fn func(Session)) {
	c.mu.Lock()
	c.onState = fn
	c.mu.Unlock()
}

// CreateGame writes a fresh session and subscribes to it. The caller still
// has to join as participant or spectator.
func (c *Client) CreateGame() string {
	c.bind(CreateGame(c.st))
	return c.db.GameID()
}

// JoinGame subscribes to an existing session.
func (c *Client) JoinGame(gameID string) error {
	db, err := OpenGame(c.st, gameID)
	if err != nil {
		return err
	}
	c.bind(db)
	return nil
}

func (c *Client) bind(db *DB) {
	c.db = db
	c.unwatch = db.Watch(c.onChange)
}

func (c *Client) onChange(snap Session) {
	c.mu.Lock()
	if snap.Phase == PhaseVoting && c.lastPhase != PhaseVoting {
		// new voting round, local rated-set starts over
		c.rated = make(map[string]bool)
	}
	c.lastPhase = snap.Phase
	handler := c.onState
	c.mu.Unlock()
	c.manageTimer(snap)
	if handler != nil {
		handler(snap)
	}
}

// JoinAsParticipant claims one of the up to three entrant slots. The cap
// check is a read-then-write against the replicated roster, like every
// other guard here: advisory, not store-enforced.
func (c *Client) JoinAsParticipant(name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", ErrEmptyName
	}
	snap, err := c.snapshot()
	if err != nil {
		return "", err
	}
	if len(snap.Entrants) >= MaxEntrants {
		return "", ErrGameFull
	}
	id := c.db.AddEntrant(name)
	c.mu.Lock()
	c.entrantID = id
	c.role = RoleParticipant
	c.mu.Unlock()
	c.log.Info().Str("game", c.db.GameID()).Str("entrant", id).Str("name", name).Msg("joined as participant")
	return id, nil
}

// JoinAsSpectator has no cap and creates no entrant.
func (c *Client) JoinAsSpectator() error {
	if c.db == nil {
		return ErrNotJoined
	}
	c.mu.Lock()
	c.role = RoleSpectator
	c.mu.Unlock()
	c.log.Info().Str("game", c.db.GameID()).Msg("joined as spectator")
	return nil
}

func (c *Client) GameID() string {
	if c.db == nil {
		return ""
	}
	return c.db.GameID()
}

func (c *Client) EntrantID() string {
	id, _ := c.identity()
	return id
}

func (c *Client) Role() Role {
	_, role := c.identity()
	return role
}

// identity snapshots the joined entrant ID and role. Both are read from
// other goroutines: the subscription callback runs on whichever goroutine
// performed the triggering store write.
func (c *Client) identity() (string, Role) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entrantID, c.role
}

// Session returns the latest snapshot of the shared record.
func (c *Client) Session() (Session, bool) {
	if c.db == nil {
		return Session{}, false
	}
	return c.db.Load()
}

// StartGame moves the lobby into the creating phase and arms the countdown
// with the configured prompt duration.
func (c *Client) StartGame() error {
	snap, err := c.snapshot()
	if err != nil {
		return err
	}
	if c.Role() != RoleParticipant {
		return ErrParticipantsOnly
	}
	if snap.Phase != PhaseLobby {
		return ErrInvalidPhase
	}
	if len(snap.Entrants) < MinEntrantsToStart {
		return ErrNotEnoughPlayers
	}
	c.db.UpdateGame(map[string]any{
		"phase":         string(PhaseCreating),
		"timeRemaining": snap.Settings.PromptTime,
	})
	c.log.Info().Str("game", c.db.GameID()).Int("promptTime", snap.Settings.PromptTime).Msg("game started")
	return nil
}

// UpdateSettings is allowed from any participant at any time; the values
// only take effect when they are copied into the countdown at the next
// lobby-to-creating transition.
func (c *Client) UpdateSettings(promptTime, votingTime int) error {
	if _, err := c.snapshot(); err != nil {
		return err
	}
	if c.Role() != RoleParticipant {
		return ErrParticipantsOnly
	}
	if promptTime <= 0 || votingTime <= 0 {
		return ErrInvalidSettings
	}
	c.db.UpdateSettings(map[string]any{
		"promptTime": promptTime,
		"votingTime": votingTime,
	})
	return nil
}

// GenerateChallenge asks the provider for a challenge text and publishes it
// on the session. A failed call leaves the session untouched.
func (c *Client) GenerateChallenge(ctx context.Context, category string) (string, error) {
	snap, err := c.snapshot()
	if err != nil {
		return "", err
	}
	if c.Role() != RoleParticipant {
		return "", ErrParticipantsOnly
	}
	if snap.Phase != PhaseLobby {
		return "", ErrInvalidPhase
	}
	if !ai.ValidCategory(category) {
		return "", ErrUnknownCategory
	}
	text, err := c.provider.GenerateChallenge(ctx, category)
	if err != nil {
		return "", err
	}
	c.db.UpdateGame(map[string]any{
		"challenge": text,
		"category":  category,
	})
	return text, nil
}

// GenerateImage turns this participant's prompt into an image and stores
// both on the own entrant record. On provider failure nothing is written,
// so the entrant stays "not ready" for the early-exit rule.
func (c *Client) GenerateImage(ctx context.Context, prompt string) (string, error) {
	snap, err := c.snapshot()
	if err != nil {
		return "", err
	}
	entrantID, role := c.identity()
	if role != RoleParticipant {
		return "", ErrParticipantsOnly
	}
	if snap.Phase != PhaseCreating {
		return "", ErrInvalidPhase
	}
	if strings.TrimSpace(prompt) == "" {
		return "", ErrEmptyPrompt
	}
	url, err := c.provider.GenerateImage(ctx, prompt)
	if err != nil {
		return "", err
	}
	c.db.UpdateEntrant(entrantID, map[string]any{
		"prompt":   prompt,
		"imageUrl": url,
	})
	c.log.Info().Str("game", c.db.GameID()).Str("entrant", entrantID).Msg("image generated")
	return url, nil
}

// SubmitRating folds a spectator's three star values into the target
// entrant's cumulative sums. Relevance is weighted double: the game rewards
// hitting the challenge over sheer breadth. The increment is
// read-current-then-write, so two raters hitting the same entrant in the
// same instant can lose one increment; that gap is accepted, see DESIGN.md.
func (c *Client) SubmitRating(entrantID string, variety, relevance, imagination int) error {
	snap, err := c.snapshot()
	if err != nil {
		return err
	}
	if c.Role() != RoleSpectator {
		return ErrSpectatorsOnly
	}
	if snap.Phase != PhaseVoting {
		return ErrInvalidPhase
	}
	if variety == 0 || relevance == 0 || imagination == 0 {
		return ErrIncompleteRating
	}
	if outOfRange(variety) || outOfRange(relevance) || outOfRange(imagination) {
		return ErrInvalidRating
	}
	target, ok := snap.Entrants[entrantID]
	if !ok {
		return ErrEntrantNotFound
	}
	points := variety + 2*relevance + imagination
	c.db.UpdateEntrant(entrantID, map[string]any{
		"votes":       target.Votes + points,
		"variety":     target.Variety + variety,
		"relevance":   target.Relevance + relevance,
		"imagination": target.Imagination + imagination,
	})
	c.mu.Lock()
	c.rated[entrantID] = true
	c.mu.Unlock()
	c.log.Info().Str("game", c.db.GameID()).Str("entrant", entrantID).Int("points", points).Msg("rating submitted")
	return nil
}

// RatedCount returns how many entrants this rater has covered in the
// current voting phase. Local-only state, never written to the session.
func (c *Client) RatedCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.rated)
}

// RatingDone reports whether this rater has covered every current entrant.
func (c *Client) RatingDone() bool {
	snap, err := c.snapshot()
	if err != nil || len(snap.Entrants) == 0 {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for id := range snap.Entrants {
		if !c.rated[id] {
			return false
		}
	}
	return true
}

// ResetGame re-enters the lobby. Entrant content and scores are cleared but
// the roster itself persists across rounds.
func (c *Client) ResetGame() error {
	snap, err := c.snapshot()
	if err != nil {
		return err
	}
	if c.Role() != RoleParticipant {
		return ErrParticipantsOnly
	}
	if snap.Phase != PhaseResults {
		return ErrInvalidPhase
	}
	c.db.UpdateGame(map[string]any{
		"phase":         string(PhaseLobby),
		"timeRemaining": 0,
	})
	updates := make(map[string]any, len(snap.Entrants)*6)
	for id := range snap.Entrants {
		updates[id+"/prompt"] = ""
		updates[id+"/imageUrl"] = ""
		updates[id+"/votes"] = 0
		updates[id+"/variety"] = 0
		updates[id+"/relevance"] = 0
		updates[id+"/imagination"] = 0
	}
	if len(updates) > 0 {
		c.db.UpdateEntrants(updates)
	}
	c.mu.Lock()
	c.rated = make(map[string]bool)
	c.mu.Unlock()
	c.log.Info().Str("game", c.db.GameID()).Msg("game reset")
	return nil
}

// Close detaches the client from the session and stops a running authority
// loop.
func (c *Client) Close() {
	c.mu.Lock()
	if c.stopTimer != nil {
		c.stopTimer()
		c.stopTimer = nil
	}
	unwatch := c.unwatch
	c.unwatch = nil
	c.mu.Unlock()
	if unwatch != nil {
		unwatch()
	}
}

func (c *Client) snapshot() (Session, error) {
	if c.db == nil {
		return Session{}, ErrNotJoined
	}
	snap, ok := c.db.Load()
	if !ok {
		return Session{}, ErrGameNotFound
	}
	return snap, nil
}

func outOfRange(stars int) bool {
	return stars < 1 || stars > 5
}
