package game

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
)

func TestTimerAuthorityIsLowestEntrantID(t *testing.T) {
	s := Session{Entrants: map[string]Entrant{
		"b-entrant": {ID: "b-entrant"},
		"a-entrant": {ID: "a-entrant"},
		"c-entrant": {ID: "c-entrant"},
	}}
	if got := s.TimerAuthority(); got != "a-entrant" {
		t.Fatalf("expected a-entrant, got %s", got)
	}

	if got := (Session{}).TimerAuthority(); got != "" {
		t.Fatalf("empty roster has no authority, got %q", got)
	}
}

func TestAuthorityIsEarliestJoiner(t *testing.T) {
	// push keys sort in creation order, so the first joiner holds the
	// lowest ID
	_, clients, _ := newLobby(t, "Alice", "Bob", "Charlie")
	snap, _ := clients[0].Session()
	if snap.TimerAuthority() != clients[0].EntrantID() {
		t.Fatalf("expected first joiner %s, got %s", clients[0].EntrantID(), snap.TimerAuthority())
	}
}

func TestShouldRunTimer(t *testing.T) {
	st, clients, gameID := newLobby(t, "Alice", "Bob")
	spec := newSpectator(t, st, gameID)

	lobby, _ := clients[0].Session()
	if clients[0].shouldRunTimer(lobby) {
		t.Fatal("no timer in lobby")
	}

	if err := clients[0].StartGame(); err != nil {
		t.Fatalf("start: %v", err)
	}
	creating, _ := clients[0].Session()
	if !clients[0].shouldRunTimer(creating) {
		t.Fatal("lowest-ID participant should run the timer in creating")
	}
	if clients[1].shouldRunTimer(creating) {
		t.Fatal("non-authority participant must not run the timer")
	}
	if spec.shouldRunTimer(creating) {
		t.Fatal("spectators never run the timer")
	}
}

func TestTickDecrementsCountdown(t *testing.T) {
	_, clients, _ := newLobby(t, "Alice", "Bob")
	if err := clients[0].StartGame(); err != nil {
		t.Fatalf("start: %v", err)
	}

	before, _ := clients[0].Session()
	clients[0].tick()
	after, _ := clients[0].Session()
	if after.TimeRemaining != before.TimeRemaining-1 {
		t.Fatalf("expected %d, got %d", before.TimeRemaining-1, after.TimeRemaining)
	}
	if after.Phase != PhaseCreating {
		t.Fatalf("phase must not change mid-countdown, got %s", after.Phase)
	}
}

func TestTickEarlyExitWhenAllImagesReady(t *testing.T) {
	_, clients, _ := newLobby(t, "Alice", "Bob")
	if err := clients[0].StartGame(); err != nil {
		t.Fatalf("start: %v", err)
	}
	for _, c := range clients {
		if _, err := c.GenerateImage(context.Background(), "something"); err != nil {
			t.Fatalf("generate image: %v", err)
		}
	}

	clients[0].tick()
	snap, _ := clients[0].Session()
	if snap.Phase != PhaseVoting {
		t.Fatalf("expected early exit to voting, got %s", snap.Phase)
	}
	if snap.TimeRemaining != snap.Settings.VotingTime {
		t.Fatalf("countdown must reset to voting time %d, got %d", snap.Settings.VotingTime, snap.TimeRemaining)
	}
}

func TestTickNoEarlyExitWhileAnImageIsMissing(t *testing.T) {
	_, clients, _ := newLobby(t, "Alice", "Bob")
	if err := clients[0].StartGame(); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := clients[0].GenerateImage(context.Background(), "something"); err != nil {
		t.Fatalf("generate image: %v", err)
	}

	clients[0].tick()
	snap, _ := clients[0].Session()
	if snap.Phase != PhaseCreating {
		t.Fatalf("one entrant is not ready, expected creating, got %s", snap.Phase)
	}
}

func TestTickCreatingToVotingAtZero(t *testing.T) {
	_, clients, _ := newLobby(t, "Alice", "Bob")
	if err := clients[0].StartGame(); err != nil {
		t.Fatalf("start: %v", err)
	}
	clients[0].db.UpdateGame(map[string]any{"timeRemaining": 1})

	clients[0].tick()
	snap, _ := clients[0].Session()
	if snap.Phase != PhaseVoting {
		t.Fatalf("expected voting, got %s", snap.Phase)
	}
	if snap.TimeRemaining != snap.Settings.VotingTime {
		t.Fatalf("expected voting countdown %d, got %d", snap.Settings.VotingTime, snap.TimeRemaining)
	}
}

func TestTickVotingToResultsAtZero(t *testing.T) {
	_, clients, _ := newLobby(t, "Alice", "Bob")
	startVoting(t, clients)
	clients[0].db.UpdateGame(map[string]any{"timeRemaining": 1})

	clients[0].tick()
	snap, _ := clients[0].Session()
	if snap.Phase != PhaseResults {
		t.Fatalf("expected results, got %s", snap.Phase)
	}
	if snap.TimeRemaining != 0 {
		t.Fatalf("expected countdown 0, got %d", snap.TimeRemaining)
	}
}

func TestTickNoEarlyExitFromVoting(t *testing.T) {
	// partial ratings are legitimate; voting always runs out the clock
	st, clients, gameID := newLobby(t, "Alice", "Bob")
	spec := newSpectator(t, st, gameID)
	startVoting(t, clients)
	for _, c := range clients {
		if err := spec.SubmitRating(c.EntrantID(), 5, 5, 5); err != nil {
			t.Fatalf("rate: %v", err)
		}
	}

	before, _ := clients[0].Session()
	clients[0].tick()
	after, _ := clients[0].Session()
	if after.Phase != PhaseVoting {
		t.Fatalf("voting must not end early, got %s", after.Phase)
	}
	if after.TimeRemaining != before.TimeRemaining-1 {
		t.Fatalf("expected decrement, got %d -> %d", before.TimeRemaining, after.TimeRemaining)
	}
}

func TestTickTransitionIdempotent(t *testing.T) {
	// two clients that both briefly believe they hold the authority
	// write the same transition target; the second write is a no-op
	// overwrite
	_, clients, _ := newLobby(t, "Alice", "Bob")
	if err := clients[0].StartGame(); err != nil {
		t.Fatalf("start: %v", err)
	}
	for _, c := range clients {
		if _, err := c.GenerateImage(context.Background(), "something"); err != nil {
			t.Fatalf("generate image: %v", err)
		}
	}

	ready, _ := clients[0].Session()
	clients[0].toVoting(ready)
	first, _ := clients[0].Session()
	clients[1].toVoting(ready)
	second, _ := clients[0].Session()

	if first.Phase != PhaseVoting || second.Phase != PhaseVoting {
		t.Fatalf("expected voting after both writes, got %s then %s", first.Phase, second.Phase)
	}
	if second.TimeRemaining != first.TimeRemaining {
		t.Fatalf("duplicate transition must not re-arm the countdown: %d vs %d", first.TimeRemaining, second.TimeRemaining)
	}
}

func TestTickNoopForNonAuthority(t *testing.T) {
	_, clients, _ := newLobby(t, "Alice", "Bob")
	if err := clients[0].StartGame(); err != nil {
		t.Fatalf("start: %v", err)
	}

	before, _ := clients[1].Session()
	clients[1].tick()
	after, _ := clients[1].Session()
	if after.TimeRemaining != before.TimeRemaining || after.Phase != before.Phase {
		t.Fatal("non-authority tick must not write")
	}
}

func TestTimerLoopStartsAndStopsWithPhase(t *testing.T) {
	_, clients, _ := newLobby(t, "Alice", "Bob")
	authority := clients[0]

	hasLoop := func() bool {
		authority.mu.Lock()
		defer authority.mu.Unlock()
		return authority.stopTimer != nil
	}

	if hasLoop() {
		t.Fatal("no loop in lobby")
	}
	if err := authority.StartGame(); err != nil {
		t.Fatalf("start: %v", err)
	}
	if !hasLoop() {
		t.Fatal("authority loop should run in creating")
	}
	if hasLoop2 := func() bool {
		clients[1].mu.Lock()
		defer clients[1].mu.Unlock()
		return clients[1].stopTimer != nil
	}(); hasLoop2 {
		t.Fatal("non-authority client must not run a loop")
	}

	authority.db.UpdateGame(map[string]any{"phase": string(PhaseResults), "timeRemaining": 0})
	if hasLoop() {
		t.Fatal("loop must self-cancel when the phase leaves creating/voting")
	}
}

func TestTimerLoopTicksOnFakeClock(t *testing.T) {
	_, clients, _ := newLobby(t, "Alice", "Bob")
	authority := clients[0]
	fc := authority.clock.(*clockwork.FakeClock)

	if err := authority.StartGame(); err != nil {
		t.Fatalf("start: %v", err)
	}
	before, _ := authority.Session()

	fc.BlockUntil(1)
	fc.Advance(time.Second)

	deadline := time.Now().Add(2 * time.Second)
	for {
		snap, _ := authority.Session()
		if snap.TimeRemaining == before.TimeRemaining-1 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("expected countdown %d, still %d", before.TimeRemaining-1, snap.TimeRemaining)
		}
		time.Sleep(5 * time.Millisecond)
	}
}
