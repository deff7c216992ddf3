package game

import (
	"context"
	"time"
)

// TimerAuthority returns the entrant ID whose client is responsible for
// driving the countdown: the lexicographically smallest ID currently in
// the roster. Every client recomputes this from its own replicated roster
// view on every change, so no election messages exist. Brief windows where
// two clients both believe they hold it are tolerated; their writes target
// the same values.
func (s Session) TimerAuthority() string {
	ids := s.EntrantIDs()
	if len(ids) == 0 {
		return ""
	}
	return ids[0]
}

func (c *Client) shouldRunTimer(s Session) bool {
	entrantID, role := c.identity()
	if role != RoleParticipant || entrantID == "" {
		return false
	}
	if s.Phase != PhaseCreating && s.Phase != PhaseVoting {
		return false
	}
	return s.TimerAuthority() == entrantID
}

// manageTimer starts or stops the advancement loop as this client's
// authority status changes with the observed snapshot.
func (c *Client) manageTimer(s Session) {
	should := c.shouldRunTimer(s)
	c.mu.Lock()
	defer c.mu.Unlock()
	switch {
	case should && c.stopTimer == nil:
		ctx, cancel := context.WithCancel(context.Background())
		c.stopTimer = cancel
		go c.runTimer(ctx)
		c.log.Info().Str("game", c.db.GameID()).Str("entrant", c.entrantID).Msg("timer authority acquired")
	case !should && c.stopTimer != nil:
		c.stopTimer()
		c.stopTimer = nil
	}
}

func (c *Client) runTimer(ctx context.Context) {
	ticker := c.clock.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			c.tick()
		}
	}
}

// tick reads the latest session record and advances it one step. It
// re-checks authority against the freshest snapshot first; at worst a
// stale authority repeats a write with identical target values.
func (c *Client) tick() {
	snap, ok := c.db.Load()
	if !ok || !c.shouldRunTimer(snap) {
		return
	}
	if snap.Phase == PhaseCreating && snap.AllImagesReady() {
		// everyone is done, no point waiting out the clock
		c.toVoting(snap)
		return
	}
	remaining := snap.TimeRemaining - 1
	if remaining <= 0 {
		switch snap.Phase {
		case PhaseCreating:
			c.toVoting(snap)
		case PhaseVoting:
			c.toResults(snap)
		}
		return
	}
	c.db.UpdateGame(map[string]any{"timeRemaining": remaining})
}

func (c *Client) toVoting(snap Session) {
	c.db.UpdateGame(map[string]any{
		"phase":         string(PhaseVoting),
		"timeRemaining": snap.Settings.VotingTime,
	})
	c.log.Info().Str("game", c.db.GameID()).Msg("creating -> voting")
}

func (c *Client) toResults(snap Session) {
	c.db.UpdateGame(map[string]any{
		"phase":         string(PhaseResults),
		"timeRemaining": 0,
	})
	c.log.Info().Str("game", c.db.GameID()).Msg("voting -> results")
	if c.ExportFile != "" {
		if final, ok := c.db.Load(); ok {
			if err := ExportResults(final, c.db.GameID(), c.ExportFile); err != nil {
				c.log.Error().Err(err).Str("file", c.ExportFile).Msg("failed to export results")
			}
		}
	}
}
