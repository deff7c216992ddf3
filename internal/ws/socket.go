package ws

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	socketio "github.com/googollee/go-socket.io"
	"github.com/promptarena/promptarena/internal/ai"
	"github.com/promptarena/promptarena/internal/config"
	"github.com/promptarena/promptarena/internal/game"
	"github.com/promptarena/promptarena/internal/store"
	"github.com/rs/zerolog/log"
)

// ConnCtx is the per-connection state. Each connection owns its own game
// client, so every participant independently runs the subscription and
// timer-authority logic against the shared store.
type ConnCtx struct {
	Client *game.Client
}

type Server struct {
	st       store.Store
	provider ai.Provider
	config   config.Config
}

func New(st store.Store, provider ai.Provider, cfg config.Config) *Server {
	return &Server{st: st, provider: provider, config: cfg}
}

// Mount attaches the Socket.IO server with handlers to the given Gin engine.
func (srv *Server) Mount(r *gin.Engine) *socketio.Server {
	io := socketio.NewServer(nil)

	io.OnConnect("/", func(s socketio.Conn) error {
		s.SetContext(&ConnCtx{})
		log.Info().Str("sid", s.ID()).Msg("socket connected")
		return nil
	})

	// game:create
	io.OnEvent("/", "game:create", func(s socketio.Conn) map[string]any {
		ctx := s.Context().(*ConnCtx)
		if ctx.Client != nil {
			ctx.Client.Close()
		}
		client := srv.newClient(s)
		gameID := client.CreateGame()
		ctx.Client = client
		log.Info().Str("sid", s.ID()).Str("game", gameID).Msg("game:create")
		return map[string]any{"gameId": gameID}
	})

	// game:join (participant)
	io.OnEvent("/", "game:join", func(s socketio.Conn, payload struct {
		GameID string `json:"gameId"`
		Name   string `json:"name"`
	}) map[string]any {
		ctx := s.Context().(*ConnCtx)
		if ctx.Client != nil {
			ctx.Client.Close()
		}
		client := srv.newClient(s)
		if err := client.JoinGame(payload.GameID); err != nil {
			client.Close()
			return srv.err(s, err)
		}
		entrantID, err := client.JoinAsParticipant(payload.Name)
		if err != nil {
			client.Close()
			return srv.err(s, err)
		}
		ctx.Client = client
		log.Info().Str("sid", s.ID()).Str("game", payload.GameID).Str("entrant", entrantID).Msg("game:join")
		return map[string]any{"gameId": payload.GameID, "playerId": entrantID}
	})

	// game:spectate
	io.OnEvent("/", "game:spectate", func(s socketio.Conn, payload struct {
		GameID string `json:"gameId"`
	}) map[string]any {
		ctx := s.Context().(*ConnCtx)
		if ctx.Client != nil {
			ctx.Client.Close()
		}
		client := srv.newClient(s)
		if err := client.JoinGame(payload.GameID); err != nil {
			client.Close()
			return srv.err(s, err)
		}
		if err := client.JoinAsSpectator(); err != nil {
			client.Close()
			return srv.err(s, err)
		}
		ctx.Client = client
		log.Info().Str("sid", s.ID()).Str("game", payload.GameID).Msg("game:spectate")
		return map[string]any{"gameId": payload.GameID}
	})

	// game:start
	io.OnEvent("/", "game:start", func(s socketio.Conn) map[string]any {
		client, resp := srv.client(s)
		if client == nil {
			return resp
		}
		if err := client.StartGame(); err != nil {
			return srv.err(s, err)
		}
		return map[string]any{"ok": true}
	})

	// game:settings
	io.OnEvent("/", "game:settings", func(s socketio.Conn, payload struct {
		PromptTime int `json:"promptTime"`
		VotingTime int `json:"votingTime"`
	}) map[string]any {
		client, resp := srv.client(s)
		if client == nil {
			return resp
		}
		if err := client.UpdateSettings(payload.PromptTime, payload.VotingTime); err != nil {
			return srv.err(s, err)
		}
		return map[string]any{"ok": true}
	})

	// game:challenge
	io.OnEvent("/", "game:challenge", func(s socketio.Conn, payload struct {
		Category string `json:"category"`
	}) map[string]any {
		client, resp := srv.client(s)
		if client == nil {
			return resp
		}
		text, err := client.GenerateChallenge(context.Background(), payload.Category)
		if err != nil {
			return srv.err(s, err)
		}
		return map[string]any{"challenge": text}
	})

	// game:image
	io.OnEvent("/", "game:image", func(s socketio.Conn, payload struct {
		Prompt string `json:"prompt"`
	}) map[string]any {
		client, resp := srv.client(s)
		if client == nil {
			return resp
		}
		url, err := client.GenerateImage(context.Background(), payload.Prompt)
		if err != nil {
			return srv.err(s, err)
		}
		return map[string]any{"imageUrl": url}
	})

	// game:rate
	io.OnEvent("/", "game:rate", func(s socketio.Conn, payload struct {
		PlayerID    string `json:"playerId"`
		Variety     int    `json:"variety"`
		Relevance   int    `json:"relevance"`
		Imagination int    `json:"imagination"`
	}) map[string]any {
		client, resp := srv.client(s)
		if client == nil {
			return resp
		}
		if err := client.SubmitRating(payload.PlayerID, payload.Variety, payload.Relevance, payload.Imagination); err != nil {
			return srv.err(s, err)
		}
		return map[string]any{"rated": client.RatedCount(), "done": client.RatingDone()}
	})

	// game:reset
	io.OnEvent("/", "game:reset", func(s socketio.Conn) map[string]any {
		client, resp := srv.client(s)
		if client == nil {
			return resp
		}
		if err := client.ResetGame(); err != nil {
			return srv.err(s, err)
		}
		return map[string]any{"ok": true}
	})

	io.OnError("/", func(s socketio.Conn, e error) {
		log.Error().Str("sid", s.ID()).Err(e).Msg("socket error")
	})
	io.OnDisconnect("/", func(s socketio.Conn, reason string) {
		if ctx, ok := s.Context().(*ConnCtx); ok && ctx.Client != nil {
			ctx.Client.Close()
			ctx.Client = nil
		}
		log.Info().Str("sid", s.ID()).Str("reason", reason).Msg("socket disconnected")
	})

	go io.Serve()

	r.GET("/socket.io/*any", gin.WrapH(io))
	r.POST("/socket.io/*any", gin.WrapH(io))

	// Basic CORS preflight for Socket.IO POST
	r.OPTIONS("/socket.io/*any", func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")
		c.Status(http.StatusNoContent)
	})

	return io
}

// newClient builds a game client wired to push personalized state to this
// connection on every session change.
func (srv *Server) newClient(s socketio.Conn) *game.Client {
	client := game.NewClient(srv.st, srv.provider)
	if srv.config.ExportEnabled {
		client.ExportFile = srv.config.ExportFile
	}
	client.OnState(func(snap game.Session) {
		srv.emitState(s, client, snap)
	})
	return client
}

func (srv *Server) client(s socketio.Conn) (*game.Client, map[string]any) {
	ctx, _ := s.Context().(*ConnCtx)
	if ctx == nil || ctx.Client == nil {
		return nil, srv.err(s, game.ErrNotJoined)
	}
	return ctx.Client, nil
}

// emitState sends a per-connection view of the session. Spectators see
// live prompt text during creating; participants only see their own prompt
// until results.
func (srv *Server) emitState(s socketio.Conn, client *game.Client, snap game.Session) {
	players := make([]map[string]any, 0, len(snap.Entrants))
	for _, e := range snap.EntrantList() {
		prompt := e.Prompt
		if snap.Phase != game.PhaseResults && client.Role() == game.RoleParticipant && e.ID != client.EntrantID() {
			prompt = ""
		}
		players = append(players, map[string]any{
			"id":          e.ID,
			"name":        e.Name,
			"prompt":      prompt,
			"imageUrl":    e.ImageURL,
			"votes":       e.Votes,
			"variety":     e.Variety,
			"relevance":   e.Relevance,
			"imagination": e.Imagination,
		})
	}
	payload := map[string]any{
		"gameId":        client.GameID(),
		"phase":         string(snap.Phase),
		"players":       players,
		"settings":      snap.Settings,
		"timeRemaining": snap.TimeRemaining,
		"challenge":     snap.Challenge,
		"category":      snap.Category,
		"you": map[string]any{
			"role":     string(client.Role()),
			"playerId": client.EntrantID(),
		},
	}
	if snap.Phase == game.PhaseResults {
		payload["standings"] = game.Standings(snap)
		payload["winners"] = game.Winners(snap)
	}
	s.Emit("game:state", payload)
}

func (srv *Server) err(s socketio.Conn, err error) map[string]any {
	code := errCode(err)
	s.Emit("game:error", map[string]any{"code": code, "message": err.Error()})
	return map[string]any{"error": err.Error(), "code": code}
}

func errCode(err error) string {
	switch {
	case errors.Is(err, game.ErrGameNotFound):
		return "game_not_found"
	case errors.Is(err, game.ErrGameFull):
		return "game_full"
	case errors.Is(err, game.ErrNotEnoughPlayers):
		return "not_enough_players"
	case errors.Is(err, game.ErrInvalidPhase):
		return "invalid_phase"
	case errors.Is(err, game.ErrIncompleteRating), errors.Is(err, game.ErrInvalidRating):
		return "invalid_rating"
	case errors.Is(err, game.ErrSpectatorsOnly), errors.Is(err, game.ErrParticipantsOnly):
		return "wrong_role"
	case errors.Is(err, game.ErrEmptyPrompt), errors.Is(err, game.ErrEmptyName):
		return "invalid_input"
	case errors.Is(err, game.ErrEntrantNotFound):
		return "entrant_not_found"
	case errors.Is(err, game.ErrUnknownCategory):
		return "unknown_category"
	case errors.Is(err, game.ErrNotJoined):
		return "not_joined"
	default:
		return "provider_error"
	}
}
