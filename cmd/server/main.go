package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/promptarena/promptarena/internal/ai"
	"github.com/promptarena/promptarena/internal/ai/openai"
	"github.com/promptarena/promptarena/internal/config"
	"github.com/promptarena/promptarena/internal/game"
	"github.com/promptarena/promptarena/internal/store"
	"github.com/promptarena/promptarena/internal/ws"
	"github.com/rs/zerolog"
	zerologlog "github.com/rs/zerolog/log"
	qrcode "github.com/skip2/go-qrcode"
)

const version = "v1.0.0-dev"

func main() {
	var (
		showHelp    = flag.Bool("help", false, "Show help message")
		showVersion = flag.Bool("version", false, "Show version information")
		portFlag    = flag.String("port", "", "Port to listen on (overrides PORT env var)")
	)
	flag.BoolVar(showHelp, "h", false, "Show help message (shorthand)")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	flag.Parse()

	if *showHelp {
		fmt.Printf(`Prompt Battle Arena - AI image party game

Usage: %s [options]

Options:
  -h, --help      Show this help message
  -v, --version   Show version information
  --port PORT     Port to listen on (default: 8080 or PORT env var)

Environment Variables:
  PORT                Port to listen on (default: 8080)
  PUBLIC_URL          Base URL used in join links and QR codes
  OPENAI_API_KEY      OpenAI API key (required for challenge/image generation)
  OPENAI_BASE_URL     Custom OpenAI API base URL (optional)
  CHALLENGE_MODEL     Chat model for challenge generation (default: gpt-4)
  IMAGE_MODEL         Image model (default: dall-e-3)
  IMAGE_SIZE          Generated image size (default: 1024x1024)
  EXPORT_ENABLED      Export final standings to file (default: false)
  EXPORT_FILE         Path for exported standings (default: ./promptarena-results.txt)

Examples:
  %s                  Start server with default settings
  %s --port 3000      Start server on port 3000

Visit http://localhost:8080 after starting the server.
`, os.Args[0], os.Args[0], os.Args[0])
		return
	}

	if *showVersion {
		fmt.Printf("Prompt Battle Arena %s\n", version)
		return
	}

	// .env is optional
	_ = godotenv.Load()

	// Determine port
	port := *portFlag
	if port == "" {
		port = os.Getenv("PORT")
	}
	if port == "" {
		port = "8080"
	}

	// zerolog setup (human-friendly console)
	zerolog.TimeFieldFormat = time.RFC3339
	cw := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	zerologlog.Logger = zerologlog.Output(cw)

	// Gin setup with custom logger (skip /socket.io noise)
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()
		path := c.Request.URL.Path
		if strings.HasPrefix(path, "/socket.io") {
			return
		}
		status := c.Writer.Status()
		dur := time.Since(start)
		zerologlog.Info().Str("path", path).Int("status", status).Dur("dur", dur).Msg("http")
	})

	// Healthcheck
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true, "time": time.Now().UTC()})
	})

	// Config
	cfg := config.FromEnv()

	// Shared document store + provider + socket surface
	st := store.NewMemory()
	provider := openai.New(cfg.OpenAIKey, cfg.OpenAIBaseURL)
	provider.ChallengeModel = cfg.ChallengeModel
	provider.ImageModel = cfg.ImageModel
	provider.ImageSize = cfg.ImageSize

	sock := ws.New(st, provider, cfg)
	io := sock.Mount(r)
	defer io.Close()

	// Existence check for the join flow
	r.GET("/api/game/:id", func(c *gin.Context) {
		db, err := game.OpenGame(st, c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "game_not_found"})
			return
		}
		snap, _ := db.Load()
		c.JSON(http.StatusOK, gin.H{"gameId": db.GameID(), "phase": string(snap.Phase)})
	})

	// QR code for the join link
	r.GET("/api/game/:id/qr", func(c *gin.Context) {
		id := c.Param("id")
		if _, err := game.OpenGame(st, id); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "game_not_found"})
			return
		}
		link := cfg.PublicURL + "/?game=" + id
		png, err := qrcode.Encode(link, qrcode.Medium, 256)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "qr_failed"})
			return
		}
		c.Data(http.StatusOK, "image/png", png)
	})

	// Challenge categories for the lobby UI
	r.GET("/api/categories", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"categories": ai.Categories()})
	})

	// Count of games that reached results
	r.GET("/api/stats", func(c *gin.Context) {
		completed := 0
		if v, ok := st.Get("games"); ok {
			if games, ok := v.(map[string]any); ok {
				for _, g := range games {
					if node, ok := g.(map[string]any); ok && node["phase"] == string(game.PhaseResults) {
						completed++
					}
				}
			}
		}
		c.JSON(http.StatusOK, gin.H{"completedGames": completed})
	})

	log.Printf("listening on :%s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}
