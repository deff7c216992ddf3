package config

import "os"

type Config struct {
	Port           string
	PublicURL      string
	OpenAIKey      string
	OpenAIBaseURL  string
	ChallengeModel string
	ImageModel     string
	ImageSize      string
	ExportEnabled  bool
	ExportFile     string
}

func FromEnv() Config {
	c := Config{}
	c.Port = getenv("PORT", "8080")
	c.PublicURL = getenv("PUBLIC_URL", "http://localhost:"+c.Port)
	c.OpenAIKey = os.Getenv("OPENAI_API_KEY")
	c.OpenAIBaseURL = os.Getenv("OPENAI_BASE_URL")
	c.ChallengeModel = getenv("CHALLENGE_MODEL", "gpt-4")
	c.ImageModel = getenv("IMAGE_MODEL", "dall-e-3")
	c.ImageSize = getenv("IMAGE_SIZE", "1024x1024")
	c.ExportEnabled = getenv("EXPORT_ENABLED", "false") == "true"
	c.ExportFile = getenv("EXPORT_FILE", "./promptarena-results.txt")
	return c
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
