package ai

import "context"

// Provider generates the round challenge and the entrants' images. Errors
// pass through to the initiating user unchanged; no retries happen here.
type Provider interface {
	GenerateChallenge(ctx context.Context, category string) (string, error)
	GenerateImage(ctx context.Context, prompt string) (string, error)
}
