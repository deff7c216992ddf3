package game

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ExportResults appends the final standings of a finished game to a text
// file.
func ExportResults(s Session, gameID, filename string) error {
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Prompt Battle Arena - Game %s\n", gameID))
	sb.WriteString(fmt.Sprintf("Finished: %s\n", time.Now().Format("2006-01-02 15:04:05")))
	if s.Challenge != "" {
		sb.WriteString(fmt.Sprintf("Challenge (%s): %s\n", s.Category, s.Challenge))
	}
	sb.WriteString(strings.Repeat("=", 50) + "\n")

	for _, st := range Standings(s) {
		sb.WriteString(fmt.Sprintf("%d. %s - %d points (variety %d, relevance %d, imagination %d)\n",
			st.Rank, st.Name, st.Votes, st.Variety, st.Relevance, st.Imagination))
		sb.WriteString(fmt.Sprintf("   prompt: %q\n", st.Prompt))
	}
	sb.WriteString("\n")

	if _, err := file.WriteString(sb.String()); err != nil {
		return fmt.Errorf("failed to write to file: %w", err)
	}
	return nil
}
