package game

func decodeSession(v any) Session {
	node, _ := v.(map[string]any)
	s := Session{
		Phase:         Phase(asString(node["phase"])),
		Entrants:      make(map[string]Entrant),
		TimeRemaining: asInt(node["timeRemaining"]),
		StartTime:     asInt64(node["startTime"]),
		Challenge:     asString(node["challenge"]),
		Category:      asString(node["category"]),
	}
	if cfg, ok := node["settings"].(map[string]any); ok {
		s.Settings = Settings{
			PromptTime: asInt(cfg["promptTime"]),
			VotingTime: asInt(cfg["votingTime"]),
		}
	}
	if players, ok := node["players"].(map[string]any); ok {
		for id, pv := range players {
			s.Entrants[id] = decodeEntrant(id, pv)
		}
	}
	return s
}

func decodeEntrant(id string, v any) Entrant {
	node, _ := v.(map[string]any)
	return Entrant{
		ID:          id,
		Name:        asString(node["name"]),
		Prompt:      asString(node["prompt"]),
		ImageURL:    asString(node["imageUrl"]),
		Votes:       asInt(node["votes"]),
		Variety:     asInt(node["variety"]),
		Relevance:   asInt(node["relevance"]),
		Imagination: asInt(node["imagination"]),
	}
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	}
	return 0
}

func asInt64(v any) int64 {
	switch n := v.(type) {
	case int:
		return int64(n)
	case int64:
		return n
	case float64:
		return int64(n)
	}
	return 0
}
