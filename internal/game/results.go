package game

import "sort"

// Standing pairs an entrant with its competition rank.
type Standing struct {
	Entrant
	Rank int `json:"rank"`
}

// Standings sorts entrants by total points descending and assigns
// competition ("1224") ranks: tied scores share a rank, and each rank is
// one plus the number of entrants with a strictly greater total. Computed
// at render time, never stored.
func Standings(s Session) []Standing {
	list := s.EntrantList()
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Votes > list[j].Votes
	})
	out := make([]Standing, len(list))
	for i, e := range list {
		rank := 1
		for j := 0; j < i; j++ {
			if list[j].Votes > e.Votes {
				rank++
			}
		}
		out[i] = Standing{Entrant: e, Rank: rank}
	}
	return out
}

// Winners returns every entrant holding rank 1; ties produce several.
func Winners(s Session) []Standing {
	var out []Standing
	for _, st := range Standings(s) {
		if st.Rank != 1 {
			break
		}
		out = append(out, st)
	}
	return out
}
