package game

import "testing"

func sessionWithVotes(votes map[string]int) Session {
	s := Session{Entrants: map[string]Entrant{}}
	for id, v := range votes {
		s.Entrants[id] = Entrant{ID: id, Name: "entrant " + id, Votes: v}
	}
	return s
}

func TestStandingsOrderedByVotes(t *testing.T) {
	s := sessionWithVotes(map[string]int{"a": 10, "b": 30, "c": 20})

	standings := Standings(s)
	if len(standings) != 3 {
		t.Fatalf("expected 3 standings, got %d", len(standings))
	}
	if standings[0].ID != "b" || standings[1].ID != "c" || standings[2].ID != "a" {
		t.Fatalf("wrong order: %s %s %s", standings[0].ID, standings[1].ID, standings[2].ID)
	}
	for i, want := range []int{1, 2, 3} {
		if standings[i].Rank != want {
			t.Fatalf("expected rank %d at position %d, got %d", want, i, standings[i].Rank)
		}
	}
}

func TestStandingsTiedEntrantsShareRank(t *testing.T) {
	// 50, 50, 30 ranks as 1, 1, 3
	s := sessionWithVotes(map[string]int{"a": 50, "b": 50, "c": 30})

	standings := Standings(s)
	if standings[0].Rank != 1 || standings[1].Rank != 1 {
		t.Fatalf("tied leaders should both rank 1, got %d and %d", standings[0].Rank, standings[1].Rank)
	}
	if standings[2].Rank != 3 {
		t.Fatalf("the tie skips rank 2, expected 3, got %d", standings[2].Rank)
	}
}

func TestStandingsStableForEqualVotes(t *testing.T) {
	// equal votes fall back to join order
	s := Session{Entrants: map[string]Entrant{
		"0002-second": {ID: "0002-second", Votes: 10},
		"0001-first":  {ID: "0001-first", Votes: 10},
	}}

	standings := Standings(s)
	if standings[0].ID != "0001-first" {
		t.Fatalf("expected the earlier joiner first, got %s", standings[0].ID)
	}
}

func TestStandingsEmptySession(t *testing.T) {
	if got := Standings(Session{}); len(got) != 0 {
		t.Fatalf("expected no standings, got %d", len(got))
	}
}

func TestWinnersSingle(t *testing.T) {
	s := sessionWithVotes(map[string]int{"a": 10, "b": 30, "c": 20})

	winners := Winners(s)
	if len(winners) != 1 || winners[0].ID != "b" {
		t.Fatalf("expected single winner b, got %v", winners)
	}
}

func TestWinnersTie(t *testing.T) {
	s := sessionWithVotes(map[string]int{"a": 50, "b": 50, "c": 30})

	winners := Winners(s)
	if len(winners) != 2 {
		t.Fatalf("expected two winners, got %d", len(winners))
	}
	for _, w := range winners {
		if w.Votes != 50 {
			t.Fatalf("winner %s has %d votes", w.ID, w.Votes)
		}
	}
}
