package session

import "testing"

func TestRankings_EmptyPlayers(t *testing.T) {
	got := Rankings(Session{Games: []GameRecord{{Game: "Chess", Winner: "ghost"}}})
	if len(got) != 0 {
		t.Fatalf("want empty rankings, got %v", got)
	}
}

func TestRankings_NoGames(t *testing.T) {
	got := Rankings(Session{Players: []string{"A", "B"}})
	if len(got) != 2 {
		t.Fatalf("want 2 stats, got %d", len(got))
	}
	for i, st := range got {
		if st.Wins != 0 || st.TotalGames != 0 || st.WinRate != 0 {
			t.Fatalf("want zeroed stats, got %+v", st)
		}
		if st.Rank != i+1 {
			t.Fatalf("want rank %d, got %d", i+1, st.Rank)
		}
	}
	// Stable: input order preserved on full tie.
	if got[0].Name != "A" || got[1].Name != "B" {
		t.Fatalf("tie must keep input order, got %q %q", got[0].Name, got[1].Name)
	}
}

func TestRankings_SortAndMedals(t *testing.T) {
	s := Session{
		Players: []string{"Ana", "Ben", "Cid", "Dee"},
		Games: []GameRecord{
			{Game: "Catan", Winner: "Cid"},
			{Game: "Catan", Winner: "Cid"},
			{Game: "Chess", Winner: "Ana"},
			{Game: "Uno", Winner: "Ben"},
		},
	}

	got := Rankings(s)
	if len(got) != len(s.Players) {
		t.Fatalf("want %d stats, got %d", len(s.Players), len(got))
	}

	wantOrder := []string{"Cid", "Ana", "Ben", "Dee"}
	wantMedals := []Medal{MedalGold, MedalSilver, MedalBronze, MedalNone}
	for i, st := range got {
		if st.Name != wantOrder[i] {
			t.Fatalf("position %d: want %q, got %q", i, wantOrder[i], st.Name)
		}
		if st.Medal != wantMedals[i] {
			t.Fatalf("%s: want medal %q, got %q", st.Name, wantMedals[i], st.Medal)
		}
		if st.Rank != i+1 {
			t.Fatalf("%s: want rank %d, got %d", st.Name, i+1, st.Rank)
		}
		if st.TotalGames != 4 {
			t.Fatalf("%s: denominator is the session-wide game count, got %d", st.Name, st.TotalGames)
		}
	}

	// Non-increasing by (wins, winRate).
	for i := 1; i < len(got); i++ {
		prev, cur := got[i-1], got[i]
		if cur.Wins > prev.Wins || (cur.Wins == prev.Wins && cur.WinRate > prev.WinRate) {
			t.Fatalf("not sorted at %d: %+v before %+v", i, prev, cur)
		}
	}

	if got[0].WinRate != 50 {
		t.Fatalf("Cid: want 50%% of 4 games, got %v", got[0].WinRate)
	}
}
