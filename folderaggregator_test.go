package duoquiz

import (
	"context"
	"testing"
	"time"
)

func TestGamesForFolderStrategiesAgreeWhenLinked(t *testing.T) {
	ctx := context.Background()
	db := NewDB(NewMemStore())
	folder := mustCreateFolder(t, db, "f1", "u1", "")

	persisted, err := NewGamePersister(db, nil, nil).Persist(ctx, "f1", []ValidatedCandidate{
		validCandidate("Q1?", "art"),
		validCandidate("Q2?", "art"),
		validCandidate("Q3?", "art"),
	}, "u1", DifficultyNone, nil)
	if err != nil {
		t.Fatalf("Persist: %v", err)
	}
	folder, err = db.GetFolder(ctx, folder.ID)
	if err != nil {
		t.Fatalf("GetFolder: %v", err)
	}

	agg := NewFolderAggregator(db, nil)
	owned, err := agg.GamesForFolder(ctx, folder, StrategyOwnedList)
	if err != nil {
		t.Fatalf("owned list: %v", err)
	}
	reverse, err := agg.GamesForFolder(ctx, folder, StrategyReverseLookup)
	if err != nil {
		t.Fatalf("reverse lookup: %v", err)
	}

	if len(owned) != 3 || len(reverse) != 3 {
		t.Fatalf("expected 3 games from both strategies, got %d and %d", len(owned), len(reverse))
	}
	for i := range persisted {
		if owned[i].ID != persisted[i].ID {
			t.Errorf("owned list position %d: expected %s, got %s", i, persisted[i].ID, owned[i].ID)
		}
		if reverse[i].ID != persisted[i].ID {
			t.Errorf("reverse lookup position %d: expected %s, got %s", i, persisted[i].ID, reverse[i].ID)
		}
	}
}

func TestGamesForFolderStrategiesDivergeOnMissingLink(t *testing.T) {
	ctx := context.Background()
	db := NewDB(NewMemStore())
	folder := mustCreateFolder(t, db, "f1", "u1", "")

	now := time.Now().UTC()
	linked := Game{ID: "linked", Order: 1, Question: "Linked?", FolderID: "f1", CreatedBy: "u1", CreatedAt: now}
	unlinked := Game{ID: "unlinked", Order: 2, Question: "Unlinked?", FolderID: "f1", CreatedBy: "u1", CreatedAt: now}
	for _, g := range []Game{linked, unlinked} {
		if err := db.CreateGame(ctx, &g); err != nil {
			t.Fatalf("CreateGame: %v", err)
		}
	}
	if err := db.LinkGames(ctx, "f1", "linked", "deleted-game"); err != nil {
		t.Fatalf("LinkGames: %v", err)
	}
	folder, _ = db.GetFolder(ctx, folder.ID)

	agg := NewFolderAggregator(db, nil)
	owned, err := agg.GamesForFolder(ctx, folder, StrategyOwnedList)
	if err != nil {
		t.Fatalf("owned list: %v", err)
	}
	if len(owned) != 1 || owned[0].ID != "linked" {
		t.Errorf("owned list should return only the linked game and skip the missing id, got %v", owned)
	}

	reverse, err := agg.GamesForFolder(ctx, folder, StrategyReverseLookup)
	if err != nil {
		t.Fatalf("reverse lookup: %v", err)
	}
	if len(reverse) != 2 || reverse[0].ID != "linked" || reverse[1].ID != "unlinked" {
		t.Errorf("reverse lookup should find both games ordered by order, got %v", reverse)
	}
}

func TestReverseLookupOrdersByCreationThenOrder(t *testing.T) {
	ctx := context.Background()
	db := NewDB(NewMemStore())
	folder := mustCreateFolder(t, db, "f1", "u1", "")

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	games := []Game{
		{ID: "a", Order: 1, FolderID: "f1", CreatedAt: base.Add(time.Hour)},
		{ID: "b", Order: 2, FolderID: "f1", CreatedAt: base},
		{ID: "c", Order: 1, FolderID: "f1", CreatedAt: base},
		{ID: "d", Order: 1, FolderID: "other", CreatedAt: base},
	}
	for _, g := range games {
		if err := db.CreateGame(ctx, &g); err != nil {
			t.Fatalf("CreateGame: %v", err)
		}
	}

	got, err := NewFolderAggregator(db, nil).GamesForFolder(ctx, folder, StrategyReverseLookup)
	if err != nil {
		t.Fatalf("GamesForFolder: %v", err)
	}
	want := []string{"c", "b", "a"}
	if len(got) != len(want) {
		t.Fatalf("expected %d games, got %d", len(want), len(got))
	}
	for i, id := range want {
		if got[i].ID != id {
			t.Errorf("position %d: expected %s, got %s", i, id, got[i].ID)
		}
	}
}

func TestParseStrategy(t *testing.T) {
	testCases := []struct {
		in      string
		want    Strategy
		wantErr bool
	}{
		{"", StrategyReverseLookup, false},
		{"reverse", StrategyReverseLookup, false},
		{"owned", StrategyOwnedList, false},
		{"both", "", true},
	}
	for _, tc := range testCases {
		got, err := ParseStrategy(tc.in)
		if (err != nil) != tc.wantErr || got != tc.want {
			t.Errorf("ParseStrategy(%q) = %q, %v", tc.in, got, err)
		}
	}
}
