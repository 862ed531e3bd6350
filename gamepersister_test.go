package duoquiz

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestPersistAssignsOrderAndLinksFolder(t *testing.T) {
	ctx := context.Background()
	db := NewDB(NewMemStore())
	mustCreateFolder(t, db, "f1", "u1", "volcanoes")
	events := &recordingPublisher{}
	persister := NewGamePersister(db, events, nil)

	candidates := []ValidatedCandidate{
		validCandidate("First question?", "science"),
		validCandidate("Second question?", ""),
		validCandidate("Third question?", "soccer"),
	}
	games, err := persister.Persist(ctx, "f1", candidates, "u1", DifficultyHarder, nil)
	if err != nil {
		t.Fatalf("Persist: %v", err)
	}
	if len(games) != 3 {
		t.Fatalf("expected 3 games, got %d", len(games))
	}

	ids := make(map[string]bool)
	for i, g := range games {
		if g.Order != i+1 {
			t.Errorf("game %d: expected order %d, got %d", i, i+1, g.Order)
		}
		if g.FolderID != "f1" || g.CreatedBy != "u1" {
			t.Errorf("game %d: unexpected folder/creator %q/%q", i, g.FolderID, g.CreatedBy)
		}
		if g.Difficulty != "harder" {
			t.Errorf("game %d: expected difficulty recorded, got %q", i, g.Difficulty)
		}
		if ids[g.ID] {
			t.Errorf("duplicate game id %s", g.ID)
		}
		ids[g.ID] = true

		stored, err := db.GetGame(ctx, g.ID)
		if err != nil {
			t.Fatalf("GetGame(%s): %v", g.ID, err)
		}
		if stored.Question != g.Question {
			t.Errorf("stored question %q, want %q", stored.Question, g.Question)
		}
	}

	if len(games[0].Tags) != 1 || games[0].Tags[0] != "science" {
		t.Errorf("expected tags [science], got %v", games[0].Tags)
	}
	if len(games[1].Tags) != 0 {
		t.Errorf("expected no tags without a raw topic, got %v", games[1].Tags)
	}
	if games[2].Topic != "sports" || games[2].Tags[0] != "soccer" {
		t.Errorf("expected normalized topic with raw tag, got %q / %v", games[2].Topic, games[2].Tags)
	}

	folder, err := db.GetFolder(ctx, "f1")
	if err != nil {
		t.Fatalf("GetFolder: %v", err)
	}
	if len(folder.GameIDs) != 3 {
		t.Fatalf("expected 3 linked games, got %v", folder.GameIDs)
	}
	for _, id := range folder.GameIDs {
		if !ids[id] {
			t.Errorf("folder links unknown game %s", id)
		}
	}

	if got := events.ofType(EventGamesGenerated); len(got) != 1 || len(got[0].GameIDs) != 3 {
		t.Errorf("expected one games.generated event with 3 ids, got %v", got)
	}
}

func TestPersistTitleIsFirstThirtyCharacters(t *testing.T) {
	db := NewDB(NewMemStore())
	persister := NewGamePersister(db, nil, nil)

	long := strings.Repeat("é", 40) + "?"
	games, err := persister.Persist(context.Background(), NoFolder, []ValidatedCandidate{
		validCandidate(long, "art"),
		validCandidate("Short?", "art"),
	}, "u1", DifficultyNone, nil)
	if err != nil {
		t.Fatalf("Persist: %v", err)
	}
	if games[0].Title != strings.Repeat("é", 30) {
		t.Errorf("expected 30 character title, got %q", games[0].Title)
	}
	if games[1].Title != "Short?" {
		t.Errorf("expected short question as title, got %q", games[1].Title)
	}
}

func TestPersistWithoutFolderSkipsLink(t *testing.T) {
	store := &countingStore{DocumentStore: NewMemStore()}
	persister := NewGamePersister(NewDB(store), nil, nil)

	games, err := persister.Persist(context.Background(), NoFolder, []ValidatedCandidate{validCandidate("Q?", "art")}, "u1", DifficultyNone, nil)
	if err != nil {
		t.Fatalf("Persist: %v", err)
	}
	if games[0].FolderID != NoFolder {
		t.Errorf("expected folder %q, got %q", NoFolder, games[0].FolderID)
	}
	if store.addToSets != 0 {
		t.Errorf("expected no folder link writes, got %d", store.addToSets)
	}
}

func TestPersistLinkFailureKeepsGame(t *testing.T) {
	ctx := context.Background()
	mem := NewMemStore()
	db := NewDB(mem)
	mustCreateFolder(t, db, "f1", "u1", "")

	store := &countingStore{DocumentStore: mem, failAddToSet: true}
	events := &recordingPublisher{}
	persister := NewGamePersister(NewDB(store), events, nil)

	games, err := persister.Persist(ctx, "f1", []ValidatedCandidate{
		validCandidate("Q1?", "art"),
		validCandidate("Q2?", "art"),
	}, "u1", DifficultyNone, nil)
	if err != nil {
		t.Fatalf("a failed link must not fail the batch: %v", err)
	}
	if len(games) != 2 {
		t.Fatalf("expected both games returned, got %d", len(games))
	}

	for _, g := range games {
		if _, err := db.GetGame(ctx, g.ID); err != nil {
			t.Errorf("game %s should be stored: %v", g.ID, err)
		}
	}
	folder, _ := db.GetFolder(ctx, "f1")
	if len(folder.GameIDs) != 0 {
		t.Errorf("expected no links, got %v", folder.GameIDs)
	}
	if got := events.ofType(EventGameLinkFailed); len(got) != 2 {
		t.Errorf("expected 2 link failure events, got %d", len(got))
	}

	byFolder, err := db.GamesByFolder(ctx, "f1")
	if err != nil {
		t.Fatalf("GamesByFolder: %v", err)
	}
	if len(byFolder) != 2 {
		t.Errorf("reverse lookup should still find both games, got %d", len(byFolder))
	}
}

func TestPersistStopsOnGameWriteFailure(t *testing.T) {
	store := &countingStore{DocumentStore: NewMemStore(), failSetOn: CollectionGames, failSetAfter: 2}
	persister := NewGamePersister(NewDB(store), nil, nil)

	candidates := make([]ValidatedCandidate, 4)
	for i := range candidates {
		candidates[i] = validCandidate(fmt.Sprintf("Q%d?", i), "art")
	}
	games, err := persister.Persist(context.Background(), NoFolder, candidates, "u1", DifficultyNone, nil)
	if !errors.Is(err, errInjected) {
		t.Fatalf("expected the store error, got %v", err)
	}
	if len(games) != 2 {
		t.Errorf("expected the 2 games written before the failure, got %d", len(games))
	}
}

func TestPersistTwiceGrowsFolderByOneEach(t *testing.T) {
	ctx := context.Background()
	db := NewDB(NewMemStore())
	mustCreateFolder(t, db, "f1", "u1", "volcanoes")
	persister := NewGamePersister(db, nil, nil)

	var ids []string
	for i := range 2 {
		games, err := persister.Persist(ctx, "f1", []ValidatedCandidate{
			validCandidate(fmt.Sprintf("Question %d?", i), "science"),
		}, "u1", DifficultyNone, nil)
		if err != nil {
			t.Fatalf("Persist #%d: %v", i+1, err)
		}
		ids = append(ids, games[0].ID)

		folder, err := db.GetFolder(ctx, "f1")
		if err != nil {
			t.Fatalf("GetFolder: %v", err)
		}
		if len(folder.GameIDs) != i+1 {
			t.Fatalf("after call %d expected %d linked games, got %v", i+1, i+1, folder.GameIDs)
		}
		if fmt.Sprint(folder.GameIDs) != fmt.Sprint(ids) {
			t.Errorf("expected gameIds %v, got %v", ids, folder.GameIDs)
		}
	}
	if ids[0] == ids[1] {
		t.Errorf("expected distinct game ids, got %v", ids)
	}
}
