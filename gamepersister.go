package duoquiz

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TitleLength is the number of characters of the question used as a game title
const TitleLength = 30

// GamePersister turns validated candidates into stored games and links them to
// their folder.
//
// Each game takes two writes: the game document, then a set union of its id
// into the folder's gameIds. They are not transactional. If the second write
// fails the game stays stored without its folder link; this is logged, counted
// and published, and left to the Reconciler. It is never retried in-call.
type GamePersister struct {
	db     *DB
	events Publisher
	log    *Logger

	now   func() time.Time
	newID func() string
}

func NewGamePersister(db *DB, events Publisher, logger *Logger) *GamePersister {
	if events == nil {
		events = NopPublisher{}
	}
	return &GamePersister{
		db:     db,
		events: events,
		log:    orNop(logger),
		now:    func() time.Time { return time.Now().UTC() },
		newID:  uuid.NewString,
	}
}

// Persist stores the candidates in order as games 1..n of folderID (or of no
// folder when folderID is NoFolder). It returns the games stored; if a game
// write fails it stops and returns the games stored so far with the error.
func (gp *GamePersister) Persist(ctx context.Context, folderID string, candidates []ValidatedCandidate, requesterID string, difficulty Difficulty, transcript *LLMLogger) ([]Game, error) {
	games := make([]Game, 0, len(candidates))
	for i, vc := range candidates {
		game, err := gp.PersistGame(ctx, folderID, i+1, vc, requesterID, difficulty, transcript)
		if err != nil {
			return games, err
		}
		games = append(games, game)
	}

	if len(games) > 0 {
		ids := make([]string, len(games))
		for i, g := range games {
			ids[i] = g.ID
		}
		publish(ctx, gp.events, gp.log, Event{
			EventType: EventGamesGenerated,
			UserID:    requesterID,
			FolderID:  folderID,
			GameIDs:   ids,
		})
	}
	return games, nil
}

// PersistGame stores a single game at the given order and links it to its folder
func (gp *GamePersister) PersistGame(ctx context.Context, folderID string, order int, vc ValidatedCandidate, requesterID string, difficulty Difficulty, transcript *LLMLogger) (Game, error) {
	game := Game{
		ID:            gp.newID(),
		Order:         order,
		Title:         gameTitle(vc.Question),
		Question:      vc.Question,
		Options:       vc.Options,
		CorrectAnswer: vc.CorrectAnswer,
		Explanation:   vc.Explanation,
		Topic:         vc.Topic,
		Tags:          []string{},
		CreatedBy:     requesterID,
		CreatedAt:     gp.now(),
		FolderID:      folderID,
		Difficulty:    string(difficulty),
	}
	if vc.RawTopic != "" {
		game.Tags = []string{vc.RawTopic}
	}

	if err := gp.db.CreateGame(ctx, &game); err != nil {
		return Game{}, fmt.Errorf("game #%d: %w", order, err)
	}
	gamesPersisted.Inc()

	linked := true
	if folderID != NoFolder {
		if err := gp.db.LinkGames(ctx, folderID, game.ID); err != nil {
			linked = false
			folderLinkFailures.Inc()
			gp.log.Warn("partial persistence: game stored without folder link",
				"game_id", game.ID, "folder_id", folderID, "order", order, "error", err)
			publish(ctx, gp.events, gp.log, Event{
				EventType: EventGameLinkFailed,
				UserID:    requesterID,
				FolderID:  folderID,
				GameIDs:   []string{game.ID},
				Detail:    err.Error(),
			})
		}
	}

	if transcript != nil {
		transcript.LogPersisted(game.ID, order, linked)
	}
	return game, nil
}

func gameTitle(question string) string {
	runes := []rune(question)
	if len(runes) > TitleLength {
		return string(runes[:TitleLength])
	}
	return question
}
