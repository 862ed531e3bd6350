package duoquiz

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"
)

// Strategy selects how the games of a folder are found
type Strategy string

const (
	// StrategyOwnedList looks up every id in the folder's gameIds
	StrategyOwnedList Strategy = "owned"
	// StrategyReverseLookup queries games whose folderId is the folder
	StrategyReverseLookup Strategy = "reverse"
)

// ParseStrategy accepts "owned", "reverse" or "" (reverse lookup)
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case "", StrategyReverseLookup:
		return StrategyReverseLookup, nil
	case StrategyOwnedList:
		return StrategyOwnedList, nil
	}
	return "", fmt.Errorf("unknown strategy %q", s)
}

// lookupConcurrency bounds the point lookups of the owned-list strategy
const lookupConcurrency = 8

// FolderAggregator returns a folder together with its games. The two
// strategies agree only when no link write has failed; they are not
// reconciled here.
type FolderAggregator struct {
	db  *DB
	log *Logger
}

func NewFolderAggregator(db *DB, logger *Logger) *FolderAggregator {
	return &FolderAggregator{db: db, log: orNop(logger)}
}

// GamesForFolder returns the folder's games using the given strategy
func (fa *FolderAggregator) GamesForFolder(ctx context.Context, folder *Folder, strategy Strategy) ([]Game, error) {
	switch strategy {
	case StrategyOwnedList:
		return fa.ownedList(ctx, folder)
	case StrategyReverseLookup, "":
		return fa.reverseLookup(ctx, folder)
	}
	return nil, fmt.Errorf("unknown strategy %q", strategy)
}

// ownedList resolves gameIds in order. Ids whose game no longer exists are
// skipped.
func (fa *FolderAggregator) ownedList(ctx context.Context, folder *Folder) ([]Game, error) {
	slots := make([]*Game, len(folder.GameIDs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(lookupConcurrency)
	for i, id := range folder.GameIDs {
		g.Go(func() error {
			game, err := fa.db.GetGame(gctx, id)
			if errors.Is(err, ErrNotFound) {
				fa.log.Warn("folder references a missing game", "folder_id", folder.ID, "game_id", id)
				return nil
			}
			if err != nil {
				return err
			}
			slots[i] = game
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	games := make([]Game, 0, len(slots))
	for _, game := range slots {
		if game != nil {
			games = append(games, *game)
		}
	}
	return games, nil
}

func (fa *FolderAggregator) reverseLookup(ctx context.Context, folder *Folder) ([]Game, error) {
	games, err := fa.db.GamesByFolder(ctx, folder.ID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(games, func(i, j int) bool {
		if !games[i].CreatedAt.Equal(games[j].CreatedAt) {
			return games[i].CreatedAt.Before(games[j].CreatedAt)
		}
		return games[i].Order < games[j].Order
	})
	return games, nil
}
