package duoquiz

import (
	"context"
	"errors"
	"fmt"
)

// DB gives typed access to the users, folders, games and progress collections
// of a DocumentStore.
type DB struct {
	docs DocumentStore
}

func NewDB(docs DocumentStore) *DB {
	return &DB{docs: docs}
}

// Store returns the underlying document store
func (db *DB) Store() DocumentStore {
	return db.docs
}

// CreateFolder stores a new folder. gameIds is always stored as an array so
// that set unions can be applied to it.
func (db *DB) CreateFolder(ctx context.Context, folder *Folder) error {
	if folder.GameIDs == nil {
		folder.GameIDs = []string{}
	}
	if err := db.docs.Set(ctx, CollectionFolders, folder.ID, folder); err != nil {
		return fmt.Errorf("failed to create folder: %w", err)
	}
	return nil
}

// GetFolder retrieves a folder by ID
func (db *DB) GetFolder(ctx context.Context, id string) (*Folder, error) {
	var folder Folder
	if err := db.docs.Get(ctx, CollectionFolders, id, &folder); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("folder %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get folder: %w", err)
	}
	return &folder, nil
}

// GetOwnedFolder retrieves a folder and checks that userID created it
func (db *DB) GetOwnedFolder(ctx context.Context, id, userID string) (*Folder, error) {
	folder, err := db.GetFolder(ctx, id)
	if err != nil {
		return nil, err
	}
	if folder.CreatedBy != userID {
		return nil, fmt.Errorf("folder %s: %w", id, ErrForbidden)
	}
	return folder, nil
}

// FoldersByCreator lists the folders a user created
func (db *DB) FoldersByCreator(ctx context.Context, userID string) ([]Folder, error) {
	var folders []Folder
	if err := db.docs.Find(ctx, CollectionFolders, Filter{"createdBy": userID}, &folders); err != nil {
		return nil, fmt.Errorf("failed to list folders: %w", err)
	}
	return folders, nil
}

// AllFolders lists every folder in the store
func (db *DB) AllFolders(ctx context.Context) ([]Folder, error) {
	var folders []Folder
	if err := db.docs.Find(ctx, CollectionFolders, nil, &folders); err != nil {
		return nil, fmt.Errorf("failed to list folders: %w", err)
	}
	return folders, nil
}

// LinkGames unions game ids into the folder's gameIds
func (db *DB) LinkGames(ctx context.Context, folderID string, gameIDs ...string) error {
	if err := db.docs.AddToSet(ctx, CollectionFolders, folderID, "gameIds", gameIDs...); err != nil {
		return fmt.Errorf("failed to link games to folder %s: %w", folderID, err)
	}
	return nil
}

// DeleteFolder deletes a folder and every game that belongs to it, found both
// through its gameIds and through the games' folderId. Games go first so a
// failure leaves the folder in place for a retry.
func (db *DB) DeleteFolder(ctx context.Context, folder *Folder) (int, error) {
	owned, err := db.GamesByFolder(ctx, folder.ID)
	if err != nil {
		return 0, err
	}

	ids := make(map[string]bool, len(owned)+len(folder.GameIDs))
	for _, g := range owned {
		ids[g.ID] = true
	}
	for _, id := range folder.GameIDs {
		ids[id] = true
	}

	deleted := 0
	for id := range ids {
		if err := db.docs.Delete(ctx, CollectionGames, id); err != nil {
			return deleted, fmt.Errorf("failed to delete game %s: %w", id, err)
		}
		deleted++
	}

	if err := db.docs.Delete(ctx, CollectionFolders, folder.ID); err != nil {
		return deleted, fmt.Errorf("failed to delete folder: %w", err)
	}
	return deleted, nil
}

// CreateGame stores a new game document
func (db *DB) CreateGame(ctx context.Context, game *Game) error {
	if game.Tags == nil {
		game.Tags = []string{}
	}
	if err := db.docs.Set(ctx, CollectionGames, game.ID, game); err != nil {
		return fmt.Errorf("failed to create game: %w", err)
	}
	return nil
}

// GetGame retrieves a game by ID
func (db *DB) GetGame(ctx context.Context, id string) (*Game, error) {
	var game Game
	if err := db.docs.Get(ctx, CollectionGames, id, &game); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("game %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get game: %w", err)
	}
	return &game, nil
}

// GetOwnedGame retrieves a game and checks that userID created it
func (db *DB) GetOwnedGame(ctx context.Context, id, userID string) (*Game, error) {
	game, err := db.GetGame(ctx, id)
	if err != nil {
		return nil, err
	}
	if game.CreatedBy != userID {
		return nil, fmt.Errorf("game %s: %w", id, ErrForbidden)
	}
	return game, nil
}

// GamesByCreator lists every game a user created
func (db *DB) GamesByCreator(ctx context.Context, userID string) ([]Game, error) {
	return db.findGames(ctx, Filter{"createdBy": userID})
}

// GamesByFolder finds games through their folderId field
func (db *DB) GamesByFolder(ctx context.Context, folderID string) ([]Game, error) {
	return db.findGames(ctx, Filter{"folderId": folderID})
}

// GamesByFolderAndCreator finds the games of a folder that userID created
func (db *DB) GamesByFolderAndCreator(ctx context.Context, folderID, userID string) ([]Game, error) {
	return db.findGames(ctx, Filter{"folderId": folderID, "createdBy": userID})
}

func (db *DB) findGames(ctx context.Context, filter Filter) ([]Game, error) {
	var games []Game
	if err := db.docs.Find(ctx, CollectionGames, filter, &games); err != nil {
		return nil, fmt.Errorf("failed to get games: %w", err)
	}
	return games, nil
}

// CreateUser stores a new user
func (db *DB) CreateUser(ctx context.Context, user *User) error {
	if user.Interests == nil {
		user.Interests = []string{}
	}
	if user.PlayedGameIDs == nil {
		user.PlayedGameIDs = []string{}
	}
	if err := db.docs.Set(ctx, CollectionUsers, user.ID, user); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetUser retrieves a user by ID
func (db *DB) GetUser(ctx context.Context, id string) (*User, error) {
	var user User
	if err := db.docs.Get(ctx, CollectionUsers, id, &user); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("user %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// SetInterests replaces only the user's interests, so played markers added
// concurrently by MarkPlayed survive.
func (db *DB) SetInterests(ctx context.Context, userID string, interests []string) error {
	if interests == nil {
		interests = []string{}
	}
	if err := db.docs.SetField(ctx, CollectionUsers, userID, "interests", interests); err != nil {
		if errors.Is(err, ErrNotFound) {
			return fmt.Errorf("user %s: %w", userID, ErrNotFound)
		}
		return fmt.Errorf("failed to update interests: %w", err)
	}
	return nil
}

// MarkPlayed records that the user has played a game. The marker lives on the
// user, never on the game.
func (db *DB) MarkPlayed(ctx context.Context, userID, gameID string) error {
	if err := db.docs.AddToSet(ctx, CollectionUsers, userID, "playedGameIds", gameID); err != nil {
		return fmt.Errorf("failed to mark game %s played: %w", gameID, err)
	}
	return nil
}

func progressID(userID, folderID string) string {
	return userID + ":" + folderID
}

// GetProgress returns the user's progress in a folder, or an empty record
func (db *DB) GetProgress(ctx context.Context, userID, folderID string) (*Progress, error) {
	var p Progress
	err := db.docs.Get(ctx, CollectionProgress, progressID(userID, folderID), &p)
	if errors.Is(err, ErrNotFound) {
		return &Progress{
			ID:          progressID(userID, folderID),
			UserID:      userID,
			FolderID:    folderID,
			PlayedGames: map[string]PlayedGame{},
		}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get progress: %w", err)
	}
	if p.PlayedGames == nil {
		p.PlayedGames = map[string]PlayedGame{}
	}
	return &p, nil
}

// SaveProgress replaces the user's progress record for a folder
func (db *DB) SaveProgress(ctx context.Context, p *Progress) error {
	p.ID = progressID(p.UserID, p.FolderID)
	if err := db.docs.Set(ctx, CollectionProgress, p.ID, p); err != nil {
		return fmt.Errorf("failed to save progress: %w", err)
	}
	return nil
}
