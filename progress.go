package duoquiz

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// AnswerResult is what recording one answer produced
type AnswerResult struct {
	Correct       bool      `json:"correct"`
	CorrectAnswer string    `json:"correctAnswer"`
	Explanation   string    `json:"explanation"`
	Progress      *Progress `json:"progress"`
}

// ProgressTracker records answers and keeps per-folder play streaks
type ProgressTracker struct {
	db  *DB
	log *Logger
	now func() time.Time
}

func NewProgressTracker(db *DB, logger *Logger) *ProgressTracker {
	return &ProgressTracker{
		db:  db,
		log: orNop(logger),
		now: func() time.Time { return time.Now().UTC() },
	}
}

// RecordAnswer checks answer against the game, stores it in the user's
// progress for the folder and marks the game played on the user. Only the
// creator of the folder and the game may answer it.
func (pt *ProgressTracker) RecordAnswer(ctx context.Context, userID, folderID, gameID, answer string) (*AnswerResult, error) {
	if _, err := pt.db.GetOwnedFolder(ctx, folderID, userID); err != nil {
		return nil, err
	}
	game, err := pt.db.GetOwnedGame(ctx, gameID, userID)
	if err != nil {
		return nil, err
	}
	if game.FolderID != folderID {
		return nil, fmt.Errorf("game %s in folder %s: %w", gameID, folderID, ErrNotFound)
	}

	progress, err := pt.db.GetProgress(ctx, userID, folderID)
	if err != nil {
		return nil, err
	}

	now := pt.now()
	correct := strings.EqualFold(strings.TrimSpace(answer), game.CorrectAnswer)
	progress.PlayedGames[gameID] = PlayedGame{Correct: correct, AnsweredAt: now}
	progress.Streak = nextStreak(progress.Streak, progress.LastPlayedAt, now)
	progress.LastPlayedAt = &now

	if err := pt.db.SaveProgress(ctx, progress); err != nil {
		return nil, err
	}
	if err := pt.db.MarkPlayed(ctx, userID, gameID); err != nil {
		return nil, err
	}

	pt.log.Debug("recorded answer", "user_id", userID, "folder_id", folderID, "game_id", gameID,
		"correct", correct, "streak", progress.Streak)

	return &AnswerResult{
		Correct:       correct,
		CorrectAnswer: game.CorrectAnswer,
		Explanation:   game.Explanation,
		Progress:      progress,
	}, nil
}

// Progress returns the user's progress in a folder
func (pt *ProgressTracker) Progress(ctx context.Context, userID, folderID string) (*Progress, error) {
	return pt.db.GetProgress(ctx, userID, folderID)
}

// nextStreak counts consecutive UTC days with at least one answer
func nextStreak(streak int, last *time.Time, now time.Time) int {
	if last == nil || streak == 0 {
		return 1
	}
	lastDay := last.UTC().Truncate(24 * time.Hour)
	today := now.UTC().Truncate(24 * time.Hour)
	switch today.Sub(lastDay) {
	case 0:
		return streak
	case 24 * time.Hour:
		return streak + 1
	}
	return 1
}
