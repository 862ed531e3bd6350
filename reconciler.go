package duoquiz

import (
	"context"
	"fmt"
)

// ReconcileReport describes what a reconciliation pass found in one folder
type ReconcileReport struct {
	FolderID string   `json:"folderId"`
	Linked   []string `json:"linked"`   // game ids added to gameIds
	Dangling []string `json:"dangling"` // gameIds entries with no game pointing back
}

// Reconciler repairs folders whose gameIds missed a link. A game's folderId is
// always written first, so it is treated as the source of truth and gameIds is
// brought up to date with it.
type Reconciler struct {
	db     *DB
	events Publisher
	log    *Logger
}

func NewReconciler(db *DB, events Publisher, logger *Logger) *Reconciler {
	if events == nil {
		events = NopPublisher{}
	}
	return &Reconciler{db: db, events: events, log: orNop(logger)}
}

// ReconcileFolder adds every game that points at the folder to its gameIds.
// Dangling entries are reported but kept since gameIds only grows.
// Running it twice is the same as running it once.
func (r *Reconciler) ReconcileFolder(ctx context.Context, folderID string) (ReconcileReport, error) {
	report := ReconcileReport{FolderID: folderID, Linked: []string{}, Dangling: []string{}}

	folder, err := r.db.GetFolder(ctx, folderID)
	if err != nil {
		return report, err
	}
	games, err := r.db.GamesByFolder(ctx, folderID)
	if err != nil {
		return report, err
	}

	listed := make(map[string]bool, len(folder.GameIDs))
	for _, id := range folder.GameIDs {
		listed[id] = true
	}
	pointing := make(map[string]bool, len(games))
	for _, g := range games {
		pointing[g.ID] = true
		if !listed[g.ID] {
			report.Linked = append(report.Linked, g.ID)
		}
	}
	for _, id := range folder.GameIDs {
		if !pointing[id] {
			report.Dangling = append(report.Dangling, id)
		}
	}

	if len(report.Linked) > 0 {
		if err := r.db.LinkGames(ctx, folderID, report.Linked...); err != nil {
			return report, err
		}
		reconciledLinks.Add(float64(len(report.Linked)))
		r.log.Info("restored missing folder links", "folder_id", folderID, "games", len(report.Linked))
		publish(ctx, r.events, r.log, Event{
			EventType: EventFolderReconcile,
			UserID:    folder.CreatedBy,
			FolderID:  folderID,
			GameIDs:   report.Linked,
		})
	}
	if len(report.Dangling) > 0 {
		r.log.Warn("folder lists games that do not point back", "folder_id", folderID, "dangling", report.Dangling)
	}
	return report, nil
}

// ReconcileAll reconciles every folder in the store. It keeps going past a
// failing folder and returns the first error it saw.
func (r *Reconciler) ReconcileAll(ctx context.Context) ([]ReconcileReport, error) {
	folders, err := r.db.AllFolders(ctx)
	if err != nil {
		return nil, err
	}

	reports := make([]ReconcileReport, 0, len(folders))
	var firstErr error
	for _, f := range folders {
		if err := ctx.Err(); err != nil {
			return reports, err
		}
		report, err := r.ReconcileFolder(ctx, f.ID)
		if err != nil {
			r.log.Error("failed to reconcile folder", "folder_id", f.ID, "error", err)
			if firstErr == nil {
				firstErr = fmt.Errorf("folder %s: %w", f.ID, err)
			}
			continue
		}
		reports = append(reports, report)
	}
	return reports, firstErr
}
