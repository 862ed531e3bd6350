package main

import (
	"net/http"
	"strings"
	"time"

	"duoquiz"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type createFolderRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Prompt      string `json:"prompt"`
}

func (s *Server) createFolder(c *gin.Context) {
	var req createFolderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, badRequest(err.Error()))
		return
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		s.respondError(c, badRequest("title is required"))
		return
	}

	folder := &duoquiz.Folder{
		ID:          uuid.NewString(),
		Title:       title,
		Description: strings.TrimSpace(req.Description),
		Prompt:      strings.TrimSpace(req.Prompt),
		CreatedBy:   currentUserID(c),
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.db.CreateFolder(c.Request.Context(), folder); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, folder)
}

func (s *Server) listFolders(c *gin.Context) {
	folders, err := s.db.FoldersByCreator(c.Request.Context(), currentUserID(c))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, folders)
}

func (s *Server) getFolder(c *gin.Context) {
	folder, err := s.db.GetOwnedFolder(c.Request.Context(), c.Param("id"), currentUserID(c))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, folder)
}

func (s *Server) deleteFolder(c *gin.Context) {
	ctx := c.Request.Context()
	folder, err := s.db.GetOwnedFolder(ctx, c.Param("id"), currentUserID(c))
	if err != nil {
		s.respondError(c, err)
		return
	}
	deleted, err := s.db.DeleteFolder(ctx, folder)
	if err != nil {
		s.respondError(c, err)
		return
	}
	s.log.Info("folder deleted", "folder_id", folder.ID, "games_deleted", deleted)
	c.JSON(http.StatusOK, gin.H{"message": "deleted", "gamesDeleted": deleted})
}

// folderWithGames returns the folder and its games. strategy=owned resolves
// the folder's gameIds; the default finds games by their folderId.
func (s *Server) folderWithGames(c *gin.Context) {
	strategy, err := duoquiz.ParseStrategy(c.Query("strategy"))
	if err != nil {
		s.respondError(c, badRequest(err.Error()))
		return
	}

	ctx := c.Request.Context()
	folder, err := s.db.GetOwnedFolder(ctx, c.Param("id"), currentUserID(c))
	if err != nil {
		s.respondError(c, err)
		return
	}
	games, err := s.aggregator.GamesForFolder(ctx, folder, strategy)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"folder": folder, "games": games})
}

func (s *Server) reconcileFolder(c *gin.Context) {
	ctx := c.Request.Context()
	folder, err := s.db.GetOwnedFolder(ctx, c.Param("id"), currentUserID(c))
	if err != nil {
		s.respondError(c, err)
		return
	}
	report, err := s.reconciler.ReconcileFolder(ctx, folder.ID)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}
