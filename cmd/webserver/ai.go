package main

import (
	"net/http"
	"strings"

	"duoquiz"

	"github.com/gin-gonic/gin"
)

const (
	defaultGameCount = 3
	maxGameCount     = 10
	defaultDuration  = 5
)

type generateGamesRequest struct {
	Prompt     string `json:"prompt"`
	FolderID   string `json:"folderId"`
	Count      int    `json:"count"`
	Difficulty string `json:"difficulty"`
}

type generateTimedRequest struct {
	Duration   int    `json:"duration"`
	Difficulty string `json:"difficulty"`
}

func (s *Server) generateGames(c *gin.Context) {
	var req generateGamesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, badRequest(err.Error()))
		return
	}
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		s.respondError(c, badRequest("prompt is required"))
		return
	}
	count := req.Count
	if count == 0 {
		count = defaultGameCount
	}
	if count < 1 || count > maxGameCount {
		s.respondError(c, badRequest("count must be between 1 and 10"))
		return
	}
	difficulty, err := duoquiz.ParseDifficulty(req.Difficulty)
	if err != nil {
		s.respondError(c, err)
		return
	}

	ctx := c.Request.Context()
	userID := currentUserID(c)
	folderID := strings.TrimSpace(req.FolderID)
	if folderID == "" {
		folderID = duoquiz.NoFolder
	} else if _, err := s.db.GetOwnedFolder(ctx, folderID, userID); err != nil {
		s.respondError(c, err)
		return
	}

	games, err := s.generator.GenerateGames(ctx, duoquiz.GenerationRequest{
		Topic:        prompt,
		NumQuestions: count,
		Difficulty:   difficulty,
		FolderID:     folderID,
		RequesterID:  userID,
	})
	s.respondGames(c, games, err)
}

func (s *Server) generateRandom(c *gin.Context) {
	var req generateTimedRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		s.respondError(c, badRequest(err.Error()))
		return
	}
	if req.Duration == 0 {
		req.Duration = defaultDuration
	}
	difficulty, err := duoquiz.ParseDifficulty(req.Difficulty)
	if err != nil {
		s.respondError(c, err)
		return
	}

	games, err := s.generator.GenerateRandom(c.Request.Context(), currentUserID(c), req.Duration, difficulty)
	s.respondGames(c, games, err)
}

// generateFromFolder generates games on the folder's prompt, sized by the
// requested play duration. It replies with the bare list of persisted games.
func (s *Server) generateFromFolder(c *gin.Context) {
	var req generateTimedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, badRequest(err.Error()))
		return
	}
	difficulty, err := duoquiz.ParseDifficulty(req.Difficulty)
	if err != nil {
		s.respondError(c, err)
		return
	}
	if _, err := duoquiz.QuestionsForDuration(req.Duration); err != nil {
		s.respondError(c, err)
		return
	}

	games, err := s.generator.GenerateForFolder(c.Request.Context(), c.Param("folderId"), currentUserID(c), req.Duration, difficulty)
	if err != nil {
		s.respondError(c, err)
		return
	}
	if games == nil {
		games = []duoquiz.Game{}
	}
	c.JSON(http.StatusCreated, games)
}

type suggestFolderRequest struct {
	Interest string `json:"interest"`
}

// suggestFolder creates an empty folder on a prompt the user has no folder for yet
func (s *Server) suggestFolder(c *gin.Context) {
	var req suggestFolderRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		s.respondError(c, badRequest(err.Error()))
		return
	}
	folder, err := s.suggester.CreateSuggestedFolder(c.Request.Context(), currentUserID(c), strings.TrimSpace(req.Interest))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, folder)
}

// respondGames wraps the games in {games, count}
func (s *Server) respondGames(c *gin.Context, games []duoquiz.Game, err error) {
	if err != nil {
		s.respondError(c, err)
		return
	}
	if games == nil {
		games = []duoquiz.Game{}
	}
	c.JSON(http.StatusCreated, gin.H{"games": games, "count": len(games)})
}

// bindOptionalJSON binds the body when there is one
func bindOptionalJSON(c *gin.Context, obj any) error {
	if c.Request.ContentLength == 0 {
		return nil
	}
	return c.ShouldBindJSON(obj)
}
