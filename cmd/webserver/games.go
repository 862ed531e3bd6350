package main

import (
	"net/http"
	"strings"

	"duoquiz"

	"github.com/gin-gonic/gin"
)

type createGameRequest struct {
	FolderID      string   `json:"folderId"`
	Order         int      `json:"order"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
	Explanation   string   `json:"explanation"`
	Topic         string   `json:"topic"`
	Difficulty    string   `json:"difficulty"`
}

// createGame stores a hand-written game. It goes through the same checker and
// persister as generated games so the same invariants hold.
func (s *Server) createGame(c *gin.Context) {
	var req createGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, badRequest(err.Error()))
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
	}
	order := req.Order
	fallbackTopic := duoquiz.DefaultFolderPrompt
	if folderID != duoquiz.NoFolder {
		folder, err := s.db.GetOwnedFolder(ctx, folderID, userID)
		if err != nil {
			s.respondError(c, err)
			return
		}
		if order <= 0 {
			order = len(folder.GameIDs) + 1
		}
		if prompt := strings.TrimSpace(folder.Prompt); prompt != "" {
			fallbackTopic = prompt
		}
	}
	if order <= 0 {
		order = 1
	}

	options := make([]any, len(req.Options))
	for i, opt := range req.Options {
		options[i] = opt
	}
	candidate := duoquiz.RawQuestionCandidate{
		Question:    req.Question,
		Options:     options,
		Explanation: req.Explanation,
		Topic:       req.Topic,
	}
	if req.CorrectAnswer != "" {
		candidate.CorrectAnswer = req.CorrectAnswer
	}

	vc, err := s.generator.Checker().Check(candidate, fallbackTopic)
	if err != nil {
		s.respondError(c, err)
		return
	}

	game, err := s.generator.Persister().PersistGame(ctx, folderID, order, vc, userID, difficulty, nil)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, game)
}

func (s *Server) listGames(c *gin.Context) {
	games, err := s.db.GamesByCreator(c.Request.Context(), currentUserID(c))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, games)
}

func (s *Server) listFolderGames(c *gin.Context) {
	games, err := s.db.GamesByFolderAndCreator(c.Request.Context(), c.Param("folderId"), currentUserID(c))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, games)
}

func (s *Server) getGame(c *gin.Context) {
	game, err := s.db.GetOwnedGame(c.Request.Context(), c.Param("id"), currentUserID(c))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, game)
}
