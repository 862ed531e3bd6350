package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const sessionName = "quiz-session"

type answerRequest struct {
	Answer string `json:"answer" binding:"required"`
}

// recordAnswer scores an answer, stores it in the user's folder progress and
// updates the tally of the sitting kept in the cookie session.
func (s *Server) recordAnswer(c *gin.Context) {
	var req answerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, badRequest(err.Error()))
		return
	}

	folderID := c.Param("folderId")
	result, err := s.progress.RecordAnswer(c.Request.Context(), currentUserID(c), folderID, c.Param("gameId"), req.Answer)
	if err != nil {
		s.respondError(c, err)
		return
	}

	session, _ := s.sessions.Get(c.Request, sessionName)
	tally, ok := session.Values["tally"].(PlayTally)
	if !ok || tally.FolderID != folderID {
		tally = PlayTally{FolderID: folderID}
	}
	tally.Answered++
	if result.Correct {
		tally.Correct++
	}
	session.Values["tally"] = tally
	if err := session.Save(c.Request, c.Writer); err != nil {
		s.log.Warn("session save error", "error", err)
	}

	c.JSON(http.StatusOK, gin.H{
		"correct":       result.Correct,
		"correctAnswer": result.CorrectAnswer,
		"explanation":   result.Explanation,
		"progress":      result.Progress,
		"session":       tally,
	})
}

func (s *Server) getProgress(c *gin.Context) {
	progress, err := s.progress.Progress(c.Request.Context(), currentUserID(c), c.Param("folderId"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, progress)
}
