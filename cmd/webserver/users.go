package main

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"duoquiz"

	"github.com/gin-gonic/gin"
)

// maxInterests is how many interests a profile may hold
const maxInterests = 5

type createUserRequest struct {
	Email     string   `json:"email"`
	Name      string   `json:"name"`
	Interests []string `json:"interests"`
}

type interestsRequest struct {
	Interests []string `json:"interests"`
}

// normalizeInterests maps each entry onto a standard interest and drops
// repeats. An entry that maps onto nothing is rejected.
func normalizeInterests(raw []string) ([]string, error) {
	out := make([]string, 0, len(raw))
	seen := make(map[string]bool, len(raw))
	for _, r := range raw {
		interest := duoquiz.NormalizeTopic(r, "")
		if interest == "" {
			return nil, badRequest("unknown interest " + strings.TrimSpace(r))
		}
		if seen[interest] {
			continue
		}
		seen[interest] = true
		out = append(out, interest)
	}
	if len(out) > maxInterests {
		return nil, badRequest("at most 5 interests are allowed")
	}
	return out, nil
}

func (s *Server) createUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, badRequest(err.Error()))
		return
	}
	interests, err := normalizeInterests(req.Interests)
	if err != nil {
		s.respondError(c, err)
		return
	}

	userID := currentUserID(c)
	if _, err := s.db.GetUser(c.Request.Context(), userID); err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "user already registered", "code": "conflict"})
		return
	} else if !errors.Is(err, duoquiz.ErrNotFound) {
		s.respondError(c, err)
		return
	}

	user := &duoquiz.User{
		ID:        userID,
		Email:     strings.TrimSpace(req.Email),
		Name:      strings.TrimSpace(req.Name),
		Interests: interests,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.db.CreateUser(c.Request.Context(), user); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

func (s *Server) getMe(c *gin.Context) {
	user, err := s.db.GetUser(c.Request.Context(), currentUserID(c))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (s *Server) updateInterests(c *gin.Context) {
	var req interestsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, badRequest(err.Error()))
		return
	}
	interests, err := normalizeInterests(req.Interests)
	if err != nil {
		s.respondError(c, err)
		return
	}

	userID := currentUserID(c)
	if err := s.db.SetInterests(c.Request.Context(), userID, interests); err != nil {
		s.respondError(c, err)
		return
	}
	user, err := s.db.GetUser(c.Request.Context(), userID)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (s *Server) dashboard(c *gin.Context) {
	ctx := c.Request.Context()
	user, err := s.db.GetUser(ctx, currentUserID(c))
	if err != nil {
		s.respondError(c, err)
		return
	}
	folders, err := s.db.FoldersByCreator(ctx, user.ID)
	if err != nil {
		s.respondError(c, err)
		return
	}
	if folders == nil {
		folders = []duoquiz.Folder{}
	}
	c.JSON(http.StatusOK, gin.H{"user": user, "folders": folders})
}
