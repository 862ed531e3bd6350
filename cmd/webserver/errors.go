package main

import (
	"errors"
	"net/http"

	"duoquiz"

	"github.com/gin-gonic/gin"
)

// errBadRequest marks request errors detected by the handlers themselves
var errBadRequest = errors.New("bad request")

// respondError maps a pipeline or store error onto a status and stable code
func (s *Server) respondError(c *gin.Context, err error) {
	status, code := http.StatusInternalServerError, "internal_error"

	var oracleErr *duoquiz.OracleError
	var parseErr *duoquiz.ParseError
	var unsuitableErr *duoquiz.UnsuitableTopicError
	var rejection *duoquiz.ValidationRejection

	switch {
	case errors.As(err, &oracleErr):
		status, code = http.StatusBadGateway, "generation_oracle_error"
	case errors.As(err, &parseErr):
		status, code = http.StatusInternalServerError, "generation_parse_error"
	case errors.As(err, &unsuitableErr):
		status, code = http.StatusUnprocessableEntity, "unsuitable_topic"
	case errors.As(err, &rejection):
		status, code = http.StatusBadRequest, "invalid_question"
	case errors.Is(err, duoquiz.ErrNotFound):
		status, code = http.StatusNotFound, "not_found"
	case errors.Is(err, duoquiz.ErrForbidden):
		status, code = http.StatusForbidden, "forbidden"
	case errors.Is(err, duoquiz.ErrInvalidDuration),
		errors.Is(err, duoquiz.ErrInvalidDifficulty),
		errors.Is(err, errBadRequest):
		status, code = http.StatusBadRequest, "bad_request"
	}

	if status >= http.StatusInternalServerError {
		s.log.Error("request failed", "method", c.Request.Method, "path", c.FullPath(), "status", status, "error", err)
	} else {
		s.log.Debug("request rejected", "method", c.Request.Method, "path", c.FullPath(), "status", status, "error", err)
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error(), "code": code})
}

func badRequest(msg string) error {
	return &requestError{msg: msg}
}

type requestError struct{ msg string }

func (e *requestError) Error() string { return e.msg }
func (e *requestError) Unwrap() error { return errBadRequest }
