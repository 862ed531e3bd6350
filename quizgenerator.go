package duoquiz

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/google/uuid"
)

// DefaultFolderPrompt is the topic used for folders created without a prompt
const DefaultFolderPrompt = "General knowledge"

// QuizGenerator runs the generation pipeline: one oracle call, validation,
// deduplication against the target folder, then persistence.
type QuizGenerator struct {
	maker     *QuestionMaker
	checker   *QuestionChecker
	persister *GamePersister
	db        *DB
	log       *Logger

	transcriptDir string
}

// NewQuizGenerator creates a new quiz generator
func NewQuizGenerator(oracle Oracle, db *DB, events Publisher, logger *Logger) *QuizGenerator {
	logger = orNop(logger)
	return &QuizGenerator{
		maker:     NewQuestionMaker(oracle, logger),
		checker:   NewQuestionChecker(logger),
		persister: NewGamePersister(db, events, logger),
		db:        db,
		log:       logger,
	}
}

// WithTranscripts makes every run write an LLMLogger transcript under dir
func (qg *QuizGenerator) WithTranscripts(dir string) *QuizGenerator {
	qg.transcriptDir = dir
	return qg
}

// Maker returns the generator's question maker
func (qg *QuizGenerator) Maker() *QuestionMaker { return qg.maker }

// Checker returns the generator's question checker
func (qg *QuizGenerator) Checker() *QuestionChecker { return qg.checker }

// Persister returns the generator's game persister
func (qg *QuizGenerator) Persister() *GamePersister { return qg.persister }

// GenerateGames produces and stores up to req.NumQuestions games for
// req.Topic. Oracle, parse and unsuitable-topic errors are returned as is and
// nothing is written. Rejected or duplicate candidates only shrink the result.
func (qg *QuizGenerator) GenerateGames(ctx context.Context, req GenerationRequest) ([]Game, error) {
	if req.NumQuestions <= 0 {
		return nil, fmt.Errorf("number of questions must be positive, got %d", req.NumQuestions)
	}
	if req.FolderID == "" {
		req.FolderID = NoFolder
	}

	runID := uuid.NewString()
	log := qg.log.With("run_id", runID, "topic", req.Topic, "folder_id", req.FolderID)
	log.Info("starting game generation", "count", req.NumQuestions, "difficulty", string(req.Difficulty))

	transcript := qg.openTranscript(runID, req)
	if transcript != nil {
		defer transcript.Close()
	}

	var existing []Game
	if req.FolderID != NoFolder {
		var err error
		existing, err = qg.db.GamesByFolder(ctx, req.FolderID)
		if err != nil {
			generationRuns.WithLabelValues("store_error").Inc()
			return nil, err
		}
	}

	raw, err := qg.maker.GenerateQuestions(ctx, req.Topic, req.NumQuestions, req.Difficulty, transcript)
	if err != nil {
		generationRuns.WithLabelValues(generationOutcome(err)).Inc()
		return nil, err
	}

	valid, rejected := qg.checker.CheckBatch(raw, req.Topic, transcript)
	valid = NewQuestionDedup(existing).Filter(valid, log, transcript)
	if len(valid) > req.NumQuestions {
		valid = valid[:req.NumQuestions]
	}

	log.Info("validated question candidates",
		"recovered", len(raw), "rejected", len(rejected), "kept", len(valid))

	games, err := qg.persister.Persist(ctx, req.FolderID, valid, req.RequesterID, req.Difficulty, transcript)
	if err != nil {
		generationRuns.WithLabelValues("store_error").Inc()
		log.Error("game persistence stopped", "persisted", len(games), "error", err)
		return games, err
	}

	generationRuns.WithLabelValues("ok").Inc()
	log.Info("game generation complete", "games", len(games))
	return games, nil
}

// GenerateForFolder generates games from a folder's prompt, sized by the play
// duration in minutes. Only the folder's owner may generate into it.
func (qg *QuizGenerator) GenerateForFolder(ctx context.Context, folderID, userID string, duration int, difficulty Difficulty) ([]Game, error) {
	count, err := QuestionsForDuration(duration)
	if err != nil {
		return nil, err
	}

	folder, err := qg.db.GetOwnedFolder(ctx, folderID, userID)
	if err != nil {
		return nil, err
	}

	topic := strings.TrimSpace(folder.Prompt)
	if topic == "" {
		topic = DefaultFolderPrompt
	}

	return qg.GenerateGames(ctx, GenerationRequest{
		Topic:        topic,
		NumQuestions: count,
		Difficulty:   difficulty,
		FolderID:     folder.ID,
		RequesterID:  userID,
	})
}

// GenerateRandom generates an ad-hoc quiz, not tied to a folder, on one of the
// user's interests picked at random.
func (qg *QuizGenerator) GenerateRandom(ctx context.Context, userID string, duration int, difficulty Difficulty) ([]Game, error) {
	count, err := QuestionsForDuration(duration)
	if err != nil {
		return nil, err
	}

	user, err := qg.db.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	topic := DefaultFolderPrompt
	if len(user.Interests) > 0 {
		topic = user.Interests[rand.IntN(len(user.Interests))]
	}

	return qg.GenerateGames(ctx, GenerationRequest{
		Topic:        topic,
		NumQuestions: count,
		Difficulty:   difficulty,
		FolderID:     NoFolder,
		RequesterID:  userID,
	})
}

func (qg *QuizGenerator) openTranscript(runID string, req GenerationRequest) *LLMLogger {
	if qg.transcriptDir == "" {
		return nil
	}
	transcript, err := NewLLMLogger(qg.transcriptDir, runID, req)
	if err != nil {
		qg.log.Warn("failed to open generation transcript", "error", err)
		return nil
	}
	return transcript
}

func generationOutcome(err error) string {
	var oracleErr *OracleError
	var parseErr *ParseError
	var unsuitableErr *UnsuitableTopicError
	switch {
	case errors.As(err, &oracleErr):
		return "oracle_error"
	case errors.As(err, &parseErr):
		return "parse_error"
	case errors.As(err, &unsuitableErr):
		return "unsuitable_topic"
	}
	return "error"
}
