package duoquiz

import (
	"encoding/json"
	"time"
)

// NoFolder is the folderId of games that belong to an ad-hoc (random) quiz
// rather than to a specific folder.
const NoFolder = "random"

// Collection names in the document store
const (
	CollectionUsers    = "users"
	CollectionFolders  = "folders"
	CollectionGames    = "games"
	CollectionProgress = "progress"
)

// Difficulty is the optional qualitative hint passed to the question maker
type Difficulty string

const (
	DifficultyNone   Difficulty = ""
	DifficultyEasier Difficulty = "easier"
	DifficultySame   Difficulty = "same"
	DifficultyHarder Difficulty = "harder"
)

// ParseDifficulty accepts the empty string (no hint) or one of the three hints.
func ParseDifficulty(s string) (Difficulty, error) {
	switch d := Difficulty(s); d {
	case DifficultyNone, DifficultyEasier, DifficultySame, DifficultyHarder:
		return d, nil
	}
	return DifficultyNone, ErrInvalidDifficulty
}

// durationQuestions maps a play duration in minutes to the number of questions generated
var durationQuestions = map[int]int{
	5:  3,
	10: 6,
	15: 8,
}

// QuestionsForDuration returns the question count for a duration in minutes.
func QuestionsForDuration(minutes int) (int, error) {
	n, ok := durationQuestions[minutes]
	if !ok {
		return 0, ErrInvalidDuration
	}
	return n, nil
}

// RawQuestionCandidate is one record recovered from the oracle's reply.
// Nothing about it is trusted: fields may be missing or carry the wrong JSON type.
type RawQuestionCandidate struct {
	Question      string `json:"question"`
	Options       []any  `json:"options"`
	CorrectAnswer any    `json:"correctAnswer"`
	Explanation   string `json:"explanation"`
	Topic         string `json:"topic,omitempty"`
}

// UnmarshalJSON decodes leniently. A field of the wrong type is treated as absent
// so that one bad field rejects one candidate instead of failing the whole batch.
func (c *RawQuestionCandidate) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	*c = RawQuestionCandidate{
		Question:    rawString(fields["question"]),
		Explanation: rawString(fields["explanation"]),
		Topic:       rawString(fields["topic"]),
	}
	if raw, ok := fields["options"]; ok {
		var opts []any
		if json.Unmarshal(raw, &opts) == nil {
			c.Options = opts
		}
	}
	if raw, ok := fields["correctAnswer"]; ok {
		var v any
		if json.Unmarshal(raw, &v) == nil {
			c.CorrectAnswer = v
		}
	}
	return nil
}

func rawString(raw json.RawMessage) string {
	if raw == nil {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

// ValidatedCandidate is a question with exactly four options and a correct
// answer among them. Generated questions get one from QuestionChecker; code
// building one by hand must keep those two properties.
type ValidatedCandidate struct {
	Question      string
	Options       [4]string
	CorrectAnswer string
	Explanation   string
	Topic         string // normalized
	RawTopic      string // as supplied by the oracle or caller, before normalization
}

// Game is a single persisted multiple-choice question.
type Game struct {
	ID            string    `json:"id" bson:"_id"`
	Order         int       `json:"order" bson:"order"`
	Title         string    `json:"title" bson:"title"`
	Question      string    `json:"question" bson:"question"`
	Options       [4]string `json:"options" bson:"options"`
	CorrectAnswer string    `json:"correctAnswer" bson:"correctAnswer"`
	Explanation   string    `json:"explanation" bson:"explanation"`
	Topic         string    `json:"topic" bson:"topic"`
	Tags          []string  `json:"tags" bson:"tags"`
	CreatedBy     string    `json:"createdBy" bson:"createdBy"`
	CreatedAt     time.Time `json:"createdAt" bson:"createdAt"`
	FolderID      string    `json:"folderId" bson:"folderId"`
	Difficulty    string    `json:"difficulty,omitempty" bson:"difficulty,omitempty"`
}

// Folder is a user-owned collection of games seeded by a topic prompt.
type Folder struct {
	ID          string    `json:"id" bson:"_id"`
	Title       string    `json:"title" bson:"title"`
	Description string    `json:"description" bson:"description"`
	Prompt      string    `json:"prompt" bson:"prompt"`
	CreatedBy   string    `json:"createdBy" bson:"createdBy"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt"`
	GameIDs     []string  `json:"gameIds" bson:"gameIds"`
}

// User owns folders and games.
type User struct {
	ID            string    `json:"id" bson:"_id"`
	Email         string    `json:"email" bson:"email"`
	Name          string    `json:"name" bson:"name"`
	Interests     []string  `json:"interests" bson:"interests"`
	PlayedGameIDs []string  `json:"playedGameIds" bson:"playedGameIds"`
	CreatedAt     time.Time `json:"createdAt" bson:"createdAt"`
}

// PlayedGame records one answer inside a folder's progress document
type PlayedGame struct {
	Correct    bool      `json:"correct" bson:"correct"`
	AnsweredAt time.Time `json:"answeredAt" bson:"answeredAt"`
}

// Progress tracks a user's play history for one folder.
type Progress struct {
	ID           string                `json:"id" bson:"_id"`
	UserID       string                `json:"userId" bson:"userId"`
	FolderID     string                `json:"folderId" bson:"folderId"`
	PlayedGames  map[string]PlayedGame `json:"playedGames" bson:"playedGames"`
	Streak       int                   `json:"streak" bson:"streak"`
	LastPlayedAt *time.Time            `json:"lastPlayedAt,omitempty" bson:"lastPlayedAt,omitempty"`
}

// GenerationRequest describes one run of the generation pipeline
type GenerationRequest struct {
	Topic        string     `json:"topic"`
	NumQuestions int        `json:"num_questions"`
	Difficulty   Difficulty `json:"difficulty,omitempty"`
	FolderID     string     `json:"folder_id"`
	RequesterID  string     `json:"requester_id"`
}
