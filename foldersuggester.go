package duoquiz

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// FolderSuggestion is a fresh folder idea the oracle came up with
type FolderSuggestion struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Prompt      string `json:"prompt"`
	Interest    string `json:"interest"`
}

// FolderSuggester asks the oracle for folder prompts a user does not have yet
// and creates folders from them.
type FolderSuggester struct {
	oracle Oracle
	db     *DB
	log    *Logger
	now    func() time.Time
}

func NewFolderSuggester(oracle Oracle, db *DB, logger *Logger) *FolderSuggester {
	return &FolderSuggester{
		oracle: oracle,
		db:     db,
		log:    orNop(logger),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Suggest returns one folder idea within interest whose prompt differs from
// every prompt in existing.
func (fs *FolderSuggester) Suggest(ctx context.Context, interest string, existing []string) (FolderSuggestion, error) {
	var prompt strings.Builder

	prompt.WriteString("Suggest ONE quiz folder that would make for engaging multiple choice questions.\n\n")
	if interest != "" {
		prompt.WriteString(fmt.Sprintf("Focus on the interest: %s\n\n", interest))
	}
	if len(existing) > 0 {
		prompt.WriteString("IMPORTANT: The folder must be completely different from these existing folders:\n")
		for _, p := range existing {
			prompt.WriteString(fmt.Sprintf("- %s\n", p))
		}
		prompt.WriteString("\n")
	}
	prompt.WriteString("Requirements:\n")
	prompt.WriteString("- The prompt should be broad enough to generate 15+ questions\n")
	prompt.WriteString("- Avoid overly specific or niche subjects\n")
	prompt.WriteString("- Keep the title under 30 characters\n\n")
	prompt.WriteString(`Reply with only a JSON object: {"title": "...", "description": "...", "prompt": "...", "interest": "..."}`)

	system := "You are an expert at creating engaging quiz topics. Suggest unique, educational subjects that would make for interesting multiple choice quizzes."

	reply, err := fs.oracle.Complete(ctx, system, prompt.String())
	if err != nil {
		fs.log.Error("oracle call failed", "interest", interest, "error", err)
		return FolderSuggestion{}, &OracleError{Err: err}
	}
	if reason, ok := unsuitableReason(reply); ok {
		return FolderSuggestion{}, &UnsuitableTopicError{Topic: interest, Reason: reason}
	}

	suggestion, err := decodeSuggestion(reply)
	if err != nil {
		return FolderSuggestion{}, err
	}

	suggestion.Prompt = strings.TrimSpace(suggestion.Prompt)
	suggestion.Title = strings.TrimSpace(suggestion.Title)
	if suggestion.Prompt == "" {
		return FolderSuggestion{}, &ParseError{Reason: "suggestion has no prompt", Raw: reply}
	}
	for _, p := range existing {
		if strings.EqualFold(strings.TrimSpace(p), suggestion.Prompt) {
			return FolderSuggestion{}, &ParseError{Reason: "suggested prompt already exists", Raw: reply}
		}
	}
	if suggestion.Title == "" {
		suggestion.Title = suggestion.Prompt
	}
	suggestion.Title = gameTitle(suggestion.Title)
	suggestion.Interest = NormalizeTopic(suggestion.Interest, NormalizeTopic(interest, ""))

	fs.log.Info("suggested folder", "interest", suggestion.Interest, "prompt", suggestion.Prompt)
	return suggestion, nil
}

// CreateSuggestedFolder suggests a folder that none of userID's folders cover
// and stores it for them. The folder starts empty.
func (fs *FolderSuggester) CreateSuggestedFolder(ctx context.Context, userID, interest string) (*Folder, error) {
	folders, err := fs.db.FoldersByCreator(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading folders of %s: %w", userID, err)
	}
	existing := make([]string, 0, len(folders))
	for _, f := range folders {
		if f.Prompt != "" {
			existing = append(existing, f.Prompt)
		}
	}

	suggestion, err := fs.Suggest(ctx, interest, existing)
	if err != nil {
		return nil, err
	}

	folder := &Folder{
		ID:          uuid.NewString(),
		Title:       suggestion.Title,
		Description: suggestion.Description,
		Prompt:      suggestion.Prompt,
		CreatedBy:   userID,
		CreatedAt:   fs.now(),
	}
	if err := fs.db.CreateFolder(ctx, folder); err != nil {
		return nil, fmt.Errorf("creating folder: %w", err)
	}
	return folder, nil
}

func decodeSuggestion(reply string) (FolderSuggestion, error) {
	var s FolderSuggestion
	err := json.Unmarshal([]byte(strings.TrimSpace(reply)), &s)
	if err == nil {
		return s, nil
	}

	s = FolderSuggestion{}
	text := stripCodeFences(reply)
	if start, end := strings.Index(text, "{"), strings.LastIndex(text, "}"); start >= 0 && end > start {
		text = text[start : end+1]
	}
	if err := json.Unmarshal([]byte(repairJSON(text)), &s); err != nil {
		return FolderSuggestion{}, &ParseError{Reason: "reply is not a JSON object", Raw: reply, Err: err}
	}
	return s, nil
}
