package duoquiz

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestSuggest(t *testing.T) {
	testCases := []struct {
		name         string
		reply        string
		oracleErr    error
		wantPrompt   string
		wantTitle    string
		wantInterest string
		wantErr      any
	}{
		{
			name:         "strict object",
			reply:        `{"title": "Moons", "description": "Moons of the solar system", "prompt": "Moons of the solar system", "interest": "Science"}`,
			wantPrompt:   "Moons of the solar system",
			wantTitle:    "Moons",
			wantInterest: "science",
		},
		{
			name:         "fenced with bare keys",
			reply:        "Sure!\n```json\n{title: 'Rockets', prompt: 'History of rocketry', interest: 'qqq',}\n```",
			wantPrompt:   "History of rocketry",
			wantTitle:    "Rockets",
			wantInterest: "space",
		},
		{
			name:         "missing title uses prompt",
			reply:        `{"prompt": "Great explorers of the twentieth century"}`,
			wantPrompt:   "Great explorers of the twentieth century",
			wantTitle:    "Great explorers of the twentie",
			wantInterest: "space",
		},
		{name: "no prompt", reply: `{"title": "Empty"}`, wantErr: new(*ParseError)},
		{name: "repeats existing", reply: `{"prompt": "black holes"}`, wantErr: new(*ParseError)},
		{name: "junk", reply: "I cannot think of anything", wantErr: new(*ParseError)},
		{name: "unsuitable", reply: "UNSUITABLE_TOPIC: no", wantErr: new(*UnsuitableTopicError)},
		{name: "oracle down", oracleErr: errors.New("timeout"), wantErr: new(*OracleError)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			oracle := &fakeOracle{reply: tc.reply, err: tc.oracleErr}
			fs := NewFolderSuggester(oracle, NewDB(NewMemStore()), nil)

			got, err := fs.Suggest(context.Background(), "space", []string{"Black Holes"})
			if tc.wantErr != nil {
				if err == nil || !errors.As(err, tc.wantErr) {
					t.Fatalf("expected %T, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Suggest: %v", err)
			}
			if got.Prompt != tc.wantPrompt || got.Title != tc.wantTitle || got.Interest != tc.wantInterest {
				t.Errorf("unexpected suggestion %+v", got)
			}
			if !strings.Contains(oracle.users[0], "- Black Holes") {
				t.Errorf("expected existing folders listed in the request")
			}
		})
	}
}

func TestCreateSuggestedFolder(t *testing.T) {
	ctx := context.Background()
	db := NewDB(NewMemStore())
	mustCreateFolder(t, db, "f1", "u1", "Ancient Rome")
	mustCreateFolder(t, db, "f2", "u2", "Jazz")

	oracle := &fakeOracle{reply: `{"title": "Medieval", "prompt": "Medieval Europe", "interest": "history"}`}
	folder, err := NewFolderSuggester(oracle, db, nil).CreateSuggestedFolder(ctx, "u1", "history")
	if err != nil {
		t.Fatalf("CreateSuggestedFolder: %v", err)
	}
	if !strings.Contains(oracle.users[0], "- Ancient Rome") || strings.Contains(oracle.users[0], "Jazz") {
		t.Errorf("expected only the user's own prompts in the request:\n%s", oracle.users[0])
	}

	stored, err := db.GetOwnedFolder(ctx, folder.ID, "u1")
	if err != nil {
		t.Fatalf("GetOwnedFolder: %v", err)
	}
	if stored.Prompt != "Medieval Europe" || stored.Title != "Medieval" || len(stored.GameIDs) != 0 {
		t.Errorf("unexpected folder %+v", stored)
	}
}
