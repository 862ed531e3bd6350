package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand/v2"
	"time"

	"duoquiz"
)

func main() {
	var (
		userID     = flag.String("user", "", "User the new folder is created for (required)")
		interest   = flag.String("interest", "", "Interest to focus on (default: one of the user's interests)")
		duration   = flag.Int("duration", 10, "Play duration in minutes used to size the folder (5, 10 or 15)")
		difficulty = flag.String("difficulty", "", "Difficulty hint (easier, same, harder)")
		apiKey     = flag.String("api-key", "", "OpenAI API key (or set OPENAI_API_KEY env var)")
		verbose    = flag.Bool("verbose", false, "Enable verbose output")
	)

	flag.Parse()

	if *userID == "" {
		log.Fatal("User is required. Use -user flag.")
	}
	hint, err := duoquiz.ParseDifficulty(*difficulty)
	if err != nil {
		log.Fatal(err)
	}
	if _, err := duoquiz.QuestionsForDuration(*duration); err != nil {
		log.Fatal(err)
	}

	cfg, err := duoquiz.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}
	if *apiKey != "" {
		cfg.OpenAIAPIKey = *apiKey
	}
	if cfg.OpenAIAPIKey == "" {
		log.Fatal("OpenAI API key is required. Use -api-key flag or set OPENAI_API_KEY environment variable.")
	}

	mode := cfg.LogMode
	if *verbose {
		mode = "debug"
	}
	logger, err := duoquiz.NewLogger(mode)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	store, err := cfg.OpenStore(ctx)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer store.Close(context.Background())

	events, err := cfg.OpenPublisher()
	if err != nil {
		log.Fatalf("Failed to connect to broker: %v", err)
	}
	defer events.Close()

	db := duoquiz.NewDB(store)
	user, err := db.GetUser(ctx, *userID)
	if err != nil {
		log.Fatalf("Failed to load user %s: %v", *userID, err)
	}

	focus := *interest
	if focus == "" && len(user.Interests) > 0 {
		focus = user.Interests[rand.IntN(len(user.Interests))]
	}

	oracle := cfg.Oracle()
	fmt.Printf("🎯 Suggesting a fresh folder")
	if focus != "" {
		fmt.Printf(" for interest: %s", focus)
	}
	fmt.Println("...")

	folder, err := duoquiz.NewFolderSuggester(oracle, db, logger).CreateSuggestedFolder(ctx, user.ID, focus)
	if err != nil {
		log.Fatalf("Failed to suggest a folder: %v", err)
	}
	fmt.Printf("✅ Created folder %q (%s)\n", folder.Title, folder.ID)
	fmt.Printf("Prompt: %s\n", folder.Prompt)
	if folder.Description != "" {
		fmt.Printf("Description: %s\n", folder.Description)
	}
	fmt.Println()

	generator := duoquiz.NewQuizGenerator(oracle, db, events, logger)
	if cfg.TranscriptDir != "" {
		generator.WithTranscripts(cfg.TranscriptDir)
	}
	games, err := generator.GenerateForFolder(ctx, folder.ID, user.ID, *duration, hint)
	if err != nil {
		log.Fatalf("Folder created but game generation failed: %v", err)
	}

	for _, g := range games {
		fmt.Printf("  %d. %s\n", g.Order, g.Question)
	}
	fmt.Printf("🎉 Added %d games to %q\n", len(games), folder.Title)
}
