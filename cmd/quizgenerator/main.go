package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"duoquiz"
)

func main() {
	var (
		topic        = flag.String("topic", "", "Quiz topic (required)")
		numQuestions = flag.Int("questions", 6, "Number of questions to generate")
		difficulty   = flag.String("difficulty", "", "Difficulty hint relative to earlier questions (easier, same, harder)")
		outputFile   = flag.String("output", "", "Output file for the questions JSON (default: stdout)")
		apiKey       = flag.String("api-key", "", "OpenAI API key (or set OPENAI_API_KEY env var)")
		folderID     = flag.String("folder", "", "Persist the games into this folder ('random' for none)")
		userID       = flag.String("user", "", "Requester recorded as the games' creator when persisting")
		playMode     = flag.Bool("play", false, "Play the generated questions interactively")
		verbose      = flag.Bool("verbose", false, "Enable verbose debugging output")
	)

	flag.Parse()

	if *topic == "" {
		log.Fatal("Topic is required. Use -topic flag.")
	}
	hint, err := duoquiz.ParseDifficulty(*difficulty)
	if err != nil {
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

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	var output any
	var questions []duoquiz.ValidatedCandidate

	if *folderID != "" {
		if *userID == "" {
			log.Fatal("-user is required together with -folder")
		}
		games := persistGames(ctx, cfg, logger, duoquiz.GenerationRequest{
			Topic:        *topic,
			NumQuestions: *numQuestions,
			Difficulty:   hint,
			FolderID:     *folderID,
			RequesterID:  *userID,
		})
		for _, g := range games {
			questions = append(questions, duoquiz.ValidatedCandidate{
				Question:      g.Question,
				Options:       g.Options,
				CorrectAnswer: g.CorrectAnswer,
				Explanation:   g.Explanation,
				Topic:         g.Topic,
			})
		}
		output = games
	} else {
		questions = generateQuestions(ctx, cfg, logger, *topic, *numQuestions, hint)
		output = questions
	}

	if *playMode {
		playQuiz(*topic, questions)
		return
	}

	data, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		log.Fatalf("Failed to marshal questions: %v", err)
	}

	if *outputFile != "" {
		if err := os.WriteFile(*outputFile, data, 0644); err != nil {
			log.Fatalf("Failed to write output file: %v", err)
		}
		logger.Info("questions saved", "file", *outputFile, "count", len(questions))
	} else {
		fmt.Println(string(data))
	}
}

// generateQuestions runs the oracle and the checker without touching a store
func generateQuestions(ctx context.Context, cfg duoquiz.Config, logger *duoquiz.Logger, topic string, count int, hint duoquiz.Difficulty) []duoquiz.ValidatedCandidate {
	maker := duoquiz.NewQuestionMaker(cfg.Oracle(), logger)
	checker := duoquiz.NewQuestionChecker(logger)

	var transcript *duoquiz.LLMLogger
	if cfg.TranscriptDir != "" {
		runID := fmt.Sprintf("cli-%d", time.Now().Unix())
		t, err := duoquiz.NewLLMLogger(cfg.TranscriptDir, runID, duoquiz.GenerationRequest{
			Topic: topic, NumQuestions: count, Difficulty: hint, FolderID: duoquiz.NoFolder,
		})
		if err != nil {
			logger.Warn("failed to open generation transcript", "error", err)
		} else {
			transcript = t
			defer transcript.Close()
		}
	}

	raw, err := maker.GenerateQuestions(ctx, topic, count, hint, transcript)
	if err != nil {
		log.Fatalf("Failed to generate questions: %v", err)
	}
	valid, rejected := checker.CheckBatch(raw, topic, transcript)
	valid = duoquiz.NewQuestionDedup(nil).Filter(valid, logger, transcript)
	if len(valid) > count {
		valid = valid[:count]
	}
	logger.Info("generation complete", "recovered", len(raw), "rejected", len(rejected), "kept", len(valid))
	return valid
}

// persistGames runs the full pipeline against the configured store
func persistGames(ctx context.Context, cfg duoquiz.Config, logger *duoquiz.Logger, req duoquiz.GenerationRequest) []duoquiz.Game {
	store, err := cfg.OpenStore(ctx)
	if err != nil {
		log.Fatalf("Failed to open %s store: %v", cfg.StoreDriver, err)
	}
	defer store.Close(context.Background())

	events, err := cfg.OpenPublisher()
	if err != nil {
		log.Fatal(err)
	}
	defer events.Close()

	generator := duoquiz.NewQuizGenerator(cfg.Oracle(), duoquiz.NewDB(store), events, logger)
	if cfg.TranscriptDir != "" {
		generator.WithTranscripts(cfg.TranscriptDir)
	}

	games, err := generator.GenerateGames(ctx, req)
	if err != nil {
		log.Fatalf("Failed to generate games (%d stored): %v", len(games), err)
	}
	return games
}

func playQuiz(topic string, questions []duoquiz.ValidatedCandidate) {
	fmt.Printf("🎯 Starting interactive quiz on: %s\n", topic)
	fmt.Printf("📝 Questions: %d\n\n", len(questions))

	if len(questions) == 0 {
		fmt.Println("No usable questions were generated.")
		return
	}

	scanner := bufio.NewScanner(os.Stdin)
	letters := []string{"A", "B", "C", "D"}
	score := 0

	for i, q := range questions {
		fmt.Printf("Question %d/%d (%s):\n", i+1, len(questions), q.Topic)
		fmt.Printf("%s\n\n", q.Question)
		for j, option := range q.Options {
			fmt.Printf("%s) %s\n", letters[j], option)
		}
		fmt.Println()

		var answer string
		for {
			fmt.Print("Your answer (A/B/C/D): ")
			if !scanner.Scan() {
				return
			}
			answer = strings.ToUpper(strings.TrimSpace(scanner.Text()))
			if len(answer) == 1 && strings.Contains("ABCD", answer) {
				break
			}
			fmt.Println("Please enter A, B, C, or D")
		}

		chosen := q.Options[strings.Index("ABCD", answer)]
		if chosen == q.CorrectAnswer {
			fmt.Println("✅ Correct!")
			score++
		} else {
			fmt.Printf("❌ Incorrect. The correct answer is: %s\n", q.CorrectAnswer)
		}
		if q.Explanation != "" {
			fmt.Printf("💡 Explanation: %s\n", q.Explanation)
		}
		fmt.Println()
		fmt.Println(strings.Repeat("─", 50))
		fmt.Println()
	}

	percentage := float64(score) / float64(len(questions)) * 100
	fmt.Println("🎉 Quiz completed!")
	fmt.Printf("🏆 Score: %d/%d (%.1f%%)\n", score, len(questions), percentage)
	switch {
	case percentage >= 80:
		fmt.Println("🌟 Excellent work!")
	case percentage >= 60:
		fmt.Println("👍 Good job!")
	default:
		fmt.Println("📚 Keep studying!")
	}
}
