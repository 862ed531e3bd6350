package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"duoquiz"
)

func main() {
	var (
		folderID = flag.String("folder", "", "Reconcile only this folder (default: every folder)")
		verbose  = flag.Bool("verbose", false, "Enable verbose debugging output")
	)
	flag.Parse()

	cfg, err := duoquiz.LoadConfig()
	if err != nil {
		log.Fatal(err)
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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

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

	reconciler := duoquiz.NewReconciler(duoquiz.NewDB(store), events, logger)

	var reports []duoquiz.ReconcileReport
	failed := false
	if *folderID != "" {
		report, err := reconciler.ReconcileFolder(ctx, *folderID)
		if err != nil {
			log.Fatalf("Failed to reconcile folder %s: %v", *folderID, err)
		}
		reports = append(reports, report)
	} else {
		reports, err = reconciler.ReconcileAll(ctx)
		if err != nil {
			logger.Error("reconciliation finished with errors", "error", err)
			failed = true
		}
	}

	linked, dangling := 0, 0
	for _, r := range reports {
		linked += len(r.Linked)
		dangling += len(r.Dangling)
	}
	logger.Info("reconciliation complete", "folders", len(reports), "linked", linked, "dangling", dangling)

	data, err := json.MarshalIndent(reports, "", "  ")
	if err != nil {
		log.Fatalf("Failed to marshal reports: %v", err)
	}
	fmt.Println(string(data))

	if failed {
		os.Exit(1)
	}
}
