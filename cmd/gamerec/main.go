package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"gamerec/internal/catalog"
	"gamerec/internal/config"
	"gamerec/internal/domain"
	"gamerec/internal/embedding/tfidf"
	"gamerec/internal/features"
	"gamerec/internal/logging"
	"gamerec/internal/service"
	"gamerec/internal/summarizer"
	"gamerec/internal/tui"
	"gamerec/internal/vectorstore/memory"
)

func main() {
	_ = godotenv.Load()

	var cfgPath string
	flag.StringVar(&cfgPath, "config", "", "Path to YAML config file (optional; uses ~/.config/gamerec/config.yaml if not provided)")
	flag.Parse()
	inputs := flag.Args()
	if len(inputs) != 1 {
		fmt.Println("Usage: gamerec [--config=config.yaml] games.csv")
		os.Exit(1)
	}

	var cfg *config.AppConfig
	var err error
	if cfgPath == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(cfgPath)
	}
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, closer, err := logging.New(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, File: cfg.Log.File})
	if err != nil {
		log.Fatalf("failed to init logging: %v", err)
	}
	defer closer.Close()

	// Assemble components
	var newEmbedder func() (domain.Embedder, error)
	switch cfg.Embedder.Type {
	case "tfidf", "":
		tcfg := tfidf.Config{
			NgramMin:  cfg.Embedder.TFIDF.NgramMin,
			NgramMax:  cfg.Embedder.TFIDF.NgramMax,
			StopWords: cfg.Embedder.TFIDF.StopWords,
		}
		if _, err := tfidf.NewEmbedder(tcfg); err != nil {
			log.Fatalf("tfidf embedder config invalid: %v", err)
		}
		newEmbedder = func() (domain.Embedder, error) { return tfidf.NewEmbedder(tcfg) }
	default:
		log.Fatalf("unknown embedder: %s", cfg.Embedder.Type)
	}

	var newStore func() domain.VectorStore
	switch cfg.VectorStore.Type {
	case "memory", "":
		newStore = func() domain.VectorStore { return memory.NewStorage() }
	default:
		log.Fatalf("unknown vector store: %s", cfg.VectorStore.Type)
	}

	var sum domain.Summarizer
	switch cfg.Summarizer.Type {
	case "frequency", "":
		sum = summarizer.NewFrequencySummarizer()
	default:
		log.Fatalf("unknown summarizer: %s", cfg.Summarizer.Type)
	}

	composer := features.NewWeightedComposer(features.Weights{
		Name:        cfg.Features.NameWeight,
		Genres:      cfg.Features.GenresWeight,
		Description: cfg.Features.DescriptionWeight,
		Developer:   cfg.Features.DeveloperWeight,
	})
	loader := catalog.NewLoader(cfg.Catalog.Columns, cfg.Catalog.Delimiter)

	svc, err := service.NewCatalogService(loader, composer, newEmbedder, newStore, sum, service.Options{
		TopN:               cfg.Search.TopN,
		NumRecommendations: cfg.Search.NumRecommendations,
		SummaryMaxEntries:  cfg.Summarizer.MaxEntries,
		FitCacheSize:       cfg.Search.FitCacheSize,
		Logger:             &logger,
	})
	if err != nil {
		log.Fatalf("service init failed: %v", err)
	}
	summary, err := svc.LoadFile(inputs[0])
	if err != nil {
		log.Fatalf("load failed: %v", err)
	}

	m := tui.New(svc, summary, cfg.Search.TopN, cfg.Search.NumRecommendations)
	if _, err := tea.NewProgram(m).Run(); err != nil {
		log.Fatal(err)
	}
}
