package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"gamerec/internal/catalog"
)

// CatalogConfig describes the layout of the uploaded CSV file.
type CatalogConfig struct {
	Columns   catalog.Columns `yaml:"columns"`
	Delimiter string          `yaml:"delimiter"`
}

// FeaturesConfig sets how often each field is repeated in the composed text.
type FeaturesConfig struct {
	NameWeight        int `yaml:"name_weight"`
	GenresWeight      int `yaml:"genres_weight"`
	DescriptionWeight int `yaml:"description_weight"`
	DeveloperWeight   int `yaml:"developer_weight"`
}

// TFIDFConfig configures the TF-IDF embedder.
type TFIDFConfig struct {
	NgramMin  int    `yaml:"ngram_min"`
	NgramMax  int    `yaml:"ngram_max"`
	StopWords string `yaml:"stop_words"`
}

// EmbedderConfig selects and configures the text embedder implementation.
type EmbedderConfig struct {
	Type  string      `yaml:"type"`
	TFIDF TFIDFConfig `yaml:"tfidf"`
}

// VectorStoreConfig selects the vector store implementation.
type VectorStoreConfig struct {
	Type string `yaml:"type"`
}

// SearchConfig holds result-size defaults and the fitted index cache size.
type SearchConfig struct {
	TopN               int `yaml:"top_n"`
	NumRecommendations int `yaml:"num_recommendations"`
	FitCacheSize       int `yaml:"fit_cache_size"`
}

// SummarizerConfig selects and configures the summarizer.
type SummarizerConfig struct {
	Type       string `yaml:"type"`
	MaxEntries int    `yaml:"max_entries"`
}

// LogConfig configures structured logging.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Catalog     CatalogConfig     `yaml:"catalog"`
	Features    FeaturesConfig    `yaml:"features"`
	Embedder    EmbedderConfig    `yaml:"embedder"`
	VectorStore VectorStoreConfig `yaml:"vector_store"`
	Search      SearchConfig      `yaml:"search"`
	Summarizer  SummarizerConfig  `yaml:"summarizer"`
	Log         LogConfig         `yaml:"log"`
}

// Load reads a config from a specified path. If the file does not exist, returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := defaultConfig()
			applyEnvOverrides(cfg)
			return cfg, nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyConfigDefaults(&cfg)
	applyEnvOverrides(&cfg)
	return &cfg, nil
}

// LoadDefault tries ./config.yaml first, then ~/.config/gamerec/config.yaml.
// If neither exists, it writes defaults to ~/.config/gamerec/config.yaml and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "config.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := defaultConfig()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	applyEnvOverrides(cfg)
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "gamerec", "config.yaml"), nil
}

func defaultConfig() *AppConfig {
	cfg := &AppConfig{
		Catalog:     CatalogConfig{Columns: catalog.DefaultColumns(), Delimiter: ","},
		Features:    FeaturesConfig{NameWeight: 3, GenresWeight: 2, DescriptionWeight: 1, DeveloperWeight: 1},
		Embedder:    EmbedderConfig{Type: "tfidf", TFIDF: TFIDFConfig{NgramMin: 1, NgramMax: 2, StopWords: "english"}},
		VectorStore: VectorStoreConfig{Type: "memory"},
		Search:      SearchConfig{TopN: 10, NumRecommendations: 5, FitCacheSize: 4},
		Summarizer:  SummarizerConfig{Type: "frequency", MaxEntries: 5},
		Log:         LogConfig{Level: "info", Format: "console"},
	}
	return cfg
}

func applyConfigDefaults(cfg *AppConfig) {
	d := defaultConfig()
	cols := &cfg.Catalog.Columns
	if cols.Name == "" {
		cols.Name = d.Catalog.Columns.Name
	}
	if cols.Description == "" {
		cols.Description = d.Catalog.Columns.Description
	}
	if cols.Genres == "" {
		cols.Genres = d.Catalog.Columns.Genres
	}
	if cols.Price == "" {
		cols.Price = d.Catalog.Columns.Price
	}
	if cols.Developer == "" {
		cols.Developer = d.Catalog.Columns.Developer
	}
	if cols.Rating == "" {
		cols.Rating = d.Catalog.Columns.Rating
	}
	if cfg.Catalog.Delimiter == "" {
		cfg.Catalog.Delimiter = d.Catalog.Delimiter
	}
	if cfg.Features.NameWeight == 0 {
		cfg.Features.NameWeight = d.Features.NameWeight
	}
	if cfg.Features.GenresWeight == 0 {
		cfg.Features.GenresWeight = d.Features.GenresWeight
	}
	if cfg.Features.DescriptionWeight == 0 {
		cfg.Features.DescriptionWeight = d.Features.DescriptionWeight
	}
	if cfg.Features.DeveloperWeight == 0 {
		cfg.Features.DeveloperWeight = d.Features.DeveloperWeight
	}
	if cfg.Embedder.Type == "tfidf" || cfg.Embedder.Type == "" {
		if cfg.Embedder.TFIDF.NgramMin == 0 {
			cfg.Embedder.TFIDF.NgramMin = d.Embedder.TFIDF.NgramMin
		}
		if cfg.Embedder.TFIDF.NgramMax == 0 {
			cfg.Embedder.TFIDF.NgramMax = d.Embedder.TFIDF.NgramMax
		}
		if cfg.Embedder.TFIDF.StopWords == "" {
			cfg.Embedder.TFIDF.StopWords = d.Embedder.TFIDF.StopWords
		}
	}
	if cfg.Search.TopN == 0 {
		cfg.Search.TopN = d.Search.TopN
	}
	if cfg.Search.NumRecommendations == 0 {
		cfg.Search.NumRecommendations = d.Search.NumRecommendations
	}
	if cfg.Search.FitCacheSize == 0 {
		cfg.Search.FitCacheSize = d.Search.FitCacheSize
	}
	if cfg.Summarizer.MaxEntries == 0 {
		cfg.Summarizer.MaxEntries = d.Summarizer.MaxEntries
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = d.Log.Level
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = d.Log.Format
	}
}

// applyEnvOverrides lets GAMEREC_LOG_* variables (often set via .env) win over the file.
func applyEnvOverrides(cfg *AppConfig) {
	if v := os.Getenv("GAMEREC_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("GAMEREC_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("GAMEREC_LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
}
